package repo

import (
	"go_stub_server/internal/infra/storage"

	"github.com/google/wire"
)

var Reposet = wire.NewSet(
	storage.StorageSet,
	NewStubRegistry,
	NewHistoryLog,
	NewFixtureRepo,
)
