package services

import (
	"go_stub_server/internal/domain/iface"
	"go_stub_server/internal/infra/repo"

	"github.com/google/wire"
)

var ServiceSet = wire.NewSet(
	repo.Reposet,
	NewMockEngine,
	wire.Bind(new(iface.StubEngine), new(*MockEngine)),
	NewStubManageService,
	wire.Bind(new(iface.StubService), new(*StubManageService)),
	NewStubFactory,
)
