package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrFixtureNotFound is returned (wrapped) when a source has no fixture with
// the requested name.
var ErrFixtureNotFound = errors.New("fixture not found")

// FixtureSourceIface reads raw JSON fixtures by name. Names have no
// extension: "orders/list" resolves to "orders/list.json" for file based
// sources and to "<prefix>orders/list" for key value sources.
type FixtureSourceIface interface {
	ReadFixture(ctx context.Context, name string) ([]byte, error)
	ListFixtures(ctx context.Context) ([]string, error)
}

// FixtureStoreIface is a remote source that can also be seeded.
type FixtureStoreIface interface {
	FixtureSourceIface
	SaveFixture(ctx context.Context, name string, data []byte) error
}

const fixtureExt = ".json"

func fixtureFileName(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if path.Ext(name) == "" {
		name += fixtureExt
	}
	return name
}

func fixtureName(fileName string) string {
	return strings.TrimSuffix(fileName, fixtureExt)
}
