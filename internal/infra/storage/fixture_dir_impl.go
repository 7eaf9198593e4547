package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// dirFixtureSource serves fixtures from a file tree, either a directory on
// disk or an embedded bundle.
type dirFixtureSource struct {
	fsys fs.FS
}

var _ FixtureSourceIface = (*dirFixtureSource)(nil)

func NewDirFixtureSource(fsys fs.FS) FixtureSourceIface {
	return &dirFixtureSource{fsys: fsys}
}

func NewDirFixtureSourceFromPath(dir string) FixtureSourceIface {
	return NewDirFixtureSource(os.DirFS(dir))
}

func (s *dirFixtureSource) ReadFixture(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, fixtureFileName(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	return data, nil
}

func (s *dirFixtureSource) ListFixtures(ctx context.Context) ([]string, error) {
	matches, err := doublestar.Glob(s.fsys, "**/*"+fixtureExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, fixtureName(m))
	}
	return names, nil
}
