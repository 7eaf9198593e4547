package storage

import (
	"context"
	"fmt"

	configs "go_stub_server/internal/infra/config"

	"github.com/google/wire"
)

// StorageSet is a Wire provider set that includes all storage-related providers
var StorageSet = wire.NewSet(
	NewFixtureConfig,
	NewFixtureSource,
)

func NewFixtureConfig(c *configs.StubConfig) *configs.FixtureConfig {
	return &c.Fixtures
}

// NewFixtureSource picks the fixture backend named by the config.
func NewFixtureSource(c *configs.FixtureConfig) (FixtureSourceIface, error) {
	switch c.Source {
	case configs.FixtureSourceDir, "":
		return NewDirFixtureSourceFromPath(c.Dir), nil
	default:
		return NewFixtureStore(c)
	}
}

// NewFixtureStore returns the writable backend of the config. Directories are
// read-only, so only redis, s3 and mysql qualify.
func NewFixtureStore(c *configs.FixtureConfig) (FixtureStoreIface, error) {
	switch c.Source {
	case configs.FixtureSourceRedis:
		return NewRedisFixtureSource(NewRedisClient(&c.Redis), c), nil
	case configs.FixtureSourceS3:
		client, err := NewS3Client(context.Background(), &c.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		return NewS3FixtureSource(client, c), nil
	case configs.FixtureSourceMySQL:
		return NewMySQLFixtureSource(NewMySQLClient(&c.MySQL), c)
	case configs.FixtureSourceDir, "":
		return nil, fmt.Errorf("fixtures source %q is read-only", configs.FixtureSourceDir)
	default:
		return nil, fmt.Errorf("unknown fixtures source %q", c.Source)
	}
}
