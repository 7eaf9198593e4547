package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	configs "go_stub_server/internal/infra/config"
	"go_stub_server/utils"

	"github.com/avast/retry-go/v4"
	"github.com/go-redis/redis/v8"
)

type redisFixtureSource struct {
	redisClient *redis.Client
	keyPrefix   string
	config      *configs.FixtureConfig
}

var _ FixtureStoreIface = (*redisFixtureSource)(nil)

func NewRedisClient(c *configs.RedisConfig) *redis.Client {
	// 配置 Redis 连接参数
	client := redis.NewClient(&redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.Database,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolTimeout:  c.PoolTimeout,
		IdleTimeout:  c.IdleTimeout,
	})

	// 测试连接是否成功
	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	utils.GetLogger().Infof("connected to redis at %s", c.Addr())
	return client
}

func NewRedisFixtureSource(redisClient *redis.Client, config *configs.FixtureConfig) FixtureStoreIface {
	return &redisFixtureSource{
		redisClient: redisClient,
		keyPrefix:   config.Redis.KeyPrefix,
		config:      config,
	}
}

func (r *redisFixtureSource) key(name string) string {
	return r.keyPrefix + fixtureName(strings.TrimPrefix(name, "/"))
}

func (r *redisFixtureSource) ReadFixture(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := retry.Do(
		func() error {
			var err error
			data, err = r.redisClient.Get(ctx, r.key(name)).Bytes()
			return err
		},
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, redis.Nil) }),
		retry.LastErrorOnly(true),
		retry.Attempts(uint(r.config.RetryCount)),
		retry.Delay(r.config.RetryDelay),
	)
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %s from redis: %w", name, err)
	}
	return data, nil
}

func (r *redisFixtureSource) ListFixtures(ctx context.Context) ([]string, error) {
	var names []string
	iter := r.redisClient.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), r.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan fixtures: %w", err)
	}
	return names, nil
}

func (r *redisFixtureSource) SaveFixture(ctx context.Context, name string, data []byte) error {
	return retry.Do(
		func() error {
			return r.redisClient.Set(ctx, r.key(name), data, 0).Err()
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.config.RetryCount)),
		retry.Delay(r.config.RetryDelay),
	)
}
