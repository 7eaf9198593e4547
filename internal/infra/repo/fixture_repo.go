package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	model "go_stub_server/internal/domain/model/stub_rule"
	configs "go_stub_server/internal/infra/config"
	"go_stub_server/internal/infra/storage"
	"go_stub_server/utils"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
)

// FixtureRepoIface loads named JSON fixtures and caches the parsed values.
type FixtureRepoIface interface {
	// Load returns a private copy of the parsed fixture.
	Load(ctx context.Context, name string) (any, error)
	// Preload warms the cache for names, or for every fixture the source
	// lists when names is empty.
	Preload(ctx context.Context, names ...string) error
	// Invalidate drops cached fixtures; no names drops everything.
	Invalidate(names ...string)
}

// fixtureRepoImpl 实现了 FixtureRepoIface (singleflight 并发控制, ants pool 预加载)
type fixtureRepoImpl struct {
	source   storage.FixtureSourceIface
	config   *configs.FixtureConfig
	taskPool *ants.Pool
	sfGroup  singleflight.Group

	mu    sync.RWMutex
	cache map[string]any
}

var _ FixtureRepoIface = (*fixtureRepoImpl)(nil)

func NewFixtureRepo(source storage.FixtureSourceIface, config *configs.FixtureConfig) FixtureRepoIface {
	taskPool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		panic(fmt.Errorf("failed to create ants pool: %w", err))
	}

	return &fixtureRepoImpl{
		source:   source,
		config:   config,
		taskPool: taskPool,
		cache:    make(map[string]any),
	}
}

func (r *fixtureRepoImpl) Load(ctx context.Context, name string) (any, error) {
	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return model.CloneJSON(cached), nil
	}

	// 使用 singleflight 防止并发重复读取
	data, err, _ := r.sfGroup.Do("fixture_"+name, func() (interface{}, error) {
		raw, err := r.source.ReadFixture(ctx, name)
		if err != nil {
			return nil, err
		}
		value, err := model.ParseJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", name, err)
		}

		r.mu.Lock()
		r.cache[name] = value
		r.mu.Unlock()
		utils.GetLogger().Debugf("fixture loaded: %s", name)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return model.CloneJSON(data), nil
}

func (r *fixtureRepoImpl) Preload(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		listed, err := r.source.ListFixtures(ctx)
		if err != nil {
			return fmt.Errorf("failed to list fixtures: %w", err)
		}
		names = listed
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, name := range names {
		name := name
		wg.Add(1)
		if err := r.taskPool.Submit(func() {
			defer wg.Done()
			if _, err := r.Load(ctx, name); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("failed to submit preload task: %w", err))
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	utils.GetLogger().Infof("preloaded %d fixtures", len(names))
	return nil
}

func (r *fixtureRepoImpl) Invalidate(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(names) == 0 {
		r.cache = make(map[string]any)
		return
	}
	for _, name := range names {
		delete(r.cache, name)
	}
}
