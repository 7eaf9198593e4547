package repo

import (
	"slices"
	"sync"

	model "go_stub_server/internal/domain/model/stub_rule"
)

// StubRegistryIface is the ordered, pattern-unique rule collection owned by
// one engine.
type StubRegistryIface interface {
	// Register replaces any rule with an equal pattern, then appends rule.
	Register(rule model.StubRule)
	// Unregister removes every rule whose pattern equals rule's pattern.
	Unregister(rule model.StubRule)
	Clear()
	// Snapshot returns a point-in-time copy safe to iterate concurrently.
	// Rules share their payloads with the registry and are read only; clone
	// a rule before handing it out.
	Snapshot() []model.StubRule
	Len() int
}

type stubRegistryImpl struct {
	mu    sync.Mutex
	rules []model.StubRule
}

var _ StubRegistryIface = (*stubRegistryImpl)(nil)

func NewStubRegistry() StubRegistryIface {
	return &stubRegistryImpl{}
}

func (r *stubRegistryImpl) Register(rule model.StubRule) {
	rule = rule.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = removeByPattern(r.rules, rule.Pattern)
	r.rules = append(r.rules, rule)
}

func (r *stubRegistryImpl) Unregister(rule model.StubRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = removeByPattern(r.rules, rule.Pattern)
}

func (r *stubRegistryImpl) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = nil
}

func (r *stubRegistryImpl) Snapshot() []model.StubRule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rules)
}

func (r *stubRegistryImpl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rules)
}

// removeByPattern filters in place; callers hold the lock.
func removeByPattern(rules []model.StubRule, pattern model.RequestPattern) []model.StubRule {
	return slices.DeleteFunc(rules, func(existing model.StubRule) bool {
		return existing.Pattern.Equal(pattern)
	})
}
