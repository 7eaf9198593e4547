package services

import (
	"go_stub_server/internal/domain/iface"
	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/internal/infra/repo"
)

// MockEngine composes the registry, the matcher and the history log. It owns
// no goroutines; every call runs on the caller's goroutine.
type MockEngine struct {
	registry repo.StubRegistryIface
	history  repo.HistoryLogIface
	matcher  *model.Matcher
	logger   model.StubLogger
}

var _ iface.StubEngine = (*MockEngine)(nil)

// NewMockEngine wires an engine. A nil logger discards events.
func NewMockEngine(registry repo.StubRegistryIface, history repo.HistoryLogIface, logger model.StubLogger) *MockEngine {
	logger = model.OrNop(logger)
	return &MockEngine{
		registry: registry,
		history:  history,
		matcher:  model.NewMatcher(logger),
		logger:   logger,
	}
}

// Handle selects the best rule for req and records the outcome. Unmatched
// requests get the synthetic 404 and are recorded too. Delays are left to
// the transport.
func (e *MockEngine) Handle(req model.RequestInfo) model.HandleResult {
	e.logger.StartProcessing(req)

	rule, ok := SelectBestRule(e.matcher, e.registry.Snapshot(), req)
	if !ok {
		e.logger.NotFound(req)
		response := model.NotFoundError()
		e.history.Record(req, response, false)
		return model.HandleResult{Response: response}
	}

	// the snapshot shares payloads with the registry
	rule = rule.Clone()
	e.logFound(rule.Response)
	e.history.Record(req, rule.Response, true)
	return model.HandleResult{Rule: &rule, Response: rule.Response}
}

func (e *MockEngine) logFound(response model.ResponseSpec) {
	switch r := response.(type) {
	case model.JSONResponse:
		e.logger.JSONResponseFound()
	case model.DataResponse:
		e.logger.DataResponseFound()
	case model.ErrorResponse:
		e.logger.ErrorResponseFound(r.HasJSON())
	case model.ConnectionFailure:
		e.logger.ConnectionErrorResponseFound()
	}
}

func (e *MockEngine) Register(rules ...model.StubRule) {
	for _, rule := range rules {
		e.registry.Register(rule)
	}
}

func (e *MockEngine) Unregister(rules ...model.StubRule) {
	for _, rule := range rules {
		e.registry.Unregister(rule)
	}
}

func (e *MockEngine) ClearRules() {
	e.registry.Clear()
}

func (e *MockEngine) ClearHistory() {
	e.history.Clear()
}

func (e *MockEngine) Rules() []model.StubRule {
	rules := e.registry.Snapshot()
	for i := range rules {
		rules[i] = rules[i].Clone()
	}
	return rules
}

func (e *MockEngine) History() []model.HistoryEntry {
	return e.history.Entries()
}

func (e *MockEngine) RequestsHistory() []*model.CapturedRequest {
	return e.history.Requests()
}

func (e *MockEngine) WasInvoked(url string, query map[string]string) bool {
	return e.history.WasInvoked(url, query)
}

func (e *MockEngine) InvokedTimes(url string, query map[string]string) int {
	return e.history.InvokedTimes(url, query)
}
