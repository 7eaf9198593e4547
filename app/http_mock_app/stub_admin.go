package http_mock_app

import (
	"context"
	"fmt"

	"go_stub_server/internal/domain/iface"
	model "go_stub_server/internal/domain/model/stub_rule"
)

// StubAdmin implements the admin operations independent of the REST layer.
type StubAdmin struct {
	engine   iface.StubEngine
	service  iface.StubService
	fixtures FixtureLoader
}

func NewStubAdmin(engine iface.StubEngine, service iface.StubService, fixtures FixtureLoader) *StubAdmin {
	return &StubAdmin{engine: engine, service: service, fixtures: fixtures}
}

// StubListRequest carries one or more stub definitions.
type StubListRequest struct {
	Stubs []StubDefinitionDTO `json:"stubs" validate:"required,min=1,dive"`
}

// InvokedResponse answers GET /history/invoked.
type InvokedResponse struct {
	URL     string            `json:"url"`
	Query   map[string]string `json:"query"`
	Times   int               `json:"times"`
	Invoked bool              `json:"invoked"`
}

func (a *StubAdmin) convert(ctx context.Context, req *StubListRequest) ([]model.StubRule, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	rules := make([]model.StubRule, 0, len(req.Stubs))
	for i := range req.Stubs {
		def := &req.Stubs[i]
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("stub %d: %w", i, err)
		}
		rule, err := def.ConvertToStubRule(ctx, a.fixtures)
		if err != nil {
			return nil, fmt.Errorf("stub %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (a *StubAdmin) RegisterStubs(ctx context.Context, req *StubListRequest) (int, error) {
	rules, err := a.convert(ctx, req)
	if err != nil {
		return 0, err
	}
	if err := a.service.CreateStubs(ctx, rules...); err != nil {
		return 0, err
	}
	return len(rules), nil
}

func (a *StubAdmin) RemoveStubs(ctx context.Context, req *StubListRequest) (int, error) {
	rules, err := a.convert(ctx, req)
	if err != nil {
		return 0, err
	}
	if err := a.service.RemoveStubs(ctx, rules...); err != nil {
		return 0, err
	}
	return len(rules), nil
}

func (a *StubAdmin) ClearStubs() {
	a.engine.ClearRules()
}

func (a *StubAdmin) ListStubs() []StubDefinitionDTO {
	rules := a.engine.Rules()
	out := make([]StubDefinitionDTO, 0, len(rules))
	for _, rule := range rules {
		out = append(out, NewStubDefinitionDTO(rule))
	}
	return out
}

func (a *StubAdmin) History() []HistoryEntryDTO {
	entries := a.engine.History()
	out := make([]HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewHistoryEntryDTO(e))
	}
	return out
}

func (a *StubAdmin) ClearHistory() {
	a.engine.ClearHistory()
}

func (a *StubAdmin) Invoked(url string, query map[string]string) (InvokedResponse, error) {
	if url == "" {
		return InvokedResponse{}, fmt.Errorf("missing 'url' query parameter")
	}
	if query == nil {
		query = map[string]string{}
	}
	times := a.engine.InvokedTimes(url, query)
	return InvokedResponse{URL: url, Query: query, Times: times, Invoked: times > 0}, nil
}
