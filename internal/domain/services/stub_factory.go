package services

import (
	"context"
	"fmt"

	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/internal/infra/repo"
)

// StubFactory builds rules whose payloads come from JSON fixtures.
type StubFactory struct {
	fixtures repo.FixtureRepoIface
}

func NewStubFactory(fixtures repo.FixtureRepoIface) *StubFactory {
	return &StubFactory{fixtures: fixtures}
}

// Fixture returns a private copy of the named fixture.
func (f *StubFactory) Fixture(ctx context.Context, name string) (any, error) {
	json, err := f.fixtures.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture %s: %w", name, err)
	}
	return json, nil
}

// DefaultStub answers url with the JSON of fixtureName.
func (f *StubFactory) DefaultStub(ctx context.Context, url string, query map[string]string, excludedQuery map[string]*string, fixtureName string, modifiers ...model.Modifier) (model.StubRule, error) {
	json, err := f.Fixture(ctx, fixtureName)
	if err != nil {
		return model.StubRule{}, err
	}
	return model.JSONStub(url, query, excludedQuery, json, modifiers...), nil
}

// ErrorFromFixture builds an error response carrying the fixture as payload.
func (f *StubFactory) ErrorFromFixture(ctx context.Context, fixtureName string, code int, reasonPhrase string) (model.ErrorResponse, error) {
	json, err := f.Fixture(ctx, fixtureName)
	if err != nil {
		return model.ErrorResponse{}, err
	}
	return model.ErrorWithJSON(json, code, reasonPhrase), nil
}

// MustDefaultStub is DefaultStub for test setup; a missing or broken fixture panics.
func (f *StubFactory) MustDefaultStub(ctx context.Context, url string, query map[string]string, excludedQuery map[string]*string, fixtureName string, modifiers ...model.Modifier) model.StubRule {
	rule, err := f.DefaultStub(ctx, url, query, excludedQuery, fixtureName, modifiers...)
	if err != nil {
		panic(err)
	}
	return rule
}

func (f *StubFactory) MustErrorFromFixture(ctx context.Context, fixtureName string, code int, reasonPhrase string) model.ErrorResponse {
	errResp, err := f.ErrorFromFixture(ctx, fixtureName, code, reasonPhrase)
	if err != nil {
		panic(err)
	}
	return errResp
}
