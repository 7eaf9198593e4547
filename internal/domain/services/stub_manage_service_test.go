package services

import (
	"context"
	"testing"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/stretchr/testify/assert"
)

func TestStubManageServiceCreateStubs(t *testing.T) {
	valid := model.JSONStub("/orders", nil, nil, map[string]any{"count": 1})

	tests := []struct {
		name      string
		rules     []model.StubRule
		wantErr   bool
		wantRules int
	}{
		{
			name:      "valid rules",
			rules:     []model.StubRule{valid, model.ErrorStub("/pay", nil, nil, model.NewError(402, "Payment Required"))},
			wantRules: 2,
		},
		{
			name:    "missing url",
			rules:   []model.StubRule{valid, model.JSONStub("", nil, nil, nil)},
			wantErr: true,
		},
		{
			name:    "bad method",
			rules:   []model.StubRule{model.NewStub(model.RequestPattern{URL: "/a", Method: "FETCH"}, model.JSONBody(nil))},
			wantErr: true,
		},
		{
			name:    "missing response",
			rules:   []model.StubRule{{Pattern: model.RequestPattern{URL: "/a"}}},
			wantErr: true,
		},
		{
			name:    "bad status code",
			rules:   []model.StubRule{model.ErrorStub("/a", nil, nil, model.NewError(42, "Nope"))},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(nil)
			service := NewStubManageService(engine)

			err := service.CreateStubs(context.Background(), tt.rules...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, engine.Rules(), "nothing is registered on validation failure")
				return
			}
			assert.NoError(t, err)
			assert.Len(t, engine.Rules(), tt.wantRules)
		})
	}
}

func TestStubManageServiceRemoveStubs(t *testing.T) {
	engine := newTestEngine(nil)
	service := NewStubManageService(engine)
	orders := model.JSONStub("/orders", nil, nil, nil)
	assert.NoError(t, service.CreateStubs(context.Background(), orders))

	assert.NoError(t, service.RemoveStubs(context.Background(), orders))
	assert.Empty(t, engine.Rules())
}
