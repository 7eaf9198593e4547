package http_mock_app

import (
	"context"
	"fmt"
	"testing"
	"time"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFixtures serves fixtures from memory.
type mapFixtures map[string]any

func (m mapFixtures) Fixture(_ context.Context, name string) (any, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("fixture %s not found", name)
	}
	return model.CloneJSON(v), nil
}

func strPtr(s string) *string { return &s }

func TestStubDefinitionDTOValidate(t *testing.T) {
	tests := []struct {
		name    string
		dto     StubDefinitionDTO
		wantErr bool
	}{
		{
			name: "valid json",
			dto:  StubDefinitionDTO{URL: "/orders", Method: "get", Response: ResponseDTO{Type: ResponseTypeJSON, JSON: map[string]any{}}},
		},
		{
			name: "valid connection error",
			dto:  StubDefinitionDTO{URL: "/orders", Response: ResponseDTO{Type: ResponseTypeConnectionError}},
		},
		{
			name:    "missing url",
			dto:     StubDefinitionDTO{Response: ResponseDTO{Type: ResponseTypeJSON}},
			wantErr: true,
		},
		{
			name:    "unknown response type",
			dto:     StubDefinitionDTO{URL: "/a", Response: ResponseDTO{Type: "xml"}},
			wantErr: true,
		},
		{
			name:    "unknown method",
			dto:     StubDefinitionDTO{URL: "/a", Method: "TRACE", Response: ResponseDTO{Type: ResponseTypeJSON}},
			wantErr: true,
		},
		{
			name:    "negative delay",
			dto:     StubDefinitionDTO{URL: "/a", Delay: -1, Response: ResponseDTO{Type: ResponseTypeJSON}},
			wantErr: true,
		},
		{
			name:    "error without code",
			dto:     StubDefinitionDTO{URL: "/a", Response: ResponseDTO{Type: ResponseTypeError}},
			wantErr: true,
		},
		{
			name:    "json and fixture",
			dto:     StubDefinitionDTO{URL: "/a", Response: ResponseDTO{Type: ResponseTypeJSON, JSON: map[string]any{}, Fixture: "orders"}},
			wantErr: true,
		},
		{
			name:    "data and dataBase64",
			dto:     StubDefinitionDTO{URL: "/a", Response: ResponseDTO{Type: ResponseTypeData, Data: "x", DataBase64: "eA=="}},
			wantErr: true,
		},
		{
			name:    "bad base64",
			dto:     StubDefinitionDTO{URL: "/a", Response: ResponseDTO{Type: ResponseTypeData, DataBase64: "%%%"}},
			wantErr: true,
		},
		{
			name:    "bad regex",
			dto:     StubDefinitionDTO{URL: "/a", BodyRegex: strPtr("(["), Response: ResponseDTO{Type: ResponseTypeJSON}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dto.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStubDefinitionDTOConvertToStubRule(t *testing.T) {
	ctx := context.Background()
	fixtures := mapFixtures{"orders": map[string]any{"items": []any{}}}

	t.Run("json with pattern", func(t *testing.T) {
		dto := StubDefinitionDTO{
			URL:           "/orders",
			Method:        "post",
			Query:         map[string]string{"status": "open"},
			ExcludedQuery: map[string]*string{"debug": nil},
			Headers:       map[string]string{"X-Tenant": "a"},
			BodyJSON:      map[string]any{"id": 1},
			Delay:         1.5,
			Response:      ResponseDTO{Type: ResponseTypeJSON, JSON: map[string]any{"ok": true}},
		}
		rule, err := dto.ConvertToStubRule(ctx, nil)
		require.NoError(t, err)

		assert.Equal(t, model.MethodPOST, rule.Pattern.Method)
		assert.Equal(t, map[string]string{"status": "open"}, rule.Pattern.Query)
		assert.Contains(t, rule.Pattern.ExcludedQuery, "debug")
		assert.Equal(t, 1500*time.Millisecond, rule.Delay)
		assert.True(t, model.JSONEqual(map[string]any{"id": 1}, rule.Pattern.BodyJSON))
		assert.True(t, model.ResponseEqual(model.JSONBody(map[string]any{"ok": true}), rule.Response))
	})

	t.Run("json without payload is an empty object", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/a", Response: ResponseDTO{Type: ResponseTypeJSON}}
		rule, err := dto.ConvertToStubRule(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, model.MethodANY, rule.Pattern.Method)
		assert.True(t, model.JSONEqual(map[string]any{}, rule.JSON()))
	})

	t.Run("json from fixture", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/orders", Response: ResponseDTO{Type: ResponseTypeJSON, Fixture: "orders"}}
		rule, err := dto.ConvertToStubRule(ctx, fixtures)
		require.NoError(t, err)
		assert.True(t, model.JSONEqual(map[string]any{"items": []any{}}, rule.JSON()))
	})

	t.Run("fixture without loader", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/orders", Response: ResponseDTO{Type: ResponseTypeJSON, Fixture: "orders"}}
		_, err := dto.ConvertToStubRule(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("missing fixture", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/orders", Response: ResponseDTO{Type: ResponseTypeError, Code: 500, Fixture: "nope"}}
		_, err := dto.ConvertToStubRule(ctx, fixtures)
		assert.Error(t, err)
	})

	t.Run("data from base64", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/logo", Response: ResponseDTO{Type: ResponseTypeData, DataBase64: "UE5H", ContentType: "image/png"}}
		rule, err := dto.ConvertToStubRule(ctx, nil)
		require.NoError(t, err)
		assert.True(t, model.ResponseEqual(model.DataBody([]byte("PNG"), "image/png"), rule.Response))
	})

	t.Run("error with fixture payload", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/pay", Response: ResponseDTO{Type: ResponseTypeError, Code: 402, ReasonPhrase: "Payment Required", Fixture: "orders"}}
		rule, err := dto.ConvertToStubRule(ctx, fixtures)
		require.NoError(t, err)
		errResp, ok := rule.Response.(model.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, 402, errResp.Code)
		assert.True(t, errResp.HasJSON())
	})

	t.Run("connection error", func(t *testing.T) {
		dto := StubDefinitionDTO{URL: "/down", Response: ResponseDTO{Type: ResponseTypeConnectionError}}
		rule, err := dto.ConvertToStubRule(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, model.ConnectionFailure{}, rule.Response)
	})
}

func TestNewStubDefinitionDTORendersRule(t *testing.T) {
	rule := model.NewStub(
		model.RequestPattern{URL: "/logo", Method: model.MethodGET, BodyRegex: strPtr("^a")},
		model.DataBody([]byte("PNG"), "image/png"),
	).Modify(model.WithDelay(250 * time.Millisecond))

	dto := NewStubDefinitionDTO(rule)
	assert.Equal(t, "/logo", dto.URL)
	assert.Equal(t, "GET", dto.Method)
	assert.Equal(t, 0.25, dto.Delay)
	assert.Equal(t, ResponseDTO{Type: ResponseTypeData, DataBase64: "UE5H", ContentType: "image/png"}, dto.Response)

	back, err := dto.ConvertToStubRule(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, back.Pattern.Equal(rule.Pattern))
	assert.True(t, model.ResponseEqual(rule.Response, back.Response))
	assert.Equal(t, rule.Delay, back.Delay)
}
