package services

import (
	"testing"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(url string, query, headers map[string]string) model.RequestPattern {
	return model.RequestPattern{URL: url, Method: model.MethodANY, Query: query, Headers: headers}
}

func TestSelectBestRule(t *testing.T) {
	req := model.NewCapturedRequest("/orders", model.MethodGET,
		map[string]string{"status": "open", "page": "1", "sort": "asc"},
		map[string]string{"X-Client": "ios", "Accept": "application/json"},
		nil)

	tests := []struct {
		name     string
		patterns []model.RequestPattern
		wantIdx  int
		wantOK   bool
	}{
		{
			name:     "no rules",
			patterns: nil,
			wantOK:   false,
		},
		{
			name: "none match",
			patterns: []model.RequestPattern{
				pattern("/payments", nil, nil),
				pattern("/orders", map[string]string{"status": "closed"}, nil),
			},
			wantOK: false,
		},
		{
			name: "more query constraints win",
			patterns: []model.RequestPattern{
				pattern("/orders", map[string]string{"status": "open"}, nil),
				pattern("/orders", map[string]string{"status": "open", "page": "1"}, nil),
				pattern("/orders", nil, nil),
			},
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name: "header count dominates query count",
			patterns: []model.RequestPattern{
				pattern("/orders", map[string]string{"status": "open", "page": "1", "sort": "asc"}, nil),
				pattern("/orders", map[string]string{"status": "open"}, map[string]string{"X-Client": "ios"}),
			},
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name: "query count breaks ties between equal header counts",
			patterns: []model.RequestPattern{
				pattern("/orders", map[string]string{"status": "open"}, map[string]string{"X-Client": "ios"}),
				pattern("/orders", map[string]string{"status": "open", "page": "1"}, map[string]string{"Accept": "application/json"}),
			},
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name: "registration order breaks full ties",
			patterns: []model.RequestPattern{
				pattern("/orders", map[string]string{"status": "open"}, nil),
				pattern("orders", map[string]string{"page": "1"}, nil),
			},
			wantIdx: 0,
			wantOK:  true,
		},
	}

	matcher := model.NewMatcher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := make([]model.StubRule, 0, len(tt.patterns))
			for i, p := range tt.patterns {
				rules = append(rules, model.NewStub(p, model.JSONBody(map[string]any{"idx": i})))
			}

			got, ok := SelectBestRule(matcher, rules, req)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.True(t, model.JSONEqual(map[string]any{"idx": tt.wantIdx}, got.JSON()))
		})
	}
}

func TestSelectBestRuleKeepsInputOrder(t *testing.T) {
	rules := []model.StubRule{
		model.NewStub(pattern("/a", nil, nil), model.JSONBody(nil)),
		model.NewStub(pattern("/a", nil, map[string]string{"X-A": "1"}), model.JSONBody(nil)),
	}
	req := model.NewCapturedRequest("/a", model.MethodGET, nil, map[string]string{"X-A": "1"}, nil)

	_, ok := SelectBestRule(model.NewMatcher(nil), rules, req)
	require.True(t, ok)
	assert.Empty(t, rules[0].Pattern.Headers, "input slice is not reordered")
}
