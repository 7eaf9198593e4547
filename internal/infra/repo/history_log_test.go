package repo

import (
	"sync"
	"testing"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLogRecord(t *testing.T) {
	history := NewHistoryLog()
	query := map[string]string{"status": "open"}
	req := model.NewCapturedRequest("/orders", model.MethodGET, query, nil, nil)
	response := model.JSONBody(map[string]any{"count": 3})

	entry := history.Record(req, response, true)
	req.Query["status"] = "mutated"

	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.RecordedAt.IsZero())
	entries := history.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "open", entries[0].Request.Query["status"], "history keeps a snapshot")
	assert.True(t, model.ResponseEqual(response, entries[0].Response))
	assert.True(t, entries[0].RuleMatched)
}

func TestHistoryLogInvokedTimes(t *testing.T) {
	history := NewHistoryLog()
	record := func(url string, query map[string]string) {
		history.Record(model.NewCapturedRequest(url, model.MethodGET, query, nil, nil), model.NotFoundError(), false)
	}

	record("/orders", map[string]string{"status": "open"})
	record("/payments", nil)
	record("/orders", map[string]string{"status": "open", "page": "2"})
	record("/orders", map[string]string{"status": "closed"})
	record("/payments", map[string]string{"status": "open"})

	tests := []struct {
		name  string
		url   string
		query map[string]string
		want  int
	}{
		{name: "url and query", url: "/orders", query: map[string]string{"status": "open"}, want: 2},
		{name: "url without slash", url: "orders", query: map[string]string{"status": "open"}, want: 2},
		{name: "url only", url: "/orders", want: 3},
		{name: "narrower filter", url: "/orders", query: map[string]string{"page": "2"}, want: 1},
		{name: "never called", url: "/refunds", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, history.InvokedTimes(tt.url, tt.query))
			assert.Equal(t, tt.want > 0, history.WasInvoked(tt.url, tt.query))
		})
	}
}

func TestHistoryLogRequestsAndClear(t *testing.T) {
	history := NewHistoryLog()
	history.Record(model.NewCapturedRequest("/a", model.MethodGET, nil, nil, nil), model.NotFoundError(), false)
	history.Record(model.NewCapturedRequest("/b", model.MethodPOST, nil, nil, []byte(`{}`)), model.JSONBody(nil), true)

	requests := history.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/a", requests[0].URL)
	assert.Equal(t, "/b", requests[1].URL)
	assert.Equal(t, 1, history.Count(func(e model.HistoryEntry) bool { return model.IsNotFound(e.Response) }))

	history.Clear()
	assert.Empty(t, history.Entries())
	assert.Equal(t, 0, history.Len())
}

func TestHistoryLogEntriesAreCopies(t *testing.T) {
	history := NewHistoryLog()
	history.Record(
		model.NewCapturedRequest("/orders", model.MethodGET, map[string]string{"status": "open"}, map[string]string{"X-Tenant": "a"}, []byte(`{}`)),
		model.JSONBody(map[string]any{"count": 3}),
		true,
	)

	entries := history.Entries()
	require.Len(t, entries, 1)
	entries[0].Request.Query["status"] = "closed"
	entries[0].Request.Headers["X-Tenant"] = "b"
	entries[0].Request.Body[0] = '['
	entries[0].Response.(model.JSONResponse).JSON.(map[string]any)["count"] = 99.0

	requests := history.Requests()
	requests[0].URL = "/payments"

	assert.Equal(t, 1, history.InvokedTimes("/orders", map[string]string{"status": "open"}))
	again := history.Entries()[0]
	assert.Equal(t, "a", again.Request.Headers["X-Tenant"])
	assert.Equal(t, []byte(`{}`), again.Request.Body)
	assert.True(t, model.ResponseEqual(model.JSONBody(map[string]any{"count": 3}), again.Response))
}

func TestHistoryLogConcurrentRecord(t *testing.T) {
	history := NewHistoryLog()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			history.Record(model.NewCapturedRequest("/orders", model.MethodGET, nil, nil, nil), model.NotFoundError(), false)
			_ = history.InvokedTimes("/orders", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, history.Len())
	assert.Equal(t, 100, history.InvokedTimes("/orders", nil))
}
