package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/internal/infra/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

var _ model.StubLogger = (*eventRecorder)(nil)

func (r *eventRecorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) StartProcessing(req model.RequestInfo) { r.add("start " + req.GetURL()) }
func (r *eventRecorder) NotFound(req model.RequestInfo)        { r.add("notFound " + req.GetURL()) }
func (r *eventRecorder) JSONResponseFound()                    { r.add("json") }
func (r *eventRecorder) DataResponseFound()                    { r.add("data") }
func (r *eventRecorder) ErrorResponseFound(withJSON bool)      { r.add(fmt.Sprintf("error json=%v", withJSON)) }
func (r *eventRecorder) ConnectionErrorResponseFound()         { r.add("connectionError") }
func (r *eventRecorder) InvalidBodyRegex(p string, err error)  { r.add("invalidRegex " + p) }

func newTestEngine(logger model.StubLogger) *MockEngine {
	return NewMockEngine(repo.NewStubRegistry(), repo.NewHistoryLog(), logger)
}

func get(url string, query map[string]string) *model.CapturedRequest {
	return model.NewCapturedRequest(url, model.MethodGET, query, nil, nil)
}

func TestMockEngineOrdersScenario(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(model.NewStub(
		model.RequestPattern{URL: "orders", Method: model.MethodGET, Query: map[string]string{"status": "open"}},
		model.JSONBody(map[string]any{"count": 3}),
	))

	result := engine.Handle(get("/orders", map[string]string{"status": "open"}))
	require.True(t, result.Matched())
	assert.True(t, model.ResponseEqual(model.JSONBody(map[string]any{"count": 3}), result.Response))
	assert.Equal(t, 1, engine.InvokedTimes("orders", map[string]string{"status": "open"}))

	result = engine.Handle(get("/orders", map[string]string{"status": "closed"}))
	assert.False(t, result.Matched())
	assert.True(t, model.IsNotFound(result.Response))
	assert.Equal(t, 2, len(engine.History()))
}

func TestMockEngineHandleRecordsMatchedResponse(t *testing.T) {
	engine := newTestEngine(nil)
	rule := model.ErrorStub("/pay", nil, nil, model.ErrorWithJSON(map[string]any{"code": "E1"}, 402, "Payment Required"), model.WithDelay(time.Second))
	engine.Register(rule)

	result := engine.Handle(model.NewCapturedRequest("/pay", model.MethodPOST, nil, nil, []byte(`{}`)))

	require.NotNil(t, result.Rule)
	assert.Equal(t, time.Second, result.Delay())
	assert.True(t, model.ResponseEqual(rule.Response, result.Response))

	history := engine.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].RuleMatched)
	assert.True(t, model.ResponseEqual(rule.Response, history[0].Response))
	assert.Equal(t, "/pay", history[0].Request.URL)
}

func TestMockEngineHandleResultIsACopy(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(model.JSONStub("/a", nil, nil, map[string]any{"n": 1}))

	first := engine.Handle(get("/a", nil))
	first.Response.(model.JSONResponse).JSON.(map[string]any)["n"] = 99
	first.Rule.Pattern.URL = "/b"
	engine.Rules()[0].Response.(model.JSONResponse).JSON.(map[string]any)["n"] = 42

	second := engine.Handle(get("/a", nil))
	require.True(t, second.Matched())
	assert.True(t, model.ResponseEqual(model.JSONBody(map[string]any{"n": 1}), second.Response))
	assert.Equal(t, "/a", engine.Rules()[0].Pattern.URL)

	history := engine.History()
	require.Len(t, history, 2)
	assert.True(t, model.ResponseEqual(model.JSONBody(map[string]any{"n": 1}), history[0].Response))
}

func TestMockEngineHistoryCannotBeRewritten(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Handle(get("/orders", map[string]string{"status": "open"}))

	engine.History()[0].Request.Query["status"] = "closed"
	engine.RequestsHistory()[0].Query["status"] = "closed"

	assert.Equal(t, 1, engine.InvokedTimes("/orders", map[string]string{"status": "open"}))
	assert.True(t, engine.WasInvoked("/orders", map[string]string{"status": "open"}))
}

func TestMockEngineUnmatchedRequest(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(model.JSONStub("/orders", nil, nil, nil))

	result := engine.Handle(get("/unknown", nil))

	assert.Nil(t, result.Rule)
	assert.Equal(t, time.Duration(0), result.Delay())
	assert.Equal(t, model.NotFoundError(), result.Response)
	history := engine.History()
	require.Len(t, history, 1)
	assert.False(t, history[0].RuleMatched)
	assert.True(t, model.IsNotFound(history[0].Response))
}

func TestMockEngineRegisterEqualPatternKeepsLater(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(
		model.JSONStub("/orders", nil, nil, map[string]any{"v": 1}),
		model.JSONStub("/orders", nil, nil, map[string]any{"v": 2}),
	)

	require.Len(t, engine.Rules(), 1)
	result := engine.Handle(get("/orders", nil))
	assert.True(t, model.JSONEqual(map[string]any{"v": 2}, result.Rule.JSON()))
}

func TestMockEngineInvokedTimesIgnoresOrder(t *testing.T) {
	engine := newTestEngine(nil)
	filter := map[string]string{"status": "open"}

	requests := []*model.CapturedRequest{
		get("/payments", nil),
		get("/orders", map[string]string{"status": "open"}),
		get("/refunds", filter),
		get("/orders", map[string]string{"status": "open", "page": "3"}),
		get("/payments", filter),
		get("/orders", map[string]string{"status": "open"}),
	}
	for _, req := range requests {
		engine.Handle(req)
	}

	assert.Equal(t, 3, engine.InvokedTimes("/orders", filter))
	assert.True(t, engine.WasInvoked("/refunds", nil))
	assert.False(t, engine.WasInvoked("/orders", map[string]string{"status": "closed"}))
	assert.Len(t, engine.RequestsHistory(), len(requests))
}

func TestMockEngineClear(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(model.JSONStub("/orders", nil, nil, nil), model.JSONStub("/payments", nil, nil, nil))
	engine.Handle(get("/orders", nil))

	engine.ClearHistory()
	assert.Empty(t, engine.History())

	engine.ClearRules()
	for _, url := range []string{"/orders", "/payments"} {
		assert.True(t, model.IsNotFound(engine.Handle(get(url, nil)).Response))
	}
	assert.Len(t, engine.History(), 2)
}

func TestMockEngineUnregister(t *testing.T) {
	engine := newTestEngine(nil)
	orders := model.JSONStub("/orders", nil, nil, nil)
	engine.Register(orders, model.JSONStub("/payments", nil, nil, nil))

	engine.Unregister(orders)

	assert.True(t, model.IsNotFound(engine.Handle(get("/orders", nil)).Response))
	assert.False(t, model.IsNotFound(engine.Handle(get("/payments", nil)).Response))
}

func TestMockEngineHistoryIsIsolatedFromLaterChanges(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(model.JSONStub("/orders", nil, nil, map[string]any{"count": 1}))
	engine.Handle(get("/orders", nil))

	engine.Register(model.JSONStub("/orders", nil, nil, map[string]any{"count": 2}))
	engine.ClearRules()

	history := engine.History()
	require.Len(t, history, 1)
	assert.True(t, model.ResponseEqual(model.JSONBody(map[string]any{"count": 1}), history[0].Response))
}

func TestMockEngineLoggerEvents(t *testing.T) {
	recorder := &eventRecorder{}
	engine := newTestEngine(recorder)
	engine.Register(
		model.JSONStub("/json", nil, nil, nil),
		model.NewStub(model.RequestPattern{URL: "/data"}, model.DataBody([]byte("pdf"), "application/pdf")),
		model.ErrorStub("/error", nil, nil, model.InternalServerError()),
		model.ConnectionErrorStub("/drop", nil, nil),
		model.NewStub(model.RequestPattern{URL: "/regex", BodyRegex: func() *string { s := "(["; return &s }()}, model.JSONBody(nil)),
	)

	for _, url := range []string{"/json", "/data", "/error", "/drop", "/missing", "/regex"} {
		engine.Handle(get(url, nil))
	}

	assert.Equal(t, []string{
		"start /json", "json",
		"start /data", "data",
		"start /error", "error json=false",
		"start /drop", "connectionError",
		"start /missing", "notFound /missing",
		"start /regex", "invalidRegex ([", "notFound /regex",
	}, recorder.events)
}

func TestMockEngineConcurrentHandle(t *testing.T) {
	engine := newTestEngine(nil)
	engine.Register(model.JSONStub("/orders", nil, nil, nil))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			engine.Handle(get("/orders", nil))
		}()
		go func(i int) {
			defer wg.Done()
			engine.Register(model.JSONStub(fmt.Sprintf("/other/%d", i), nil, nil, nil))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, engine.InvokedTimes("/orders", nil))
	assert.Len(t, engine.Rules(), 51)
}
