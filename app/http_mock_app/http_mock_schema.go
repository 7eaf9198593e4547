package http_mock_app

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go_stub_server/utils"

	"github.com/go-chassis/go-chassis/v2/pkg/metrics"
	rf "github.com/go-chassis/go-chassis/v2/server/restful"
)

// StubAdminController exposes StubAdmin as a go-chassis rest schema.
type StubAdminController struct {
	Admin *StubAdmin
}

func NewStubAdminController(admin *StubAdmin) *StubAdminController {
	return &StubAdminController{
		Admin: admin,
	}
}

// RegisterAdminMetrics creates the request counter the admin routes feed.
// Call it after chassis.Init.
func RegisterAdminMetrics() error {
	err := metrics.CreateCounter(metrics.CounterOpts{
		Name:   "request_counter",
		Help:   "admin api requests",
		Labels: []string{"method", "endpoint"},
	})
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type countResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// begin records the request metric and installs the panic guard.
func (c *StubAdminController) begin(b *rf.Context, name string) func() {
	logger := utils.GetLogger()
	logger.Infof("%s Begin", name)

	// Record request metrics
	metrics.CounterAdd("request_counter", 1, map[string]string{
		"method":   b.ReadRequest().Method,
		"endpoint": b.ReadRequest().URL.Path,
	})

	return func() {
		if err := recover(); err != nil {
			logger.WithFields(map[string]interface{}{
				"panic": err,
				"stack": string(debug.Stack()),
			}).Error("handle request panic")
			writeError(b, http.StatusInternalServerError, "Internal server error")
		}
	}
}

func writeError(b *rf.Context, code int, msg string) {
	b.WriteHeaderAndJSON(code, errorResponse{Error: msg}, "application/json")
}

func (c *StubAdminController) RegisterStubs(b *rf.Context) {
	defer c.begin(b, "RegisterStubs")()

	var req StubListRequest
	if err := b.ReadEntity(&req); err != nil {
		utils.GetLogger().Errorf("read request body err: %v", err)
		writeError(b, http.StatusBadRequest, err.Error())
		return
	}

	n, err := c.Admin.RegisterStubs(b.Ctx, &req)
	if err != nil {
		utils.GetLogger().Errorf("register stubs err: %v", err)
		writeError(b, http.StatusBadRequest, err.Error())
		return
	}
	b.WriteJSON(countResponse{Message: "success", Count: n}, "application/json")
}

func (c *StubAdminController) RemoveStubs(b *rf.Context) {
	defer c.begin(b, "RemoveStubs")()

	var req StubListRequest
	if err := b.ReadEntity(&req); err != nil {
		utils.GetLogger().Errorf("read request body err: %v", err)
		writeError(b, http.StatusBadRequest, err.Error())
		return
	}

	n, err := c.Admin.RemoveStubs(b.Ctx, &req)
	if err != nil {
		utils.GetLogger().Errorf("remove stubs err: %v", err)
		writeError(b, http.StatusBadRequest, err.Error())
		return
	}
	b.WriteJSON(countResponse{Message: "success", Count: n}, "application/json")
}

func (c *StubAdminController) ClearStubs(b *rf.Context) {
	defer c.begin(b, "ClearStubs")()

	c.Admin.ClearStubs()
	b.WriteJSON(countResponse{Message: "success"}, "application/json")
}

func (c *StubAdminController) ListStubs(b *rf.Context) {
	defer c.begin(b, "ListStubs")()

	b.WriteJSON(StubListRequest{Stubs: c.Admin.ListStubs()}, "application/json")
}

func (c *StubAdminController) History(b *rf.Context) {
	defer c.begin(b, "History")()

	b.WriteJSON(c.Admin.History(), "application/json")
}

func (c *StubAdminController) ClearHistory(b *rf.Context) {
	defer c.begin(b, "ClearHistory")()

	c.Admin.ClearHistory()
	b.WriteJSON(countResponse{Message: "success"}, "application/json")
}

// Invoked answers GET /history/invoked?url=/orders&status=open; every query
// parameter other than url is a filter.
func (c *StubAdminController) Invoked(b *rf.Context) {
	defer c.begin(b, "Invoked")()

	values := b.ReadRequest().URL.Query()
	url := values.Get("url")
	query := make(map[string]string)
	for k := range values {
		if k != "url" {
			query[k] = values.Get(k)
		}
	}

	resp, err := c.Admin.Invoked(url, query)
	if err != nil {
		writeError(b, http.StatusBadRequest, err.Error())
		return
	}
	b.WriteJSON(resp, "application/json")
}

func (c *StubAdminController) URLPatterns() []rf.Route {
	return []rf.Route{
		{Method: http.MethodPost, Path: "/stubs", ResourceFunc: c.RegisterStubs,
			Returns: []*rf.Returns{{Code: 200}, {Code: 400}}},
		{Method: http.MethodGet, Path: "/stubs", ResourceFunc: c.ListStubs,
			Returns: []*rf.Returns{{Code: 200}}},
		{Method: http.MethodPost, Path: "/stubs/remove", ResourceFunc: c.RemoveStubs,
			Returns: []*rf.Returns{{Code: 200}, {Code: 400}}},
		{Method: http.MethodDelete, Path: "/stubs", ResourceFunc: c.ClearStubs,
			Returns: []*rf.Returns{{Code: 200}}},
		{Method: http.MethodGet, Path: "/history", ResourceFunc: c.History,
			Returns: []*rf.Returns{{Code: 200}}},
		{Method: http.MethodDelete, Path: "/history", ResourceFunc: c.ClearHistory,
			Returns: []*rf.Returns{{Code: 200}}},
		{Method: http.MethodGet, Path: "/history/invoked", ResourceFunc: c.Invoked,
			Returns: []*rf.Returns{{Code: 200}, {Code: 400}}},
	}
}
