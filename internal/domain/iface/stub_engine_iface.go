package iface

import (
	"context"

	model "go_stub_server/internal/domain/model/stub_rule"
)

// HistoryReader 请求历史查询接口
type HistoryReader interface {
	History() []model.HistoryEntry
	RequestsHistory() []*model.CapturedRequest
	WasInvoked(url string, query map[string]string) bool
	InvokedTimes(url string, query map[string]string) int
}

// StubEngine is the facade transports talk to.
type StubEngine interface {
	HistoryReader

	// Handle 匹配请求并记录历史, never fails for unmatched requests
	Handle(req model.RequestInfo) model.HandleResult
	Register(rules ...model.StubRule)
	Unregister(rules ...model.StubRule)
	ClearRules()
	ClearHistory()
	Rules() []model.StubRule
}

// StubService 规则管理服务接口
type StubService interface {
	// CreateStubs 校验并注册规则
	CreateStubs(ctx context.Context, rules ...model.StubRule) error
	RemoveStubs(ctx context.Context, rules ...model.StubRule) error
}
