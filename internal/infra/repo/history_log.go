package repo

import (
	"sync"
	"time"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/google/uuid"
)

// HistoryLogIface is the append-only record of every processed request.
type HistoryLogIface interface {
	// Record snapshots req and the outcome returned for it.
	Record(req model.RequestInfo, response model.ResponseSpec, ruleMatched bool) model.HistoryEntry
	Clear()
	// Entries and Requests return deep copies; the log itself never changes
	// after Record.
	Entries() []model.HistoryEntry
	Requests() []*model.CapturedRequest
	Count(pred func(model.HistoryEntry) bool) int
	// InvokedTimes counts entries recorded for url whose query includes every
	// pair of query.
	InvokedTimes(url string, query map[string]string) int
	WasInvoked(url string, query map[string]string) bool
	Len() int
}

type historyLogImpl struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
	now     func() time.Time
}

var _ HistoryLogIface = (*historyLogImpl)(nil)

func NewHistoryLog() HistoryLogIface {
	return &historyLogImpl{now: time.Now}
}

func (h *historyLogImpl) Record(req model.RequestInfo, response model.ResponseSpec, ruleMatched bool) model.HistoryEntry {
	entry := model.HistoryEntry{
		ID:          uuid.NewString(),
		RecordedAt:  h.now(),
		Request:     model.Capture(req),
		Response:    model.CloneResponse(response),
		RuleMatched: ruleMatched,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	return entry
}

func (h *historyLogImpl) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

func (h *historyLogImpl) Entries() []model.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := make([]model.HistoryEntry, 0, len(h.entries))
	for _, e := range h.entries {
		entries = append(entries, cloneEntry(e))
	}
	return entries
}

func cloneEntry(e model.HistoryEntry) model.HistoryEntry {
	if e.Request != nil {
		e.Request = model.Capture(e.Request)
	}
	e.Response = model.CloneResponse(e.Response)
	return e
}

func (h *historyLogImpl) Requests() []*model.CapturedRequest {
	entries := h.Entries()
	requests := make([]*model.CapturedRequest, 0, len(entries))
	for _, e := range entries {
		requests = append(requests, e.Request)
	}
	return requests
}

func (h *historyLogImpl) Count(pred func(model.HistoryEntry) bool) int {
	n := 0
	for _, e := range h.Entries() {
		if pred(e) {
			n++
		}
	}
	return n
}

func (h *historyLogImpl) InvokedTimes(url string, query map[string]string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.entries {
		if e.Matches(url, query) {
			n++
		}
	}
	return n
}

func (h *historyLogImpl) WasInvoked(url string, query map[string]string) bool {
	return h.InvokedTimes(url, query) > 0
}

func (h *historyLogImpl) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
