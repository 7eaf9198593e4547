package model

import "time"

// HistoryEntry records one processed request and the outcome actually
// returned for it, including the synthetic not-found outcome.
type HistoryEntry struct {
	ID          string
	RecordedAt  time.Time
	Request     *CapturedRequest
	Response    ResponseSpec
	RuleMatched bool
}

// Matches reports whether the entry was recorded for url with a query that
// includes every pair of filter. Like patterns, url may omit the leading slash.
func (e HistoryEntry) Matches(url string, filter map[string]string) bool {
	if e.Request == nil {
		return false
	}
	if e.Request.URL != url && e.Request.URL != "/"+url {
		return false
	}
	return QueryIncludes(e.Request.Query, filter)
}
