package services

import (
	"cmp"
	"slices"

	model "go_stub_server/internal/domain/model/stub_rule"
)

// SelectBestRule returns the most specific rule of rules matching req.
//
// Matches are stable-sorted by query count, then stable-sorted again by
// header count, so header count is the primary key and query count breaks
// ties between rules with the same number of headers. Registration order
// decides the rest.
func SelectBestRule(matcher *model.Matcher, rules []model.StubRule, req model.RequestInfo) (model.StubRule, bool) {
	matched := make([]model.StubRule, 0, len(rules))
	for _, rule := range rules {
		if matcher.Matches(rule.Pattern, req) {
			matched = append(matched, rule)
		}
	}
	if len(matched) == 0 {
		return model.StubRule{}, false
	}

	slices.SortStableFunc(matched, func(a, b model.StubRule) int {
		return cmp.Compare(len(b.Pattern.Query), len(a.Pattern.Query))
	})
	slices.SortStableFunc(matched, func(a, b model.StubRule) int {
		return cmp.Compare(len(b.Pattern.Headers), len(a.Pattern.Headers))
	})
	return matched[0], true
}
