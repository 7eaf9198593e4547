package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
)

// StubRule pairs a request pattern with the response to send back and an
// optional delay the transport applies before answering.
//
// Rules are values: modifiers return a new rule instead of mutating the
// receiver, so a rule already handed to the registry never changes.
type StubRule struct {
	Pattern  RequestPattern
	Response ResponseSpec
	Delay    time.Duration
}

// Modifier derives a new rule from an existing one.
type Modifier func(StubRule) StubRule

func NewStub(pattern RequestPattern, response ResponseSpec) StubRule {
	return StubRule{Pattern: pattern, Response: response}
}

// JSONStub answers url (any method) with a JSON payload.
func JSONStub(url string, query map[string]string, excludedQuery map[string]*string, json any, modifiers ...Modifier) StubRule {
	pattern := RequestPattern{URL: url, Method: MethodANY, Query: query, ExcludedQuery: excludedQuery}
	return NewStub(pattern, JSONBody(json)).Modify(modifiers...)
}

// ErrorStub answers url (any method) with an error response.
func ErrorStub(url string, query map[string]string, excludedQuery map[string]*string, errResp ErrorResponse, modifiers ...Modifier) StubRule {
	pattern := RequestPattern{URL: url, Method: MethodANY, Query: query, ExcludedQuery: excludedQuery}
	return NewStub(pattern, errResp).Modify(modifiers...)
}

// ConnectionErrorStub answers url with a dropped connection. In-process UI
// test harnesses cannot represent it and fail the test when it is chosen.
func ConnectionErrorStub(url string, query map[string]string, excludedQuery map[string]*string) StubRule {
	pattern := RequestPattern{URL: url, Method: MethodANY, Query: query, ExcludedQuery: excludedQuery}
	return NewStub(pattern, ConnectionFailure{})
}

// ModifyExisting applies modifiers to rule and returns the result.
func ModifyExisting(rule StubRule, modifiers ...Modifier) StubRule {
	return rule.Modify(modifiers...)
}

func (r StubRule) Modify(modifiers ...Modifier) StubRule {
	out := r
	for _, m := range modifiers {
		if m != nil {
			out = m(out)
		}
	}
	return out
}

// JSON returns a copy of the JSON payload of the rule: the JSON body, the
// error payload, or an empty object for every other case.
func (r StubRule) JSON() any {
	switch v := r.Response.(type) {
	case JSONResponse:
		if v.JSON != nil {
			return CloneJSON(v.JSON)
		}
	case ErrorResponse:
		if v.JSON != nil {
			return CloneJSON(v.JSON)
		}
	}
	return map[string]any{}
}

// WithJSON replaces the JSON payload. Error responses keep their code and
// reason phrase; data and connection failures are returned unchanged.
func (r StubRule) WithJSON(json any) StubRule {
	switch v := r.Response.(type) {
	case JSONResponse:
		r.Response = JSONBody(json)
	case ErrorResponse:
		r.Response = ErrorWithJSON(json, v.Code, v.ReasonPhrase)
	}
	return r
}

// WithDelay sets the artificial response delay. Negative values become zero.
func WithDelay(d time.Duration) Modifier {
	return func(r StubRule) StubRule {
		if d < 0 {
			d = 0
		}
		r.Delay = d
		return r
	}
}

// WithJSONValue replaces the whole JSON payload.
func WithJSONValue(json any) Modifier {
	return func(r StubRule) StubRule {
		return r.WithJSON(json)
	}
}

// SetJSONPath sets value at path inside a copy of the rule's JSON payload,
// e.g. SetJSONPath("$.items[0].status", "paid"). An invalid path is a
// programming error in test setup and panics.
func SetJSONPath(path string, value any) Modifier {
	expr := mustParseJSONPath(path)
	return func(r StubRule) StubRule {
		switch r.Response.(type) {
		case JSONResponse, ErrorResponse:
		default:
			return r
		}
		payload := r.JSON()
		if payload == nil {
			payload = map[string]any{}
		}
		if err := expr.Set(payload, CloneJSON(value)); err != nil {
			panic(fmt.Sprintf("set json path %q: %v", path, err))
		}
		return r.WithJSON(payload)
	}
}

// DeleteJSONPath removes the value at path from a copy of the JSON payload.
func DeleteJSONPath(path string) Modifier {
	expr := mustParseJSONPath(path)
	return func(r StubRule) StubRule {
		switch r.Response.(type) {
		case JSONResponse, ErrorResponse:
		default:
			return r
		}
		payload := r.JSON()
		if err := expr.Del(payload); err != nil {
			panic(fmt.Sprintf("delete json path %q: %v", path, err))
		}
		return r.WithJSON(payload)
	}
}

func mustParseJSONPath(path string) jp.Expr {
	if !strings.HasPrefix(path, "$") {
		path = "$." + strings.TrimPrefix(path, ".")
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		panic(fmt.Sprintf("invalid json path %q: %v", path, err))
	}
	return expr
}

// Clone deep copies the rule.
func (r StubRule) Clone() StubRule {
	return StubRule{
		Pattern:  r.Pattern.Clone(),
		Response: CloneResponse(r.Response),
		Delay:    r.Delay,
	}
}
