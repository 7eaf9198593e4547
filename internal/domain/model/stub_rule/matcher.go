package model

import (
	"bytes"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"
)

// Matcher decides whether a request satisfies a pattern. Matching has no
// side effects apart from caching compiled body regexes and reporting
// each invalid one to the logger once.
type Matcher struct {
	logger  StubLogger
	regexes sync.Map // pattern string -> compiledRegex
}

type compiledRegex struct {
	re  *regexp.Regexp
	err error
}

var defaultMatcher = NewMatcher(nil)

func NewMatcher(logger StubLogger) *Matcher {
	return &Matcher{logger: OrNop(logger)}
}

// Matches reports whether req satisfies p using a matcher without a logger.
func Matches(p RequestPattern, req RequestInfo) bool {
	return defaultMatcher.Matches(p, req)
}

// Matches combines every check of the pattern. All positive checks must pass
// and none of the excluded query pairs may be present.
func (m *Matcher) Matches(p RequestPattern, req RequestInfo) bool {
	return m.matchURL(p, req) &&
		m.matchMethod(p, req) &&
		m.matchQuery(p, req) &&
		m.matchHeaders(p, req) &&
		m.matchBodyJSON(p, req) &&
		m.matchBodyRegex(p, req) &&
		!m.excludedQueryPresent(p, req)
}

// matchURL tolerates a pattern written without the leading slash.
func (m *Matcher) matchURL(p RequestPattern, req RequestInfo) bool {
	url := req.GetURL()
	return p.URL == url || url == "/"+p.URL
}

func (m *Matcher) matchMethod(p RequestPattern, req RequestInfo) bool {
	method := p.EffectiveMethod()
	return method == MethodANY || method == req.GetMethod()
}

func (m *Matcher) matchQuery(p RequestPattern, req RequestInfo) bool {
	return QueryIncludes(req.GetQuery(), p.Query)
}

func (m *Matcher) matchHeaders(p RequestPattern, req RequestInfo) bool {
	headers := req.GetHeaders()
	for k, v := range p.Headers {
		if got, ok := lookupHeader(headers, k); !ok || got != v {
			return false
		}
	}
	return true
}

// matchBodyJSON compares the pattern body key by key against the request
// body. A request without a body skips the check; a body that is not a JSON
// object fails it.
func (m *Matcher) matchBodyJSON(p RequestPattern, req RequestInfo) bool {
	if p.BodyJSON == nil {
		return true
	}
	body := bytes.TrimSpace(req.GetBody())
	if len(body) == 0 {
		return true
	}

	reqBody, err := ParseJSONObject(body)
	if err != nil {
		return false
	}
	normalized, err := NormalizeJSON(p.BodyJSON)
	if err != nil {
		return false
	}
	patternBody, ok := normalized.(map[string]any)
	if !ok {
		return false
	}

	for k, want := range patternBody {
		got, ok := reqBody[k]
		if !ok || !reflect.DeepEqual(want, got) {
			return false
		}
	}
	return true
}

func (m *Matcher) matchBodyRegex(p RequestPattern, req RequestInfo) bool {
	if p.BodyRegex == nil {
		return true
	}
	re, err := m.compile(*p.BodyRegex)
	if err != nil {
		return false
	}
	return re.Match(req.GetBody())
}

// excludedQueryPresent reports whether any excluded pair (or wildcard key)
// appears in the request query.
func (m *Matcher) excludedQueryPresent(p RequestPattern, req RequestInfo) bool {
	query := req.GetQuery()
	for k, v := range p.ExcludedQuery {
		got, ok := query[k]
		if !ok {
			continue
		}
		if v == nil || *v == got {
			return true
		}
	}
	return false
}

// compile caches the outcome per pattern. An invalid pattern is reported to
// the logger once, by whichever caller stores it first.
func (m *Matcher) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := m.regexes.Load(pattern); ok {
		c := cached.(compiledRegex)
		return c.re, c.err
	}
	re, err := regexp.Compile(pattern)
	if _, loaded := m.regexes.LoadOrStore(pattern, compiledRegex{re: re, err: err}); !loaded && err != nil {
		m.logger.InvalidBodyRegex(pattern, err)
	}
	return re, err
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	if v, ok := headers[http.CanonicalHeaderKey(name)]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
