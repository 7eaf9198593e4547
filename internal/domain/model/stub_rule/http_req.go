package model

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// CapturedRequest is an immutable snapshot of a request. History entries
// hold one so later changes to the inbound request cannot leak in.
type CapturedRequest struct {
	URL     string            `json:"url"`
	Method  Method            `json:"method"`
	Query   map[string]string `json:"query"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body,omitempty"`
}

var _ RequestInfo = (*CapturedRequest)(nil)

// NewCapturedRequest builds a snapshot from loose values. Header names are
// canonicalised and every map and slice is copied.
func NewCapturedRequest(url string, method Method, query, headers map[string]string, body []byte) *CapturedRequest {
	c := &CapturedRequest{
		URL:     url,
		Method:  method,
		Query:   maps.Clone(query),
		Headers: make(map[string]string, len(headers)),
		Body:    bytes.Clone(body),
	}
	if c.Query == nil {
		c.Query = map[string]string{}
	}
	if c.Method == "" {
		c.Method = MethodANY
	}
	for k, v := range headers {
		c.Headers[http.CanonicalHeaderKey(k)] = v
	}
	return c
}

// Capture snapshots any RequestInfo.
func Capture(req RequestInfo) *CapturedRequest {
	return NewCapturedRequest(req.GetURL(), req.GetMethod(), req.GetQuery(), req.GetHeaders(), req.GetBody())
}

// NewHTTPRequest adapts a net/http request. The body is read fully and put
// back so later handlers can still consume it.
func NewHTTPRequest(r *http.Request) (*CapturedRequest, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	query := make(map[string]string)
	for k, values := range r.URL.Query() {
		if len(values) > 0 {
			query[k] = values[len(values)-1]
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k, values := range r.Header {
		headers[k] = strings.Join(values, ",")
	}

	return NewCapturedRequest(r.URL.Path, ParseMethod(r.Method), query, headers, body), nil
}

func (c *CapturedRequest) GetURL() string                { return c.URL }
func (c *CapturedRequest) GetMethod() Method             { return c.Method }
func (c *CapturedRequest) GetQuery() map[string]string   { return c.Query }
func (c *CapturedRequest) GetHeaders() map[string]string { return c.Headers }
func (c *CapturedRequest) GetBody() []byte               { return c.Body }

// BodyJSON decodes the body as generic JSON.
func (c *CapturedRequest) BodyJSON() (any, error) {
	if len(bytes.TrimSpace(c.Body)) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}
	return ParseJSON(c.Body)
}

// LookupBodyJSONPath evaluates a JSONPath expression against the body, e.g.
// "$.sender" or ".items[0].id".
func (c *CapturedRequest) LookupBodyJSONPath(path string) (any, error) {
	data, err := c.BodyJSON()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(path, "$") {
		path = "$" + path
	}
	result, err := jsonpath.Get(path, data)
	if err != nil {
		return nil, fmt.Errorf("jsonpath lookup failed: %w", err)
	}
	return result, nil
}
