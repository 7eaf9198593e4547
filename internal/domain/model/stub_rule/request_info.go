package model

// RequestInfo is the view of an inbound request the engine matches against.
// Transports adapt their wire representation to it.
type RequestInfo interface {
	GetURL() string                // request path, e.g. "/orders"
	GetMethod() Method             // unknown methods map to MethodANY
	GetQuery() map[string]string   // last value wins for repeated keys
	GetHeaders() map[string]string // canonical header names
	GetBody() []byte               // raw body bytes
}

// StubLogger observes the engine at well defined points. It never affects
// control flow and may be omitted (see NopStubLogger).
type StubLogger interface {
	StartProcessing(req RequestInfo)
	NotFound(req RequestInfo)
	JSONResponseFound()
	DataResponseFound()
	ErrorResponseFound(withJSONPayload bool)
	ConnectionErrorResponseFound()
	InvalidBodyRegex(pattern string, err error)
}

// NopStubLogger discards every event.
type NopStubLogger struct{}

var _ StubLogger = NopStubLogger{}

func (NopStubLogger) StartProcessing(RequestInfo)    {}
func (NopStubLogger) NotFound(RequestInfo)           {}
func (NopStubLogger) JSONResponseFound()             {}
func (NopStubLogger) DataResponseFound()             {}
func (NopStubLogger) ErrorResponseFound(bool)        {}
func (NopStubLogger) ConnectionErrorResponseFound()  {}
func (NopStubLogger) InvalidBodyRegex(string, error) {}

// OrNop returns l, or NopStubLogger when l is nil.
func OrNop(l StubLogger) StubLogger {
	if l == nil {
		return NopStubLogger{}
	}
	return l
}
