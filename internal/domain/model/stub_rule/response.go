package model

import "bytes"

type ResponseKind string

const (
	ResponseKindJSON            ResponseKind = "json"
	ResponseKindData            ResponseKind = "data"
	ResponseKindError           ResponseKind = "error"
	ResponseKindConnectionError ResponseKind = "connectionError"
)

// ResponseSpec is what a rule answers with. The set of variants is closed:
// JSONResponse, DataResponse, ErrorResponse and ConnectionFailure.
type ResponseSpec interface {
	Kind() ResponseKind
	isResponseSpec()
}

// JSONResponse is a successful response with a JSON payload.
type JSONResponse struct {
	JSON any
}

// DataResponse is a successful response with an arbitrary payload (pdf, png, ...).
type DataResponse struct {
	Data        []byte
	ContentType string
}

// ErrorResponse carries an HTTP error status and an optional JSON payload.
type ErrorResponse struct {
	Code         int
	ReasonPhrase string
	JSON         any // nil means no body
}

// ConnectionFailure asks the transport to simulate a dropped connection.
type ConnectionFailure struct{}

var (
	_ ResponseSpec = JSONResponse{}
	_ ResponseSpec = DataResponse{}
	_ ResponseSpec = ErrorResponse{}
	_ ResponseSpec = ConnectionFailure{}
)

func (JSONResponse) Kind() ResponseKind      { return ResponseKindJSON }
func (DataResponse) Kind() ResponseKind      { return ResponseKindData }
func (ErrorResponse) Kind() ResponseKind     { return ResponseKindError }
func (ConnectionFailure) Kind() ResponseKind { return ResponseKindConnectionError }

func (JSONResponse) isResponseSpec()      {}
func (DataResponse) isResponseSpec()      {}
func (ErrorResponse) isResponseSpec()     {}
func (ConnectionFailure) isResponseSpec() {}

func JSONBody(v any) JSONResponse {
	return JSONResponse{JSON: v}
}

// DataBody builds a data response; an empty content type falls back to
// application/data.
func DataBody(data []byte, contentType string) DataResponse {
	if contentType == "" {
		contentType = ContentTypeData
	}
	return DataResponse{Data: data, ContentType: contentType}
}

func NewError(code int, reasonPhrase string) ErrorResponse {
	return ErrorResponse{Code: code, ReasonPhrase: reasonPhrase}
}

func ErrorWithJSON(json any, code int, reasonPhrase string) ErrorResponse {
	return ErrorResponse{Code: code, ReasonPhrase: reasonPhrase, JSON: json}
}

// NotFoundError is the synthetic outcome recorded for unmatched requests.
func NotFoundError() ErrorResponse {
	return NewError(404, ReasonNotFound)
}

func InternalServerError() ErrorResponse {
	return NewError(500, ReasonInternalServerError)
}

func (e ErrorResponse) HasJSON() bool {
	return e.JSON != nil
}

// IsNotFound reports whether r is the synthetic not-found outcome.
func IsNotFound(r ResponseSpec) bool {
	e, ok := r.(ErrorResponse)
	return ok && e.Code == 404 && e.ReasonPhrase == ReasonNotFound && e.JSON == nil
}

// ResponseEqual compares two responses structurally, JSON payloads by value.
func ResponseEqual(a, b ResponseSpec) bool {
	switch av := a.(type) {
	case JSONResponse:
		bv, ok := b.(JSONResponse)
		return ok && JSONEqual(av.JSON, bv.JSON)
	case DataResponse:
		bv, ok := b.(DataResponse)
		return ok && av.ContentType == bv.ContentType && bytes.Equal(av.Data, bv.Data)
	case ErrorResponse:
		bv, ok := b.(ErrorResponse)
		if !ok || av.Code != bv.Code || av.ReasonPhrase != bv.ReasonPhrase {
			return false
		}
		if (av.JSON == nil) != (bv.JSON == nil) {
			return false
		}
		return av.JSON == nil || JSONEqual(av.JSON, bv.JSON)
	case ConnectionFailure:
		_, ok := b.(ConnectionFailure)
		return ok
	default:
		return a == nil && b == nil
	}
}

// CloneResponse deep copies a response so recorded history cannot be
// changed through the rule that produced it.
func CloneResponse(r ResponseSpec) ResponseSpec {
	switch v := r.(type) {
	case JSONResponse:
		return JSONResponse{JSON: CloneJSON(v.JSON)}
	case DataResponse:
		return DataResponse{Data: bytes.Clone(v.Data), ContentType: v.ContentType}
	case ErrorResponse:
		v.JSON = CloneJSON(v.JSON)
		return v
	default:
		return r
	}
}
