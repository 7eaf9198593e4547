package model

import "strings"

// Method is the HTTP method a pattern accepts.
type Method string

const (
	MethodGET    Method = "GET"
	MethodPOST   Method = "POST"
	MethodPUT    Method = "PUT"
	MethodDELETE Method = "DELETE"
	MethodPATCH  Method = "PATCH"
	MethodHEAD   Method = "HEAD"
	MethodANY    Method = "ANY" // matches every method
)

// ParseMethod maps a raw request method to a Method. Methods outside the
// known set become MethodANY, so they can only be answered by ANY patterns.
func ParseMethod(raw string) Method {
	m := Method(strings.ToUpper(strings.TrimSpace(raw)))
	if m.IsValid() {
		return m
	}
	return MethodANY
}

func (m Method) IsValid() bool {
	switch m {
	case MethodGET, MethodPOST, MethodPUT, MethodDELETE, MethodPATCH, MethodHEAD, MethodANY:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}

// Content types used by the response variants.
const (
	ContentTypeJSON = "application/json"
	ContentTypeData = "application/data"
)

// Reason phrases of the built-in error responses.
const (
	ReasonNotFound            = "Not Found"
	ReasonInternalServerError = "Internal Server Error"
)
