package planner

import "net/http"

// Error is an application-layer error that can be mapped to an HTTP response.
// Message is returned to clients verbatim as the envelope's error field.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeForbidden   = "FORBIDDEN"
	CodeTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeUnsupported = "UNSUPPORTED_MEDIA_TYPE"
	CodeUpstream    = "UPSTREAM_ERROR"
)

func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}
