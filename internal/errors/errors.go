// Package errors defines the failure taxonomy of the planner client core.
//
// Every failure surfaced to callers is an *Error carrying a Kind and a
// human-readable Message that is safe to show to the user as-is.
//
//	if errors.Is(err, errors.ErrBusy) {
//	    // a generation is already in flight
//	}
//
//	var e *errors.Error
//	if errors.As(err, &e) {
//	    showBanner(e.Message)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Kind classifies a failure.
type Kind string

const (
	// KindNotAuthenticated: the operation requires a signed-in user. Detected locally.
	KindNotAuthenticated Kind = "NOT_AUTHENTICATED"
	// KindTransport: network or connectivity failure, or a non-success response without a reason.
	KindTransport Kind = "TRANSPORT"
	// KindRejected: the backend answered success:false with a reason.
	KindRejected Kind = "REJECTED"
	// KindBusy: a conflicting operation is already in flight. Detected locally.
	KindBusy Kind = "BUSY"
	// KindStorageFull: the local cache write failed. Reported as a warning only.
	KindStorageFull Kind = "STORAGE_FULL"
	// KindValidation: local input checks failed. Detected locally.
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindInternal   Kind = "INTERNAL"
)

// Default user-facing messages.
const (
	MsgNotAuthenticated = "You need to be signed in to do that."
	MsgTransport        = "Network error. Please check your connection and try again."
	MsgBusy             = "A request is already in progress. Please wait for it to finish."
	MsgStorageFull      = "Failed to save changes. Storage might be full."
	MsgValidation       = "Please check the highlighted fields."
	MsgInternal         = "Something went wrong. Please try again."
)

// Error is a classified failure with a user-facing message and optional per-field details.
type Error struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.cause = err
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *Error) WithDetails(details map[string]string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Sentinels for use with errors.Is.
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated, Message: MsgNotAuthenticated}
	ErrTransport        = &Error{Kind: KindTransport, Message: MsgTransport}
	ErrRejected         = &Error{Kind: KindRejected, Message: "rejected"}
	ErrBusy             = &Error{Kind: KindBusy, Message: MsgBusy}
	ErrStorageFull      = &Error{Kind: KindStorageFull, Message: MsgStorageFull}
	ErrValidation       = &Error{Kind: KindValidation, Message: MsgValidation}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInternal         = &Error{Kind: KindInternal, Message: MsgInternal}
)

func NotAuthenticated() *Error {
	return &Error{Kind: KindNotAuthenticated, Message: MsgNotAuthenticated}
}

// Transport wraps a connectivity failure with the generic network message.
func Transport(cause error) *Error {
	return &Error{Kind: KindTransport, Message: MsgTransport, cause: cause}
}

// Rejected carries the backend's reason verbatim.
func Rejected(reason string) *Error {
	if reason == "" {
		return &Error{Kind: KindTransport, Message: MsgTransport}
	}
	return &Error{Kind: KindRejected, Message: reason}
}

func Busy() *Error {
	return &Error{Kind: KindBusy, Message: MsgBusy}
}

func StorageFull(cause error) *Error {
	return &Error{Kind: KindStorageFull, Message: MsgStorageFull, cause: cause}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with per-field messages.
func ValidationWithDetails(msg string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err.
// Unclassified errors get the generic internal message so raw causes never leak to the UI.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgInternal
}
