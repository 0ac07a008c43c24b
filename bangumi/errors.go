package bangumi

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrTokenRequired indicates an endpoint that needs an access token was called without one
	ErrTokenRequired = errors.New("access token required")
	// ErrBuilderReused indicates a request builder was built more than once
	ErrBuilderReused = errors.New("request builder already used")
)

// ErrorKind classifies a failure
type ErrorKind int

const (
	// KindBuilder indicates a missing or invalid request parameter
	KindBuilder ErrorKind = iota + 1
	// KindTransport indicates the HTTP transport failed
	KindTransport
	// KindURL indicates the request URL could not be assembled
	KindURL
	// KindHeader indicates a header value cannot be transmitted
	KindHeader
	// KindEncode indicates the request body could not be encoded
	KindEncode
	// KindDecode indicates the response body did not match the expected schema
	KindDecode
	// KindStatus indicates the API responded with a non-success status
	KindStatus
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindBuilder:
		return "builder"
	case KindTransport:
		return "transport"
	case KindURL:
		return "url"
	case KindHeader:
		return "header"
	case KindEncode:
		return "encode"
	case KindDecode:
		return "decode"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every client operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("bangumi: %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("bangumi: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// BuilderError reports a request parameter that was missing or invalid when
// a request was built.
type BuilderError struct {
	Op     string
	Field  string
	Reason string
}

func (e *BuilderError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required field"
	}
	return fmt.Sprintf("cannot build request to %s: %s %q", e.Op, reason, e.Field)
}

func missingField(op, field string) *Error {
	return newError(KindBuilder, op, &BuilderError{Op: op, Field: field})
}

func invalidField(op, field, reason string) *Error {
	return newError(KindBuilder, op, &BuilderError{Op: op, Field: field, Reason: reason})
}

// APIError represents a non-success response from the API
type APIError struct {
	StatusCode  int
	Title       string
	Description string
	Body        string
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Description
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("bangumi API error: status %d: %s", e.StatusCode, msg)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// FieldError reports a response field that was absent or malformed.
type FieldError struct {
	Type   string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Type, e.Field, e.Reason)
}
