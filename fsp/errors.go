package fsp

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidConfig indicates invalid client configuration
var ErrInvalidConfig = errors.New("invalid fsp configuration")

// ErrorKind identifies which failure the service reported
type ErrorKind int

const (
	// KindDuplicate means the record already exists (406)
	KindDuplicate ErrorKind = iota + 1
	// KindValidation means the service rejected the payload (400)
	KindValidation
	// KindEnrich means the service could not resolve the entity (503)
	KindEnrich
	// KindParseFailed means the response body was not valid JSON
	KindParseFailed
	// KindAuthorization means the credentials were refused (401)
	KindAuthorization
	// KindInternal means the service failed (500)
	KindInternal
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindDuplicate:
		return "duplicate"
	case KindValidation:
		return "validation"
	case KindEnrich:
		return "enrich"
	case KindParseFailed:
		return "parse failed"
	case KindAuthorization:
		return "authorization"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrDuplicate     = &Error{Kind: KindDuplicate}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrEnrich        = &Error{Kind: KindEnrich}
	ErrParseFailed   = &Error{Kind: KindParseFailed}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrInternal      = &Error{Kind: KindInternal}
)

// Error is returned when the service rejects a request or answers with an
// unreadable body
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("fsp API error: %s", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsDuplicate checks if the record already exists
func (e *Error) IsDuplicate() bool { return e.Kind == KindDuplicate }

// IsValidation checks if the payload was rejected
func (e *Error) IsValidation() bool { return e.Kind == KindValidation }

// IsEnrich checks if the service failed to resolve the entity
func (e *Error) IsEnrich() bool { return e.Kind == KindEnrich }

// IsParseFailed checks if the response could not be decoded
func (e *Error) IsParseFailed() bool { return e.Kind == KindParseFailed }

// IsAuthorization checks if the credentials were refused
func (e *Error) IsAuthorization() bool { return e.Kind == KindAuthorization }

// IsInternal checks if the service reported an internal failure
func (e *Error) IsInternal() bool { return e.Kind == KindInternal }

// NewDuplicateError creates a KindDuplicate error
func NewDuplicateError(status int, body string) *Error {
	return &Error{Kind: KindDuplicate, Status: status, Body: body}
}

// NewValidationError creates a KindValidation error
func NewValidationError(status int, body string) *Error {
	return &Error{Kind: KindValidation, Status: status, Body: body}
}

// NewEnrichError creates a KindEnrich error
func NewEnrichError(status int, body string) *Error {
	return &Error{Kind: KindEnrich, Status: status, Body: body}
}

// NewParseFailedError creates a KindParseFailed error wrapping the decode failure
func NewParseFailedError(status int, body string, err error) *Error {
	return &Error{Kind: KindParseFailed, Status: status, Body: body, Err: err}
}

// NewAuthorizationError creates a KindAuthorization error
func NewAuthorizationError(status int, body string) *Error {
	return &Error{Kind: KindAuthorization, Status: status, Body: body}
}

// NewInternalError creates a KindInternal error
func NewInternalError(status int, body string) *Error {
	return &Error{Kind: KindInternal, Status: status, Body: body}
}

// statusError maps the statuses that are always failures. It returns nil
// and an empty message for everything the operations interpret themselves.
func statusError(status int, body string) (*Error, string) {
	switch status {
	case http.StatusBadRequest:
		return NewValidationError(status, body), "Got validation error"
	case http.StatusUnauthorized:
		return NewAuthorizationError(status, body), "Got authorization error"
	case http.StatusNotAcceptable:
		return NewDuplicateError(status, body), "Got duplicate error"
	case http.StatusInternalServerError:
		return NewInternalError(status, body), "Got internal error"
	case http.StatusServiceUnavailable:
		return NewEnrichError(status, body), "Got enrich error"
	default:
		return nil, ""
	}
}
