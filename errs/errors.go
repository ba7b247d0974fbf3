// Package errs defines the uniform error type returned by every
// pixeldrain operation. Each error carries a machine readable code
// and a message that is already prefixed with that code.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Use errors.Is to classify an error returned by the client.
var (
	// ErrAPI marks a non-2xx response reported by the server.
	ErrAPI = errors.New("api failure")
	// ErrDecode marks a 2xx response whose body did not match the expected shape.
	ErrDecode = errors.New("decode failure")
	// ErrResourceState marks a source that was handed to a transfer
	// again after it was consumed and could not be rewound.
	ErrResourceState = errors.New("resource state failure")
	// ErrValidation marks caller input rejected before any network call.
	ErrValidation = errors.New("validation failure")
	// ErrAuthFailure is wrapped alongside ErrAPI when the server responds
	// with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// Well known codes produced by the client itself.
const (
	CodeUnknown            = "unknown"
	CodeNullResponse       = "null_response"
	CodeDecodeFailed       = "decode_failed"
	CodeAlreadyConsumed    = "already_consumed"
	CodeNameEmpty          = "name_empty"
	CodeNameTooLong        = "name_too_long"
	CodeNameIllegalCharset = "name_contains_illegal_character"
)

// UnknownMessage is substituted when a failure body cannot be decoded.
const UnknownMessage = "Unknown error"

// Error represents a failure with a machine readable code.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Kind       error  `json:"-"`
	Err        error  `json:"-"`
}

// New constructs an error of the given kind.
func New(kind error, code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Kind:    kind,
	}
}

// Wrap constructs an error of the given kind that also wraps cause.
func Wrap(kind error, code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Kind:    kind,
		Err:     cause,
	}
}

// Error implements the error interface. The code prefix is kept even
// when the server sent no message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the kind sentinel and the underlying cause, if any.
func (e *Error) Unwrap() []error {
	var list []error
	if e.Kind != nil {
		list = append(list, e.Kind)
	}
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		list = append(list, ErrAuthFailure)
	}
	if e.Err != nil {
		list = append(list, e.Err)
	}

	return list
}

// Is matches another *Error by code so callers can compare against a target
// such as &errs.Error{Code: "not_found"}.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code != "" && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or
// the empty string if there is none.
func CodeOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}

	return e.Code
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
