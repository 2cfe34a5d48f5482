// Package apperror defines the error taxonomy shared by every client-side
// operation. Local validation failures (ValidationError, InvalidStateError)
// are raised before any network call; server failures surface as
// RequestError with the status and message the backend returned.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports bad input to a local operation (non-positive
// amount, discount out of range, negative opening balance, ...).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports an operation that is illegal in the current
// till state (opening an open register, closing a closed one).
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func NewInvalidState(format string, args ...any) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// RequestError is a non-2xx HTTP response from the API, carrying the
// server-supplied message when one could be parsed.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// NotFoundError marks lookups that missed (barcode scan, current register
// when none is open). It wraps the originating RequestError when the miss
// came from the server.
type NotFoundError struct {
	Msg string
	Err error
}

func (e *NotFoundError) Error() string { return e.Msg }
func (e *NotFoundError) Unwrap() error { return e.Err }

func NewNotFound(msg string, err error) *NotFoundError {
	return &NotFoundError{Msg: msg, Err: err}
}

// IsValidation reports whether err (or any wrapped error) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is a NotFoundError or a 404 RequestError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return IsStatus(err, http.StatusNotFound)
}

// IsStatus reports whether err is a RequestError with the given status code.
func IsStatus(err error, code int) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status == code
	}
	return false
}

// Message extracts the user-facing text from any error in the taxonomy,
// falling back to err.Error(). RequestError yields the server message alone
// so the UI does not show "HTTP 400:" prefixes to the operator.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return err.Error()
}
