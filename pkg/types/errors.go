package types

import (
	"errors"
	"fmt"
)

// EditErrorCode classifies why an edit operation was rejected.
type EditErrorCode string

// Edit error codes. These double as wire codes in API error payloads.
const (
	ErrCodeInvalidExpression    EditErrorCode = "INVALID_EXPRESSION"
	ErrCodeDuplicateName        EditErrorCode = "DUPLICATE_NAME"
	ErrCodeReferencedByOthers   EditErrorCode = "REFERENCED_BY_OTHERS"
	ErrCodeUnsupportedOperation EditErrorCode = "UNSUPPORTED_OPERATION"
	ErrCodeHostError            EditErrorCode = "HOST_ERROR"
	ErrCodeSessionClosed        EditErrorCode = "SESSION_CLOSED"
	ErrCodeSessionActive        EditErrorCode = "SESSION_ACTIVE"
	ErrCodeNotFound             EditErrorCode = "NOT_FOUND"
)

// EditError is the rejection of a single session operation. The session stays
// open and editable after any EditError; the worst case recovery is Cancel.
type EditError struct {
	Code EditErrorCode
	// Name is the parameter the operation targeted, when there is one.
	Name    string
	Message string
	// Err carries the underlying host failure for HOST_ERROR.
	Err error
}

func (e *EditError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", e.Name, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// NewEditError creates an EditError for a parameter.
func NewEditError(code EditErrorCode, name, format string, args ...any) *EditError {
	return &EditError{Code: code, Name: name, Message: fmt.Sprintf(format, args...)}
}

// WrapHostError wraps an opaque host failure as an EditError.
func WrapHostError(name string, err error) *EditError {
	return &EditError{Code: ErrCodeHostError, Name: name, Message: "host operation failed", Err: err}
}

// EditErrorCodeOf extracts the code from err, or "" when err is not an
// EditError.
func EditErrorCodeOf(err error) EditErrorCode {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsEditError reports whether err is an EditError with the given code.
func IsEditError(err error, code EditErrorCode) bool {
	return EditErrorCodeOf(err) == code
}
