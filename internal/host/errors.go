package host

import (
	"errors"
	"fmt"
)

// Sentinel conditions a host reports. Hosts wrap these in *Error; callers
// match with errors.Is.
var (
	ErrNotFound          = errors.New("parameter not found")
	ErrDuplicate         = errors.New("parameter already exists")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrCycle             = errors.New("circular reference")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrUnavailable       = errors.New("host unavailable")
)

// Error wraps a host failure with the operation and parameter it concerns.
type Error struct {
	Op   string // "list" | "set" | "create" | "delete" | "dependents"
	Name string
	Err  error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("host %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("host %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a wrapped host error.
func Errorf(op, name string, err error) *Error {
	return &Error{Op: op, Name: name, Err: err}
}

// IsRejection reports whether err is the host refusing an expression rather
// than failing outright. Rejections keep the session record editable.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidExpression) || errors.Is(err, ErrCycle) || errors.Is(err, ErrUnknownUnit)
}
