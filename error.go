package domgrab

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("domgrab error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var rse *RuleSetError
	if errors.As(err, &rse) {
		return EINVALID
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var rse *RuleSetError
	if errors.As(err, &rse) {
		return rse.Error()
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// RuleSetError reports a rule that is missing a structurally required
// property. It is the only condition that fails a whole extraction.
type RuleSetError struct {
	Kind     RuleKind
	Index    int
	RuleID   string
	RuleName string
	Message  string
}

func (e *RuleSetError) Error() string {
	ident := e.RuleID
	if ident == "" {
		ident = e.RuleName
	}
	if ident == "" {
		ident = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("malformed %s rule %s: %s", e.Kind, ident, e.Message)
}
