// Package errors provides structured error types for Tornado.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP server can
// react to a failure category without string matching:
//   - INVALID_*: input validation failures (data, settings, formats)
//   - MISSING_DATA: a data source produced nothing chartable
//   - NOT_FOUND / FILE_NOT_FOUND: missing resources
//   - INTERNAL / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSettings, "precision %d out of range", p)
//	if errors.Is(err, errors.ErrCodeInvalidSettings) {
//	    // report to the user
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidInput, cause, "read %s", path)
//
// The layout engine itself never returns errors: missing data yields an empty
// layout. These types are used only at the outer boundaries.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidViewport Code = "INVALID_VIEWPORT"

	// ErrCodeMissingData means the source parsed but holds nothing to chart.
	ErrCodeMissingData Code = "MISSING_DATA"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Validation reports whether c is one of the INVALID_* codes.
func (c Code) Validation() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Error carries a Code, a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries one of the INVALID_* codes.
func IsValidation(err error) bool { return GetCode(err).Validation() }
