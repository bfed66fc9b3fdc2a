// Package cerrors defines the structured error type shared by every composer
// command and generator. All user-facing failures carry a category, optional
// machine-readable details, and remediation suggestions.
package cerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a failure for exit reporting.
type Category string

const (
	CategoryArgument   Category = "argument"
	CategoryFile       Category = "file"
	CategoryValidation Category = "validation"
	CategoryParsing    Category = "parsing"
	CategoryGeneration Category = "generation"
)

// Error is the single error kind surfaced to the user. Errors are never
// retried; the CLI renders Message plus Suggestions and exits non-zero.
type Error struct {
	Category    Category
	Message     string
	Details     map[string]any
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Category))
	b.WriteString(" error: ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on category so callers can test for a class of failure
// with errors.Is(err, &Error{Category: CategoryFile}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Category == e.Category && (t.Message == "" || t.Message == e.Message)
}

// WithDetail attaches one machine-readable detail and returns the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Argument reports a missing or invalid flag, profile, or env value.
func Argument(msg string, suggestions ...string) *Error {
	return &Error{Category: CategoryArgument, Message: msg, Suggestions: suggestions}
}

// File reports a missing, unreadable, or wrong-extension input.
func File(msg string, suggestions ...string) *Error {
	return &Error{Category: CategoryFile, Message: msg, Suggestions: suggestions}
}

// Validation reports a structural mismatch in otherwise readable input.
func Validation(msg string, suggestions ...string) *Error {
	return &Error{Category: CategoryValidation, Message: msg, Suggestions: suggestions}
}

// Parsing wraps a CSV/JSON decode failure.
func Parsing(msg string, cause error, suggestions ...string) *Error {
	return &Error{Category: CategoryParsing, Message: msg, Err: cause, Suggestions: suggestions}
}

// Generation wraps any unexpected failure during artifact assembly.
func Generation(msg string, cause error) *Error {
	return &Error{
		Category: CategoryGeneration,
		Message:  msg,
		Err:      cause,
		Suggestions: []string{
			"Re-run with --debug for a full log of the failing step",
			"Check that the input files match the selected profile",
		},
	}
}

// CategoryOf returns the category of err if it is (or wraps) an *Error,
// and CategoryGeneration otherwise.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryGeneration
}
