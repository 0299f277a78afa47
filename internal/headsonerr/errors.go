// Package headsonerr defines the exit-code-carrying error type shared across
// every stage of headson, from the core summarizer down to the CLI. It plays
// the same role as the teacher's pipeline.HarvxError: a single error shape
// that commands can return and main.go can turn into a process exit code
// without re-deriving it from string matching.
package headsonerr

import (
	"errors"
	"fmt"
)

// ExitCode is the process exit code returned by the headson CLI.
type ExitCode int

const (
	// ExitSuccess indicates the invocation completed and produced output.
	ExitSuccess ExitCode = 0

	// ExitRuntime indicates a fatal error while running the core pipeline:
	// IngestFailed or FilesetFormatForbidden.
	ExitRuntime ExitCode = 1

	// ExitValidation indicates the supplied flags/config were rejected before
	// the core pipeline ran: BudgetConflict or GrepConflict.
	ExitValidation ExitCode = 2
)

// Kind enumerates the error kinds named in the specification's error-handling
// design. Only fatal kinds are represented here; NoMatches and IgnoredInput
// are notices, not errors, and travel as plain strings alongside a successful
// result (see headson.Result.Notice).
type Kind string

const (
	// KindIngestFailed is a parser or UTF-8 error on an input.
	KindIngestFailed Kind = "IngestFailed"

	// KindFilesetFormatForbidden is a structured --format override attempted
	// on a fileset input.
	KindFilesetFormatForbidden Kind = "FilesetFormatForbidden"

	// KindBudgetConflict is multiple per-file or multiple global budget
	// flags supplied together.
	KindBudgetConflict Kind = "BudgetConflict"

	// KindGrepConflict is strong and weak grep supplied together, or
	// --grep-show without grep.
	KindGrepConflict Kind = "GrepConflict"
)

// Error is a structured error carrying the failing Kind, a process exit
// code, a human-readable message, and (optionally) the underlying cause. It
// implements the error interface and supports unwrapping via errors.Is and
// errors.As.
type Error struct {
	// Kind identifies which named error kind this is.
	Kind Kind

	// Code is the process exit code associated with this error.
	Code ExitCode

	// Message is a human-readable description of what went wrong.
	Message string

	// Err is the underlying error that caused this one, if any.
	Err error
}

// Error returns the formatted error message. If an underlying error is
// present, it is included in the output separated by a colon.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As to
// traverse the error chain.
func (e *Error) Unwrap() error {
	return e.Err
}

// IngestFailed builds a KindIngestFailed error for the named input.
func IngestFailed(inputName string, cause error) *Error {
	return &Error{
		Kind:    KindIngestFailed,
		Code:    ExitRuntime,
		Message: fmt.Sprintf("failed to ingest input %q", inputName),
		Err:     cause,
	}
}

// FilesetFormatForbidden builds a KindFilesetFormatForbidden error.
func FilesetFormatForbidden(format string) *Error {
	return &Error{
		Kind:    KindFilesetFormatForbidden,
		Code:    ExitRuntime,
		Message: fmt.Sprintf("--format=%s cannot override per-file templates for fileset inputs", format),
	}
}

// BudgetConflict builds a KindBudgetConflict error describing the
// conflicting flags.
func BudgetConflict(detail string) *Error {
	return &Error{
		Kind:    KindBudgetConflict,
		Code:    ExitValidation,
		Message: detail,
	}
}

// GrepConflict builds a KindGrepConflict error describing the conflicting
// flags.
func GrepConflict(detail string) *Error {
	return &Error{
		Kind:    KindGrepConflict,
		Code:    ExitValidation,
		Message: detail,
	}
}

// CodeOf extracts the process exit code from err. A nil error yields
// ExitSuccess; an *Error yields its Code; any other non-nil error yields
// ExitRuntime.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ExitRuntime
}
