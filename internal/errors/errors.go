// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure a dedup run can hit carries a machine-readable Kind, so the CLI
// can explain what went wrong without string matching, while the wrapped error
// keeps the technical detail (file path, offending row, decoder message).
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// InputMissing indicates the input path does not resolve to a readable file.
	InputMissing Kind = "input_missing"
	// InputEmpty indicates the input file has no header or rows.
	InputEmpty Kind = "input_empty"
	// InputMalformed indicates the input could not be parsed as CSV.
	InputMalformed Kind = "input_malformed"
	// PayloadMalformed indicates a row's log line is not the expected JSON shape.
	PayloadMalformed Kind = "payload_malformed"
	// OutputFailed indicates the deduplicated file could not be written.
	OutputFailed Kind = "output_failed"
	// ExportFailed indicates the database export did not complete.
	ExportFailed Kind = "export_failed"
	// ConfigInvalid indicates unusable settings.
	ConfigInvalid Kind = "config_invalid"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
