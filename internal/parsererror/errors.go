// Package parsererror defines the typed errors raised while loading
// transactions and decoding classifier responses.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError represents a field of one input row that could not be parsed
type ParseError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d: failed to parse %s='%s': %v",
		e.Source, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input table that fails schema validation
type ValidationError struct {
	FilePath       string
	Reason         string
	MissingColumns []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("validation failed for %s: %s: %s",
			e.FilePath, e.Reason, strings.Join(e.MissingColumns, ", "))
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an input file that is not a readable table at all.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// CategorizationError represents a classifier call that failed for a whole batch
type CategorizationError struct {
	Batch    int
	Provider string
	Err      error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for batch %d using %s: %v",
		e.Batch, e.Provider, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// BatchDecodeError represents a classifier payload that could not be decoded.
type BatchDecodeError struct {
	Batch   int
	Snippet string
	Err     error
}

func (e *BatchDecodeError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("batch %d: undecodable classifier response: %v. Payload snippet: '%s'",
			e.Batch, e.Err, e.Snippet)
	}
	return fmt.Sprintf("batch %d: undecodable classifier response: %v", e.Batch, e.Err)
}

func (e *BatchDecodeError) Unwrap() error {
	return e.Err
}

// RecordError describes one classifier result that was rejected.
type RecordError struct {
	Index  int // position in the results array
	ID     int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("result %d (id %d) rejected: %s", e.Index, e.ID, e.Reason)
}

// Snippet shortens s to at most n bytes for inclusion in error messages.
func Snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
