package parsererror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "basic parse error",
			err: &ParseError{
				Source: "CSV",
				Row:    4,
				Field:  "amount",
				Value:  "invalid",
				Err:    errors.New("invalid decimal"),
			},
			expected: "CSV row 4: failed to parse amount='invalid': invalid decimal",
		},
		{
			name: "parse error with empty value",
			err: &ParseError{
				Source: "CSV",
				Row:    1,
				Field:  "date",
				Value:  "",
				Err:    errors.New("empty date"),
			},
			expected: "CSV row 1: failed to parse date='': empty date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Source: "CSV", Field: "amount", Value: "invalid", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "reason only",
			err:      &ValidationError{FilePath: "in.csv", Reason: "no rows"},
			expected: "validation failed for in.csv: no rows",
		},
		{
			name: "missing columns",
			err: &ValidationError{
				FilePath:       "in.csv",
				Reason:         "missing required columns",
				MissingColumns: []string{"date", "amount"},
			},
			expected: "validation failed for in.csv: missing required columns: date, amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{FilePath: "x.csv", ExpectedFormat: "CSV with header", Msg: "empty file"}
	assert.Equal(t, "invalid format in file 'x.csv': empty file. Expected: CSV with header", err.Error())

	err.ActualContentSnippet = "PK\x03"
	assert.Contains(t, err.Error(), "Content snippet")
}

func TestCategorizationError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := &CategorizationError{Batch: 2, Provider: "gemini", Err: cause}

	assert.Equal(t, "categorization failed for batch 2 using gemini: deadline exceeded", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestBatchDecodeError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &BatchDecodeError{Batch: 0, Snippet: `{"results": [`, Err: cause}

	assert.Contains(t, err.Error(), "batch 0: undecodable classifier response")
	assert.Contains(t, err.Error(), `{"results": [`)
	assert.ErrorIs(t, err, cause)

	var target *BatchDecodeError
	wrapped := errors.Join(errors.New("outer"), err)
	assert.True(t, errors.As(wrapped, &target))
}

func TestRecordError(t *testing.T) {
	err := &RecordError{Index: 1, ID: 7, Reason: "unknown category"}
	assert.Equal(t, "result 1 (id 7) rejected: unknown category", err.Error())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet("  abc  ", 10))
	assert.Equal(t, "abcde...", Snippet("abcdefgh", 5))
}
