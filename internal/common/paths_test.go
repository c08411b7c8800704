package common

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		suffix   string
		ext      string
		expected string
	}{
		{"csv to processed csv", "data/expenses.csv", "_processed", ".csv", filepath.Join("data", "expenses_processed.csv")},
		{"report without dot", "expenses.csv", "_report", "json", "expenses_report.json"},
		{"no extension", "/tmp/export", "_processed", ".csv", "/tmp/export_processed.csv"},
		{"stdin", "-", "_processed", ".csv", ""},
		{"empty", "", "_processed", ".csv", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveOutputPath(tt.input, tt.suffix, tt.ext))
		})
	}
}
