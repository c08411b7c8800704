// Package validation checks the schema of an input table and turns its raw
// rows into clean transactions.
package validation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/expense-audit/internal/common"
	"fjacquet/expense-audit/internal/dateutils"
	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
	"fjacquet/expense-audit/internal/parsererror"

	"github.com/shopspring/decimal"
)

// RequiredColumns must be present in every input header, matched case-insensitively.
var RequiredColumns = []string{"date", "amount", "description"}

// ValidateHeader returns a ValidationError naming every required column
// missing from header.
func ValidateHeader(header []string, source string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &parsererror.ValidationError{
			FilePath:       source,
			Reason:         "missing required columns",
			MissingColumns: missing,
		}
	}
	return nil
}

// Result describes what preprocessing kept and dropped.
type Result struct {
	Total   int
	Kept    int
	Dropped []*parsererror.ParseError
}

// Preprocessor cleans raw rows into transactions.
type Preprocessor struct {
	dateFormat string
	logger     logging.Logger
}

// NewPreprocessor creates a Preprocessor. dateFormat is an optional Go layout
// tried before the common formats.
func NewPreprocessor(dateFormat string, logger logging.Logger) *Preprocessor {
	return &Preprocessor{dateFormat: dateFormat, logger: logging.OrNop(logger)}
}

// Process validates the table header, then converts every row. Rows with an
// unparseable date or amount, or an empty description, are dropped. Kept rows
// get IDs 0..n-1 in file order.
func (p *Preprocessor) Process(table *common.Table) ([]models.Transaction, Result, error) {
	if table == nil {
		return nil, Result{}, errors.New("no table to process")
	}
	if err := ValidateHeader(table.Header, table.Source); err != nil {
		return nil, Result{}, err
	}

	result := Result{Total: len(table.Rows)}
	rows := make([]models.Transaction, 0, len(table.Rows))
	for i, raw := range table.Rows {
		tx, err := p.convert(len(rows), raw)
		if err != nil {
			var parseErr *parsererror.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Source = table.Source
				parseErr.Row = i + 2 // header is line 1
				result.Dropped = append(result.Dropped, parseErr)
			}
			p.logger.Debug("Dropping invalid row",
				logging.Field{Key: logging.FieldFile, Value: table.Source},
				logging.Field{Key: logging.FieldReason, Value: err.Error()})
			continue
		}
		rows = append(rows, tx)
	}
	result.Kept = len(rows)

	if len(result.Dropped) > 0 {
		p.logger.Warn("Dropped invalid rows",
			logging.Field{Key: logging.FieldFile, Value: table.Source},
			logging.Field{Key: logging.FieldCount, Value: len(result.Dropped)})
	}
	return rows, result, nil
}

func (p *Preprocessor) convert(id int, raw common.RawRow) (models.Transaction, error) {
	date, _, err := dateutils.ParseDate(raw.Date, p.dateFormat)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Field: "date", Value: raw.Date, Err: err}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw.Amount))
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Field: "amount", Value: raw.Amount, Err: err}
	}

	description := strings.TrimSpace(raw.Description)
	if description == "" {
		return models.Transaction{}, &parsererror.ParseError{Field: "description", Value: raw.Description, Err: errors.New("empty description")}
	}

	return models.NewTransaction(id, date, amount, description), nil
}

// IsValidPath checks that path exists and is a regular file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// IsValidReportFormat checks if the given report format is supported.
func IsValidReportFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are 'json', 'yaml'", format)
	}
}
