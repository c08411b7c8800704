// Package common provides CSV input and output for expense tables.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/expense-audit/internal/dateutils"
	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
	"fjacquet/expense-audit/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// RawRow is one input line before validation. Columns beyond these are ignored.
type RawRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
}

// Table is the raw content of an input file.
type Table struct {
	Source string
	Header []string // normalized: trimmed and lowercased
	Rows   []RawRow
}

// ExportRow is the CSV layout of a processed transaction.
type ExportRow struct {
	ID                   int     `csv:"id"`
	Date                 string  `csv:"date"`
	Amount               string  `csv:"amount"`
	Description          string  `csv:"description"`
	Category             string  `csv:"category"`
	Confidence           float64 `csv:"confidence"`
	ClassificationSource string  `csv:"classification_source"`
	CategoryZScore       string  `csv:"category_zscore"`
	CategoryOutlierFlag  bool    `csv:"category_outlier_flag"`
	HighAbsoluteFlag     bool    `csv:"high_absolute_flag"`
	DuplicateFlag        bool    `csv:"duplicate_flag"`
	AnomalyFlag          bool    `csv:"anomaly_flag"`
	AnomalyReason        string  `csv:"anomaly_reason"`
}

// NewExportRow converts a processed transaction to its CSV layout.
func NewExportRow(tx models.Transaction) ExportRow {
	return ExportRow{
		ID:                   tx.ID,
		Date:                 dateutils.ToISODate(tx.Date),
		Amount:               tx.Amount.String(),
		Description:          tx.Description,
		Category:             tx.Category,
		Confidence:           tx.Confidence,
		ClassificationSource: string(tx.Source),
		CategoryZScore:       strconv.FormatFloat(tx.CategoryZScore, 'f', 4, 64),
		CategoryOutlierFlag:  tx.CategoryOutlierFlag,
		HighAbsoluteFlag:     tx.HighAbsoluteFlag,
		DuplicateFlag:        tx.DuplicateFlag,
		AnomalyFlag:          tx.AnomalyFlag,
		AnomalyReason:        tx.AnomalyReason,
	}
}

// normalizedReader feeds pre-read records to gocsv.
type normalizedReader struct {
	records [][]string
	pos     int
}

func (r *normalizedReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

func (r *normalizedReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}

// ReadTable reads a delimited table from in. Header names are matched
// case-insensitively by normalizing them before unmarshaling.
func ReadTable(in io.Reader, delimiter rune, source string) (*Table, error) {
	reader := csv.NewReader(in)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "delimited text with a header row",
			Msg:            err.Error(),
		}
	}
	if len(records) == 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "delimited text with a header row",
			Msg:            "file is empty",
		}
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	records[0] = header

	table := &Table{Source: source, Header: header}
	if len(records) == 1 {
		return table, nil
	}
	if err := gocsv.UnmarshalCSV(&normalizedReader{records: records}, &table.Rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return table, nil
}

// ReadCSVFile opens filePath and reads it with ReadTable.
func ReadCSVFile(filePath string, delimiter rune, logger logging.Logger) (*Table, error) {
	logger = logging.OrNop(logger)
	logger.Info("Reading CSV file",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delimiter)})

	file, err := os.Open(filePath) // #nosec G304 -- path is supplied by the user
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	table, err := ReadTable(file, delimiter, filePath)
	if err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, err
	}

	logger.Info("Successfully read CSV data",
		logging.Field{Key: logging.FieldCount, Value: len(table.Rows)})
	return table, nil
}

// WriteTransactions writes processed transactions as CSV to out.
func WriteTransactions(out io.Writer, transactions []models.Transaction, delimiter rune) error {
	if transactions == nil {
		return errors.New("cannot write nil transactions to CSV")
	}

	rows := make([]ExportRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = NewExportRow(tx)
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTransactionsToCSV writes processed transactions to csvFile, creating
// its directory if needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	logger = logging.OrNop(logger)
	if transactions == nil {
		return errors.New("cannot write nil transactions to CSV")
	}

	logger.Info("Writing transactions to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(csvFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionReportFile) // #nosec G304,G302
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTransactions(file, transactions, delimiter); err != nil {
		logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return err
	}
	return nil
}
