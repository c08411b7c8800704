// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"

	csvio "fjacquet/expense-audit/internal/common"
	"fjacquet/expense-audit/internal/container"
	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
	"fjacquet/expense-audit/internal/validation"
)

// Result carries a processed table and the statistics of each stage.
type Result struct {
	Source         string
	Transactions   []models.Transaction
	Validation     validation.Result
	Categorization models.CategorizationStats
	Anomalies      models.AnomalyStats
}

// LoadTransactions reads and validates an input CSV file. "-" reads stdin.
func LoadTransactions(c *container.Container, inputFile string, stdin io.Reader) ([]models.Transaction, validation.Result, error) {
	if inputFile == "" {
		return nil, validation.Result{}, fmt.Errorf("an input file is required (--input)")
	}

	var (
		table *csvio.Table
		err   error
	)
	if inputFile == "-" {
		table, err = csvio.ReadTable(stdin, c.GetConfig().Delimiter(), "stdin")
	} else {
		if err := validation.IsValidPath(inputFile); err != nil {
			return nil, validation.Result{}, err
		}
		table, err = csvio.ReadCSVFile(inputFile, c.GetConfig().Delimiter(), c.GetLogger())
	}
	if err != nil {
		return nil, validation.Result{}, err
	}

	return c.GetPreprocessor().Process(table)
}

// Categorize loads inputFile and categorizes every row.
func Categorize(ctx context.Context, c *container.Container, inputFile string, stdin io.Reader) (*Result, error) {
	rows, vr, err := LoadTransactions(c, inputFile, stdin)
	if err != nil {
		return nil, err
	}

	categorized, stats := c.GetCategorizer().Categorize(ctx, rows)
	return &Result{
		Source:         inputFile,
		Transactions:   categorized,
		Validation:     vr,
		Categorization: stats,
	}, nil
}

// Analyze runs the full pipeline: load, categorize, detect anomalies.
func Analyze(ctx context.Context, c *container.Container, inputFile string, stdin io.Reader) (*Result, error) {
	result, err := Categorize(ctx, c, inputFile, stdin)
	if err != nil {
		return nil, err
	}

	result.Transactions, result.Anomalies = c.GetDetector().Detect(result.Transactions)
	return result, nil
}

// WriteTransactions writes the processed table to outputFile, or to stdout
// when outputFile is empty or "-".
func WriteTransactions(c *container.Container, rows []models.Transaction, outputFile string, stdout io.Writer) error {
	if outputFile == "" || outputFile == "-" {
		return csvio.WriteTransactions(stdout, rows, c.GetConfig().Delimiter())
	}
	if err := csvio.WriteTransactionsToCSV(rows, outputFile, c.GetConfig().Delimiter(), c.GetLogger()); err != nil {
		return err
	}
	c.GetLogger().Info("Processed transactions written",
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}
