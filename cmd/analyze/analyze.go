// Package analyze runs the full categorization and anomaly detection pipeline.
package analyze

import (
	"context"
	"io"

	"fjacquet/expense-audit/cmd/common"
	"fjacquet/expense-audit/cmd/root"
	csvio "fjacquet/expense-audit/internal/common"
	"fjacquet/expense-audit/internal/container"
	"fjacquet/expense-audit/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Categorize transactions and flag anomalies",
	Long: `Validate the input CSV, categorize every transaction, flag category
outliers, unusually high amounts and duplicates, then write the processed
CSV and print a summary.

Without --output the CSV is written next to the input as <name>_processed.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := root.GetContainer(ctx)
		if err != nil {
			return err
		}
		return Run(ctx, c, root.SharedFlags.Input, root.SharedFlags.Output, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// Run executes the pipeline. The summary goes to out, or to errOut when the
// CSV itself is written to out.
func Run(ctx context.Context, c *container.Container, inputFile, outputFile string, in io.Reader, out, errOut io.Writer) error {
	result, err := common.Analyze(ctx, c, inputFile, in)
	if err != nil {
		return err
	}

	if outputFile == "" {
		outputFile = csvio.DeriveOutputPath(inputFile, "_processed", ".csv")
	}
	if err := common.WriteTransactions(c, result.Transactions, outputFile, out); err != nil {
		return err
	}

	summaryOut := out
	if outputFile == "" || outputFile == "-" {
		summaryOut = errOut
	}

	cfg := c.GetConfig()
	r := report.Build(result.Transactions, report.Options{
		Source:         inputFile,
		Currency:       cfg.Report.Currency,
		TopN:           cfg.Report.TopN,
		Categorization: &result.Categorization,
	})
	return c.GetReportGenerator().WriteText(summaryOut, r)
}
