// Package report handles the report command
package report

import (
	"context"
	"fmt"
	"io"

	"fjacquet/expense-audit/cmd/common"
	"fjacquet/expense-audit/cmd/root"
	csvio "fjacquet/expense-audit/internal/common"
	"fjacquet/expense-audit/internal/container"
	reporting "fjacquet/expense-audit/internal/report"
	"fjacquet/expense-audit/internal/validation"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Generate spend and anomaly metrics for a CSV of transactions",
	Long: `Run the full pipeline and write a report with total spend, spend by
category, the largest transactions, the anomaly breakdown, the monthly trend
and the average spend per category.

Without --output the report is written next to the input as <name>_report.<format>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := root.GetContainer(ctx)
		if err != nil {
			return err
		}
		return Run(ctx, c, root.SharedFlags.Input, root.SharedFlags.Output, format, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: json or yaml (default from config)")
}

// Run builds the report for inputFile and writes it in the given format.
func Run(ctx context.Context, c *container.Container, inputFile, outputFile, reportFormat string, in io.Reader, out io.Writer) error {
	cfg := c.GetConfig()
	if reportFormat == "" {
		reportFormat = cfg.Report.Format
	}
	if err := validation.IsValidReportFormat(reportFormat); err != nil {
		return err
	}

	result, err := common.Analyze(ctx, c, inputFile, in)
	if err != nil {
		return err
	}

	r := reporting.Build(result.Transactions, reporting.Options{
		Source:         inputFile,
		Currency:       cfg.Report.Currency,
		TopN:           cfg.Report.TopN,
		Categorization: &result.Categorization,
	})

	generator := c.GetReportGenerator()
	if outputFile == "" {
		outputFile = csvio.DeriveOutputPath(inputFile, "_report", reportFormat)
	}
	if outputFile == "" || outputFile == "-" {
		rendered, err := generator.Render(r, reportFormat)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(rendered))
		return err
	}

	if err := generator.WriteFile(r, reportFormat, outputFile); err != nil {
		return err
	}
	if err := generator.WriteText(out, r); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nReport %s written to %s\n", r.RunID, outputFile)
	return err
}
