// Package report aggregates a processed expense table into spend and anomaly
// metrics and renders them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Generator renders reports in various formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrNop(logger)}
}

// Render encodes the report in the specified format (json or yaml).
func (g *Generator) Render(r *Report, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return out, nil
	case "yaml":
		out, err := yaml.Marshal(r)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile renders the report and writes it to path.
func (g *Generator) WriteFile(r *Report, format, path string) error {
	out, err := g.Render(r, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, out, models.PermissionReportFile); err != nil { // #nosec G306
		return fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Info("Report written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: "format", Value: format})
	return nil
}

// WriteText prints a human-readable summary of the report.
func (g *Generator) WriteText(w io.Writer, r *Report) error {
	money := func(amount decimal.Decimal) string {
		return models.NewMoney(amount, r.Currency).String()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total spend:\t%s\n", money(r.Summary.TotalSpend))
	fmt.Fprintf(tw, "Transactions:\t%d\n", r.Summary.TotalTransactions)
	fmt.Fprintf(tw, "Anomalies:\t%d\n", r.Summary.TotalAnomalies)
	if c := r.Categorization; c != nil {
		fmt.Fprintf(tw, "Categorized:\t%d rule-based, %d classifier, %d fallback (%.1f%% coverage)\n",
			c.RuleBased, c.LLM, c.Fallback, c.CoverageRate)
	}

	fmt.Fprintln(tw, "\nSpend by category:")
	for _, s := range r.SpendByCategory {
		fmt.Fprintf(tw, "  %s\t%s\t%.2f%%\n", s.Category, money(s.Amount), s.Percentage)
	}

	fmt.Fprintln(tw, "\nMonthly trend:")
	for _, m := range r.MonthlyTrend {
		fmt.Fprintf(tw, "  %s\t%s\n", m.Month, money(m.Amount))
	}

	fmt.Fprintf(tw, "\nAnomaly breakdown:\t%d category outliers, %d duplicates, %d high absolute\n",
		r.AnomalyBreakdown.CategoryOutliers, r.AnomalyBreakdown.Duplicates, r.AnomalyBreakdown.HighAbsolute)
	for _, a := range r.Anomalies {
		fmt.Fprintf(tw, "  #%d %s\t%s\t%s\t%s\n", a.ID, a.Date, truncate(a.Description, 40),
			money(a.Amount), a.Reason)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
