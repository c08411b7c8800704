package report

import (
	"sort"
	"time"

	"fjacquet/expense-audit/internal/dateutils"
	"fjacquet/expense-audit/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of largest transactions listed.
const DefaultTopN = 5

// Report holds the aggregate metrics of one processed table.
type Report struct {
	RunID             string                 `json:"run_id" yaml:"run_id"`
	GeneratedAt       time.Time              `json:"generated_at" yaml:"generated_at"`
	Source            string                 `json:"source,omitempty" yaml:"source,omitempty"`
	Currency          string                 `json:"currency" yaml:"currency"`
	Summary           Summary                `json:"summary" yaml:"summary"`
	Categorization    *CategorizationSummary `json:"categorization,omitempty" yaml:"categorization,omitempty"`
	SpendByCategory   []CategorySpend        `json:"spend_by_category" yaml:"spend_by_category"`
	TopTransactions   []TransactionLine      `json:"top_transactions" yaml:"top_transactions"`
	AnomalyBreakdown  AnomalyBreakdown       `json:"anomaly_breakdown" yaml:"anomaly_breakdown"`
	MonthlyTrend      []MonthlySpend         `json:"monthly_trend" yaml:"monthly_trend"`
	AverageByCategory []CategoryAverage      `json:"average_by_category" yaml:"average_by_category"`
	Anomalies         []TransactionLine      `json:"anomalies" yaml:"anomalies"`
}

// Summary is the headline of a report.
type Summary struct {
	TotalSpend        decimal.Decimal `json:"total_spend" yaml:"total_spend"`
	TotalTransactions int             `json:"total_transactions" yaml:"total_transactions"`
	TotalAnomalies    int             `json:"total_anomalies" yaml:"total_anomalies"`
}

// CategorizationSummary reports how rows were categorized.
type CategorizationSummary struct {
	RuleBased     int     `json:"rule_based" yaml:"rule_based"`
	LLM           int     `json:"llm" yaml:"llm"`
	Fallback      int     `json:"fallback" yaml:"fallback"`
	BatchesSent   int     `json:"batches_sent" yaml:"batches_sent"`
	BatchesFailed int     `json:"batches_failed" yaml:"batches_failed"`
	CoverageRate  float64 `json:"coverage_rate" yaml:"coverage_rate"`
}

// CategorySpend is the total spend of one category.
type CategorySpend struct {
	Category   string          `json:"category" yaml:"category"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	Count      int             `json:"count" yaml:"count"`
	Percentage float64         `json:"percentage" yaml:"percentage"`
}

// CategoryAverage is the mean transaction amount of one category.
type CategoryAverage struct {
	Category string          `json:"category" yaml:"category"`
	Average  decimal.Decimal `json:"average" yaml:"average"`
}

// MonthlySpend is the total spend of one calendar month (YYYY-MM).
type MonthlySpend struct {
	Month  string          `json:"month" yaml:"month"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// AnomalyBreakdown counts each anomaly signal.
type AnomalyBreakdown struct {
	CategoryOutliers int `json:"category_outliers" yaml:"category_outliers"`
	Duplicates       int `json:"duplicates" yaml:"duplicates"`
	HighAbsolute     int `json:"high_absolute" yaml:"high_absolute"`
}

// TransactionLine is a transaction as listed in a report.
type TransactionLine struct {
	ID          int             `json:"id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	Reason      string          `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Options controls report building.
type Options struct {
	Source         string
	Currency       string
	TopN           int
	Categorization *models.CategorizationStats
	Now            func() time.Time
}

// Build computes the report metrics for a processed table.
func Build(rows []models.Transaction, opts Options) *Report {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: opts.Now().UTC(),
		Source:      opts.Source,
		Currency:    opts.Currency,
	}

	r.Summary = summarize(rows)
	if cs := opts.Categorization; cs != nil {
		r.Categorization = &CategorizationSummary{
			RuleBased:     cs.RuleBased,
			LLM:           cs.LLM,
			Fallback:      cs.Fallback,
			BatchesSent:   cs.BatchesSent,
			BatchesFailed: cs.BatchesFailed,
			CoverageRate:  cs.GetCoverageRate(),
		}
	}
	r.SpendByCategory, r.AverageByCategory = byCategory(rows, r.Summary.TotalSpend)
	r.TopTransactions = topTransactions(rows, opts.TopN)
	r.AnomalyBreakdown = breakdown(rows)
	r.MonthlyTrend = monthlyTrend(rows)
	r.Anomalies = anomalies(rows)
	return r
}

func summarize(rows []models.Transaction) Summary {
	s := Summary{
		TotalSpend:        models.SumAmounts(rows, "").Amount,
		TotalTransactions: len(rows),
	}
	for _, tx := range rows {
		if tx.AnomalyFlag {
			s.TotalAnomalies++
		}
	}
	return s
}

func byCategory(rows []models.Transaction, total decimal.Decimal) ([]CategorySpend, []CategoryAverage) {
	index := make(map[string]int)
	var spend []CategorySpend
	for _, tx := range rows {
		i, ok := index[tx.Category]
		if !ok {
			i = len(spend)
			index[tx.Category] = i
			spend = append(spend, CategorySpend{Category: tx.Category, Amount: decimal.Zero})
		}
		spend[i].Amount = spend[i].Amount.Add(tx.Amount)
		spend[i].Count++
	}

	averages := make([]CategoryAverage, len(spend))
	for i := range spend {
		if !total.IsZero() {
			spend[i].Percentage = spend[i].Amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		}
		averages[i] = CategoryAverage{
			Category: spend[i].Category,
			Average:  spend[i].Amount.Div(decimal.NewFromInt(int64(spend[i].Count))).Round(2),
		}
	}

	sort.SliceStable(spend, func(a, b int) bool {
		if !spend[a].Amount.Equal(spend[b].Amount) {
			return spend[a].Amount.GreaterThan(spend[b].Amount)
		}
		return spend[a].Category < spend[b].Category
	})
	sort.SliceStable(averages, func(a, b int) bool {
		if !averages[a].Average.Equal(averages[b].Average) {
			return averages[a].Average.GreaterThan(averages[b].Average)
		}
		return averages[a].Category < averages[b].Category
	})
	return spend, averages
}

func line(tx models.Transaction) TransactionLine {
	return TransactionLine{
		ID:          tx.ID,
		Date:        dateutils.ToISODate(tx.Date),
		Amount:      tx.Amount,
		Description: tx.Description,
		Category:    tx.Category,
		Reason:      tx.AnomalyReason,
	}
}

func topTransactions(rows []models.Transaction, n int) []TransactionLine {
	sorted := models.CloneTransactions(rows)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Amount.GreaterThan(sorted[b].Amount)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	lines := make([]TransactionLine, len(sorted))
	for i, tx := range sorted {
		lines[i] = line(tx)
	}
	return lines
}

func breakdown(rows []models.Transaction) AnomalyBreakdown {
	var b AnomalyBreakdown
	for _, tx := range rows {
		if tx.CategoryOutlierFlag {
			b.CategoryOutliers++
		}
		if tx.DuplicateFlag {
			b.Duplicates++
		}
		if tx.HighAbsoluteFlag {
			b.HighAbsolute++
		}
	}
	return b
}

func monthlyTrend(rows []models.Transaction) []MonthlySpend {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range rows {
		key := dateutils.MonthKey(tx.Date)
		totals[key] = totals[key].Add(tx.Amount)
	}

	trend := make([]MonthlySpend, 0, len(totals))
	for month, amount := range totals {
		trend = append(trend, MonthlySpend{Month: month, Amount: amount})
	}
	sort.Slice(trend, func(a, b int) bool { return trend[a].Month < trend[b].Month })
	return trend
}

func anomalies(rows []models.Transaction) []TransactionLine {
	var out []TransactionLine
	for _, tx := range rows {
		if tx.AnomalyFlag || tx.HighAbsoluteFlag {
			out = append(out, line(tx))
		}
	}
	return out
}
