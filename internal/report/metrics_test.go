package report

import (
	"testing"
	"time"

	"fjacquet/expense-audit/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id int, date, amount, description, category string) models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	t := models.NewTransaction(id, d, decimal.RequireFromString(amount), description)
	t.Category = category
	return t
}

func sampleRows() []models.Transaction {
	rows := []models.Transaction{
		tx(0, "2024-05-03", "450", "Uber trip", models.CategoryTravel),
		tx(1, "2024-05-10", "150", "Starbucks", models.CategoryMeals),
		tx(2, "2024-06-01", "4999.99", "Amazon", models.CategoryOfficeSupplies),
		tx(3, "2024-06-01", "4999.99", "Amazon", models.CategoryOfficeSupplies),
		tx(4, "2024-06-20", "250", "KFC", models.CategoryMeals),
		tx(5, "2024-04-11", "150.02", "Notion", models.CategorySoftware),
	}
	rows[3].DuplicateFlag = true
	rows[3].AnomalyFlag = true
	rows[3].AnomalyReason = models.ReasonDuplicate
	rows[2].HighAbsoluteFlag = true
	rows[2].AnomalyReason = models.ReasonHighAbsolute
	return rows
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	stats := models.CategorizationStats{Total: 6, RuleBased: 5, Fallback: 1, BatchesSent: 1, BatchesFailed: 1}

	r := Build(sampleRows(), Options{
		Source:         "expenses.csv",
		Currency:       "INR",
		TopN:           3,
		Categorization: &stats,
		Now:            func() time.Time { return now },
	})

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, "INR", r.Currency)

	assert.Equal(t, "11000", r.Summary.TotalSpend.String())
	assert.Equal(t, 6, r.Summary.TotalTransactions)
	assert.Equal(t, 1, r.Summary.TotalAnomalies)

	require.NotNil(t, r.Categorization)
	assert.Equal(t, 5, r.Categorization.RuleBased)
	assert.InDelta(t, 83.33, r.Categorization.CoverageRate, 0.01)

	require.Len(t, r.SpendByCategory, 4)
	assert.Equal(t, models.CategoryOfficeSupplies, r.SpendByCategory[0].Category)
	assert.Equal(t, "9999.98", r.SpendByCategory[0].Amount.String())
	assert.Equal(t, 2, r.SpendByCategory[0].Count)
	assert.InDelta(t, 90.91, r.SpendByCategory[0].Percentage, 0.001)
	assert.Equal(t, models.CategoryTravel, r.SpendByCategory[1].Category)
	assert.Equal(t, models.CategoryMeals, r.SpendByCategory[2].Category)
	assert.Equal(t, models.CategorySoftware, r.SpendByCategory[3].Category)

	require.Len(t, r.TopTransactions, 3)
	assert.Equal(t, []int{2, 3, 0}, []int{r.TopTransactions[0].ID, r.TopTransactions[1].ID, r.TopTransactions[2].ID})

	assert.Equal(t, AnomalyBreakdown{CategoryOutliers: 0, Duplicates: 1, HighAbsolute: 1}, r.AnomalyBreakdown)

	require.Len(t, r.MonthlyTrend, 3)
	assert.Equal(t, "2024-04", r.MonthlyTrend[0].Month)
	assert.Equal(t, "2024-05", r.MonthlyTrend[1].Month)
	assert.Equal(t, "600", r.MonthlyTrend[1].Amount.String())
	assert.Equal(t, "2024-06", r.MonthlyTrend[2].Month)
	assert.Equal(t, "10249.98", r.MonthlyTrend[2].Amount.String())

	require.Len(t, r.AverageByCategory, 4)
	assert.Equal(t, models.CategoryOfficeSupplies, r.AverageByCategory[0].Category)
	assert.Equal(t, "4999.99", r.AverageByCategory[0].Average.String())
	assert.Equal(t, models.CategoryMeals, r.AverageByCategory[2].Category)
	assert.Equal(t, "200", r.AverageByCategory[2].Average.String())

	require.Len(t, r.Anomalies, 2)
	assert.Equal(t, 2, r.Anomalies[0].ID)
	assert.Equal(t, models.ReasonDuplicate, r.Anomalies[1].Reason)
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, Options{})

	assert.True(t, r.Summary.TotalSpend.IsZero())
	assert.Empty(t, r.SpendByCategory)
	assert.Empty(t, r.TopTransactions)
	assert.Empty(t, r.MonthlyTrend)
	assert.Nil(t, r.Categorization)
}

func TestBuild_DefaultTopN(t *testing.T) {
	var rows []models.Transaction
	for i := 0; i < 8; i++ {
		rows = append(rows, tx(i, "2024-06-01", "10", "x", models.CategoryOther))
	}

	r := Build(rows, Options{})

	assert.Len(t, r.TopTransactions, DefaultTopN)
	assert.Equal(t, 0, r.TopTransactions[0].ID, "ties keep table order")
	assert.InDelta(t, 100.0, r.SpendByCategory[0].Percentage, 0.001)
}
