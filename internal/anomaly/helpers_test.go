package anomaly

import (
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/expense-audit/internal/models"
)

var day = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func row(id int, category, amount, description string) models.Transaction {
	tx := models.NewTransaction(id, day.AddDate(0, 0, id), decimal.RequireFromString(amount), description)
	tx.Category = category
	tx.Source = models.SourceRuleBased
	tx.Confidence = 1
	return tx
}

func rowsFor(category string, amounts ...string) []models.Transaction {
	rows := make([]models.Transaction, len(amounts))
	for i, a := range amounts {
		rows[i] = row(i, category, a, "expense")
	}
	return rows
}

func flagged(rows []models.Transaction, pick func(models.Transaction) bool) []int {
	var ids []int
	for _, r := range rows {
		if pick(r) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
