package anomaly

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fjacquet/expense-audit/internal/models"
)

func duplicate(tx models.Transaction) bool { return tx.DuplicateFlag }

func txOn(id int, date time.Time, amount, description string) models.Transaction {
	return models.NewTransaction(id, date, decimal.RequireFromString(amount), description)
}

func TestDuplicateDetector_AmazonScenario(t *testing.T) {
	rows := []models.Transaction{
		txOn(0, day, "4999.99", "Amazon"),
		txOn(1, day, "4999.99", "Amazon"),
	}

	NewDuplicateDetector(nil).Detect(rows)

	assert.False(t, rows[0].DuplicateFlag)
	assert.True(t, rows[1].DuplicateFlag)
}

func TestDuplicateDetector_NIdenticalRows(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		rows := make([]models.Transaction, n)
		for i := range rows {
			rows[i] = txOn(i, day, "120.50", "Vodafone bill")
		}

		NewDuplicateDetector(nil).Detect(rows)

		assert.Len(t, flagged(rows, duplicate), n-1)
		assert.False(t, rows[0].DuplicateFlag, "first occurrence is never flagged")
	}
}

func TestDuplicateDetector_Key(t *testing.T) {
	tests := []struct {
		name     string
		second   models.Transaction
		expected bool
	}{
		{"numerically equal amount", txOn(1, day, "4999.990", "Amazon"), true},
		{"same day different time", txOn(1, day.Add(15*time.Hour), "4999.99", "Amazon"), true},
		{"different amount", txOn(1, day, "4999.98", "Amazon"), false},
		{"different date", txOn(1, day.AddDate(0, 0, 1), "4999.99", "Amazon"), false},
		{"different description case", txOn(1, day, "4999.99", "AMAZON"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []models.Transaction{txOn(0, day, "4999.99", "Amazon"), tt.second}

			NewDuplicateDetector(nil).Detect(rows)

			assert.False(t, rows[0].DuplicateFlag)
			assert.Equal(t, tt.expected, rows[1].DuplicateFlag)
		})
	}
}

func TestDuplicateDetector_FirstInSliceOrder(t *testing.T) {
	rows := []models.Transaction{
		txOn(7, day, "10", "Slack"),
		txOn(3, day, "10", "Slack"),
		txOn(5, day, "10", "Notion"),
	}

	NewDuplicateDetector(nil).Detect(rows)

	assert.Equal(t, []int{3}, flagged(rows, duplicate))
}
