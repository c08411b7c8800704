// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassificationSource records which stage assigned a transaction's category.
type ClassificationSource string

// Classification sources. Every processed transaction carries exactly one.
const (
	SourceNone      ClassificationSource = ""
	SourceRuleBased ClassificationSource = "rule_based"
	SourceLLM       ClassificationSource = "llm"
	SourceFallback  ClassificationSource = "fallback"
)

// IsValid reports whether s is one of the three assigned sources.
func (s ClassificationSource) IsValid() bool {
	switch s {
	case SourceRuleBased, SourceLLM, SourceFallback:
		return true
	}
	return false
}

// Transaction is one row of the expense table.
//
// ID is assigned once at load time and is carried through every stage, so rows
// can be matched up again even if a stage reorders them.
type Transaction struct {
	ID          int
	Date        time.Time
	Amount      decimal.Decimal
	Description string

	// Set by the categorizer
	Category   string
	Confidence float64
	Source     ClassificationSource

	// Set by the anomaly detector
	CategoryZScore      float64
	CategoryOutlierFlag bool
	HighAbsoluteFlag    bool
	DuplicateFlag       bool
	AnomalyFlag         bool
	AnomalyReason       string
}

// NewTransaction creates a transaction with its load-time identity.
// The date is truncated to the calendar day.
func NewTransaction(id int, date time.Time, amount decimal.Decimal, description string) Transaction {
	return Transaction{
		ID:          id,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Amount:      amount,
		Description: description,
	}
}

// IsCategorized reports whether a category has been assigned.
func (t Transaction) IsCategorized() bool {
	return t.Category != "" && t.Source != SourceNone
}

// ResetCategory clears the fields written by the categorizer.
func (t *Transaction) ResetCategory() {
	t.Category = ""
	t.Confidence = 0
	t.Source = SourceNone
}

// ResetAnomaly clears the fields written by the anomaly detector.
func (t *Transaction) ResetAnomaly() {
	t.CategoryZScore = 0
	t.CategoryOutlierFlag = false
	t.HighAbsoluteFlag = false
	t.DuplicateFlag = false
	t.AnomalyFlag = false
	t.AnomalyReason = ""
}

// CloneTransactions returns a copy of the table that can be mutated without
// touching the caller's slice.
func CloneTransactions(rows []Transaction) []Transaction {
	if rows == nil {
		return nil
	}
	out := make([]Transaction, len(rows))
	copy(out, rows)
	return out
}
