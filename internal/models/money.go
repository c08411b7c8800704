package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with currency
type Money struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency string          `json:"currency" yaml:"currency"`
}

// NewMoney creates a new Money instance with the given amount and currency
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// ZeroMoney returns a Money instance with zero amount in the given currency
func ZeroMoney(currency string) Money {
	return Money{
		Amount:   decimal.Zero,
		Currency: currency,
	}
}

// Add adds another Money value to this one
// Returns an error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot add different currencies: %s and %s", m.Currency, other.Currency)
	}
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}, nil
}

// Div divides the money amount by a decimal divisor
func (m Money) Div(divisor decimal.Decimal) Money {
	return Money{
		Amount:   m.Amount.Div(divisor),
		Currency: m.Currency,
	}
}

// String returns a string representation of the money value
func (m Money) String() string {
	if m.Currency == "" {
		return m.Amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

// Float64 returns the amount as a float64
// Note: This can introduce precision errors and should be used carefully
func (m Money) Float64() float64 {
	f, _ := m.Amount.Float64()
	return f
}

// SumAmounts adds up the amounts of the given transactions in one currency.
func SumAmounts(rows []Transaction, currency string) Money {
	total := decimal.Zero
	for _, tx := range rows {
		total = total.Add(tx.Amount)
	}
	return NewMoney(total, currency)
}
