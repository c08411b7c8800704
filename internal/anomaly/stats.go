package anomaly

import (
	"math"

	"github.com/shopspring/decimal"

	"fjacquet/expense-audit/internal/models"
)

// summary holds the mean and sample standard deviation of a set of amounts.
type summary struct {
	n    int
	mean decimal.Decimal
	std  float64
}

// summarize computes the mean and sample (n-1) standard deviation of the
// amounts of rows. The sums are exact, so identical amounts always yield a
// standard deviation of exactly zero.
func summarize(rows []models.Transaction, indexes []int) summary {
	s := summary{n: len(indexes)}
	if s.n == 0 {
		return s
	}

	total := decimal.Zero
	for _, i := range indexes {
		total = total.Add(rows[i].Amount)
	}
	s.mean = total.Div(decimal.NewFromInt(int64(s.n)))

	if s.n < 2 {
		return s
	}

	squares := decimal.Zero
	for _, i := range indexes {
		d := rows[i].Amount.Sub(s.mean)
		squares = squares.Add(d.Mul(d))
	}
	variance := squares.Div(decimal.NewFromInt(int64(s.n - 1))).InexactFloat64()
	s.std = math.Sqrt(variance)
	return s
}

// degenerate reports whether no z-score can be computed.
func (s summary) degenerate() bool {
	return s.n < 2 || s.std == 0 || math.IsNaN(s.std)
}

// zScore returns (amount - mean) / std. Callers check degenerate first.
func (s summary) zScore(amount decimal.Decimal) float64 {
	return amount.Sub(s.mean).InexactFloat64() / s.std
}

func allIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
