package anomaly

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	rows := rowsFor("Meals", "2", "4", "4", "4", "5", "5", "7", "9")
	s := summarize(rows, allIndexes(len(rows)))

	assert.Equal(t, 8, s.n)
	assert.True(t, s.mean.Equal(decimal.NewFromInt(5)))
	// sample variance 32/7
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.std, 1e-12)
	assert.False(t, s.degenerate())
	assert.InDelta(t, -3/math.Sqrt(32.0/7.0), s.zScore(decimal.NewFromInt(2)), 1e-12)
}

func TestSummarize_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		amounts []string
	}{
		{"empty", nil},
		{"single row", []string{"10"}},
		{"identical amounts", []string{"33.33", "33.33", "33.33", "33.330", "33.33"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := rowsFor("Meals", tt.amounts...)
			s := summarize(rows, allIndexes(len(rows)))
			assert.True(t, s.degenerate())
		})
	}
}
