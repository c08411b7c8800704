package categorizer

import (
	"testing"

	"fjacquet/expense-audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleMatcher_Match(t *testing.T) {
	matcher := NewRuleMatcher(models.DefaultCategorySet())

	tests := []struct {
		name        string
		description string
		expected    string
		expectMatch bool
	}{
		{"uber trip", "Uber trip to airport", models.CategoryTravel, true},
		{"uppercase merchant", "STARBUCKS COFFEE #42", models.CategoryMeals, true},
		{"multi-word keyword", "Monthly Google Cloud invoice", models.CategorySoftware, true},
		{"office supplies", "Amazon order 123", models.CategoryOfficeSupplies, true},
		{"substring inside a word", "Bookmyshow tickets", models.CategoryEntertainment, true},
		{"no keyword", "Transfer to savings", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, confidence, ok := matcher.Match(tt.description)
			assert.Equal(t, tt.expectMatch, ok)
			assert.Equal(t, tt.expected, category)
			if ok {
				assert.Equal(t, 1.0, confidence)
			} else {
				assert.Zero(t, confidence)
			}
		})
	}
}

func TestRuleMatcher_FirstCategoryInOrderWins(t *testing.T) {
	// Both a Software and a Marketing keyword occur; Software comes first.
	matcher := NewRuleMatcher(models.DefaultCategorySet())

	category, _, ok := matcher.Match("google ads billed via google cloud")
	require.True(t, ok)
	assert.Equal(t, models.CategorySoftware, category)

	set, err := models.NewCategorySet([]models.CategoryConfig{
		{Name: "B", Keywords: []string{"shared"}},
		{Name: "A", Keywords: []string{"shared"}},
	})
	require.NoError(t, err)

	category, _, ok = NewRuleMatcher(set).Match("a shared thing")
	require.True(t, ok)
	assert.Equal(t, "B", category)
	assert.Equal(t, "shared", NewRuleMatcher(set).MatchedKeyword("a shared thing"))
}
