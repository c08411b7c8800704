package categorizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(descriptions ...string) []models.Transaction {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]models.Transaction, len(descriptions))
	for i, d := range descriptions {
		rows[i] = models.NewTransaction(i, day, decimal.NewFromInt(int64(100+i)), d)
	}
	return rows
}

func assertCategorized(t *testing.T, set models.CategorySet, rows []models.Transaction) {
	t.Helper()
	for _, row := range rows {
		assert.True(t, set.Contains(row.Category), "row %d has category %q outside the set", row.ID, row.Category)
		assert.True(t, row.Source.IsValid(), "row %d has no source", row.ID)
		assert.GreaterOrEqual(t, row.Confidence, 0.0)
		assert.LessOrEqual(t, row.Confidence, 1.0)
		if row.Source == models.SourceRuleBased {
			assert.Equal(t, 1.0, row.Confidence)
		}
	}
}

func TestCategorize_RuleHitNeverCallsClassifier(t *testing.T) {
	classifier := &recordingClassifier{}
	c := NewCategorizer(models.DefaultCategorySet(), classifier, nil)

	out, stats := c.Categorize(context.Background(), makeRows("Uber trip to airport"))

	require.Len(t, out, 1)
	assert.Equal(t, models.CategoryTravel, out[0].Category)
	assert.Equal(t, 1.0, out[0].Confidence)
	assert.Equal(t, models.SourceRuleBased, out[0].Source)
	assert.Empty(t, classifier.requests)
	assert.Equal(t, 1, stats.RuleBased)
	assert.Zero(t, stats.BatchesSent)
}

func TestCategorize_TwoValidOneInvalid(t *testing.T) {
	classifier := ClassifierFunc(func(ctx context.Context, req BatchRequest) (string, error) {
		require.Len(t, req.Items, 3)
		return fmt.Sprintf(`{"results":[
			{"id":%d,"category":"Meals","confidence":0.82},
			{"id":%d,"category":"Software","confidence":0.64},
			{"id":%d,"category":"Crypto","confidence":0.9}
		]}`, req.Items[0].ID, req.Items[1].ID, req.Items[2].ID), nil
	})
	c := NewCategorizer(models.DefaultCategorySet(), classifier, nil)

	out, stats := c.Categorize(context.Background(), makeRows("Zomato order", "Figma seat", "Bitcoin purchase"))

	assert.Equal(t, models.CategoryMeals, out[0].Category)
	assert.Equal(t, models.SourceLLM, out[0].Source)
	assert.Equal(t, 0.82, out[0].Confidence)
	assert.Equal(t, models.CategorySoftware, out[1].Category)
	assert.Equal(t, models.SourceLLM, out[1].Source)
	assert.Equal(t, models.CategoryOther, out[2].Category)
	assert.Equal(t, models.SourceFallback, out[2].Source)
	assert.Zero(t, out[2].Confidence)

	assert.Equal(t, 2, stats.LLM)
	assert.Equal(t, 1, stats.Fallback)
	assert.Equal(t, 1, stats.BatchesSent)
	assert.Zero(t, stats.BatchesFailed)
}

func TestCategorize_MatchesResultsByIDNotPosition(t *testing.T) {
	classifier := ClassifierFunc(func(ctx context.Context, req BatchRequest) (string, error) {
		// answer in reverse order, plus an ID that was resolved by rules
		return `{"results":[
			{"id":2,"category":"Healthcare","confidence":0.7},
			{"id":0,"category":"Marketing","confidence":0.6},
			{"id":1,"category":"Meals","confidence":0.9}
		]}`, nil
	})
	c := NewCategorizer(models.DefaultCategorySet(), classifier, nil)

	out, _ := c.Categorize(context.Background(), makeRows("Print flyers", "Uber ride", "Dental clinic"))

	assert.Equal(t, models.CategoryMarketing, out[0].Category)
	assert.Equal(t, models.CategoryTravel, out[1].Category, "rule result is not overwritten")
	assert.Equal(t, models.SourceRuleBased, out[1].Source)
	assert.Equal(t, models.CategoryHealthcare, out[2].Category)
}

func TestCategorize_NoClassifierFallsBack(t *testing.T) {
	c := NewCategorizer(models.DefaultCategorySet(), nil, nil)
	assert.False(t, c.HasClassifier())

	out, stats := c.Categorize(context.Background(), makeRows("Netflix", "Mystery vendor"))

	assert.Equal(t, models.CategoryEntertainment, out[0].Category)
	assert.Equal(t, models.CategoryOther, out[1].Category)
	assert.Equal(t, models.SourceFallback, out[1].Source)
	assert.Equal(t, models.CategorizationStats{Total: 2, RuleBased: 1, Fallback: 1}, stats)
}

func TestCategorize_SourcesPartitionRows(t *testing.T) {
	descriptions := make([]string, 0, 57)
	for i := 0; i < 57; i++ {
		switch i % 3 {
		case 0:
			descriptions = append(descriptions, "Starbucks latte")
		default:
			descriptions = append(descriptions, fmt.Sprintf("vendor %d", i))
		}
	}
	classifier := &recordingClassifier{
		respond: func(req BatchRequest) (string, error) {
			if req.Index == 1 {
				return "garbage", nil
			}
			return answerAll(req, models.CategoryUtilities, 0.55), nil
		},
	}
	set := models.DefaultCategorySet()
	c := NewCategorizer(set, classifier, logging.NewMockLogger(), WithBatchSize(20))

	out, stats := c.Categorize(context.Background(), makeRows(descriptions...))

	assertCategorized(t, set, out)
	assert.Equal(t, 57, stats.Total)
	assert.Equal(t, stats.Total, stats.RuleBased+stats.LLM+stats.Fallback)
	assert.Equal(t, 19, stats.RuleBased)
	assert.Equal(t, 2, stats.BatchesSent, "38 unresolved rows in batches of 20")
	assert.Equal(t, 1, stats.BatchesFailed)
	assert.Equal(t, 20, stats.LLM)
	assert.Equal(t, 18, stats.Fallback)

	seen := make(map[int]int)
	for _, req := range classifier.requests {
		for _, item := range req.Items {
			seen[item.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "row %d sent more than once", id)
	}
}

func TestCategorize_DoesNotMutateInput(t *testing.T) {
	rows := makeRows("Uber", "unknown")
	rows[1].Category = "stale"
	rows[1].Source = models.SourceLLM

	c := NewCategorizer(models.DefaultCategorySet(), nil, nil)
	out, _ := c.Categorize(context.Background(), rows)

	assert.Equal(t, "", rows[0].Category)
	assert.Equal(t, "stale", rows[1].Category)
	assert.Equal(t, models.CategoryOther, out[1].Category)
	assert.Equal(t, models.SourceFallback, out[1].Source)
}

func TestCategorizeDescription(t *testing.T) {
	classifier := ClassifierFunc(func(ctx context.Context, req BatchRequest) (string, error) {
		return answerAll(req, models.CategoryMarketing, 0.77), nil
	})
	c := NewCategorizer(models.DefaultCategorySet(), classifier, nil)

	tx := c.CategorizeDescription(context.Background(), "Billboard rental")
	assert.Equal(t, models.CategoryMarketing, tx.Category)
	assert.Equal(t, models.SourceLLM, tx.Source)

	tx = c.CategorizeDescription(context.Background(), "Apollo pharmacy")
	assert.Equal(t, models.CategoryHealthcare, tx.Category)
	assert.Equal(t, models.SourceRuleBased, tx.Source)
}

func TestCategorize_LogsMatchedKeyword(t *testing.T) {
	mock := logging.NewMockLogger()
	c := NewCategorizer(models.DefaultCategorySet(), nil, mock)

	c.Categorize(context.Background(), makeRows("Starbucks latte"))

	var found bool
	for _, entry := range mock.GetEntriesByLevel("DEBUG") {
		if entry.Message != "Rule matched" {
			continue
		}
		found = true
		keyword, ok := entry.FieldValue(logging.FieldKeyword)
		require.True(t, ok)
		assert.Equal(t, "starbucks", keyword)
		category, _ := entry.FieldValue(logging.FieldCategory)
		assert.Equal(t, models.CategoryMeals, category)
	}
	assert.True(t, found)
}
