// Package categorizer assigns every transaction a label from a closed category set:
// 1. Local keyword rules, in category order, at full confidence
// 2. Batched lookups against an external classifier for rows no rule matched
// 3. The "Other" fallback for anything still unlabeled
package categorizer

import (
	"context"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
)

// Categorizer runs the rule, batch and fallback passes over a table.
// It holds no table state between calls.
type Categorizer struct {
	categories models.CategorySet
	rules      *RuleMatcher
	batch      *BatchAdapter
	logger     logging.Logger
}

// NewCategorizer creates a Categorizer. A nil classifier disables the batch
// pass: every row without a rule match falls back to "Other".
func NewCategorizer(categories models.CategorySet, classifier Classifier, logger logging.Logger, opts ...BatchOption) *Categorizer {
	logger = logging.OrNop(logger)

	c := &Categorizer{
		categories: categories,
		rules:      NewRuleMatcher(categories),
		logger:     logger,
	}
	if classifier != nil {
		c.batch = NewBatchAdapter(classifier, categories, logger, opts...)
	}
	return c
}

// Categories returns the category set the categorizer labels against.
func (c *Categorizer) Categories() models.CategorySet {
	return c.categories
}

// HasClassifier reports whether the batch pass is enabled.
func (c *Categorizer) HasClassifier() bool {
	return c.batch != nil
}

// Categorize labels a copy of rows and returns it. The caller's slice is not
// modified. Rows are matched to classifier results by ID, never by position.
func (c *Categorizer) Categorize(ctx context.Context, rows []models.Transaction) ([]models.Transaction, models.CategorizationStats) {
	out := models.CloneTransactions(rows)
	var stats models.CategorizationStats

	// Rule pass
	var queue []BatchItem
	pending := make(map[int]int) // row ID -> index in out
	for i := range out {
		out[i].ResetCategory()
		if category, confidence, ok := c.rules.Match(out[i].Description); ok {
			out[i].Category = category
			out[i].Confidence = confidence
			out[i].Source = models.SourceRuleBased
			c.logger.Debug("Rule matched",
				logging.Field{Key: logging.FieldTransactionID, Value: out[i].ID},
				logging.Field{Key: logging.FieldCategory, Value: category},
				logging.Field{Key: logging.FieldKeyword, Value: c.rules.MatchedKeyword(out[i].Description)})
			continue
		}
		queue = append(queue, BatchItem{ID: out[i].ID, Description: out[i].Description})
		pending[out[i].ID] = i
	}

	c.logger.Debug("Rule pass complete",
		logging.Field{Key: logging.FieldCount, Value: len(out) - len(queue)},
		logging.Field{Key: logging.FieldUnresolved, Value: len(queue)})

	// Batch pass
	if c.batch != nil && len(queue) > 0 {
		results, batchStats := c.batch.ClassifyAll(ctx, queue)
		stats.BatchesSent = batchStats.BatchesSent
		stats.BatchesFailed = batchStats.BatchesFailed

		for _, r := range results {
			i, ok := pending[r.ID]
			if !ok {
				continue
			}
			delete(pending, r.ID)
			out[i].Category = r.Category
			out[i].Confidence = r.Confidence
			out[i].Source = models.SourceLLM
		}
	}

	// Fallback pass
	for i := range out {
		if !out[i].IsCategorized() {
			out[i].Category = models.CategoryOther
			out[i].Confidence = 0
			out[i].Source = models.SourceFallback
		}
		stats.Record(out[i].Source)
	}

	stats.LogSummary(c.logger)
	return out, stats
}

// CategorizeDescription labels a single free-text description.
func (c *Categorizer) CategorizeDescription(ctx context.Context, description string) models.Transaction {
	rows, _ := c.Categorize(ctx, []models.Transaction{{ID: 0, Description: description}})
	return rows[0]
}
