package models

import (
	"fjacquet/expense-audit/internal/logging"
)

// CategorizationStats tracks statistics for one categorization run
type CategorizationStats struct {
	Total         int // Total number of transactions processed
	RuleBased     int // Resolved by keyword rules
	LLM           int // Resolved by the external classifier
	Fallback      int // Left to the fallback category
	BatchesSent   int // Classifier calls made
	BatchesFailed int // Classifier calls whose response was unusable
}

// Record counts a transaction under its classification source.
func (cs *CategorizationStats) Record(source ClassificationSource) {
	cs.Total++
	switch source {
	case SourceRuleBased:
		cs.RuleBased++
	case SourceLLM:
		cs.LLM++
	case SourceFallback:
		cs.Fallback++
	}
}

// GetCoverageRate returns the share of transactions that did not fall back, as a percentage
func (cs CategorizationStats) GetCoverageRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.RuleBased+cs.LLM) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "rule_based", Value: cs.RuleBased},
		logging.Field{Key: "llm", Value: cs.LLM},
		logging.Field{Key: "fallback", Value: cs.Fallback},
		logging.Field{Key: "batches_sent", Value: cs.BatchesSent},
		logging.Field{Key: "batches_failed", Value: cs.BatchesFailed},
		logging.Field{Key: "coverage_rate", Value: cs.GetCoverageRate()},
	)
}

// AnomalyStats counts the flags raised by one anomaly detection run.
type AnomalyStats struct {
	Total            int
	CategoryOutliers int
	Duplicates       int
	HighAbsolute     int
	Anomalies        int
	// SkippedCategories lists categories with too few rows or no variance.
	SkippedCategories []string
}

// Record counts the flags of one processed transaction.
func (as *AnomalyStats) Record(tx Transaction) {
	as.Total++
	if tx.CategoryOutlierFlag {
		as.CategoryOutliers++
	}
	if tx.DuplicateFlag {
		as.Duplicates++
	}
	if tx.HighAbsoluteFlag {
		as.HighAbsolute++
	}
	if tx.AnomalyFlag {
		as.Anomalies++
	}
}

// LogSummary logs a summary of anomaly statistics
func (as AnomalyStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Anomaly detection summary",
		logging.Field{Key: "total_transactions", Value: as.Total},
		logging.Field{Key: "category_outliers", Value: as.CategoryOutliers},
		logging.Field{Key: "duplicates", Value: as.Duplicates},
		logging.Field{Key: "high_absolute", Value: as.HighAbsolute},
		logging.Field{Key: "anomalies", Value: as.Anomalies},
		logging.Field{Key: "skipped_categories", Value: len(as.SkippedCategories)},
	)
}
