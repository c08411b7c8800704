package anomaly

import (
	"math"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
)

// CategoryOutlierDetector scores each row against the spend of its own category.
type CategoryOutlierDetector struct {
	threshold  float64
	minSamples int
	logger     logging.Logger
}

// NewCategoryOutlierDetector creates a detector flagging rows whose absolute
// z-score exceeds threshold. Categories with fewer than minSamples rows are skipped.
func NewCategoryOutlierDetector(threshold float64, minSamples int, logger logging.Logger) *CategoryOutlierDetector {
	return &CategoryOutlierDetector{
		threshold:  threshold,
		minSamples: minSamples,
		logger:     logging.OrNop(logger),
	}
}

// Detect writes CategoryZScore and CategoryOutlierFlag on rows in place and
// returns the categories that were skipped, in order of first appearance.
func (d *CategoryOutlierDetector) Detect(rows []models.Transaction) []string {
	var order []string
	groups := make(map[string][]int)
	for i := range rows {
		rows[i].CategoryZScore = 0
		rows[i].CategoryOutlierFlag = false

		cat := rows[i].Category
		if _, seen := groups[cat]; !seen {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], i)
	}

	var skipped []string
	for _, cat := range order {
		indexes := groups[cat]
		if len(indexes) < d.minSamples {
			d.logger.Debug("Skipping category with too few rows",
				logging.Field{Key: logging.FieldCategory, Value: cat},
				logging.Field{Key: logging.FieldCount, Value: len(indexes)})
			skipped = append(skipped, cat)
			continue
		}

		s := summarize(rows, indexes)
		if s.degenerate() {
			d.logger.Debug("Skipping category without variance",
				logging.Field{Key: logging.FieldCategory, Value: cat})
			skipped = append(skipped, cat)
			continue
		}

		for _, i := range indexes {
			z := s.zScore(rows[i].Amount)
			rows[i].CategoryZScore = z
			if math.Abs(z) > d.threshold {
				rows[i].CategoryOutlierFlag = true
				d.logger.Debug("Category outlier",
					logging.Field{Key: logging.FieldTransactionID, Value: rows[i].ID},
					logging.Field{Key: logging.FieldCategory, Value: cat},
					logging.Field{Key: logging.FieldZScore, Value: z})
			}
		}
	}
	return skipped
}
