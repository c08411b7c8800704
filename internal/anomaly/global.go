package anomaly

import (
	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
)

// GlobalExtremityDetector flags rows far above the spend of the whole table.
// Only the flag is kept; the table-wide z-score is not stored.
type GlobalExtremityDetector struct {
	threshold float64
	logger    logging.Logger
}

// NewGlobalExtremityDetector creates a detector flagging rows whose z-score exceeds threshold.
func NewGlobalExtremityDetector(threshold float64, logger logging.Logger) *GlobalExtremityDetector {
	return &GlobalExtremityDetector{threshold: threshold, logger: logging.OrNop(logger)}
}

// Detect writes HighAbsoluteFlag on rows in place.
func (d *GlobalExtremityDetector) Detect(rows []models.Transaction) {
	for i := range rows {
		rows[i].HighAbsoluteFlag = false
	}

	s := summarize(rows, allIndexes(len(rows)))
	if s.degenerate() {
		return
	}

	for i := range rows {
		z := s.zScore(rows[i].Amount)
		if z > d.threshold {
			rows[i].HighAbsoluteFlag = true
			d.logger.Debug("High absolute amount",
				logging.Field{Key: logging.FieldTransactionID, Value: rows[i].ID},
				logging.Field{Key: logging.FieldZScore, Value: z})
		}
	}
}
