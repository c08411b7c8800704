package anomaly

import (
	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
)

// duplicateKey identifies a transaction for exact-repeat detection. The
// amount is normalized so numerically equal decimals share a key.
type duplicateKey struct {
	date        string
	amount      string
	description string
}

func keyOf(tx models.Transaction) duplicateKey {
	return duplicateKey{
		date:        tx.Date.Format("2006-01-02"),
		amount:      tx.Amount.String(),
		description: tx.Description,
	}
}

// DuplicateDetector flags every repeat of an earlier (date, amount, description) tuple.
type DuplicateDetector struct {
	logger logging.Logger
}

// NewDuplicateDetector creates a DuplicateDetector.
func NewDuplicateDetector(logger logging.Logger) *DuplicateDetector {
	return &DuplicateDetector{logger: logging.OrNop(logger)}
}

// Detect writes DuplicateFlag on rows in place. The first occurrence of a key
// in slice order is never flagged.
func (d *DuplicateDetector) Detect(rows []models.Transaction) {
	firstSeen := make(map[duplicateKey]int, len(rows))
	for i := range rows {
		key := keyOf(rows[i])
		first, seen := firstSeen[key]
		rows[i].DuplicateFlag = seen
		if !seen {
			firstSeen[key] = rows[i].ID
			continue
		}
		d.logger.Debug("Duplicate transaction",
			logging.Field{Key: logging.FieldTransactionID, Value: rows[i].ID},
			logging.Field{Key: logging.FieldFirstID, Value: first})
	}
}
