// Package anomaly flags unusual and repeated transactions in a categorized table.
//
// Three independent detectors each write their own columns:
//   - category outliers: z-score of the amount within its category
//   - global extremity: z-score of the amount within the whole table
//   - duplicates: exact repeats of (date, amount, description)
//
// The Detector combines them into AnomalyFlag and AnomalyReason.
package anomaly

import (
	"strings"
	"time"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
)

// Detection defaults
const (
	DefaultCategoryZThreshold = 2.5
	DefaultGlobalZThreshold   = 3.0
	DefaultMinCategorySamples = 5
)

// Options holds the detection thresholds.
type Options struct {
	CategoryZThreshold float64
	GlobalZThreshold   float64
	MinCategorySamples int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		CategoryZThreshold: DefaultCategoryZThreshold,
		GlobalZThreshold:   DefaultGlobalZThreshold,
		MinCategorySamples: DefaultMinCategorySamples,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.CategoryZThreshold <= 0 {
		o.CategoryZThreshold = def.CategoryZThreshold
	}
	if o.GlobalZThreshold <= 0 {
		o.GlobalZThreshold = def.GlobalZThreshold
	}
	if o.MinCategorySamples <= 0 {
		o.MinCategorySamples = def.MinCategorySamples
	}
	return o
}

// Detector runs the three detectors and synthesizes the combined flag and reason.
// It keeps no state between calls.
type Detector struct {
	category  *CategoryOutlierDetector
	global    *GlobalExtremityDetector
	duplicate *DuplicateDetector
	logger    logging.Logger
}

// NewDetector creates a Detector. Zero options fall back to the defaults.
func NewDetector(opts Options, logger logging.Logger) *Detector {
	opts = opts.withDefaults()
	logger = logging.OrNop(logger)
	return &Detector{
		category:  NewCategoryOutlierDetector(opts.CategoryZThreshold, opts.MinCategorySamples, logger),
		global:    NewGlobalExtremityDetector(opts.GlobalZThreshold, logger),
		duplicate: NewDuplicateDetector(logger),
		logger:    logger,
	}
}

// Detect returns a flagged copy of rows together with per-flag counts.
// Existing anomaly columns on the input are ignored, so running Detect on its
// own output yields the same result.
func (d *Detector) Detect(rows []models.Transaction) ([]models.Transaction, models.AnomalyStats) {
	start := time.Now()
	out := models.CloneTransactions(rows)
	for i := range out {
		out[i].ResetAnomaly()
	}

	var stats models.AnomalyStats
	stats.SkippedCategories = d.category.Detect(out)
	d.global.Detect(out)
	d.duplicate.Detect(out)

	for i := range out {
		out[i].AnomalyFlag = out[i].CategoryOutlierFlag || out[i].DuplicateFlag
		out[i].AnomalyReason = Reason(out[i])
		stats.Record(out[i])
	}

	d.logger.Debug("Anomaly detection finished",
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	stats.LogSummary(d.logger)
	return out, stats
}

// Reason builds the explanation for a row from its flags, one clause per true
// flag in the order category outlier, duplicate, high absolute.
func Reason(tx models.Transaction) string {
	var clauses []string
	if tx.CategoryOutlierFlag {
		clauses = append(clauses, models.ReasonCategoryOutlier)
	}
	if tx.DuplicateFlag {
		clauses = append(clauses, models.ReasonDuplicate)
	}
	if tx.HighAbsoluteFlag {
		clauses = append(clauses, models.ReasonHighAbsolute)
	}
	return strings.Join(clauses, " ")
}
