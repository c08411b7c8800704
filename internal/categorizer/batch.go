package categorizer

import (
	"context"
	"time"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
	"fjacquet/expense-audit/internal/parsererror"
)

// Batch defaults
const (
	DefaultBatchSize = 20
	DefaultTimeout   = 30 * time.Second
)

// BatchStats summarizes one ClassifyAll run.
type BatchStats struct {
	BatchesSent     int
	BatchesFailed   int // call error, timeout or undecodable payload
	RecordsRejected int
}

// BatchAdapter partitions unresolved transactions into fixed-size batches and
// sends each batch to the classifier exactly once.
type BatchAdapter struct {
	classifier Classifier
	categories models.CategorySet
	batchSize  int
	timeout    time.Duration
	provider   string
	logger     logging.Logger
}

// BatchOption configures a BatchAdapter.
type BatchOption func(*BatchAdapter)

// WithBatchSize sets the maximum number of items per classifier call.
func WithBatchSize(n int) BatchOption {
	return func(a *BatchAdapter) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithTimeout bounds each classifier call.
func WithTimeout(d time.Duration) BatchOption {
	return func(a *BatchAdapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithProviderName labels log entries and errors with the provider in use.
func WithProviderName(name string) BatchOption {
	return func(a *BatchAdapter) {
		a.provider = name
	}
}

// NewBatchAdapter creates a BatchAdapter over classifier.
func NewBatchAdapter(classifier Classifier, categories models.CategorySet, logger logging.Logger, opts ...BatchOption) *BatchAdapter {
	a := &BatchAdapter{
		classifier: classifier,
		categories: categories,
		batchSize:  DefaultBatchSize,
		timeout:    DefaultTimeout,
		provider:   "classifier",
		logger:     logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BatchSize returns the configured batch limit.
func (a *BatchAdapter) BatchSize() int {
	return a.batchSize
}

// Partition splits items into consecutive batches of at most size items,
// preserving order.
func Partition(items []BatchItem, size int) [][]BatchItem {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]BatchItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// ClassifyAll classifies items batch by batch and returns the validated
// results of every batch, in order. Failed batches contribute nothing; the
// error is logged, never returned.
func (a *BatchAdapter) ClassifyAll(ctx context.Context, items []BatchItem) ([]ClassificationResult, BatchStats) {
	var stats BatchStats
	if a.classifier == nil || len(items) == 0 {
		return nil, stats
	}

	categories := a.categories.Categories()
	var all []ClassificationResult

	for i, batch := range Partition(items, a.batchSize) {
		req := BatchRequest{Index: i, Categories: categories, Items: batch}
		stats.BatchesSent++

		results, rejected, err := a.classifyBatch(ctx, req)
		if err != nil {
			stats.BatchesFailed++
			a.logger.WithError(err).Warn("Classifier batch failed, rows will fall back",
				logging.Field{Key: logging.FieldBatch, Value: i},
				logging.Field{Key: logging.FieldBatchSize, Value: len(batch)},
				logging.Field{Key: logging.FieldProvider, Value: a.provider})
			continue
		}

		for _, r := range rejected {
			a.logger.Debug("Rejected classifier result",
				logging.Field{Key: logging.FieldBatch, Value: i},
				logging.Field{Key: logging.FieldTransactionID, Value: r.ID},
				logging.Field{Key: logging.FieldReason, Value: r.Reason})
		}
		stats.RecordsRejected += len(rejected)

		a.logger.Debug("Classifier batch done",
			logging.Field{Key: logging.FieldBatch, Value: i},
			logging.Field{Key: logging.FieldBatchSize, Value: len(batch)},
			logging.Field{Key: logging.FieldCount, Value: len(results)})
		all = append(all, results...)
	}

	return all, stats
}

// pacer is a classifier that spaces out calls. Its wait is not part of the
// per-call timeout.
type pacer interface {
	Wait(ctx context.Context) error
	Unwrap() Classifier
}

func (a *BatchAdapter) classifyBatch(ctx context.Context, req BatchRequest) ([]ClassificationResult, []*parsererror.RecordError, error) {
	classifier := a.classifier
	if p, ok := classifier.(pacer); ok {
		if err := p.Wait(ctx); err != nil {
			return nil, nil, &parsererror.CategorizationError{Batch: req.Index, Provider: a.provider, Err: err}
		}
		classifier = p.Unwrap()
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	payload, err := classifier.Classify(callCtx, req)
	if err != nil {
		return nil, nil, &parsererror.CategorizationError{Batch: req.Index, Provider: a.provider, Err: err}
	}
	a.logger.Debug("Classifier responded",
		logging.Field{Key: logging.FieldBatch, Value: req.Index},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	return ParseBatchResponse(payload, req, a.categories)
}
