package categorizer

import (
	"context"

	"fjacquet/expense-audit/internal/models"
)

// BatchItem is one unresolved transaction sent to the classifier.
type BatchItem struct {
	ID          int
	Description string
}

// BatchRequest is everything a classifier needs to label one batch: the
// closed category enumeration and the batch's transactions, in table order.
type BatchRequest struct {
	Index      int // position of the batch within the run
	Categories []models.Category
	Items      []BatchItem
}

// IDs returns the set of row IDs in the batch.
func (r BatchRequest) IDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(r.Items))
	for _, item := range r.Items {
		ids[item.ID] = struct{}{}
	}
	return ids
}

// Classifier defines the interface for external batch classification services.
// Classify returns the raw response payload; decoding and validation happen
// in the caller, so implementations stay thin wrappers over a provider API.
type Classifier interface {
	Classify(ctx context.Context, req BatchRequest) (string, error)
}

// ClassifierFunc adapts an ordinary function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, req BatchRequest) (string, error)

// Classify calls f(ctx, req).
func (f ClassifierFunc) Classify(ctx context.Context, req BatchRequest) (string, error) {
	return f(ctx, req)
}

// ClassificationResult is one validated (row, label, confidence) triple.
type ClassificationResult struct {
	ID         int
	Category   string
	Confidence float64
}
