package categorizer

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedClassifier paces calls to an underlying classifier.
type RateLimitedClassifier struct {
	next    Classifier
	limiter *rate.Limiter
}

// NewRateLimitedClassifier wraps next so it is called at most
// requestsPerMinute times per minute. A non-positive rate returns next unchanged.
func NewRateLimitedClassifier(next Classifier, requestsPerMinute int) Classifier {
	if requestsPerMinute <= 0 || next == nil {
		return next
	}
	return &RateLimitedClassifier{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Wait blocks until the next call is allowed or ctx is done.
func (r *RateLimitedClassifier) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter canceled: %w", err)
	}
	return nil
}

// Unwrap returns the paced classifier.
func (r *RateLimitedClassifier) Unwrap() Classifier {
	return r.next
}

// Classify waits for a token, then delegates.
func (r *RateLimitedClassifier) Classify(ctx context.Context, req BatchRequest) (string, error) {
	if err := r.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Classify(ctx, req)
}

// Close closes the underlying classifier if it holds resources.
func (r *RateLimitedClassifier) Close() error {
	if c, ok := r.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
