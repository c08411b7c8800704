package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/expense-audit/internal/logging"
)

// ClientConfig selects and configures a classifier provider.
type ClientConfig struct {
	Provider          string
	Model             string
	APIKey            string
	BaseURL           string
	MaxTokens         int
	RequestsPerMinute int
}

// NewClassifier creates a provider-backed classifier, rate limited when
// RequestsPerMinute is positive.
func NewClassifier(ctx context.Context, cfg ClientConfig, logger logging.Logger) (Classifier, error) {
	var (
		client Classifier
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		client, err = NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.MaxTokens, logger)
	case "anthropic":
		client, err = NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.MaxTokens, logger)
	case "openai":
		client, err = NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.MaxTokens, nil, logger)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewRateLimitedClassifier(client, cfg.RequestsPerMinute), nil
}
