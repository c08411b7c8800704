package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/expense-audit/internal/logging"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements the Classifier interface for the Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    logging.Logger
}

// NewAnthropicClient creates an Anthropic-backed classifier. Extra request
// options (base URL, HTTP client) are passed through to the SDK.
func NewAnthropicClient(apiKey, model string, maxTokens int, logger logging.Logger, opts ...anthropicoption.RequestOption) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	opts = append([]anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}, opts...)
	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
		logger:    logging.OrNop(logger),
	}, nil
}

// Classify sends one batch prompt to Claude and returns the concatenated text blocks.
func (c *AnthropicClient) Classify(ctx context.Context, req BatchRequest) (string, error) {
	c.logger.Debug("Sending batch to Anthropic",
		logging.Field{Key: logging.FieldModel, Value: c.model},
		logging.Field{Key: logging.FieldBatch, Value: req.Index},
		logging.Field{Key: logging.FieldBatchSize, Value: len(req.Items)})

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildBatchPrompt(req))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in Anthropic response")
	}
	return text.String(), nil
}
