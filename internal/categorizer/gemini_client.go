package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/expense-audit/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements the Classifier interface for the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed classifier for model.
func NewGeminiClient(ctx context.Context, apiKey, model string, maxTokens int, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0)
	if maxTokens > 0 {
		m.SetMaxOutputTokens(int32(maxTokens))
	}

	return &GeminiClient{
		client: client,
		model:  m,
		name:   model,
		logger: logging.OrNop(logger),
	}, nil
}

// Classify sends one batch prompt to Gemini and returns the text of the first candidate.
func (c *GeminiClient) Classify(ctx context.Context, req BatchRequest) (string, error) {
	c.logger.Debug("Sending batch to Gemini",
		logging.Field{Key: logging.FieldModel, Value: c.name},
		logging.Field{Key: logging.FieldBatch, Value: req.Index},
		logging.Field{Key: logging.FieldBatchSize, Value: len(req.Items)})

	resp, err := c.model.GenerateContent(ctx, genai.Text(SystemPrompt+"\n\n"+BuildBatchPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in Gemini response")
	}
	return text.String(), nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
