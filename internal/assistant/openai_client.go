package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/northstackhq/funnelbot/internal/observability/metrics"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// ErrEmptyCompletion is returned when the provider answers with no text.
var ErrEmptyCompletion = errors.New("assistant: provider returned empty completion")

// OpenAIClient talks to an OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewOpenAIClient builds the provider client. baseURL may be empty to use
// the public endpoint; m may be nil.
func NewOpenAIClient(apiKey, model, baseURL string, maxTokens int, m *metrics.Metrics, logger *logging.Logger) *OpenAIClient {
	if apiKey == "" {
		panic("assistant: openai api key required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		metrics:   m,
		logger:    logger,
	}
}

// Complete sends system prompt + history + the new user turn and returns the
// model's text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, history []Turn, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: 0.35,
	})
	c.metrics.ObserveAssistantLatency(time.Since(start).Seconds())
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			// Quota exhaustion is expected in bursts; log it at a lower
			// severity than real transport failures.
			c.metrics.IncAssistantFailure("quota")
			c.logger.Warn("assistant provider rate limited", "error", err)
		} else {
			c.metrics.IncAssistantFailure("transport")
			c.logger.Error("assistant provider request failed", "error", err)
		}
		return "", fmt.Errorf("assistant: completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.metrics.IncAssistantFailure("empty")
		return "", ErrEmptyCompletion
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		c.metrics.IncAssistantFailure("empty")
		return "", ErrEmptyCompletion
	}
	return answer, nil
}

var _ ChatClient = (*OpenAIClient)(nil)
