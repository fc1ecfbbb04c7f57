package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/threadpulse/threadpulse/internal/adapters/config"
)

// OpenAIProvider implements the sentiment oracle via the OpenAI chat
// completions API
type OpenAIProvider struct {
	client  *openai.Client
	enabled bool
}

// NewOpenAIProvider creates new OpenAI provider
func NewOpenAIProvider(cfg *config.AIProviderConfig) *OpenAIProvider {
	p := &OpenAIProvider{
		enabled: cfg.Enabled && cfg.APIKey != "",
	}
	if p.enabled {
		p.client = openai.NewClient(cfg.APIKey)
	}
	return p
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

// Supports claims every non-Gemini model ID; the candidate chain only ever
// carries the configured default plus Gemini fallbacks.
func (o *OpenAIProvider) Supports(model string) bool {
	return !strings.HasPrefix(model, "gemini")
}

func (o *OpenAIProvider) IsEnabled() bool {
	return o.enabled
}

func (o *OpenAIProvider) ClassifySentiment(ctx context.Context, text, threadContext, model string) (int, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: 8,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, threadContext),
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("no choices in response")
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}
