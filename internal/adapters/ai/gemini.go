package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/internal/adapters/config"
	"github.com/threadpulse/threadpulse/pkg/logger"
)

const geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiProvider implements the sentiment oracle against the Gemini
// generateContent endpoint
type GeminiProvider struct {
	apiKey  string
	enabled bool
	client  *http.Client
}

// NewGeminiProvider creates new Gemini provider
func NewGeminiProvider(cfg *config.AIProviderConfig) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  cfg.APIKey,
		enabled: cfg.Enabled && cfg.APIKey != "",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

func (g *GeminiProvider) Supports(model string) bool {
	return strings.HasPrefix(model, "gemini")
}

func (g *GeminiProvider) IsEnabled() bool {
	return g.enabled
}

func (g *GeminiProvider) ClassifySentiment(ctx context.Context, text, threadContext, model string) (int, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": buildPrompt(text, threadContext)},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiAPIURL, model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("no candidates in response")
	}

	content := result.Candidates[0].Content.Parts[0].Text

	logger.Debug("gemini verdict",
		zap.String("model", model),
		zap.Duration("latency", time.Since(startTime)),
		zap.String("response", content),
	)

	return parseVerdict(content)
}
