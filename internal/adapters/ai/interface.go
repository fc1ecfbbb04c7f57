package ai

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Provider is an LLM sentiment oracle: it classifies one message, given up
// to 500 characters of surrounding thread context, as an integer verdict
// in [-3, 3]. Transport and parse failures are returned as errors; the
// caller treats them as "no signal".
type Provider interface {
	// Name returns provider name for logging
	Name() string

	// Supports reports whether this provider serves the given model ID
	Supports(model string) bool

	// ClassifySentiment scores text in [-3, 3]
	ClassifySentiment(ctx context.Context, text, threadContext, model string) (int, error)

	// IsEnabled returns whether provider is configured and enabled
	IsEnabled() bool
}

// buildPrompt constrains the model to a bare integer verdict
func buildPrompt(text, threadContext string) string {
	var b strings.Builder

	b.WriteString("Analyze the sentiment of this message and return ONLY a number from -3 to +3:\n\n")
	b.WriteString("- +3 = Very positive\n")
	b.WriteString("- +2 = Positive\n")
	b.WriteString("- +1 = Slightly positive\n")
	b.WriteString("- 0 = Neutral\n")
	b.WriteString("- -1 = Slightly negative\n")
	b.WriteString("- -2 = Negative\n")
	b.WriteString("- -3 = Very negative\n\n")

	if threadContext != "" {
		fmt.Fprintf(&b, "Context:\n%s\n\n", threadContext)
	}

	fmt.Fprintf(&b, "Message: %q\n\nReturn ONLY the number, nothing else.", text)

	return b.String()
}

// parseVerdict parses a model reply into a clamped integer verdict
func parseVerdict(raw string) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric verdict %q", raw)
	}

	verdict := int(math.Round(value))
	if verdict > 3 {
		verdict = 3
	}
	if verdict < -3 {
		verdict = -3
	}

	return verdict, nil
}
