package sentiment

import (
	"context"

	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/pkg/logger"
)

// fallbackModels are the known-good candidates tried after the configured
// default model.
var fallbackModels = []string{
	"gemini-2.5-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Oracle scores a message as an integer in [-3, 3] given surrounding
// thread context. Transport and parse failures come back as errors and are
// treated as "no signal" by the caller, never propagated further.
type Oracle interface {
	Name() string
	Supports(model string) bool
	ClassifySentiment(ctx context.Context, text, threadContext, model string) (int, error)
}

// FallbackScorer escalates lexically silent text through an ordered,
// de-duplicated chain of LLM model candidates, stopping at the first
// non-zero verdict. It is a pure scoring oracle: it never reads or writes
// the data model.
type FallbackScorer struct {
	oracles []Oracle
	chain   []string
}

// NewFallbackScorer builds the scorer with the configured default model at
// the head of the chain.
func NewFallbackScorer(defaultModel string, oracles []Oracle) *FallbackScorer {
	return &FallbackScorer{
		oracles: oracles,
		chain:   buildModelChain(defaultModel),
	}
}

func buildModelChain(defaultModel string) []string {
	candidates := append([]string{defaultModel}, fallbackModels...)

	seen := make(map[string]bool)
	chain := make([]string, 0, len(candidates))
	for _, model := range candidates {
		if model == "" || seen[model] {
			continue
		}
		seen[model] = true
		chain = append(chain, model)
	}

	return chain
}

// Enabled reports whether any oracle is available to serve the chain
func (f *FallbackScorer) Enabled() bool {
	return f != nil && len(f.oracles) > 0
}

// Score tries each candidate model in order and returns the first
// non-zero verdict. Failed or zero candidates move the chain forward;
// an exhausted chain contributes 0, same as no LLM at all.
func (f *FallbackScorer) Score(ctx context.Context, text, threadContext string) float64 {
	for _, model := range f.chain {
		oracle := f.oracleFor(model)
		if oracle == nil {
			continue
		}

		score, err := oracle.ClassifySentiment(ctx, text, threadContext, model)
		if err != nil {
			logger.Warn("sentiment oracle failed",
				zap.String("provider", oracle.Name()),
				zap.String("model", model),
				zap.Error(err),
			)
			continue
		}

		if score != 0 {
			return float64(score)
		}
	}

	return 0
}

func (f *FallbackScorer) oracleFor(model string) Oracle {
	for _, o := range f.oracles {
		if o.Supports(model) {
			return o
		}
	}
	return nil
}
