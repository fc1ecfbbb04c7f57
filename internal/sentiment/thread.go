package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/pkg/logger"
	"github.com/threadpulse/threadpulse/pkg/models"
)

const (
	contextLimit      = 500
	snippetLimit      = 120
	summaryGroupLimit = 8
)

// Mood thresholds on the combined thread score
const (
	moodPositiveMin = 3.0
	moodNegativeMax = -3.0
)

// ErrEmptyThread is returned when the platform yields no messages for a
// thread, typically because the bot is not in the channel or the message
// was deleted. This is a hard precondition failure, not recoverable.
var ErrEmptyThread = errors.New("unable to read conversation messages (is the bot in the channel?)")

// ThreadFetcher is the narrow platform surface the analyzer needs
type ThreadFetcher interface {
	FetchThreadMessages(ctx context.Context, channelID, rootTS string) ([]models.ThreadMessage, error)
	FetchReactions(ctx context.Context, channelID, ts string) ([]models.ReactionCount, error)
}

// ThreadAnalyzer re-scores every message of a thread individually against
// live platform state, root reactions included. Much heavier than the
// per-event recalculation; invoked only on explicit user request.
type ThreadAnalyzer struct {
	fetcher  ThreadFetcher
	scorer   *TextScorer
	fallback *FallbackScorer
	scores   *EmojiScores
}

// NewThreadAnalyzer creates a thread analyzer. fallback may be nil, in
// which case lexically silent messages keep a 0 score.
func NewThreadAnalyzer(fetcher ThreadFetcher, scorer *TextScorer, fallback *FallbackScorer, scores *EmojiScores) *ThreadAnalyzer {
	return &ThreadAnalyzer{
		fetcher:  fetcher,
		scorer:   scorer,
		fallback: fallback,
		scores:   scores,
	}
}

// AnalyzeThread fetches the live thread plus the root's reactions and
// produces a per-message breakdown with a combined mood classification.
func (a *ThreadAnalyzer) AnalyzeThread(ctx context.Context, channelID, rootTS string) (*models.ThreadAnalysis, error) {
	var (
		messages  []models.ThreadMessage
		reactions []models.ReactionCount
		msgErr    error
		reactErr  error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		messages, msgErr = a.fetcher.FetchThreadMessages(ctx, channelID, rootTS)
	}()
	go func() {
		defer wg.Done()
		reactions, reactErr = a.fetcher.FetchReactions(ctx, channelID, rootTS)
	}()
	wg.Wait()

	if msgErr != nil {
		return nil, fmt.Errorf("failed to fetch thread messages: %w", msgErr)
	}
	if len(messages) == 0 {
		return nil, ErrEmptyThread
	}
	if reactErr != nil {
		// Reaction fetch is best-effort; the text pass still runs
		logger.Warn("unable to fetch reactions for thread analysis",
			zap.String("channel", channelID),
			zap.String("root_ts", rootTS),
			zap.Error(reactErr),
		)
		reactions = nil
	}

	threadContext := buildThreadContext(messages)

	var analyses []models.MessageAnalysis
	var textScore float64

	for _, msg := range messages {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}

		score := a.scorer.Score(text).Raw
		if score == 0 && a.fallback.Enabled() {
			score = a.fallback.Score(ctx, text, threadContext)
		}

		textScore += score
		analyses = append(analyses, models.MessageAnalysis{
			TS:      msg.TS,
			Text:    text,
			Snippet: trimSnippet(text, snippetLimit),
			Score:   score,
			UserID:  msg.UserID,
			IsRoot:  msg.ThreadTS != "" && msg.TS == msg.ThreadTS,
		})
	}

	reactionScore, reactionSummary := a.summarizeReactions(reactions)
	combined := textScore + reactionScore

	return &models.ThreadAnalysis{
		TextScore:            textScore,
		ReactionScore:        reactionScore,
		CombinedScore:        combined,
		Mood:                 ClassifyMood(combined),
		ReactionSummary:      reactionSummary,
		Messages:             analyses,
		AnalyzedMessageCount: len(analyses),
	}, nil
}

// summarizeReactions sums the score delta of every reaction group and
// renders a short summary of at most summaryGroupLimit groups. Groups past
// the cap still count toward the score.
func (a *ThreadAnalyzer) summarizeReactions(reactions []models.ReactionCount) (float64, string) {
	if len(reactions) == 0 {
		return 0, "No reactions yet."
	}

	var score float64
	var parts []string

	for i, r := range reactions {
		score += a.scores.Lookup(r.Name) * float64(r.Count)
		if i < summaryGroupLimit {
			parts = append(parts, fmt.Sprintf(":%s: ×%d", r.Name, r.Count))
		}
	}

	return score, strings.Join(parts, " • ")
}

// ClassifyMood classifies a combined thread score into a mood
func ClassifyMood(score float64) models.Mood {
	switch {
	case score >= moodPositiveMin:
		return models.Mood{Label: "Positive", Emoji: "😄"}
	case score <= moodNegativeMax:
		return models.Mood{Label: "Negative", Emoji: "😟"}
	default:
		return models.Mood{Label: "Neutral", Emoji: "😐"}
	}
}

// buildThreadContext concatenates all non-empty message texts into one
// string capped at contextLimit characters, shared across the thread's
// LLM escalations.
func buildThreadContext(messages []models.ThreadMessage) string {
	var parts []string
	for _, msg := range messages {
		if text := strings.TrimSpace(msg.Text); text != "" {
			parts = append(parts, text)
		}
	}

	joined := strings.Join(parts, " ")
	runes := []rune(joined)
	if len(runes) <= contextLimit {
		return joined
	}
	return string(runes[:contextLimit])
}

// trimSnippet shortens text to at most max characters, ellipsized
func trimSnippet(text string, max int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-3]) + "..."
}
