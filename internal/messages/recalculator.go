package messages

import (
	"context"
	"fmt"

	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/models"
)

// Store is the persistence surface the recalculator reads and writes
type Store interface {
	GetReactionRows(ctx context.Context, messageTS string) ([]models.Reaction, error)
	GetReplies(ctx context.Context, messageTS string) ([]models.Reply, error)
	GetMessageByTS(ctx context.Context, messageTS string) (*models.Message, error)
	UpdateMessageSentiment(ctx context.Context, messageTS string, emoji, reply, combined float64) error
}

// Recalculator rebuilds a message's sentiment snapshot from stored
// state. Every run reads the full reaction and reply sets, so repeated
// runs over unchanged state yield identical snapshots.
type Recalculator struct {
	store Store
	agg   *sentiment.Aggregator
}

// NewRecalculator creates a new sentiment recalculator
func NewRecalculator(store Store, agg *sentiment.Aggregator) *Recalculator {
	return &Recalculator{store: store, agg: agg}
}

// Recalculate derives and persists the three sentiment components for
// one tracked message
func (r *Recalculator) Recalculate(ctx context.Context, messageTS string) (*models.RecalcResult, error) {
	reactions, err := r.store.GetReactionRows(ctx, messageTS)
	if err != nil {
		return nil, fmt.Errorf("failed to load reactions: %w", err)
	}

	replies, err := r.store.GetReplies(ctx, messageTS)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}

	groups := r.agg.Aggregate(reactions)
	emojiScore := r.agg.EmojiSentiment(groups)
	replyScore := sentiment.ReplySentiment(replies)
	combined := sentiment.Blend(emojiScore, replyScore)

	if err := r.store.UpdateMessageSentiment(ctx, messageTS, emojiScore, replyScore, combined); err != nil {
		return nil, err
	}

	return &models.RecalcResult{
		Snapshot: models.SentimentSnapshot{
			EmojiSentiment:    emojiScore,
			ReplySentiment:    replyScore,
			CombinedSentiment: combined,
		},
		Reactions: groups,
		Replies:   replies,
	}, nil
}

// Summarize assembles the full summary for a tracked message, running a
// fresh recalculation so the modal always reflects current state.
// Returns nil when the message was never tracked.
func (r *Recalculator) Summarize(ctx context.Context, channelID, messageTS string) (*models.MessageSummary, error) {
	msg, err := r.store.GetMessageByTS(ctx, messageTS)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	result, err := r.Recalculate(ctx, messageTS)
	if err != nil {
		return nil, err
	}

	return &models.MessageSummary{
		Message:      msg,
		Reactions:    result.Reactions,
		Replies:      result.Replies,
		Snapshot:     result.Snapshot,
		TotalReplies: len(result.Replies),
		ChannelID:    channelID,
	}, nil
}
