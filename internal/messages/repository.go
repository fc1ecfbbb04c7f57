package messages

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/threadpulse/threadpulse/internal/adapters/database"
	"github.com/threadpulse/threadpulse/pkg/models"
)

// Repository handles message, reply and reaction persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new message repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// SaveMessage upserts a root message keyed by its Slack timestamp.
// Profile columns only overwrite existing values when the new ones are
// non-empty, so a backfilled record never blanks out a richer one.
func (r *Repository) SaveMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (slack_ts, channel_id, channel_name, user_id, username, text, created_at)
		VALUES (:slack_ts, :channel_id, :channel_name, :user_id, :username, :text, :created_at)
		ON CONFLICT (slack_ts) DO UPDATE SET
			text         = EXCLUDED.text,
			channel_name = COALESCE(NULLIF(EXCLUDED.channel_name, ''), messages.channel_name),
			username     = COALESCE(NULLIF(EXCLUDED.username, ''), messages.username)
	`

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	if _, err := r.db.DB().NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("failed to save message %s: %w", msg.SlackTS, err)
	}

	return nil
}

// SaveReply upserts a reply keyed by its own timestamp
func (r *Repository) SaveReply(ctx context.Context, reply *models.Reply) error {
	query := `
		INSERT INTO replies (reply_ts, message_ts, user_id, username, text, sentiment_score, sentiment_label, created_at)
		VALUES (:reply_ts, :message_ts, :user_id, :username, :text, :sentiment_score, :sentiment_label, :created_at)
		ON CONFLICT (reply_ts) DO UPDATE SET
			text            = EXCLUDED.text,
			sentiment_score = EXCLUDED.sentiment_score,
			sentiment_label = EXCLUDED.sentiment_label
	`

	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}

	if _, err := r.db.DB().NamedExecContext(ctx, query, reply); err != nil {
		return fmt.Errorf("failed to save reply %s: %w", reply.ReplyTS, err)
	}

	return nil
}

// AddReaction upserts one user's reaction on a message. Re-adding the
// same emoji refreshes the event timestamp instead of duplicating.
func (r *Repository) AddReaction(ctx context.Context, reaction *models.Reaction) error {
	query := `
		INSERT INTO reactions (message_ts, emoji, user_id, username, reaction_ts)
		VALUES (:message_ts, :emoji, :user_id, :username, :reaction_ts)
		ON CONFLICT (message_ts, emoji, user_id) DO UPDATE SET
			reaction_ts = EXCLUDED.reaction_ts
	`

	if _, err := r.db.DB().NamedExecContext(ctx, query, reaction); err != nil {
		return fmt.Errorf("failed to add reaction %s on %s: %w", reaction.Emoji, reaction.MessageTS, err)
	}

	return nil
}

// RemoveReaction deletes one user's reaction. Removing a reaction that
// was never stored is a no-op.
func (r *Repository) RemoveReaction(ctx context.Context, messageTS, emoji, userID string) error {
	query := `DELETE FROM reactions WHERE message_ts = $1 AND emoji = $2 AND user_id = $3`

	if _, err := r.db.DB().ExecContext(ctx, query, messageTS, emoji, userID); err != nil {
		return fmt.Errorf("failed to remove reaction %s on %s: %w", emoji, messageTS, err)
	}

	return nil
}

// GetReactionRows returns every stored reaction row for a message,
// oldest reaction first
func (r *Repository) GetReactionRows(ctx context.Context, messageTS string) ([]models.Reaction, error) {
	query := `
		SELECT message_ts, emoji, user_id, username, reaction_ts
		FROM reactions
		WHERE message_ts = $1
		ORDER BY reaction_ts ASC
	`

	var reactions []models.Reaction
	if err := r.db.DB().SelectContext(ctx, &reactions, query, messageTS); err != nil {
		return nil, fmt.Errorf("failed to get reactions for %s: %w", messageTS, err)
	}

	return reactions, nil
}

// GetReplies returns every stored reply for a message in thread order
func (r *Repository) GetReplies(ctx context.Context, messageTS string) ([]models.Reply, error) {
	query := `
		SELECT reply_ts, message_ts, user_id, username, text, sentiment_score, sentiment_label, created_at
		FROM replies
		WHERE message_ts = $1
		ORDER BY created_at ASC
	`

	var replies []models.Reply
	if err := r.db.DB().SelectContext(ctx, &replies, query, messageTS); err != nil {
		return nil, fmt.Errorf("failed to get replies for %s: %w", messageTS, err)
	}

	return replies, nil
}

// GetMessageByTS returns a tracked message or nil when none exists
func (r *Repository) GetMessageByTS(ctx context.Context, messageTS string) (*models.Message, error) {
	query := `
		SELECT slack_ts, channel_id, channel_name, user_id, username, text,
		       emoji_sentiment, reply_sentiment, combined_sentiment, created_at
		FROM messages
		WHERE slack_ts = $1
	`

	var msg models.Message
	err := r.db.DB().GetContext(ctx, &msg, query, messageTS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageTS, err)
	}

	return &msg, nil
}

// UpdateMessageSentiment writes a freshly derived sentiment snapshot
func (r *Repository) UpdateMessageSentiment(ctx context.Context, messageTS string, emoji, reply, combined float64) error {
	query := `
		UPDATE messages
		SET emoji_sentiment = $2, reply_sentiment = $3, combined_sentiment = $4
		WHERE slack_ts = $1
	`

	if _, err := r.db.DB().ExecContext(ctx, query, messageTS, emoji, reply, combined); err != nil {
		return fmt.Errorf("failed to update sentiment for %s: %w", messageTS, err)
	}

	return nil
}
