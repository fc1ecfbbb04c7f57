package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/pkg/logger"
)

// Record is one sentiment-history datapoint, emitted after each
// recalculation pass
type Record struct {
	Time              time.Time
	MessageTS         string
	ChannelID         string
	EmojiSentiment    float64
	ReplySentiment    float64
	CombinedSentiment float64
	ReactionCount     int
	ReplyCount        int
}

const historySchema = `
	CREATE TABLE IF NOT EXISTS sentiment_history (
		time               DateTime,
		message_ts         String,
		channel_id         String,
		emoji_sentiment    Float64,
		reply_sentiment    Float64,
		combined_sentiment Float64,
		reaction_count     UInt32,
		reply_count        UInt32
	) ENGINE = MergeTree()
	ORDER BY (channel_id, message_ts, time)
	TTL time + INTERVAL 90 DAY
`

// Repository handles ClickHouse data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new ClickHouse repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the history table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, historySchema); err != nil {
		return fmt.Errorf("failed to ensure sentiment_history schema: %w", err)
	}
	return nil
}

// SaveHistory saves a batch of sentiment datapoints
func (r *Repository) SaveHistory(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.Preparex(`
		INSERT INTO sentiment_history
		(time, message_ts, channel_id, emoji_sentiment, reply_sentiment, combined_sentiment, reaction_count, reply_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err = stmt.ExecContext(ctx,
			rec.Time,
			rec.MessageTS,
			rec.ChannelID,
			rec.EmojiSentiment,
			rec.ReplySentiment,
			rec.CombinedSentiment,
			uint32(rec.ReactionCount),
			uint32(rec.ReplyCount),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert history record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("saved sentiment history to ClickHouse",
		zap.Int("count", len(records)),
	)

	return nil
}
