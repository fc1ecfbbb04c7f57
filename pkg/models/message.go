package models

import "time"

// SentimentLabel is the 3-way classification of a reply's comparative score
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// Message represents a tracked thread-root message. The Slack timestamp is
// globally unique per workspace and acts as the primary key. The three
// sentiment fields are derived and owned by the recalculation engine.
type Message struct {
	SlackTS           string    `db:"slack_ts"`
	ChannelID         string    `db:"channel_id"`
	ChannelName       string    `db:"channel_name"`
	UserID            string    `db:"user_id"`
	Username          string    `db:"username"`
	Text              string    `db:"text"`
	EmojiSentiment    float64   `db:"emoji_sentiment"`
	ReplySentiment    float64   `db:"reply_sentiment"`
	CombinedSentiment float64   `db:"combined_sentiment"`
	CreatedAt         time.Time `db:"created_at"`
}

// Reply represents a threaded response to a tracked message. Its sentiment
// score and label are computed once at ingestion time and never recomputed.
type Reply struct {
	MessageTS      string         `db:"message_ts"`
	ReplyTS        string         `db:"reply_ts"`
	UserID         string         `db:"user_id"`
	Username       string         `db:"username"`
	Text           string         `db:"text"`
	SentimentScore float64        `db:"sentiment_score"`
	SentimentLabel SentimentLabel `db:"sentiment_label"`
	CreatedAt      time.Time      `db:"created_at"`
}

// Reaction is one user's emoji annotation on a message. The composite key
// (message_ts, emoji, user_id) allows at most one row per user per emoji.
type Reaction struct {
	MessageTS  string    `db:"message_ts"`
	Emoji      string    `db:"emoji"`
	UserID     string    `db:"user_id"`
	Username   string    `db:"username"`
	ReactionTS time.Time `db:"reaction_ts"`
}

// ReactionUser identifies one user inside a reaction group
type ReactionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ReactionGroup is the derived (emoji, count, users) view of a message's
// raw reaction rows. Never persisted.
type ReactionGroup struct {
	Emoji string         `json:"emoji"`
	Count int            `json:"count"`
	Users []ReactionUser `json:"users"`
}
