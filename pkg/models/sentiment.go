package models

// SentimentSnapshot is the output of one recalculation pass, written
// through to the tracked message.
type SentimentSnapshot struct {
	EmojiSentiment    float64
	ReplySentiment    float64
	CombinedSentiment float64
}

// RecalcResult bundles a snapshot with the raw rows it was computed from,
// so summary assembly does not need a second read.
type RecalcResult struct {
	Snapshot  SentimentSnapshot
	Reactions []ReactionGroup
	Replies   []Reply
}

// MessageSummary is the assembled view used by the summary modal and the
// CSV export.
type MessageSummary struct {
	Message      *Message
	Reactions    []ReactionGroup
	Replies      []Reply
	Snapshot     SentimentSnapshot
	TotalReplies int
	ChannelID    string
}

// Mood is the qualitative classification of a combined thread score
type Mood struct {
	Label string
	Emoji string
}

// MessageAnalysis is the per-message breakdown produced by the thread
// analyzer.
type MessageAnalysis struct {
	TS      string
	Text    string
	Snippet string
	Score   float64
	UserID  string
	IsRoot  bool
}

// ThreadAnalysis is the result of an on-demand deep analysis pass over a
// whole thread.
type ThreadAnalysis struct {
	TextScore            float64
	ReactionScore        float64
	CombinedScore        float64
	Mood                 Mood
	ReactionSummary      string
	Messages             []MessageAnalysis
	AnalyzedMessageCount int
}
