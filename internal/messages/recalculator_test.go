package messages

import (
	"context"
	"math"
	"testing"

	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/models"
)

type fakeStore struct {
	msg       *models.Message
	reactions []models.Reaction
	replies   []models.Reply

	savedEmoji    float64
	savedReply    float64
	savedCombined float64
	updateCalls   int
}

func (f *fakeStore) GetReactionRows(ctx context.Context, messageTS string) ([]models.Reaction, error) {
	return f.reactions, nil
}

func (f *fakeStore) GetReplies(ctx context.Context, messageTS string) ([]models.Reply, error) {
	return f.replies, nil
}

func (f *fakeStore) GetMessageByTS(ctx context.Context, messageTS string) (*models.Message, error) {
	return f.msg, nil
}

func (f *fakeStore) UpdateMessageSentiment(ctx context.Context, messageTS string, emoji, reply, combined float64) error {
	f.savedEmoji = emoji
	f.savedReply = reply
	f.savedCombined = combined
	f.updateCalls++
	return nil
}

func newTestRecalculator(store Store) *Recalculator {
	return NewRecalculator(store, sentiment.NewAggregator(sentiment.NewEmojiScores()))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecalculateWeightedBlend(t *testing.T) {
	scores := sentiment.NewEmojiScores()
	up := scores.Lookup("thumbsup")
	down := scores.Lookup("thumbsdown")
	if up == 0 || down == 0 {
		t.Fatalf("expected nonzero scores for thumbsup/thumbsdown, got %v %v", up, down)
	}

	store := &fakeStore{
		reactions: []models.Reaction{
			{MessageTS: "1.0", Emoji: "thumbsup", UserID: "U1", Username: "ann"},
			{MessageTS: "1.0", Emoji: "thumbsup", UserID: "U2", Username: "bob"},
			{MessageTS: "1.0", Emoji: "thumbsup", UserID: "U3", Username: "cat"},
			{MessageTS: "1.0", Emoji: "thumbsdown", UserID: "U4", Username: "dan"},
		},
		replies: []models.Reply{
			{ReplyTS: "1.1", SentimentScore: 0.5},
			{ReplyTS: "1.2", SentimentScore: -0.2},
		},
	}

	result, err := newTestRecalculator(store).Recalculate(context.Background(), "1.0")
	if err != nil {
		t.Fatalf("Recalculate returned error: %v", err)
	}

	wantEmoji := (up*3 + down) / 4
	wantReply := 0.15
	wantCombined := wantEmoji*0.4 + wantReply*0.6

	if !almostEqual(result.Snapshot.EmojiSentiment, wantEmoji) {
		t.Errorf("emoji sentiment = %v, want %v", result.Snapshot.EmojiSentiment, wantEmoji)
	}
	if !almostEqual(result.Snapshot.ReplySentiment, wantReply) {
		t.Errorf("reply sentiment = %v, want %v", result.Snapshot.ReplySentiment, wantReply)
	}
	if !almostEqual(result.Snapshot.CombinedSentiment, wantCombined) {
		t.Errorf("combined sentiment = %v, want %v", result.Snapshot.CombinedSentiment, wantCombined)
	}

	if !almostEqual(store.savedCombined, wantCombined) {
		t.Errorf("persisted combined = %v, want %v", store.savedCombined, wantCombined)
	}

	if len(result.Reactions) != 2 {
		t.Fatalf("expected 2 reaction groups, got %d", len(result.Reactions))
	}
	if result.Reactions[0].Emoji != "thumbsup" || result.Reactions[0].Count != 3 {
		t.Errorf("first group = %+v, want thumbsup x3", result.Reactions[0])
	}
}

func TestRecalculateEmptyStateIsZero(t *testing.T) {
	store := &fakeStore{}

	result, err := newTestRecalculator(store).Recalculate(context.Background(), "1.0")
	if err != nil {
		t.Fatalf("Recalculate returned error: %v", err)
	}

	if result.Snapshot.EmojiSentiment != 0 || result.Snapshot.ReplySentiment != 0 || result.Snapshot.CombinedSentiment != 0 {
		t.Errorf("expected all-zero snapshot, got %+v", result.Snapshot)
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	store := &fakeStore{
		reactions: []models.Reaction{
			{MessageTS: "1.0", Emoji: "heart", UserID: "U1", Username: "ann"},
		},
		replies: []models.Reply{
			{ReplyTS: "1.1", SentimentScore: 1.2},
		},
	}

	recalc := newTestRecalculator(store)

	first, err := recalc.Recalculate(context.Background(), "1.0")
	if err != nil {
		t.Fatalf("first Recalculate returned error: %v", err)
	}
	second, err := recalc.Recalculate(context.Background(), "1.0")
	if err != nil {
		t.Fatalf("second Recalculate returned error: %v", err)
	}

	if first.Snapshot != second.Snapshot {
		t.Errorf("snapshots differ across runs: %+v vs %+v", first.Snapshot, second.Snapshot)
	}
	if store.updateCalls != 2 {
		t.Errorf("expected 2 persisted snapshots, got %d", store.updateCalls)
	}
}

func TestSummarizeUntrackedMessage(t *testing.T) {
	store := &fakeStore{}

	summary, err := newTestRecalculator(store).Summarize(context.Background(), "C1", "9.9")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != nil {
		t.Errorf("expected nil summary for untracked message, got %+v", summary)
	}
	if store.updateCalls != 0 {
		t.Errorf("expected no recalculation for untracked message, got %d", store.updateCalls)
	}
}

func TestSummarizeRunsFreshRecalculation(t *testing.T) {
	store := &fakeStore{
		msg: &models.Message{SlackTS: "1.0", ChannelID: "C1", Text: "launch update"},
		replies: []models.Reply{
			{ReplyTS: "1.1", SentimentScore: 0.4},
			{ReplyTS: "1.2", SentimentScore: 0.2},
		},
	}

	summary, err := newTestRecalculator(store).Summarize(context.Background(), "C1", "1.0")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary == nil {
		t.Fatal("expected summary, got nil")
	}

	if summary.TotalReplies != 2 {
		t.Errorf("TotalReplies = %d, want 2", summary.TotalReplies)
	}
	if !almostEqual(summary.Snapshot.ReplySentiment, 0.3) {
		t.Errorf("reply sentiment = %v, want 0.3", summary.Snapshot.ReplySentiment)
	}
	if store.updateCalls != 1 {
		t.Errorf("expected 1 persisted snapshot, got %d", store.updateCalls)
	}
}
