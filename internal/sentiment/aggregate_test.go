package sentiment

import (
	"math"
	"testing"

	"github.com/threadpulse/threadpulse/pkg/models"
)

func TestAggregateGroupsAndSorts(t *testing.T) {
	agg := NewAggregator(NewEmojiScores())

	groups := agg.Aggregate([]models.Reaction{
		{Emoji: "heart", UserID: "U1", Username: "zoe"},
		{Emoji: "thumbsup", UserID: "U2", Username: "bob"},
		{Emoji: "thumbsup", UserID: "U3", Username: "ann"},
		{Emoji: "thumbsup", UserID: "U3", Username: "ann"},
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	if groups[0].Emoji != "thumbsup" || groups[0].Count != 2 {
		t.Errorf("first group = %+v, want thumbsup x2", groups[0])
	}
	if groups[1].Emoji != "heart" || groups[1].Count != 1 {
		t.Errorf("second group = %+v, want heart x1", groups[1])
	}

	// Duplicate user rows collapse; users sort by username
	users := groups[0].Users
	if len(users) != 2 || users[0].Username != "ann" || users[1].Username != "bob" {
		t.Errorf("unexpected user ordering: %+v", users)
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := NewAggregator(NewEmojiScores())

	if groups := agg.Aggregate(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %+v", groups)
	}
	if got := agg.EmojiSentiment(nil); got != 0 {
		t.Errorf("EmojiSentiment(nil) = %v, want 0", got)
	}
}

func TestEmojiSentimentWeightedAverage(t *testing.T) {
	scores := NewEmojiScores()
	agg := NewAggregator(scores)

	groups := []models.ReactionGroup{
		{Emoji: "thumbsup", Count: 3},
		{Emoji: "thumbsdown", Count: 1},
	}

	want := (scores.Lookup("thumbsup")*3 + scores.Lookup("thumbsdown")) / 4
	if got := agg.EmojiSentiment(groups); math.Abs(got-want) > 1e-9 {
		t.Errorf("EmojiSentiment = %v, want %v", got, want)
	}
}

func TestReplySentiment(t *testing.T) {
	if got := ReplySentiment(nil); got != 0 {
		t.Errorf("ReplySentiment(nil) = %v, want 0", got)
	}

	replies := []models.Reply{
		{SentimentScore: 0.5},
		{SentimentScore: -0.2},
		{SentimentScore: 0},
	}
	if got := ReplySentiment(replies); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("ReplySentiment = %v, want 0.1", got)
	}
}

func TestBlendWeights(t *testing.T) {
	tests := []struct {
		emoji, reply, want float64
	}{
		{0, 0, 0},
		{1, 1, 1},
		{1, 0, 0.4},
		{0, 1, 0.6},
		{-2, 0.5, -0.5},
	}

	for _, tt := range tests {
		if got := Blend(tt.emoji, tt.reply); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Blend(%v, %v) = %v, want %v", tt.emoji, tt.reply, got, tt.want)
		}
	}
}
