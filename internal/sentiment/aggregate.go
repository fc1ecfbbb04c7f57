package sentiment

import (
	"sort"

	"github.com/threadpulse/threadpulse/pkg/models"
)

// Blend weights are fixed policy constants, not runtime configuration.
const (
	emojiWeight = 0.4
	replyWeight = 0.6
)

// Aggregator collapses raw per-user reaction rows into grouped records and
// derives a single emoji-sentiment figure from them.
type Aggregator struct {
	scores *EmojiScores
}

// NewAggregator creates an aggregator backed by the given score table
func NewAggregator(scores *EmojiScores) *Aggregator {
	return &Aggregator{scores: scores}
}

// Aggregate groups reaction rows by emoji name, counting distinct users
// per emoji. User lists are sorted by username for display; groups are
// ordered by descending count.
func (a *Aggregator) Aggregate(reactions []models.Reaction) []models.ReactionGroup {
	var order []string
	groups := make(map[string]*models.ReactionGroup)
	seen := make(map[string]map[string]bool)

	for _, r := range reactions {
		g, ok := groups[r.Emoji]
		if !ok {
			g = &models.ReactionGroup{Emoji: r.Emoji}
			groups[r.Emoji] = g
			seen[r.Emoji] = make(map[string]bool)
			order = append(order, r.Emoji)
		}
		if seen[r.Emoji][r.UserID] {
			continue
		}
		seen[r.Emoji][r.UserID] = true
		g.Count++
		g.Users = append(g.Users, models.ReactionUser{ID: r.UserID, Username: r.Username})
	}

	out := make([]models.ReactionGroup, 0, len(order))
	for _, name := range order {
		g := groups[name]
		sort.Slice(g.Users, func(i, j int) bool {
			return g.Users[i].Username < g.Users[j].Username
		})
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	return out
}

// EmojiSentiment returns the count-weighted average of per-emoji scores
// over all groups. No reactions contributes 0, not an error.
func (a *Aggregator) EmojiSentiment(groups []models.ReactionGroup) float64 {
	var total int
	var sum float64

	for _, g := range groups {
		sum += a.scores.Lookup(g.Emoji) * float64(g.Count)
		total += g.Count
	}

	if total == 0 {
		return 0
	}

	return sum / float64(total)
}

// ReplySentiment returns the arithmetic mean of the stored per-reply
// scores, or 0 for an empty reply list.
func ReplySentiment(replies []models.Reply) float64 {
	if len(replies) == 0 {
		return 0
	}

	var sum float64
	for _, r := range replies {
		sum += r.SentimentScore
	}

	return sum / float64(len(replies))
}

// Blend combines the emoji and reply figures into one combined score
func Blend(emojiScore, replyScore float64) float64 {
	return emojiScore*emojiWeight + replyScore*replyWeight
}
