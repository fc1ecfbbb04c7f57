package sentiment

import (
	"strings"
	"sync"

	"github.com/kyokomi/emoji/v2"
)

// reactionAliases covers platform reaction names that the shortcode table
// does not resolve on its own.
var reactionAliases = map[string]string{
	"thumbsup":   "👍",
	"+1":         "👍",
	"thumbsdown": "👎",
	"-1":         "👎",
}

// EmojiScores maps reaction names to signed sentiment weights in roughly
// [-5, 5]. The table is built once at startup and shared read-only;
// per-name resolutions are memoized.
type EmojiScores struct {
	byGlyph map[string]float64
	codes   map[string]string

	mu   sync.RWMutex
	memo map[string]float64
}

// NewEmojiScores builds the score table from the embedded dataset and the
// shortcode map.
func NewEmojiScores() *EmojiScores {
	return &EmojiScores{
		byGlyph: emojiValences(),
		codes:   emoji.CodeMap(),
		memo:    make(map[string]float64),
	}
}

// Lookup resolves a raw reaction name to its sentiment weight. Unknown
// names score 0; a miss is not an error.
func (t *EmojiScores) Lookup(name string) float64 {
	if name == "" {
		return 0
	}

	t.mu.RLock()
	score, ok := t.memo[name]
	t.mu.RUnlock()
	if ok {
		return score
	}

	score = t.resolve(name)

	t.mu.Lock()
	t.memo[name] = score
	t.mu.Unlock()

	return score
}

func (t *EmojiScores) resolve(name string) float64 {
	base := strings.ToLower(name)

	// Slack appends skin-tone and variant modifiers after "::"
	if i := strings.Index(base, "::"); i >= 0 {
		base = base[:i]
	}

	glyph, ok := t.codes[":"+base+":"]
	if !ok {
		glyph, ok = reactionAliases[base]
	}
	if !ok {
		return 0
	}

	// The dataset is keyed on bare glyphs without the variation selector
	glyph = strings.ReplaceAll(glyph, "️", "")

	return t.byGlyph[glyph]
}
