package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/threadpulse/threadpulse/pkg/models"
)

// Classification thresholds on the comparative score.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// TextScore holds both forms of a lexical score: the raw summed valence
// and the comparative form normalized by token count.
type TextScore struct {
	Raw         float64
	Comparative float64
}

// TextScorer scores text against a word-valence lexicon. Deterministic,
// pure, no I/O. Text with no lexicon hits scores exactly 0, which is the
// signal for LLM escalation.
type TextScorer struct {
	lexicon map[string]float64
}

// NewTextScorer builds a scorer on the VADER valence lexicon. govader
// exposes its lexicon as a public map, so we use it as the valence table
// directly instead of shipping our own word list.
func NewTextScorer() *TextScorer {
	return &TextScorer{
		lexicon: govader.NewSentimentIntensityAnalyzer().Lexicon,
	}
}

// Score tokenizes text and sums lexicon valences. The comparative score
// is the raw sum divided by the token count.
func (s *TextScorer) Score(text string) TextScore {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return TextScore{}
	}

	var raw float64
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()")
		if valence, ok := s.lexicon[word]; ok {
			raw += valence
		}
	}

	return TextScore{
		Raw:         raw,
		Comparative: raw / float64(len(words)),
	}
}

// Classify maps a comparative score to its 3-way label
func Classify(score float64) models.SentimentLabel {
	switch {
	case score > positiveThreshold:
		return models.LabelPositive
	case score < negativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}
