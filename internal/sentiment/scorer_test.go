package sentiment

import (
	"testing"

	"github.com/threadpulse/threadpulse/pkg/models"
)

func TestScoreKnownWords(t *testing.T) {
	scorer := NewTextScorer()

	if got := scorer.Score("good").Raw; got <= 0 {
		t.Errorf("Score(\"good\").Raw = %v, want > 0", got)
	}
	if got := scorer.Score("terrible").Raw; got >= 0 {
		t.Errorf("Score(\"terrible\").Raw = %v, want < 0", got)
	}
}

func TestScoreEmptyAndUnknownText(t *testing.T) {
	scorer := NewTextScorer()

	if got := scorer.Score(""); got.Raw != 0 || got.Comparative != 0 {
		t.Errorf("Score(\"\") = %+v, want zero", got)
	}
	if got := scorer.Score("   "); got.Raw != 0 || got.Comparative != 0 {
		t.Errorf("Score(blank) = %+v, want zero", got)
	}
	if got := scorer.Score("qwxzt flrmp"); got.Raw != 0 {
		t.Errorf("Score(unknown words).Raw = %v, want 0", got.Raw)
	}
}

func TestScoreStripsPunctuationAndCase(t *testing.T) {
	scorer := NewTextScorer()

	plain := scorer.Score("good").Raw
	if got := scorer.Score("Good!").Raw; got != plain {
		t.Errorf("Score(\"Good!\").Raw = %v, want %v", got, plain)
	}
	if got := scorer.Score(`"good"`).Raw; got != plain {
		t.Errorf("quoted word scored %v, want %v", got, plain)
	}
}

func TestComparativeNormalizesByTokenCount(t *testing.T) {
	scorer := NewTextScorer()

	one := scorer.Score("good")
	two := scorer.Score("good good")

	if two.Raw != one.Raw*2 {
		t.Errorf("raw should double: %v vs %v", two.Raw, one.Raw)
	}
	if two.Comparative != one.Comparative {
		t.Errorf("comparative should stay put: %v vs %v", two.Comparative, one.Comparative)
	}

	diluted := scorer.Score("good qwxzt flrmp zzyx")
	if diluted.Comparative != one.Raw/4 {
		t.Errorf("diluted comparative = %v, want %v", diluted.Comparative, one.Raw/4)
	}
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  models.SentimentLabel
	}{
		{0.11, models.LabelPositive},
		{0.1, models.LabelNeutral},
		{0, models.LabelNeutral},
		{-0.1, models.LabelNeutral},
		{-0.11, models.LabelNegative},
		{2.5, models.LabelPositive},
		{-2.5, models.LabelNegative},
	}

	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
