package sentiment

import "testing"

func TestLookupAliases(t *testing.T) {
	scores := NewEmojiScores()

	up := scores.Lookup("thumbsup")
	if up <= 0 {
		t.Fatalf("Lookup(thumbsup) = %v, want > 0", up)
	}
	if got := scores.Lookup("+1"); got != up {
		t.Errorf("Lookup(+1) = %v, want %v", got, up)
	}

	down := scores.Lookup("thumbsdown")
	if down >= 0 {
		t.Fatalf("Lookup(thumbsdown) = %v, want < 0", down)
	}
	if got := scores.Lookup("-1"); got != down {
		t.Errorf("Lookup(-1) = %v, want %v", got, down)
	}
}

func TestLookupSkinToneSuffix(t *testing.T) {
	scores := NewEmojiScores()

	plain := scores.Lookup("thumbsup")
	if got := scores.Lookup("thumbsup::skin-tone-2"); got != plain {
		t.Errorf("skin-tone variant scored %v, want %v", got, plain)
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	scores := NewEmojiScores()

	if got, want := scores.Lookup("THUMBSUP"), scores.Lookup("thumbsup"); got != want {
		t.Errorf("Lookup(THUMBSUP) = %v, want %v", got, want)
	}
}

func TestLookupUnknownIsZero(t *testing.T) {
	scores := NewEmojiScores()

	if got := scores.Lookup("definitely_not_an_emoji"); got != 0 {
		t.Errorf("Lookup(unknown) = %v, want 0", got)
	}
	if got := scores.Lookup(""); got != 0 {
		t.Errorf("Lookup(\"\") = %v, want 0", got)
	}
}

func TestLookupCommonShortcodes(t *testing.T) {
	scores := NewEmojiScores()

	positive := []string{"tada", "heart", "fire", "joy"}
	for _, name := range positive {
		if got := scores.Lookup(name); got <= 0 {
			t.Errorf("Lookup(%s) = %v, want > 0", name, got)
		}
	}

	negative := []string{"rage", "cry"}
	for _, name := range negative {
		if got := scores.Lookup(name); got >= 0 {
			t.Errorf("Lookup(%s) = %v, want < 0", name, got)
		}
	}
}
