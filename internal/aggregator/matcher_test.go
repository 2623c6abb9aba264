package aggregator

import (
	"testing"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
)

func TestNormalizeTeam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RC Hades", "hades"},
		{"Hades", "hades"},
		{"K.S.K. Heist", "heist"},
		{"KSK Heist", "heist"},
		{"FC Barcelona", "barcelona"},
		{"  Manchester   United  ", "manchester united"},
		{"AC Milan", "milan"},
		{"", ""},
		{"Arsenal", "arsenal"},
	}
	for _, tt := range tests {
		if got := normalizeTeam(tt.in); got != tt.want {
			t.Errorf("normalizeTeam(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFuzzyGroupKeyTruncatesKickoff(t *testing.T) {
	base := models.OddsRecord{
		Sport: "Soccer", HomeTeam: "RC Hades", AwayTeam: "K.S.K. Heist",
	}

	a := base
	a.StartsAt = time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	b := base
	b.HomeTeam, b.AwayTeam = "Hades", "Heist"
	b.StartsAt = time.Date(2026, 3, 1, 12, 20, 0, 0, time.UTC)

	if ka, kb := fuzzyGroupKey(a), fuzzyGroupKey(b); ka != kb {
		t.Errorf("keys differ for the same match within 30 minutes:\n%q\n%q", ka, kb)
	}

	c := base
	c.StartsAt = time.Date(2026, 3, 1, 12, 35, 0, 0, time.UTC)
	if ka, kc := fuzzyGroupKey(a), fuzzyGroupKey(c); ka == kc {
		t.Errorf("kickoffs in different 30-minute buckets must not share a key: %q", ka)
	}
}

func TestFuzzyGroupKeyMissingTeam(t *testing.T) {
	rec := models.OddsRecord{Sport: "soccer", HomeTeam: "Hades"}
	if got := fuzzyGroupKey(rec); got != "" {
		t.Errorf("fuzzyGroupKey with missing away team = %q, want empty", got)
	}
}
