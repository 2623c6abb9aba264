package oddsapi

import (
	"testing"

	"github.com/Vodeneev/fairline/internal/providers"
)

const samplePayload = `[
  {
    "id": "e912304de2b2ce35b473ce2ecd3d1502",
    "sport_key": "soccer_epl",
    "sport_title": "EPL",
    "commence_time": "2026-03-01T15:00:00Z",
    "home_team": "Arsenal",
    "away_team": "Chelsea",
    "bookmakers": [
      {
        "key": "pinnacle",
        "title": "Pinnacle",
        "last_update": "2026-03-01T12:00:00Z",
        "markets": [
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Arsenal", "price": -150},
              {"name": "Chelsea", "price": 130}
            ]
          },
          {
            "key": "spreads",
            "outcomes": [
              {"name": "Arsenal", "price": -110, "point": -0.5},
              {"name": "Chelsea", "price": -110, "point": 0.5}
            ]
          },
          {
            "key": "totals",
            "outcomes": [
              {"name": "Over", "price": -105, "point": 2.5},
              {"name": "Under", "price": -115, "point": 2.5}
            ]
          }
        ]
      },
      {
        "key": "betfair",
        "title": "Betfair",
        "last_update": "2026-03-01T12:01:00Z",
        "markets": [
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Arsenal", "price": -145},
              {"name": "Chelsea", "price": 125}
            ]
          }
        ]
      }
    ]
  }
]`

func TestMapFullPayload(t *testing.T) {
	records := Map([]byte(samplePayload), providers.Meta{Sport: "soccer", League: "epl"})
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 (one per bookmaker)", len(records))
	}

	rec := records[0]
	if rec.Provider != "oddsapi" || rec.Bookmaker != "pinnacle" {
		t.Errorf("provider/bookmaker = %s/%s, want oddsapi/pinnacle", rec.Provider, rec.Bookmaker)
	}
	if rec.EventID != "e912304de2b2ce35b473ce2ecd3d1502" {
		t.Errorf("EventID = %q", rec.EventID)
	}
	if rec.Sport != "soccer" || rec.League != "epl" {
		t.Errorf("meta = %s/%s, want soccer/epl", rec.Sport, rec.League)
	}
	if rec.Markets.Moneyline.Home == nil || *rec.Markets.Moneyline.Home != -150 {
		t.Errorf("moneyline home = %v, want -150", rec.Markets.Moneyline.Home)
	}
	if rec.Markets.Moneyline.Away == nil || *rec.Markets.Moneyline.Away != 130 {
		t.Errorf("moneyline away = %v, want 130", rec.Markets.Moneyline.Away)
	}
	if rec.Markets.Spread.Point == nil || *rec.Markets.Spread.Point != -0.5 {
		t.Errorf("spread point = %v, want -0.5", rec.Markets.Spread.Point)
	}
	if rec.Markets.Total.Points == nil || *rec.Markets.Total.Points != 2.5 {
		t.Errorf("total points = %v, want 2.5", rec.Markets.Total.Points)
	}
	if rec.Markets.Total.Over == nil || *rec.Markets.Total.Over != -105 {
		t.Errorf("total over = %v, want -105", rec.Markets.Total.Over)
	}
	if rec.StartsAt.IsZero() {
		t.Error("StartsAt should be parsed from commence_time")
	}

	if records[1].Bookmaker != "betfair" {
		t.Errorf("second bookmaker = %s, want betfair", records[1].Bookmaker)
	}
	if records[1].Markets.Total.Over != nil {
		t.Error("betfair has no totals market, Over must be nil")
	}
}

func TestMapMalformedPayload(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"object":"not an array"}`} {
		if records := Map([]byte(raw), providers.Meta{}); records != nil {
			t.Errorf("Map(%q) = %v, want nil", raw, records)
		}
	}
}

func TestMapSkipsIncompleteEvents(t *testing.T) {
	raw := `[
	  {"id": "", "home_team": "A", "away_team": "B"},
	  {"id": "x", "home_team": "", "away_team": "B"},
	  {"id": "y", "home_team": "A", "away_team": "B", "bookmakers": [{"key": "bk", "markets": []}]}
	]`
	records := Map([]byte(raw), providers.Meta{})
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].EventID != "y" {
		t.Errorf("EventID = %q, want y", records[0].EventID)
	}
	// Bookmaker with no markets still yields an identity-only record.
	if records[0].Markets.Moneyline.Home != nil {
		t.Error("expected nil moneyline for empty markets")
	}
}

func TestResolveSideFallbacks(t *testing.T) {
	ev := Event{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}
	tests := []struct {
		name  string
		index int
		want  string
		ok    bool
	}{
		{"Arsenal", 5, "home", true}, // team name beats position
		{"chelsea", 0, "away", true}, // case-insensitive
		{"Home", 3, "home", true},    // label feeds
		{"Away", 3, "away", true},
		{"Unknown FC", 0, "home", true}, // positional fallback
		{"Unknown FC", 1, "away", true},
		{"Unknown FC", 2, "", false}, // three-way outcome, no side
	}
	for _, tt := range tests {
		side, ok := resolveSide(Outcome{Name: tt.name}, tt.index, ev)
		if side != tt.want || ok != tt.ok {
			t.Errorf("resolveSide(%q, %d) = (%q, %v), want (%q, %v)", tt.name, tt.index, side, ok, tt.want, tt.ok)
		}
	}
}
