package sportsdb

import (
	"testing"
	"time"

	"github.com/Vodeneev/fairline/internal/providers"
)

const samplePayload = `{
  "events": [
    {
      "idEvent": "2052711",
      "strEvent": "Arsenal vs Chelsea",
      "strSport": "Soccer",
      "strLeague": "English Premier League",
      "strHomeTeam": "Arsenal",
      "strAwayTeam": "Chelsea",
      "dateEvent": "2026-03-01",
      "strTime": "15:00:00",
      "strTimestamp": "2026-03-01T15:00:00"
    },
    {
      "idEvent": "2052712",
      "strSport": "Soccer",
      "strLeague": "English Premier League",
      "strHomeTeam": "Liverpool",
      "strAwayTeam": "Everton",
      "dateEvent": "2026-03-02"
    }
  ]
}`

func TestMapSchedule(t *testing.T) {
	records := Map([]byte(samplePayload), providers.Meta{Sport: "soccer", League: "epl"})
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	rec := records[0]
	if rec.Provider != "sportsdb" || rec.EventID != "2052711" {
		t.Errorf("provider/id = %s/%s", rec.Provider, rec.EventID)
	}
	want := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	if !rec.StartsAt.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", rec.StartsAt, want)
	}
	if rec.HasBothMoneylineSides() {
		t.Error("fixture-only record must not carry moneyline sides")
	}

	// date-only event still parses
	if records[1].StartsAt.IsZero() {
		t.Error("date-only event should get a midnight kickoff")
	}
}

func TestMapNullEvents(t *testing.T) {
	// This API reports an empty schedule as a JSON null.
	if records := Map([]byte(`{"events": null}`), providers.Meta{}); records != nil {
		t.Errorf("null events: got %v, want nil", records)
	}
}

func TestMapMalformed(t *testing.T) {
	if records := Map([]byte("oops"), providers.Meta{}); records != nil {
		t.Errorf("malformed payload: got %v, want nil", records)
	}
	raw := `{"events": [{"idEvent": "1", "strHomeTeam": "", "strAwayTeam": "B"}]}`
	if records := Map([]byte(raw), providers.Meta{}); len(records) != 0 {
		t.Errorf("event without home team must be dropped, got %v", records)
	}
}

func TestKickoffFallbacks(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want time.Time
	}{
		{"timestamp", Event{Timestamp: "2026-03-01T15:00:00"}, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)},
		{"timestamp rfc3339", Event{Timestamp: "2026-03-01T15:00:00Z"}, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)},
		{"date and time", Event{DateEvent: "2026-03-01", Time: "15:00:00"}, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)},
		{"date only", Event{DateEvent: "2026-03-01"}, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"nothing", Event{}, time.Time{}},
		{"garbage", Event{Timestamp: "soon", DateEvent: "tomorrow"}, time.Time{}},
	}
	for _, tt := range tests {
		if got := kickoff(tt.ev); !got.Equal(tt.want) {
			t.Errorf("%s: kickoff = %v, want %v", tt.name, got, tt.want)
		}
	}
}
