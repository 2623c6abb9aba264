// Package sportsdb maps TheSportsDB schedule payloads to canonical
// fixture-only records.
package sportsdb

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/providers"
)

// Map converts one schedule payload into fixture-only records.
// Malformed input yields nil; a null "events" field (how this API reports an
// empty schedule) yields nil without a warning.
func Map(raw []byte, meta providers.Meta) []models.OddsRecord {
	var resp EventsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Warn("sportsdb: unknown payload shape, skipping", "error", err)
		return nil
	}

	var records []models.OddsRecord
	for _, ev := range resp.Events {
		if ev.IDEvent == "" || ev.HomeTeam == "" || ev.AwayTeam == "" {
			continue
		}

		sport := meta.Sport
		if sport == "" {
			sport = strings.ToLower(ev.Sport)
		}
		league := meta.League
		if league == "" {
			league = ev.League
		}

		startsAt := kickoff(ev)
		records = append(records, models.OddsRecord{
			Provider:    "sportsdb",
			Sport:       sport,
			League:      league,
			EventID:     ev.IDEvent,
			HomeTeam:    ev.HomeTeam,
			AwayTeam:    ev.AwayTeam,
			StartsAt:    startsAt,
			LastUpdated: startsAt,
		})
	}
	return records
}

// kickoff tries the combined timestamp first, then date+time, then date only.
func kickoff(ev Event) time.Time {
	if ts := strings.TrimSpace(ev.Timestamp); ts != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t.UTC()
			}
		}
	}
	date := strings.TrimSpace(ev.DateEvent)
	if date == "" {
		return time.Time{}
	}
	if tm := strings.TrimSpace(ev.Time); tm != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", date+" "+tm); err == nil {
			return t.UTC()
		}
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
