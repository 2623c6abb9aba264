// Package oddsapi maps The Odds API v4 payloads to canonical records:
// one record per (event, bookmaker).
package oddsapi

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/providers"
)

// sideExtractor resolves which side of a two-way market an outcome belongs
// to. Extractors are tried in the fixed order of sideExtractors; the first
// one returning ok wins. Keeping them named keeps the resolution auditable.
type sideExtractor func(o Outcome, index int, ev Event) (side string, ok bool)

// byTeamName matches the outcome name against the event's team names.
func byTeamName(o Outcome, _ int, ev Event) (string, bool) {
	name := strings.TrimSpace(o.Name)
	switch {
	case name != "" && strings.EqualFold(name, ev.HomeTeam):
		return "home", true
	case name != "" && strings.EqualFold(name, ev.AwayTeam):
		return "away", true
	}
	return "", false
}

// byLabel matches literal "Home"/"Away" labels some feeds use.
func byLabel(o Outcome, _ int, _ Event) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(o.Name)) {
	case "home":
		return "home", true
	case "away":
		return "away", true
	}
	return "", false
}

// byPosition falls back to outcome order: home first, away second.
func byPosition(_ Outcome, index int, _ Event) (string, bool) {
	switch index {
	case 0:
		return "home", true
	case 1:
		return "away", true
	}
	return "", false
}

var sideExtractors = []sideExtractor{byTeamName, byLabel, byPosition}

func resolveSide(o Outcome, index int, ev Event) (string, bool) {
	for _, extract := range sideExtractors {
		if side, ok := extract(o, index, ev); ok {
			return side, ok
		}
	}
	return "", false
}

// Map converts one /odds payload into canonical records. Malformed payloads
// yield nil; schema drift is a data problem, never a provider-health problem.
func Map(raw []byte, meta providers.Meta) []models.OddsRecord {
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		slog.Warn("oddsapi: unknown payload shape, skipping", "error", err)
		return nil
	}

	var records []models.OddsRecord
	for _, ev := range events {
		if ev.ID == "" || ev.HomeTeam == "" || ev.AwayTeam == "" {
			continue
		}
		startsAt, _ := time.Parse(time.RFC3339, ev.CommenceTime)

		sport := meta.Sport
		if sport == "" {
			sport = ev.SportKey
		}
		league := meta.League
		if league == "" {
			league = ev.SportTitle
		}

		for _, bk := range ev.Bookmakers {
			rec := models.OddsRecord{
				Provider:    "oddsapi",
				Sport:       sport,
				League:      league,
				EventID:     ev.ID,
				HomeTeam:    ev.HomeTeam,
				AwayTeam:    ev.AwayTeam,
				StartsAt:    startsAt,
				Bookmaker:   bk.Key,
				LastUpdated: parseLastUpdate(bk.LastUpdate, startsAt),
			}
			for _, mkt := range bk.Markets {
				switch mkt.Key {
				case "h2h":
					mapMoneyline(&rec, mkt, ev)
				case "spreads":
					mapSpread(&rec, mkt, ev)
				case "totals":
					mapTotal(&rec, mkt)
				}
			}
			records = append(records, rec)
		}
	}
	return records
}

func parseLastUpdate(s string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return fallback
}

func mapMoneyline(rec *models.OddsRecord, mkt Market, ev Event) {
	for i, o := range mkt.Outcomes {
		if o.Price == 0 {
			continue
		}
		side, ok := resolveSide(o, i, ev)
		if !ok {
			continue
		}
		switch side {
		case "home":
			rec.Markets.Moneyline.Home = models.Float(o.Price)
		case "away":
			rec.Markets.Moneyline.Away = models.Float(o.Price)
		}
	}
}

func mapSpread(rec *models.OddsRecord, mkt Market, ev Event) {
	for i, o := range mkt.Outcomes {
		if o.Price == 0 {
			continue
		}
		side, ok := resolveSide(o, i, ev)
		if !ok {
			continue
		}
		switch side {
		case "home":
			rec.Markets.Spread.Home = models.Float(o.Price)
			if o.Point != nil {
				rec.Markets.Spread.Point = models.Float(*o.Point)
			}
		case "away":
			rec.Markets.Spread.Away = models.Float(o.Price)
		}
	}
}

func mapTotal(rec *models.OddsRecord, mkt Market) {
	for _, o := range mkt.Outcomes {
		if o.Price == 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(o.Name)) {
		case "over":
			rec.Markets.Total.Over = models.Float(o.Price)
			if o.Point != nil {
				rec.Markets.Total.Points = models.Float(*o.Point)
			}
		case "under":
			rec.Markets.Total.Under = models.Float(o.Price)
		}
	}
}
