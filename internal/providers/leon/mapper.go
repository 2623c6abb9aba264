// Package leon maps Leon betline payloads to canonical records. Leon quotes
// decimal prices; they are converted to American odds during mapping so the
// canonical record always carries one price format.
package leon

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/oddsmath"
	"github.com/Vodeneev/fairline/internal/providers"
)

// Map converts one events payload into canonical records, one per event.
// Malformed input yields nil.
func Map(raw []byte, meta providers.Meta) []models.OddsRecord {
	var resp EventsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Warn("leon: unknown payload shape, skipping", "error", err)
		return nil
	}

	var records []models.OddsRecord
	for _, ev := range resp.Events {
		home, away := teams(ev)
		if ev.ID == 0 || home == "" || away == "" {
			continue
		}

		league := meta.League
		if league == "" {
			league = ev.League.Name
		}

		rec := models.OddsRecord{
			Provider:    "leon",
			Sport:       meta.Sport,
			League:      league,
			EventID:     strconv.FormatInt(ev.ID, 10),
			HomeTeam:    home,
			AwayTeam:    away,
			StartsAt:    time.UnixMilli(ev.Kickoff).UTC(),
			Bookmaker:   "leon",
			LastUpdated: time.UnixMilli(ev.LastUpdated).UTC(),
		}
		for _, mkt := range ev.Markets {
			if !mkt.Open {
				continue
			}
			switch mkt.TypeTag {
			case "REGULAR":
				if mkt.Primary {
					mapMoneyline(&rec, mkt)
				}
			case "TOTAL":
				mapTotal(&rec, mkt)
			case "HANDICAP":
				mapHandicap(&rec, mkt)
			}
		}
		records = append(records, rec)
	}
	return records
}

func teams(ev Event) (home, away string) {
	for _, c := range ev.Competitors {
		switch c.HomeAway {
		case "HOME":
			home = c.Name
		case "AWAY":
			away = c.Name
		}
	}
	return home, away
}

func american(decimal float64) *float64 {
	v, ok := oddsmath.DecimalToAmerican(decimal)
	if !ok {
		return nil
	}
	return models.Float(v)
}

func runnerSide(r Runner) string {
	for _, tag := range r.Tags {
		switch tag {
		case "HOME", "AWAY", "OVER", "UNDER":
			return tag
		}
	}
	return ""
}

func mapMoneyline(rec *models.OddsRecord, mkt Market) {
	for _, r := range mkt.Runners {
		if !r.Open {
			continue
		}
		switch runnerSide(r) {
		case "HOME":
			rec.Markets.Moneyline.Home = american(r.Price)
		case "AWAY":
			rec.Markets.Moneyline.Away = american(r.Price)
		}
	}
}

func mapTotal(rec *models.OddsRecord, mkt Market) {
	// Only the first (main) total line is kept.
	if rec.Markets.Total.Over != nil || rec.Markets.Total.Under != nil {
		return
	}
	for _, r := range mkt.Runners {
		if !r.Open {
			continue
		}
		line := parseLine(r.Handicap, mkt.Handicap)
		switch runnerSide(r) {
		case "OVER":
			rec.Markets.Total.Over = american(r.Price)
			if line != nil {
				rec.Markets.Total.Points = line
			}
		case "UNDER":
			rec.Markets.Total.Under = american(r.Price)
		}
	}
}

func mapHandicap(rec *models.OddsRecord, mkt Market) {
	if rec.Markets.Spread.Home != nil || rec.Markets.Spread.Away != nil {
		return
	}
	for _, r := range mkt.Runners {
		if !r.Open {
			continue
		}
		switch runnerSide(r) {
		case "HOME":
			rec.Markets.Spread.Home = american(r.Price)
			if line := parseLine(r.Handicap, mkt.Handicap); line != nil {
				rec.Markets.Spread.Point = line
			}
		case "AWAY":
			rec.Markets.Spread.Away = american(r.Price)
		}
	}
}

func parseLine(runnerHandicap, marketHandicap string) *float64 {
	for _, s := range []string{runnerHandicap, marketHandicap} {
		s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
		if s == "" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return models.Float(v)
		}
	}
	return nil
}
