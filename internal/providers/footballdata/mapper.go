// Package footballdata maps football-data.org match listings to canonical
// fixture-only records: identity fields populated, every market nil. These
// records cannot feed the consensus average but keep the aggregator output
// non-empty when no priced provider has data.
package footballdata

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/providers"
)

// Map converts one matches payload into fixture-only records, one per match.
// Malformed input yields nil.
func Map(raw []byte, meta providers.Meta) []models.OddsRecord {
	var resp MatchesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Warn("footballdata: unknown payload shape, skipping", "error", err)
		return nil
	}

	var records []models.OddsRecord
	for _, m := range resp.Matches {
		if m.ID == 0 {
			continue
		}
		startsAt, _ := time.Parse(time.RFC3339, m.UTCDate)
		lastUpdated, err := time.Parse(time.RFC3339, m.LastUpdated)
		if err != nil {
			lastUpdated = startsAt
		}

		league := meta.League
		if league == "" {
			league = competitionName(m.Competition, resp.Competition)
		}

		records = append(records, models.OddsRecord{
			Provider:    "footballdata",
			Sport:       meta.Sport,
			League:      league,
			EventID:     strconv.FormatInt(m.ID, 10),
			HomeTeam:    teamName(m.HomeTeam),
			AwayTeam:    teamName(m.AwayTeam),
			StartsAt:    startsAt,
			Bookmaker:   "",
			LastUpdated: lastUpdated,
		})
	}
	return records
}

func competitionName(matchLevel, topLevel Competition) string {
	if matchLevel.Name != "" {
		return matchLevel.Name
	}
	return topLevel.Name
}

func teamName(t Team) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ShortName
}
