package aggregator

import (
	"strings"
	"time"

	"github.com/Vodeneev/fairline/internal/pkg/models"
)

// fuzzyGroupKey builds a cross-provider grouping key from normalized team
// names and the kickoff truncated to 30 minutes, tolerating the small time
// differences between upstream APIs.
// Format: "sport|home|away|start_time". Empty when a team name is missing.
func fuzzyGroupKey(rec models.OddsRecord) string {
	home := normalizeTeam(rec.HomeTeam)
	away := normalizeTeam(rec.AwayTeam)
	if home == "" || away == "" {
		return ""
	}

	sport := strings.ToLower(strings.TrimSpace(rec.Sport))
	if sport == "" {
		sport = "unknown"
	}

	t := rec.StartsAt.UTC().Truncate(30 * time.Minute)
	if t.IsZero() {
		// Without a start time, group by teams only.
		return sport + "|" + home + "|" + away
	}
	return sport + "|" + home + "|" + away + "|" + t.Format(time.RFC3339)
}

// teamNamePrefixes are stripped for grouping so "RC Hades" and "Hades" land
// in the same group.
var teamNamePrefixes = []string{
	"r.c. ", "rc ", "k.s.k. ", "k.s. k. ", "ksk ", "f.c. ", "fc ", "f.k. ", "fk ",
	"c.f. ", "cf ", "s.c. ", "sc ", "s.s.c. ", "ssc ", "a.c. ", "ac ", "a.s. ", "as ",
	"u.d. ", "ud ", "c.d. ", "cd ", "n.k. ", "nk ", "b.c. ", "bc ", "bk ",
}

// normalizeTeam normalizes a team name for comparison and grouping.
func normalizeTeam(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	for _, p := range teamNamePrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	// collapse whitespace
	return strings.Join(strings.Fields(s), " ")
}
