package footballdata

// API models for football-data.org v4. Fixture-only source: match listings
// carry no prices, so mapped records always have empty markets.
// Matches: GET /v4/competitions/{code}/matches?status=SCHEDULED

// MatchesResponse is a competition match listing.
type MatchesResponse struct {
	Competition Competition `json:"competition"`
	Matches     []Match     `json:"matches"`
}

// Competition identifies the league.
type Competition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Match is one fixture.
type Match struct {
	ID          int64       `json:"id"`
	UTCDate     string      `json:"utcDate"` // RFC3339
	Status      string      `json:"status"`
	Matchday    int         `json:"matchday"`
	HomeTeam    Team        `json:"homeTeam"`
	AwayTeam    Team        `json:"awayTeam"`
	Competition Competition `json:"competition"`
	LastUpdated string      `json:"lastUpdated"`
}

// Team is one side of a fixture.
type Team struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
}
