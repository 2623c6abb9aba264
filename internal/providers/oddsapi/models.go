package oddsapi

// API models for The Odds API v4.
// Events: GET /v4/sports/{sport_key}/odds?regions=...&markets=h2h,spreads,totals&oddsFormat=american
// Prices are American because every endpoint is configured with oddsFormat=american.

// Event is one fixture with per-bookmaker markets.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"` // RFC3339
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one book's view of the event.
type Bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"` // RFC3339
	Markets    []Market `json:"markets"`
}

// Market is one market ("h2h" | "spreads" | "totals") with its outcomes.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one selection. Name is a team name for h2h/spreads and
// "Over"/"Under" for totals; Point is the line for spreads/totals.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}
