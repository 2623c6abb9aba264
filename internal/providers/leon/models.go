package leon

// API models for the Leon betline API.
// Events: GET /api-2/betline/events/all?ctag=en-US&league_id=...&hideClosed=true

// EventsResponse is the league events listing.
type EventsResponse struct {
	Enabled    bool    `json:"enabled"`
	TotalCount int     `json:"totalCount"`
	Events     []Event `json:"events"`
}

// Event is one match with its primary markets. Prices are decimal.
type Event struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Competitors []Competitor `json:"competitors"`
	Kickoff     int64        `json:"kickoff"` // ms
	LastUpdated int64        `json:"lastUpdated"`
	League      League       `json:"league"`
	Open        bool         `json:"open"`
	Markets     []Market     `json:"markets"`
}

// Competitor is a team with its home/away alignment.
type Competitor struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	HomeAway string `json:"homeAway"` // "HOME" | "AWAY"
}

// League may come with only an id on nested events.
type League struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Market is one market, classified by TypeTag.
type Market struct {
	ID       int64    `json:"id"`
	TypeTag  string   `json:"typeTag"` // "REGULAR" | "TOTAL" | "HANDICAP"
	Name     string   `json:"name"`
	Open     bool     `json:"open"`
	Primary  bool     `json:"primary"`
	Handicap string   `json:"handicap,omitempty"`
	Runners  []Runner `json:"runners"`
}

// Runner is one selection; Tags carry the side.
type Runner struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Open     bool     `json:"open"`
	Tags     []string `json:"tags"`  // "HOME","AWAY","DRAW","OVER","UNDER"
	Price    float64  `json:"price"` // decimal odds
	Handicap string   `json:"handicap,omitempty"`
}
