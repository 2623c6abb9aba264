package models

import "time"

// OddsRecord is the canonical record every provider payload is mapped into.
// Immutable once created. All market fields are optional: a record with no
// price data (fixture-only provider) is still valid, only identity fields
// are required.
type OddsRecord struct {
	Provider    string    `json:"provider"`
	Sport       string    `json:"sport"`
	League      string    `json:"league"`
	EventID     string    `json:"event_id"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	StartsAt    time.Time `json:"starts_at"`
	Bookmaker   string    `json:"bookmaker"`
	Markets     Markets   `json:"markets"`
	LastUpdated time.Time `json:"last_updated"`
}

// Markets holds the normalized markets of one record. Nil pointers mean the
// bookmaker does not offer that side/line.
type Markets struct {
	Moneyline Moneyline `json:"moneyline"`
	Spread    Spread    `json:"spread"`
	Total     Total     `json:"total"`
}

// Moneyline is a two-way match-winner market in American odds.
type Moneyline struct {
	Home *float64 `json:"home"`
	Away *float64 `json:"away"`
}

// Spread is a point-handicap market. Point is the home-side line.
type Spread struct {
	Home  *float64 `json:"home"`
	Away  *float64 `json:"away"`
	Point *float64 `json:"point"`
}

// Total is an over/under market on combined points.
type Total struct {
	Points *float64 `json:"points"`
	Over   *float64 `json:"over"`
	Under  *float64 `json:"under"`
}

// HasBothMoneylineSides reports whether the record quotes both sides of the
// moneyline. Only such records can feed a two-way probability average.
func (r *OddsRecord) HasBothMoneylineSides() bool {
	return r.Markets.Moneyline.Home != nil && r.Markets.Moneyline.Away != nil
}

// Float returns a pointer to v. Mapper helper for optional market fields.
func Float(v float64) *float64 {
	return &v
}
