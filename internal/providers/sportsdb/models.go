package sportsdb

// API models for TheSportsDB. Fixture-only source.
// Events: GET /api/v1/json/{key}/eventsnextleague.php?id={leagueID}
// Every field is a string in this API, including dates and numeric ids.

// EventsResponse is the schedule listing.
type EventsResponse struct {
	Events []Event `json:"events"`
}

// Event is one scheduled fixture.
type Event struct {
	IDEvent   string `json:"idEvent"`
	Name      string `json:"strEvent"`
	Sport     string `json:"strSport"`
	League    string `json:"strLeague"`
	HomeTeam  string `json:"strHomeTeam"`
	AwayTeam  string `json:"strAwayTeam"`
	DateEvent string `json:"dateEvent"`    // "2026-08-30"
	Time      string `json:"strTime"`      // "14:00:00"
	Timestamp string `json:"strTimestamp"` // "2026-08-30T14:00:00" when present
}
