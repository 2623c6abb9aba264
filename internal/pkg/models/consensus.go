package models

// Offer is the best available price for one side of an event.
type Offer struct {
	Bookmaker string  `json:"bookmaker"`
	Odds      float64 `json:"odds"`
}

// ConsensusResult is the read-time merge of all provider records for one
// event. Probability and fair-odds fields are nil when no fair price is
// computable; the raw Providers slice is always carried so callers can show
// fixture data without a synthesized price.
//
// Invariant: when set, *FairHomeProb + *FairAwayProb == 1 within 1e-9.
// Never persisted, recomputed from currently-cached records on each read.
type ConsensusResult struct {
	EventID           string       `json:"event_id"`
	ConsensusHomeProb *float64     `json:"consensus_home_prob"`
	ConsensusAwayProb *float64     `json:"consensus_away_prob"`
	FairHomeProb      *float64     `json:"fair_home_prob"`
	FairAwayProb      *float64     `json:"fair_away_prob"`
	FairHomeOdds      *float64     `json:"fair_home_odds"`
	FairAwayOdds      *float64     `json:"fair_away_odds"`
	BestOffers        BestOffers   `json:"best_offers"`
	Providers         []OddsRecord `json:"providers"`
}

// BestOffers holds the highest-payout quote per side across all records.
type BestOffers struct {
	Home *Offer `json:"home"`
	Away *Offer `json:"away"`
}
