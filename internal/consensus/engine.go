// Package consensus computes the fair price for one event from all provider
// records describing it. Pure read-time computation: no I/O, no persistence.
package consensus

import (
	"github.com/Vodeneev/fairline/internal/pkg/models"
	"github.com/Vodeneev/fairline/internal/pkg/oddsmath"
)

// ComputeConsensusForEvent averages the two sides' implied probabilities
// across every record quoting both moneyline sides, removes the vig and
// converts the fair distribution back to American odds. Returns nil when no
// record quotes both sides. One-sided records cannot feed a two-way
// average, though they still compete for best offers.
//
// The average is unweighted: reliable volume/liquidity signals are not
// available across heterogeneous feeds.
func ComputeConsensusForEvent(records []models.OddsRecord) *models.ConsensusResult {
	if len(records) == 0 {
		return nil
	}

	result := &models.ConsensusResult{
		EventID:    records[0].EventID,
		Providers:  records,
		BestOffers: BestOffers(records),
	}

	var sumHome, sumAway float64
	var valid int
	for _, rec := range records {
		if !rec.HasBothMoneylineSides() {
			continue
		}
		ph, okH := oddsmath.AmericanToImpliedProb(*rec.Markets.Moneyline.Home)
		pa, okA := oddsmath.AmericanToImpliedProb(*rec.Markets.Moneyline.Away)
		if !okH || !okA {
			continue
		}
		sumHome += ph
		sumAway += pa
		valid++
	}
	if valid == 0 {
		return nil
	}

	avgHome := sumHome / float64(valid)
	avgAway := sumAway / float64(valid)
	result.ConsensusHomeProb = models.Float(avgHome)
	result.ConsensusAwayProb = models.Float(avgAway)

	fairHome, fairAway, ok := oddsmath.RemoveVig(avgHome, avgAway)
	if !ok {
		// Degenerate inputs surface as "no fair price", never an error.
		return result
	}
	result.FairHomeProb = models.Float(fairHome)
	result.FairAwayProb = models.Float(fairAway)

	if odds, ok := oddsmath.ImpliedProbToAmerican(fairHome); ok {
		result.FairHomeOdds = models.Float(odds)
	}
	if odds, ok := oddsmath.ImpliedProbToAmerican(fairAway); ok {
		result.FairAwayOdds = models.Float(odds)
	}
	return result
}

// BestOffers picks the numerically highest (best payout) quote per side.
// One-sided records compete for the side they do report. Ties keep the
// first-seen record.
func BestOffers(records []models.OddsRecord) models.BestOffers {
	var offers models.BestOffers
	for _, rec := range records {
		if h := rec.Markets.Moneyline.Home; h != nil {
			if offers.Home == nil || *h > offers.Home.Odds {
				offers.Home = &models.Offer{Bookmaker: rec.Bookmaker, Odds: *h}
			}
		}
		if a := rec.Markets.Moneyline.Away; a != nil {
			if offers.Away == nil || *a > offers.Away.Odds {
				offers.Away = &models.Offer{Bookmaker: rec.Bookmaker, Odds: *a}
			}
		}
	}
	return offers
}

// ValuePercent returns the expected value of taking americanOdds against the
// vig-free probability fairProb, as a percentage. Positive means the offer
// pays more than the consensus says it should.
func ValuePercent(americanOdds, fairProb float64) (float64, bool) {
	dec, ok := oddsmath.AmericanToDecimal(americanOdds)
	if !ok || fairProb <= 0 || fairProb >= 1 {
		return 0, false
	}
	return (dec*fairProb - 1) * 100, true
}
