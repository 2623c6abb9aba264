// Package oddsmath holds the pure odds/probability conversions the consensus
// pipeline is built on. No I/O, no allocation beyond return values.
//
// Degenerate input never panics: every function reports ok=false instead of
// guessing (odds of 0, probabilities outside (0,1), NaN/Inf, zero totals).
package oddsmath

import "math"

// AmericanToImpliedProb converts American odds to the win probability the
// price implies (bookmaker margin still included).
//
//	+150 -> 100/(150+100)   = 0.4
//	-150 -> 150/(150+100)   = 0.6
//
// Odds of 0 are not a price; NaN/Inf are rejected.
func AmericanToImpliedProb(odds float64) (float64, bool) {
	if odds == 0 || math.IsNaN(odds) || math.IsInf(odds, 0) {
		return 0, false
	}
	if odds > 0 {
		return 100 / (odds + 100), true
	}
	return -odds / (-odds + 100), true
}

// ImpliedProbToAmerican converts a probability in (0,1) to rounded American
// odds: favorites (p > 0.5) get a negative price, underdogs a positive one.
func ImpliedProbToAmerican(p float64) (float64, bool) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, false
	}
	if p > 0.5 {
		return math.Round(-p / (1 - p) * 100), true
	}
	return math.Round((1 - p) / p * 100), true
}

// RemoveVig renormalizes a two-way market so both probabilities sum to
// exactly 1, proportionally stripping the bookmaker margin.
// ok=false when either input is unusable or the total is not positive;
// never divides by zero.
func RemoveVig(pHome, pAway float64) (fairHome, fairAway float64, ok bool) {
	if math.IsNaN(pHome) || math.IsNaN(pAway) || math.IsInf(pHome, 0) || math.IsInf(pAway, 0) {
		return 0, 0, false
	}
	total := pHome + pAway
	if total <= 0 {
		return 0, 0, false
	}
	return pHome / total, pAway / total, true
}

// AmericanToDecimal converts American odds to European decimal odds.
// Display helper for feeds and alerts quoting decimal prices.
func AmericanToDecimal(odds float64) (float64, bool) {
	if odds == 0 || math.IsNaN(odds) || math.IsInf(odds, 0) {
		return 0, false
	}
	if odds > 0 {
		return odds/100 + 1, true
	}
	return 100/-odds + 1, true
}

// DecimalToAmerican converts decimal odds (> 1.0) to rounded American odds.
// Used by mappers for feeds that quote decimal prices.
func DecimalToAmerican(decimal float64) (float64, bool) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || decimal <= 1 {
		return 0, false
	}
	if decimal >= 2 {
		return math.Round((decimal - 1) * 100), true
	}
	return math.Round(-100 / (decimal - 1)), true
}
