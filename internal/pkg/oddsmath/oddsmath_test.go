package oddsmath

import (
	"math"
	"testing"
)

func TestAmericanToImpliedProb(t *testing.T) {
	tests := []struct {
		odds   float64
		want   float64
		wantOK bool
	}{
		{100, 0.5, true},
		{-100, 0.5, true},
		{150, 0.4, true},
		{-150, 0.6, true},
		{130, 100.0 / 230.0, true},
		{-10000, 10000.0 / 10100.0, true},
		{10000, 100.0 / 10100.0, true},
		{0, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{math.Inf(-1), 0, false},
	}
	for _, tt := range tests {
		got, ok := AmericanToImpliedProb(tt.odds)
		if ok != tt.wantOK {
			t.Errorf("AmericanToImpliedProb(%v) ok = %v, want %v", tt.odds, ok, tt.wantOK)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("AmericanToImpliedProb(%v) = %v, want %v", tt.odds, got, tt.want)
		}
	}
}

func TestImpliedProbToAmerican(t *testing.T) {
	tests := []struct {
		p      float64
		want   float64
		wantOK bool
	}{
		{0.5, 100, true},
		{0.4, 150, true},
		{0.6, -150, true},
		{0.99, -9900, true},
		{0.01, 9900, true},
		{0, 0, false},
		{1, 0, false},
		{-0.1, 0, false},
		{1.5, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		got, ok := ImpliedProbToAmerican(tt.p)
		if ok != tt.wantOK {
			t.Errorf("ImpliedProbToAmerican(%v) ok = %v, want %v", tt.p, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ImpliedProbToAmerican(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

// Round trip o -> prob -> o stays within the rounding tolerance of +-1 over
// the whole practical price range. Even money is the one special case: -100
// and +100 imply the same probability, so -100 comes back as +100.
func TestRoundTrip(t *testing.T) {
	check := func(odds float64) {
		t.Helper()
		p, ok := AmericanToImpliedProb(odds)
		if !ok {
			t.Fatalf("AmericanToImpliedProb(%v) unexpectedly not ok", odds)
		}
		back, ok := ImpliedProbToAmerican(p)
		if !ok {
			t.Fatalf("ImpliedProbToAmerican(%v) unexpectedly not ok (odds %v)", p, odds)
		}
		want := odds
		if odds == -100 {
			want = 100
		}
		if math.Abs(back-want) > 1 {
			t.Errorf("round trip %v -> %v -> %v (want within 1 of %v)", odds, p, back, want)
		}
	}
	for o := -10000.0 + 1; o <= -100; o++ {
		check(o)
	}
	for o := 100.0; o < 10000; o++ {
		check(o)
	}
}

func TestRemoveVig(t *testing.T) {
	tests := []struct {
		name         string
		pHome, pAway float64
		wantOK       bool
	}{
		{"standard two-way", 0.6, 0.5238, true},
		{"equal sides", 0.5238, 0.5238, true},
		{"already fair", 0.6, 0.4, true},
		{"extreme favorite", 0.9901, 0.02, true},
		{"zero total", 0, 0, false},
		{"negative total", -0.5, 0.2, false},
		{"nan input", math.NaN(), 0.5, false},
		{"inf input", math.Inf(1), 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh, fa, ok := RemoveVig(tt.pHome, tt.pAway)
			if ok != tt.wantOK {
				t.Fatalf("RemoveVig(%v, %v) ok = %v, want %v", tt.pHome, tt.pAway, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(fh+fa-1) > 1e-9 {
				t.Errorf("RemoveVig(%v, %v) = %v + %v, sum %v, want 1", tt.pHome, tt.pAway, fh, fa, fh+fa)
			}
			wantHome := tt.pHome / (tt.pHome + tt.pAway)
			if math.Abs(fh-wantHome) > 1e-12 {
				t.Errorf("RemoveVig home = %v, want %v", fh, wantHome)
			}
		})
	}
}

func TestDecimalConversions(t *testing.T) {
	tests := []struct {
		american float64
		decimal  float64
	}{
		{150, 2.5},
		{-150, 100.0/150.0 + 1},
		{100, 2.0},
		{-200, 1.5},
	}
	for _, tt := range tests {
		d, ok := AmericanToDecimal(tt.american)
		if !ok || math.Abs(d-tt.decimal) > 1e-12 {
			t.Errorf("AmericanToDecimal(%v) = %v, %v; want %v", tt.american, d, ok, tt.decimal)
		}
		a, ok := DecimalToAmerican(tt.decimal)
		if !ok || a != tt.american {
			t.Errorf("DecimalToAmerican(%v) = %v, %v; want %v", tt.decimal, a, ok, tt.american)
		}
	}

	if _, ok := AmericanToDecimal(0); ok {
		t.Error("AmericanToDecimal(0) should not be ok")
	}
	if _, ok := DecimalToAmerican(1); ok {
		t.Error("DecimalToAmerican(1) should not be ok")
	}
	if _, ok := DecimalToAmerican(0.5); ok {
		t.Error("DecimalToAmerican(0.5) should not be ok")
	}
}
