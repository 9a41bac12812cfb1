package back // nolint:testpackage

import (
	"math"
	"testing"
)

func TestNewRatingsEvenMatch(t *testing.T) {
	ra, rb := newRatings(32, 1200, 1200, false)
	if ra != 1216 || rb != 1184 {
		t.Errorf("expected 1216/1184, got %f/%f", ra, rb)
	}
}

func TestNewRatingsExpectedWin(t *testing.T) {
	ra, rb := newRatings(32, 1400, 1000, false)

	// E_a = 1/(1+10^-1) ≈ 0.909, the favorite barely gains for winning.
	if math.Abs(ra-1402.9) > 0.1 {
		t.Errorf("expected winner ≈ 1402.9, got %f", ra)
	}
	if math.Abs(rb-997.1) > 0.1 {
		t.Errorf("expected loser ≈ 997.1, got %f", rb)
	}
}

func TestNewRatingsTieUnequal(t *testing.T) {
	ra, rb := newRatings(32, 1300, 1100, true)

	// A tie pulls unequal ratings toward each other.
	if math.Abs(ra-1291.7) > 0.1 {
		t.Errorf("expected ≈ 1291.7, got %f", ra)
	}
	if math.Abs(rb-1108.3) > 0.1 {
		t.Errorf("expected ≈ 1108.3, got %f", rb)
	}
	if ra >= 1300 || rb <= 1100 {
		t.Error("tie must pull ratings toward equality")
	}
}

func TestNewRatingsTieEqual(t *testing.T) {
	ra, rb := newRatings(32, 1234.5, 1234.5, true)
	if ra != 1234.5 || rb != 1234.5 {
		t.Errorf("a tie between equal ratings must not move them, got %f/%f", ra, rb)
	}
}

func TestNewRatingsZeroSum(t *testing.T) {
	cases := []struct {
		ra, rb float64
		tie    bool
	}{
		{1200, 1200, false},
		{1200, 1200, true},
		{1400, 1000, false},
		{1000, 1400, false},
		{1300, 1100, true},
		{2512.25, 812.5, false},
		{812.5, 2512.25, true},
	}

	for k, v := range cases {
		newRa, newRb := newRatings(32, v.ra, v.rb, v.tie)
		total := (newRa - v.ra) + (newRb - v.rb)
		if math.Abs(total) > 1e-9 {
			t.Errorf("case #%d: expected zero-sum update, leaked %g points", k, total)
		}
	}
}

func TestNewRatingsUpsetBounds(t *testing.T) {
	// A huge upset approaches the maximum swing of K for both sides.
	ra, rb := newRatings(32, 400, 2400, false)
	if gain := ra - 400; gain < 31.9 || gain > 32 {
		t.Errorf("expected upset gain to approach K, got %f", gain)
	}
	if loss := 2400 - rb; loss < 31.9 || loss > 32 {
		t.Errorf("expected upset loss to approach K, got %f", loss)
	}

	// And the expected outcome barely registers.
	ra, rb = newRatings(32, 2400, 400, false)
	if gain := ra - 2400; gain < 0 || gain > 0.1 {
		t.Errorf("expected favorite gain to approach 0, got %f", gain)
	}
	if loss := 400 - rb; loss < 0 || loss > 0.1 {
		t.Errorf("expected underdog loss to approach 0, got %f", loss)
	}
}

func TestExpectedScoreSymmetry(t *testing.T) {
	for _, pair := range [][2]float64{{1200, 1200}, {1400, 1000}, {1850.5, 912.125}} {
		ea := expectedScore(pair[0], pair[1])
		eb := expectedScore(pair[1], pair[0])
		if math.Abs(ea+eb-1) > 1e-12 {
			t.Errorf("E_a + E_b must equal 1, got %g for %v", ea+eb, pair)
		}
	}
}
