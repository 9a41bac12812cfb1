package back

import "math"

// Default rating engine parameters, overridable through the configuration.
const (
	DefaultKFactor       = 32.0
	DefaultInitialRating = 1200.0
)

// expectedScore is the logistic win probability of a rating ra against a
// rating rb: 1/(1+10^((rb-ra)/400)).
func expectedScore(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
}

// newRatings applies one match outcome to a pre-update rating pair and
// returns the new ratings of the winner and loser.
// Both sides are computed from the same (ra, rb) snapshot, which makes the
// update exactly zero-sum: (E_a - S_a) == -(E_b - S_b) for every outcome.
// Ratings stay float64 all the way down, rounding is a display concern.
func newRatings(k, ra, rb float64, tie bool) (newRa, newRb float64) {
	ea := expectedScore(ra, rb)
	eb := 1.0 - ea

	sa, sb := 1.0, 0.0
	if tie {
		sa, sb = 0.5, 0.5
	}

	return ra + k*(sa-ea), rb + k*(sb-eb)
}

func (b *Back) kFactor() float64 {
	if b.config != nil && b.config.KFactor > 0 {
		return b.config.KFactor
	}

	return DefaultKFactor
}

func (b *Back) initialRating() float64 {
	if b.config != nil && b.config.InitialRating > 0 {
		return b.config.InitialRating
	}

	return DefaultInitialRating
}
