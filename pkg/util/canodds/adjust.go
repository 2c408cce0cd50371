package canodds

import (
	"fmt"
	"math"
)

// HomeBoost is the multiplicative home-field prior applied to the home-win probability
const HomeBoost = 1.05

// Adjust multiplies pHome by boost and renormalises the pair to sum to 1
func Adjust(pHome, pAway, boost float64) (float64, float64) {
	adjustedHome := pHome * boost
	total := adjustedHome + pAway
	return adjustedHome / total, pAway / total
}

// AdjustChecked is Adjust for untrusted inputs; it refuses pairs that cannot be renormalised
func AdjustChecked(pHome, pAway, boost float64) (float64, float64, error) {
	for _, p := range []float64{pHome, pAway} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return 0, 0, fmt.Errorf("%w: probability %v outside [0,1]", ErrComputation, p)
		}
	}
	if pHome*boost+pAway <= 0 {
		return 0, 0, fmt.Errorf("%w: probabilities sum to zero", ErrComputation)
	}
	home, away := Adjust(pHome, pAway, boost)
	return home, away, nil
}
