package dynamo

import "math"

// SingularEpsilon is the denominator magnitude below which a rate expression
// is treated as sitting on its removable singularity.
const SingularEpsilon = 1e-7

// ExpRate evaluates k·x / (exp(-x/slope) - 1), the rate form shared by the
// Hodgkin-Huxley family of gating variables. The ratio is 0/0 at x = 0, so
// when the denominator is within SingularEpsilon of zero the caller's limit
// is returned instead and singular is true.
func ExpRate(k, x, slope, limit float64) (rate float64, singular bool) {
	d := math.Exp(-x/slope) - 1
	if math.Abs(d) <= SingularEpsilon {
		return limit, true
	}
	return k * x / d, false
}
