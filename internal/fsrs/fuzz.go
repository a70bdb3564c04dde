package fsrs

import (
	"math"
	"math/rand"
)

// applyFuzz perturbs a day interval by a uniform offset within
// ±max(1, round(fraction*interval)) so that items reviewed together do not
// stay due together. Intervals of two days or less pass through unchanged;
// the result never drops below one day.
func applyFuzz(days int, fraction float64, rng *rand.Rand) int {
	if days <= 2 {
		return days
	}
	spread := int(math.Round(fraction * float64(days)))
	if spread < 1 {
		spread = 1
	}
	fuzzed := days + rng.Intn(2*spread+1) - spread
	if fuzzed < 1 {
		return 1
	}
	return fuzzed
}
