package fsrs

import "math"

// minStability is the floor for every stability value.
const minStability = 0.1

// model holds the pure memory-model formulas. All methods are total over
// valid numeric domains and perform no I/O.
type model struct {
	w         Weights
	retention float64
	maxDays   int
}

// initDifficulty returns the starting difficulty for a first rating.
//
//	D0(G) = clamp(w4 - (G-3)*w5, 1, 10)
func (m *model) initDifficulty(r Rating) float64 {
	return clampDifficulty(m.w[4] - float64(r-3)*m.w[5])
}

// initStability returns the starting stability for a first rating.
//
//	S0(G) = max(0.1, w[G-1])
func (m *model) initStability(r Rating) float64 {
	return math.Max(minStability, m.w[r-1])
}

// nextDifficulty blends the current difficulty toward the rating's initial
// difficulty with weight w7, after applying the per-rating delta.
//
//	D'(D, G) = clamp(w7*D0(G) + (1-w7)*(D - w6*(G-3)), 1, 10)
func (m *model) nextDifficulty(d float64, r Rating) float64 {
	return clampDifficulty(m.w[7]*m.initDifficulty(r) + (1-m.w[7])*(d-m.w[6]*float64(r-3)))
}

// retrievability returns the probability of recall after elapsedDays.
//
//	R(t, S) = (1 + t/(9*S))^(-1)
//
// Returns 0 for non-positive stability.
func (m *model) retrievability(elapsedDays int, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+float64(elapsedDays)/(9*stability), -1)
}

// nextInterval converts stability and the target retention into a day
// interval.
//
//	I(S, r) = round(9*S*(1/r - 1))
//
// The result is floored at 1 day and capped at the maximum interval. An
// invalid retention yields 1.
func (m *model) nextInterval(stability float64) int {
	if m.retention <= 0 || m.retention >= 1 {
		return 1
	}
	interval := int(math.Round(9 * stability * (1/m.retention - 1)))
	if interval < 1 {
		return 1
	}
	if interval > m.maxDays {
		return m.maxDays
	}
	return interval
}

// nextStabilityOnSuccess grows stability after a successful recall.
//
//	S'(D, S, R, G) = S * (1 + e^w8 * (11-D) * S^(-w9) * (e^(w10*(1-R)) - 1) * hard * easy)
//
// hard = w15 when G is Hard, easy = w16 when G is Easy, 1 otherwise. The
// result is clamped to [0.1, maximumInterval].
func (m *model) nextStabilityOnSuccess(d, s, r float64, rating Rating) float64 {
	hardPenalty := 1.0
	if rating == Hard {
		hardPenalty = m.w[15]
	}
	easyBonus := 1.0
	if rating == Easy {
		easyBonus = m.w[16]
	}
	next := s * (1 + math.Exp(m.w[8])*
		(11-d)*
		math.Pow(s, -m.w[9])*
		(math.Exp(m.w[10]*(1-r))-1)*
		hardPenalty*easyBonus)
	return clampStability(next, float64(m.maxDays))
}

// nextStabilityOnFailure shrinks stability after a lapse.
//
//	S'(D, S, R) = w11 * D^(-w12) * ((S+1)^w13 - 1) * e^(w14*(1-R))
//
// The result never exceeds the pre-failure stability and never drops below
// the floor.
func (m *model) nextStabilityOnFailure(d, s, r float64) float64 {
	next := m.w[11] *
		math.Pow(d, -m.w[12]) *
		(math.Pow(s+1, m.w[13]) - 1) *
		math.Exp(m.w[14]*(1-r))
	return clampStability(next, s)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}

func clampStability(s, upper float64) float64 {
	if upper < minStability {
		upper = minStability
	}
	return math.Min(math.Max(s, minStability), upper)
}
