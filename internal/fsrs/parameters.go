package fsrs

import (
	"fmt"
	"math"
	"time"
)

// Weights is the 17-parameter vector of the memory model.
type Weights [17]float64

// DefaultWeights are the published FSRS-4.5 defaults.
var DefaultWeights = Weights{
	0.4,  // w0  initial stability after Again
	0.6,  // w1  initial stability after Hard
	2.4,  // w2  initial stability after Good
	5.8,  // w3  initial stability after Easy
	4.93, // w4  initial difficulty baseline
	0.94, // w5  initial difficulty per-rating slope
	0.86, // w6  difficulty delta per rating
	0.01, // w7  mean reversion weight
	1.49, // w8  recall stability scale, exp(w8)
	0.14, // w9  recall stability S^(-w9)
	0.94, // w10 recall stability exp(w10*(1-R)) - 1
	2.18, // w11 forget stability multiplier
	0.05, // w12 forget stability D^(-w12)
	0.34, // w13 forget stability (S+1)^w13 - 1
	1.26, // w14 forget stability exp(w14*(1-R))
	0.29, // w15 hard penalty
	2.61, // w16 easy bonus
}

// Validate checks that every weight is a finite number and that the four
// initial stabilities are positive.
func (w Weights) Validate() error {
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight w[%d] is not finite: %v", i, v)
		}
	}
	for i := 0; i < 4; i++ {
		if w[i] <= 0 {
			return fmt.Errorf("initial stability weight w[%d] must be positive, got %v", i, w[i])
		}
	}
	return nil
}

// StepMinutes is the per-rating delay table of the short-term regime.
type StepMinutes struct {
	Again int
	Hard  int
	Good  int
	Easy  int
}

// DefaultStepMinutes is the default short-term step table.
var DefaultStepMinutes = StepMinutes{Again: 1, Hard: 5, Good: 10, Easy: 60}

// Delay returns the short-term delay for a rating.
func (m StepMinutes) Delay(r Rating) time.Duration {
	minutes := m.Good
	switch r {
	case Again:
		minutes = m.Again
	case Hard:
		minutes = m.Hard
	case Good:
		minutes = m.Good
	case Easy:
		minutes = m.Easy
	}
	return time.Duration(minutes) * time.Minute
}

// Parameters configures a Scheduler. The zero value of each field selects the
// documented default.
type Parameters struct {
	Weights             *Weights    // nil → DefaultWeights
	RequestRetention    float64     // zero → 0.9
	MaximumIntervalDays int         // zero → 365
	LearningStepMinutes StepMinutes // zero → DefaultStepMinutes
	GraduationSteps     int         // zero → 2
	FuzzFraction        float64     // zero → 0.05
	DisableFuzz         bool        // zero → fuzz enabled
}

// withDefaults returns a copy with every zero field replaced by its default,
// validating the explicit values.
func (p Parameters) withDefaults() (Parameters, error) {
	if p.Weights == nil {
		w := DefaultWeights
		p.Weights = &w
	}
	if err := p.Weights.Validate(); err != nil {
		return Parameters{}, err
	}
	if p.RequestRetention == 0 {
		p.RequestRetention = 0.9
	}
	if p.RequestRetention <= 0 || p.RequestRetention >= 1 {
		return Parameters{}, fmt.Errorf("request retention must be in (0, 1), got %v", p.RequestRetention)
	}
	if p.MaximumIntervalDays == 0 {
		p.MaximumIntervalDays = 365
	}
	if p.MaximumIntervalDays < 1 {
		return Parameters{}, fmt.Errorf("maximum interval must be at least 1 day, got %d", p.MaximumIntervalDays)
	}
	if p.LearningStepMinutes == (StepMinutes{}) {
		p.LearningStepMinutes = DefaultStepMinutes
	}
	if p.LearningStepMinutes.Again < 1 || p.LearningStepMinutes.Hard < 1 ||
		p.LearningStepMinutes.Good < 1 || p.LearningStepMinutes.Easy < 1 {
		return Parameters{}, fmt.Errorf("learning step minutes must all be at least 1, got %+v", p.LearningStepMinutes)
	}
	if p.GraduationSteps == 0 {
		p.GraduationSteps = 2
	}
	if p.GraduationSteps < 1 {
		return Parameters{}, fmt.Errorf("graduation steps must be at least 1, got %d", p.GraduationSteps)
	}
	if p.FuzzFraction == 0 {
		p.FuzzFraction = 0.05
	}
	if p.FuzzFraction < 0 || p.FuzzFraction >= 1 {
		return Parameters{}, fmt.Errorf("fuzz fraction must be in [0, 1), got %v", p.FuzzFraction)
	}
	return p, nil
}
