package config

import (
	"fmt"

	"github.com/kioku-app/kioku/internal/fsrs"
)

// Parameters converts the scheduler section into engine parameters. An
// omitted weight vector selects the engine defaults.
func (c SchedulerConfig) Parameters() (fsrs.Parameters, error) {
	params := fsrs.Parameters{
		RequestRetention:    c.RequestRetention,
		MaximumIntervalDays: c.MaximumIntervalDays,
		LearningStepMinutes: fsrs.StepMinutes{
			Again: c.LearningStepMinutes.Again,
			Hard:  c.LearningStepMinutes.Hard,
			Good:  c.LearningStepMinutes.Good,
			Easy:  c.LearningStepMinutes.Easy,
		},
		GraduationSteps: c.GraduationSteps,
		FuzzFraction:    c.FuzzFraction,
	}
	if len(c.Weights) > 0 {
		if len(c.Weights) != len(fsrs.Weights{}) {
			return fsrs.Parameters{}, fmt.Errorf("scheduler weights must have %d entries, got %d", len(fsrs.Weights{}), len(c.Weights))
		}
		var w fsrs.Weights
		copy(w[:], c.Weights)
		params.Weights = &w
	}
	return params, nil
}
