package fsrs

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Scheduler turns a review event into the item's next scheduling record. It
// is a pure computation over its inputs; persistence belongs to the caller.
type Scheduler struct {
	model  model
	params Parameters
	rng    *rand.Rand
}

// NewScheduler creates a Scheduler, filling zero-valued parameters with
// defaults. The interval fuzz is seeded from the clock; use
// NewSchedulerWithRand for deterministic output.
func NewScheduler(params Parameters) (*Scheduler, error) {
	return NewSchedulerWithRand(params, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSchedulerWithRand creates a Scheduler with an injected randomness
// source for the interval fuzzer.
func NewSchedulerWithRand(params Parameters, rng *rand.Rand) (*Scheduler, error) {
	p, err := params.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler parameters: %w", err)
	}
	return &Scheduler{
		model: model{
			w:         *p.Weights,
			retention: p.RequestRetention,
			maxDays:   p.MaximumIntervalDays,
		},
		params: p,
		rng:    rng,
	}, nil
}

// Review applies one rating to a record at the given time and returns the
// complete next record together with the audit log entry. The input record
// is not mutated. Ratings outside Again..Easy return ErrInvalidRating;
// records with out-of-domain numbers return ErrMalformedRecord.
func (s *Scheduler) Review(rec Record, rating Rating, now time.Time) (Record, ReviewLog, error) {
	next, err := s.review(rec, rating, now, !s.params.DisableFuzz)
	if err != nil {
		return Record{}, ReviewLog{}, err
	}
	entry := ReviewLog{
		Rating:              rating,
		ReviewedAt:          now,
		StateBefore:         rec.State,
		StateAfter:          next.State,
		DifficultyBefore:    rec.Difficulty,
		DifficultyAfter:     next.Difficulty,
		StabilityBefore:     rec.Stability,
		StabilityAfter:      next.Stability,
		ScheduledDaysBefore: rec.ScheduledDays,
		ScheduledDaysAfter:  next.ScheduledDays,
		ElapsedDays:         next.ElapsedDays,
	}
	return next, entry, nil
}

// Restore replays review logs against a fresh record to rebuild its
// scheduling state, oldest log first.
func (s *Scheduler) Restore(rec Record, logs []ReviewLog) (Record, error) {
	for _, entry := range logs {
		next, _, err := s.Review(rec, entry.Rating, entry.ReviewedAt)
		if err != nil {
			return Record{}, fmt.Errorf("replay review at %s: %w", entry.ReviewedAt, err)
		}
		rec = next
	}
	return rec, nil
}

// Retrievability returns the probability that the item can be recalled at
// the given time. Unreviewed items have zero retrievability.
func (s *Scheduler) Retrievability(rec Record, now time.Time) float64 {
	if rec.LastReviewAt == nil {
		return 0
	}
	return s.model.retrievability(rec.elapsedDays(now), rec.Stability)
}

// PreviewAll returns, for each rating, a human-readable label of the delay a
// real Review call would schedule, without committing anything. Labels use
// minute and hour units in the short-term regime and day, week, month and
// year units in the review regime. Fuzzing is left out of the preview, so
// with fuzz enabled the committed interval may differ by the fuzz bound.
func (s *Scheduler) PreviewAll(rec Record, now time.Time) (map[Rating]string, error) {
	labels := make(map[Rating]string, 4)
	for _, rating := range Ratings() {
		next, err := s.review(rec, rating, now, false)
		if err != nil {
			return nil, err
		}
		labels[rating] = intervalLabel(next.DueAt.Sub(now))
	}
	return labels, nil
}

// review computes the next record. Fuzz is applied only when requested so
// that previews never consume randomness.
func (s *Scheduler) review(rec Record, rating Rating, now time.Time, fuzz bool) (Record, error) {
	if !rating.Valid() {
		return Record{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if err := validateRecord(rec); err != nil {
		return Record{}, err
	}

	next := rec
	next.ElapsedDays = rec.elapsedDays(now)

	first := rec.State == StateNew
	if first {
		next.Difficulty = s.model.initDifficulty(rating)
		next.Stability = s.model.initStability(rating)
	}

	if rec.IsLearningPhase || rec.State.ShortTerm() {
		s.reviewShortTerm(&next, rating, first, now, fuzz)
	} else {
		s.reviewLongTerm(&next, rating, now, fuzz)
	}

	next.TotalReviews++
	if rating == Again {
		next.Lapses++
	} else {
		next.Reps++
		next.CorrectReviews++
	}
	reviewedAt := now
	next.LastReviewAt = &reviewedAt

	if next.DueAt.Before(now) {
		// Safety net for the monotonic due date invariant.
		next.DueAt = now
	}
	return next, nil
}

// reviewShortTerm advances the minute-granularity state machine.
func (s *Scheduler) reviewShortTerm(next *Record, rating Rating, first bool, now time.Time, fuzz bool) {
	steps := s.params.LearningStepMinutes
	switch rating {
	case Again:
		// The in-flight stability penalty is an ad hoc constant, not part of
		// the closed-form model.
		if !first {
			next.Stability = math.Max(minStability, next.Stability*0.5)
		}
		next.LearningStep = 0
		s.stayInLearning(next, steps.Delay(Again), now)

	case Hard:
		// Hard repeats the current step without advancing it.
		s.stayInLearning(next, steps.Delay(Hard), now)

	case Good:
		next.LearningStep++
		if next.LearningStep >= s.params.GraduationSteps {
			s.graduate(next, now, fuzz)
			return
		}
		s.stayInLearning(next, steps.Delay(Good), now)

	case Easy:
		if !first {
			next.Stability = clampStability(next.Stability*1.5, float64(s.params.MaximumIntervalDays))
		}
		s.graduate(next, now, fuzz)
	}
}

// reviewLongTerm handles a graduated item in the day-granularity regime.
func (s *Scheduler) reviewLongTerm(next *Record, rating Rating, now time.Time, fuzz bool) {
	retr := s.model.retrievability(next.ElapsedDays, next.Stability)
	difficulty := next.Difficulty

	if rating == Again {
		next.Stability = s.model.nextStabilityOnFailure(difficulty, next.Stability, retr)
		next.Difficulty = s.model.nextDifficulty(difficulty, rating)
		next.State = StateRelearning
		next.IsLearningPhase = true
		next.LearningStep = 0
		next.ScheduledDays = 0
		next.DueAt = now.Add(s.params.LearningStepMinutes.Delay(Again))
		return
	}

	next.Stability = s.model.nextStabilityOnSuccess(difficulty, next.Stability, retr, rating)
	next.Difficulty = s.model.nextDifficulty(difficulty, rating)
	days := s.model.nextInterval(next.Stability)
	if fuzz {
		days = s.fuzzDays(days)
	}
	next.ScheduledDays = days
	next.DueAt = now.Add(time.Duration(days) * 24 * time.Hour)
}

// stayInLearning keeps the item in the short-term regime with the given delay.
func (s *Scheduler) stayInLearning(next *Record, delay time.Duration, now time.Time) {
	if next.State == StateNew || next.State == StateLearning {
		next.State = StateLearning
	}
	next.IsLearningPhase = true
	next.ScheduledDays = 0
	next.DueAt = now.Add(delay)
}

// graduate moves the item into the day-granularity review regime.
func (s *Scheduler) graduate(next *Record, now time.Time, fuzz bool) {
	next.State = StateReview
	next.IsLearningPhase = false
	next.LearningStep = 0
	days := s.model.nextInterval(next.Stability)
	if fuzz {
		days = s.fuzzDays(days)
	}
	next.ScheduledDays = days
	next.DueAt = now.Add(time.Duration(days) * 24 * time.Hour)
}

func (s *Scheduler) fuzzDays(days int) int {
	fuzzed := applyFuzz(days, s.params.FuzzFraction, s.rng)
	if fuzzed > s.params.MaximumIntervalDays {
		return s.params.MaximumIntervalDays
	}
	return fuzzed
}

func validateRecord(rec Record) error {
	if !rec.State.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrMalformedRecord, rec.State)
	}
	if rec.Difficulty < 0 || rec.Stability < 0 {
		return fmt.Errorf("%w: negative difficulty or stability", ErrMalformedRecord)
	}
	if math.IsNaN(rec.Difficulty) || math.IsNaN(rec.Stability) {
		return fmt.Errorf("%w: difficulty or stability is NaN", ErrMalformedRecord)
	}
	if rec.LearningStep < 0 {
		return fmt.Errorf("%w: negative learning step", ErrMalformedRecord)
	}
	return nil
}

// intervalLabel formats a scheduling delay the way the study UI shows it:
// minutes and hours inside the learning phase, days and coarser units after
// graduation.
func intervalLabel(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", int(math.Round(float64(days)/7)))
	case days < 365:
		return fmt.Sprintf("%dmo", int(math.Round(float64(days)/30)))
	default:
		return fmt.Sprintf("%.1fy", float64(days)/365)
	}
}
