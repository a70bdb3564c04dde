// Package progress maintains per-collection learning counters derived from
// the scheduling records: mastery counts, streaks, accuracy and daily
// limits.
package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/fsrs"
)

// DefaultMasteryThresholdDays is the stability above which a graduated item
// counts as mastered.
const DefaultMasteryThresholdDays = 21.0

// Mastery is the display projection of an item's scheduling state. Every
// consumer derives it through MasteryOf so the counts below always agree
// with what the UI shows.
type Mastery string

const (
	MasteryNew      Mastery = "new"
	MasteryLearning Mastery = "learning"
	MasteryMastered Mastery = "mastered"
)

// MasteryOf projects a record's state and stability onto a mastery level.
func MasteryOf(state fsrs.State, stability, thresholdDays float64) Mastery {
	switch {
	case state == fsrs.StateNew:
		return MasteryNew
	case state == fsrs.StateReview && stability > thresholdDays:
		return MasteryMastered
	default:
		return MasteryLearning
	}
}

// Aggregate is the per-learner, per-collection progress snapshot. Counts are
// recomputable from scratch from the record pool; the streak and daily
// counters advance review by review.
type Aggregate struct {
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	CollectionID uuid.UUID `db:"collection_id" json:"collection_id"`

	MasteredCount   int     `db:"mastered_count" json:"mastered_count"`
	LearningCount   int     `db:"learning_count" json:"learning_count"`
	NewCount        int     `db:"new_count" json:"new_count"`
	StreakDays      int     `db:"streak_days" json:"streak_days"`
	AccuracyPercent float64 `db:"accuracy_percent" json:"accuracy_percent"`

	ReviewsToday   int        `db:"reviews_today" json:"reviews_today"`
	NewWordsToday  int        `db:"new_words_today" json:"new_words_today"`
	LastReviewDate *time.Time `db:"last_review_date" json:"last_review_date,omitempty"`

	DailyNewLimit    int `db:"daily_new_limit" json:"daily_new_limit"`
	DailyReviewLimit int `db:"daily_review_limit" json:"daily_review_limit"`
}

// Aggregator derives aggregates from record pools.
type Aggregator struct {
	thresholdDays float64
}

// NewAggregator creates an Aggregator. A non-positive threshold selects the
// default.
func NewAggregator(masteryThresholdDays float64) *Aggregator {
	if masteryThresholdDays <= 0 {
		masteryThresholdDays = DefaultMasteryThresholdDays
	}
	return &Aggregator{thresholdDays: masteryThresholdDays}
}

// MasteryThresholdDays returns the configured mastery threshold.
func (a *Aggregator) MasteryThresholdDays() float64 {
	return a.thresholdDays
}

// Recompute rebuilds the derived counters of agg from the full record pool
// of the collection. It is idempotent: the result depends only on the final
// pool state, never on the order reviews were applied in.
func (a *Aggregator) Recompute(agg *Aggregate, pool []fsrs.Record, totalItems int) {
	agg.MasteredCount = 0
	agg.LearningCount = 0

	totalReviews := 0
	correctReviews := 0
	for _, rec := range pool {
		switch MasteryOf(rec.State, rec.Stability, a.thresholdDays) {
		case MasteryMastered:
			agg.MasteredCount++
		case MasteryLearning:
			agg.LearningCount++
		}
		totalReviews += rec.TotalReviews
		correctReviews += rec.CorrectReviews
	}

	agg.NewCount = totalItems - len(pool)
	if agg.NewCount < 0 {
		agg.NewCount = 0
	}

	if totalReviews == 0 {
		agg.AccuracyPercent = 0
	} else {
		agg.AccuracyPercent = math.Round(float64(correctReviews)/float64(totalReviews)*1000) / 10
	}
}

// RecordReview advances the streak and daily counters for one review at the
// given time. The first review of a calendar day extends the streak when
// yesterday was the last study day and restarts it otherwise; further
// reviews on the same day only bump the daily counters.
func (a *Aggregator) RecordReview(agg *Aggregate, now time.Time, isNewItem bool) {
	today := dateOf(now)
	if agg.LastReviewDate == nil || !sameDate(*agg.LastReviewDate, today) {
		if agg.LastReviewDate != nil && sameDate(agg.LastReviewDate.AddDate(0, 0, 1), today) {
			agg.StreakDays++
		} else {
			agg.StreakDays = 1
		}
		agg.ReviewsToday = 0
		agg.NewWordsToday = 0
	}

	agg.ReviewsToday++
	if isNewItem {
		agg.NewWordsToday++
	}
	agg.LastReviewDate = &today
}

// RolloverIfStale resets the daily counters when the aggregate was last
// touched on an earlier date. The streak is left alone; it only changes when
// a review happens.
func (a *Aggregator) RolloverIfStale(agg *Aggregate, now time.Time) {
	if agg.LastReviewDate == nil || sameDate(*agg.LastReviewDate, dateOf(now)) {
		return
	}
	agg.ReviewsToday = 0
	agg.NewWordsToday = 0
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
