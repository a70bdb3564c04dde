package fsrs

import "time"

// Record is the full scheduling state of one item for one learner. The
// scheduler consumes a Record and returns a complete replacement; it never
// produces partial patches.
type Record struct {
	State           State      `db:"state" json:"state"`
	Difficulty      float64    `db:"difficulty" json:"difficulty"`
	Stability       float64    `db:"stability" json:"stability"`
	ElapsedDays     int        `db:"elapsed_days" json:"elapsed_days"`
	ScheduledDays   int        `db:"scheduled_days" json:"scheduled_days"`
	Reps            int        `db:"reps" json:"reps"`
	Lapses          int        `db:"lapses" json:"lapses"`
	LearningStep    int        `db:"learning_step" json:"learning_step"`
	IsLearningPhase bool       `db:"is_learning_phase" json:"is_learning_phase"`
	TotalReviews    int        `db:"total_reviews" json:"total_reviews"`
	CorrectReviews  int        `db:"correct_reviews" json:"correct_reviews"`
	LastReviewAt    *time.Time `db:"last_review_at" json:"last_review_at,omitempty"`
	DueAt           time.Time  `db:"due_at" json:"due_at"`
}

// NewRecord returns the record of an item that has never been reviewed,
// due immediately.
func NewRecord(now time.Time) Record {
	return Record{
		State:           StateNew,
		IsLearningPhase: true,
		DueAt:           now,
	}
}

// Due reports whether the record is due at the given time.
func (r Record) Due(now time.Time) bool {
	return !r.DueAt.After(now)
}

// elapsedDays returns the whole days since the last review, zero for a first
// review.
func (r Record) elapsedDays(now time.Time) int {
	if r.LastReviewAt == nil {
		return 0
	}
	days := int(now.Sub(*r.LastReviewAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ReviewLog is the immutable audit entry produced by a single review: the
// rating together with a before/after snapshot of the scheduling state. The
// scheduler writes it once and never reads it back.
type ReviewLog struct {
	Rating     Rating    `db:"rating" json:"rating"`
	ReviewedAt time.Time `db:"reviewed_at" json:"reviewed_at"`

	StateBefore         State   `db:"state_before" json:"state_before"`
	StateAfter          State   `db:"state_after" json:"state_after"`
	DifficultyBefore    float64 `db:"difficulty_before" json:"difficulty_before"`
	DifficultyAfter     float64 `db:"difficulty_after" json:"difficulty_after"`
	StabilityBefore     float64 `db:"stability_before" json:"stability_before"`
	StabilityAfter      float64 `db:"stability_after" json:"stability_after"`
	ScheduledDaysBefore int     `db:"scheduled_days_before" json:"scheduled_days_before"`
	ScheduledDaysAfter  int     `db:"scheduled_days_after" json:"scheduled_days_after"`
	ElapsedDays         int     `db:"elapsed_days" json:"elapsed_days"`
}
