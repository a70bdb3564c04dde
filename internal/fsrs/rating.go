// Package fsrs implements the spaced repetition scheduling engine: a numeric
// memory model (difficulty, stability, retrievability) combined with a
// learning-phase state machine that produces the next due time for an item
// after every review.
package fsrs

import "fmt"

// Rating is the learner's self-assessment of a recall attempt.
type Rating int

const (
	Again Rating = iota + 1 // forgotten
	Hard
	Good
	Easy
)

// Valid reports whether the rating is one of Again, Hard, Good or Easy.
func (r Rating) Valid() bool {
	return r >= Again && r <= Easy
}

// Success reports whether the rating counts as a successful recall.
func (r Rating) Success() bool {
	return r >= Hard && r <= Easy
}

func (r Rating) String() string {
	switch r {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	default:
		return fmt.Sprintf("rating(%d)", int(r))
	}
}

// Ratings lists all valid ratings in ascending order.
func Ratings() []Rating {
	return []Rating{Again, Hard, Good, Easy}
}
