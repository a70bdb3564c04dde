package fsrs

// State is the scheduling state of an item.
type State string

const (
	// StateNew marks an item that has never been reviewed.
	StateNew State = "new"
	// StateLearning marks an item in the short-term, minute-granularity regime.
	StateLearning State = "learning"
	// StateReview marks a graduated item scheduled in day granularity.
	StateReview State = "review"
	// StateRelearning marks a lapsed item that re-entered the short-term regime.
	StateRelearning State = "relearning"
)

// ShortTerm reports whether the state belongs to the minute-granularity regime.
func (s State) ShortTerm() bool {
	return s == StateNew || s == StateLearning || s == StateRelearning
}

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning:
		return true
	}
	return false
}
