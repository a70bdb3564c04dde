package fsrs

import "errors"

var (
	// ErrInvalidRating is returned when a rating outside Again..Easy is passed
	// to the scheduler. Ratings are never silently clamped.
	ErrInvalidRating = errors.New("fsrs: invalid rating")

	// ErrMalformedRecord is returned when a record carries values outside the
	// model's domain, such as a negative stability or difficulty.
	ErrMalformedRecord = errors.New("fsrs: malformed scheduling record")
)
