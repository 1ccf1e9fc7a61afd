package clock

import "errors"

var (
	// ErrInvalidSchedule is returned when a negative delay is given to
	// Schedule, Sleep, or Advance.
	ErrInvalidSchedule = errors.New("scheduling into the past")

	// ErrReentrantAdvance is returned when Advance is called on a clock
	// that is already advancing on the same call stack.
	ErrReentrantAdvance = errors.New("advance called recursively")

	// ErrFutureSettled is returned when a Future that has already settled
	// is assigned a result, an error, or cancelled again.
	ErrFutureSettled = errors.New("future already settled")

	// ErrCancelled reports that an awaited Future was cancelled.
	ErrCancelled = errors.New("future cancelled")
)
