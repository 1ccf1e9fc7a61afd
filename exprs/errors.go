package exprs

import "errors"

var (
	// ErrLengthMismatch is returned when two multi-element operands of
	// different lengths are combined, or a value of the wrong length is
	// assigned.
	ErrLengthMismatch = errors.New("mismatched vector length")

	// ErrEmptyExpression is returned when a replacement would leave an
	// expression with no elements at all.
	ErrEmptyExpression = errors.New("expression would be empty")

	// ErrInvalidDuration is returned for a negative progress duration, or a
	// zero duration without clamping.
	ErrInvalidDuration = errors.New("invalid progress duration")

	// ErrCyclicReference is reported by Eval when evaluation reaches a box
	// that is already being evaluated further up the same call.
	ErrCyclicReference = errors.New("cyclic expression reference")

	// ErrIndexOutOfRange is returned for slice or replace bounds that do not
	// fit the source expression.
	ErrIndexOutOfRange = errors.New("expression index out of range")

	// ErrFixed is returned by Value.Set after the value has been fixed.
	ErrFixed = errors.New("value has been fixed")

	// ErrScalarRequired is returned where a single-element expression is
	// required, such as the interpolation coefficient.
	ErrScalarRequired = errors.New("a single-element expression is required")
)
