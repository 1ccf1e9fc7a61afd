package exprs

import (
	"fmt"
	"math"
)

// End marks "through the last element" in slice and replace bounds, so
// callers do not have to know the source length.
const End = math.MaxInt

// A Slice is a contiguous sub-range of another expression.
type Slice struct {
	source Expression
	start  int
	stop   int
}

// NewSlice returns the [start:stop) sub-range of source. Stop may be End.
// A full-range slice returns the source itself; an empty range returns the
// empty constant; slices of constants, slices, and concatenations simplify
// structurally.
func NewSlice(source Expression, start, stop int) (Expression, error) {
	source = source.Simplify()

	n := source.Len()
	if stop == End {
		stop = n
	}
	if start < 0 || stop < start || stop > n {
		return nil, fmt.Errorf("%w: [%d:%d] of %d elements",
			ErrIndexOutOfRange, start, stop, n)
	}

	return foldSlice(source, start, stop), nil
}

func foldSlice(source Expression, start, stop int) Expression {
	if start == stop {
		return NewConstant()
	}

	if start == 0 && stop == source.Len() {
		return source
	}

	switch src := source.(type) {
	case *Constant:
		return &Constant{value: src.value[start:stop]}
	case *Slice:
		return foldSlice(src.source, src.start+start, src.start+stop)
	case *Concat:
		return sliceConcat(src, start, stop)
	}

	return &Slice{source: source, start: start, stop: stop}
}

// sliceConcat pushes a slice down into a concatenation, keeping only the
// parts the range overlaps.
func sliceConcat(src *Concat, start, stop int) Expression {
	var parts []Expression
	for _, part := range src.parts {
		n := part.Len()
		if stop <= 0 {
			break
		}
		if start < n {
			s, e := start, stop
			if s < 0 {
				s = 0
			}
			if e > n {
				e = n
			}
			parts = append(parts, foldSlice(part, s, e))
		}
		start -= n
		stop -= n
	}

	return foldConcat(parts)
}

func (s *Slice) Get() []float64 {
	return s.source.Get()[s.start:s.stop]
}

func (s *Slice) Len() int {
	return s.stop - s.start
}

func (s *Slice) Children() []Expression {
	return []Expression{s.source}
}

func (s *Slice) Simplify() Expression {
	return foldSlice(s.source.Simplify(), s.start, s.stop)
}

func (s *Slice) PrettyName() string {
	return fmt.Sprintf("[%d:%d]", s.start, s.stop)
}
