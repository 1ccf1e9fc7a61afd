// Package exprs implements lazy numeric expressions.
//
// An Expression is a fixed-length vector of float64 values that is
// recomputed on every read. Expressions are composed from mutable leaves
// (Value, Box), clock-driven inputs (Time, Progress), and arithmetic or
// structural combinators. Composition constructors fold constant parts
// eagerly, and Simplify recomputes that folding after leaves have been
// fixed or time has moved on, so long-lived expression graphs shrink
// towards plain constants over time.
package exprs

import "fmt"

// An Expression is a dynamic vector of numbers.
//
// Get returns the current value. It must be free of side effects and must
// always return a slice of exactly Len() elements; callers must not modify
// the returned slice. Children exposes the component expressions for
// traversal and debugging. Simplify returns an expression that evaluates to
// the same value now and at any later time, possibly a *Constant; further
// simplification of its result never changes the evaluated value.
type Expression interface {
	Get() []float64
	Len() int
	Children() []Expression
	Simplify() Expression
}

// cyclicRef is thrown by Box.Get when it is re-entered during its own
// evaluation. Eval translates it into ErrCyclicReference.
type cyclicRef struct {
	name string
}

// Eval returns the current value of e. A cyclic reference anywhere in the
// graph is reported as ErrCyclicReference instead of a panic.
func Eval(e Expression) (value []float64, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		c, ok := r.(cyclicRef)
		if !ok {
			panic(r)
		}

		err = fmt.Errorf("%w: through box %q", ErrCyclicReference, c.name)
	}()

	return e.Get(), nil
}

// Scalar returns the value of a single-element expression.
func Scalar(e Expression) (float64, error) {
	if e.Len() != 1 {
		return 0, fmt.Errorf("%w: got %d elements", ErrScalarRequired, e.Len())
	}

	return e.Get()[0], nil
}

// Must unwraps a constructor result, panicking on error. It is intended for
// expressions built from inputs already known to be well formed.
func Must(e Expression, err error) Expression {
	if err != nil {
		panic(err)
	}

	return e
}

// Coerce converts a value into an Expression. Accepted types are
// Expression, float64, int, and []float64; a bare number becomes a
// single-element constant. Expressions are simplified on the way through.
func Coerce(value any) (Expression, error) {
	return coerce(value, -1, false)
}

// coerce converts value into an Expression of the wanted size. size < 0
// means any size. Bare numbers are broadcast to the wanted size; sized
// values are checked against it only when strict is set.
func coerce(value any, size int, strict bool) (Expression, error) {
	switch v := value.(type) {
	case Expression:
		if strict && size >= 0 && v.Len() != size {
			return nil, lengthError(v.Len(), size)
		}
		return v.Simplify(), nil
	case []float64:
		if strict && size >= 0 && len(v) != size {
			return nil, lengthError(len(v), size)
		}
		return NewConstant(v...), nil
	case float64:
		return broadcast(v, size), nil
	case int:
		return broadcast(float64(v), size), nil
	default:
		return nil, fmt.Errorf("cannot use %T as an expression", value)
	}
}

func broadcast(v float64, size int) *Constant {
	if size < 0 {
		size = 1
	}

	values := make([]float64, size)
	for i := range values {
		values[i] = v
	}

	return &Constant{value: values}
}

// coerceAll converts a mixed list of operands into expressions of one
// common size. The size is taken from the first sized operand; if all
// operands are bare numbers, the size is 1.
func coerceAll(operands []any) ([]Expression, error) {
	size := -1

	for _, op := range operands {
		switch v := op.(type) {
		case Expression:
			size = v.Len()
		case []float64:
			size = len(v)
		}
		if size >= 0 {
			break
		}
	}

	out := make([]Expression, len(operands))
	for i, op := range operands {
		e, err := coerce(op, size, true)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}

	return out, nil
}

func lengthError(got, want int) error {
	return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, got, want)
}

func allEqual(values []float64, v float64) bool {
	for _, x := range values {
		if x != v {
			return false
		}
	}

	return true
}
