package exprs

import "fmt"

// Replace returns a new expression equal to e except that the [start:stop)
// range is replaced by value. Stop may be End. A bare number broadcasts to
// the replaced range's length; a sized value must match that length
// exactly, except for pure insertion (zero-length range) and deletion
// (empty value). Replacing everything with nothing fails with
// ErrEmptyExpression.
func Replace(e Expression, start, stop int, value any) (Expression, error) {
	n := e.Len()
	if stop == End {
		stop = n
	}
	if start < 0 || stop < start || stop > n {
		return nil, fmt.Errorf("%w: [%d:%d] of %d elements",
			ErrIndexOutOfRange, start, stop, n)
	}

	rng := stop - start
	repl, err := coerce(value, rng, false)
	if err != nil {
		return nil, err
	}
	if repl.Len() != rng && rng != 0 && repl.Len() != 0 {
		return nil, lengthError(repl.Len(), rng)
	}

	source := e.Simplify()
	prefix := foldSlice(source, 0, start)
	suffix := foldSlice(source, stop, n)

	out := foldConcat([]Expression{prefix, repl, suffix})
	if out.Len() == 0 {
		return nil, ErrEmptyExpression
	}

	return out, nil
}

// ReplaceIndex returns a new expression equal to e except at one element.
// The value may be a bare number or any single-element expression.
func ReplaceIndex(e Expression, index int, value any) (Expression, error) {
	if index < 0 || index >= e.Len() {
		return nil, fmt.Errorf("%w: %d of %d elements",
			ErrIndexOutOfRange, index, e.Len())
	}

	return Replace(e, index, index+1, value)
}
