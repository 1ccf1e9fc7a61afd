package exprs

import "fmt"

// An Interpolation is the weighted average of two expressions: start when
// t is 0, end when t is 1. The coefficient is not limited to [0, 1], so
// extrapolation is possible.
type Interpolation struct {
	start Expression
	end   Expression
	t     Expression
}

// NewInterpolation blends start and end by the scalar coefficient t. Start
// and end are coerced to one common length. A constant t of exactly 0 or 1
// folds to the corresponding endpoint; equal constant endpoints fold to a
// single constant.
func NewInterpolation(start, end, t any) (Expression, error) {
	ends, err := coerceAll([]any{start, end})
	if err != nil {
		return nil, err
	}

	tExp, err := coerce(t, 1, false)
	if err != nil {
		return nil, err
	}
	if tExp.Len() != 1 {
		return nil, fmt.Errorf("%w: interpolation coefficient has %d elements",
			ErrScalarRequired, tExp.Len())
	}

	return foldInterpolation(ends[0], ends[1], tExp), nil
}

func foldInterpolation(start, end, t Expression) Expression {
	start = start.Simplify()
	end = end.Simplify()
	t = t.Simplify()

	if c, ok := t.(*Constant); ok {
		switch c.value[0] {
		case 0:
			return start
		case 1:
			return end
		}
	}

	if cs, ok := start.(*Constant); ok {
		if ce, ok := end.(*Constant); ok && sameValues(cs.value, ce.value) {
			return cs
		}
	}

	return &Interpolation{start: start, end: end, t: t}
}

func (ip *Interpolation) Get() []float64 {
	t := ip.t.Get()[0]
	nt := 1 - t

	a := ip.start.Get()
	b := ip.end.Get()
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i]*nt + b[i]*t
	}

	return out
}

func (ip *Interpolation) Len() int {
	return ip.start.Len()
}

// Children wraps the three inputs in named boxes so that a dump reads as
// start/end/t rather than three anonymous sub-trees.
func (ip *Interpolation) Children() []Expression {
	return []Expression{
		&Box{name: "start", target: ip.start},
		&Box{name: "end", target: ip.end},
		&Box{name: "t", target: ip.t},
	}
}

func (ip *Interpolation) Simplify() Expression {
	return foldInterpolation(ip.start, ip.end, ip.t)
}

func (ip *Interpolation) PrettyName() string {
	return "Interpolation"
}

func sameValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
