package exprs

// A Concat is the concatenation of several expressions, usually the result
// of Replace.
type Concat struct {
	parts  []Expression
	length int
}

// NewConcat concatenates the given parts into one expression. Parts may be
// expressions, slices, or bare numbers. Nested concatenations flatten,
// adjacent constants fuse, and adjacent slices of one source with touching
// ranges fuse back into a single slice. With no elements at all, the empty
// constant is returned.
func NewConcat(parts ...any) (Expression, error) {
	exps := make([]Expression, 0, len(parts))
	for _, part := range parts {
		e, err := coerce(part, -1, false)
		if err != nil {
			return nil, err
		}
		exps = append(exps, e)
	}

	return foldConcat(exps), nil
}

func foldConcat(parts []Expression) Expression {
	flat := flattenConcat(parts, nil)

	var out []Expression
	for _, part := range flat {
		if len(out) == 0 {
			out = append(out, part)
			continue
		}

		prev := out[len(out)-1]

		if c, ok := part.(*Constant); ok {
			if pc, ok := prev.(*Constant); ok {
				values := append(append([]float64(nil), pc.value...), c.value...)
				out[len(out)-1] = &Constant{value: values}
				continue
			}
		}

		if s, ok := part.(*Slice); ok {
			if ps, ok := prev.(*Slice); ok &&
				ps.source == s.source && ps.stop == s.start {
				out[len(out)-1] = foldSlice(s.source, ps.start, s.stop)
				continue
			}
		}

		out = append(out, part)
	}

	if len(out) == 0 {
		return NewConstant()
	}

	if len(out) == 1 {
		return out[0]
	}

	length := 0
	for _, part := range out {
		length += part.Len()
	}

	return &Concat{parts: out, length: length}
}

func flattenConcat(parts []Expression, into []Expression) []Expression {
	for _, part := range parts {
		part = part.Simplify()
		if part.Len() == 0 {
			continue
		}
		if nested, ok := part.(*Concat); ok {
			into = flattenConcat(nested.parts, into)
		} else {
			into = append(into, part)
		}
	}

	return into
}

func (c *Concat) Get() []float64 {
	out := make([]float64, 0, c.length)
	for _, part := range c.parts {
		out = append(out, part.Get()...)
	}

	return out
}

func (c *Concat) Len() int {
	return c.length
}

func (c *Concat) Children() []Expression {
	return c.parts
}

func (c *Concat) Simplify() Expression {
	return foldConcat(c.parts)
}

func (c *Concat) PrettyName() string {
	return "Concat"
}
