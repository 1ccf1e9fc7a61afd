package exprs

// SafeDiv divides a by b with IEEE-754 semantics: a/0 is +Inf or -Inf
// according to the signs of a and b, and 0/0 or any NaN input is NaN.
func SafeDiv(a, b float64) float64 {
	return a / b
}

// A reduceKind describes one of the n-ary arithmetic folds. Kinds are
// compared by pointer identity when flattening nested folds.
type reduceKind struct {
	name        string
	op          func(a, b float64) float64
	commutative bool
	identity    float64
}

var (
	sumKind        = &reduceKind{"+", func(a, b float64) float64 { return a + b }, true, 0}
	differenceKind = &reduceKind{"-", func(a, b float64) float64 { return a - b }, false, 0}
	productKind    = &reduceKind{"*", func(a, b float64) float64 { return a * b }, true, 1}
	quotientKind   = &reduceKind{"/", SafeDiv, false, 1}
)

// A Reduce folds its operands element-wise with a binary operation, left to
// right. All operands have the same length.
type Reduce struct {
	kind     *reduceKind
	operands []Expression
}

// NewSum returns the element-wise sum of the operands. Operands may be
// expressions, slices, or bare numbers; numbers are broadcast to the common
// length. Constant parts are folded immediately.
func NewSum(operands ...any) (Expression, error) {
	return newReduce(sumKind, operands)
}

// NewDifference returns the first operand minus all following ones,
// element-wise.
func NewDifference(operands ...any) (Expression, error) {
	return newReduce(differenceKind, operands)
}

// NewProduct returns the element-wise product of the operands.
func NewProduct(operands ...any) (Expression, error) {
	return newReduce(productKind, operands)
}

// NewQuotient returns the first operand divided by all following ones,
// element-wise, with SafeDiv semantics.
func NewQuotient(operands ...any) (Expression, error) {
	return newReduce(quotientKind, operands)
}

func newReduce(kind *reduceKind, operands []any) (Expression, error) {
	if len(operands) == 0 {
		return nil, ErrEmptyExpression
	}

	exps, err := coerceAll(operands)
	if err != nil {
		return nil, err
	}

	return foldReduce(kind, exps), nil
}

func (r *Reduce) Get() []float64 {
	acc := append([]float64(nil), r.operands[0].Get()...)
	for _, oper := range r.operands[1:] {
		for i, v := range oper.Get() {
			acc[i] = r.kind.op(acc[i], v)
		}
	}

	return acc
}

func (r *Reduce) Len() int {
	return r.operands[0].Len()
}

func (r *Reduce) Children() []Expression {
	return r.operands
}

func (r *Reduce) Simplify() Expression {
	return foldReduce(r.kind, r.operands)
}

func (r *Reduce) PrettyName() string {
	return r.kind.name
}

// foldReduce rebuilds a fold over the given operands: operands are
// simplified, nested folds of the same kind are flattened, runs of
// constants are merged, and identity elements are dropped. For
// non-commutative kinds, flattening and merging only touch the leading
// operand, so evaluation order is preserved.
func foldReduce(kind *reduceKind, operands []Expression) Expression {
	size := operands[0].Len()
	flat := flattenReduce(kind, operands, nil)

	var out []Expression
	for _, oper := range flat {
		c, isConst := oper.(*Constant)

		merged := false
		if isConst && len(out) > 0 && (kind.commutative || len(out) == 1) {
			if prev, ok := out[len(out)-1].(*Constant); ok {
				values := make([]float64, size)
				for i := range values {
					values[i] = kind.op(prev.value[i], c.value[i])
				}
				out[len(out)-1] = &Constant{value: values}
				merged = true
			}
		}
		if !merged {
			out = append(out, oper)
		}

		// An identity-element tail contributes nothing unless it is the
		// sole operand of a non-commutative fold.
		if isConst && (kind.commutative || len(out) > 1) {
			if tail, ok := out[len(out)-1].(*Constant); ok &&
				allEqual(tail.value, kind.identity) {
				out = out[:len(out)-1]
			}
		}
	}

	if len(out) == 0 {
		return broadcast(kind.identity, size)
	}

	if len(out) == 1 {
		return out[0]
	}

	return &Reduce{kind: kind, operands: out}
}

func flattenReduce(kind *reduceKind, operands []Expression, into []Expression) []Expression {
	for i, oper := range operands {
		oper = oper.Simplify()
		if nested, ok := oper.(*Reduce); ok && nested.kind == kind &&
			(kind.commutative || i == 0) {
			into = flattenReduce(kind, nested.operands, into)
		} else {
			into = append(into, oper)
		}
	}

	return into
}
