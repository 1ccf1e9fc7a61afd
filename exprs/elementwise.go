package exprs

// An Elementwise applies a pure unary function to every element of one
// operand.
type Elementwise struct {
	name    string
	op      func(float64) float64
	operand Expression
}

// NewElementwise applies op element-wise to the operand. The name is used
// when dumping the expression tree. Constant operands fold immediately.
func NewElementwise(name string, op func(float64) float64, operand any) (Expression, error) {
	exp, err := coerce(operand, -1, false)
	if err != nil {
		return nil, err
	}

	return foldElementwise(name, op, exp), nil
}

// NewNeg returns the element-wise negation of the operand.
func NewNeg(operand any) (Expression, error) {
	return NewElementwise("Neg", func(x float64) float64 { return -x }, operand)
}

func foldElementwise(name string, op func(float64) float64, operand Expression) Expression {
	operand = operand.Simplify()
	if c, ok := operand.(*Constant); ok {
		values := make([]float64, len(c.value))
		for i, v := range c.value {
			values[i] = op(v)
		}
		return &Constant{value: values}
	}

	return &Elementwise{name: name, op: op, operand: operand}
}

func (e *Elementwise) Get() []float64 {
	in := e.operand.Get()
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = e.op(v)
	}

	return out
}

func (e *Elementwise) Len() int {
	return e.operand.Len()
}

func (e *Elementwise) Children() []Expression {
	return []Expression{e.operand}
}

func (e *Elementwise) Simplify() Expression {
	return foldElementwise(e.name, e.op, e.operand)
}

func (e *Elementwise) PrettyName() string {
	return e.name
}

// A Map applies a pure n-ary function element-wise across several operands
// of one common length.
type Map struct {
	name     string
	f        func(...float64) float64
	operands []Expression
}

// NewMap applies f element-wise across the operands. All operands are
// coerced to one common length; bare numbers broadcast. Constant operands
// fold immediately.
func NewMap(name string, f func(...float64) float64, operands ...any) (Expression, error) {
	if len(operands) == 0 {
		return nil, ErrEmptyExpression
	}

	exps, err := coerceAll(operands)
	if err != nil {
		return nil, err
	}

	return foldMap(name, f, exps), nil
}

func foldMap(name string, f func(...float64) float64, operands []Expression) Expression {
	allConst := true
	simplified := make([]Expression, len(operands))
	for i, oper := range operands {
		simplified[i] = oper.Simplify()
		if _, ok := simplified[i].(*Constant); !ok {
			allConst = false
		}
	}

	m := &Map{name: name, f: f, operands: simplified}
	if allConst {
		return &Constant{value: m.Get()}
	}

	return m
}

func (m *Map) Get() []float64 {
	size := m.operands[0].Len()
	columns := make([][]float64, len(m.operands))
	for i, oper := range m.operands {
		columns[i] = oper.Get()
	}

	out := make([]float64, size)
	args := make([]float64, len(m.operands))
	for i := range out {
		for j, col := range columns {
			args[j] = col[i]
		}
		out[i] = m.f(args...)
	}

	return out
}

func (m *Map) Len() int {
	return m.operands[0].Len()
}

func (m *Map) Children() []Expression {
	return m.operands
}

func (m *Map) Simplify() Expression {
	return foldMap(m.name, m.f, m.operands)
}

func (m *Map) PrettyName() string {
	return m.name
}
