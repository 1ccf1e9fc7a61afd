package exprs

// A Constant is an immutable expression. It is the fixed point of Simplify:
// every foldable expression eventually simplifies to one.
type Constant struct {
	value []float64
}

// NewConstant creates a Constant holding a copy of the given values. A
// Constant with no values is the empty expression.
func NewConstant(values ...float64) *Constant {
	return &Constant{value: append([]float64(nil), values...)}
}

func (c *Constant) Get() []float64 {
	return c.value
}

func (c *Constant) Len() int {
	return len(c.value)
}

func (c *Constant) Children() []Expression {
	return nil
}

func (c *Constant) Simplify() Expression {
	return c
}

func (c *Constant) PrettyName() string {
	return "Constant"
}
