package exprs

// A Box is a named indirection to another expression. Holders of a Box keep
// seeing up-to-date values after the target is swapped with Set, which is
// the mechanism behind linking one property to another.
//
// A Box never folds away on Simplify, since its target may be retargeted at
// any time. A box reached again during its own evaluation panics with a
// marker that Eval reports as ErrCyclicReference.
type Box struct {
	name       string
	target     Expression
	length     int
	evaluating bool
}

// NewBox creates a Box evaluating to target. The target's length at this
// point fixes the box's length for good.
func NewBox(name string, target Expression) *Box {
	return &Box{name: name, target: target, length: target.Len()}
}

func (b *Box) Get() []float64 {
	if b.evaluating {
		panic(cyclicRef{name: b.name})
	}

	b.evaluating = true
	defer func() { b.evaluating = false }()

	return b.target.Get()
}

func (b *Box) Len() int {
	return b.length
}

func (b *Box) Children() []Expression {
	return []Expression{b.target}
}

func (b *Box) Simplify() Expression {
	return b
}

// Set retargets the box. The new target must match the box's length.
// Retargeting works even while the current target forms a cycle through
// the box, which is how such a cycle gets broken.
func (b *Box) Set(target Expression) error {
	if target.Len() != b.length {
		return lengthError(target.Len(), b.length)
	}

	b.target = target

	return nil
}

// Target returns the expression the box currently points at.
func (b *Box) Target() Expression {
	return b.target
}

func (b *Box) PrettyName() string {
	return b.name
}
