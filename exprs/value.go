package exprs

// A Value is a mutable leaf expression. Its length is fixed at creation;
// Set swaps the stored numbers, Fix freezes them forever.
type Value struct {
	value []float64
	fixed bool
}

// NewValue creates a mutable leaf holding the given values.
func NewValue(values ...float64) *Value {
	return &Value{value: append([]float64(nil), values...)}
}

func (v *Value) Get() []float64 {
	return v.value
}

func (v *Value) Len() int {
	return len(v.value)
}

func (v *Value) Children() []Expression {
	return nil
}

// Set replaces the stored value. The new value must have the same length,
// and the Value must not have been fixed.
func (v *Value) Set(values ...float64) error {
	if v.fixed {
		return ErrFixed
	}

	if len(values) != len(v.value) {
		return lengthError(len(values), len(v.value))
	}

	v.value = append([]float64(nil), values...)

	return nil
}

// Fix freezes the current value. If values are given, they are applied
// first. After Fix, Set fails and Simplify folds to a Constant.
func (v *Value) Fix(values ...float64) error {
	if len(values) > 0 {
		if err := v.Set(values...); err != nil {
			return err
		}
	}

	v.fixed = true

	return nil
}

// Fixed reports whether the value has been frozen.
func (v *Value) Fixed() bool {
	return v.fixed
}

func (v *Value) Simplify() Expression {
	if v.fixed {
		return NewConstant(v.value...)
	}

	return v
}

func (v *Value) PrettyName() string {
	if v.fixed {
		return "Value (fixed)"
	}

	return "Value"
}
