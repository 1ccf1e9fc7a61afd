// Package properties implements animated property slots.
//
// A Slot is declared once per kind of object and stores one expression per
// owner instance, behind a per-owner box. Reading a slot gives a snapshot
// of the current expression; linking gives the box itself, which keeps
// tracking later assignments. Owners are unregistered explicitly with
// Release when they go away.
package properties

import (
	"log"

	"github.com/tempolab/chrono/exprs"
)

// A Slot is a named, fixed-arity property shared by many owner instances.
// Each owner gets its own binding, keyed by identity; owners without a
// binding read the slot's default value.
type Slot struct {
	name     string
	fallback *exprs.Constant
	bindings map[any]*exprs.Box
}

// NewSlot declares a property with a name and a default value. The default
// fixes the slot's arity; every later assignment must match it.
func NewSlot(name string, defaults ...float64) *Slot {
	if len(defaults) == 0 {
		log.Panicf("slot %s declared without a default value", name)
	}

	return &Slot{
		name:     name,
		fallback: exprs.NewConstant(defaults...),
		bindings: make(map[any]*exprs.Box),
	}
}

// Name returns the slot's name.
func (s *Slot) Name() string {
	return s.name
}

// Arity returns the number of elements of the slot's value.
func (s *Slot) Arity() int {
	return s.fallback.Len()
}

// Get returns a snapshot of the owner's current expression. The snapshot
// is unaffected by later Set calls on the same owner; use Link for an
// expression that tracks them.
func (s *Slot) Get(owner any) exprs.Expression {
	box, ok := s.bindings[owner]
	if !ok {
		return s.fallback
	}

	return box.Target().Simplify()
}

// Set binds the owner's slot to a value: a bare number, a []float64, or
// any Expression of the slot's arity. Numbers broadcast to the arity.
func (s *Slot) Set(owner any, value any) error {
	exp, err := s.coerce(value)
	if err != nil {
		return err
	}

	box, ok := s.bindings[owner]
	if !ok {
		s.bindings[owner] = exprs.NewBox(s.name, exp)
		return nil
	}

	return box.Set(exp)
}

// Link returns the owner's box itself. Unlike a Get snapshot, the returned
// expression keeps tracking every later Set on this owner and slot.
func (s *Slot) Link(owner any) exprs.Expression {
	box, ok := s.bindings[owner]
	if !ok {
		box = exprs.NewBox(s.name, s.fallback)
		s.bindings[owner] = box
	}

	return box
}

// Release drops the owner's binding, so the slot no longer keeps the owner
// or its expression alive. Reading the slot afterwards gives the default
// again.
func (s *Slot) Release(owner any) {
	delete(s.bindings, owner)
}

// Bound reports whether the owner currently has a binding.
func (s *Slot) Bound(owner any) bool {
	_, ok := s.bindings[owner]
	return ok
}

func (s *Slot) coerce(value any) (exprs.Expression, error) {
	switch v := value.(type) {
	case float64:
		return s.broadcast(v), nil
	case int:
		return s.broadcast(float64(v)), nil
	default:
		exp, err := exprs.Coerce(value)
		if err != nil {
			return nil, err
		}
		if exp.Len() != s.Arity() {
			return nil, exprs.ErrLengthMismatch
		}
		return exp, nil
	}
}

func (s *Slot) broadcast(v float64) exprs.Expression {
	values := make([]float64, s.Arity())
	for i := range values {
		values[i] = v
	}

	return exprs.NewConstant(values...)
}
