// Package anim builds time-driven animation expressions.
//
// An animation is an expression that interpolates from a start value to an
// end value as a clock advances, optionally shaped by an easing function,
// together with a future that settles when the animation is over.
package anim

import (
	"github.com/tempolab/chrono/clock"
	"github.com/tempolab/chrono/exprs"
)

// An Easing shapes animation progress. It maps raw progress in [0, 1] to
// shaped progress; it should map 0 to 0 and 1 to 1.
type Easing func(float64) float64

// An Anim is the animated expression plus a Future that settles once the
// animation's delay and duration have fully elapsed on its clock.
type Anim struct {
	exprs.Expression

	Done *clock.Future
}

// A Builder configures an animation before building it.
type Builder struct {
	clock    *clock.Clock
	start    any
	end      any
	duration float64
	delay    float64
	easing   Easing
	clamp    bool
}

// New starts building an animation on the given clock, going from start to
// end over the given duration. Start and end may be expressions, slices,
// or bare numbers; numbers broadcast. The animation is clamped by default.
func New(c *clock.Clock, start, end any, duration float64) *Builder {
	return &Builder{
		clock:    c,
		start:    start,
		end:      end,
		duration: duration,
		clamp:    true,
	}
}

// WithDelay delays the start of the animation.
func (b *Builder) WithDelay(delay float64) *Builder {
	b.delay = delay
	return b
}

// WithEasing shapes the animation's progress with an easing function.
func (b *Builder) WithEasing(easing Easing) *Builder {
	b.easing = easing
	return b
}

// WithClamp controls clamping. An unclamped animation extrapolates beyond
// its endpoints before the start and after the end.
func (b *Builder) WithClamp(clamp bool) *Builder {
	b.clamp = clamp
	return b
}

// Build creates the animation. The progress starts counting at the clock's
// current time plus the delay.
func (b *Builder) Build() (*Anim, error) {
	t, err := exprs.NewProgress(b.clock, b.duration, b.delay, b.clamp)
	if err != nil {
		return nil, err
	}

	if b.easing != nil {
		t, err = exprs.NewElementwise("easing", b.easing, t)
		if err != nil {
			return nil, err
		}
	}

	exp, err := exprs.NewInterpolation(b.start, b.end, t)
	if err != nil {
		return nil, err
	}

	done, err := b.clock.Sleep(clock.VTime(b.delay + b.duration))
	if err != nil {
		return nil, err
	}

	return &Anim{Expression: exp, Done: done}, nil
}
