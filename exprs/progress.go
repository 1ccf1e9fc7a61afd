package exprs

import (
	"fmt"

	"github.com/tempolab/chrono/clock"
)

// A Progress is a single-element expression giving linear progress along a
// clock: 0 at its start time (creation time plus delay) and 1 once
// duration time units have passed. In between, the value follows the clock
// linearly.
//
// A clamped Progress stays at 0 before the start and at 1 after the end,
// and, because clock time never goes backwards, simplifies to Constant(1)
// once the end time has been reached. An unclamped Progress extrapolates
// without bound and never folds.
type Progress struct {
	tt       clock.TimeTeller
	start    float64
	duration float64
	clamp    bool
}

// NewProgress creates a Progress on the given clock. The duration must not
// be negative; a zero duration is only meaningful when clamped, where it
// degenerates to a step from 0 to 1 at the start time.
func NewProgress(tt clock.TimeTeller, duration, delay float64, clamp bool) (Expression, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	if duration == 0 && !clamp {
		return nil, fmt.Errorf("%w: zero duration requires clamping",
			ErrInvalidDuration)
	}

	return &Progress{
		tt:       tt,
		start:    float64(tt.CurrentTime()) + delay,
		duration: duration,
		clamp:    clamp,
	}, nil
}

func (p *Progress) Get() []float64 {
	now := float64(p.tt.CurrentTime())

	if p.duration == 0 {
		if now >= p.start {
			return []float64{1}
		}
		return []float64{0}
	}

	rv := (now - p.start) / p.duration
	if p.clamp {
		if rv <= 0 {
			return []float64{0}
		}
		if rv >= 1 {
			return []float64{1}
		}
	}

	return []float64{rv}
}

func (p *Progress) Len() int {
	return 1
}

func (p *Progress) Children() []Expression {
	return nil
}

func (p *Progress) Simplify() Expression {
	if p.clamp && float64(p.tt.CurrentTime()) >= p.start+p.duration {
		return NewConstant(1)
	}

	return p
}

func (p *Progress) PrettyName() string {
	return "Progress"
}
