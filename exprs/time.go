package exprs

import "github.com/tempolab/chrono/clock"

// Time is a single-element expression that evaluates to the current time of
// a clock. It never folds, since the clock keeps moving.
type Time struct {
	tt clock.TimeTeller
}

// NewTime creates an expression tracking the given clock's time.
func NewTime(tt clock.TimeTeller) *Time {
	return &Time{tt: tt}
}

func (t *Time) Get() []float64 {
	return []float64{float64(t.tt.CurrentTime())}
}

func (t *Time) Len() int {
	return 1
}

func (t *Time) Children() []Expression {
	return nil
}

func (t *Time) Simplify() Expression {
	return t
}

func (t *Time) PrettyName() string {
	return "Time"
}
