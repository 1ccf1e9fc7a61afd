package clock

type futureState int

const (
	statePending futureState = iota
	stateSucceeded
	stateFailed
	stateCancelled
)

// A Future is a single-assignment placeholder for a value that is not yet
// available. It transitions exactly once from pending to succeeded, failed,
// or cancelled, and runs callbacks attached with OnDone when it does.
//
// A Future returned by Clock.WaitFor or Clock.Sleep is bound to a clock:
// its state mirrors the original Future, but its callbacks are dispatched
// through that clock's scheduler, so virtual time does not move between a
// completion and the callbacks observing it.
type Future struct {
	state     futureState
	value     any
	err       error
	callbacks []func(*Future)

	// Set for clock-bound wrappers.
	clock    *Clock
	category int
	wrapped  *Future
}

// NewFuture creates a pending, unbound Future. Callbacks on an unbound
// Future run synchronously at the moment it settles.
func NewFuture() *Future {
	return &Future{}
}

// Done reports whether the Future has settled.
func (f *Future) Done() bool {
	if f.wrapped != nil {
		return f.wrapped.Done()
	}

	return f.state != statePending
}

// Cancelled reports whether the Future settled by cancellation.
func (f *Future) Cancelled() bool {
	if f.wrapped != nil {
		return f.wrapped.Cancelled()
	}

	return f.state == stateCancelled
}

// Result returns the settled value, the settled error, or ErrCancelled.
// Calling Result on a pending Future panics; check Done first.
func (f *Future) Result() (any, error) {
	if f.wrapped != nil {
		return f.wrapped.Result()
	}

	switch f.state {
	case stateSucceeded:
		return f.value, nil
	case stateFailed:
		return nil, f.err
	case stateCancelled:
		return nil, ErrCancelled
	}

	panic("result of a pending future")
}

// Err returns nil for a succeeded Future, the failure error, ErrCancelled
// for a cancelled one, or nil while still pending.
func (f *Future) Err() error {
	if f.wrapped != nil {
		return f.wrapped.Err()
	}

	switch f.state {
	case stateFailed:
		return f.err
	case stateCancelled:
		return ErrCancelled
	}

	return nil
}

// SetResult settles the Future with a value.
func (f *Future) SetResult(v any) error {
	if f.wrapped != nil {
		return f.wrapped.SetResult(v)
	}

	if f.state != statePending {
		return ErrFutureSettled
	}

	f.state = stateSucceeded
	f.value = v
	f.settle()

	return nil
}

// SetError settles the Future with an error.
func (f *Future) SetError(err error) error {
	if f.wrapped != nil {
		return f.wrapped.SetError(err)
	}

	if f.state != statePending {
		return ErrFutureSettled
	}

	f.state = stateFailed
	f.err = err
	f.settle()

	return nil
}

// Cancel settles the Future as cancelled. Cancellation is cooperative:
// callbacks still run, and code holding the Future observes the state.
func (f *Future) Cancel() error {
	if f.wrapped != nil {
		return f.wrapped.Cancel()
	}

	if f.state != statePending {
		return ErrFutureSettled
	}

	f.state = stateCancelled
	f.settle()

	return nil
}

// OnDone registers fn to run when the Future settles. If the Future has
// already settled, fn is dispatched right away. On a clock-bound Future the
// dispatch always goes through the clock's scheduler at zero delay.
func (f *Future) OnDone(fn func(*Future)) {
	if f.wrapped != nil {
		outer := f
		f.wrapped.OnDone(func(*Future) {
			// A zero delay can never fail to schedule.
			_ = f.clock.schedule(0, f.category, func() { fn(outer) })
		})

		return
	}

	if f.state != statePending {
		fn(f)
		return
	}

	f.callbacks = append(f.callbacks, fn)
}

func (f *Future) settle() {
	callbacks := f.callbacks
	f.callbacks = nil
	for _, cb := range callbacks {
		cb(f)
	}
}
