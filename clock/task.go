package clock

// A Routine is a cooperative unit of work driven by a clock. It runs until
// it returns, suspending at each co.Sleep or co.Wait call; the clock
// resumes it when the waited-for time arrives or the awaited Future
// settles.
type Routine func(co *Coroutine) (any, error)

// taskRequest travels from the routine's goroutine to the scheduler.
type taskRequest struct {
	delay VTime
	wait  *Future

	done   bool
	result any
	err    error
}

// taskGrant travels from the scheduler back into the routine.
type taskGrant struct {
	value any
	err   error
}

// A Coroutine is the suspension handle passed to a Routine. Its methods may
// only be called from inside that routine.
type Coroutine struct {
	clock    *Clock
	requests chan taskRequest
	grants   chan taskGrant
}

// Sleep suspends the routine for delay time units. A scheduling failure
// (negative delay) is returned to the routine instead of aborting it.
func (co *Coroutine) Sleep(delay VTime) error {
	co.requests <- taskRequest{delay: delay}
	g := <-co.grants
	return g.err
}

// Wait suspends the routine until f settles and returns its result. A
// failed Future surfaces as the error return; a cancelled one surfaces as
// ErrCancelled. The routine may recover from either and keep running.
func (co *Coroutine) Wait(f *Future) (any, error) {
	co.requests <- taskRequest{wait: f}
	g := <-co.grants
	return g.value, g.err
}

// Clock returns the clock driving this routine.
func (co *Coroutine) Clock() *Clock {
	return co.clock
}

// Task starts a cooperative routine on this clock and returns a Future for
// its eventual return value. The routine takes its first step at the next
// advance instant; after that it only makes progress when the clock reaches
// the times or futures it waits on, interleaving with other tasks in the
// deterministic order of their wait events.
//
// The routine runs on its own goroutine, but in strict hand-off with the
// scheduler: at no point do a routine and other clock work run at the same
// time. A routine suspended on a clock that is never advanced again stays
// parked for the life of the process.
//
// An error returned by the routine settles the Future as failed; it is not
// propagated to the caller of Advance.
func (c *Clock) Task(r Routine) *Future {
	result := NewFuture()
	co := &Coroutine{
		clock:    c,
		requests: make(chan taskRequest),
		grants:   make(chan taskGrant),
	}

	started := false
	step := func(g taskGrant) {}
	step = func(g taskGrant) {
		if !started {
			started = true
			go func() {
				v, err := r(co)
				co.requests <- taskRequest{done: true, result: v, err: err}
			}()
		} else {
			co.grants <- g
		}

		req := <-co.requests
		switch {
		case req.done:
			// The result Future may have been cancelled while the
			// routine was suspended; the routine's outcome is then
			// dropped.
			if req.err != nil {
				_ = result.SetError(req.err)
			} else {
				_ = result.SetResult(req.result)
			}
		case req.wait != nil:
			wf := c.WaitFor(req.wait)
			wf.OnDone(func(f *Future) {
				v, err := f.Result()
				step(taskGrant{value: v, err: err})
			})
		default:
			f, err := c.sleep(req.delay, CategoryNormal)
			if err != nil {
				step(taskGrant{err: err})
				return
			}
			f.OnDone(func(*Future) { step(taskGrant{}) })
		}
	}

	// A zero delay can never fail to schedule.
	_ = c.schedule(0, CategoryNormal, func() { step(taskGrant{}) })

	return result
}
