// Package clock implements discrete virtual-time scheduling.
//
// A Clock keeps track of virtual time. Time never moves on its own; it only
// moves when Advance, AdvanceUntil, or Run is called, and it pauses exactly
// at the times where callbacks are scheduled so that every callback observes
// the precise time it asked for. Sub-clocks derive their time from a parent
// clock, scaled by a mutable speed factor, and their events interleave with
// the parent's in a single deterministic order.
package clock

import "fmt"

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// A Clock keeps track of virtual time and schedules events.
//
// All methods must be called from a single goroutine. The only concurrency
// a Clock participates in is the strict hand-off with task routines (see
// Task), which never run at the same time as the scheduler.
type Clock struct {
	HookableBase

	timeValue VTime
	events    EventQueue
	speed     float64
	advancing bool
	subclocks []*Clock
}

// NewClock creates a Clock at time 0 with speed 1.
func NewClock() *Clock {
	return NewClockWithQueue(NewEventQueue())
}

// NewClockWithQueue creates a Clock that stores pending events in the given
// queue. Any EventQueue implementation yields the same execution order, as
// events carry a total order of their own.
func NewClockWithQueue(q EventQueue) *Clock {
	return &Clock{
		events: q,
		speed:  1,
	}
}

// NewSubclock creates a clock whose time advances whenever the parent's
// does, scaled by speed. Events scheduled on the parent and on any of its
// sub-clocks run in a single consistent sequence.
func NewSubclock(parent *Clock, speed float64) *Clock {
	sub := NewClock()
	sub.speed = speed
	parent.subclocks = append(parent.subclocks, sub)
	return sub
}

// CurrentTime returns the clock's current virtual time.
func (c *Clock) CurrentTime() VTime {
	return c.timeValue
}

// Speed returns the clock's speed factor.
func (c *Clock) Speed() float64 {
	return c.speed
}

// SetSpeed changes the clock's speed factor. For a sub-clock, the new speed
// applies to parent advancement from this point on; time already accumulated
// is unaffected. A speed of 0 freezes a sub-clock: its events never fire.
func (c *Clock) SetSpeed(speed float64) {
	c.speed = speed
}

// PendingEvents returns the number of events waiting on this clock alone,
// not counting sub-clocks.
func (c *Clock) PendingEvents() int {
	return c.events.Len()
}

// Schedule registers fn to be called after delay time units.
func (c *Clock) Schedule(delay VTime, fn func()) error {
	return c.schedule(delay, CategoryNormal, fn)
}

func (c *Clock) schedule(delay VTime, category int, fn func()) error {
	_, err := c.push(delay, category, fn)
	return err
}

func (c *Clock) push(delay VTime, category int, fn func()) (*Event, error) {
	if delay < 0 {
		return nil, fmt.Errorf("%w: delay %v", ErrInvalidSchedule, delay)
	}

	evt := newEvent(c.timeValue+delay, category, fn)
	c.events.Push(evt)

	return evt, nil
}

// Sleep returns a Future that completes, with a nil payload, once the
// clock's time reaches now + delay. Completion is scheduled at CategoryEnd,
// so it settles after ordinary work due at the same instant.
func (c *Clock) Sleep(delay VTime) (*Future, error) {
	return c.sleep(delay, CategoryEnd)
}

func (c *Clock) sleep(delay VTime, category int) (*Future, error) {
	inner := NewFuture()
	err := c.schedule(delay, category, func() { _ = inner.SetResult(nil) })
	if err != nil {
		return nil, err
	}

	return c.bind(inner, category), nil
}

// WaitFor wraps a Future so that its callbacks are dispatched through this
// clock's scheduler at zero additional delay, instead of synchronously at
// the moment the original Future settles. A Future already bound to this
// clock is returned unchanged.
func (c *Clock) WaitFor(f *Future) *Future {
	return c.bind(f, CategoryNormal)
}

func (c *Clock) bind(f *Future, category int) *Future {
	if f.clock == c {
		return f
	}

	return &Future{clock: c, category: category, wrapped: f}
}

// Advance moves the clock's time forward by delay * speed, pausing at times
// where events are scheduled and running them. Advancing by a negative
// delay fails with ErrInvalidSchedule. Calling Advance from inside an event
// callback on the same clock fails with ErrReentrantAdvance.
//
// If a callback panics, the panic propagates to the caller of Advance and
// the clock's time reflects the progress made up to that callback.
func (c *Clock) Advance(delay VTime) error {
	if c.advancing {
		return ErrReentrantAdvance
	}

	if delay < 0 {
		return fmt.Errorf("%w: delay %v", ErrInvalidSchedule, delay)
	}

	inner := NewFuture()
	evt, err := c.push(delay*VTime(c.speed), CategoryEnd,
		func() { _ = inner.SetResult(nil) })
	if err != nil {
		return err
	}
	evt.marker = true

	return c.advanceLoop(c.bind(inner, CategoryEnd))
}

// AdvanceUntil advances the clock until the given Future settles, or until
// no events remain on this clock and all of its descendant sub-clocks.
func (c *Clock) AdvanceUntil(f *Future) error {
	if c.advancing {
		return ErrReentrantAdvance
	}

	return c.advanceLoop(c.bind(f, CategoryEnd))
}

// Run advances the clock until no events remain anywhere in its sub-clock
// subtree. With recurring events, Run may never return.
func (c *Clock) Run() error {
	if c.advancing {
		return ErrReentrantAdvance
	}

	return c.advanceLoop(NewFuture())
}

func (c *Clock) advanceLoop(done *Future) error {
	c.advancing = true
	defer func() { c.advancing = false }()

	for !done.Done() {
		p, ok := c.nextPending()
		if !ok {
			return nil
		}

		if p.remain > 0 {
			c.advanceBy(p.remain)
		}

		evt := p.owner.events.Pop()
		if evt != p.event {
			panic("event queue popped an event other than the earliest one")
		}

		// Snap exactly onto the event's time so that callbacks never
		// observe drift accumulated from incremental advancement.
		p.owner.timeValue = evt.time

		p.owner.runEvent(evt)
	}

	return nil
}

func (c *Clock) runEvent(evt *Event) {
	if evt.marker {
		evt.callback()
		return
	}

	ctx := HookCtx{
		Clock: c,
		Pos:   HookPosBeforeEvent,
		Event: evt,
	}
	c.InvokeHook(ctx)

	evt.callback()

	ctx.Pos = HookPosAfterEvent
	c.InvokeHook(ctx)
}

// pending identifies the earliest runnable event in a clock subtree. remain
// is expressed in the root clock's time units.
type pending struct {
	remain VTime
	event  *Event
	owner  *Clock
}

func (p pending) before(o pending) bool {
	if p.remain != o.remain {
		return p.remain < o.remain
	}

	if p.event.category != o.event.category {
		return p.event.category < o.event.category
	}

	return p.event.seq < o.event.seq
}

func (c *Clock) nextPending() (pending, bool) {
	var best pending
	found := false

	if c.events.Len() > 0 {
		evt := c.events.Peek()
		best = pending{remain: evt.time - c.timeValue, event: evt, owner: c}
		found = true
	}

	for _, sub := range c.subclocks {
		if sub.speed == 0 {
			// A frozen sub-clock never receives new time.
			continue
		}

		p, ok := sub.nextPending()
		if !ok {
			continue
		}

		p.remain /= VTime(sub.speed)
		if !found || p.before(best) {
			best = p
			found = true
		}
	}

	return best, found
}

func (c *Clock) advanceBy(dt VTime) {
	c.timeValue += dt
	for _, sub := range c.subclocks {
		sub.advanceBy(dt * VTime(sub.speed))
	}
}
