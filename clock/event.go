package clock

import "sync/atomic"

// VTime is a point in, or a distance of, virtual time. Virtual time has no
// unit and no relation to the wall clock; it only moves when a Clock is
// explicitly advanced.
type VTime float64

// Event categories. Regular callbacks use CategoryNormal. CategoryEnd is
// reserved for the internal markers that Advance and Sleep plant at their
// target time, so that normal work due at exactly that time runs first.
const (
	CategoryNormal = 0
	CategoryEnd    = 1
)

// nextSeq is the process-wide sequence counter. It is only used as a FIFO
// tie-break between events scheduled for the same time and category; the
// values carry no other meaning.
var nextSeq uint64

// An Event is a callback registered to run at a fixed virtual time. Events
// are created by Clock.Schedule and are immutable afterwards.
type Event struct {
	ID       string
	time     VTime
	category int
	seq      uint64
	callback func()

	// marker is set on the internal event Advance plants at its target
	// time. Marker events are invisible to hooks.
	marker bool
}

func newEvent(t VTime, category int, callback func()) *Event {
	return &Event{
		ID:       GetIDGenerator().Generate(),
		time:     t,
		category: category,
		seq:      atomic.AddUint64(&nextSeq, 1),
		callback: callback,
	}
}

// Time returns the virtual time the event is scheduled for.
func (e *Event) Time() VTime {
	return e.time
}

// Category returns the ordering category of the event.
func (e *Event) Category() int {
	return e.category
}

// Seq returns the sequence number assigned at scheduling time.
func (e *Event) Seq() uint64 {
	return e.seq
}

// before reports whether e is ordered ahead of o. Events are totally
// ordered by (time, category, sequence), which makes the execution order of
// simultaneous events reproducible regardless of the queue implementation.
func (e *Event) before(o *Event) bool {
	if e.time != o.time {
		return e.time < o.time
	}

	if e.category != o.category {
		return e.category < o.category
	}

	return e.seq < o.seq
}
