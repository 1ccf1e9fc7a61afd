package recording

import "github.com/tempolab/chrono/clock"

// An EventTrace is one row of the event trace table: the event that ran,
// when it ran, and its ordering within that instant.
type EventTrace struct {
	EventID  string
	Time     float64
	Category int
	Seq      int64
}

// An EventTraceHook records every event a clock executes. Attach it with
// AcceptHook on the clocks to be traced.
type EventTraceHook struct {
	recorder DataRecorder
	table    string
}

// NewEventTraceHook creates the trace table and returns the hook to attach.
func NewEventTraceHook(recorder DataRecorder, tableName string) *EventTraceHook {
	recorder.CreateTable(tableName, EventTrace{})

	return &EventTraceHook{
		recorder: recorder,
		table:    tableName,
	}
}

// Func records the event once its callback has completed.
func (h *EventTraceHook) Func(ctx clock.HookCtx) {
	if ctx.Pos != clock.HookPosAfterEvent {
		return
	}

	h.recorder.InsertData(h.table, EventTrace{
		EventID:  ctx.Event.ID,
		Time:     float64(ctx.Event.Time()),
		Category: ctx.Event.Category(),
		Seq:      int64(ctx.Event.Seq()),
	})
}
