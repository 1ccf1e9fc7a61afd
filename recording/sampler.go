package recording

import (
	"log"

	"github.com/tempolab/chrono/clock"
	"github.com/tempolab/chrono/exprs"
)

// A Sample is one row of a sampling table: one element of the sampled
// expression at one instant of virtual time.
type Sample struct {
	Time    float64
	Element int
	Value   float64
}

// A Sampler records the value of an expression at regular intervals of
// virtual time, one row per vector element.
type Sampler struct {
	recorder DataRecorder
	c        *clock.Clock
	table    string
	exp      exprs.Expression
}

// NewSampler creates the sampling table and returns a sampler for the
// given expression.
func NewSampler(
	recorder DataRecorder,
	c *clock.Clock,
	tableName string,
	exp exprs.Expression,
) *Sampler {
	recorder.CreateTable(tableName, Sample{})

	return &Sampler{
		recorder: recorder,
		c:        c,
		table:    tableName,
		exp:      exp,
	}
}

// Start schedules count samples, the first at the clock's next advance
// instant and the rest separated by interval.
func (s *Sampler) Start(interval clock.VTime, count int) error {
	if count <= 0 {
		return nil
	}

	return s.c.Schedule(0, func() {
		s.sample()
		s.reschedule(interval, count-1)
	})
}

func (s *Sampler) reschedule(interval clock.VTime, remaining int) {
	if remaining <= 0 {
		return
	}

	err := s.c.Schedule(interval, func() {
		s.sample()
		s.reschedule(interval, remaining-1)
	})
	if err != nil {
		log.Printf("sampler for table %s stopped: %v", s.table, err)
	}
}

func (s *Sampler) sample() {
	now := float64(s.c.CurrentTime())

	values, err := exprs.Eval(s.exp)
	if err != nil {
		log.Printf("sampling table %s at %v: %v", s.table, now, err)
		return
	}

	for i, v := range values {
		s.recorder.InsertData(s.table, Sample{
			Time:    now,
			Element: i,
			Value:   v,
		})
	}
}
