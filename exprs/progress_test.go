package exprs

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tempolab/chrono/clock"
)

var _ = Describe("Progress", func() {
	var c *clock.Clock

	BeforeEach(func() {
		c = clock.NewClock()
	})

	It("should follow the clock linearly", func() {
		p := Must(NewProgress(c, 2, 1, true))
		Expect(p.Get()).To(Equal([]float64{0}))

		Expect(c.Advance(1)).To(Succeed())
		Expect(p.Get()).To(Equal([]float64{0}))

		Expect(c.Advance(1)).To(Succeed())
		Expect(p.Get()).To(Equal([]float64{0.5}))

		Expect(c.Advance(1)).To(Succeed())
		Expect(p.Get()).To(Equal([]float64{1}))
	})

	It("should fold to a constant once complete", func() {
		p := Must(NewProgress(c, 2, 1, true))
		Expect(p.Simplify()).To(BeIdenticalTo(p))

		Expect(c.Advance(3)).To(Succeed())
		folded := p.Simplify()
		Expect(folded).To(BeAssignableToTypeOf(&Constant{}))
		Expect(folded.Get()).To(Equal([]float64{1}))
	})

	It("should clamp past the end", func() {
		p := Must(NewProgress(c, 1, 0, true))
		Expect(c.Advance(5)).To(Succeed())
		Expect(p.Get()).To(Equal([]float64{1}))
	})

	It("should extrapolate when not clamped", func() {
		p := Must(NewProgress(c, 1, 0, false))
		Expect(c.Advance(3)).To(Succeed())
		Expect(p.Get()).To(Equal([]float64{3}))

		Expect(p.Simplify()).To(BeIdenticalTo(p))
	})

	It("should step at the start time with a zero duration", func() {
		p := Must(NewProgress(c, 0, 1, true))
		Expect(p.Get()).To(Equal([]float64{0}))

		Expect(c.Advance(1)).To(Succeed())
		Expect(p.Get()).To(Equal([]float64{1}))
	})

	It("should reject a negative duration", func() {
		_, err := NewProgress(c, -1, 0, true)
		Expect(err).To(MatchError(ErrInvalidDuration))
	})

	It("should reject an unclamped zero duration", func() {
		_, err := NewProgress(c, 0, 0, false)
		Expect(err).To(MatchError(ErrInvalidDuration))
	})
})

var _ = Describe("Time", func() {
	It("should track the clock", func() {
		c := clock.NewClock()
		t := NewTime(c)
		Expect(t.Get()).To(Equal([]float64{0}))

		Expect(c.Advance(2.5)).To(Succeed())
		Expect(t.Get()).To(Equal([]float64{2.5}))

		Expect(t.Simplify()).To(BeIdenticalTo(t))
	})

	It("should combine with arithmetic", func() {
		c := clock.NewClock()
		double := Must(NewProduct(NewTime(c), 2))

		Expect(c.Advance(3)).To(Succeed())
		Expect(double.Get()).To(Equal([]float64{6}))
	})
})
