package exprs

import (
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Constant", func() {
	It("should hold its value", func() {
		c := NewConstant(1, 2, 3)
		Expect(c.Get()).To(Equal([]float64{1, 2, 3}))
		Expect(c.Len()).To(Equal(3))
	})

	It("should be its own simplification", func() {
		c := NewConstant(1, 2, 3)
		Expect(c.Simplify()).To(BeIdenticalTo(c))
	})

	It("should support the empty expression", func() {
		c := NewConstant()
		Expect(c.Len()).To(Equal(0))
		Expect(c.Get()).To(BeEmpty())
	})
})

var _ = Describe("Value", func() {
	It("should be mutable", func() {
		v := NewValue(1, 2, 3)
		Expect(v.Set(3, 2, 1)).To(Succeed())
		Expect(v.Get()).To(Equal([]float64{3, 2, 1}))
	})

	It("should reject a value of a different length", func() {
		v := NewValue(1, 2, 3)
		Expect(v.Set(1, 2)).To(MatchError(ErrLengthMismatch))
	})

	It("should not fold while mutable", func() {
		v := NewValue(1, 2, 3)
		Expect(v.Simplify()).To(BeIdenticalTo(v))
	})

	It("should fold to a constant once fixed", func() {
		v := NewValue(1, 2, 3)
		Expect(v.Fix(4, 5, 6)).To(Succeed())

		folded := v.Simplify()
		Expect(folded).To(BeAssignableToTypeOf(&Constant{}))
		Expect(folded.Get()).To(Equal([]float64{4, 5, 6}))

		Expect(v.Set(7, 8, 9)).To(MatchError(ErrFixed))
	})
})

var _ = Describe("Reduce", func() {
	It("should fold a sum of numbers", func() {
		e := Must(NewSum(1, 2, 3))
		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{6}))
	})

	It("should add element-wise", func() {
		e := Must(NewSum(NewValue(1, 2, 3), []float64{10, 20, 30}))
		Expect(e.Get()).To(Equal([]float64{11, 22, 33}))
	})

	It("should broadcast a bare number", func() {
		e := Must(NewSum(NewValue(1, 2, 3), 10))
		Expect(e.Get()).To(Equal([]float64{11, 12, 13}))
	})

	It("should reject mismatched lengths", func() {
		_, err := NewSum(NewValue(1, 2, 3), []float64{1, 2})
		Expect(err).To(MatchError(ErrLengthMismatch))
	})

	It("should merge constant operands around a dynamic one", func() {
		v := NewValue(5)
		e := Must(NewProduct(2, 3, v))

		r, ok := e.(*Reduce)
		Expect(ok).To(BeTrue())
		Expect(r.Children()).To(HaveLen(2))
		Expect(e.Get()).To(Equal([]float64{30}))
	})

	It("should drop identity elements", func() {
		v := NewValue(5)
		Expect(Must(NewSum(v, 0))).To(BeIdenticalTo(v))
		Expect(Must(NewProduct(v, 1))).To(BeIdenticalTo(v))
		Expect(Must(NewDifference(v, 0))).To(BeIdenticalTo(v))
		Expect(Must(NewQuotient(v, 1))).To(BeIdenticalTo(v))
	})

	It("should keep a leading identity of a non-commutative fold", func() {
		v := NewValue(5)
		e := Must(NewDifference(0, v))
		Expect(e.Get()).To(Equal([]float64{-5}))
	})

	It("should flatten nested sums", func() {
		a, b, c := NewValue(1), NewValue(2), NewValue(3)
		inner := Must(NewSum(a, b))
		outer := Must(NewSum(inner, c))

		r, ok := outer.(*Reduce)
		Expect(ok).To(BeTrue())
		Expect(r.Children()).To(Equal([]Expression{a, b, c}))
		Expect(outer.Get()).To(Equal([]float64{6}))
	})

	It("should subtract and divide left to right", func() {
		Expect(Must(NewDifference(10, 1, 2)).Get()).To(Equal([]float64{7}))
		Expect(Must(NewQuotient(24, 2, 3)).Get()).To(Equal([]float64{4}))
	})

	It("should fold after a value is fixed", func() {
		v := NewValue(2)
		e := Must(NewSum(v, 3))
		Expect(e).To(BeAssignableToTypeOf(&Reduce{}))

		Expect(v.Fix()).To(Succeed())
		folded := e.Simplify()
		Expect(folded).To(BeAssignableToTypeOf(&Constant{}))
		Expect(folded.Get()).To(Equal([]float64{5}))
	})

	It("should divide by zero with signed infinities", func() {
		q := Must(NewQuotient(NewValue(1, -1, 0), 0)).Get()
		Expect(q[0]).To(Equal(math.Inf(1)))
		Expect(q[1]).To(Equal(math.Inf(-1)))
		Expect(math.IsNaN(q[2])).To(BeTrue())
	})
})

var _ = Describe("Simplify", func() {
	It("should be idempotent in value", func() {
		v := NewValue(2, 4, 6)
		e := Must(NewSum(Must(NewProduct(v, 3)), 1, Must(NewNeg(v))))

		once := e.Simplify()
		twice := once.Simplify()
		Expect(twice.Get()).To(Equal(once.Get()))
		Expect(once.Get()).To(Equal(e.Get()))
	})

	It("should fold every all-constant tree to a constant", func() {
		e := Must(NewSum(
			Must(NewProduct(2, 3)),
			Must(NewQuotient(8, 4)),
			Must(NewNeg(1)),
		))
		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{7}))
	})
})

var _ = Describe("Elementwise", func() {
	It("should negate", func() {
		e := Must(NewNeg(NewValue(1, -2, 3)))
		Expect(e.Get()).To(Equal([]float64{-1, 2, -3}))
	})

	It("should fold a constant operand immediately", func() {
		e := Must(NewElementwise("double", func(x float64) float64 { return 2 * x },
			[]float64{1, 2}))
		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{2, 4}))
	})

	It("should track a mutable operand", func() {
		v := NewValue(1, 2)
		e := Must(NewElementwise("double", func(x float64) float64 { return 2 * x }, v))
		Expect(e.Get()).To(Equal([]float64{2, 4}))

		Expect(v.Set(10, 20)).To(Succeed())
		Expect(e.Get()).To(Equal([]float64{20, 40}))
	})
})

var _ = Describe("Map", func() {
	It("should combine operands element-wise", func() {
		a := NewValue(1, 2, 3)
		e := Must(NewMap("max", func(args ...float64) float64 {
			return math.Max(args[0], args[1])
		}, a, []float64{2, 2, 2}))

		Expect(e.Get()).To(Equal([]float64{2, 2, 3}))
	})

	It("should fold when every operand is constant", func() {
		e := Must(NewMap("min", func(args ...float64) float64 {
			return math.Min(args[0], args[1])
		}, []float64{1, 5}, []float64{3, 3}))

		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{1, 3}))
	})
})

var _ = Describe("Slice", func() {
	It("should select a sub-range", func() {
		v := NewValue(1, 2, 3, 4)
		e := Must(NewSlice(v, 1, 3))
		Expect(e.Get()).To(Equal([]float64{2, 3}))
		Expect(e.Len()).To(Equal(2))
	})

	It("should accept End as the stop bound", func() {
		e := Must(NewSlice(NewValue(1, 2, 3), 1, End))
		Expect(e.Get()).To(Equal([]float64{2, 3}))
	})

	It("should return the source for a full range", func() {
		v := NewValue(1, 2, 3)
		Expect(Must(NewSlice(v, 0, 3))).To(BeIdenticalTo(v))
	})

	It("should return the empty constant for an empty range", func() {
		e := Must(NewSlice(NewValue(1, 2, 3), 2, 2))
		Expect(e.Len()).To(Equal(0))
	})

	It("should slice constants eagerly", func() {
		e := Must(NewSlice(NewConstant(1, 2, 3), 0, 2))
		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{1, 2}))
	})

	It("should compose nested slices", func() {
		v := NewValue(1, 2, 3, 4, 5)
		inner := Must(NewSlice(v, 1, 4))
		outer := Must(NewSlice(inner, 1, 3))

		s, ok := outer.(*Slice)
		Expect(ok).To(BeTrue())
		Expect(s.Children()).To(Equal([]Expression{v}))
		Expect(outer.Get()).To(Equal([]float64{3, 4}))
	})

	It("should reject out-of-range bounds", func() {
		v := NewValue(1, 2, 3)
		_, err := NewSlice(v, 1, 4)
		Expect(err).To(MatchError(ErrIndexOutOfRange))
		_, err = NewSlice(v, -1, 2)
		Expect(err).To(MatchError(ErrIndexOutOfRange))
	})
})

var _ = Describe("Concat", func() {
	It("should concatenate values", func() {
		e := Must(NewConcat(NewValue(1, 2), NewValue(3)))
		Expect(e.Get()).To(Equal([]float64{1, 2, 3}))
		Expect(e.Len()).To(Equal(3))
	})

	It("should fuse adjacent constants", func() {
		e := Must(NewConcat(NewConstant(1, 2), 3, []float64{4, 5}))
		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{1, 2, 3, 4, 5}))
	})

	It("should flatten nested concatenations", func() {
		a, b, c := NewValue(1), NewValue(2), NewValue(3)
		e := Must(NewConcat(Must(NewConcat(a, b)), c))

		cc, ok := e.(*Concat)
		Expect(ok).To(BeTrue())
		Expect(cc.Children()).To(Equal([]Expression{a, b, c}))
	})

	It("should fuse adjacent slices of one source", func() {
		v := NewValue(1, 2, 3, 4)
		left := Must(NewSlice(v, 0, 2))
		right := Must(NewSlice(v, 2, 4))

		e := Must(NewConcat(left, right))
		Expect(e).To(BeIdenticalTo(v))
	})

	It("should push a slice into its parts", func() {
		a := NewValue(1, 2)
		b := NewValue(3, 4)
		e := Must(NewSlice(Must(NewConcat(a, b)), 1, 3))
		Expect(e.Get()).To(Equal([]float64{2, 3}))
	})
})

var _ = Describe("Replace", func() {
	It("should replace a single element", func() {
		e, err := ReplaceIndex(NewValue(1, 2, 3), 1, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(e.Get()).To(Equal([]float64{1, 0, 3}))
	})

	It("should broadcast a number over the replaced range", func() {
		e, err := Replace(NewValue(1, 2, 3), 1, End, -1)
		Expect(err).ToNot(HaveOccurred())
		Expect(e.Get()).To(Equal([]float64{1, -1, -1}))
	})

	It("should insert at a zero-length range", func() {
		e, err := Replace(NewConstant(1, 2, 3), 1, 1, []float64{-8, -9})
		Expect(err).ToNot(HaveOccurred())
		Expect(e.Get()).To(Equal([]float64{1, -8, -9, 2, 3}))
	})

	It("should delete a range given an empty value", func() {
		e, err := Replace(NewConstant(1, 2, 3), 1, End, []float64{})
		Expect(err).ToNot(HaveOccurred())
		Expect(e.Get()).To(Equal([]float64{1}))
	})

	It("should reject a sized value of the wrong length", func() {
		_, err := Replace(NewValue(1, 2, 3), 0, 2, []float64{1, 2, 3})
		Expect(err).To(MatchError(ErrLengthMismatch))
	})

	It("should refuse to produce an empty expression", func() {
		_, err := Replace(NewConstant(1, 2, 3), 0, End, []float64{})
		Expect(err).To(MatchError(ErrEmptyExpression))
	})

	It("should reject an out-of-range index", func() {
		_, err := ReplaceIndex(NewValue(1, 2, 3), 3, 0)
		Expect(err).To(MatchError(ErrIndexOutOfRange))
	})

	It("should keep tracking the source", func() {
		v := NewValue(1, 2, 3)
		e, err := ReplaceIndex(v, 1, 0)
		Expect(err).ToNot(HaveOccurred())

		Expect(v.Set(10, 20, 30)).To(Succeed())
		Expect(e.Get()).To(Equal([]float64{10, 0, 30}))
	})
})

var _ = Describe("Box", func() {
	It("should proxy its target", func() {
		v := NewValue(1, 2)
		b := NewBox("x", v)
		Expect(b.Get()).To(Equal([]float64{1, 2}))
		Expect(b.Len()).To(Equal(2))
	})

	It("should retarget", func() {
		b := NewBox("x", NewValue(1, 2))
		Expect(b.Set(NewConstant(3, 4))).To(Succeed())
		Expect(b.Get()).To(Equal([]float64{3, 4}))
	})

	It("should reject a target of a different length", func() {
		b := NewBox("x", NewValue(1, 2))
		Expect(b.Set(NewConstant(1))).To(MatchError(ErrLengthMismatch))
	})

	It("should not fold away", func() {
		b := NewBox("x", NewConstant(1))
		Expect(b.Simplify()).To(BeIdenticalTo(b))
	})

	It("should report a cycle through itself", func() {
		b := NewBox("x", NewConstant(1))
		sum := Must(NewSum(b, 1))
		Expect(b.Set(sum)).To(Succeed())

		_, err := Eval(b)
		Expect(err).To(MatchError(ErrCyclicReference))
	})

	It("should report a mutual cycle", func() {
		a := NewBox("a", NewConstant(0))
		b := NewBox("b", a)
		Expect(a.Set(b)).To(Succeed())

		_, err := Eval(a)
		Expect(err).To(MatchError(ErrCyclicReference))
	})

	It("should evaluate cleanly again after a broken cycle", func() {
		b := NewBox("x", NewConstant(1))
		Expect(b.Set(Must(NewSum(b, 1)))).To(Succeed())
		_, err := Eval(b)
		Expect(err).To(MatchError(ErrCyclicReference))

		Expect(b.Set(NewConstant(5))).To(Succeed())
		v, err := Eval(b)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal([]float64{5}))
	})

	It("should keep its length while cyclic", func() {
		b := NewBox("x", NewConstant(1, 2))
		Expect(b.Set(Must(NewSum(b, 1)))).To(Succeed())

		Expect(b.Len()).To(Equal(2))
		Expect(b.Set(NewConstant(5))).To(MatchError(ErrLengthMismatch))
		Expect(b.Set(NewConstant(5, 6))).To(Succeed())
		Expect(b.Get()).To(Equal([]float64{5, 6}))
	})
})

var _ = Describe("Interpolation", func() {
	It("should blend between its endpoints", func() {
		t := NewValue(0.5)
		e := Must(NewInterpolation(0, NewConstant(10, 20), t))
		Expect(e.Get()).To(Equal([]float64{5, 10}))

		Expect(t.Set(0.25)).To(Succeed())
		Expect(e.Get()).To(Equal([]float64{2.5, 5}))
	})

	It("should extrapolate beyond the endpoints", func() {
		e := Must(NewInterpolation(0, 10, NewValue(2)))
		Expect(e.Get()).To(Equal([]float64{20}))
	})

	It("should fold a constant coefficient of zero or one", func() {
		start := NewValue(1, 2)
		end := NewValue(3, 4)
		Expect(Must(NewInterpolation(start, end, 0))).To(BeIdenticalTo(start))
		Expect(Must(NewInterpolation(start, end, 1))).To(BeIdenticalTo(end))
	})

	It("should fold equal constant endpoints", func() {
		e := Must(NewInterpolation(NewConstant(7), NewConstant(7), NewValue(0.3)))
		Expect(e).To(BeAssignableToTypeOf(&Constant{}))
		Expect(e.Get()).To(Equal([]float64{7}))
	})

	It("should require a scalar coefficient", func() {
		_, err := NewInterpolation(0, 1, NewValue(0.5, 0.5))
		Expect(err).To(MatchError(ErrScalarRequired))
	})
})

var _ = Describe("Dump", func() {
	It("should render the expression tree", func() {
		e := Must(NewSum(NewValue(0), Must(NewQuotient(NewValue(1), NewValue(2)))))
		out := Dump(e)

		lines := strings.Split(out, "\n")
		Expect(lines[0]).To(Equal("+ <0.5>:"))
		Expect(lines[1]).To(Equal("  Value <0>"))
		Expect(lines[2]).To(Equal("  / <0.5>:"))
		Expect(lines[3]).To(Equal("    Value <1>"))
		Expect(lines[4]).To(Equal("    Value <2>"))
	})

	It("should mark repeated nodes", func() {
		v := NewValue(3)
		e := Must(NewSum(v, Must(NewNeg(v))))
		out := Dump(e)

		Expect(out).To(ContainSubstring("(&1)"))
		Expect(out).To(ContainSubstring("(*1)"))
	})
})
