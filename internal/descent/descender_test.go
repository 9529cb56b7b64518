package descent_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/loss"
)

// explode has a gradient that overflows once |w| grows past a few units.
type explode struct{}

func (explode) Name() string           { return "explode" }
func (explode) Loss(w float64) float64 { return math.Exp(w * w) }
func (explode) Grad(w float64) float64 { return 2 * w * math.Exp(w*w) }

var _ = Describe("Step", func() {
	It("moves against the convex gradient", func() {
		w0, lr := -1.5, 0.05
		u := descent.Step(loss.NewConvex(), w0, lr)

		Expect(u.W0).To(Equal(w0))
		Expect(u.J0).To(BeNumerically("~", 2.25, 1e-12))
		Expect(u.Grad).To(BeNumerically("~", -3.0, 1e-12))
		Expect(u.Delta).To(BeNumerically("~", lr*2*w0, 1e-12))
		Expect(u.W1).To(BeNumerically("~", w0-lr*2*w0, 1e-12))
		Expect(u.J1).To(BeNumerically("~", u.W1*u.W1, 1e-12))
	})

	It("uses the non-convex derivative", func() {
		w0, lr := 0.8, 0.1
		u := descent.Step(loss.NewNonConvex(), w0, lr)

		grad := 3*math.Cos(3*w0) + 2*w0
		w1 := w0 - lr*grad
		Expect(u.Grad).To(BeNumerically("~", grad, 1e-12))
		Expect(u.W1).To(BeNumerically("~", w1, 1e-12))
		Expect(u.J1).To(BeNumerically("~", math.Sin(3*w1)+w1*w1+1, 1e-12))
	})

	It("stays put at the minimum", func() {
		u := descent.Step(loss.NewConvex(), 0, 0.5)
		Expect(u.Delta).To(BeZero())
		Expect(u.W1).To(BeZero())
	})
})

var _ = Describe("Descender", func() {
	var (
		d   *descent.Descender
		ctx context.Context
	)

	BeforeEach(func() {
		d = descent.New(loss.NewConvex())
		ctx = context.Background()
	})

	It("produces the requested number of chained updates", func() {
		res, err := d.Run(ctx, descent.Config{LearningRate: 0.05, Start: -1.5, Steps: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Function).To(Equal(loss.ConvexName))
		Expect(res.Updates).To(HaveLen(10))

		for i, u := range res.Updates {
			Expect(u.Index).To(Equal(i))
			if i > 0 {
				Expect(u.W0).To(Equal(res.Updates[i-1].W1))
				Expect(u.J0).To(Equal(res.Updates[i-1].J1))
			}
		}
		Expect(res.Positions()).To(HaveLen(11))
		Expect(res.Losses()).To(HaveLen(11))
	})

	It("converges geometrically on the convex loss", func() {
		res, err := d.Run(ctx, descent.Config{LearningRate: 0.1, Start: 2, Steps: 5})
		Expect(err).NotTo(HaveOccurred())

		final, ok := res.Final()
		Expect(ok).To(BeTrue())
		Expect(final.W1).To(BeNumerically("~", 2*math.Pow(0.8, 5), 1e-12))
		Expect(res.Metrics[descent.MetricFinalLoss]).To(BeNumerically("~", final.W1*final.W1, 1e-12))
		Expect(res.Metrics[descent.MetricDirectionChanges]).To(BeZero())
		Expect(res.Metrics[descent.MetricLossChange]).To(BeNumerically("<", 0))
	})

	It("counts overshoots when the learning rate is too large", func() {
		res, err := d.Run(ctx, descent.Config{LearningRate: 0.9, Start: 1, Steps: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics[descent.MetricDirectionChanges]).To(Equal(3.0))
	})

	It("notifies observers in order", func() {
		var seen []int
		d.AddObserver(descent.ObserverFunc(func(u descent.Update) {
			seen = append(seen, u.Index)
		}))

		_, err := d.Run(ctx, descent.Config{LearningRate: 0.2, Start: 1, Steps: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]int{0, 1, 2}))
	})

	DescribeTable("rejects invalid configs",
		func(cfg descent.Config) {
			res, err := d.Run(ctx, cfg)
			Expect(res).To(BeNil())
			Expect(err).To(MatchError(descent.ErrParameterBounds))
		},
		Entry("zero steps", descent.Config{LearningRate: 0.1, Start: 1, Steps: 0}),
		Entry("zero learning rate", descent.Config{LearningRate: 0, Start: 1, Steps: 3}),
		Entry("negative learning rate", descent.Config{LearningRate: -0.1, Start: 1, Steps: 3}),
		Entry("NaN learning rate", descent.Config{LearningRate: math.NaN(), Start: 1, Steps: 3}),
		Entry("infinite start", descent.Config{LearningRate: 0.1, Start: math.Inf(-1), Steps: 3}),
	)

	It("stops with a step error on divergence", func() {
		d = descent.New(explode{})
		res, err := d.Run(ctx, descent.Config{LearningRate: 1, Start: 2, Steps: 10})

		Expect(err).To(MatchError(descent.ErrDiverged))
		var stepErr *descent.StepError
		Expect(err).To(BeAssignableToTypeOf(stepErr))
		Expect(res).NotTo(BeNil())
		Expect(len(res.Updates)).To(BeNumerically("<", 10))
		for _, u := range res.Updates {
			Expect(u.IsFinite()).To(BeTrue())
		}
	})

	It("returns the partial result when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		d.AddObserver(descent.ObserverFunc(func(u descent.Update) {
			if u.Index == 1 {
				cancel()
			}
		}))

		res, err := d.Run(cctx, descent.Config{LearningRate: 0.1, Start: 1, Steps: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Updates).To(HaveLen(2))
	})
})

var _ = Describe("Summarize", func() {
	It("is empty for no updates", func() {
		Expect(descent.Summarize(nil)).To(BeEmpty())
	})
})
