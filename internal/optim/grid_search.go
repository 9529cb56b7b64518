package optim

import (
	"context"
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/loss"
	"github.com/san-kum/gdviz/internal/widget"
)

// Point is one evaluated (learning rate, start) pair.
type Point struct {
	LearningRate float64
	Start        float64
	FinalW       float64
	FinalLoss    float64
	Metrics      map[string]float64
	Err          error
}

type GridSearch struct {
	fn      loss.Function
	steps   int
	rates   []float64
	starts  []float64
	workers int
}

func NewGridSearch(fn loss.Function, steps int, rates, starts []float64) *GridSearch {
	return &GridSearch{fn: fn, steps: steps, rates: rates, starts: starts, workers: 4}
}

// Search runs a descent for every grid point and returns the points with
// rates varying slowest. A diverged point carries its error and an infinite
// final loss; any other failure aborts the search.
func (g *GridSearch) Search(ctx context.Context) ([]Point, error) {
	points := make([]Point, 0, len(g.rates)*len(g.starts))
	for _, lr := range g.rates {
		for _, w0 := range g.starts {
			cfg := descent.Config{LearningRate: lr, Start: w0, Steps: g.steps}
			if err := descent.Validate(cfg); err != nil {
				return nil, err
			}
			points = append(points, Point{LearningRate: lr, Start: w0})
		}
	}

	errs := make([]error, len(points))
	parallelFor(len(points), g.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			errs[i] = g.evaluate(ctx, &points[i])
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

func (g *GridSearch) evaluate(ctx context.Context, p *Point) error {
	res, err := descent.New(g.fn).Run(ctx, descent.Config{
		LearningRate: p.LearningRate,
		Start:        p.Start,
		Steps:        g.steps,
	})
	if errors.Is(err, descent.ErrDiverged) {
		p.Err = err
		p.FinalW, p.FinalLoss = math.NaN(), math.Inf(1)
		p.Metrics = res.Metrics
		return nil
	}
	if err != nil {
		return err
	}

	p.Metrics = res.Metrics
	p.FinalW = res.Metrics[descent.MetricFinalW]
	p.FinalLoss = res.Metrics[descent.MetricFinalLoss]
	return nil
}

// Best returns the point with the lowest final loss; ties go to the
// earlier point. ok is false when every point diverged.
func Best(points []Point) (best Point, ok bool) {
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		if !ok || p.FinalLoss < best.FinalLoss {
			best, ok = p, true
		}
	}
	return best, ok
}

// Rank returns the converged points ordered by final loss.
func Rank(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinalLoss < out[j].FinalLoss })
	return out
}

// Grid lists every value a slider can take, lowest first.
func Grid(s *widget.FloatSlider) []float64 {
	n := int(math.Round((s.Max-s.Min)/s.Step)) + 1
	if n < 2 {
		return []float64{s.Snap(s.Min)}
	}
	vals := floats.Span(make([]float64, n), s.Min, s.Max)
	for i, v := range vals {
		vals[i] = s.Snap(v)
	}
	return vals
}
