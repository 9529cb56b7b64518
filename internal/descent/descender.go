package descent

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gdviz/internal/loss"
)

// Step applies a single gradient-descent update to w0.
func Step(f loss.Function, w0, lr float64) Update {
	grad := f.Grad(w0)
	delta := lr * grad
	w1 := w0 - delta
	return Update{
		W0:    w0,
		J0:    f.Loss(w0),
		Grad:  grad,
		Delta: delta,
		W1:    w1,
		J1:    f.Loss(w1),
	}
}

type Descender struct {
	fn        loss.Function
	observers []Observer
}

func New(fn loss.Function) *Descender {
	return &Descender{
		fn:        fn,
		observers: make([]Observer, 0),
	}
}

func (d *Descender) Function() loss.Function { return d.fn }

func (d *Descender) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run produces cfg.Steps chained updates starting at cfg.Start. On
// cancellation or divergence the updates produced so far are returned
// together with the error.
func (d *Descender) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Function: d.fn.Name(),
		Config:   cfg,
		Updates:  make([]Update, 0, cfg.Steps),
	}

	w := cfg.Start
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			result.Metrics = Summarize(result.Updates)
			return result, ctx.Err()
		default:
		}

		u := Step(d.fn, w, cfg.LearningRate)
		u.Index = i
		if !u.IsFinite() {
			result.Metrics = Summarize(result.Updates)
			return result, &StepError{Step: i, W: w, Wrapped: ErrDiverged}
		}

		result.Updates = append(result.Updates, u)
		for _, obs := range d.observers {
			obs.OnUpdate(u)
		}
		w = u.W1
	}

	result.Metrics = Summarize(result.Updates)
	return result, nil
}

// Validate checks that cfg describes a runnable descent.
func Validate(cfg Config) error {
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrParameterBounds, cfg.Steps)
	}
	if !(cfg.LearningRate > 0) || math.IsInf(cfg.LearningRate, 0) {
		return fmt.Errorf("%w: learning rate must be positive and finite, got %g", ErrParameterBounds, cfg.LearningRate)
	}
	if math.IsNaN(cfg.Start) || math.IsInf(cfg.Start, 0) {
		return fmt.Errorf("%w: start must be finite, got %g", ErrParameterBounds, cfg.Start)
	}
	return nil
}
