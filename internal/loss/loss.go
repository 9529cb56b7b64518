package loss

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

// ErrUnknownFunction is returned by Get for names outside the registry.
var ErrUnknownFunction = errors.New("loss: unknown function")

// Function is a scalar loss of a single parameter together with its
// closed-form derivative.
type Function interface {
	Name() string
	Loss(w float64) float64
	Grad(w float64) float64
}

const (
	ConvexName    = "Convex"
	NonConvexName = "Non-Convex"

	// DefaultOffset is the constant term of the non-convex loss.
	DefaultOffset = 1.0
)

// Convex is J(w) = w².
type Convex struct{}

func NewConvex() *Convex { return &Convex{} }

func (c *Convex) Name() string           { return ConvexName }
func (c *Convex) Loss(w float64) float64 { return w * w }
func (c *Convex) Grad(w float64) float64 { return 2 * w }

// NonConvex is J(w) = sin(3w) + w² + Offset. It has a local minimum on
// each side of the origin, so the start point decides which basin the
// descent settles into.
type NonConvex struct {
	Offset float64
}

func NewNonConvex() *NonConvex { return &NonConvex{Offset: DefaultOffset} }

func (n *NonConvex) Name() string { return NonConvexName }

func (n *NonConvex) Loss(w float64) float64 {
	return math.Sin(3*w) + w*w + n.Offset
}

func (n *NonConvex) Grad(w float64) float64 {
	return 3*math.Cos(3*w) + 2*w
}

var registry = map[string]func() Function{
	"convex":     func() Function { return NewConvex() },
	"non-convex": func() Function { return NewNonConvex() },
}

// Names lists the available functions in display order.
func Names() []string {
	return []string{ConvexName, NonConvexName}
}

// Get resolves a function by display name or a common spelling of it.
func Get(name string) (Function, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	if key == "nonconvex" {
		key = "non-convex"
	}
	fn, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFunction, name, Names())
	}
	return fn(), nil
}

// Sample evaluates f on n evenly spaced points covering [lo, hi], both ends
// included.
func Sample(f Function, lo, hi float64, n int) (ws, js []float64) {
	if n < 2 {
		n = 2
	}
	ws = floats.Span(make([]float64, n), lo, hi)
	js = make([]float64, n)
	for i, w := range ws {
		js[i] = f.Loss(w)
	}
	return ws, js
}

// GradientCheck compares the closed-form derivative with a central finite
// difference of the loss.
type GradientCheck struct {
	W        float64
	Analytic float64
	Numeric  float64
}

// AbsError is the gap between the two derivative estimates.
func (g GradientCheck) AbsError() float64 {
	return math.Abs(g.Analytic - g.Numeric)
}

func CheckGradient(f Function, w float64) GradientCheck {
	numeric := fd.Derivative(f.Loss, w, &fd.Settings{
		Formula: fd.Central,
		Step:    1e-6,
	})
	return GradientCheck{W: w, Analytic: f.Grad(w), Numeric: numeric}
}
