package figure

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/loss"
)

// ErrNoSuchStep is returned when a slider step index is out of range.
var ErrNoSuchStep = errors.New("figure: no such slider step")

const (
	CurvePoints = 100
	CurveMin    = -2.0
	CurveMax    = 2.0

	DefaultWidth  = 600
	DefaultHeight = 600
)

var (
	XRange = [2]float64{-2.1, 2.1}
	YRange = [2]float64{-0.1, 6}
)

type Axis struct {
	Title    string     `json:"title"`
	Range    [2]float64 `json:"range"`
	ZeroLine *bool      `json:"zeroline,omitempty"`
}

type CurrentValue struct {
	Prefix string `json:"prefix"`
}

type Pad struct {
	T int `json:"t"`
}

// SliderStep is a plotly "restyle" step: Args is ["visible", mask].
type SliderStep struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
	Label  string `json:"label"`
}

// Mask returns the visibility mask carried by the step.
func (s SliderStep) Mask() []bool {
	if len(s.Args) < 2 {
		return nil
	}
	mask, _ := s.Args[1].([]bool)
	return mask
}

type Slider struct {
	Active       int          `json:"active"`
	CurrentValue CurrentValue `json:"currentvalue"`
	Pad          Pad          `json:"pad"`
	Steps        []SliderStep `json:"steps"`
}

type Layout struct {
	Title   string   `json:"title"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	XAxis   Axis     `json:"xaxis"`
	YAxis   Axis     `json:"yaxis"`
	Sliders []Slider `json:"sliders"`
}

type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	fn     loss.Function
	result *descent.Result
}

// Title formats the figure title for a learning rate.
func Title(lr float64) string {
	return fmt.Sprintf("Gradient Descent - Learning Rate = %.2f", lr)
}

// New runs the descent described by cfg and builds its figure.
func New(ctx context.Context, fn loss.Function, cfg descent.Config) (*Figure, error) {
	res, err := descent.New(fn).Run(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build figure: %w", err)
	}
	return Build(fn, res), nil
}

// Build lays out an existing result. Only the curve and the first bundle
// start out visible.
func Build(fn loss.Function, res *descent.Result) *Figure {
	ws, js := loss.Sample(fn, CurveMin, CurveMax, CurvePoints)

	data := make([]Trace, 0, 1+TracesPerStep*len(res.Updates))
	data = append(data, Curve(ws, js))
	for i, u := range res.Updates {
		b := Bundle(u)
		for k := range b {
			b[k].Visible = i == 0
		}
		data = append(data, b[:]...)
	}

	f := &Figure{
		Data: data,
		Layout: Layout{
			Title:  Title(res.Config.LearningRate),
			Width:  DefaultWidth,
			Height: DefaultHeight,
			XAxis:  Axis{Title: "Feature (w)", Range: XRange, ZeroLine: hidden()},
			YAxis:  Axis{Title: "Loss", Range: YRange},
		},
		fn:     fn,
		result: res,
	}
	f.Layout.Sliders = []Slider{{
		Active:       0,
		CurrentValue: CurrentValue{Prefix: "Update: "},
		Pad:          Pad{T: 50},
		Steps:        sliderSteps(len(data), len(res.Updates)),
	}}
	return f
}

func sliderSteps(traces, updates int) []SliderStep {
	steps := make([]SliderStep, 0, updates)
	for i := 0; i < updates; i++ {
		mask := make([]bool, traces)
		mask[0] = true
		for j := i*TracesPerStep + 1; j <= (i+1)*TracesPerStep; j++ {
			mask[j] = true
		}
		steps = append(steps, SliderStep{
			Method: "restyle",
			Args:   []any{"visible", mask},
			Label:  fmt.Sprintf("%d", i),
		})
	}
	return steps
}

func (f *Figure) Function() loss.Function { return f.fn }

func (f *Figure) Result() *descent.Result { return f.result }

// Steps is the number of slider positions.
func (f *Figure) Steps() int {
	if len(f.Layout.Sliders) == 0 {
		return 0
	}
	return len(f.Layout.Sliders[0].Steps)
}

// Active is the slider position currently shown.
func (f *Figure) Active() int {
	if len(f.Layout.Sliders) == 0 {
		return 0
	}
	return f.Layout.Sliders[0].Active
}

// Show applies slider step i to the traces, as the slider's restyle
// callback would.
func (f *Figure) Show(i int) error {
	if i < 0 || i >= f.Steps() {
		return fmt.Errorf("%w: %d (have %d)", ErrNoSuchStep, i, f.Steps())
	}
	mask := f.Layout.Sliders[0].Steps[i].Mask()
	for k := range f.Data {
		f.Data[k].Visible = k < len(mask) && mask[k]
	}
	f.Layout.Sliders[0].Active = i
	return nil
}

// Update returns the update drawn by slider step i.
func (f *Figure) Update(i int) (descent.Update, error) {
	if f.result == nil || i < 0 || i >= len(f.result.Updates) {
		return descent.Update{}, fmt.Errorf("%w: %d", ErrNoSuchStep, i)
	}
	return f.result.Updates[i], nil
}

// VisibleTraces returns the traces currently switched on, in draw order.
func (f *Figure) VisibleTraces() []Trace {
	out := make([]Trace, 0, 1+TracesPerStep)
	for _, t := range f.Data {
		if t.Visible {
			out = append(out, t)
		}
	}
	return out
}
