package widget

import "github.com/san-kum/gdviz/internal/loss"

// The four figure controls with their default values and ranges.

func NewStartSlider() *FloatSlider {
	return &FloatSlider{Description: "Start", Value: -1.5, Min: -2, Max: 2, Step: 0.05}
}

func NewLearningRateSlider() *FloatSlider {
	return &FloatSlider{Description: "Learning Rate", Value: 0.05, Min: 0.05, Max: 1.1, Step: 0.05}
}

func NewUpdatesSlider() *IntSlider {
	return &IntSlider{Description: "# updates", Value: 10, Min: 10, Max: 20, Step: 1}
}

func NewFunctionDropdown() *Dropdown {
	return &Dropdown{Description: "Function", Options: loss.Names()}
}

// Controls groups the widgets that parameterise a figure.
type Controls struct {
	Function     *Dropdown
	Start        *FloatSlider
	LearningRate *FloatSlider
	Updates      *IntSlider
}

func NewControls() *Controls {
	return &Controls{
		Function:     NewFunctionDropdown(),
		Start:        NewStartSlider(),
		LearningRate: NewLearningRateSlider(),
		Updates:      NewUpdatesSlider(),
	}
}

// Widgets lists the controls in panel order.
func (c *Controls) Widgets() []Widget {
	return []Widget{c.Function, c.Start, c.LearningRate, c.Updates}
}
