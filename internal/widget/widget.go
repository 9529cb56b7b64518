package widget

import (
	"fmt"
	"math"
)

// Widget is a single control in a Panel.
type Widget interface {
	Label() string
	Display() string
	// Inc and Dec nudge the value one notch; they report whether it changed.
	Inc() bool
	Dec() bool
}

// FloatSlider holds a value on the grid Min + k*Step inside [Min, Max].
type FloatSlider struct {
	Description string
	Value       float64
	Min, Max    float64
	Step        float64
}

func (s *FloatSlider) Label() string   { return s.Description }
func (s *FloatSlider) Display() string { return fmt.Sprintf("%.2f", s.Value) }

// Snap rounds v onto the slider grid and clamps it to range.
func (s *FloatSlider) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return s.Min
	}
	if s.Step > 0 {
		k := math.Round((v - s.Min) / s.Step)
		v = s.Min + k*s.Step
		// Keep two-decimal grids free of float residue such as 0.15000000000000002.
		v = math.Round(v*1e9) / 1e9
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Set stores the snapped value and reports whether it changed.
func (s *FloatSlider) Set(v float64) bool {
	v = s.Snap(v)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

func (s *FloatSlider) Inc() bool { return s.Set(s.Value + s.Step) }
func (s *FloatSlider) Dec() bool { return s.Set(s.Value - s.Step) }

// Contains reports whether v lies inside the slider range.
func (s *FloatSlider) Contains(v float64) bool {
	return v >= s.Min-1e-9 && v <= s.Max+1e-9
}

// Fraction is the relative position of the value within range.
func (s *FloatSlider) Fraction() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

type IntSlider struct {
	Description string
	Value       int
	Min, Max    int
	Step        int
}

func (s *IntSlider) Label() string   { return s.Description }
func (s *IntSlider) Display() string { return fmt.Sprintf("%d", s.Value) }

func (s *IntSlider) Snap(v int) int {
	if s.Step > 1 {
		v = s.Min + ((v-s.Min)/s.Step)*s.Step
	}
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

func (s *IntSlider) Set(v int) bool {
	v = s.Snap(v)
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

func (s *IntSlider) step() int {
	if s.Step < 1 {
		return 1
	}
	return s.Step
}

func (s *IntSlider) Inc() bool { return s.Set(s.Value + s.step()) }
func (s *IntSlider) Dec() bool { return s.Set(s.Value - s.step()) }

func (s *IntSlider) Contains(v int) bool { return v >= s.Min && v <= s.Max }

func (s *IntSlider) Fraction() float64 {
	if s.Max == s.Min {
		return 0
	}
	return float64(s.Value-s.Min) / float64(s.Max-s.Min)
}

// Dropdown picks one of a fixed list of options. Inc and Dec wrap around.
type Dropdown struct {
	Description string
	Options     []string
	Index       int
}

func (d *Dropdown) Label() string   { return d.Description }
func (d *Dropdown) Display() string { return d.Value() }

func (d *Dropdown) Value() string {
	if len(d.Options) == 0 {
		return ""
	}
	return d.Options[d.Index]
}

// Select switches to the named option. Unknown names leave the dropdown
// unchanged and return false.
func (d *Dropdown) Select(option string) bool {
	for i, o := range d.Options {
		if o == option {
			changed := i != d.Index
			d.Index = i
			return changed
		}
	}
	return false
}

func (d *Dropdown) Inc() bool {
	if len(d.Options) < 2 {
		return false
	}
	d.Index = (d.Index + 1) % len(d.Options)
	return true
}

func (d *Dropdown) Dec() bool {
	if len(d.Options) < 2 {
		return false
	}
	d.Index = (d.Index - 1 + len(d.Options)) % len(d.Options)
	return true
}

// Button fires its action when pressed. Inc and Dec do nothing.
type Button struct {
	Description string
	OnClick     func()
}

func (b *Button) Label() string   { return b.Description }
func (b *Button) Display() string { return "[ " + b.Description + " ]" }
func (b *Button) Inc() bool       { return false }
func (b *Button) Dec() bool       { return false }

func (b *Button) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}
