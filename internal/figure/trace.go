package figure

import "github.com/san-kum/gdviz/internal/descent"

// TracesPerStep is the number of traces drawn for one update.
const TracesPerStep = 7

// Role identifies a trace's position inside a bundle.
type Role int

const (
	RoleBefore Role = iota
	RoleAfter
	RoleLossGuide
	RoleLevelGuide
	RoleSecant
	RoleUpdate
	RoleLossChange
)

const (
	ModeLines   = "lines"
	ModeMarkers = "markers"

	DashDot  = "dot"
	DashDash = "dash"

	ColorBlack = "black"
	ColorRed   = "red"
	ColorGray  = "gray"
)

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

type Marker struct {
	Color string `json:"color,omitempty"`
}

// Trace mirrors a plotly scatter trace.
type Trace struct {
	Type       string    `json:"type"`
	Name       string    `json:"name,omitempty"`
	X          []float64 `json:"x"`
	Y          []float64 `json:"y"`
	Mode       string    `json:"mode,omitempty"`
	Line       *Line     `json:"line,omitempty"`
	Marker     *Marker   `json:"marker,omitempty"`
	ShowLegend *bool     `json:"showlegend,omitempty"`
	Visible    bool      `json:"visible"`
}

// InLegend reports whether the trace gets a legend entry. Plotly shows
// named traces unless showlegend is false.
func (t Trace) InLegend() bool {
	if t.ShowLegend != nil && !*t.ShowLegend {
		return false
	}
	return t.Name != ""
}

// Color returns the line colour for line traces and the marker colour
// otherwise.
func (t Trace) Color() string {
	if t.Mode == ModeMarkers && t.Marker != nil {
		return t.Marker.Color
	}
	if t.Line != nil {
		return t.Line.Color
	}
	if t.Marker != nil {
		return t.Marker.Color
	}
	return ""
}

func hidden() *bool {
	b := false
	return &b
}

func scatter(x, y []float64) Trace {
	return Trace{Type: "scatter", X: x, Y: y}
}

// Curve is the always-visible loss curve.
func Curve(ws, js []float64) Trace {
	t := scatter(ws, js)
	t.Mode = ModeLines
	t.Line = &Line{Color: ColorBlack}
	t.ShowLegend = hidden()
	t.Visible = true
	return t
}

// Bundle draws u. The traces come back hidden; the figure decides which
// bundle is visible.
func Bundle(u descent.Update) [TracesPerStep]Trace {
	w0, j0, w1, j1 := u.W0, u.J0, u.W1, u.J1

	var b [TracesPerStep]Trace

	b[RoleBefore] = scatter([]float64{w0}, []float64{j0})
	b[RoleBefore].Name = "w before"
	b[RoleBefore].Mode = ModeMarkers
	b[RoleBefore].Marker = &Marker{Color: ColorBlack}

	b[RoleAfter] = scatter([]float64{w1}, []float64{j1})
	b[RoleAfter].Name = "w after"
	b[RoleAfter].Mode = ModeMarkers
	b[RoleAfter].Marker = &Marker{Color: ColorRed}

	b[RoleLossGuide] = scatter([]float64{w1, w1}, []float64{j0, j1})
	b[RoleLossGuide].Mode = ModeLines
	b[RoleLossGuide].Line = &Line{Color: ColorGray, Dash: DashDot}
	b[RoleLossGuide].ShowLegend = hidden()

	b[RoleLevelGuide] = scatter([]float64{w0, w1}, []float64{j1, j1})
	b[RoleLevelGuide].Mode = ModeLines
	b[RoleLevelGuide].Line = &Line{Color: ColorGray, Dash: DashDot}
	b[RoleLevelGuide].ShowLegend = hidden()

	b[RoleSecant] = scatter([]float64{w0, w1}, []float64{j0, j1})
	b[RoleSecant].Mode = ModeLines
	b[RoleSecant].Line = &Line{Color: ColorRed, Width: 2, Dash: DashDash}
	b[RoleSecant].ShowLegend = hidden()

	b[RoleUpdate] = scatter([]float64{w0, w1}, []float64{j0, j0})
	b[RoleUpdate].Name = "update"
	b[RoleUpdate].Mode = ModeLines
	b[RoleUpdate].Line = &Line{Color: ColorRed}

	b[RoleLossChange] = scatter([]float64{w0, w0}, []float64{j0, j1})
	b[RoleLossChange].Name = "loss change"
	b[RoleLossChange].Mode = ModeLines
	b[RoleLossChange].Line = &Line{Color: ColorGray}

	return b
}
