package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gdviz/internal/figure"
)

// TracePattern picks the dot pattern for a trace's dash style.
func TracePattern(t figure.Trace) Pattern {
	if t.Line == nil {
		return Solid
	}
	switch t.Line.Dash {
	case figure.DashDot:
		return Dotted
	case figure.DashDash:
		return Dashed
	}
	return Solid
}

// DrawTrace rasterises one trace onto p.
func DrawTrace(p *Plot, t figure.Trace, th Theme) {
	col := th.TraceColor(t.Color())
	if t.Mode == figure.ModeMarkers || len(t.X) == 1 {
		p.Marker(t.X, t.Y, col)
		return
	}
	p.Polyline(t.X, t.Y, col, TracePattern(t))
	if t.Line != nil && t.Line.Width >= 2 {
		// Thicken by one dot row.
		ys := make([]float64, len(t.Y))
		dy := (p.YMax - p.YMin) / float64(p.Canvas.SubHeight())
		for i, y := range t.Y {
			ys[i] = y + dy
		}
		p.Polyline(t.X, ys, col, TracePattern(t))
	}
}

// RenderFigure draws the visible traces of f on a w×h cell canvas with a
// y-axis gutter, x-axis labels and a legend.
func RenderFigure(f *figure.Figure, w, h int, th Theme) string {
	return RenderTraces(f, f.VisibleTraces(), w, h, th)
}

// RenderTraces is RenderFigure with the trace list supplied by the caller,
// used to draw animated frames between slider steps.
func RenderTraces(f *figure.Figure, visible []figure.Trace, w, h int, th Theme) string {
	xr, yr := f.Layout.XAxis.Range, f.Layout.YAxis.Range
	p := NewPlot(w, h, xr, yr)

	for _, t := range visible {
		DrawTrace(p, t, th)
	}

	muted := lipgloss.NewStyle().Foreground(th.Muted)
	lines := p.Canvas.Lines()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Primary).Render(f.Layout.Title) + "\n")
	for i, line := range lines {
		label := "      "
		switch i {
		case 0:
			label = fmt.Sprintf("%5.1f ", yr[1])
		case h / 2:
			label = fmt.Sprintf("%5.1f ", (yr[0]+yr[1])/2)
		case h - 1:
			label = fmt.Sprintf("%5.1f ", yr[0])
		}
		b.WriteString(muted.Render(label+"│") + line + "\n")
	}
	b.WriteString(muted.Render("      └"+strings.Repeat("─", w)) + "\n")

	left := fmt.Sprintf("%.1f", xr[0])
	mid := f.Layout.XAxis.Title
	right := fmt.Sprintf("%.1f", xr[1])
	gap := w - len(left) - len(mid) - len(right)
	if gap < 2 {
		gap = 2
	}
	b.WriteString(muted.Render("       " + left + strings.Repeat(" ", gap/2) + mid + strings.Repeat(" ", gap-gap/2) + right))
	b.WriteString("\n")

	var legend []string
	for _, t := range visible {
		if !t.InLegend() {
			continue
		}
		sym := "──"
		if t.Mode == figure.ModeMarkers {
			sym = "●"
		}
		style := lipgloss.NewStyle().Foreground(th.TraceColor(t.Color()))
		legend = append(legend, style.Render(sym)+" "+muted.Render(t.Name))
	}
	if len(legend) > 0 {
		b.WriteString("       " + strings.Join(legend, "   ") + "\n")
	}
	return b.String()
}
