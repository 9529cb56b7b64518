package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Plot maps data coordinates onto a canvas. Y grows upwards.
type Plot struct {
	Canvas     *Canvas
	XMin, XMax float64
	YMin, YMax float64
}

func NewPlot(w, h int, xr, yr [2]float64) *Plot {
	return &Plot{
		Canvas: NewCanvas(w, h),
		XMin:   xr[0], XMax: xr[1],
		YMin: yr[0], YMax: yr[1],
	}
}

// ToPixel converts a data point to sub-pixel coordinates. ok is false for
// points that are not finite.
func (p *Plot) ToPixel(x, y float64) (px, py int, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	sw := float64(p.Canvas.SubWidth() - 1)
	sh := float64(p.Canvas.SubHeight() - 1)
	fx := (x - p.XMin) / (p.XMax - p.XMin) * sw
	fy := (p.YMax - y) / (p.YMax - p.YMin) * sh

	// Keep far-off points near the frame so lines toward them keep their slope.
	fx = math.Max(-4*sw, math.Min(5*sw, fx))
	fy = math.Max(-4*sh, math.Min(5*sh, fy))
	return int(math.Round(fx)), int(math.Round(fy)), true
}

// Polyline joins consecutive points with the given pattern.
func (p *Plot) Polyline(xs, ys []float64, col lipgloss.Color, pat Pattern) {
	p.Canvas.SetPen(col)
	n := min(len(xs), len(ys))
	for i := 1; i < n; i++ {
		x0, y0, ok0 := p.ToPixel(xs[i-1], ys[i-1])
		x1, y1, ok1 := p.ToPixel(xs[i], ys[i])
		if ok0 && ok1 {
			p.Canvas.DrawPattern(x0, y0, x1, y1, pat)
		}
	}
}

// Marker draws a small filled block of dots centred on each point.
func (p *Plot) Marker(xs, ys []float64, col lipgloss.Color) {
	p.Canvas.SetPen(col)
	n := min(len(xs), len(ys))
	for i := 0; i < n; i++ {
		px, py, ok := p.ToPixel(xs[i], ys[i])
		if !ok {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				p.Canvas.Set(px+dx, py+dy)
			}
		}
	}
}
