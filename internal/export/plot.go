package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/gdviz/internal/figure"
)

// ErrFormat is returned for image formats gonum/plot cannot write.
var ErrFormat = errors.New("export: unsupported image format")

var formats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "jpg": true, "jpeg": true, "eps": true, "tif": true, "tiff": true,
}

var palette = map[string]color.Color{
	figure.ColorBlack: color.Black,
	figure.ColorRed:   color.RGBA{R: 220, G: 30, B: 30, A: 255},
	figure.ColorGray:  color.RGBA{R: 128, G: 128, B: 128, A: 255},
}

func traceColor(name string) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return color.Black
}

// pixels converts a plotly pixel size to a vg length at the 96 dpi gonum
// uses for raster output.
func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

// Render builds a gonum plot of slider step `step` of f. The figure's own
// visibility is restored before returning.
func Render(f *figure.Figure, step int) (*plot.Plot, error) {
	prev := f.Active()
	if err := f.Show(step); err != nil {
		return nil, err
	}
	defer f.Show(prev)

	p := plot.New()
	p.Title.Text = f.Layout.Title
	p.X.Label.Text = f.Layout.XAxis.Title
	p.Y.Label.Text = f.Layout.YAxis.Title
	p.X.Min, p.X.Max = f.Layout.XAxis.Range[0], f.Layout.XAxis.Range[1]
	p.Y.Min, p.Y.Max = f.Layout.YAxis.Range[0], f.Layout.YAxis.Range[1]
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, t := range f.VisibleTraces() {
		if err := addTrace(p, t); err != nil {
			return nil, err
		}
	}

	// Plotters may widen the axes to fit their data; pin them back.
	p.X.Min, p.X.Max = f.Layout.XAxis.Range[0], f.Layout.XAxis.Range[1]
	p.Y.Min, p.Y.Max = f.Layout.YAxis.Range[0], f.Layout.YAxis.Range[1]
	return p, nil
}

func xys(t figure.Trace) plotter.XYs {
	n := min(len(t.X), len(t.Y))
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X, pts[i].Y = t.X[i], t.Y[i]
	}
	return pts
}

func addTrace(p *plot.Plot, t figure.Trace) error {
	c := traceColor(t.Color())

	if t.Mode == figure.ModeMarkers {
		s, err := plotter.NewScatter(xys(t))
		if err != nil {
			return fmt.Errorf("trace %q: %w", t.Name, err)
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		if t.InLegend() {
			p.Legend.Add(t.Name, s)
		}
		return nil
	}

	l, err := plotter.NewLine(xys(t))
	if err != nil {
		return fmt.Errorf("trace %q: %w", t.Name, err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)
	if t.Line != nil {
		if t.Line.Width > 0 {
			l.LineStyle.Width = vg.Points(t.Line.Width)
		}
		switch t.Line.Dash {
		case figure.DashDot:
			l.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
		case figure.DashDash:
			l.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		}
	}
	p.Add(l)
	if t.InLegend() {
		p.Legend.Add(t.Name, l)
	}
	return nil
}

// Format returns the lower-case extension of path without the dot.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// WriteStep renders slider step `step` to w in the given format.
func WriteStep(w io.Writer, f *figure.Figure, step int, format string) error {
	if !formats[format] {
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
	p, err := Render(f, step)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pixels(f.Layout.Width), pixels(f.Layout.Height), format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveStep writes slider step `step` to path; the format follows the
// extension.
func SaveStep(f *figure.Figure, step int, path string) error {
	format := Format(path)
	if !formats[format] {
		return fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteStep(file, f, step, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveAll writes every slider step into dir as step_NN.<format> and returns
// the paths in step order.
func SaveAll(f *figure.Figure, dir, format string) ([]string, error) {
	format = strings.ToLower(format)
	if !formats[format] {
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, f.Steps())
	for i := 0; i < f.Steps(); i++ {
		path := filepath.Join(dir, fmt.Sprintf("step_%02d.%s", i, format))
		if err := SaveStep(f, i, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
