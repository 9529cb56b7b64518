package viz

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/figure"
	"github.com/san-kum/gdviz/internal/loss"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(0x2800|0x1|0x80) {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if !c.IsSet(1, 3) {
		t.Error("expected dot set")
	}
	if c.IsSet(0, 1) {
		t.Error("expected dot clear")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	if strings.Count(c.String(), "\n") != 2 {
		t.Error("expected two rows")
	}
	if c.IsSet(100, 100) {
		t.Error("out of range dot should be ignored")
	}
}

func TestCanvasPen(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetPen(lipgloss.Color("#ff0000"))
	c.Set(0, 0)

	if c.Colors[0][0] != lipgloss.Color("#ff0000") {
		t.Errorf("expected pen colour, got %q", c.Colors[0][0])
	}
	if c.Colors[0][1] != "" {
		t.Error("untouched cell should have no colour")
	}
	if len(c.Lines()) != 1 {
		t.Error("expected one line")
	}
}

func TestDrawPattern(t *testing.T) {
	count := func(p Pattern) int {
		c := NewCanvas(10, 1)
		c.DrawPattern(0, 0, 17, 0, p)
		n := 0
		for x := 0; x < 20; x++ {
			if c.IsSet(x, 0) {
				n++
			}
		}
		return n
	}

	if n := count(Solid); n != 18 {
		t.Errorf("solid: expected 18 dots, got %d", n)
	}
	if n := count(Dotted); n != 6 {
		t.Errorf("dotted: expected 6 dots, got %d", n)
	}
	if n := count(Dashed); n != 12 {
		t.Errorf("dashed: expected 12 dots, got %d", n)
	}
}

func TestPlotToPixel(t *testing.T) {
	p := NewPlot(10, 5, [2]float64{-1, 1}, [2]float64{0, 1})

	x, y, ok := p.ToPixel(-1, 1)
	if !ok || x != 0 || y != 0 {
		t.Errorf("top-left: got (%d,%d,%v)", x, y, ok)
	}
	x, y, ok = p.ToPixel(1, 0)
	if !ok || x != 19 || y != 19 {
		t.Errorf("bottom-right: got (%d,%d,%v)", x, y, ok)
	}
	if _, _, ok := p.ToPixel(0, nan()); ok {
		t.Error("expected NaN to be rejected")
	}
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}

func TestRenderFigure(t *testing.T) {
	f, err := figure.New(context.Background(), loss.NewConvex(), descent.Config{
		LearningRate: 0.3, Start: -1.5, Steps: 10,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	out := RenderFigure(f, 60, 20, ThemeClassic)
	if !strings.Contains(out, "Learning Rate = 0.30") {
		t.Error("expected title in output")
	}
	if !strings.Contains(out, "Feature (w)") {
		t.Error("expected x-axis title")
	}
	for _, name := range []string{"w before", "w after", "update", "loss change"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected legend entry %q", name)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "classic" {
		t.Error("expected fallback to classic")
	}
	if NextTheme(ThemeSunset).Name != Themes[0].Name {
		t.Error("expected wrap around")
	}
	if ThemeClassic.TraceColor("red") != ThemeClassic.Accent {
		t.Error("red should map to accent")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func TestSliderBar(t *testing.T) {
	if got := SliderBar(0, 5); got != "●────" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := SliderBar(1, 5); got != "━━━━●" {
		t.Errorf("unexpected bar %q", got)
	}
}
