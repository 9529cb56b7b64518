package figure

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/loss"
)

func buildConvex(t *testing.T, steps int) *Figure {
	t.Helper()
	f, err := New(context.Background(), loss.NewConvex(), descent.Config{
		LearningRate: 0.05,
		Start:        -1.5,
		Steps:        steps,
	})
	require.NoError(t, err)
	return f
}

func countVisible(f *Figure) int {
	n := 0
	for _, tr := range f.Data {
		if tr.Visible {
			n++
		}
	}
	return n
}

func TestBuild_Shape(t *testing.T) {
	f := buildConvex(t, 10)

	assert.Len(t, f.Data, 1+TracesPerStep*10)
	assert.Equal(t, 10, f.Steps())
	assert.Equal(t, "Gradient Descent - Learning Rate = 0.05", f.Layout.Title)
	assert.Equal(t, 600, f.Layout.Width)
	assert.Equal(t, 600, f.Layout.Height)
	assert.Equal(t, "Feature (w)", f.Layout.XAxis.Title)
	assert.Equal(t, [2]float64{-2.1, 2.1}, f.Layout.XAxis.Range)
	assert.Equal(t, "Loss", f.Layout.YAxis.Title)
	assert.Equal(t, [2]float64{-0.1, 6}, f.Layout.YAxis.Range)
	require.Len(t, f.Layout.Sliders, 1)
	assert.Equal(t, "Update: ", f.Layout.Sliders[0].CurrentValue.Prefix)
	assert.Equal(t, 50, f.Layout.Sliders[0].Pad.T)
}

func TestBuild_Curve(t *testing.T) {
	f := buildConvex(t, 10)
	curve := f.Data[0]

	assert.True(t, curve.Visible)
	assert.False(t, curve.InLegend())
	assert.Equal(t, ColorBlack, curve.Color())
	require.Len(t, curve.X, CurvePoints)
	assert.Equal(t, -2.0, curve.X[0])
	assert.Equal(t, 2.0, curve.X[CurvePoints-1])
	assert.InDelta(t, 4.0, curve.Y[0], 1e-12)
}

func TestBuild_InitialVisibility(t *testing.T) {
	f := buildConvex(t, 10)

	assert.Equal(t, 1+TracesPerStep, countVisible(f))
	for k := 1; k <= TracesPerStep; k++ {
		assert.True(t, f.Data[k].Visible, "trace %d", k)
	}
	assert.Equal(t, 0, f.Active())
}

func TestBundle_Geometry(t *testing.T) {
	u := descent.Step(loss.NewConvex(), -1.5, 0.05)
	b := Bundle(u)

	assert.Equal(t, []float64{u.W0}, b[RoleBefore].X)
	assert.Equal(t, []float64{u.J0}, b[RoleBefore].Y)
	assert.Equal(t, "w before", b[RoleBefore].Name)
	assert.Equal(t, ColorBlack, b[RoleBefore].Color())

	assert.Equal(t, []float64{u.W1}, b[RoleAfter].X)
	assert.Equal(t, []float64{u.J1}, b[RoleAfter].Y)
	assert.Equal(t, ColorRed, b[RoleAfter].Color())

	assert.Equal(t, []float64{u.W1, u.W1}, b[RoleLossGuide].X)
	assert.Equal(t, []float64{u.J0, u.J1}, b[RoleLossGuide].Y)
	assert.Equal(t, DashDot, b[RoleLossGuide].Line.Dash)

	assert.Equal(t, []float64{u.W0, u.W1}, b[RoleLevelGuide].X)
	assert.Equal(t, []float64{u.J1, u.J1}, b[RoleLevelGuide].Y)
	assert.Equal(t, DashDot, b[RoleLevelGuide].Line.Dash)

	assert.Equal(t, []float64{u.W0, u.W1}, b[RoleSecant].X)
	assert.Equal(t, []float64{u.J0, u.J1}, b[RoleSecant].Y)
	assert.Equal(t, DashDash, b[RoleSecant].Line.Dash)
	assert.Equal(t, 2.0, b[RoleSecant].Line.Width)

	assert.Equal(t, []float64{u.W0, u.W1}, b[RoleUpdate].X)
	assert.Equal(t, []float64{u.J0, u.J0}, b[RoleUpdate].Y)
	assert.Equal(t, "update", b[RoleUpdate].Name)

	assert.Equal(t, []float64{u.W0, u.W0}, b[RoleLossChange].X)
	assert.Equal(t, []float64{u.J0, u.J1}, b[RoleLossChange].Y)
	assert.Equal(t, "loss change", b[RoleLossChange].Name)

	legend := 0
	for _, tr := range b {
		if tr.InLegend() {
			legend++
		}
	}
	assert.Equal(t, 4, legend)
}

func TestBuild_BundlesChain(t *testing.T) {
	f := buildConvex(t, 5)

	for i := 1; i < 5; i++ {
		prevAfter := f.Data[(i-1)*TracesPerStep+1+int(RoleAfter)]
		before := f.Data[i*TracesPerStep+1+int(RoleBefore)]
		assert.Equal(t, prevAfter.X, before.X, "bundle %d", i)
		assert.Equal(t, prevAfter.Y, before.Y, "bundle %d", i)
	}
}

func TestSliderMasks(t *testing.T) {
	f := buildConvex(t, 12)

	for i, step := range f.Layout.Sliders[0].Steps {
		assert.Equal(t, "restyle", step.Method)
		assert.Equal(t, "visible", step.Args[0])

		mask := step.Mask()
		require.Len(t, mask, len(f.Data))
		assert.True(t, mask[0])
		on := 0
		for k, v := range mask {
			if v {
				on++
				if k > 0 {
					assert.Equal(t, i, (k-1)/TracesPerStep, "step %d trace %d", i, k)
				}
			}
		}
		assert.Equal(t, 1+TracesPerStep, on)
	}
}

func TestShow(t *testing.T) {
	f := buildConvex(t, 10)

	require.NoError(t, f.Show(3))
	assert.Equal(t, 3, f.Active())
	assert.Equal(t, 1+TracesPerStep, countVisible(f))

	visible := f.VisibleTraces()
	u, err := f.Update(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{u.W0}, visible[1+int(RoleBefore)].X)

	assert.ErrorIs(t, f.Show(10), ErrNoSuchStep)
	assert.ErrorIs(t, f.Show(-1), ErrNoSuchStep)
	assert.Equal(t, 3, f.Active())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), loss.NewConvex(), descent.Config{LearningRate: 0.1, Steps: 0})
	assert.ErrorIs(t, err, descent.ErrParameterBounds)
}

func TestWriteJSON(t *testing.T) {
	f := buildConvex(t, 10)

	var buf bytes.Buffer
	require.NoError(t, f.WriteJSON(&buf))

	var decoded struct {
		Data []struct {
			Type    string `json:"type"`
			Visible bool   `json:"visible"`
		} `json:"data"`
		Layout struct {
			Title   string `json:"title"`
			Sliders []struct {
				Steps []struct {
					Method string `json:"method"`
					Args   []any  `json:"args"`
				} `json:"steps"`
			} `json:"sliders"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Data, 71)
	assert.Equal(t, "scatter", decoded.Data[0].Type)
	assert.Equal(t, f.Layout.Title, decoded.Layout.Title)
	require.Len(t, decoded.Layout.Sliders, 1)
	assert.Len(t, decoded.Layout.Sliders[0].Steps, 10)
	assert.Len(t, decoded.Layout.Sliders[0].Steps[0].Args[1], 71)
}

func TestWriteHTML(t *testing.T) {
	f := buildConvex(t, 10)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHTML(&buf))

	page := buf.String()
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "Plotly.newPlot")
	assert.Contains(t, page, `"restyle"`)
}
