package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/loss"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunDefaults(t *testing.T) {
	out, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Convex, learning rate 0.05, start -1.50, 10 updates")
	assert.Contains(t, out, "final_loss")
	assert.Contains(t, out, "loss per update")
	assert.Contains(t, out, "J(W1)")
}

func TestRunPresetAndFlagPrecedence(t *testing.T) {
	out, err := execute(t, "run", "--preset", "local-minimum", "--lr", "0.2")
	require.NoError(t, err)

	assert.Contains(t, out, "Non-Convex, learning rate 0.20, start 1.50, 15 updates")
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gdviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("function: non-convex\nsteps: 12\nstart: 0.5\n"), 0644))

	out, err := execute(t, "run", "--preset", "fast", "--config", path, "--steps", "14")
	require.NoError(t, err)

	// the file replaces the preset; the flag replaces the file
	assert.Contains(t, out, "Non-Convex, learning rate 0.05, start 0.50, 14 updates")
}

func TestRunRejectsOutOfRange(t *testing.T) {
	_, err := execute(t, "run", "--lr", "5")
	assert.ErrorIs(t, err, descent.ErrParameterBounds)

	_, err = execute(t, "run", "--steps", "3")
	assert.ErrorIs(t, err, descent.ErrParameterBounds)

	_, err = execute(t, "run", "--function", "cubic")
	assert.ErrorIs(t, err, loss.ErrUnknownFunction)

	_, err = execute(t, "run", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown preset")
}

func TestRejectsOffGridValues(t *testing.T) {
	_, err := execute(t, "run", "--lr", "0.07")
	assert.ErrorIs(t, err, descent.ErrParameterBounds)
	assert.ErrorContains(t, err, "not a multiple")

	_, err = execute(t, "figure", "--start", "0.33")
	assert.ErrorIs(t, err, descent.ErrParameterBounds)
}

func TestInitConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gd.yaml")

	out, err := execute(t, "init-config", path, "--preset", "escape", "--steps", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	out, err = execute(t, "run", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Non-Convex, learning rate 0.30, start 1.50, 16 updates")

	_, err = execute(t, "init-config", path, "--lr", "0.07")
	assert.ErrorIs(t, err, descent.ErrParameterBounds)
}

func TestSaveListExport(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "run", "--data", dir, "--save", "--function", "Non-Convex")
	require.NoError(t, err)
	idx := strings.Index(out, "run id: ")
	require.GreaterOrEqual(t, idx, 0)
	runID := strings.TrimSpace(out[idx+len("run id: "):])

	out, err = execute(t, "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "Non-Convex")

	out, err = execute(t, "export-csv", runID, "--data", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "step,w0,j0,grad,delta,w1,j1", lines[0])
	assert.Len(t, lines, 11)

	out, err = execute(t, "export-json", runID, "--data", dir)
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, runID, data["id"])

	out, err = execute(t, "plot", runID, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "w per update")
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "no runs found\n", out)
}

func TestFigureJSON(t *testing.T) {
	out, err := execute(t, "figure", "--steps", "12")
	require.NoError(t, err)

	var fig struct {
		Data   []map[string]any `json:"data"`
		Layout map[string]any   `json:"layout"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &fig))
	assert.Len(t, fig.Data, 1+7*12)
}

func TestFigureHTMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig.html")
	_, err := execute(t, "figure", "--format", "html", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Plotly.newPlot")
}

func TestFigureUnknownFormat(t *testing.T) {
	_, err := execute(t, "figure", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown figure format")
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "step3.svg")

	_, err := execute(t, "render", "--step", "3", "-o", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	out, err := execute(t, "render", "--all", filepath.Join(dir, "frames"), "--format", "svg")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 10 images")
}

func TestPresetsAndFunctions(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"gentle", "fast", "overshoot", "local-minimum", "escape"} {
		assert.Contains(t, out, name)
	}

	out, err = execute(t, "functions")
	require.NoError(t, err)
	assert.Contains(t, out, "Convex")
	assert.Contains(t, out, "Non-Convex")
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep")
	require.NoError(t, err)

	assert.Contains(t, out, "22 learning rates x 1 starts")
	assert.Contains(t, out, "best: lr 0.50 from -1.50, final loss 0.000000")
}
