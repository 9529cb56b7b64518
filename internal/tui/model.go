package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gdviz/internal/config"
	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/export"
	"github.com/san-kum/gdviz/internal/figure"
	"github.com/san-kum/gdviz/internal/storage"
	"github.com/san-kum/gdviz/internal/viz"
	"github.com/san-kum/gdviz/internal/widget"
)

type state int

const (
	stateReset state = iota
	stateStep
)

func (s state) String() string {
	if s == stateStep {
		return "step"
	}
	return "reset"
}

const (
	fps          = 30
	playInterval = 600 * time.Millisecond
	settleEps    = 1e-3
)

type animTickMsg struct{ gen int }

type playTickMsg struct{ gen int }

func animTick(gen int) tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return animTickMsg{gen: gen} })
}

func playTick(gen int) tea.Cmd {
	return tea.Tick(playInterval, func(time.Time) tea.Msg { return playTickMsg{gen: gen} })
}

// Options configures the interactive app.
type Options struct {
	Config    *config.Config
	Store     *storage.Store
	ExportDir string
}

// Model is the bubbletea model for the interactive figure.
type Model struct {
	cfg       *config.Config
	controls  *widget.Controls
	panel     *widget.Panel
	fig       *figure.Figure
	err       error
	state     state
	theme     viz.Theme
	store     *storage.Store
	exportDir string

	playing bool
	playGen int

	spring    harmonica.Spring
	animating bool
	animGen   int
	markerX   float64
	markerVel float64
	target    float64

	keys   keyMap
	help   help.Model
	status string

	width  int
	height int
}

func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	ctl := cfg.Controls()
	widgets := append(ctl.Widgets(), &widget.Button{Description: "Reset"})
	m := Model{
		cfg:       cfg,
		controls:  ctl,
		panel:     widget.NewPanel(widgets...),
		theme:     viz.GetTheme(cfg.Theme),
		store:     opts.Store,
		exportDir: exportDir,
		spring:    harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		keys:      defaultKeys(),
		help:      help.New(),
		width:     100,
		height:    32,
	}
	m.rebuild()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// rebuild reruns the descent from the current widget values and returns the
// figure to step 0.
func (m *Model) rebuild() {
	m.cfg.FromControls(m.controls)
	m.playing = false
	m.animating = false
	m.state = stateReset

	fn, err := m.cfg.LossFunction()
	if err != nil {
		m.fig, m.err = nil, err
		return
	}
	fig, err := figure.New(context.Background(), fn, m.cfg.DescentConfig())
	if err != nil {
		m.fig, m.err = nil, err
		return
	}
	m.fig, m.err = fig, nil

	if u, err := fig.Update(0); err == nil {
		m.markerX, m.target, m.markerVel = u.W1, u.W1, 0
	}
	slog.Debug("figure rebuilt", "function", fn.Name(), "lr", m.cfg.LearningRate,
		"start", m.cfg.Start, "steps", m.cfg.Steps)
}

// show moves the slider to step i and starts the marker glide.
func (m *Model) show(i int) tea.Cmd {
	if err := m.fig.Show(i); err != nil {
		m.status = err.Error()
		return nil
	}
	if i == 0 {
		m.state = stateReset
	} else {
		m.state = stateStep
	}

	u, _ := m.fig.Update(i)
	m.markerX, m.target = u.W0, u.W1
	m.markerVel = 0
	if m.animating {
		return nil
	}
	m.animating = true
	m.animGen++
	return animTick(m.animGen)
}

// advance steps forward and reports whether the slider moved.
func (m *Model) advance() (tea.Cmd, bool) {
	if m.fig == nil {
		return nil, false
	}
	next := m.fig.Active() + 1
	if next >= m.fig.Steps() {
		m.status = "final update reached"
		return nil, false
	}
	return m.show(next), true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case animTickMsg:
		if !m.animating || msg.gen != m.animGen {
			return m, nil
		}
		m.markerX, m.markerVel = m.spring.Update(m.markerX, m.markerVel, m.target)
		if math.Abs(m.markerX-m.target) < settleEps && math.Abs(m.markerVel) < settleEps {
			m.markerX, m.markerVel = m.target, 0
			m.animating = false
			return m, nil
		}
		return m, animTick(m.animGen)
	case playTickMsg:
		if !m.playing || msg.gen != m.playGen {
			return m, nil
		}
		cmd, ok := m.advance()
		if !ok {
			m.playing = false
			return m, nil
		}
		return m, tea.Batch(cmd, playTick(m.playGen))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.panel.Next()
	case key.Matches(msg, m.keys.Prev):
		m.panel.Prev()
	case key.Matches(msg, m.keys.Inc):
		if m.panel.Inc() {
			m.rebuild()
			m.status = ""
		}
	case key.Matches(msg, m.keys.Dec):
		if m.panel.Dec() {
			m.rebuild()
			m.status = ""
		}
	case key.Matches(msg, m.keys.Theme):
		m.theme = viz.NextTheme(m.theme)
		m.cfg.Theme = m.theme.Name
	}

	if m.fig == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Step):
		m.playing = false
		cmd, _ := m.advance()
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		m.playing = false
		if i := m.fig.Active(); i > 0 {
			return m, m.show(i - 1)
		}
	case key.Matches(msg, m.keys.Press):
		if m.panel.Press() {
			m.playing = false
			m.status = ""
			return m, m.show(0)
		}
	case key.Matches(msg, m.keys.Reset):
		m.playing = false
		m.status = ""
		return m, m.show(0)
	case key.Matches(msg, m.keys.Play):
		m.playing = !m.playing
		m.playGen++
		if m.playing {
			var cmd tea.Cmd
			if m.fig.Active() == m.fig.Steps()-1 {
				cmd = m.show(0)
			}
			return m, tea.Batch(cmd, playTick(m.playGen))
		}
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Export):
		m.exportFrame()
	}
	return m, nil
}

func (m *Model) save() {
	if m.store == nil {
		m.status = "no run store configured"
		return
	}
	id, err := m.store.Save(m.fig.Result())
	if err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + id
}

func (m *Model) exportFrame() {
	step := m.fig.Active()
	path := filepath.Join(m.exportDir, fmt.Sprintf("gdviz_step_%02d.png", step))
	if err := export.SaveStep(m.fig, step, path); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "wrote " + path
}

// frame returns the visible traces with the "w after" marker at its
// animated position.
func (m Model) frame() []figure.Trace {
	traces := m.fig.VisibleTraces()
	idx := 1 + int(figure.RoleAfter)
	if !m.animating || idx >= len(traces) {
		return traces
	}
	t := traces[idx]
	t.X = []float64{m.markerX}
	t.Y = []float64{m.fig.Function().Loss(m.markerX)}
	traces[idx] = t
	return traces
}

func (m Model) View() string {
	left := m.viewControls()
	right := m.viewFigure()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var b strings.Builder
	b.WriteString(body + "\n")
	if m.status != "" {
		b.WriteString(" " + viz.Subtle.Render(m.status) + "\n")
	}
	b.WriteString(" " + m.help.View(m.keys))
	return b.String()
}

func (m Model) viewControls() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render("g d v i z") + "\n\n")

	for i, w := range m.panel.Widgets() {
		label := fmt.Sprintf("%-14s", w.Label())
		value := w.Display()
		if i == m.panel.Focus() {
			b.WriteString(viz.Focused.Render("▸ "+label) + viz.MetricValue.Render(value) + "\n")
		} else {
			b.WriteString("  " + viz.MetricLabel.Render(label) + viz.Subtle.Render(value) + "\n")
		}
		switch s := w.(type) {
		case *widget.FloatSlider:
			b.WriteString("  " + viz.Subtle.Render(viz.SliderBar(s.Fraction(), 22)) + "\n")
		case *widget.IntSlider:
			b.WriteString("  " + viz.Subtle.Render(viz.SliderBar(s.Fraction(), 22)) + "\n")
		}
	}
	b.WriteString("\n")

	if m.state == stateStep {
		b.WriteString(viz.StatusStep.Render("● "+m.state.String()) + "\n")
	} else {
		b.WriteString(viz.StatusReset.Render("○ "+m.state.String()) + "\n")
	}
	if m.playing {
		b.WriteString(viz.StatusStep.Render("▶ autoplay") + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.err.Error()) + "\n")
		return viz.Panel.Width(30).Render(b.String())
	}

	active := m.fig.Active()
	steps := m.fig.Steps()
	b.WriteString(fmt.Sprintf("%s %s\n\n", viz.MetricLabel.Render(fmt.Sprintf("update %d/%d", active+1, steps)),
		viz.ProgressBar(float64(active+1)/float64(steps), 12)))

	if u, err := m.fig.Update(active); err == nil {
		b.WriteString(m.readout(u))
	}

	res := m.fig.Result()
	b.WriteString("\n")
	b.WriteString(metric("final J", res.Metrics[descent.MetricFinalLoss]))
	b.WriteString(metric("flips", res.Metrics[descent.MetricDirectionChanges]))
	if losses := res.Losses(); len(losses) > 0 {
		seen := losses[:min(active+2, len(losses))]
		b.WriteString(viz.MetricLabel.Render("loss ") + viz.Sparkline(seen, 20) + "\n")
	}
	return viz.Panel.Width(30).Render(b.String())
}

func (m Model) readout(u descent.Update) string {
	var b strings.Builder
	b.WriteString(metric("w", u.W0))
	b.WriteString(metric("J(w)", u.J0))
	b.WriteString(metric("dJ/dw", u.Grad))
	b.WriteString(metric("Δ", u.Delta))
	b.WriteString(metric("w'", u.W1))
	b.WriteString(metric("J(w')", u.J1))
	return b.String()
}

func metric(label string, v float64) string {
	return viz.MetricLabel.Render(fmt.Sprintf("%-7s", label)) + viz.MetricValue.Render(fmt.Sprintf("%9.4f", v)) + "\n"
}

func (m Model) viewFigure() string {
	if m.fig == nil {
		return ""
	}
	w := max(40, m.width-44)
	h := max(12, m.height-10)
	return viz.RenderTraces(m.fig, m.frame(), w, h, m.theme)
}

// Run starts the interactive app in the alternate screen.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}
