package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/loss"
	"github.com/san-kum/gdviz/internal/widget"
)

const (
	DefaultFunction     = loss.ConvexName
	DefaultLearningRate = 0.05
	DefaultStart        = -1.5
	DefaultSteps        = 10
	DefaultTheme        = "classic"
	DefaultDataDir      = ".gdviz"
)

type Config struct {
	Function        string  `yaml:"function"`
	LearningRate    float64 `yaml:"learning_rate"`
	Start           float64 `yaml:"start"`
	Steps           int     `yaml:"steps"`
	NonConvexOffset float64 `yaml:"nonconvex_offset"`
	Theme           string  `yaml:"theme"`
	DataDir         string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Function:        DefaultFunction,
		LearningRate:    DefaultLearningRate,
		Start:           DefaultStart,
		Steps:           DefaultSteps,
		NonConvexOffset: loss.DefaultOffset,
		Theme:           DefaultTheme,
		DataDir:         DefaultDataDir,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the config against the ranges and grids of the
// interactive controls, so that anything the CLI accepts can also be shown
// in the UI.
func (c *Config) Validate() error {
	if _, err := loss.Get(c.Function); err != nil {
		return err
	}
	if err := checkSlider("start", widget.NewStartSlider(), c.Start); err != nil {
		return err
	}
	if err := checkSlider("learning rate", widget.NewLearningRateSlider(), c.LearningRate); err != nil {
		return err
	}
	if s := widget.NewUpdatesSlider(); !s.Contains(c.Steps) {
		return fmt.Errorf("%w: steps %d outside [%d, %d]", descent.ErrParameterBounds, c.Steps, s.Min, s.Max)
	}
	return nil
}

func checkSlider(name string, s *widget.FloatSlider, v float64) error {
	if !s.Contains(v) {
		return fmt.Errorf("%w: %s %g outside [%g, %g]", descent.ErrParameterBounds, name, v, s.Min, s.Max)
	}
	if math.Abs(s.Snap(v)-v) > 1e-9 {
		return fmt.Errorf("%w: %s %g not a multiple of %g from %g", descent.ErrParameterBounds, name, v, s.Step, s.Min)
	}
	return nil
}

// LossFunction resolves the configured function, applying the offset to
// the non-convex variant.
func (c *Config) LossFunction() (loss.Function, error) {
	fn, err := loss.Get(c.Function)
	if err != nil {
		return nil, err
	}
	if nc, ok := fn.(*loss.NonConvex); ok {
		nc.Offset = c.NonConvexOffset
	}
	return fn, nil
}

func (c *Config) DescentConfig() descent.Config {
	return descent.Config{
		LearningRate: c.LearningRate,
		Start:        c.Start,
		Steps:        c.Steps,
	}
}

// Controls returns widgets initialised from the config. Values outside a
// widget's range are clamped.
func (c *Config) Controls() *widget.Controls {
	ctl := widget.NewControls()
	if fn, err := loss.Get(c.Function); err == nil {
		ctl.Function.Select(fn.Name())
	}
	ctl.Start.Set(c.Start)
	ctl.LearningRate.Set(c.LearningRate)
	ctl.Updates.Set(c.Steps)
	return ctl
}

// FromControls copies widget values back into a config.
func (c *Config) FromControls(ctl *widget.Controls) {
	c.Function = ctl.Function.Value()
	c.Start = ctl.Start.Value
	c.LearningRate = ctl.LearningRate.Value
	c.Steps = ctl.Updates.Value
}
