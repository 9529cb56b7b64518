package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gdviz/internal/config"
	"github.com/san-kum/gdviz/internal/descent"
	"github.com/san-kum/gdviz/internal/export"
	"github.com/san-kum/gdviz/internal/figure"
	"github.com/san-kum/gdviz/internal/loss"
	"github.com/san-kum/gdviz/internal/optim"
	"github.com/san-kum/gdviz/internal/storage"
	"github.com/san-kum/gdviz/internal/tui"
	"github.com/san-kum/gdviz/internal/widget"
)

func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
	return nil
}

// resolveConfig builds the effective config: explicit flags win over the
// config file, which wins over the preset, which wins over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("function") {
		cfg.Function = function
	}
	if flags.Changed("lr") {
		cfg.LearningRate = learningRate
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("offset") {
		cfg.NonConvexOffset = offset
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	slog.Debug("config resolved", "function", cfg.Function, "lr", cfg.LearningRate,
		"start", cfg.Start, "steps", cfg.Steps, "preset", preset, "file", configFile)
	return cfg, nil
}

// storeFor opens the run store named by --data, else the config file's
// data_dir, else the default.
func storeFor(cmd *cobra.Command) *storage.Store {
	dir := config.DefaultDataDir
	if configFile != "" {
		if cfg, err := config.Load(configFile); err == nil && cfg.DataDir != "" {
			dir = cfg.DataDir
		}
	}
	if cmd.Flags().Changed("data") {
		dir = dataDir
	}
	return storage.New(dir)
}

func buildFigure(cmd *cobra.Command, cfg *config.Config) (*figure.Figure, error) {
	fn, err := cfg.LossFunction()
	if err != nil {
		return nil, err
	}
	return figure.New(cmd.Context(), fn, cfg.DescentConfig())
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Config: cfg,
		Store:  storage.New(cfg.DataDir),
	})
}

func runDescent(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fn, err := cfg.LossFunction()
	if err != nil {
		return err
	}

	d := descent.New(fn)
	d.AddObserver(descent.ObserverFunc(func(u descent.Update) {
		slog.Debug("update", "step", u.Index, "w0", u.W0, "grad", u.Grad, "w1", u.W1, "j1", u.J1)
	}))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, learning rate %.2f, start %.2f, %d updates\n\n",
		fn.Name(), cfg.LearningRate, cfg.Start, cfg.Steps)

	result, err := d.Run(cmd.Context(), cfg.DescentConfig())
	if result != nil {
		if werr := printUpdates(out, result); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	if losses := result.Losses(); len(losses) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(losses,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("loss per update"),
		))
	}

	fmt.Fprintln(out, "\nmetrics:")
	printMetrics(out, result.Metrics)

	if saveRun {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nrun id: %s\n", runID)
	}
	return nil
}

func printUpdates(out io.Writer, result *descent.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "STEP\tW0\tJ(W0)\tDJ/DW\tDELTA\tW1\tJ(W1)\t")
	for _, u := range result.Updates {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			u.Index, u.W0, u.J0, u.Grad, u.Delta, u.W1, u.J1)
	}
	return w.Flush()
}

func printMetrics(out io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, metrics[name])
	}
}

func writeFigure(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fig, err := buildFigure(cmd, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if figOut != "" {
		f, err := os.Create(figOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(figFormat) {
	case "json":
		err = fig.WriteJSON(out)
	case "html":
		err = fig.WriteHTML(out)
	default:
		return fmt.Errorf("unknown figure format: %s (available: json, html)", figFormat)
	}
	if err != nil {
		return err
	}
	if figOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", figOut)
	}
	return nil
}

func renderImages(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fig, err := buildFigure(cmd, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if renderAll != "" {
		paths, err := export.SaveAll(fig, renderAll, renderFormat)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d images to %s\n", len(paths), renderAll)
		return nil
	}

	if err := export.SaveStep(fig, renderStep, renderOut); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", renderOut)
	return nil
}

// initConfig writes the effective config, so a preset tweaked with flags
// can be reloaded with --config.
func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storeFor(cmd)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.Updates) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "function: %s\n", meta.Function)
	fmt.Fprintf(out, "updates: %d\n\n", len(result.Updates))

	series := []struct {
		data    []float64
		caption string
	}{
		{result.Positions(), "w per update"},
		{result.Losses(), "loss per update"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(s.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storeFor(cmd)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFUNCTION\tTIME\tLR\tSTART\tSTEPS\tFINAL LOSS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%d\t%.4f\n",
			run.ID,
			run.Function,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.LearningRate,
			run.Start,
			run.Steps,
			run.Metrics[descent.MetricFinalLoss],
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storeFor(cmd)
	updates, err := st.LoadUpdates(args[0])
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	if err := storage.WriteUpdatesCSV(w, updates); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storeFor(cmd).ExportJSON(cmd.OutOrStdout(), args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFUNCTION\tLR\tSTART\tSTEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%d\n", name, p.Function, p.LearningRate, p.Start, p.Steps)
	}
	return w.Flush()
}

func listFunctions(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FUNCTION\tW\tANALYTIC\tNUMERIC\tABS ERROR")
	for _, name := range loss.Names() {
		fn, err := loss.Get(name)
		if err != nil {
			return err
		}
		for _, x := range []float64{-1.5, 0, 1.5} {
			g := loss.CheckGradient(fn, x)
			fmt.Fprintf(w, "%s\t%.2f\t%.6f\t%.6f\t%.2e\n", fn.Name(), g.W, g.Analytic, g.Numeric, g.AbsError())
		}
	}
	return w.Flush()
}

func sweepRates(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fn, err := cfg.LossFunction()
	if err != nil {
		return err
	}

	starts := []float64{cfg.Start}
	if sweepStarts {
		starts = optim.Grid(widget.NewStartSlider())
	}
	rates := optim.Grid(widget.NewLearningRateSlider())

	points, err := optim.NewGridSearch(fn, cfg.Steps, rates, starts).Search(cmd.Context())
	if err != nil {
		return err
	}
	best, ok := optim.Best(points)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %d updates, %d learning rates x %d starts\n\n", fn.Name(), cfg.Steps, len(rates), len(starts))

	shown := points
	if sweepStarts {
		shown = optim.Rank(points)
		shown = shown[:min(10, len(shown))]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LR\tSTART\tFINAL W\tFINAL LOSS\tFLIPS\t")
	for _, p := range shown {
		mark := ""
		if ok && p.LearningRate == best.LearningRate && p.Start == best.Start {
			mark = "*"
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%.2f\t%.2f\tdiverged\t\t\t\n", p.LearningRate, p.Start)
			continue
		}
		fmt.Fprintf(w, "%.2f\t%.2f\t%.4f\t%.4f\t%.0f\t%s\n", p.LearningRate, p.Start,
			p.FinalW, p.FinalLoss, p.Metrics[descent.MetricDirectionChanges], mark)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !sweepStarts {
		finals := make([]float64, 0, len(points))
		for _, p := range points {
			if !math.IsInf(p.FinalLoss, 0) {
				finals = append(finals, p.FinalLoss)
			}
		}
		if len(finals) > 1 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(finals,
				asciigraph.Height(8),
				asciigraph.Width(60),
				asciigraph.Caption("final loss by learning rate"),
			))
		}
	}

	if ok {
		fmt.Fprintf(out, "\nbest: lr %.2f from %.2f, final loss %.6f\n", best.LearningRate, best.Start, best.FinalLoss)
	}
	return nil
}
