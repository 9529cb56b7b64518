package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	dataDir      string
	verbose      bool
	configFile   string
	preset       string
	function     string
	learningRate float64
	start        float64
	steps        int
	offset       float64
	theme        string

	// run
	saveRun bool

	// figure
	figFormat string
	figOut    string

	// render
	renderStep   int
	renderOut    string
	renderAll    string
	renderFormat string

	// sweep
	sweepStarts bool
)

// main wires the gdviz commands and runs the interactive figure when no
// subcommand is given. It exits with status 1 on error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "gdviz",
		Short:             "step through gradient descent on a 1-d loss",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory (default from config, then .gdviz)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVarP(&function, "function", "f", "Convex", "loss function (Convex, Non-Convex)")
	pf.Float64Var(&learningRate, "lr", 0.05, "learning rate")
	pf.Float64Var(&start, "start", -1.5, "starting w")
	pf.IntVarP(&steps, "steps", "n", 10, "number of updates")
	pf.Float64Var(&offset, "offset", 1.0, "constant added to the non-convex loss")
	pf.StringVar(&theme, "theme", "classic", "colour theme")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive figure with widgets",
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run gradient descent and print every update",
		RunE:  runDescent,
	}
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	figureCmd := &cobra.Command{
		Use:   "figure",
		Short: "write the plotly figure as json or html",
		RunE:  writeFigure,
	}
	figureCmd.Flags().StringVar(&figFormat, "format", "json", "output format (json, html)")
	figureCmd.Flags().StringVarP(&figOut, "output", "o", "", "output file (default stdout)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render slider steps to image files",
		RunE:  renderImages,
	}
	renderCmd.Flags().IntVar(&renderStep, "step", 0, "slider step to render")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "gdviz.png", "output image (.png, .svg, .pdf, .jpg)")
	renderCmd.Flags().StringVar(&renderAll, "all", "", "render every step into this directory")
	renderCmd.Flags().StringVar(&renderFormat, "format", "png", "image format for --all")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run updates as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	functionsCmd := &cobra.Command{
		Use:   "functions",
		Short: "list loss functions and check their gradients",
		RunE:  listFunctions,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare every learning rate on the slider grid",
		RunE:  sweepRates,
	}
	sweepCmd.Flags().BoolVar(&sweepStarts, "starts", false, "also sweep every start on the slider grid")

	rootCmd.AddCommand(tuiCmd, runCmd, figureCmd, renderCmd, plotCmd, listCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, functionsCmd, initConfigCmd, sweepCmd)
	return rootCmd
}
