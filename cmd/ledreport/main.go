// ledreport is the headless companion of the viewer: it reduces one
// acquisition CSV, optionally fits a curve, and writes PNG, PDF or XLSX
// artifacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HelderRocha/LEDs-analyser/src/config"
	"github.com/HelderRocha/LEDs-analyser/src/dataset"
	"github.com/HelderRocha/LEDs-analyser/src/fit"
	"github.com/HelderRocha/LEDs-analyser/src/logging"
	"github.com/HelderRocha/LEDs-analyser/src/plotting"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
	"github.com/HelderRocha/LEDs-analyser/src/report"
)

var (
	xSpec      string
	ySpec      string
	step       float64
	binSize    int
	fitName    string
	withBands  bool
	pngPath    string
	pdfPath    string
	xlsxPath   string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledreport [input.csv]",
		Short: "Reduce an LED acquisition CSV and export chart reports",
		Long: `ledreport bins an acquisition CSV into a reduced series, optionally
fits a linear, parabolic or hyperbolic model, and exports the result as
a PNG chart, a PDF report or an XLSX dump.

Axis specs use the viewer's vocabulary: temp, time, position,
led<i>,row, led<i>,col, or led<i>-led<j> for a two-LED distance.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&xSpec, "x", "position", "X axis spec")
	rootCmd.Flags().StringVar(&ySpec, "y", "temp", "Y axis spec")
	rootCmd.Flags().Float64Var(&step, "step", 0, "Position increment per bin (default from config)")
	rootCmd.Flags().IntVar(&binSize, "n", 0, "Rows averaged per point (default from config)")
	rootCmd.Flags().StringVar(&fitName, "fit", "none", "Fit family: none, linear, parabolic, hyperbolic")
	rootCmd.Flags().BoolVar(&withBands, "bands", false, "Draw the ±1,2,3 sigma bands (needs a fit)")
	rootCmd.Flags().StringVar(&pngPath, "png", "", "Write the chart as PNG to this path")
	rootCmd.Flags().StringVar(&pdfPath, "pdf", "", "Write a one-page PDF report to this path")
	rootCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the reduced series as XLSX to this path")
	rootCmd.Flags().StringVar(&configPath, "config", "analyser.yaml", "Configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if pngPath == "" && pdfPath == "" && xlsxPath == "" {
		return fmt.Errorf("nothing to do: pass at least one of --png, --pdf, --xlsx")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	if step == 0 {
		step = cfg.DefaultStep
	}
	if binSize == 0 {
		binSize = cfg.DefaultBinSize
	}

	xSel, err := parseAxisSpec(xSpec)
	if err != nil {
		return err
	}
	ySel, err := parseAxisSpec(ySpec)
	if err != nil {
		return err
	}

	ds, err := dataset.ReadFile(args[0])
	if err != nil {
		return err
	}
	series, err := reduce.Reduce(ds, xSel, ySel, reduce.Params{Step: step, N: binSize, OutlierRatio: cfg.OutlierRatio})
	if err != nil {
		return err
	}
	logging.Infof("ledreport: %d rows reduced to %d points", ds.Rows(), series.Len())

	var model *fit.Model
	switch fitName {
	case "none", "":
	case "linear":
		model, err = fit.FitLinear(series.X, series.Y)
	case "parabolic":
		model, err = fit.FitParabolic(series.X, series.Y)
	case "hyperbolic":
		model, err = fit.FitHyperbolic(series.X, series.Y, ySel.IsDistance())
	default:
		return fmt.Errorf("invalid fit %q (must be none, linear, parabolic or hyperbolic)", fitName)
	}
	if err != nil {
		return fmt.Errorf("fit %s: %w", fitName, err)
	}
	if withBands && model == nil {
		return fmt.Errorf("--bands needs a fit family")
	}

	view := plotting.View{
		Series:    series,
		Model:     model,
		ShowBands: withBands,
		Title:     filepath.Base(args[0]),
		XLabel:    plotting.AxisLabel(xSel, ds.Headers),
		YLabel:    plotting.AxisLabel(ySel, ds.Headers),
	}
	opts := plotting.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height}
	sum := report.Summary{
		SourcePath: args[0],
		XLabel:     view.XLabel,
		YLabel:     view.YLabel,
		Step:       step,
		BinSize:    binSize,
	}

	if pngPath != "" {
		if err := report.WritePNG(pngPath, view, opts); err != nil {
			return err
		}
		logging.Infof("ledreport: wrote %s", pngPath)
	}
	if pdfPath != "" {
		if err := report.WritePDF(pdfPath, sum, view, opts); err != nil {
			return err
		}
		logging.Infof("ledreport: wrote %s", pdfPath)
	}
	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, series, model); err != nil {
			return err
		}
		logging.Infof("ledreport: wrote %s", xlsxPath)
	}
	return nil
}
