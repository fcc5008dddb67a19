// ledviewer is the interactive LED curve analyser: it loads acquisition
// CSVs, reduces them into a scatter, fits curves and lets the operator
// carve away bad points with a rubber-band rectangle.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"path/filepath"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/HelderRocha/LEDs-analyser/src/config"
	"github.com/HelderRocha/LEDs-analyser/src/logging"
	"github.com/HelderRocha/LEDs-analyser/src/plotting"
	"github.com/HelderRocha/LEDs-analyser/src/report"
	"github.com/HelderRocha/LEDs-analyser/src/session"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config

	sess *session.Session

	files       []dataFile
	currentFile string

	xPanel, yPanel *axisPanel
	stepEntry      *widget.Entry
	fileLabel      *widget.Label
	statusLabel    *widget.Label

	chartImg   *canvas.Image
	overlay    *selectionOverlay
	lastRender *plotting.Result
}

// FullRedraw re-renders the chart from the session state.
func (s *uiState) FullRedraw() {
	res, err := plotting.Render(s.currentView(), plotting.Options{Width: s.cfg.Chart.Width, Height: s.cfg.Chart.Height})
	if err != nil {
		logging.Errorf("viewer: render failed: %v", err)
		return
	}
	s.lastRender = res
	s.chartImg.Image = res.Image
	s.chartImg.Refresh()
	s.OverlayRedraw()
	s.updateStatus()
}

// OverlayRedraw refreshes only the rubber-band rectangle.
func (s *uiState) OverlayRedraw() {
	if s.overlay != nil {
		s.overlay.Refresh()
	}
}

var _ session.Redrawer = (*uiState)(nil)

func (s *uiState) updateStatus() {
	text := fmt.Sprintf("%d points", s.sess.Series().Len())
	if m := s.sess.Model(); m != nil {
		text += fmt.Sprintf(" · %s fit, SD %.6g", m.Kind, m.ResidualStdDev)
	}
	view := s.sess.View()
	if view.DiffActive {
		text += " · diff"
	}
	if view.BandsActive {
		text += " · bands"
	}
	if view.RemovalModeActive {
		text += " · REMOVE: drag a rectangle"
	}
	s.statusLabel.SetText(text)
}

func (s *uiState) fail(err error) {
	logging.Errorf("viewer: %v", err)
	dialog.ShowError(err, s.window)
}

// plotNow validates the axis picks and the step/n entry, then plots.
func (s *uiState) plotNow() {
	if s.currentFile == "" {
		s.fail(errors.New("no data file selected"))
		return
	}
	yc, xc := s.yPanel.Choice(), s.xPanel.Choice()
	if !yc.Valid() || !xc.Valid() {
		s.fail(errors.New("pick a valid combination on both axes: two LEDs, one LED with row/col, or one scalar channel"))
		return
	}
	ySel, err := yc.Selection()
	if err != nil {
		s.fail(err)
		return
	}
	xSel, err := xc.Selection()
	if err != nil {
		s.fail(err)
		return
	}
	step, n, err := parseStepN(s.stepEntry.Text)
	if err != nil {
		s.fail(err)
		return
	}
	p := reduceParams(s.cfg, step, n)
	if err := s.sess.Plot(ySel, xSel, p, s.currentFile); err != nil {
		s.fail(err)
	}
}

func (s *uiState) toggleFit(do func() error) {
	if err := do(); err != nil {
		s.fail(err)
		return
	}
}

func (s *uiState) toggleRemoval() {
	if err := s.sess.EnterRemovalMode(); err != nil {
		s.fail(err)
		return
	}
	s.OverlayRedraw()
	s.updateStatus()
}

func (s *uiState) rescanFiles(list *widget.List) {
	files, err := listDataFiles(s.cfg.DataDir)
	if err != nil {
		s.fail(err)
		return
	}
	s.files = files
	list.Refresh()
}

func (s *uiState) currentView() plotting.View {
	return plotting.View{
		Series:    s.sess.Series(),
		Model:     s.sess.Model(),
		ShowBands: s.sess.View().BandsActive,
		ShowDiff:  s.sess.View().DiffActive,
		Title:     filepath.Base(s.currentFile),
		XLabel:    plotting.AxisLabel(s.sess.AxisX(), s.sess.Headers()),
		YLabel:    plotting.AxisLabel(s.sess.AxisY(), s.sess.Headers()),
	}
}

func (s *uiState) summary() report.Summary {
	step, n, err := parseStepN(s.stepEntry.Text)
	if err != nil {
		step, n = s.cfg.DefaultStep, s.cfg.DefaultBinSize
	}
	return report.Summary{
		SourcePath: s.currentFile,
		XLabel:     plotting.AxisLabel(s.sess.AxisX(), s.sess.Headers()),
		YLabel:     plotting.AxisLabel(s.sess.AxisY(), s.sess.Headers()),
		Step:       step,
		BinSize:    n,
	}
}

// exportTo runs a file-save dialog and hands the chosen path to write.
func (s *uiState) exportTo(defaultName string, write func(path string) error) {
	if s.sess.Series().Len() == 0 {
		dialog.ShowInformation("Export", "Nothing plotted yet.", s.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		if err := write(path); err != nil {
			s.fail(err)
			return
		}
		logging.Infof("viewer: exported %s", path)
	}, s.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func (s *uiState) exportPNG() {
	s.exportTo("chart.png", func(path string) error {
		return report.WritePNG(path, s.currentView(), plotting.Options{Width: s.cfg.Chart.Width, Height: s.cfg.Chart.Height})
	})
}

func (s *uiState) exportPDF() {
	s.exportTo("report.pdf", func(path string) error {
		return report.WritePDF(path, s.summary(), s.currentView(), plotting.Options{Width: s.cfg.Chart.Width, Height: s.cfg.Chart.Height})
	})
}

func (s *uiState) exportXLSX() {
	s.exportTo("series.xlsx", func(path string) error {
		return report.WriteXLSX(path, s.sess.Series(), s.sess.Model())
	})
}

func main() {
	var configFlag, dirFlag string
	flag.StringVar(&configFlag, "config", "analyser.yaml", "Path to the configuration file")
	flag.StringVar(&dirFlag, "dir", "", "Data directory (overrides the configuration)")
	flag.Parse()

	cfg, err := config.Load(configFlag)
	if err != nil {
		logging.Warnf("viewer: %v, continuing with defaults", err)
	}
	if dirFlag != "" {
		cfg.DataDir = dirFlag
	}
	logging.SetLevel(cfg.LogLevel)

	a := app.NewWithID("com.ledsanalyser.viewer")
	w := a.NewWindow("LED Curve Analyser")
	w.Resize(fyne.NewSize(1200, 760))

	state := &uiState{app: a, window: w, cfg: cfg}
	state.sess = session.New(state)

	state.fileLabel = widget.NewLabel("no file")
	state.statusLabel = widget.NewLabel("0 points")
	state.stepEntry = widget.NewEntry()
	state.stepEntry.SetText(formatStepN(cfg.DefaultStep, cfg.DefaultBinSize))
	state.stepEntry.SetPlaceHolder("step | n")

	state.chartImg = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.chartImg.FillMode = canvas.ImageFillContain
	state.overlay = newSelectionOverlay(state)

	state.xPanel = newAxisPanel("X axis", nil)
	state.yPanel = newAxisPanel("Y axis", nil)

	fileList := widget.NewList(
		func() int { return len(state.files) },
		func() fyne.CanvasObject { return widget.NewLabel("file") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(state.files[i].Label())
		},
	)
	fileList.OnSelected = func(i widget.ListItemID) {
		state.currentFile = state.files[i].Path
		state.fileLabel.SetText(truncatePath(state.currentFile, 48))
		if step, n, ok := stepNFromFilename(state.currentFile); ok {
			state.stepEntry.SetText(formatStepN(step, n))
		}
	}
	state.rescanFiles(fileList)

	plotBtn := widget.NewButton("Plot", state.plotNow)
	linearBtn := widget.NewButton("Linear Fit", func() { state.toggleFit(state.sess.ToggleLinearFit) })
	parabolicBtn := widget.NewButton("Parabolic Fit", func() { state.toggleFit(state.sess.ToggleParabolicFit) })
	hyperbolicBtn := widget.NewButton("Hyperbolic Fit", func() { state.toggleFit(state.sess.ToggleHyperbolicFit) })
	bandsBtn := widget.NewButton("Std-dev Bands", func() { state.sess.ToggleBands(); state.updateStatus() })
	diffBtn := widget.NewButton("Diff", func() { state.sess.ToggleDiff(); state.updateStatus() })
	removeBtn := widget.NewButton("Remove Points", state.toggleRemoval)

	side := container.NewVBox(
		state.fileLabel,
		widget.NewLabel("step | n"),
		state.stepEntry,
		plotBtn,
		widget.NewSeparator(),
		linearBtn, parabolicBtn, hyperbolicBtn,
		bandsBtn, diffBtn,
		widget.NewSeparator(),
		removeBtn,
	)
	axes := container.NewHBox(state.yPanel.box, state.xPanel.box)
	left := container.NewBorder(nil, axes, nil, nil, fileList)

	chartStack := container.NewStack(state.chartImg, state.overlay)
	center := container.NewBorder(nil, state.statusLabel, nil, nil, chartStack)
	w.SetContent(container.NewBorder(nil, nil, container.NewHBox(left, side), nil, center))

	buildMenus(state, fileList)
	installShortcuts(state)

	state.FullRedraw()
	w.ShowAndRun()
}

func buildMenus(state *uiState, fileList *widget.List) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Rescan Data Dir", func() { state.rescanFiles(fileList) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart PNG…", state.exportPNG),
		fyne.NewMenuItem("Export Report PDF…", state.exportPDF),
		fyne.NewMenuItem("Export Series XLSX…", state.exportXLSX),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	analyseMenu := fyne.NewMenu("Analyse",
		fyne.NewMenuItem("Plot", state.plotNow),
		fyne.NewMenuItem("Clear Axes", func() { state.yPanel.Clear(); state.xPanel.Clear() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Linear Fit", func() { state.toggleFit(state.sess.ToggleLinearFit) }),
		fyne.NewMenuItem("Parabolic Fit", func() { state.toggleFit(state.sess.ToggleParabolicFit) }),
		fyne.NewMenuItem("Hyperbolic Fit", func() { state.toggleFit(state.sess.ToggleHyperbolicFit) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Std-dev Bands", func() { state.sess.ToggleBands(); state.updateStatus() }),
		fyne.NewMenuItem("Diff", func() { state.sess.ToggleDiff(); state.updateStatus() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Remove Points", state.toggleRemoval),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, analyseMenu))
}

// installShortcuts binds the keyboard accelerators, on both Control and
// Super so macOS behaves.
func installShortcuts(state *uiState) {
	canv := state.window.Canvas()
	if canv == nil {
		return
	}
	bind := func(key fyne.KeyName, fn func()) {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { fn() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { fn() })
	}
	bind(fyne.KeyP, state.plotNow)
	bind(fyne.KeyL, func() { state.toggleFit(state.sess.ToggleLinearFit) })
	bind(fyne.KeyQ, func() { state.toggleFit(state.sess.ToggleParabolicFit) })
	bind(fyne.KeyH, func() { state.toggleFit(state.sess.ToggleHyperbolicFit) })
	bind(fyne.KeyR, state.toggleRemoval)
	bind(fyne.KeyD, func() { state.sess.ToggleDiff(); state.updateStatus() })
	bind(fyne.KeyS, func() { state.sess.ToggleBands(); state.updateStatus() })
}
