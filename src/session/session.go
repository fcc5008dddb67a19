// Package session owns the analyser's mutable state: the cached
// dataset, the current reduced series, the active fit and the view
// flags. Every user-facing operation is a synchronous method on
// Session; delivery is assumed serial and the type is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
	"github.com/HelderRocha/LEDs-analyser/src/fit"
	"github.com/HelderRocha/LEDs-analyser/src/logging"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// ErrNoData reports an operation that needs a non-empty reduced series.
var ErrNoData = errors.New("no plotted data")

// Redrawer is the session's view of the rendering layer. FullRedraw
// replots series, fit and overlays; OverlayRedraw refreshes only the
// transient selection rectangle during a drag.
type Redrawer interface {
	FullRedraw()
	OverlayRedraw()
}

// ViewState is the set of render flags. Diff and bands are mutually
// exclusive render targets; activating one replaces the other.
type ViewState struct {
	CurveActive       bool
	DiffActive        bool
	BandsActive       bool
	RectangleActive   bool
	RemovalModeActive bool
}

// Session is one analysis engine instance.
type Session struct {
	store  *dataset.Store
	redraw Redrawer

	series       *reduce.Series
	headers      []string
	axisX, axisY reduce.Selection
	model        *fit.Model
	view         ViewState

	sel selectionEditor
}

// New returns a Session drawing through r.
func New(r Redrawer) *Session {
	return &Session{store: dataset.NewStore(), redraw: r, series: &reduce.Series{}}
}

// Series returns the current reduced series. Never nil.
func (s *Session) Series() *reduce.Series { return s.series }

// Model returns the active fit, or nil when the view is a plain scatter.
func (s *Session) Model() *fit.Model { return s.model }

// View returns the current render flags.
func (s *Session) View() ViewState { return s.view }

// Headers returns the column headers of the currently plotted file.
func (s *Session) Headers() []string { return s.headers }

// AxisX and AxisY return the selections behind the current series.
func (s *Session) AxisX() reduce.Selection { return s.axisX }
func (s *Session) AxisY() reduce.Selection { return s.axisY }

// Plot loads (or reuses) the dataset at path and reduces it into a new
// series. On any failure the previous series, fit and view flags all
// stay untouched.
func (s *Session) Plot(axisY, axisX reduce.Selection, p reduce.Params, path string) error {
	ds, err := s.store.Load(path)
	if err != nil {
		return err
	}
	series, err := reduce.Reduce(ds, axisX, axisY, p)
	if err != nil {
		return err
	}
	s.series = series
	s.headers = ds.Headers
	s.axisX = axisX
	s.axisY = axisY
	s.resetViews()
	s.view.RemovalModeActive = false
	s.sel.reset()
	logging.Infof("session: plotted %d points from %s", series.Len(), path)
	s.full()
	return nil
}

// ToggleLinearFit fits or toggles off the least-squares line.
func (s *Session) ToggleLinearFit() error { return s.toggleFit(fit.Linear) }

// ToggleParabolicFit fits or toggles off the degree-2 polynomial.
func (s *Session) ToggleParabolicFit() error { return s.toggleFit(fit.Parabolic) }

// ToggleHyperbolicFit fits or toggles off the y = a/(x+b) model.
func (s *Session) ToggleHyperbolicFit() error { return s.toggleFit(fit.Hyperbolic) }

// toggleFit implements the shared toggle contract: re-invoking the
// active family reverts to the plain scatter; invoking any family
// refits from the current reduced series, never from a previous fit.
func (s *Session) toggleFit(kind fit.Kind) error {
	if s.model != nil && s.model.Kind == kind {
		s.resetViews()
		logging.Debugf("session: %s fit toggled off", kind)
		s.full()
		return nil
	}
	var (
		m   *fit.Model
		err error
	)
	switch kind {
	case fit.Linear:
		m, err = fit.FitLinear(s.series.X, s.series.Y)
	case fit.Parabolic:
		m, err = fit.FitParabolic(s.series.X, s.series.Y)
	case fit.Hyperbolic:
		m, err = fit.FitHyperbolic(s.series.X, s.series.Y, s.axisY.IsDistance())
	default:
		return fmt.Errorf("unknown fit kind %d", kind)
	}
	if err != nil {
		return err
	}
	s.model = m
	s.view.CurveActive = true
	s.view.DiffActive = false
	s.view.BandsActive = false
	logging.Debugf("session: %s fit active, residual stddev %.6g", kind, m.ResidualStdDev)
	s.full()
	return nil
}

// ToggleBands shows or hides the ±1,2,3 sigma curves. No-op without an
// active fit. Turning bands on replaces an active diff view.
func (s *Session) ToggleBands() {
	if s.model == nil {
		return
	}
	if s.view.BandsActive {
		s.view.BandsActive = false
	} else {
		s.view.BandsActive = true
		s.view.DiffActive = false
	}
	s.full()
}

// ToggleDiff shows or hides the residual view. No-op without an active
// fit. Turning diff on replaces active bands; toggling off restores the
// prior scatter-plus-curve view.
func (s *Session) ToggleDiff() {
	if s.model == nil {
		return
	}
	if s.view.DiffActive {
		s.view.DiffActive = false
	} else {
		s.view.DiffActive = true
		s.view.BandsActive = false
	}
	s.full()
}

// Bands returns the sigma bands of the active fit, or nil.
func (s *Session) Bands() []fit.Band { return fit.Bands(s.model) }

// Residuals returns the diff-view series of the active fit, or nil.
func (s *Session) Residuals() []float64 {
	if s.model == nil {
		return nil
	}
	return fit.Residuals(s.series.Y, s.model.Predicted)
}

// resetViews drops the fit and every derived view, leaving the plain
// scatter. Removal mode and the selection machine are not touched.
func (s *Session) resetViews() {
	s.model = nil
	s.view.CurveActive = false
	s.view.DiffActive = false
	s.view.BandsActive = false
	s.view.RectangleActive = false
}

func (s *Session) full() {
	if s.redraw != nil {
		s.redraw.FullRedraw()
	}
}

func (s *Session) overlay() {
	if s.redraw != nil {
		s.redraw.OverlayRedraw()
	}
}
