package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
	"github.com/HelderRocha/LEDs-analyser/src/fit"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// countingRedrawer records how often each redraw path fires.
type countingRedrawer struct {
	full, overlay int
}

func (c *countingRedrawer) FullRedraw()    { c.full++ }
func (c *countingRedrawer) OverlayRedraw() { c.overlay++ }

// writeRows writes a CSV whose temperature column ramps linearly, one
// value per row, so a step-1 n-1 reduction reproduces it exactly.
func writeRows(t *testing.T, temps []float64) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("led1r,led1c,led2r,led2c,led3r,led3c,led4r,led4c,temp,time\n")
	for i, v := range temps {
		sb.WriteString(fmt.Sprintf("0,0,3,4,0,0,0,0,%g,%d\n", v, i))
	}
	path := filepath.Join(t.TempDir(), "run.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func plotTemps(t *testing.T, s *Session, temps []float64) {
	t.Helper()
	path := writeRows(t, temps)
	err := s.Plot(reduce.Selection{dataset.ColTemperature}, reduce.Selection{dataset.ColPosition},
		reduce.Params{Step: 1, N: 1}, path)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
}

func TestPlotBuildsSeriesAndRedraws(t *testing.T) {
	rd := &countingRedrawer{}
	s := New(rd)
	plotTemps(t, s, []float64{10, 11, 12, 13})

	if s.Series().Len() != 4 {
		t.Fatalf("expected 4 points got %d", s.Series().Len())
	}
	if rd.full != 1 {
		t.Fatalf("expected 1 full redraw got %d", rd.full)
	}
	if s.Model() != nil || s.View() != (ViewState{}) {
		t.Fatalf("fresh plot must start as a plain scatter: model=%v view=%+v", s.Model(), s.View())
	}
}

func TestPlotFailureLeavesStateUntouched(t *testing.T) {
	rd := &countingRedrawer{}
	s := New(rd)
	plotTemps(t, s, []float64{10, 11, 12})
	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	fullBefore := rd.full

	err := s.Plot(reduce.Selection{dataset.ColTemperature}, reduce.Selection{dataset.ColPosition},
		reduce.Params{Step: 1, N: 1}, filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatalf("expected load error")
	}
	if s.Series().Len() != 3 || s.Model() == nil || !s.View().CurveActive {
		t.Fatalf("failed plot must not disturb the session")
	}
	if rd.full != fullBefore {
		t.Fatalf("failed plot must not redraw")
	}

	// A reduction failure after a successful load must behave the same.
	path := writeRows(t, []float64{1, 2})
	err = s.Plot(reduce.Selection{12}, reduce.Selection{dataset.ColPosition},
		reduce.Params{Step: 1, N: 1}, path)
	if !errors.Is(err, reduce.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange got %v", err)
	}
	if s.Series().Len() != 3 || s.Model() == nil {
		t.Fatalf("failed reduce must not disturb the session")
	}
}

func TestToggleFitOnAndOff(t *testing.T) {
	rd := &countingRedrawer{}
	s := New(rd)
	plotTemps(t, s, []float64{3, 5, 7, 9}) // y = 2x + 3

	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("fit on: %v", err)
	}
	m := s.Model()
	if m == nil || m.Kind != fit.Linear {
		t.Fatalf("expected linear model, got %+v", m)
	}
	if !s.View().CurveActive {
		t.Fatalf("curve flag not set")
	}

	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("fit off: %v", err)
	}
	if s.Model() != nil || s.View().CurveActive {
		t.Fatalf("second toggle must return to plain scatter")
	}
	if rd.full != 3 { // plot, fit on, fit off
		t.Fatalf("expected 3 full redraws got %d", rd.full)
	}
}

func TestToggleFitSwitchesFamily(t *testing.T) {
	s := New(&countingRedrawer{})
	plotTemps(t, s, []float64{3, 5, 7, 9})

	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("linear: %v", err)
	}
	if err := s.ToggleParabolicFit(); err != nil {
		t.Fatalf("parabolic: %v", err)
	}
	if s.Model() == nil || s.Model().Kind != fit.Parabolic {
		t.Fatalf("expected direct switch to parabolic, got %+v", s.Model())
	}
}

func TestHyperbolicNeedsDistanceAxis(t *testing.T) {
	s := New(&countingRedrawer{})
	plotTemps(t, s, []float64{10, 11, 12})

	if err := s.ToggleHyperbolicFit(); !errors.Is(err, fit.ErrInvalidModel) {
		t.Fatalf("temperature axis: expected ErrInvalidModel got %v", err)
	}
	if s.Model() != nil {
		t.Fatalf("failed fit must not install a model")
	}

	// A growing LED separation gives a nonzero, non-constant distance
	// axis, so the hyperbolic preconditions hold.
	var sb strings.Builder
	sb.WriteString("led1r,led1c,led2r,led2c,led3r,led3c,led4r,led4c,temp,time\n")
	for i := 1; i <= 4; i++ {
		sb.WriteString(fmt.Sprintf("0,0,%d,%d,0,0,0,0,20,%d\n", 3*i, 4*i, i))
	}
	path := filepath.Join(t.TempDir(), "dist.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	err := s.Plot(reduce.Selection{0, 2}, reduce.Selection{dataset.ColPosition},
		reduce.Params{Step: 1, N: 1}, path)
	if err != nil {
		t.Fatalf("plot distance: %v", err)
	}
	if err := s.ToggleHyperbolicFit(); err != nil {
		t.Fatalf("hyperbolic on distance axis: %v", err)
	}
	if s.Model().Kind != fit.Hyperbolic {
		t.Fatalf("expected hyperbolic model got %v", s.Model().Kind)
	}
}

func TestBandsAndDiffAreExclusive(t *testing.T) {
	rd := &countingRedrawer{}
	s := New(rd)
	plotTemps(t, s, []float64{3, 5, 7, 9})

	// Without a fit both toggles are inert.
	s.ToggleBands()
	s.ToggleDiff()
	if s.View().BandsActive || s.View().DiffActive {
		t.Fatalf("toggles must be no-ops without a fit")
	}
	if rd.full != 1 {
		t.Fatalf("no-op toggles must not redraw, got %d full redraws", rd.full)
	}

	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	s.ToggleBands()
	if !s.View().BandsActive {
		t.Fatalf("bands not activated")
	}
	s.ToggleDiff()
	if s.View().BandsActive || !s.View().DiffActive {
		t.Fatalf("diff must replace bands: %+v", s.View())
	}
	s.ToggleBands()
	if s.View().DiffActive || !s.View().BandsActive {
		t.Fatalf("bands must replace diff: %+v", s.View())
	}
	s.ToggleBands()
	if s.View().BandsActive || !s.View().CurveActive {
		t.Fatalf("toggling bands off must keep the curve: %+v", s.View())
	}

	if len(s.Bands()) != 3 {
		t.Fatalf("expected 3 sigma bands")
	}
	if got := s.Residuals(); len(got) != 4 {
		t.Fatalf("expected 4 residuals got %d", len(got))
	}
}

func TestToggleOffDropsDerivedViews(t *testing.T) {
	s := New(&countingRedrawer{})
	plotTemps(t, s, []float64{3, 5, 7, 9})
	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	s.ToggleDiff()
	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if s.View().DiffActive || s.View().BandsActive || s.Bands() != nil || s.Residuals() != nil {
		t.Fatalf("toggling the fit off must drop diff and bands: %+v", s.View())
	}
}
