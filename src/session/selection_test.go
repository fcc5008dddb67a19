package session

import (
	"errors"
	"math"
	"testing"

	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

func testGeometry() PlotGeometry {
	return PlotGeometry{
		PixelLeft: 50, PixelTop: 20,
		PixelRight: 450, PixelBottom: 320,
		ViewXMin: 0, ViewXMax: 100,
		ViewYMin: -10, ViewYMax: 50,
	}
}

func TestPlotGeometryCorners(t *testing.T) {
	g := testGeometry()
	cases := []struct {
		px, py float64
		want   Point
	}{
		{50, 320, Point{0, -10}},  // bottom-left
		{450, 20, Point{100, 50}}, // top-right
		{50, 20, Point{0, 50}},
		{450, 320, Point{100, -10}},
		{250, 170, Point{50, 20}}, // center
	}
	for _, c := range cases {
		got := g.DataPoint(c.px, c.py)
		if math.Abs(got.X-c.want.X) > 1e-12 || math.Abs(got.Y-c.want.Y) > 1e-12 {
			t.Fatalf("pixel (%v,%v) -> %+v want %+v", c.px, c.py, got, c.want)
		}
	}
}

func TestPlotGeometryClamps(t *testing.T) {
	g := testGeometry()
	if got := g.DataPoint(-200, 5000); got != (Point{0, -10}) {
		t.Fatalf("out-of-box pixel mapped to %+v want bottom-left corner", got)
	}
	if got := g.DataPoint(9999, -9999); got != (Point{100, 50}) {
		t.Fatalf("out-of-box pixel mapped to %+v want top-right corner", got)
	}
}

func TestPlotGeometryDegenerateBox(t *testing.T) {
	g := PlotGeometry{
		PixelLeft: 10, PixelRight: 10,
		PixelTop: 10, PixelBottom: 10,
		ViewXMin: 1, ViewXMax: 2, ViewYMin: 3, ViewYMax: 4,
	}
	if got := g.DataPoint(10, 10); got != (Point{1, 3}) {
		t.Fatalf("degenerate box mapped to %+v", got)
	}
}

// seed installs a reduced series directly, bypassing file loading.
func seed(s *Session, x, y []float64) {
	w := make([]float64, len(x))
	for i := range w {
		w[i] = 1 - float64(i)/float64(len(x)-1)
	}
	s.series = &reduce.Series{X: x, Y: y, Weights: w}
}

func dataEvent(x, y float64) PointerEvent {
	return PointerEvent{HasData: true, Data: Point{X: x, Y: y}}
}

func TestRemovalModeGating(t *testing.T) {
	s := New(&countingRedrawer{})
	if err := s.EnterRemovalMode(); !errors.Is(err, ErrNoData) {
		t.Fatalf("empty session: expected ErrNoData got %v", err)
	}
	if s.SelectionState() != Idle {
		t.Fatalf("failed arm must stay Idle")
	}

	seed(s, []float64{0, 1}, []float64{0, 1})
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if s.SelectionState() != Armed || !s.View().RemovalModeActive {
		t.Fatalf("expected Armed state with mode flag, got %v %+v", s.SelectionState(), s.View())
	}

	// Second invocation leaves the mode.
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("disarm: %v", err)
	}
	if s.SelectionState() != Idle || s.View().RemovalModeActive {
		t.Fatalf("expected Idle after disarm, got %v %+v", s.SelectionState(), s.View())
	}
}

func TestPointerEventsIgnoredOutsideMode(t *testing.T) {
	rd := &countingRedrawer{}
	s := New(rd)
	seed(s, []float64{0, 1, 2}, []float64{0, 1, 2})

	s.Press(dataEvent(0, 0))
	s.Motion(dataEvent(1, 1))
	s.Release(dataEvent(2, 2))
	if s.SelectionState() != Idle || s.Series().Len() != 3 {
		t.Fatalf("pointer events outside removal mode must be inert")
	}
	if rd.full != 0 || rd.overlay != 0 {
		t.Fatalf("inert events must not redraw (full=%d overlay=%d)", rd.full, rd.overlay)
	}
}

func TestRectangleRemoval(t *testing.T) {
	rd := &countingRedrawer{}
	s := New(rd)
	seed(s, []float64{0, 1, 2, 3, 4}, []float64{0, 10, 20, 30, 40})
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}

	// Drag a rectangle around the points at x=1 and x=2, corners given
	// in reverse order to exercise normalization.
	s.Press(dataEvent(2.5, 25))
	if s.SelectionState() != Dragging || rd.overlay != 1 {
		t.Fatalf("press must start a drag with an overlay redraw")
	}
	s.Motion(dataEvent(1.5, 15))
	s.Motion(dataEvent(0.5, 5))
	if rd.overlay != 3 || rd.full != 0 {
		t.Fatalf("motion must be overlay-only (full=%d overlay=%d)", rd.full, rd.overlay)
	}
	if a, c, ok := s.Rectangle(); !ok || a != (Point{2.5, 25}) || c != (Point{0.5, 5}) {
		t.Fatalf("rectangle = %+v %+v ok=%v", a, c, ok)
	}
	s.Release(dataEvent(0.5, 5))

	if s.Series().Len() != 3 {
		t.Fatalf("expected 3 survivors got %d", s.Series().Len())
	}
	wantX := []float64{0, 3, 4}
	wantW := []float64{1, 0.25, 0}
	for i := range wantX {
		if s.Series().X[i] != wantX[i] {
			t.Fatalf("survivor x = %v want %v", s.Series().X, wantX)
		}
		if math.Abs(s.Series().Weights[i]-wantW[i]) > 1e-12 {
			t.Fatalf("survivor weights = %v want %v", s.Series().Weights, wantW)
		}
	}
	if s.SelectionState() != Armed {
		t.Fatalf("release must re-arm, got %v", s.SelectionState())
	}
	if rd.full != 1 {
		t.Fatalf("release must trigger exactly one full redraw, got %d", rd.full)
	}
	if _, _, ok := s.Rectangle(); ok {
		t.Fatalf("rectangle must vanish after release")
	}
}

func TestRemovalBoundsAreInclusive(t *testing.T) {
	s := New(&countingRedrawer{})
	seed(s, []float64{0, 1, 2}, []float64{0, 10, 20})
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	// Rectangle corners exactly on the middle point.
	s.Press(dataEvent(1, 10))
	s.Release(dataEvent(1, 10))
	if s.Series().Len() != 2 {
		t.Fatalf("point on the rectangle edge must be removed, %d left", s.Series().Len())
	}
}

func TestRemovalNeedsBothAxesInside(t *testing.T) {
	s := New(&countingRedrawer{})
	seed(s, []float64{0, 1, 2}, []float64{0, 10, 20})
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	// X range covers the middle point but the Y range misses it.
	s.Press(dataEvent(0.5, 100))
	s.Release(dataEvent(1.5, 50))
	if s.Series().Len() != 3 {
		t.Fatalf("point outside on one axis must survive, %d left", s.Series().Len())
	}
}

func TestRemovalDropsActiveFit(t *testing.T) {
	s := New(&countingRedrawer{})
	plotTemps(t, s, []float64{3, 5, 7, 9})
	if err := s.ToggleLinearFit(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	s.ToggleBands()
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	s.Press(dataEvent(0.5, 0))
	s.Release(dataEvent(1.5, 100))
	if s.Model() != nil || s.View().CurveActive || s.View().BandsActive {
		t.Fatalf("removal must revert to the plain scatter: %+v", s.View())
	}
	if !s.View().RemovalModeActive {
		t.Fatalf("removal mode itself must survive the removal")
	}
}

func TestDanglingDragCancelledOnDisarm(t *testing.T) {
	s := New(&countingRedrawer{})
	seed(s, []float64{0, 1}, []float64{0, 1})
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	s.Press(dataEvent(0, 0))
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("disarm mid-drag: %v", err)
	}
	if s.SelectionState() != Idle || s.View().RectangleActive {
		t.Fatalf("disarm must cancel the drag: %v %+v", s.SelectionState(), s.View())
	}
	if s.Series().Len() != 2 {
		t.Fatalf("cancelled drag must not remove points")
	}
}

func TestPixelEventMapsThroughGeometry(t *testing.T) {
	s := New(&countingRedrawer{})
	seed(s, []float64{0, 50, 100}, []float64{-10, 20, 50})
	if err := s.EnterRemovalMode(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	g := testGeometry()
	// Pixel corners spanning the middle data point only.
	s.Press(PointerEvent{PixelX: 150, PixelY: 300, Geom: g})   // (25, -6)
	s.Release(PointerEvent{PixelX: 350, PixelY: 100, Geom: g}) // (75, 34)
	if s.Series().Len() != 2 {
		t.Fatalf("expected middle point removed via pixel mapping, %d left", s.Series().Len())
	}
	if s.Series().X[0] != 0 || s.Series().X[1] != 100 {
		t.Fatalf("wrong survivors: %v", s.Series().X)
	}
}
