package session

import (
	"github.com/HelderRocha/LEDs-analyser/src/logging"
)

// SelectionState is the pointer machine for rectangle point removal.
// Legal transitions: Idle→Armed (mode on), Armed→Dragging (press),
// Dragging→Armed (release), any→Idle (mode off).
type SelectionState int

const (
	Idle SelectionState = iota
	Armed
	Dragging
)

// Point is a position in data coordinates.
type Point struct {
	X, Y float64
}

// PlotGeometry ties the axes' pixel bounding box to the axes' current
// view-limit box, so pointer positions outside the axes can be mapped
// back into data space. Pixel Y grows downward: PixelTop pairs with
// ViewYMax.
type PlotGeometry struct {
	PixelLeft, PixelTop     float64
	PixelRight, PixelBottom float64
	ViewXMin, ViewXMax      float64
	ViewYMin, ViewYMax      float64
}

// DataPoint maps a pixel position to data coordinates: the pixel is
// clamped to the axes' bounding box, then interpolated linearly on each
// axis into the view limits. The mapping is exact at the box edges.
func (g PlotGeometry) DataPoint(px, py float64) Point {
	px = clamp(px, g.PixelLeft, g.PixelRight)
	py = clamp(py, g.PixelTop, g.PixelBottom)
	fx := 0.0
	if g.PixelRight != g.PixelLeft {
		fx = (px - g.PixelLeft) / (g.PixelRight - g.PixelLeft)
	}
	fy := 0.0
	if g.PixelBottom != g.PixelTop {
		fy = (g.PixelBottom - py) / (g.PixelBottom - g.PixelTop)
	}
	return Point{
		X: g.ViewXMin + fx*(g.ViewXMax-g.ViewXMin),
		Y: g.ViewYMin + fy*(g.ViewYMax-g.ViewYMin),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PointerEvent is one pointer sample forwarded by the UI layer. When
// the pointer was inside the plotted axes the event already carries
// data-space coordinates and HasData is true; otherwise PixelX/PixelY
// plus Geom are used to reconstruct them.
type PointerEvent struct {
	HasData        bool
	Data           Point
	PixelX, PixelY float64
	Geom           PlotGeometry
}

func (ev PointerEvent) dataPoint() Point {
	if ev.HasData {
		return ev.Data
	}
	return ev.Geom.DataPoint(ev.PixelX, ev.PixelY)
}

// selectionEditor holds the transient rectangle between press and
// release.
type selectionEditor struct {
	state          SelectionState
	anchor, corner Point
}

func (e *selectionEditor) reset() { *e = selectionEditor{} }

// SelectionState returns the current pointer-machine state.
func (s *Session) SelectionState() SelectionState { return s.sel.state }

// Rectangle returns the live selection corners while a drag is active.
func (s *Session) Rectangle() (anchor, corner Point, ok bool) {
	if s.sel.state != Dragging {
		return Point{}, Point{}, false
	}
	return s.sel.anchor, s.sel.corner, true
}

// EnterRemovalMode toggles point removal on or off. Entering fails with
// ErrNoData (and stays Idle) when there is nothing plotted; leaving
// cancels any half-built rectangle.
func (s *Session) EnterRemovalMode() error {
	if s.sel.state != Idle {
		s.sel.reset()
		s.view.RemovalModeActive = false
		s.view.RectangleActive = false
		logging.Debugf("session: removal mode off")
		return nil
	}
	if s.series.Len() == 0 {
		return ErrNoData
	}
	s.sel.state = Armed
	s.view.RemovalModeActive = true
	logging.Debugf("session: removal mode armed")
	return nil
}

// Press anchors the selection rectangle. Ignored unless Armed.
func (s *Session) Press(ev PointerEvent) {
	if s.sel.state != Armed {
		return
	}
	p := ev.dataPoint()
	s.sel.anchor = p
	s.sel.corner = p
	s.sel.state = Dragging
	s.view.RectangleActive = true
	s.overlay()
}

// Motion moves the rectangle's live opposite corner. Ignored unless
// Dragging; triggers only an overlay redraw, never a full replot.
func (s *Session) Motion(ev PointerEvent) {
	if s.sel.state != Dragging {
		return
	}
	s.sel.corner = ev.dataPoint()
	s.overlay()
}

// Release finalizes the rectangle and removes every point lying inside
// it on both axes simultaneously (inclusive bounds). The same keep-mask
// is applied to X, Y and the ordinal weights, preserving order. Any
// active fit, bands or diff view is discarded and the view returns to
// the plain scatter; the machine returns to Armed.
func (s *Session) Release(ev PointerEvent) {
	if s.sel.state != Dragging {
		return
	}
	end := ev.dataPoint()
	x0, x1 := ordered(s.sel.anchor.X, end.X)
	y0, y1 := ordered(s.sel.anchor.Y, end.Y)

	keep := make([]bool, s.series.Len())
	removed := 0
	for i := range keep {
		insideX := s.series.X[i] >= x0 && s.series.X[i] <= x1
		insideY := s.series.Y[i] >= y0 && s.series.Y[i] <= y1
		keep[i] = !(insideX && insideY)
		if !keep[i] {
			removed++
		}
	}
	s.series.Filter(keep)
	s.resetViews()
	s.sel.state = Armed
	logging.Debugf("session: removed %d points, %d left", removed, s.series.Len())
	s.full()
}

func ordered(a, b float64) (float64, float64) {
	if a <= b {
		return a, b
	}
	return b, a
}
