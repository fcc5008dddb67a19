package main

import (
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/HelderRocha/LEDs-analyser/src/session"
)

// selectionOverlay sits on top of the chart image and forwards pointer
// events to the session's removal machine. It draws the live rectangle
// while a drag is in progress.
type selectionOverlay struct {
	widget.BaseWidget
	state *uiState
}

func newSelectionOverlay(state *uiState) *selectionOverlay {
	o := &selectionOverlay{state: state}
	o.ExtendBaseWidget(o)
	return o
}

// containTransform computes where the contain-fit chart image is drawn
// inside the overlay, so overlay positions can be mapped to image
// pixels and back.
func (o *selectionOverlay) containTransform() (scale, offX, offY float32, ok bool) {
	img := o.state.chartImg
	if img == nil || img.Image == nil {
		return 0, 0, 0, false
	}
	b := img.Image.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	size := o.Size()
	if imgW <= 0 || imgH <= 0 || size.Width <= 0 || size.Height <= 0 {
		return 0, 0, 0, false
	}
	sx := size.Width / imgW
	sy := size.Height / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	offX = (size.Width - imgW*scale) / 2
	offY = (size.Height - imgH*scale) / 2
	return scale, offX, offY, true
}

// pointerEvent converts one overlay position into the session's event,
// carrying image-pixel coordinates plus the axes geometry of the last
// rendered frame.
func (o *selectionOverlay) pointerEvent(pos fyne.Position) (session.PointerEvent, bool) {
	res := o.state.lastRender
	scale, offX, offY, ok := o.containTransform()
	if res == nil || !ok {
		return session.PointerEvent{}, false
	}
	return session.PointerEvent{
		PixelX: float64((pos.X - offX) / scale),
		PixelY: float64((pos.Y - offY) / scale),
		Geom: session.PlotGeometry{
			PixelLeft: float64(res.PlotLeft), PixelTop: float64(res.PlotTop),
			PixelRight: float64(res.PlotRight), PixelBottom: float64(res.PlotBottom),
			ViewXMin: res.XMin, ViewXMax: res.XMax,
			ViewYMin: res.YMin, ViewYMax: res.YMax,
		},
	}, true
}

// toOverlay maps a data point back onto the overlay, inverting the
// geometry and the contain fit. Used to place the rectangle corners.
func (o *selectionOverlay) toOverlay(p session.Point) (fyne.Position, bool) {
	res := o.state.lastRender
	scale, offX, offY, ok := o.containTransform()
	if res == nil || !ok {
		return fyne.Position{}, false
	}
	if res.XMax == res.XMin || res.YMax == res.YMin {
		return fyne.Position{}, false
	}
	fx := (p.X - res.XMin) / (res.XMax - res.XMin)
	fy := (p.Y - res.YMin) / (res.YMax - res.YMin)
	px := float64(res.PlotLeft) + fx*float64(res.PlotRight-res.PlotLeft)
	py := float64(res.PlotBottom) - fy*float64(res.PlotBottom-res.PlotTop)
	return fyne.NewPos(float32(px)*scale+offX, float32(py)*scale+offY), true
}

func (o *selectionOverlay) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if pe, ok := o.pointerEvent(ev.Position); ok {
		o.state.sess.Press(pe)
	}
}

func (o *selectionOverlay) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	if pe, ok := o.pointerEvent(ev.Position); ok {
		o.state.sess.Release(pe)
	}
}

func (o *selectionOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if pe, ok := o.pointerEvent(ev.Position); ok {
		o.state.sess.Motion(pe)
	}
}

func (o *selectionOverlay) MouseIn(*desktop.MouseEvent) {}
func (o *selectionOverlay) MouseOut()                   {}

var (
	_ desktop.Mouseable = (*selectionOverlay)(nil)
	_ desktop.Hoverable = (*selectionOverlay)(nil)
)

func (o *selectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background keeps the full hit area for mouse events
	bg := canvas.NewRectangle(color.RGBA{})
	rect := canvas.NewRectangle(color.RGBA{R: 120, G: 160, B: 255, A: 50})
	rect.StrokeColor = color.RGBA{R: 70, G: 110, B: 230, A: 220}
	rect.StrokeWidth = 1.5
	return &selectionRenderer{o: o, bg: bg, rect: rect, objs: []fyne.CanvasObject{bg, rect}}
}

type selectionRenderer struct {
	o    *selectionOverlay
	bg   *canvas.Rectangle
	rect *canvas.Rectangle
	objs []fyne.CanvasObject
}

func (r *selectionRenderer) Destroy() {}

func (r *selectionRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	anchor, corner, live := r.o.state.sess.Rectangle()
	if !live {
		r.rect.Resize(fyne.NewSize(0, 0))
		r.rect.Move(fyne.NewPos(-10, -10))
		return
	}
	a, okA := r.o.toOverlay(anchor)
	c, okC := r.o.toOverlay(corner)
	if !okA || !okC {
		r.rect.Resize(fyne.NewSize(0, 0))
		return
	}
	x0, x1 := a.X, c.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, c.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r.rect.Move(fyne.NewPos(x0, y0))
	r.rect.Resize(fyne.NewSize(x1-x0, y1-y0))
}

func (r *selectionRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *selectionRenderer) Objects() []fyne.CanvasObject { return r.objs }

func (r *selectionRenderer) Refresh() {
	r.Layout(r.o.Size())
	r.bg.Refresh()
	r.rect.Refresh()
}
