// Package plotting renders a reduced series, its active fit and the
// derived views (sigma bands, residual diff) into an image, and reports
// the axes geometry the interactive layer needs for pixel→data mapping.
package plotting

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/HelderRocha/LEDs-analyser/src/fit"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// Estimated chart gutters in image pixels. go-chart sizes its plot box
// from axis label widths; these constants track the values produced by
// the padding below and the default axis fonts.
const (
	PlotLeft   = 58
	PlotRight  = 18
	PlotTop    = 32
	PlotBottom = 46
)

// View is everything one frame shows.
type View struct {
	Series    *reduce.Series
	Model     *fit.Model
	ShowBands bool
	ShowDiff  bool

	Title          string
	XLabel, YLabel string
}

// Options size the output image.
type Options struct {
	Width, Height int
}

// Result carries the rendered frame plus the geometry backing it: the
// estimated axes pixel box and the exact view limits the axes were
// rendered with.
type Result struct {
	Image                  image.Image
	PlotLeft, PlotTop      int
	PlotRight, PlotBottom  int
	XMin, XMax, YMin, YMax float64
}

var (
	fitColor  = drawing.Color{R: 220, G: 40, B: 40, A: 255}
	diffColor = drawing.Color{R: 220, G: 40, B: 40, A: 255}

	// One color per sigma level, following the original magenta, cyan,
	// yellow convention.
	bandColors = []drawing.Color{
		{R: 200, G: 40, B: 200, A: 255},
		{R: 40, G: 180, B: 200, A: 255},
		{R: 190, G: 170, B: 30, A: 255},
	}
)

// Render draws the view. An empty series yields a blank frame so the UI
// still refreshes.
func Render(v View, o Options) (*Result, error) {
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	res := &Result{
		PlotLeft: PlotLeft, PlotTop: PlotTop,
		PlotRight: o.Width - PlotRight, PlotBottom: o.Height - PlotBottom,
	}
	if v.Series == nil || v.Series.Len() == 0 {
		res.Image = blank(o.Width, o.Height)
		return res, nil
	}

	var series []chart.Series
	var ys []float64
	diffMode := v.ShowDiff && v.Model != nil
	if diffMode {
		resid := fit.Residuals(v.Series.Y, v.Model.Predicted)
		series = append(series, dotSeries("diff", v.Series.X, resid, diffColor))
		ys = append(ys, resid...)
	} else {
		series = append(series, scatterSeries(v.Series)...)
		ys = append(ys, v.Series.Y...)
		if v.Model != nil {
			series = append(series, lineSeries("fit", v.Series.X, v.Model.Predicted, fitColor, 2))
			ys = append(ys, v.Model.Predicted...)
			if v.ShowBands {
				for _, b := range fit.Bands(v.Model) {
					c := bandColors[(b.Level-1)%len(bandColors)]
					series = append(series,
						lineSeries(fmt.Sprintf("+%dsd", b.Level), v.Series.X, b.Upper, c, 1),
						lineSeries(fmt.Sprintf("-%dsd", b.Level), v.Series.X, b.Lower, c, 1))
					ys = append(ys, b.Upper...)
					ys = append(ys, b.Lower...)
				}
			}
		}
	}

	xMin, xMax := minMax(v.Series.X)
	yMin, yMax := minMax(ys)
	res.XMin, res.XMax = niceAxisBounds(xMin, xMax)
	res.YMin, res.YMax = niceAxisBounds(yMin, yMax)

	title := v.Title
	if title == "" {
		title = "Plot"
	}
	ch := chart.Chart{
		Title:      title,
		Width:      o.Width,
		Height:     o.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  v.XLabel,
			Range: &chart.ContinuousRange{Min: res.XMin, Max: res.XMax},
			Ticks: niceTicks(res.XMin, res.XMax, 8),
		},
		YAxis: chart.YAxis{
			Name:  v.YLabel,
			Range: &chart.ContinuousRange{Min: res.YMin, Max: res.YMax},
			Ticks: niceTicks(res.YMin, res.YMax, 7),
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if lines := LegendLines(v.Model); len(lines) > 0 && !diffMode {
		img = drawLegend(img, lines)
	}
	res.Image = img
	return res, nil
}

// scatterSeries buckets the points into contiguous runs colored by
// their ordinal weight, approximating the acquisition-order gradient of
// the original scatter.
func scatterSeries(s *reduce.Series) []chart.Series {
	const buckets = 6
	n := s.Len()
	per := (n + buckets - 1) / buckets
	var out []chart.Series
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}
		w := s.Weights[(start+end-1)/2]
		out = append(out, dotSeries(
			fmt.Sprintf("data%d", len(out)),
			s.X[start:end], s.Y[start:end], weightColor(w)))
	}
	return out
}

// weightColor maps ordinal weight 1→0 onto a blue→green gradient.
func weightColor(w float64) drawing.Color {
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	t := 1 - w
	return drawing.Color{
		R: 0,
		G: uint8(40 + t*200),
		B: uint8(255 - t*127),
		A: 255,
	}
}

func dotSeries(name string, x, y []float64, c drawing.Color) chart.Series {
	x, y = padSingle(x, y)
	return chart.ContinuousSeries{
		Name:    name,
		XValues: x,
		YValues: y,
		Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: c},
	}
}

func lineSeries(name string, x, y []float64, c drawing.Color, width float64) chart.Series {
	x, y = padSingle(x, y)
	return chart.ContinuousSeries{
		Name:    name,
		XValues: x,
		YValues: y,
		Style:   chart.Style{StrokeWidth: width, StrokeColor: c, DotWidth: chart.Disabled},
	}
}

// padSingle duplicates a lone point so go-chart accepts the series.
func padSingle(x, y []float64) ([]float64, []float64) {
	if len(x) != 1 {
		return x, y
	}
	return []float64{x[0], x[0]}, []float64{y[0], y[0]}
}

func minMax(vs []float64) (float64, float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// drawLegend writes the fit parameters near the top-left of the plot
// area, over a translucent background for readability.
func drawLegend(img image.Image, lines []string) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	pad := 6
	width := 0
	for _, l := range lines {
		if n := len(l) * 7; n > width {
			width = n
		}
	}
	height := len(lines) * 13
	x0 := b.Min.X + PlotLeft + 12
	y0 := b.Min.Y + PlotTop + 12
	bgRect := image.Rect(x0-pad, y0-pad, x0+width+pad, y0+height+pad)
	draw.Draw(rgba, bgRect, image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 216}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{R: 30, G: 30, B: 30, A: 255}),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(x0, y0+13*(i+1)-3)
		d.DrawString(l)
	}
	return rgba
}
