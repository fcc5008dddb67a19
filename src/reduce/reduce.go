// Package reduce turns raw acquisition rows into two aligned numeric
// series: per-row scalars are accumulated into fixed-size windows, each
// window is trimmed of extremes and averaged into one output point.
package reduce

import (
	"errors"
	"fmt"
	"math"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
	"github.com/HelderRocha/LEDs-analyser/src/logging"
)

// DefaultOutlierRatio is the window-length divisor deciding how many
// max/min pairs the trimmer removes. The value is inherited from the
// acquisition rig's original tooling; it is exposed as a parameter
// rather than a buried constant.
const DefaultOutlierRatio = 15

// ErrWindowExhausted reports a trim that would leave a window empty.
var ErrWindowExhausted = errors.New("outlier trim exhausted window")

// ErrBadParams reports non-positive reduction parameters.
var ErrBadParams = errors.New("bad reduction parameters")

// Params are the reduction knobs: Step is the physical increment per
// synthetic position unit, N the number of raw rows averaged per output
// point. OutlierRatio falls back to DefaultOutlierRatio when zero.
type Params struct {
	Step         float64
	N            int
	OutlierRatio int
}

// Series is one reduced dataset: X and Y aligned in acquisition order,
// plus per-point ordinal weights spaced linearly from 1 (first) to 0
// (last). Weights are presentation-only.
type Series struct {
	X, Y    []float64
	Weights []float64
}

// Len returns the number of reduced points.
func (s *Series) Len() int { return len(s.Y) }

// Filter keeps only the points where keep[i] is true, preserving order
// across X, Y and Weights alike.
func (s *Series) Filter(keep []bool) {
	x := s.X[:0]
	y := s.Y[:0]
	w := s.Weights[:0]
	for i, k := range keep {
		if k {
			x = append(x, s.X[i])
			y = append(y, s.Y[i])
			w = append(w, s.Weights[i])
		}
	}
	s.X, s.Y, s.Weights = x, y, w
}

// Reduce bins the dataset into floor(rows/N) points per axis. Trailing
// rows that do not fill a window are discarded. When axisX is the
// synthetic position, X values are fabricated as Step times the output
// ordinal and never read from the file.
func Reduce(ds *dataset.RawDataset, axisX, axisY Selection, p Params) (*Series, error) {
	if p.Step <= 0 || p.N < 1 {
		return nil, fmt.Errorf("%w: step=%v n=%d", ErrBadParams, p.Step, p.N)
	}
	ratio := p.OutlierRatio
	if ratio == 0 {
		ratio = DefaultOutlierRatio
	}
	if ratio < 0 {
		return nil, fmt.Errorf("%w: outlier ratio %d", ErrBadParams, ratio)
	}
	if err := axisX.checkBounds(ds.Columns()); err != nil {
		return nil, err
	}
	if err := axisY.checkBounds(ds.Columns()); err != nil {
		return nil, err
	}

	synthX := axisX.IsPosition()
	out := &Series{}
	winX := make([]float64, 0, p.N)
	winY := make([]float64, 0, p.N)
	for row := 0; row < ds.Rows(); row++ {
		winY = append(winY, axisY.scalar(ds, row))
		if !synthX {
			winX = append(winX, axisX.scalar(ds, row))
		}
		if len(winY) < p.N {
			continue
		}
		my, err := trimmedMean(winY, ratio)
		if err != nil {
			return nil, err
		}
		if synthX {
			out.X = append(out.X, p.Step*float64(len(out.X)))
		} else {
			mx, err := trimmedMean(winX, ratio)
			if err != nil {
				return nil, err
			}
			out.X = append(out.X, mx)
		}
		out.Y = append(out.Y, my)
		winX = winX[:0]
		winY = winY[:0]
	}
	out.Weights = ordinalWeights(out.Len())
	logging.Debugf("reduce: %d rows, n=%d -> %d points (x=%v y=%v)",
		ds.Rows(), p.N, out.Len(), axisX, axisY)
	return out, nil
}

// TrimOutliers removes the current maximum and minimum element,
// floor(len/ratio) times over. Windows shorter than ratio pass through
// untouched. The bound check guards the degenerate ratios that could
// otherwise empty the window and poison the mean.
func TrimOutliers(window []float64, ratio int) ([]float64, error) {
	if ratio <= 0 {
		ratio = DefaultOutlierRatio
	}
	rounds := len(window) / ratio
	w := append([]float64(nil), window...)
	for i := 0; i < rounds; i++ {
		if len(w) < 3 {
			return nil, fmt.Errorf("%w: %d elements left after %d of %d trim rounds",
				ErrWindowExhausted, len(w), i, rounds)
		}
		w = removeExtremum(w, true)
		w = removeExtremum(w, false)
	}
	return w, nil
}

// removeExtremum drops the first occurrence of the maximum (or minimum)
// element, preserving the order of the rest.
func removeExtremum(w []float64, max bool) []float64 {
	best := 0
	for i, v := range w {
		if (max && v > w[best]) || (!max && v < w[best]) {
			best = i
		}
	}
	return append(w[:best], w[best+1:]...)
}

func trimmedMean(window []float64, ratio int) (float64, error) {
	trimmed, err := TrimOutliers(window, ratio)
	if err != nil {
		return math.NaN(), err
	}
	sum := 0.0
	for _, v := range trimmed {
		sum += v
	}
	return sum / float64(len(trimmed)), nil
}

// ordinalWeights spaces n weights linearly from 1 down to 0.
func ordinalWeights(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 1 - float64(i)/float64(n-1)
	}
	return w
}

func hypot(dx, dy float64) float64 { return math.Hypot(dx, dy) }
