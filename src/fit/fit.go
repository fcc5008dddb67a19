// Package fit provides the three regression families of the analyser:
// linear and parabolic least squares, and a hyperbolic model fitted
// through a reciprocal linearization.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData reports a fit over fewer than two points.
var ErrInsufficientData = errors.New("not enough points to fit")

// ErrInvalidModel reports hyperbolic preconditions that do not hold.
var ErrInvalidModel = errors.New("data cannot carry the hyperbolic model")

// Kind tags the active fit family.
type Kind int

const (
	None Kind = iota
	Linear
	Parabolic
	Hyperbolic
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Parabolic:
		return "parabolic"
	case Hyperbolic:
		return "hyperbolic"
	}
	return "none"
}

// Model is one fitted curve over a reduced series. Which parameter
// fields are meaningful depends on Kind:
//
//	Linear:     Intercept, Slope, R2; y = Intercept + Slope·x
//	Parabolic:  C, B, A;              y = C + B·x + A·x²
//	Hyperbolic: HyperA, HyperB;       y = HyperA / (x + HyperB)
//
// Predicted is aligned index-for-index with the series the model was
// fitted from.
type Model struct {
	Kind Kind

	Intercept, Slope float64
	R2               float64

	C, B, A float64

	HyperA, HyperB float64

	Predicted      []float64
	ResidualStdDev float64
}

// FitLinear fits an ordinary least-squares line and computes the
// coefficient of determination.
func FitLinear(x, y []float64) (*Model, error) {
	if err := checkLen(x, y); err != nil {
		return nil, err
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	m := &Model{Kind: Linear, Intercept: alpha, Slope: beta}
	m.Predicted = make([]float64, len(x))
	for i, xv := range x {
		m.Predicted[i] = alpha + beta*xv
	}
	m.R2 = stat.RSquaredFrom(m.Predicted, y, nil)
	m.ResidualStdDev = residualStdDev(y, m.Predicted)
	return m, nil
}

// FitParabolic fits a degree-2 least-squares polynomial
// y = C + B·x + A·x².
func FitParabolic(x, y []float64) (*Model, error) {
	if err := checkLen(x, y); err != nil {
		return nil, err
	}
	n := len(x)
	vand := mat.NewDense(n, 3, nil)
	for i, xv := range x {
		vand.Set(i, 0, 1)
		vand.Set(i, 1, xv)
		vand.Set(i, 2, xv*xv)
	}
	var qr mat.QR
	qr.Factorize(vand)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("parabolic least squares: %w", err)
	}
	m := &Model{Kind: Parabolic, C: coef.AtVec(0), B: coef.AtVec(1), A: coef.AtVec(2)}
	m.Predicted = make([]float64, n)
	for i, xv := range x {
		m.Predicted[i] = m.C + m.B*xv + m.A*xv*xv
	}
	m.ResidualStdDev = residualStdDev(y, m.Predicted)
	return m, nil
}

// FitHyperbolic fits y = a/(x+b) by linearizing y' = 1/y and solving
// y' = A·x + B with ordinary least squares, then a = 1/A, b = B·a.
//
// Preconditions: the Y axis must represent a two-point distance
// (yIsDistance, a fact only the caller knows), no Y value may be zero,
// and at least two distinct X values are required.
func FitHyperbolic(x, y []float64, yIsDistance bool) (*Model, error) {
	if err := checkLen(x, y); err != nil {
		return nil, err
	}
	if !yIsDistance {
		return nil, fmt.Errorf("%w: y axis is not a two-point distance", ErrInvalidModel)
	}
	distinct := false
	for _, xv := range x[1:] {
		if xv != x[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return nil, fmt.Errorf("%w: need at least two distinct x values", ErrInvalidModel)
	}
	inv := make([]float64, len(y))
	for i, yv := range y {
		if yv == 0 {
			return nil, fmt.Errorf("%w: zero y value at point %d", ErrInvalidModel, i)
		}
		inv[i] = 1 / yv
	}
	bLin, aLin := stat.LinearRegression(x, inv, nil, false) // intercept, slope
	if aLin == 0 {
		return nil, fmt.Errorf("%w: degenerate reciprocal slope", ErrInvalidModel)
	}
	a := 1 / aLin
	b := bLin * a
	m := &Model{Kind: Hyperbolic, HyperA: a, HyperB: b}
	m.Predicted = make([]float64, len(x))
	for i, xv := range x {
		m.Predicted[i] = a / (xv + b)
	}
	m.ResidualStdDev = residualStdDev(y, m.Predicted)
	return m, nil
}

// Residuals returns y[i] - predicted[i] for the diff view.
func Residuals(y, predicted []float64) []float64 {
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] - predicted[i]
	}
	return out
}

// Band is one pair of curves parallel to the fit, Level residual
// standard deviations away.
type Band struct {
	Level        int
	Upper, Lower []float64
}

// Bands derives ±k·σ parallel curves from the model's prediction.
// Without explicit levels it produces the 1, 2 and 3 sigma pairs.
func Bands(m *Model, levels ...int) []Band {
	if m == nil || m.Kind == None {
		return nil
	}
	if len(levels) == 0 {
		levels = []int{1, 2, 3}
	}
	out := make([]Band, 0, len(levels))
	for _, k := range levels {
		b := Band{Level: k,
			Upper: make([]float64, len(m.Predicted)),
			Lower: make([]float64, len(m.Predicted)),
		}
		off := float64(k) * m.ResidualStdDev
		for i, p := range m.Predicted {
			b.Upper[i] = p + off
			b.Lower[i] = p - off
		}
		out = append(out, b)
	}
	return out
}

func checkLen(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("mismatched series lengths %d and %d", len(x), len(y))
	}
	if len(y) < 2 {
		return fmt.Errorf("%w: have %d points, need 2", ErrInsufficientData, len(y))
	}
	return nil
}

// residualStdDev is sqrt(sum((pred-y)^2) / (n-1)).
func residualStdDev(y, pred []float64) float64 {
	var ss float64
	for i := range y {
		d := pred[i] - y[i]
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(y)-1))
}
