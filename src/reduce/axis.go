package reduce

import (
	"errors"
	"fmt"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
)

// ErrIndexOutOfRange reports an axis index beyond the dataset's columns.
var ErrIndexOutOfRange = errors.New("axis index out of range")

// Selection identifies what one plot axis reads from the dataset: one
// column index (possibly the temperature, time or synthetic position
// sentinel), or two indices meaning the Euclidean distance between the
// 2-D points (i0, i0+1) and (i1, i1+1).
type Selection []int

// IsPosition reports whether the selection is the synthetic
// stage-position axis, whose values are never read from the file.
func (s Selection) IsPosition() bool {
	return len(s) == 1 && s[0] == dataset.ColPosition
}

// IsDistance reports whether the selection is a two-LED distance.
func (s Selection) IsDistance() bool { return len(s) == 2 }

// checkBounds validates the selection against the file's actual column
// count. Combination legality is the axis picker's job, not ours.
func (s Selection) checkBounds(columns int) error {
	switch len(s) {
	case 1:
		if s[0] == dataset.ColPosition {
			return nil
		}
		if s[0] < 0 || s[0] >= columns {
			return fmt.Errorf("%w: index %d, file has %d columns", ErrIndexOutOfRange, s[0], columns)
		}
	case 2:
		for _, i := range s {
			if i < 0 || i+1 >= columns {
				return fmt.Errorf("%w: point index %d needs columns %d and %d, file has %d",
					ErrIndexOutOfRange, i, i, i+1, columns)
			}
		}
	default:
		return fmt.Errorf("%w: selection must hold 1 or 2 indices, got %d", ErrIndexOutOfRange, len(s))
	}
	return nil
}

// scalar computes the per-row value of this selection.
func (s Selection) scalar(ds *dataset.RawDataset, row int) float64 {
	if len(s) == 2 {
		dx := ds.Value(row, s[0]) - ds.Value(row, s[1])
		dy := ds.Value(row, s[0]+1) - ds.Value(row, s[1]+1)
		return hypot(dx, dy)
	}
	return ds.Value(row, s[0])
}

// ChoiceKind tags the families an axis picker can express.
type ChoiceKind int

const (
	ChoiceInvalid ChoiceKind = iota
	// ChoiceSingleLed is one LED with no coordinate: an incomplete,
	// invalid pick.
	ChoiceSingleLed
	// ChoiceLedPair is two LEDs, plotted as the distance between them.
	ChoiceLedPair
	// ChoiceCoordinate is one LED plus the row or column coordinate.
	ChoiceCoordinate
	// ChoiceOther is temperature, time or the synthetic position.
	ChoiceOther
)

// Choice mirrors the axis picker's checkable options before resolution
// to column indices. It replaces the original enable/disable toggling
// with an explicit variant plus a validator, so affordance and validity
// stay separate concerns.
type Choice struct {
	Leds        [4]bool // LED 1..4
	Row, Col    bool    // coordinate boxes
	Temperature bool
	Time        bool
	Position    bool
}

func (c Choice) ledCount() int {
	n := 0
	for _, set := range c.Leds {
		if set {
			n++
		}
	}
	return n
}

func (c Choice) otherCount() int {
	n := 0
	for _, set := range []bool{c.Temperature, c.Time, c.Position} {
		if set {
			n++
		}
	}
	return n
}

// Kind classifies the choice.
func (c Choice) Kind() ChoiceKind {
	leds, others := c.ledCount(), c.otherCount()
	coords := 0
	if c.Row {
		coords++
	}
	if c.Col {
		coords++
	}
	switch {
	case leds == 2 && coords == 0 && others == 0:
		return ChoiceLedPair
	case leds == 1 && coords == 1 && others == 0:
		return ChoiceCoordinate
	case leds == 1 && coords == 0 && others == 0:
		return ChoiceSingleLed
	case leds == 0 && coords == 0 && others == 1:
		return ChoiceOther
	}
	return ChoiceInvalid
}

// Valid reports whether the choice resolves to a plottable selection.
func (c Choice) Valid() bool {
	k := c.Kind()
	return k == ChoiceLedPair || k == ChoiceCoordinate || k == ChoiceOther
}

// Selection resolves the choice to dataset column indices. LED i maps to
// column 2*(i-1), plus one when the column coordinate is picked.
func (c Choice) Selection() (Selection, error) {
	switch c.Kind() {
	case ChoiceLedPair:
		var sel Selection
		for i, set := range c.Leds {
			if set {
				sel = append(sel, 2*i)
			}
		}
		return sel, nil
	case ChoiceCoordinate:
		for i, set := range c.Leds {
			if set {
				idx := 2 * i
				if c.Col {
					idx++
				}
				return Selection{idx}, nil
			}
		}
	case ChoiceOther:
		switch {
		case c.Temperature:
			return Selection{dataset.ColTemperature}, nil
		case c.Time:
			return Selection{dataset.ColTime}, nil
		case c.Position:
			return Selection{dataset.ColPosition}, nil
		}
	}
	return nil, fmt.Errorf("axis choice does not resolve to a selection: %+v", c)
}
