// Package dataset loads and caches one LED acquisition CSV at a time.
//
// The acquisition format is fixed: a header row followed by data rows of
// at least ten numeric fields, in the order
//
//	LED1.row, LED1.col, LED2.row, LED2.col, LED3.row, LED3.col,
//	LED4.row, LED4.col, Temperature, Time
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/HelderRocha/LEDs-analyser/src/logging"
)

// Column indices of the fixed acquisition schema.
const (
	ColLED1Row = iota
	ColLED1Col
	ColLED2Row
	ColLED2Col
	ColLED3Row
	ColLED3Col
	ColLED4Row
	ColLED4Col
	ColTemperature
	ColTime
)

// ColPosition is the synthetic stage-position axis. It is never present
// in the file; the reducer fabricates it as step times the bin ordinal.
const ColPosition = 10

// MinColumns is the smallest data row the loader accepts.
const MinColumns = 10

// ErrFormat reports a row that does not match the acquisition schema.
var ErrFormat = errors.New("bad acquisition format")

// RawDataset is an immutable numeric grid parsed from one CSV file.
type RawDataset struct {
	Path    string
	Headers []string
	rows    [][]float64
	columns int
}

// Rows returns the number of data rows.
func (d *RawDataset) Rows() int { return len(d.rows) }

// Columns returns the column count of the file (at least MinColumns).
func (d *RawDataset) Columns() int { return d.columns }

// Value returns the field at (row, col). Callers are expected to have
// bounds-checked col via the reducer.
func (d *RawDataset) Value(row, col int) float64 { return d.rows[row][col] }

// Store caches the last loaded dataset by path.
//
// Re-requesting the same path returns the cached dataset unconditionally,
// even if the file changed on disk meanwhile. A request for a different
// path replaces the cache; a failed load leaves it untouched. Store is
// meant for serial, single-goroutine use.
type Store struct {
	lastPath string
	cached   *RawDataset
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{} }

// Load returns the dataset at path, reading the file only when the path
// differs from the previously loaded one.
func (s *Store) Load(path string) (*RawDataset, error) {
	if path == s.lastPath && s.cached != nil {
		logging.Debugf("dataset: cache hit for %s", path)
		return s.cached, nil
	}
	ds, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.lastPath = path
	s.cached = ds
	return ds, nil
}

// ReadFile parses the CSV at path without touching any cache.
func ReadFile(path string) (*RawDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // row width is validated below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrFormat, path)
	}

	ds := &RawDataset{Path: path, Headers: records[0]}
	for i, rec := range records[1:] {
		if len(rec) < MinColumns {
			return nil, fmt.Errorf("%w: row %d has %d fields, want at least %d",
				ErrFormat, i+2, len(rec), MinColumns)
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d field %d %q is not numeric",
					ErrFormat, i+2, j, field)
			}
			row[j] = v
		}
		if ds.columns == 0 || len(row) < ds.columns {
			ds.columns = len(row)
		}
		ds.rows = append(ds.rows, row)
	}
	if ds.columns == 0 {
		// Header-only file: no rows to index, keep the schema width.
		ds.columns = MinColumns
	}
	logging.Debugf("dataset: loaded %s (%d rows, %d columns)", path, ds.Rows(), ds.columns)
	return ds, nil
}
