package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/HelderRocha/LEDs-analyser/src/config"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// parseStepN parses the "step | n" entry, e.g. "5 | 10" or "0.5|20".
func parseStepN(s string) (step float64, n int, err error) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"step | n\", got %q", s)
	}
	step, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad step %q: %w", strings.TrimSpace(parts[0]), err)
	}
	n, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad n %q: %w", strings.TrimSpace(parts[1]), err)
	}
	if step <= 0 || n < 1 {
		return 0, 0, fmt.Errorf("step and n must be positive, got %g and %d", step, n)
	}
	return step, n, nil
}

func formatStepN(step float64, n int) string {
	return fmt.Sprintf("%g | %d", step, n)
}

// stepNRe matches the trailing "_<step>_<n>" convention some rigs use
// when naming their CSV dumps, e.g. scan_0.5_20.csv.
var stepNRe = regexp.MustCompile(`_([0-9]+(?:\.[0-9]+)?)_([0-9]+)\.csv$`)

// stepNFromFilename recovers step and n from the filename when the
// acquisition embedded them, so selecting a file pre-fills the entry.
func stepNFromFilename(name string) (step float64, n int, ok bool) {
	m := stepNRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, 0, false
	}
	step, err := strconv.ParseFloat(m[1], 64)
	if err != nil || step <= 0 {
		return 0, 0, false
	}
	n, err = strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return step, n, true
}

// dataFile is one selectable CSV with its size for the file list.
type dataFile struct {
	Path string
	Size int64
}

func (f dataFile) Label() string {
	return fmt.Sprintf("%s (%.2f MB)", filepath.Base(f.Path), float64(f.Size)/(1024*1024))
}

// listDataFiles scans dir for .csv files, sorted by name.
func listDataFiles(dir string) ([]dataFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var out []dataFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, dataFile{Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// reduceParams combines the entry values with the configured trim
// ratio.
func reduceParams(cfg config.Config, step float64, n int) reduce.Params {
	return reduce.Params{Step: step, N: n, OutlierRatio: cfg.OutlierRatio}
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	if n <= 1 {
		return "…"
	}
	return "…" + p[len(p)-n+1:]
}
