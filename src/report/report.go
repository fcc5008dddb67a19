// Package report exports a reduced series and its fit as PNG, PDF or
// XLSX artifacts for offline review.
package report

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/HelderRocha/LEDs-analyser/src/fit"
	"github.com/HelderRocha/LEDs-analyser/src/plotting"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// Summary describes one analysis run for the report header.
type Summary struct {
	SourcePath     string
	XLabel, YLabel string
	Step           float64
	BinSize        int
}

// WritePNG renders the view and writes it as a PNG file.
func WritePNG(path string, v plotting.View, o plotting.Options) error {
	res, err := plotting.Render(v, o)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Image); err != nil {
		return fmt.Errorf("encode chart png: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WritePDF produces a single-page report: header, embedded chart and a
// fit parameter block.
func WritePDF(path string, sum Summary, v plotting.View, o plotting.Options) error {
	res, err := plotting.Render(v, o)
	if err != nil {
		return err
	}
	var chartBuf bytes.Buffer
	if err := png.Encode(&chartBuf, res.Image); err != nil {
		return fmt.Errorf("encode chart png: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "LED Curve Analysis", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Source: %s", sum.SourcePath), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("X: %s    Y: %s    step=%g  n=%d",
		sum.XLabel, sum.YLabel, sum.Step, sum.BinSize), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.RegisterImageOptionsReader("chart", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(chartBuf.Bytes()))
	// Fit the chart to the content width, keeping its aspect ratio.
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w := pageW - left - right
	pdf.ImageOptions("chart", left, pdf.GetY(), w, 0, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(2)

	if lines := plotting.LegendLines(v.Model); len(lines) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("Fit: %s", v.Model.Kind), "", 1, "L", false, 0, "")
		pdf.SetFont("Courier", "", 10)
		pdf.MultiCell(0, 5, strings.Join(lines, "\n"), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

// WriteXLSX dumps the reduced series, and when a fit is active its
// prediction and residual, one row per point.
func WriteXLSX(path string, s *reduce.Series, m *fit.Model) error {
	f := excelize.NewFile()
	const sheet = "Series"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{"x", "y", "weight"}
	withFit := m != nil && m.Kind != fit.None
	if withFit {
		headers = append(headers, "predicted", "residual")
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i := 0; i < s.Len(); i++ {
		row := []interface{}{s.X[i], s.Y[i], s.Weights[i]}
		if withFit {
			row = append(row, m.Predicted[i], s.Y[i]-m.Predicted[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}
	if withFit {
		if _, err := f.NewSheet("Fit"); err != nil {
			return fmt.Errorf("xlsx fit sheet: %w", err)
		}
		rows := [][]interface{}{
			{"family", m.Kind.String()},
			{"residual_stddev", m.ResidualStdDev},
		}
		for _, l := range plotting.LegendLines(m) {
			parts := strings.SplitN(l, " = ", 2)
			if len(parts) == 2 {
				rows = append(rows, []interface{}{parts[0], parts[1]})
			}
		}
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("xlsx cell: %w", err)
			}
			r := r
			if err := f.SetSheetRow("Fit", cell, &r); err != nil {
				return fmt.Errorf("xlsx fit row: %w", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx %s: %w", path, err)
	}
	return nil
}
