package plotting

import (
	"fmt"

	"github.com/HelderRocha/LEDs-analyser/src/dataset"
	"github.com/HelderRocha/LEDs-analyser/src/fit"
	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// AxisLabel derives a human label for one axis selection. LED column
// indices map back to LED numbers; the sentinels carry their physical
// units.
func AxisLabel(sel reduce.Selection, headers []string) string {
	if len(sel) == 2 {
		return fmt.Sprintf("dist led%d - led%d (px)", sel[0]/2+1, sel[1]/2+1)
	}
	if len(sel) != 1 {
		return ""
	}
	switch sel[0] {
	case dataset.ColPosition:
		return "position (microm)"
	case dataset.ColTime:
		return "time (s)"
	}
	if sel[0] >= 0 && sel[0] < len(headers) {
		return headers[sel[0]] + " (px)"
	}
	return fmt.Sprintf("column %d (px)", sel[0])
}

// LegendLines formats the fit parameters the way the acquisition team
// reads them: slope/intercept for lines, the x² coefficient scaled to
// 10^-6 for parabolas, and a/b for hyperbolas.
func LegendLines(m *fit.Model) []string {
	if m == nil {
		return nil
	}
	switch m.Kind {
	case fit.Linear:
		return []string{
			fmt.Sprintf("A = %.6f", m.Slope),
			fmt.Sprintf("B = %.4f", m.Intercept),
			fmt.Sprintf("R^2 = %.2f%%", m.R2*100),
			fmt.Sprintf("SD = %.6f", m.ResidualStdDev),
		}
	case fit.Parabolic:
		return []string{
			fmt.Sprintf("A = %.6f *10^-6", m.A*1e6),
			fmt.Sprintf("B = %.6f", m.B),
			fmt.Sprintf("C = %.6f", m.C),
			fmt.Sprintf("SD = %.6f", m.ResidualStdDev),
		}
	case fit.Hyperbolic:
		return []string{
			fmt.Sprintf("a = %.3f", m.HyperA),
			fmt.Sprintf("b = %.4f", m.HyperB),
			fmt.Sprintf("SD = %.6f", m.ResidualStdDev),
		}
	}
	return nil
}
