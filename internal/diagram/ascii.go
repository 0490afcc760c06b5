// Package diagram renders calculation results as terminal graphs and
// exportable images: pump system curves, friction factor curves, and
// hydraulic grade lines.
package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/pipecalc/pipecalc/internal/hydro"
)

// graph sizing shared by the terminal plots
const (
	plotWidth  = 64
	plotHeight = 12
)

// DrawSystemCurve renders the system head curve H(Q) = static + k·Q²
// through the duty point. Flow in m³/h on the x axis, head in metres.
func DrawSystemCurve(staticHead, frictionHead, dutyFlow float64) string {
	if dutyFlow <= 0 {
		return ""
	}
	k := frictionHead / (dutyFlow * dutyFlow)
	const samples = plotWidth
	series := make([]float64, samples+1)
	for i := 0; i <= samples; i++ {
		q := 1.25 * dutyFlow * float64(i) / samples
		series[i] = staticHead + k*q*q
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("System head (m) for 0..%.4g m³/h; duty %.4g m³/h at %.4g m",
			1.25*dutyFlow*3600, dutyFlow*3600, staticHead+frictionHead)),
	)
	return "\n" + graph + "\n"
}

// DrawFrictionCurve renders the Darcy friction factor over Re 4·10³ to
// 10⁸ at a fixed relative roughness, sampled evenly in log Re. The
// operating point is spelled out in the caption.
func DrawFrictionCurve(relRoughness float64, solver hydro.Solver, operatingRe float64) string {
	const samples = plotWidth
	logLo := math.Log10(4000)
	logHi := 8.0
	series := make([]float64, samples+1)
	for i := 0; i <= samples; i++ {
		re := math.Pow(10, logLo+(logHi-logLo)*float64(i)/samples)
		fr, err := hydro.FrictionFactor(re, relRoughness, solver)
		if err != nil {
			return ""
		}
		series[i] = fr.Factor
	}
	caption := fmt.Sprintf("Darcy f over Re 4e3..1e8 (log spaced), ε/D = %.3g", relRoughness)
	if operatingRe > 0 {
		if fr, err := hydro.FrictionFactor(operatingRe, relRoughness, solver); err == nil {
			caption += fmt.Sprintf("; operating Re %.3g, f %.4f", operatingRe, fr.Factor)
		}
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	return "\n" + graph + "\n"
}

// DrawSummaryBox frames a title and result lines in a box for the
// terminal reports.
func DrawSummaryBox(title string, lines []string) string {
	width := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	width += 4

	pad := func(s string) string {
		return s + strings.Repeat(" ", width-4-len([]rune(s)))
	}
	var sb strings.Builder
	border := strings.Repeat("═", width)
	fmt.Fprintf(&sb, "  ╔%s╗\n", border)
	fmt.Fprintf(&sb, "  ║  %s  ║\n", pad(title))
	fmt.Fprintf(&sb, "  ╠%s╣\n", border)
	for _, line := range lines {
		fmt.Fprintf(&sb, "  ║  %s  ║\n", pad(line))
	}
	fmt.Fprintf(&sb, "  ╚%s╝\n", border)
	return sb.String()
}
