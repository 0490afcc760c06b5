package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pipecalc/pipecalc/internal/hydro"
)

const (
	saveWidth  = 8 * vg.Inch
	saveHeight = 6 * vg.Inch

	laminarSamples   = 24
	turbulentSamples = 60
)

var linePalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// ExportMoodyChart exports a friction-factor chart to an image file: one
// turbulent curve per relative roughness over Re 4·10³ to 10⁸, plus the
// shared laminar branch f = 64/Re. Both axes are logarithmic.
func ExportMoodyChart(filename string, relRoughness []float64, solver hydro.Solver) error {
	p := plot.New()
	p.Title.Text = "Darcy Friction Factor"
	p.X.Label.Text = "Reynolds number"
	p.Y.Label.Text = "Friction factor"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	// The laminar branch is roughness-independent, so it is drawn once.
	// The transition band 2300..4000 is left open as on a Moody chart.
	lam := make(plotter.XYs, laminarSamples)
	for i := range lam {
		t := float64(i) / float64(laminarSamples-1)
		re := 600 * math.Pow(2300.0/600.0, t)
		lam[i] = plotter.XY{X: re, Y: 64 / re}
	}
	lamLine, err := plotter.NewLine(lam)
	if err != nil {
		return err
	}
	lamLine.LineStyle.Width = vg.Points(1.5)
	lamLine.LineStyle.Color = color.Black
	lamLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(lamLine)
	p.Legend.Add("laminar 64/Re", lamLine)

	for idx, rr := range relRoughness {
		pts := make(plotter.XYs, turbulentSamples)
		for i := range pts {
			t := float64(i) / float64(turbulentSamples-1)
			re := 4e3 * math.Pow(1e8/4e3, t)
			fr, err := hydro.FrictionFactor(re, rr, solver)
			if err != nil {
				return err
			}
			pts[i] = plotter.XY{X: re, Y: fr.Factor}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = linePalette[idx%len(linePalette)]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("ε/D = %.2g", rr), line)
	}

	return savePlot(p, filename)
}

// ExportSystemCurve exports the system head curve H(Q) = static + k·Q²
// to an image file, with the duty point marked.
func ExportSystemCurve(filename string, staticHead, frictionHead, dutyFlow float64) error {
	p := plot.New()
	p.Title.Text = "System Head Curve"
	p.X.Label.Text = "Flow (m³/h)"
	p.Y.Label.Text = "Head (m)"
	p.Legend.Top = true
	p.Legend.Left = true

	k := 0.0
	if dutyFlow > 0 {
		k = frictionHead / (dutyFlow * dutyFlow)
	}
	const samples = 64
	pts := make(plotter.XYs, samples+1)
	for i := range pts {
		q := 1.25 * dutyFlow * float64(i) / samples
		pts[i] = plotter.XY{X: q * 3600, Y: staticHead + k*q*q}
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	curve.LineStyle.Width = vg.Points(2)
	curve.LineStyle.Color = linePalette[0]
	p.Add(curve)
	p.Legend.Add("system", curve)

	dutyHead := staticHead + frictionHead
	duty, err := plotter.NewScatter(plotter.XYs{{X: dutyFlow * 3600, Y: dutyHead}})
	if err != nil {
		return err
	}
	duty.GlyphStyle.Color = linePalette[3]
	duty.GlyphStyle.Radius = vg.Points(4)
	duty.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(duty)
	p.Legend.Add("duty", duty)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: dutyFlow * 3600, Y: dutyHead}},
		Labels: []string{fmt.Sprintf("%.1f m³/h @ %.1f m", dutyFlow*3600, dutyHead)},
	})
	if err != nil {
		return err
	}
	p.Add(label)

	return savePlot(p, filename)
}

// ExportGradeLines exports the energy and hydraulic grade lines along
// the run. The energy line falls from the inlet head by the friction
// loss, the hydraulic line sits one velocity head below it, and the
// pipe centerline is drawn for reference.
func ExportGradeLines(filename string, length, inletHead, frictionHead, velocityHead, elevationRise float64) error {
	p := plot.New()
	p.Title.Text = "Grade Lines"
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Head (m)"
	p.Legend.Top = true

	egl, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: inletHead},
		{X: length, Y: inletHead - frictionHead},
	})
	if err != nil {
		return err
	}
	egl.LineStyle.Width = vg.Points(1.5)
	egl.LineStyle.Color = linePalette[2]
	egl.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(egl)
	p.Legend.Add("energy grade", egl)

	hgl, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: inletHead - velocityHead},
		{X: length, Y: inletHead - frictionHead - velocityHead},
	})
	if err != nil {
		return err
	}
	hgl.LineStyle.Width = vg.Points(2)
	hgl.LineStyle.Color = linePalette[0]
	p.Add(hgl)
	p.Legend.Add("hydraulic grade", hgl)

	centerline, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: length, Y: elevationRise},
	})
	if err != nil {
		return err
	}
	centerline.LineStyle.Width = vg.Points(3)
	centerline.LineStyle.Color = color.Gray{Y: 128}
	p.Add(centerline)
	p.Legend.Add("pipe centerline", centerline)

	return savePlot(p, filename)
}

func savePlot(p *plot.Plot, filename string) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".tif":
		return p.Save(saveWidth, saveHeight, filename)
	default:
		return p.Save(saveWidth, saveHeight, filename+".png")
	}
}
