package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/diagram"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/units"
)

var (
	// Fluid inputs
	liquidFlow      float64
	liquidDensity   float64
	liquidSG        float64
	liquidViscosity float64

	// Diagram options
	liquidShowDiagram bool
	liquidExportFile  string
)

var lineLiquidCmd = &cobra.Command{
	Use:   "liquid",
	Short: "Size a single-phase liquid line",
	Long: `Calculate velocity, Reynolds number, friction factor and pressure
drop for a liquid line, and grade the result against the service
criteria (velocity bands, momentum, frictional gradient).

Examples:
  # Water duty on a 6" schedule 40 process line
  pipecalc line liquid --flow 100 --density 1000 --viscosity 1 \
    --nominal 6 --schedule 40 --length 100 --service liquid-process

  # Light hydrocarbon by specific gravity, with fittings
  pipecalc line liquid --flow 80 --sg 0.72 --viscosity 0.5 \
    --nominal 4 --length 250 --fittings elbow-90-lr:6,gate-valve:2`,
	Run: runLineLiquid,
}

func init() {
	lineCmd.AddCommand(lineLiquidCmd)

	lineLiquidCmd.Flags().Float64VarP(&liquidFlow, "flow", "q", 0, "Volumetric flow rate (m³/h) [required]")
	lineLiquidCmd.Flags().Float64Var(&liquidDensity, "density", 0, "Liquid density (kg/m³)")
	lineLiquidCmd.Flags().Float64Var(&liquidSG, "sg", 0, "Specific gravity, alternative to --density")
	lineLiquidCmd.Flags().Float64Var(&liquidViscosity, "viscosity", 0, "Dynamic viscosity (cP) [required]")

	lineLiquidCmd.MarkFlagRequired("flow")
	lineLiquidCmd.MarkFlagRequired("viscosity")

	lineLiquidCmd.Flags().BoolVar(&liquidShowDiagram, "diagram", false, "Show ASCII friction factor curve")
	lineLiquidCmd.Flags().StringVarP(&liquidExportFile, "output", "o", "", "Export friction chart to file (png, svg, pdf)")
}

func runLineLiquid(cmd *cobra.Command, args []string) {
	engine, err := lineEngine()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	pipeIn, err := linePipeInput(cmd)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	in := linesize.LiquidInput{
		Service:   lineService,
		FlowRate:  units.Q(liquidFlow, "m3/h"),
		Viscosity: units.Q(liquidViscosity, "cP"),
		Pipe:      pipeIn,
	}
	if liquidSG != 0 {
		in.Density = units.Q(liquidSG, "sg")
	} else {
		in.Density = units.Q(liquidDensity, "kg/m3")
	}

	res, err := engine.Liquid(in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("LIQUID LINE SIZING")

	printSection("INPUT DATA:")
	w := newTable()
	fmt.Fprintf(w, "  Flow rate:\t%.4g m³/h\n", liquidFlow)
	if liquidSG != 0 {
		fmt.Fprintf(w, "  Specific gravity:\t%.4g\n", liquidSG)
	} else {
		fmt.Fprintf(w, "  Density:\t%.4g kg/m³\n", liquidDensity)
	}
	fmt.Fprintf(w, "  Viscosity:\t%.4g cP\n", liquidViscosity)
	if lineService != "" {
		fmt.Fprintf(w, "  Service class:\t%s\n", lineService)
	}
	w.Flush()
	fmt.Println()

	printPipeSection(res.Geometry)

	printSection("FLOW:")
	w = newTable()
	fmt.Fprintf(w, "  Velocity:\t%.3f m/s\n", res.Flow.Velocity)
	fmt.Fprintf(w, "  Reynolds number:\t%.4g\n", res.Flow.Reynolds)
	fmt.Fprintf(w, "  Regime:\t%s\n", res.Flow.Regime)
	fmt.Fprintf(w, "  Friction factor:\t%.5f (%s)\n", res.Friction.Factor, solverName())
	if res.Friction.Iterations > 0 {
		fmt.Fprintf(w, "  Solver iterations:\t%d\n", res.Friction.Iterations)
	}
	w.Flush()
	fmt.Println()

	printSection("PRESSURE DROP:")
	w = newTable()
	fmt.Fprintf(w, "  Pipe friction:\t%.4g kPa\n", res.Drop.Friction/1e3)
	fmt.Fprintf(w, "  Fittings:\t%.4g kPa\n", res.Drop.Fittings/1e3)
	fmt.Fprintf(w, "  Elevation:\t%.4g kPa\n", res.Drop.Elevation/1e3)
	fmt.Fprintf(w, "  Total:\t%.4g kPa\n", res.Drop.Total/1e3)
	fmt.Fprintf(w, "  Gradient:\t%.4g kPa/km\n", res.Gradient)
	fmt.Fprintf(w, "  Head loss:\t%.3f m\n", res.HeadLoss)
	w.Flush()
	fmt.Println()

	printChecks(res.Checks)
	printWarnings(res.Warnings)

	rr := res.Geometry.Roughness / res.Geometry.InsideDiameter
	if liquidShowDiagram {
		fmt.Println(diagram.DrawFrictionCurve(rr, engine.Solver, res.Flow.Reynolds))
	}
	if liquidExportFile != "" {
		if err := diagram.ExportMoodyChart(liquidExportFile, []float64{rr}, engine.Solver); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("Chart exported to: %s\n", liquidExportFile)
		}
	}
}
