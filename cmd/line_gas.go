package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/diagram"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/units"
)

var (
	// Gas inputs
	gasFlow        float64
	gasFlowUnit    string
	gasPressure    float64
	gasTemperature float64
	gasViscosity   float64
	gasMW          float64
	gasSG          float64
	gasZ           float64
	gasK           float64

	// Diagram options
	gasShowDiagram bool
	gasExportFile  string
)

var lineGasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Size a single-phase gas line",
	Long: `Calculate flowing density, actual velocity, Mach number and pressure
drop for a gas line. Flow is given at standard conditions and
converted to the flowing state with the real-gas law, so pressure is
always the flowing absolute pressure.

Examples:
  # Fuel gas header, 20 MMSCFD methane at 30 bar(a)
  pipecalc line gas --flow 20 --flow-unit MMSCFD --pressure 30 \
    --temperature 30 --viscosity 0.011 --mw 16.04 --z 0.95 \
    --nominal 6 --length 150 --service gas-process

  # Air utility line by specific gravity
  pipecalc line gas --flow 500 --pressure 8 --temperature 25 \
    --viscosity 0.018 --sg 1.0 --nominal 2 --length 60`,
	Run: runLineGas,
}

func init() {
	lineCmd.AddCommand(lineGasCmd)

	lineGasCmd.Flags().Float64VarP(&gasFlow, "flow", "q", 0, "Standard volumetric flow rate [required]")
	lineGasCmd.Flags().StringVar(&gasFlowUnit, "flow-unit", "m3/h", "Flow unit: m3/h, m3/d, ft3/h, MMSCFD")
	lineGasCmd.Flags().Float64VarP(&gasPressure, "pressure", "p", 0, "Flowing pressure, absolute (bar) [required]")
	lineGasCmd.Flags().Float64VarP(&gasTemperature, "temperature", "t", 0, "Flowing temperature (°C)")
	lineGasCmd.Flags().Float64Var(&gasViscosity, "viscosity", 0, "Gas viscosity (cP) [required]")
	lineGasCmd.Flags().Float64Var(&gasMW, "mw", 0, "Molar mass (kg/kmol)")
	lineGasCmd.Flags().Float64Var(&gasSG, "sg", 0, "Gas specific gravity (air = 1), alternative to --mw")
	lineGasCmd.Flags().Float64Var(&gasZ, "z", 0, "Compressibility factor (default 1)")
	lineGasCmd.Flags().Float64Var(&gasK, "k", 0, "Specific heat ratio Cp/Cv (default 1.4)")

	lineGasCmd.MarkFlagRequired("flow")
	lineGasCmd.MarkFlagRequired("pressure")
	lineGasCmd.MarkFlagRequired("viscosity")

	lineGasCmd.Flags().BoolVar(&gasShowDiagram, "diagram", false, "Show ASCII friction factor curve")
	lineGasCmd.Flags().StringVarP(&gasExportFile, "output", "o", "", "Export friction chart to file (png, svg, pdf)")
}

func runLineGas(cmd *cobra.Command, args []string) {
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

	in := linesize.GasInput{
		Service:           lineService,
		StandardFlow:      units.Q(gasFlow, gasFlowUnit),
		Pressure:          units.Q(gasPressure, "bar"),
		Temperature:       units.Q(gasTemperature, "C"),
		Viscosity:         units.Q(gasViscosity, "cP"),
		MolarMass:         gasMW,
		SpecificGravity:   gasSG,
		Z:                 gasZ,
		SpecificHeatRatio: gasK,
		Pipe:              pipeIn,
	}

	res, err := engine.Gas(in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("GAS LINE SIZING")

	printSection("INPUT DATA:")
	w := newTable()
	fmt.Fprintf(w, "  Standard flow:\t%.4g %s\n", gasFlow, gasFlowUnit)
	fmt.Fprintf(w, "  Pressure:\t%.4g bar(a)\n", gasPressure)
	fmt.Fprintf(w, "  Temperature:\t%.4g °C\n", gasTemperature)
	fmt.Fprintf(w, "  Viscosity:\t%.4g cP\n", gasViscosity)
	fmt.Fprintf(w, "  Molar mass:\t%.4g kg/kmol\n", res.MolarMass)
	if lineService != "" {
		fmt.Fprintf(w, "  Service class:\t%s\n", lineService)
	}
	w.Flush()
	fmt.Println()

	printPipeSection(res.Geometry)

	printSection("FLOWING STATE:")
	w = newTable()
	fmt.Fprintf(w, "  Density:\t%.4g kg/m³\n", res.Density)
	fmt.Fprintf(w, "  Actual flow:\t%.4g m³/h\n", res.ActualFlow*3600)
	fmt.Fprintf(w, "  Velocity:\t%.3f m/s\n", res.Flow.Velocity)
	fmt.Fprintf(w, "  Sonic velocity:\t%.1f m/s\n", res.SonicVelocity)
	fmt.Fprintf(w, "  Mach number:\t%.4f\n", res.Mach)
	fmt.Fprintf(w, "  Reynolds number:\t%.4g\n", res.Flow.Reynolds)
	fmt.Fprintf(w, "  Friction factor:\t%.5f (%s)\n", res.Friction.Factor, solverName())
	w.Flush()
	fmt.Println()

	printSection("PRESSURE DROP:")
	w = newTable()
	fmt.Fprintf(w, "  Pipe friction:\t%.4g kPa\n", res.Drop.Friction/1e3)
	fmt.Fprintf(w, "  Fittings:\t%.4g kPa\n", res.Drop.Fittings/1e3)
	fmt.Fprintf(w, "  Elevation:\t%.4g kPa\n", res.Drop.Elevation/1e3)
	fmt.Fprintf(w, "  Total:\t%.4g kPa\n", res.Drop.Total/1e3)
	fmt.Fprintf(w, "  Gradient:\t%.4g kPa/km\n", res.Gradient)
	w.Flush()
	fmt.Println()

	printChecks(res.Checks)
	printWarnings(res.Warnings)

	rr := res.Geometry.Roughness / res.Geometry.InsideDiameter
	if gasShowDiagram {
		fmt.Println(diagram.DrawFrictionCurve(rr, engine.Solver, res.Flow.Reynolds))
	}
	if gasExportFile != "" {
		if err := diagram.ExportMoodyChart(gasExportFile, []float64{rr}, engine.Solver); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("Chart exported to: %s\n", gasExportFile)
		}
	}
}
