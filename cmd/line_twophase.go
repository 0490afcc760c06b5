package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/diagram"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/units"
)

var (
	// Liquid phase
	tpLiquidFlow      float64
	tpLiquidDensity   float64
	tpLiquidViscosity float64

	// Gas phase
	tpGasFlow      float64
	tpGasFlowUnit  string
	tpGasViscosity float64
	tpMW           float64
	tpSG           float64
	tpZ            float64

	// Flowing state
	tpPressure    float64
	tpTemperature float64
	tpCFactor     float64

	// Diagram options
	tpShowDiagram bool
	tpExportFile  string
)

var lineTwoPhaseCmd = &cobra.Command{
	Use:   "twophase",
	Short: "Size a two-phase gas/liquid line",
	Long: `Calculate mixture properties, velocity and pressure drop for a
gas/liquid line with the homogeneous no-slip model, and check the
mixture velocity against the API RP 14E erosional limit. The result
includes the smallest bore that stays below the erosional velocity.

Examples:
  # Wellhead flowline, oil with associated gas
  pipecalc line twophase --liquid-flow 40 --liquid-density 820 \
    --liquid-viscosity 2.5 --gas-flow 3 --gas-flow-unit MMSCFD \
    --gas-viscosity 0.012 --sg 0.7 --pressure 25 --temperature 45 \
    --nominal 4 --length 300 --service two-phase-continuous

  # Override the erosional constant for continuous clean service
  pipecalc line twophase --liquid-flow 40 --liquid-density 820 \
    --liquid-viscosity 2.5 --gas-flow 3 --gas-flow-unit MMSCFD \
    --gas-viscosity 0.012 --mw 20.3 --pressure 25 --temperature 45 \
    --nominal 4 --length 300 --c-factor 135`,
	Run: runLineTwoPhase,
}

func init() {
	lineCmd.AddCommand(lineTwoPhaseCmd)

	lineTwoPhaseCmd.Flags().Float64Var(&tpLiquidFlow, "liquid-flow", 0, "Liquid flow rate (m³/h) [required]")
	lineTwoPhaseCmd.Flags().Float64Var(&tpLiquidDensity, "liquid-density", 0, "Liquid density (kg/m³) [required]")
	lineTwoPhaseCmd.Flags().Float64Var(&tpLiquidViscosity, "liquid-viscosity", 0, "Liquid viscosity (cP) [required]")
	lineTwoPhaseCmd.Flags().Float64Var(&tpGasFlow, "gas-flow", 0, "Gas flow at standard conditions [required]")
	lineTwoPhaseCmd.Flags().StringVar(&tpGasFlowUnit, "gas-flow-unit", "m3/h", "Gas flow unit: m3/h, m3/d, ft3/h, MMSCFD")
	lineTwoPhaseCmd.Flags().Float64Var(&tpGasViscosity, "gas-viscosity", 0, "Gas viscosity (cP) [required]")
	lineTwoPhaseCmd.Flags().Float64Var(&tpMW, "mw", 0, "Gas molar mass (kg/kmol)")
	lineTwoPhaseCmd.Flags().Float64Var(&tpSG, "sg", 0, "Gas specific gravity (air = 1), alternative to --mw")
	lineTwoPhaseCmd.Flags().Float64Var(&tpZ, "z", 0, "Gas compressibility factor (default 1)")
	lineTwoPhaseCmd.Flags().Float64VarP(&tpPressure, "pressure", "p", 0, "Flowing pressure, absolute (bar) [required]")
	lineTwoPhaseCmd.Flags().Float64VarP(&tpTemperature, "temperature", "t", 0, "Flowing temperature (°C)")
	lineTwoPhaseCmd.Flags().Float64Var(&tpCFactor, "c-factor", 0, "Erosional velocity constant, overrides the service table")

	lineTwoPhaseCmd.MarkFlagRequired("liquid-flow")
	lineTwoPhaseCmd.MarkFlagRequired("liquid-density")
	lineTwoPhaseCmd.MarkFlagRequired("liquid-viscosity")
	lineTwoPhaseCmd.MarkFlagRequired("gas-flow")
	lineTwoPhaseCmd.MarkFlagRequired("gas-viscosity")
	lineTwoPhaseCmd.MarkFlagRequired("pressure")

	lineTwoPhaseCmd.Flags().BoolVar(&tpShowDiagram, "diagram", false, "Show ASCII friction factor curve")
	lineTwoPhaseCmd.Flags().StringVarP(&tpExportFile, "output", "o", "", "Export friction chart to file (png, svg, pdf)")
}

func runLineTwoPhase(cmd *cobra.Command, args []string) {
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

	in := linesize.TwoPhaseInput{
		Service:         lineService,
		LiquidFlow:      units.Q(tpLiquidFlow, "m3/h"),
		LiquidDensity:   units.Q(tpLiquidDensity, "kg/m3"),
		LiquidViscosity: units.Q(tpLiquidViscosity, "cP"),
		GasStandardFlow: units.Q(tpGasFlow, tpGasFlowUnit),
		GasViscosity:    units.Q(tpGasViscosity, "cP"),
		MolarMass:       tpMW,
		SpecificGravity: tpSG,
		Z:               tpZ,
		Pressure:        units.Q(tpPressure, "bar"),
		Temperature:     units.Q(tpTemperature, "C"),
		CFactor:         tpCFactor,
		Pipe:            pipeIn,
	}

	res, err := engine.TwoPhase(in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("TWO-PHASE LINE SIZING")

	printSection("INPUT DATA:")
	w := newTable()
	fmt.Fprintf(w, "  Liquid flow:\t%.4g m³/h\n", tpLiquidFlow)
	fmt.Fprintf(w, "  Liquid density:\t%.4g kg/m³\n", tpLiquidDensity)
	fmt.Fprintf(w, "  Gas flow:\t%.4g %s\n", tpGasFlow, tpGasFlowUnit)
	fmt.Fprintf(w, "  Pressure:\t%.4g bar(a)\n", tpPressure)
	fmt.Fprintf(w, "  Temperature:\t%.4g °C\n", tpTemperature)
	if lineService != "" {
		fmt.Fprintf(w, "  Service class:\t%s\n", lineService)
	}
	w.Flush()
	fmt.Println()

	printPipeSection(res.Geometry)

	printSection("MIXTURE:")
	w = newTable()
	fmt.Fprintf(w, "  Gas density:\t%.4g kg/m³\n", res.GasDensity)
	fmt.Fprintf(w, "  Gas actual flow:\t%.4g m³/h\n", res.GasActualFlow*3600)
	fmt.Fprintf(w, "  Liquid holdup:\t%.4f\n", res.LiquidHoldup)
	fmt.Fprintf(w, "  Mixture density:\t%.4g kg/m³\n", res.MixtureDensity)
	fmt.Fprintf(w, "  Mixture viscosity:\t%.4g cP\n", res.MixtureViscosity*1e3)
	w.Flush()
	fmt.Println()

	printSection("FLOW:")
	w = newTable()
	fmt.Fprintf(w, "  Mixture velocity:\t%.3f m/s\n", res.Flow.Velocity)
	fmt.Fprintf(w, "  Erosional velocity:\t%.3f m/s\n", res.ErosionalVelocity)
	fmt.Fprintf(w, "  Minimum diameter:\t%.1f mm\n", res.MinimumDiameter*1e3)
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
	if tpShowDiagram {
		fmt.Println(diagram.DrawFrictionCurve(rr, engine.Solver, res.Flow.Reynolds))
	}
	if tpExportFile != "" {
		if err := diagram.ExportMoodyChart(tpExportFile, []float64{rr}, engine.Solver); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("Chart exported to: %s\n", tpExportFile)
		}
	}
}
