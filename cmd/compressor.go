package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/compressor"
	"github.com/pipecalc/pipecalc/internal/diagram"
	"github.com/pipecalc/pipecalc/internal/units"
)

var (
	compFlow        float64
	compFlowUnit    string
	compSuction     float64
	compDischarge   float64
	compTemperature float64
	compMW          float64
	compSG          float64
	compZ           float64
	compK           float64
	compEfficiency  float64
	compPolytropic  bool
)

var compressorCmd = &cobra.Command{
	Use:   "compressor",
	Short: "Estimate a single-stage gas compression duty",
	Long: `Estimate adiabatic or polytropic head, discharge temperature and gas
power for one compression stage. Flow is given at standard conditions;
pressures are absolute. The stage is graded against the usual ratio
and discharge temperature limits.

Examples:
  # Methane booster, 20 MMSCFD from 30 to 60 bar(a)
  pipecalc compressor --flow 20 --flow-unit MMSCFD --suction 30 \
    --discharge 60 --temperature 30 --mw 16.04 --z 0.95 --k 1.3

  # Polytropic estimate with a vendor efficiency
  pipecalc compressor --flow 20 --flow-unit MMSCFD --suction 30 \
    --discharge 60 --temperature 30 --sg 0.6 --k 1.3 \
    --polytropic --efficiency 0.78`,
	Run: runCompressor,
}

func init() {
	rootCmd.AddCommand(compressorCmd)
	f := compressorCmd.Flags()

	f.Float64VarP(&compFlow, "flow", "q", 0, "Standard volumetric flow rate [required]")
	f.StringVar(&compFlowUnit, "flow-unit", "m3/h", "Flow unit: m3/h, m3/d, ft3/h, MMSCFD")
	f.Float64Var(&compSuction, "suction", 0, "Suction pressure, absolute (bar) [required]")
	f.Float64Var(&compDischarge, "discharge", 0, "Discharge pressure, absolute (bar) [required]")
	f.Float64VarP(&compTemperature, "temperature", "t", 0, "Suction temperature (°C) [required]")
	f.Float64Var(&compMW, "mw", 0, "Molar mass (kg/kmol)")
	f.Float64Var(&compSG, "sg", 0, "Gas specific gravity (air = 1), alternative to --mw")
	f.Float64Var(&compZ, "z", 0, "Average compressibility factor (default 1)")
	f.Float64Var(&compK, "k", 0, "Specific heat ratio Cp/Cv (default 1.4)")
	f.Float64VarP(&compEfficiency, "efficiency", "e", 0, "Stage efficiency (default 0.75)")
	f.BoolVar(&compPolytropic, "polytropic", false, "Use the polytropic model instead of adiabatic")

	compressorCmd.MarkFlagRequired("flow")
	compressorCmd.MarkFlagRequired("suction")
	compressorCmd.MarkFlagRequired("discharge")
	compressorCmd.MarkFlagRequired("temperature")
}

func runCompressor(cmd *cobra.Command, args []string) {
	process := compressor.Adiabatic
	if compPolytropic {
		process = compressor.Polytropic
	}
	in := compressor.Input{
		Process:            process,
		StandardFlow:       units.Q(compFlow, compFlowUnit),
		SuctionPressure:    units.Q(compSuction, "bar"),
		DischargePressure:  units.Q(compDischarge, "bar"),
		SuctionTemperature: units.Q(compTemperature, "C"),
		MolarMass:          compMW,
		SpecificGravity:    compSG,
		Z:                  compZ,
		SpecificHeatRatio:  compK,
		Efficiency:         compEfficiency,
	}

	res, err := compressor.Calculate(in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("COMPRESSOR ESTIMATE")

	printSection("INPUT DATA:")
	w := newTable()
	fmt.Fprintf(w, "  Process:\t%s\n", res.Process)
	fmt.Fprintf(w, "  Standard flow:\t%.4g %s\n", compFlow, compFlowUnit)
	fmt.Fprintf(w, "  Suction:\t%.4g bar(a) at %.4g °C\n", compSuction, compTemperature)
	fmt.Fprintf(w, "  Discharge:\t%.4g bar(a)\n", compDischarge)
	fmt.Fprintf(w, "  Molar mass:\t%.4g kg/kmol\n", res.MolarMass)
	w.Flush()
	fmt.Println()

	printSection("STAGE:")
	w = newTable()
	fmt.Fprintf(w, "  Pressure ratio:\t%.3f\n", res.PressureRatio)
	fmt.Fprintf(w, "  Suction density:\t%.4g kg/m³\n", res.SuctionDensity)
	fmt.Fprintf(w, "  Actual inlet flow:\t%.4g m³/h\n", res.ActualFlow*3600)
	fmt.Fprintf(w, "  Mass flow:\t%.4g kg/s\n", res.MassFlow)
	if res.PolytropicExponent > 0 {
		fmt.Fprintf(w, "  Polytropic exponent:\t%.4f\n", res.PolytropicExponent)
	}
	w.Flush()
	fmt.Println()

	printSection("RESULTS:")
	w = newTable()
	fmt.Fprintf(w, "  Head:\t%.4g kJ/kg\n", res.Head/1e3)
	fmt.Fprintf(w, "  Head:\t%.4g m\n", res.HeadMeters)
	fmt.Fprintf(w, "  Discharge temperature:\t%.1f °C\n", res.DischargeTemperature-273.15)
	fmt.Fprintf(w, "  Gas power:\t%.4g kW\n", res.GasPower/1e3)
	w.Flush()
	fmt.Println()

	printChecks(res.Checks)
	printWarnings(res.Warnings)

	fmt.Println(diagram.DrawSummaryBox("STAGE ESTIMATE", []string{
		fmt.Sprintf("Ratio %.2f, head %.4g kJ/kg", res.PressureRatio, res.Head/1e3),
		fmt.Sprintf("Discharge %.1f °C", res.DischargeTemperature-273.15),
		fmt.Sprintf("Gas power %.4g kW", res.GasPower/1e3),
	}))
}
