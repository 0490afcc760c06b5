package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/diagram"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/pump"
	"github.com/pipecalc/pipecalc/internal/units"
)

var (
	// Duty
	pumpMode          string
	pumpFlow          float64
	pumpDensity       float64
	pumpSG            float64
	pumpViscosity     float64
	pumpVaporPressure float64
	pumpNPSHR         float64
	pumpEfficiency    float64

	// Suction side
	pumpSuctionPressure  float64
	pumpSuctionElevation float64
	pumpSuctionNominal   string
	pumpSuctionSchedule  string
	pumpSuctionDiameter  float64
	pumpSuctionLength    float64
	pumpSuctionFittings  string

	// Discharge side
	pumpDischargePressure  float64
	pumpDischargeElevation float64
	pumpDischargeNominal   string
	pumpDischargeSchedule  string
	pumpDischargeDiameter  float64
	pumpDischargeLength    float64
	pumpDischargeFittings  string

	pumpMaterial string

	// Reciprocating and viscous corrections
	pumpPlunger     string
	pumpSpeed       float64
	pumpFluidFactor float64
	pumpViscous     bool

	// Diagram options
	pumpShowDiagram bool
	pumpExportFile  string
	pumpProfileFile string
)

var pumpCmd = &cobra.Command{
	Use:   "pump",
	Short: "Size a pump duty or rate it from flange readings",
	Long: `Calculate total dynamic head, NPSH available and power for a pump.

Two modes are supported:
  system-sizing  - Work from the source and destination vessels through
                   the connected piping. Side pressures are the vessel
                   surface pressures, elevations are liquid levels above
                   the pump datum, and each side carries its line.
  flange-rating  - Work from gauge readings at the pump nozzles. No
                   system friction enters the head; pipe flags only
                   supply the nozzle bores.

Reciprocating duties add the HI acceleration head with --plunger, and
viscous duties apply the HI 9.6.7 correction with --viscous. Both need
the pump speed.

Examples:
  # Transfer pump between two vessels
  pipecalc pump --flow 100 --density 1000 --viscosity 1 \
    --vapor-pressure 2.34 --suction-pressure 1.013 --suction-elevation 3 \
    --suction-nominal 6 --suction-length 12 \
    --discharge-pressure 3.5 --discharge-elevation 18 \
    --discharge-nominal 4 --discharge-length 240 --efficiency 0.7

  # Field rating from flange gauges
  pipecalc pump --mode flange-rating --flow 100 --density 1000 \
    --viscosity 1 --vapor-pressure 2.34 --suction-pressure 2 \
    --suction-nominal 6 --discharge-pressure 8 \
    --discharge-elevation 0.5 --discharge-nominal 4

  # Triplex metering duty at 360 rpm
  pipecalc pump --flow 12 --density 980 --viscosity 40 \
    --vapor-pressure 1.2 --suction-pressure 1.013 --suction-elevation 2 \
    --suction-nominal 2 --suction-length 8 --discharge-pressure 15 \
    --discharge-nominal 1-1/2 --discharge-length 30 \
    --plunger triplex --speed 360 --viscous`,
	Run: runPumpCmd,
}

func init() {
	rootCmd.AddCommand(pumpCmd)
	f := pumpCmd.Flags()

	f.StringVar(&pumpMode, "mode", "system-sizing", "Calculation mode: system-sizing or flange-rating")
	f.Float64VarP(&pumpFlow, "flow", "q", 0, "Flow rate (m³/h) [required]")
	f.Float64Var(&pumpDensity, "density", 0, "Liquid density (kg/m³)")
	f.Float64Var(&pumpSG, "sg", 0, "Specific gravity, alternative to --density")
	f.Float64Var(&pumpViscosity, "viscosity", 0, "Dynamic viscosity (cP) [required]")
	f.Float64Var(&pumpVaporPressure, "vapor-pressure", 0, "Vapor pressure, absolute (kPa) [required]")
	f.Float64Var(&pumpNPSHR, "npshr", 0, "NPSH required from the vendor curve (m)")
	f.Float64VarP(&pumpEfficiency, "efficiency", "e", 0, "Hydraulic efficiency (0-1] for brake power")

	f.Float64Var(&pumpSuctionPressure, "suction-pressure", 0, "Suction pressure, absolute (bar) [required]")
	f.Float64Var(&pumpSuctionElevation, "suction-elevation", 0, "Suction level or gauge height above datum (m)")
	f.StringVar(&pumpSuctionNominal, "suction-nominal", "", "Suction nominal pipe size")
	f.StringVar(&pumpSuctionSchedule, "suction-schedule", "40", "Suction pipe schedule")
	f.Float64Var(&pumpSuctionDiameter, "suction-diameter", 0, "Suction inside diameter (mm) when no designation")
	f.Float64Var(&pumpSuctionLength, "suction-length", 0, "Suction line length (m)")
	f.StringVar(&pumpSuctionFittings, "suction-fittings", "", "Suction fittings, e.g. elbow-90-lr:2,gate-valve:1")

	f.Float64Var(&pumpDischargePressure, "discharge-pressure", 0, "Discharge pressure, absolute (bar) [required]")
	f.Float64Var(&pumpDischargeElevation, "discharge-elevation", 0, "Discharge level or gauge height above datum (m)")
	f.StringVar(&pumpDischargeNominal, "discharge-nominal", "", "Discharge nominal pipe size")
	f.StringVar(&pumpDischargeSchedule, "discharge-schedule", "40", "Discharge pipe schedule")
	f.Float64Var(&pumpDischargeDiameter, "discharge-diameter", 0, "Discharge inside diameter (mm) when no designation")
	f.Float64Var(&pumpDischargeLength, "discharge-length", 0, "Discharge line length (m)")
	f.StringVar(&pumpDischargeFittings, "discharge-fittings", "", "Discharge fittings, e.g. elbow-90-lr:6,check-valve-swing:1")

	f.StringVar(&pumpMaterial, "material", "commercial-steel", "Pipe material for roughness lookup")

	f.StringVar(&pumpPlunger, "plunger", "", "Reciprocating arrangement: simplex-double-acting, duplex-double-acting, triplex, quintuplex, septuplex")
	f.Float64Var(&pumpSpeed, "speed", 0, "Pump speed (rpm), needed by --plunger and --viscous")
	f.Float64Var(&pumpFluidFactor, "fluid-factor", 1.5, "HI fluid factor k for acceleration head")
	f.BoolVar(&pumpViscous, "viscous", false, "Apply the HI 9.6.7 viscous performance correction")

	pumpCmd.MarkFlagRequired("flow")
	pumpCmd.MarkFlagRequired("viscosity")
	pumpCmd.MarkFlagRequired("vapor-pressure")
	pumpCmd.MarkFlagRequired("suction-pressure")
	pumpCmd.MarkFlagRequired("discharge-pressure")

	f.BoolVar(&pumpShowDiagram, "diagram", false, "Show ASCII system curve")
	f.StringVarP(&pumpExportFile, "output", "o", "", "Export system curve to file (png, svg, pdf)")
	f.StringVar(&pumpProfileFile, "profile", "", "Export discharge grade lines to file (png, svg, pdf)")
}

func pumpSideInput(cmd *cobra.Command, prefix string, pressure, elevation float64, nominal, schedule string, diameter, length float64, fittings string) (pump.Side, error) {
	fc, err := parseFittings(fittings)
	if err != nil {
		return pump.Side{}, err
	}
	s := pump.Side{
		Pressure: units.Q(pressure, "bar"),
		Pipe: linesize.PipeInput{
			Nominal:  nominal,
			Schedule: schedule,
			Material: pumpMaterial,
			Fittings: fc,
		},
	}
	if cmd.Flags().Changed(prefix + "-elevation") {
		s.Elevation = units.Q(elevation, "m")
	}
	if nominal == "" {
		s.Pipe.Schedule = ""
	}
	if diameter != 0 {
		s.Pipe.Diameter = units.Q(diameter, "mm")
	}
	if length != 0 {
		s.Pipe.Length = units.Q(length, "m")
	}
	return s, nil
}

func runPumpCmd(cmd *cobra.Command, args []string) {
	lines, err := lineEngine()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	engine := &pump.Engine{Lines: lines}

	suction, err := pumpSideInput(cmd, "suction", pumpSuctionPressure, pumpSuctionElevation,
		pumpSuctionNominal, pumpSuctionSchedule, pumpSuctionDiameter, pumpSuctionLength, pumpSuctionFittings)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	discharge, err := pumpSideInput(cmd, "discharge", pumpDischargePressure, pumpDischargeElevation,
		pumpDischargeNominal, pumpDischargeSchedule, pumpDischargeDiameter, pumpDischargeLength, pumpDischargeFittings)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	in := pump.Input{
		Mode:          pump.Mode(pumpMode),
		FlowRate:      units.Q(pumpFlow, "m3/h"),
		Viscosity:     units.Q(pumpViscosity, "cP"),
		VaporPressure: units.Q(pumpVaporPressure, "kPa"),
		Efficiency:    pumpEfficiency,
		Suction:       suction,
		Discharge:     discharge,
	}
	if pumpSG != 0 {
		in.Density = units.Q(pumpSG, "sg")
	} else {
		in.Density = units.Q(pumpDensity, "kg/m3")
	}
	if pumpNPSHR != 0 {
		in.NPSHRequired = units.Q(pumpNPSHR, "m")
	}

	var decs []pump.Decorator
	if pumpPlunger != "" {
		decs = append(decs, pump.WithAccelerationHead(pump.PlungerConfig(pumpPlunger), pumpSpeed, pumpFluidFactor))
	}
	if pumpViscous {
		decs = append(decs, pump.WithViscosityCorrection(pumpSpeed))
	}

	res, err := engine.Calculate(in, decs...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("PUMP SIZING")

	printSection("INPUT DATA:")
	w := newTable()
	fmt.Fprintf(w, "  Mode:\t%s\n", res.Mode)
	fmt.Fprintf(w, "  Flow rate:\t%.4g m³/h\n", pumpFlow)
	if pumpSG != 0 {
		fmt.Fprintf(w, "  Specific gravity:\t%.4g\n", pumpSG)
	} else {
		fmt.Fprintf(w, "  Density:\t%.4g kg/m³\n", pumpDensity)
	}
	fmt.Fprintf(w, "  Viscosity:\t%.4g cP\n", pumpViscosity)
	fmt.Fprintf(w, "  Vapor pressure:\t%.4g kPa(a)\n", pumpVaporPressure)
	w.Flush()
	fmt.Println()

	printPumpSide("SUCTION:", pumpSuctionPressure, res.Suction)
	printPumpSide("DISCHARGE:", pumpDischargePressure, res.Discharge)

	printSection("HEAD:")
	w = newTable()
	fmt.Fprintf(w, "  Static:\t%.3f m\n", res.Head.Static)
	fmt.Fprintf(w, "  Pressure:\t%.3f m\n", res.Head.Pressure)
	fmt.Fprintf(w, "  Friction:\t%.3f m\n", res.Head.Friction)
	fmt.Fprintf(w, "  Velocity:\t%.3f m\n", res.Head.Velocity)
	if res.Head.Acceleration != 0 {
		fmt.Fprintf(w, "  Acceleration:\t%.3f m\n", res.Head.Acceleration)
	}
	fmt.Fprintf(w, "  Total dynamic head:\t%.3f m\n", res.Head.Total)
	w.Flush()
	fmt.Println()

	printSection("NPSH AND POWER:")
	w = newTable()
	fmt.Fprintf(w, "  NPSH available:\t%.3f m\n", res.NPSHa)
	if res.NPSHMargin != nil {
		fmt.Fprintf(w, "  NPSH margin:\t%.3f m\n", *res.NPSHMargin)
	}
	fmt.Fprintf(w, "  Hydraulic power:\t%.4g kW\n", res.HydraulicPower/1e3)
	if res.BrakePower > 0 {
		fmt.Fprintf(w, "  Brake power:\t%.4g kW\n", res.BrakePower/1e3)
	}
	w.Flush()
	fmt.Println()

	if vc := res.Viscosity; vc != nil {
		printSection("VISCOUS CORRECTION:")
		w = newTable()
		fmt.Fprintf(w, "  Parameter B:\t%.3f\n", vc.B)
		fmt.Fprintf(w, "  CQ / CH / Cη:\t%.3f / %.3f / %.3f\n", vc.CQ, vc.CH, vc.CEta)
		fmt.Fprintf(w, "  Water-equivalent flow:\t%.4g m³/h\n", vc.WaterFlow*3600)
		fmt.Fprintf(w, "  Water-equivalent head:\t%.3f m\n", vc.WaterHead)
		w.Flush()
		fmt.Println()
	}

	printChecks(res.Checks)
	printWarnings(res.Warnings)

	summary := []string{
		fmt.Sprintf("Duty: %.4g m³/h at %.2f m", pumpFlow, res.Head.Total),
		fmt.Sprintf("NPSH available: %.2f m", res.NPSHa),
	}
	if res.BrakePower > 0 {
		summary = append(summary, fmt.Sprintf("Brake power: %.4g kW", res.BrakePower/1e3))
	} else {
		summary = append(summary, fmt.Sprintf("Hydraulic power: %.4g kW", res.HydraulicPower/1e3))
	}
	fmt.Println(diagram.DrawSummaryBox("PUMP DUTY", summary))

	staticHead := res.Head.Static + res.Head.Pressure
	frictionHead := res.Head.Friction + res.Head.Velocity
	dutyFlow := pumpFlow / 3600
	if pumpShowDiagram {
		fmt.Println(diagram.DrawSystemCurve(staticHead, frictionHead, dutyFlow))
	}
	if pumpExportFile != "" {
		if err := diagram.ExportSystemCurve(pumpExportFile, staticHead, frictionHead, dutyFlow); err != nil {
			fmt.Printf("Error exporting curve: %v\n", err)
		} else {
			fmt.Printf("Curve exported to: %s\n", pumpExportFile)
		}
	}
	if pumpProfileFile != "" {
		if err := exportDischargeProfile(res); err != nil {
			fmt.Printf("Error exporting profile: %v\n", err)
		} else {
			fmt.Printf("Profile exported to: %s\n", pumpProfileFile)
		}
	}
}

// printPumpSide prints one side block; the hydraulics lines only appear
// when the side carried a resolvable line or bore.
func printPumpSide(title string, pressureBar float64, side *pump.SideResult) {
	printSection(title)
	w := newTable()
	fmt.Fprintf(w, "  Pressure:\t%.4g bar(a)\n", pressureBar)
	if side != nil {
		if side.Geometry.Nominal != "" {
			fmt.Fprintf(w, "  Line:\tNPS %s Sch %s\n", side.Geometry.Nominal, side.Geometry.Schedule)
		}
		fmt.Fprintf(w, "  Inside diameter:\t%.2f mm\n", side.Geometry.InsideDiameter*1e3)
		fmt.Fprintf(w, "  Velocity:\t%.3f m/s\n", side.Flow.Velocity)
		if side.Geometry.Length > 0 {
			fmt.Fprintf(w, "  Friction head:\t%.3f m\n", side.FrictionHead)
		}
	}
	w.Flush()
	fmt.Println()
}

// exportDischargeProfile draws the energy and hydraulic grade lines
// along the discharge run. Only meaningful when system sizing resolved
// a discharge line.
func exportDischargeProfile(res *pump.Result) error {
	if res.Mode != pump.ModeSystemSizing || res.Discharge == nil || res.Discharge.Geometry.Length <= 0 {
		return fmt.Errorf("grade lines need a system sizing result with a discharge line")
	}
	d := res.Discharge
	vh := hydro.VelocityHead(d.Flow.Velocity)
	inlet := res.Head.Static + d.FrictionHead + vh
	return diagram.ExportGradeLines(pumpProfileFile, d.Geometry.Length, inlet, d.FrictionHead, vh, res.Head.Static)
}
