package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/pipe"
	"github.com/pipecalc/pipecalc/internal/tables"
	"github.com/pipecalc/pipecalc/internal/units"
)

var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Size process lines against service criteria",
	Long: `Size a pipe for liquid, gas or two-phase service.

Subcommands:
  liquid    - Single-phase liquid pressure drop and velocity checks
  gas       - Single-phase gas with Mach and momentum checks
  twophase  - Gas/liquid mixture with the API RP 14E erosional check

Each calculator resolves the pipe from the ASME B36.10M schedule
table, solves the Darcy friction factor, integrates the pressure
drop and grades the result against the selected service class.`,
}

// Pipe flags shared by the line calculators.
var (
	lineNominal   string
	lineSchedule  string
	lineMaterial  string
	lineDiameter  float64 // mm, fallback when no designation is given
	lineRoughness float64 // mm, overrides the material lookup
	lineLength    float64 // m
	lineElevation float64 // m rise
	lineFittings  string
	lineService   string
	lineColebrook bool
)

func init() {
	rootCmd.AddCommand(lineCmd)

	pf := lineCmd.PersistentFlags()
	pf.StringVarP(&lineNominal, "nominal", "n", "", "Nominal pipe size, e.g. 6 or 1-1/2 [required unless --diameter]")
	pf.StringVarP(&lineSchedule, "schedule", "s", "40", "Pipe schedule, e.g. 40, 80, STD")
	pf.StringVar(&lineMaterial, "material", "commercial-steel", "Pipe material for roughness lookup")
	pf.Float64Var(&lineDiameter, "diameter", 0, "Inside diameter (mm) when no designation is given")
	pf.Float64Var(&lineRoughness, "roughness", 0, "Absolute roughness (mm), overrides --material")
	pf.Float64VarP(&lineLength, "length", "l", 0, "Line length (m) [required]")
	pf.Float64Var(&lineElevation, "elevation", 0, "Elevation rise over the run (m), negative for falling lines")
	pf.StringVar(&lineFittings, "fittings", "", "Fitting counts, e.g. elbow-90-lr:4,gate-valve:2")
	pf.StringVar(&lineService, "service", "", "Service class for criteria checks, e.g. liquid-process")
	pf.BoolVar(&lineColebrook, "colebrook", false, "Iterate Colebrook-White instead of Swamee-Jain")
}

// linePipeInput assembles the shared pipe flags; fitting parse errors
// are reported through the returned error.
func linePipeInput(cmd *cobra.Command) (linesize.PipeInput, error) {
	fittings, err := parseFittings(lineFittings)
	if err != nil {
		return linesize.PipeInput{}, err
	}
	in := linesize.PipeInput{
		Nominal:  lineNominal,
		Schedule: lineSchedule,
		Material: lineMaterial,
		Fittings: fittings,
	}
	if lineNominal == "" {
		// The schedule default only means something next to a
		// designation; a bare bore skips the table.
		in.Schedule = ""
	}
	if lineDiameter != 0 {
		in.Diameter = units.Q(lineDiameter, "mm")
	}
	if lineRoughness != 0 {
		in.Roughness = units.Q(lineRoughness, "mm")
	}
	if lineLength != 0 {
		in.Length = units.Q(lineLength, "m")
	}
	if cmd.Flags().Changed("elevation") {
		in.Elevation = units.Q(lineElevation, "m")
	}
	return in, nil
}

func lineSolver() hydro.Solver {
	if lineColebrook {
		return hydro.Colebrook
	}
	return hydro.SwameeJain
}

func solverName() string {
	if lineColebrook {
		return "Colebrook-White"
	}
	return "Swamee-Jain"
}

// printPipeSection prints the resolved geometry block shared by the
// line calculators.
func printPipeSection(g pipe.Geometry) {
	printSection("PIPE:")
	w := newTable()
	if g.Nominal != "" {
		fmt.Fprintf(w, "  Designation:\tNPS %s Sch %s\n", g.Nominal, g.Schedule)
	}
	fmt.Fprintf(w, "  Inside diameter:\t%.2f mm\n", g.InsideDiameter*1e3)
	fmt.Fprintf(w, "  Flow area:\t%.5g m²\n", g.Area)
	fmt.Fprintf(w, "  Roughness:\t%.4g mm\n", g.Roughness*1e3)
	if g.Length > 0 {
		fmt.Fprintf(w, "  Length:\t%.4g m\n", g.Length)
	}
	w.Flush()
	fmt.Println()
}

// lineEngine loads the reference tables (with any --tables overrides)
// and builds the sizing engine over them.
func lineEngine() (*linesize.Engine, error) {
	ts, err := tables.Load(tablesDir)
	if err != nil {
		return nil, err
	}
	return ts.Engine(lineSolver()), nil
}
