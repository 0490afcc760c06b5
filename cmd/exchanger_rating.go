package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/exchanger"
	"github.com/pipecalc/pipecalc/internal/units"
)

var (
	// Streams
	ratingCoCurrent bool
	ratingHotIn     float64
	ratingHotOut    float64
	ratingColdIn    float64
	ratingColdOut   float64
	ratingDuty      float64
	ratingHotFlow   float64
	ratingHotCp     float64

	// Heat transfer
	ratingInsideFilm     float64
	ratingOutsideFilm    float64
	ratingInsideFouling  float64
	ratingOutsideFouling float64
	ratingF              float64

	// Tube field (optional)
	ratingTubeOD     float64
	ratingTubeWall   float64
	ratingTubeK      float64
	ratingTubeLength float64
	ratingPattern    string
	ratingPasses     int
	ratingHead       string
)

var exchangerRatingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Rate an exchanger by the LMTD method",
	Long: `Rate a shell-and-tube exchanger: duty, log-mean temperature
difference, clean and service overall coefficients referenced to the
tube outside area, and the required surface. Duty comes from --duty or
from the hot stream as mass flow × specific heat × temperature drop.
Giving a tube spec with --tube-od and --tube-length extends the result
with the tube count, bundle diameter and shell bore.

Examples:
  # Water/water cooler, duty from the hot stream
  pipecalc exchanger rating --hot-in 90 --hot-out 50 --cold-in 25 \
    --cold-out 45 --hot-flow 18 --hot-cp 4.18 --hi 4000 --ho 3000 \
    --fouling-in 0.0002 --fouling-out 0.0002

  # Explicit duty with the tube field sized behind a u-tube head
  pipecalc exchanger rating --hot-in 120 --hot-out 80 --cold-in 30 \
    --cold-out 60 --duty 840 --hi 1200 --ho 900 --tube-od 20 \
    --tube-wall 2 --tube-k 16 --tube-length 4.88 --passes 2 \
    --head u-tube`,
	Run: runExchangerRating,
}

func init() {
	exchangerCmd.AddCommand(exchangerRatingCmd)
	f := exchangerRatingCmd.Flags()

	f.BoolVar(&ratingCoCurrent, "co-current", false, "Co-current arrangement instead of counter-current")
	f.Float64Var(&ratingHotIn, "hot-in", 0, "Hot stream inlet temperature (°C) [required]")
	f.Float64Var(&ratingHotOut, "hot-out", 0, "Hot stream outlet temperature (°C) [required]")
	f.Float64Var(&ratingColdIn, "cold-in", 0, "Cold stream inlet temperature (°C) [required]")
	f.Float64Var(&ratingColdOut, "cold-out", 0, "Cold stream outlet temperature (°C) [required]")
	f.Float64Var(&ratingDuty, "duty", 0, "Heat duty (kW), alternative to the hot-stream pair")
	f.Float64Var(&ratingHotFlow, "hot-flow", 0, "Hot stream mass flow (t/h)")
	f.Float64Var(&ratingHotCp, "hot-cp", 0, "Hot stream specific heat (kJ/kg·K)")
	f.Float64Var(&ratingInsideFilm, "hi", 0, "Inside film coefficient (W/m²·K) [required]")
	f.Float64Var(&ratingOutsideFilm, "ho", 0, "Outside film coefficient (W/m²·K) [required]")
	f.Float64Var(&ratingInsideFouling, "fouling-in", 0, "Inside fouling resistance (m²·K/W)")
	f.Float64Var(&ratingOutsideFouling, "fouling-out", 0, "Outside fouling resistance (m²·K/W)")
	f.Float64Var(&ratingF, "f", 0, "LMTD correction factor F (default 1)")

	f.Float64Var(&ratingTubeOD, "tube-od", 0, "Tube outside diameter (mm), enables bundle sizing")
	f.Float64Var(&ratingTubeWall, "tube-wall", 0, "Tube wall thickness (mm) for the conduction term")
	f.Float64Var(&ratingTubeK, "tube-k", 0, "Tube wall conductivity (W/m·K)")
	f.Float64Var(&ratingTubeLength, "tube-length", 0, "Effective tube length (m)")
	f.StringVar(&ratingPattern, "pattern", "", "Tube layout: triangular or square")
	f.IntVar(&ratingPasses, "passes", 0, "Tube passes: 1, 2, 4, 6 or 8")
	f.StringVar(&ratingHead, "head", "", "Head construction: fixed-tubesheet, u-tube, outside-packed, split-ring, pull-through")

	exchangerRatingCmd.MarkFlagRequired("hot-in")
	exchangerRatingCmd.MarkFlagRequired("hot-out")
	exchangerRatingCmd.MarkFlagRequired("cold-in")
	exchangerRatingCmd.MarkFlagRequired("cold-out")
	exchangerRatingCmd.MarkFlagRequired("hi")
	exchangerRatingCmd.MarkFlagRequired("ho")
}

func runExchangerRating(cmd *cobra.Command, args []string) {
	in := exchanger.RatingInput{
		HotInlet:         units.Q(ratingHotIn, "C"),
		HotOutlet:        units.Q(ratingHotOut, "C"),
		ColdInlet:        units.Q(ratingColdIn, "C"),
		ColdOutlet:       units.Q(ratingColdOut, "C"),
		InsideFilm:       units.Q(ratingInsideFilm, "W/m2.K"),
		OutsideFilm:      units.Q(ratingOutsideFilm, "W/m2.K"),
		CorrectionFactor: ratingF,
	}
	if ratingCoCurrent {
		in.Arrangement = exchanger.CoCurrent
	}
	if ratingDuty != 0 {
		in.Duty = units.Q(ratingDuty, "kW")
	} else {
		in.HotMassFlow = units.Q(ratingHotFlow, "t/h")
		in.HotSpecificHeat = units.Q(ratingHotCp, "kJ/kg.K")
	}
	if ratingInsideFouling != 0 {
		in.InsideFouling = units.Q(ratingInsideFouling, "m2.K/W")
	}
	if ratingOutsideFouling != 0 {
		in.OutsideFouling = units.Q(ratingOutsideFouling, "m2.K/W")
	}
	if ratingTubeOD != 0 || ratingTubeLength != 0 {
		t := &exchanger.TubeSpec{
			OuterDiameter: units.Q(ratingTubeOD, "mm"),
			Length:        units.Q(ratingTubeLength, "m"),
			Pattern:       exchanger.Pattern(ratingPattern),
			Passes:        ratingPasses,
			Head:          exchanger.Head(ratingHead),
		}
		if ratingTubeWall != 0 {
			t.WallThickness = units.Q(ratingTubeWall, "mm")
			t.Conductivity = units.Q(ratingTubeK, "W/m.K")
		}
		in.Tubes = t
	}

	res, err := exchanger.Rating(in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("EXCHANGER RATING")

	printSection("STREAMS:")
	w := newTable()
	arrangement := "counter-current"
	if ratingCoCurrent {
		arrangement = "co-current"
	}
	fmt.Fprintf(w, "  Arrangement:\t%s\n", arrangement)
	fmt.Fprintf(w, "  Hot stream:\t%.4g → %.4g °C\n", ratingHotIn, ratingHotOut)
	fmt.Fprintf(w, "  Cold stream:\t%.4g → %.4g °C\n", ratingColdIn, ratingColdOut)
	fmt.Fprintf(w, "  Duty:\t%.4g kW\n", res.Duty/1e3)
	w.Flush()
	fmt.Println()

	printSection("THERMAL:")
	w = newTable()
	fmt.Fprintf(w, "  LMTD:\t%.3f K\n", res.LMTD)
	if res.EffectiveLMTD != res.LMTD {
		fmt.Fprintf(w, "  Effective LMTD (F):\t%.3f K\n", res.EffectiveLMTD)
	}
	fmt.Fprintf(w, "  Clean overall U:\t%.1f W/m²·K\n", res.CleanOverall)
	fmt.Fprintf(w, "  Service overall U:\t%.1f W/m²·K\n", res.ServiceOverall)
	fmt.Fprintf(w, "  Required area:\t%.2f m²\n", res.Area)
	fmt.Fprintf(w, "  Over-surface:\t%.1f %%\n", res.OverSurface)
	w.Flush()
	fmt.Println()

	if b := res.Bundle; b != nil {
		printSection("TUBE FIELD:")
		w = newTable()
		fmt.Fprintf(w, "  Tube count:\t%d\n", b.TubeCount)
		fmt.Fprintf(w, "  Tube length:\t%.3g m\n", b.TubeLength)
		fmt.Fprintf(w, "  Area per tube:\t%.4g m²\n", b.AreaPerTube)
		fmt.Fprintf(w, "  Bundle diameter:\t%.1f mm\n", b.BundleDiameter*1e3)
		fmt.Fprintf(w, "  Shell bore:\t%.1f mm\n", b.ShellDiameter*1e3)
		w.Flush()
		fmt.Println()
	}
}
