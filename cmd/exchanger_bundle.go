package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/exchanger"
)

var (
	bundleShell   float64
	bundleTubeOD  float64
	bundlePitch   float64
	bundlePattern string
	bundlePasses  int
	bundleHead    string
)

var exchangerBundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Estimate the tube count for a shell bore",
	Long: `Estimate how many tubes fit a shell of the given bore. Two
independent estimates are formed, a pitch-area ratio and the Palen
correlation, and their mean is adopted. With --head the adopted count
is turned back into a bundle diameter and the shell bore that head
construction needs, which shows the slack in the starting shell.

Examples:
  # 500 mm shell, 20 mm tubes on 25 mm triangular pitch
  pipecalc exchanger bundle --shell 500 --tube-od 20 --pitch 25

  # Two-pass square field behind a split-ring floating head
  pipecalc exchanger bundle --shell 750 --tube-od 25 --pitch 32 \
    --pattern square --passes 2 --head split-ring`,
	Run: runExchangerBundle,
}

func init() {
	exchangerCmd.AddCommand(exchangerBundleCmd)
	f := exchangerBundleCmd.Flags()

	f.Float64Var(&bundleShell, "shell", 0, "Shell inside diameter (mm) [required]")
	f.Float64Var(&bundleTubeOD, "tube-od", 0, "Tube outside diameter (mm) [required]")
	f.Float64Var(&bundlePitch, "pitch", 0, "Tube pitch (mm) [required]")
	f.StringVar(&bundlePattern, "pattern", "triangular", "Tube layout: triangular or square")
	f.IntVar(&bundlePasses, "passes", 1, "Tube passes: 1, 2, 4, 6 or 8")
	f.StringVar(&bundleHead, "head", "", "Head construction for the shell back-calculation: fixed-tubesheet, u-tube, outside-packed, split-ring, pull-through")

	exchangerBundleCmd.MarkFlagRequired("shell")
	exchangerBundleCmd.MarkFlagRequired("tube-od")
	exchangerBundleCmd.MarkFlagRequired("pitch")
}

func runExchangerBundle(cmd *cobra.Command, args []string) {
	shell := bundleShell * 1e-3
	tubeOD := bundleTubeOD * 1e-3
	pitch := bundlePitch * 1e-3
	pattern := exchanger.Pattern(bundlePattern)

	est, err := exchanger.TubeCount(shell, tubeOD, pitch, pattern, bundlePasses)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printHeader("TUBE BUNDLE ESTIMATE")

	printSection("INPUT DATA:")
	w := newTable()
	fmt.Fprintf(w, "  Shell bore:\t%.1f mm\n", bundleShell)
	fmt.Fprintf(w, "  Tube OD:\t%.1f mm\n", bundleTubeOD)
	fmt.Fprintf(w, "  Pitch:\t%.1f mm (%s)\n", bundlePitch, bundlePattern)
	fmt.Fprintf(w, "  Passes:\t%d\n", bundlePasses)
	w.Flush()
	fmt.Println()

	printSection("TUBE COUNT:")
	w = newTable()
	fmt.Fprintf(w, "  Pitch-area estimate:\t%.1f\n", est.AreaCount)
	fmt.Fprintf(w, "  Palen estimate:\t%.1f\n", est.PalenCount)
	fmt.Fprintf(w, "  Adopted count:\t%d\n", est.Count)
	w.Flush()
	fmt.Println()

	if bundleHead == "" {
		return
	}

	bundle, err := exchanger.BundleDiameter(tubeOD, est.Count, pattern, bundlePasses)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	required, err := exchanger.ShellDiameter(tubeOD, est.Count, pattern, bundlePasses, exchanger.Head(bundleHead))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	printSection("BACK-CALCULATION:")
	w = newTable()
	fmt.Fprintf(w, "  Head construction:\t%s\n", bundleHead)
	fmt.Fprintf(w, "  Bundle diameter:\t%.1f mm\n", bundle*1e3)
	fmt.Fprintf(w, "  Required shell bore:\t%.1f mm\n", required*1e3)
	fmt.Fprintf(w, "  Slack in shell:\t%.1f mm\n", bundleShell-required*1e3)
	w.Flush()
	fmt.Println()
}
