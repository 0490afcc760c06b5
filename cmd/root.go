package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pipecalc",
	Short: "Process Engineering Calculation Tool",
	Long: `pipecalc - Process Hydraulics and Equipment Sizing

A CLI tool and API server for everyday process engineering
calculations.

The calculators cover:
  - Liquid, gas and two-phase line sizing with criteria checks
  - Centrifugal and reciprocating pump duty and NPSH
  - Single-stage compressor power estimation
  - Shell-and-tube exchanger tube count and LMTD rating

Pressure drop uses the Darcy-Weisbach equation with the Swamee-Jain
or Colebrook-White friction factor. Criteria follow API RP 14E and
common licensor practice; tube counts follow TEMA layouts.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   pipecalc v%-46s║\n", version.Version)
		fmt.Println("  ║   Process Hydraulics and Equipment Sizing                 ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Everyday process engineering calculations from one binary.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Line sizing for liquid, gas and two-phase service")
		fmt.Println("    • Pump duty, NPSH and viscous corrections")
		fmt.Println("    • Compressor head, power and discharge temperature")
		fmt.Println("    • Exchanger tube count and LMTD rating")
		fmt.Println("    • REST and websocket API for browser front ends")
		fmt.Println()
		fmt.Println("  Use 'pipecalc --help' to see available commands.")
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tablesDir points every calculator at site override YAMLs for the
// built-in reference tables; empty means compiled-in defaults.
var tablesDir string

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&tablesDir, "tables", "", "Directory with reference table override YAMLs")
}
