package cmd

import (
	"github.com/spf13/cobra"
)

var exchangerCmd = &cobra.Command{
	Use:   "exchanger",
	Short: "Shell-and-tube exchanger geometry and thermal rating",
	Long: `Size shell-and-tube exchanger hardware.

Subcommands:
  bundle  - Tube count and bundle/shell bore for a given shell or field
  rating  - LMTD thermal rating: duty, overall coefficient, area, and
            the tube field that carries it

The tube-count estimates and bundle clearances follow the TEMA-style
correlations for triangular and square pitch with 1 to 8 passes.`,
}

func init() {
	rootCmd.AddCommand(exchangerCmd)
}
