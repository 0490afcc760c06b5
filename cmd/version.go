package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipecalc/pipecalc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pipecalc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pipecalc v%s\n", version.Version)
		fmt.Println("Process Hydraulics and Equipment Sizing")
		if version.GitCommit != "unknown" {
			fmt.Printf("commit %s, built %s\n", version.GitCommit, version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
