package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinetechlab/chromquant/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildinfo.Get())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
