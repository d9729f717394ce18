// Package cmd implements the chromquant CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	// process flags
	processDir   string
	processOut   string
	standardsDB  string
	ordinalsCSV  string
	ordinalUnit  string
	seriesPH     float64
	seriesTemp   float64
	batchWorkers int

	// calibrate flags
	calibrateDir     string
	calibrateSpecies string
	calibrateConcs   string
	calibrateUnit    string
	calibrateSave    bool

	// standards flags
	listAnalyte string
)

var rootCmd = &cobra.Command{
	Use:   "chromquant",
	Short: "Peak assignment and concentration quantification for chromatography runs",
	Long: `Chromquant reads CSV peak tables exported from a chromatography system,
assigns peaks to the species declared in a config file by retention-time
window, and derives concentration series via fitted external standards or an
internal-standard ratio. Fitted standards can be stored in a SQLite database
for reuse across runs.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "chromquant.yaml", "Species config file")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(standardsCmd)

	processCmd.Flags().StringVarP(&processDir, "dir", "d", "", "Directory of CSV peak tables (required)")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "Output analysis document (JSON)")
	processCmd.Flags().StringVar(&standardsDB, "standards-db", "", "SQLite standards database to load fitted standards from")
	processCmd.Flags().StringVar(&ordinalsCSV, "ordinals", "", "Comma-separated ordinal values (default: parsed from file names)")
	processCmd.Flags().StringVar(&ordinalUnit, "ordinal-unit", "", "Unit of the ordinal values")
	processCmd.Flags().Float64Var(&seriesPH, "ph", 0, "Acquisition pH")
	processCmd.Flags().Float64Var(&seriesTemp, "temperature", 0, "Acquisition temperature")
	processCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Concurrent runs when --dir holds per-run subdirectories (0 = GOMAXPROCS)")
	processCmd.MarkFlagRequired("dir")

	calibrateCmd.Flags().StringVarP(&calibrateDir, "dir", "d", "", "Directory of calibration CSV peak tables (required)")
	calibrateCmd.Flags().StringVarP(&calibrateSpecies, "species", "s", "", "Species id to calibrate (required)")
	calibrateCmd.Flags().StringVar(&calibrateConcs, "concentrations", "", "Comma-separated known concentrations, in file-name order (required)")
	calibrateCmd.Flags().StringVar(&calibrateUnit, "unit", "mM", "Concentration unit")
	calibrateCmd.Flags().BoolVar(&calibrateSave, "save", false, "Save the fitted standard to --standards-db")
	calibrateCmd.Flags().StringVar(&standardsDB, "standards-db", "standards.db", "SQLite standards database")
	calibrateCmd.Flags().Float64Var(&seriesPH, "ph", 0, "Acquisition pH")
	calibrateCmd.Flags().Float64Var(&seriesTemp, "temperature", 0, "Acquisition temperature")
	calibrateCmd.MarkFlagRequired("dir")
	calibrateCmd.MarkFlagRequired("species")
	calibrateCmd.MarkFlagRequired("concentrations")

	standardsCmd.Flags().StringVar(&standardsDB, "standards-db", "standards.db", "SQLite standards database")
	standardsCmd.Flags().StringVarP(&listAnalyte, "species", "s", "", "Restrict the listing to one species id")
}
