package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinetechlab/chromquant/store"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "List the calibration standards stored in the database",
	RunE:  runStandards,
}

func runStandards(cmd *cobra.Command, args []string) error {
	s, err := store.Open(standardsDB)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.List(listAnalyte)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no stored standards")
		return nil
	}

	fmt.Printf("%-12s %-14s %6s %6s %6s %10s %s\n", "SPECIES", "LAW", "pH", "TEMP", "UNIT", "R²", "SAVED")
	for _, r := range recs {
		fmt.Printf("%-12s %-14s %6.2f %6.1f %6s %10.4f %s\n",
			r.AnalyteID, r.Law, r.PH, r.Temperature, r.ConcentrationUnit, r.RSquared, r.SavedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
