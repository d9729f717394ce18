package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/analyzer"
	"github.com/kinetechlab/chromquant/peaktable"
	"github.com/kinetechlab/chromquant/store"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Fit a calibration standard from a set of peak tables",
	Long: `Calibrate reads the CSV peak tables under --dir as one calibration set,
assigns the configured species, and fits candidate signal laws to the
(concentration, area) pairs. The law with the lowest AIC is selected; all
candidates are reported.

Example:
  chromquant calibrate --dir ./standards --species s1 \
      --concentrations 0.5,1.0,2.0 --unit mM --ph 7.4 --temperature 25 --save`,
	RunE: runCalibrate,
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(cfgFile)
	if err != nil {
		return err
	}
	if _, err := reg.Get(calibrateSpecies); err != nil {
		return err
	}

	concs, err := parseFloats(calibrateConcs)
	if err != nil {
		return err
	}
	unit := chromquant.Unit(calibrateUnit)
	if !unit.IsConcentration() {
		return &chromquant.ValidationError{Field: "unit", Message: "unknown concentration unit " + calibrateUnit}
	}

	ser, err := peaktable.ReadDir(calibrateDir, peaktable.Options{
		Kind:        chromquant.CalibrationSet,
		OrdinalUnit: unit,
		Ordinals:    concs,
		PH:          seriesPH,
		Temperature: seriesTemp,
	})
	if err != nil {
		return err
	}

	a := analyzer.New("calibration", reg, ser, analyzer.Options{})
	if _, err := a.AssignSpecies(calibrateSpecies); err != nil {
		return err
	}

	std, err := a.Calibrate(calibrateSpecies, concs, unit)
	if err != nil {
		return err
	}

	fmt.Printf("fitted standard for %s over %d samples:\n", std.AnalyteID, len(std.Samples))
	for _, cand := range std.Candidates {
		marker := " "
		if cand.Selected {
			marker = "*"
		}
		fmt.Printf("  %s %-14s AIC=%8.2f R²=%.4f RMSD=%.4g params=%v\n",
			marker, cand.Law, cand.AIC, cand.RSquared, cand.RMSD, cand.Parameters)
	}

	if calibrateSave {
		s, err := store.Open(standardsDB)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Save(std); err != nil {
			return err
		}
		log.Printf("saved standard for %s at pH %g, %g° to %s", std.AnalyteID, std.PH, std.Temperature, standardsDB)
	}

	return nil
}
