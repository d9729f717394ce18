package store

import (
	"testing"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/calibration"
)

func testStandard(analyteID string, ph float64) *chromquant.Standard {
	return &chromquant.Standard{
		AnalyteID:      analyteID,
		Law:            calibration.LawLinear,
		Parameters:     []float64{200},
		StandardErrors: []float64{1.5},
		RSquared:       0.999,
		RMSD:           2.1,
		Samples: []chromquant.CalibrationSample{
			{Concentration: 0.5, Signal: 100},
			{Concentration: 2.0, Signal: 400},
		},
		Range:             chromquant.CalibrationRange{MinConcentration: 0.5, MaxConcentration: 2, MinSignal: 100, MaxSignal: 400},
		ConcentrationUnit: chromquant.MilliMolar,
		PH:                ph,
		Temperature:       25,
		TemperatureUnit:   chromquant.Celsius,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(testStandard("s1", 7.4)); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("s1", 7.4, 25)
	if err != nil {
		t.Fatal(err)
	}
	if got.Law != calibration.LawLinear || got.Parameters[0] != 200 {
		t.Errorf("loaded standard = %+v", got)
	}
	if len(got.Samples) != 2 || got.Samples[1].Signal != 400 {
		t.Errorf("samples did not survive: %+v", got.Samples)
	}
	if got.ConcentrationUnit != chromquant.MilliMolar {
		t.Errorf("unit = %s", got.ConcentrationUnit)
	}
}

func TestSaveReplacesSameCondition(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(testStandard("s1", 7.4)); err != nil {
		t.Fatal(err)
	}
	refit := testStandard("s1", 7.4)
	refit.Parameters = []float64{210}
	if err := s.Save(refit); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("s1", 7.4, 25)
	if err != nil {
		t.Fatal(err)
	}
	if got.Parameters[0] != 210 {
		t.Errorf("slope = %v, want the refit to win", got.Parameters[0])
	}

	recs, err := s.List("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("got %d records, want 1 after replacement", len(recs))
	}
}

func TestConditionsAreDistinctKeys(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(testStandard("s1", 6.0)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(testStandard("s1", 7.4)); err != nil {
		t.Fatal(err)
	}

	recs, err := s.List("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want one per condition", len(recs))
	}

	if _, err := s.Load("s1", 8.0, 25); err == nil {
		t.Error("loading an unsaved condition should fail")
	}
}

func TestSaveRequiresAnalyteID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(&chromquant.Standard{}); err == nil {
		t.Fatal("a standard without an analyte id should be rejected")
	}
}
