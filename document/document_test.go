package document

import (
	"path/filepath"
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/calibration"
	"github.com/kinetechlab/chromquant/quantify"
)

func buildState(t *testing.T) (*chromquant.Registry, *chromquant.Series, map[string]*quantify.Series) {
	t.Helper()

	reg := chromquant.NewRegistry()
	if err := reg.Define(&chromquant.Species{
		ID: "s1", Name: "product", RetentionTime: 5.0, RetentionTolerance: 0.2,
		Standard: &chromquant.Standard{
			AnalyteID:         "s1",
			Law:               calibration.LawLinear,
			Parameters:        []float64{200},
			StandardErrors:    []float64{1.5},
			RSquared:          0.999,
			Samples:           []chromquant.CalibrationSample{{Concentration: 0.5, Signal: 100}, {Concentration: 2, Signal: 400}},
			Range:             chromquant.CalibrationRange{MinConcentration: 0.5, MaxConcentration: 2, MinSignal: 100, MaxSignal: 400},
			ConcentrationUnit: chromquant.MilliMolar,
			PH:                7.4,
			Temperature:       25,
			TemperatureUnit:   chromquant.Celsius,
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Define(&chromquant.Species{
		ID: "is1", Name: "caffeine", RetentionTime: 8.0, RetentionTolerance: 0.2,
		InitialConcentration: null.FloatFrom(0.5), ConcentrationUnit: chromquant.MilliMolar,
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetInternalStandard("is1"); err != nil {
		t.Fatal(err)
	}
	if err := reg.MarkAssigned("s1"); err != nil {
		t.Fatal(err)
	}

	ser, err := chromquant.NewSeries("run", chromquant.TimeCourse, chromquant.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ser.Add(&chromquant.Chromatogram{
		ID: "t0",
		Peaks: []*chromquant.Peak{
			{RetentionTime: 5.01, Area: 300, SpeciesID: "s1", Width: null.FloatFrom(0.1)},
			{RetentionTime: 7.99, Area: 500, SpeciesID: "is1"},
		},
	}, 0)
	ser.Add(&chromquant.Chromatogram{ID: "t1"}, 12.5)

	results := map[string]*quantify.Series{
		"s1": {
			SpeciesID: "s1",
			Kind:      quantify.ExternalStandard,
			Unit:      chromquant.MilliMolar,
			Points: []quantify.Point{
				{Index: 0, Ordinal: 0, Value: 1.5, OK: true},
				{Index: 1, Ordinal: 12.5}, // gap
			},
		},
	}

	return reg, ser, results
}

func TestRoundTrip(t *testing.T) {
	reg, ser, results := buildState(t)
	warnings := []chromquant.Warning{{
		Kind: chromquant.WarnExtrapolation, SpeciesID: "s1", ChromatogramIndex: 0, Message: "above range",
	}}

	path := filepath.Join(t.TempDir(), "analysis.json")
	if err := Save(path, New("run", reg, ser, results, warnings)); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != Version || doc.ID != "run" {
		t.Fatalf("doc header = %+v", doc)
	}

	reloaded, err := doc.Registry()
	if err != nil {
		t.Fatal(err)
	}

	s1, err := reloaded.Get("s1")
	if err != nil {
		t.Fatal(err)
	}
	if s1.Standard == nil || s1.Standard.Law != calibration.LawLinear || s1.Standard.Parameters[0] != 200 {
		t.Errorf("standard did not survive the round trip: %+v", s1.Standard)
	}
	if st, _ := reloaded.Status("s1"); st != chromquant.StatusExternal {
		t.Errorf("status = %s, want %s", st, chromquant.StatusExternal)
	}
	if is := reloaded.InternalStandard(); is == nil || is.ID != "is1" {
		t.Error("internal-standard designation lost")
	}

	if doc.Series.Len() != 2 || doc.Series.Chromatograms[1].Ordinal != 12.5 {
		t.Errorf("series did not survive: %+v", doc.Series)
	}
	peak := doc.Series.Chromatograms[0].PeakFor("s1")
	if peak == nil || peak.Area != 300 || !peak.Width.Valid {
		t.Errorf("assigned peak did not survive: %+v", peak)
	}

	got := doc.Results["s1"]
	if got.Points[1].OK {
		t.Error("gap must reload as a gap, not a value")
	}
	if got.Points[0].Value != 1.5 || !got.Points[0].OK {
		t.Errorf("point 0 = %+v", got.Points[0])
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0].Kind != chromquant.WarnExtrapolation {
		t.Errorf("warnings = %v", doc.Warnings)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	reg, ser, _ := buildState(t)
	doc := New("run", reg, ser, nil, nil)
	doc.Version = Version + 1

	path := filepath.Join(t.TempDir(), "analysis.json")
	if err := Save(path, doc); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("a newer schema version must be rejected")
	}
}
