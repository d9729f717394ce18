package peaktable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kinetechlab/chromquant"
)

const sampleTable = `retention_time,area,height,width,percent_area,tailing_factor,separation_factor
5.02,1000,120,0.12,48.5,1.1,
8.01,500,60,,,,
`

func writeTable(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := writeTable(t, t.TempDir(), "m0 12.5 min.csv", sampleTable)

	chrom, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if chrom.ID != "m0 12.5 min" {
		t.Errorf("id = %q", chrom.ID)
	}
	if len(chrom.Peaks) != 2 {
		t.Fatalf("got %d peaks, want 2", len(chrom.Peaks))
	}

	first := chrom.Peaks[0]
	if first.RetentionTime != 5.02 || first.Area != 1000 || first.Height != 120 {
		t.Errorf("first peak = %+v", first)
	}
	if !first.Width.Valid || first.Width.Float64 != 0.12 {
		t.Errorf("width = %+v, want 0.12", first.Width)
	}
	if first.SeparationFactor.Valid {
		t.Error("empty separation_factor cell must stay null")
	}

	second := chrom.Peaks[1]
	if second.Width.Valid || second.TailingFactor.Valid {
		t.Errorf("optional columns of second peak must be null: %+v", second)
	}
}

func TestReadDirOrdinalsFromFileNames(t *testing.T) {
	// "m0 12.5 min" sorts before "m0 5 min" lexically; the series must be
	// ordered by the parsed reaction times, with t=0 at chromatogram 0.
	dir := t.TempDir()
	writeTable(t, dir, "m0 0 min.csv", sampleTable)
	writeTable(t, dir, "m0 5 min.csv", sampleTable)
	writeTable(t, dir, "m0 12.5 min.csv", sampleTable)
	writeTable(t, dir, "m0 25 min.csv", sampleTable)

	ser, err := ReadDir(dir, Options{Kind: chromquant.TimeCourse})
	if err != nil {
		t.Fatal(err)
	}

	if ser.OrdinalUnit != chromquant.Minute {
		t.Errorf("ordinal unit = %s, want min", ser.OrdinalUnit)
	}
	got := ser.Ordinals()
	want := []float64{0, 5, 12.5, 25}
	if len(got) != len(want) {
		t.Fatalf("ordinals = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ordinal %d = %v, want %v", i, got[i], want[i])
		}
	}
	if id := ser.Chromatograms[0].ID; id != "m0 0 min" {
		t.Errorf("chromatogram 0 is %q, want the t=0 sample", id)
	}
}

func TestReadDirExplicitOrdinals(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "std_a.csv", sampleTable)
	writeTable(t, dir, "std_b.csv", sampleTable)

	ser, err := ReadDir(dir, Options{
		Kind:        chromquant.CalibrationSet,
		OrdinalUnit: chromquant.MilliMolar,
		Ordinals:    []float64{0.5, 2.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ser.Kind != chromquant.CalibrationSet || ser.Len() != 2 {
		t.Fatalf("series = %+v", ser)
	}
	if got := ser.Ordinals(); got[0] != 0.5 || got[1] != 2.0 {
		t.Errorf("ordinals = %v", got)
	}
}

func TestReadDirOrdinalCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "std_a.csv", sampleTable)

	_, err := ReadDir(dir, Options{
		Kind:        chromquant.CalibrationSet,
		OrdinalUnit: chromquant.MilliMolar,
		Ordinals:    []float64{0.5, 2.0},
	})
	if err == nil {
		t.Fatal("mismatched ordinal count should fail")
	}
}

func TestReadDirMixedUnitsRejected(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "a 10 min.csv", sampleTable)
	writeTable(t, dir, "b 30 sec.csv", sampleTable)

	if _, err := ReadDir(dir, Options{Kind: chromquant.TimeCourse}); err == nil {
		t.Fatal("mixed time units in file names should fail")
	}
}

func TestParseOrdinal(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		unit  chromquant.Unit
		ok    bool
	}{
		{"m0 12.5 min.csv", 12.5, chromquant.Minute, true},
		{"m0_50sec.csv", 50, chromquant.Second, true},
		{"sample 2 hours.csv", 2, chromquant.Hour, true},
		{"m0.csv", 0, "", false},
		{"blank.csv", 0, "", false},
	}

	for _, c := range cases {
		value, unit, ok := ParseOrdinal(c.name)
		if value != c.value || unit != c.unit || ok != c.ok {
			t.Errorf("ParseOrdinal(%q) = %v, %s, %v; want %v, %s, %v",
				c.name, value, unit, ok, c.value, c.unit, c.ok)
		}
	}
}
