package assign

import (
	"math"
	"testing"

	"github.com/kinetechlab/chromquant"
)

func chromWithPeaks(rts ...float64) *chromquant.Chromatogram {
	c := &chromquant.Chromatogram{}
	for _, rt := range rts {
		c.Peaks = append(c.Peaks, &chromquant.Peak{RetentionTime: rt, Area: 100})
	}
	return c
}

func TestWindowBoundariesInclusive(t *testing.T) {
	const rt, tol = 5.0, 0.2

	for _, v := range []struct {
		peakRT float64
		match  bool
	}{
		{5.0, true},
		{5.2, true},
		{4.8, true},
		{5.2 + 1e-9, false},
		{4.8 - 1e-9, false},
	} {
		sp := &chromquant.Species{ID: "s1", RetentionTime: rt, RetentionTolerance: tol}
		chrom := chromWithPeaks(v.peakRT)

		res, err := New(Options{}).Assign(sp, []*chromquant.Chromatogram{chrom})
		if err != nil {
			t.Fatal(err)
		}

		if got := res.Assigned == 1; got != v.match {
			t.Errorf("peak at %v with window %v±%v: assigned=%v, want %v", v.peakRT, rt, tol, got, v.match)
		}
	}
}

func TestTieBreakClosestThenAreaThenOrder(t *testing.T) {
	sp := &chromquant.Species{ID: "s1", RetentionTime: 5.0, RetentionTolerance: 0.5}

	// Closest retention time wins.
	chrom := chromWithPeaks(5.3, 5.1)
	res, err := New(Options{}).Assign(sp, []*chromquant.Chromatogram{chrom})
	if err != nil {
		t.Fatal(err)
	}
	if !chrom.Peaks[1].Assigned() || chrom.Peaks[0].Assigned() {
		t.Error("closest peak should win the tie-break")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != chromquant.WarnAmbiguousAssignment {
		t.Errorf("expected one ambiguity warning, got %v", res.Warnings)
	}

	// Equidistant: larger area wins.
	chrom = chromWithPeaks(4.9, 5.1)
	chrom.Peaks[1].Area = 500
	if _, err := New(Options{}).Assign(sp, []*chromquant.Chromatogram{chrom}); err != nil {
		t.Fatal(err)
	}
	if !chrom.Peaks[1].Assigned() {
		t.Error("equidistant tie should fall to the larger area")
	}

	// Equidistant, equal area: first-detected wins.
	chrom = chromWithPeaks(4.9, 5.1)
	if _, err := New(Options{}).Assign(sp, []*chromquant.Chromatogram{chrom}); err != nil {
		t.Fatal(err)
	}
	if !chrom.Peaks[0].Assigned() {
		t.Error("full tie should fall to first-detected order")
	}
}

func TestTieBreakOrderConfigurable(t *testing.T) {
	sp := &chromquant.Species{ID: "s1", RetentionTime: 5.0, RetentionTolerance: 0.5}

	chrom := chromWithPeaks(5.3, 5.1)
	chrom.Peaks[0].Area = 900

	opts := Options{TieBreaks: []TieBreak{LargestArea, ClosestRetentionTime}}
	if _, err := New(opts).Assign(sp, []*chromquant.Chromatogram{chrom}); err != nil {
		t.Fatal(err)
	}
	if !chrom.Peaks[0].Assigned() {
		t.Error("area-first policy should pick the larger peak over the closer one")
	}
}

func TestIdempotence(t *testing.T) {
	sp := &chromquant.Species{ID: "s1", RetentionTime: 5.0, RetentionTolerance: 0.2}
	chroms := []*chromquant.Chromatogram{
		chromWithPeaks(5.05, 7.0),
		chromWithPeaks(4.9),
		chromWithPeaks(8.0),
	}

	eng := New(Options{})
	first, err := eng.Assign(sp, chroms)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Assign(sp, chroms)
	if err != nil {
		t.Fatal(err)
	}

	if first.Assigned != 2 || second.Assigned != first.Assigned {
		t.Errorf("assigned counts: first %d, second %d, want 2 and equal", first.Assigned, second.Assigned)
	}
	if !chroms[0].Peaks[0].Assigned() || !chroms[1].Peaks[0].Assigned() {
		t.Error("expected the same peaks labeled after re-running")
	}
	if chroms[2].Peaks[0].Assigned() {
		t.Error("out-of-window peak must stay unassigned")
	}
}

func TestPeakMatchesAtMostOneSpecies(t *testing.T) {
	a := &chromquant.Species{ID: "a", RetentionTime: 5.0, RetentionTolerance: 0.2}
	b := &chromquant.Species{ID: "b", RetentionTime: 5.1, RetentionTolerance: 0.2}
	chrom := chromWithPeaks(5.05)

	eng := New(Options{})
	if _, err := eng.Assign(a, []*chromquant.Chromatogram{chrom}); err != nil {
		t.Fatal(err)
	}
	res, err := eng.Assign(b, []*chromquant.Chromatogram{chrom})
	if err != nil {
		t.Fatal(err)
	}

	if res.Assigned != 0 {
		t.Error("peak already claimed by another species must not be reassigned")
	}
	if chrom.Peaks[0].SpeciesID != "a" {
		t.Errorf("peak label changed to %q", chrom.Peaks[0].SpeciesID)
	}
}

func TestMedianShiftDiagnostic(t *testing.T) {
	sp := &chromquant.Species{ID: "s1", RetentionTime: 5.0, RetentionTolerance: 0.2}
	chroms := []*chromquant.Chromatogram{
		chromWithPeaks(5.05),
		chromWithPeaks(5.10),
		chromWithPeaks(5.15),
	}

	res, err := New(Options{}).Assign(sp, chroms)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.MedianShift-0.10) > 1e-9 {
		t.Errorf("median shift = %v, want 0.10", res.MedianShift)
	}
}

func TestNegativeToleranceRejected(t *testing.T) {
	sp := &chromquant.Species{ID: "s1", RetentionTime: 5.0, RetentionTolerance: -0.1}
	if _, err := New(Options{}).Assign(sp, nil); err == nil {
		t.Error("negative tolerance should fail validation")
	}
}
