// Package assign labels detected peaks with species ids by retention-time
// window matching. Matching tolerates drift up to the species' tolerance;
// ambiguity inside one chromatogram is resolved by a configurable tie-break
// and reported as a warning rather than an error.
package assign

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/kinetechlab/chromquant"
)

// TieBreak is one criterion for choosing between multiple peaks that match
// the same species in one chromatogram.
type TieBreak int

const (
	// ClosestRetentionTime prefers the peak nearest the species' nominal
	// retention time.
	ClosestRetentionTime TieBreak = iota
	// LargestArea prefers the peak with the larger area.
	LargestArea
	// FirstDetected prefers the peak that appears earlier in the peak table.
	FirstDetected
)

// DefaultTieBreaks is the default resolution order: closest retention time,
// then larger area, then first-detected.
func DefaultTieBreaks() []TieBreak {
	return []TieBreak{ClosestRetentionTime, LargestArea, FirstDetected}
}

// Options configures the engine.
type Options struct {
	// TieBreaks are applied in order until one criterion separates the
	// candidates. Defaults to DefaultTieBreaks.
	TieBreaks []TieBreak

	// AllowMultiple assigns every matching peak in a chromatogram to the
	// species instead of tie-breaking down to one.
	AllowMultiple bool
}

// Result summarizes one assignment run for one species.
type Result struct {
	SpeciesID string

	// Assigned is the number of chromatograms in which at least one peak
	// was labeled.
	Assigned int

	// MedianShift is the median signed offset between the chosen peaks'
	// retention times and the species' nominal retention time, a drift
	// diagnostic across the series. NaN when nothing was assigned.
	MedianShift float64

	Warnings []chromquant.Warning
}

// Engine assigns peaks to species.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if len(opts.TieBreaks) == 0 {
		opts.TieBreaks = DefaultTieBreaks()
	}
	return &Engine{opts: opts}
}

// Assign scans every chromatogram for peaks whose retention time falls
// inside the species' tolerance window, boundaries included, and labels the
// chosen peak in each chromatogram with the species id.
//
// Re-running for the same species first clears its prior labels in the given
// chromatograms, so assignment is idempotent. Peaks already labeled with a
// different species are not considered: a peak matches at most one species.
func (e *Engine) Assign(sp *chromquant.Species, chroms []*chromquant.Chromatogram) (Result, error) {
	out := Result{SpeciesID: sp.ID, MedianShift: math.NaN()}

	if err := sp.Validate(); err != nil {
		return out, err
	}

	tol := sp.Tolerance()
	shifts := make([]float64, 0, len(chroms))

	for ci, chrom := range chroms {
		chrom.ClearAssignments(sp.ID)

		var candidates []int
		for pi, p := range chrom.Peaks {
			if p.Assigned() {
				continue
			}
			if math.Abs(p.RetentionTime-sp.RetentionTime) <= tol {
				candidates = append(candidates, pi)
			}
		}

		if len(candidates) == 0 {
			// A gap, not a zero: downstream quantification handles the
			// absence explicitly.
			continue
		}

		if len(candidates) > 1 && !e.opts.AllowMultiple {
			out.Warnings = append(out.Warnings, chromquant.Warning{
				Kind:              chromquant.WarnAmbiguousAssignment,
				SpeciesID:         sp.ID,
				ChromatogramIndex: ci,
				Message:           fmt.Sprintf("%d peaks within ±%g of retention time %g", len(candidates), tol, sp.RetentionTime),
			})
		}

		chosen := candidates
		if !e.opts.AllowMultiple {
			chosen = []int{e.resolve(sp, chrom.Peaks, candidates)}
		}

		for _, pi := range chosen {
			chrom.Peaks[pi].SpeciesID = sp.ID
			shifts = append(shifts, chrom.Peaks[pi].RetentionTime-sp.RetentionTime)
		}
		out.Assigned++
	}

	if len(shifts) > 0 {
		// Median is robust against a single badly drifted chromatogram.
		if m, err := stats.Median(shifts); err == nil {
			out.MedianShift = m
		}
	}

	return out, nil
}

// resolve picks one peak index out of the candidates by applying the
// configured tie-break criteria in order.
func (e *Engine) resolve(sp *chromquant.Species, peaks []*chromquant.Peak, candidates []int) int {
	idx := append([]int(nil), candidates...)

	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := peaks[idx[a]], peaks[idx[b]]
		for _, tb := range e.opts.TieBreaks {
			switch tb {
			case ClosestRetentionTime:
				da := math.Abs(pa.RetentionTime - sp.RetentionTime)
				db := math.Abs(pb.RetentionTime - sp.RetentionTime)
				if da != db {
					return da < db
				}
			case LargestArea:
				if pa.Area != pb.Area {
					return pa.Area > pb.Area
				}
			case FirstDetected:
				if idx[a] != idx[b] {
					return idx[a] < idx[b]
				}
			}
		}
		return idx[a] < idx[b]
	})

	return idx[0]
}
