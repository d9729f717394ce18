// Package quantify derives per-chromatogram concentration values for assigned
// species. Three strategies exist per species: inversion of a fitted external
// standard, peak-area ratio against a co-eluting internal standard, and raw
// area passthrough for species with neither. Gaps in the peak series stay
// gaps in the output, never zeros.
package quantify

import (
	"fmt"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/calibration"
)

// Kind names the quantification strategy that produced a series.
type Kind string

const (
	// Uncalibrated means the values are raw peak areas, not concentrations.
	// A valid terminal state: raw time courses are still exportable.
	Uncalibrated Kind = "uncalibrated"
	// ExternalStandard means values were computed by inverting a fitted
	// calibration law.
	ExternalStandard Kind = "external_standard"
	// InternalStandard means values were computed from the t0 area ratio
	// against the designated internal standard.
	InternalStandard Kind = "internal_standard"
)

// Point is one entry of a concentration series, aligned with one
// chromatogram of the input series.
type Point struct {
	Index   int     `json:"index"`
	Ordinal float64 `json:"ordinal"`
	Value   float64 `json:"value"`

	// OK is false for a gap: no peak was assigned in this chromatogram, or
	// the internal-standard peak was missing at this index.
	OK bool `json:"ok"`

	// Extrapolated marks a value computed outside the calibration range.
	// The value is returned as-is, never clipped.
	Extrapolated bool `json:"extrapolated,omitempty"`
}

// Series is the derived concentration (or raw area) time course for one
// species. It carries no independent identity and is recomputed whenever a
// standard, internal-standard reference, or peak assignment changes.
type Series struct {
	SpeciesID string               `json:"species_id"`
	Kind      Kind                 `json:"kind"`
	Unit      chromquant.Unit      `json:"unit,omitempty"`
	Points    []Point              `json:"points"`
	Warnings  []chromquant.Warning `json:"warnings,omitempty"`
}

// ForSpecies picks the strategy for one species: a fitted standard wins,
// then the registry's internal standard (pass nil when none is designated)
// for species that declare an initial concentration, then uncalibrated
// passthrough. A species without a declared C[0] cannot be ratioed against
// the internal standard, so it falls through to raw areas rather than
// failing; calling Internal directly still enforces the prerequisite.
func ForSpecies(sp, internalStd *chromquant.Species, ser *chromquant.Series) (*Series, error) {
	switch {
	case sp.Standard != nil:
		return External(sp, ser)
	case internalStd != nil && internalStd.ID != sp.ID && sp.InitialConcentration.Valid:
		return Internal(sp, internalStd, ser)
	default:
		return UncalibratedAreas(sp, ser), nil
	}
}

// External inverts the species' selected calibration law at the assigned
// peak area of each chromatogram. Values outside the calibration range are
// returned as-is and flagged as extrapolated.
func External(sp *chromquant.Species, ser *chromquant.Series) (*Series, error) {
	if sp.Standard == nil {
		return nil, &chromquant.ConfigurationError{Op: "quantify", Message: fmt.Sprintf("species %s has no standard", sp.ID)}
	}
	law, err := calibration.LawByName(sp.Standard.Law)
	if err != nil {
		return nil, err
	}

	out := &Series{SpeciesID: sp.ID, Kind: ExternalStandard, Unit: sp.Standard.ConcentrationUnit}
	for i, chrom := range ser.Chromatograms {
		point := Point{Index: i, Ordinal: chrom.Ordinal}

		if peak := chrom.PeakFor(sp.ID); peak != nil {
			conc, err := law.Invert(sp.Standard.Parameters, peak.Area)
			if err != nil {
				return nil, err
			}
			point.Value = conc
			point.OK = true

			if !sp.Standard.Range.ContainsConcentration(conc) || !sp.Standard.Range.ContainsSignal(peak.Area) {
				point.Extrapolated = true
				out.Warnings = append(out.Warnings, chromquant.Warning{
					Kind:              chromquant.WarnExtrapolation,
					SpeciesID:         sp.ID,
					ChromatogramIndex: i,
					Message:           fmt.Sprintf("concentration %g outside calibration range [%g, %g]", conc, sp.Standard.Range.MinConcentration, sp.Standard.Range.MaxConcentration),
				})
			}
		}

		out.Points = append(out.Points, point)
	}

	return out, nil
}

// Internal quantifies the species against the internal standard: with the
// baseline ratio R0 = A_ana[0]/A_is[0] at the first chromatogram, each later
// chromatogram n yields C[n] = C[0] · (A_ana[n]/A_is[n]) / R0.
//
// Both peaks must be assigned in chromatogram 0 and the species' initial
// concentration must be declared; a missing internal-standard peak at a
// later index yields a gap at that index only.
func Internal(sp, internalStd *chromquant.Species, ser *chromquant.Series) (*Series, error) {
	if ser.Len() == 0 {
		return nil, &chromquant.ConfigurationError{Op: "quantify", Message: "series has no chromatograms"}
	}
	if !sp.InitialConcentration.Valid {
		return nil, &chromquant.ConfigurationError{
			Op:      "quantify",
			Message: fmt.Sprintf("species %s has no declared initial concentration for internal-standard quantification", sp.ID),
		}
	}

	first := ser.Chromatograms[0]
	anaPeak := first.PeakFor(sp.ID)
	isPeak := first.PeakFor(internalStd.ID)
	if anaPeak == nil {
		return nil, &chromquant.ConfigurationError{Op: "quantify", Message: fmt.Sprintf("species %s has no assigned peak in chromatogram 0", sp.ID)}
	}
	if isPeak == nil {
		return nil, &chromquant.ConfigurationError{Op: "quantify", Message: fmt.Sprintf("internal standard %s has no assigned peak in chromatogram 0", internalStd.ID)}
	}
	if isPeak.Area == 0 {
		return nil, &chromquant.ConfigurationError{Op: "quantify", Message: fmt.Sprintf("internal standard %s has zero area in chromatogram 0", internalStd.ID)}
	}

	r0 := anaPeak.Area / isPeak.Area
	c0 := sp.InitialConcentration.Float64

	out := &Series{SpeciesID: sp.ID, Kind: InternalStandard, Unit: sp.ConcentrationUnit}
	for i, chrom := range ser.Chromatograms {
		point := Point{Index: i, Ordinal: chrom.Ordinal}

		ana := chrom.PeakFor(sp.ID)
		is := chrom.PeakFor(internalStd.ID)
		if ana != nil && is != nil && is.Area != 0 {
			point.Value = c0 * (ana.Area / is.Area) / r0
			point.OK = true
		}

		out.Points = append(out.Points, point)
	}

	return out, nil
}

// UncalibratedAreas returns the assigned peak areas unconverted. This is a
// valid terminal state, not an error: a raw time course is still useful
// without concentrations.
func UncalibratedAreas(sp *chromquant.Species, ser *chromquant.Series) *Series {
	out := &Series{SpeciesID: sp.ID, Kind: Uncalibrated}
	for i, chrom := range ser.Chromatograms {
		point := Point{Index: i, Ordinal: chrom.Ordinal}
		if peak := chrom.PeakFor(sp.ID); peak != nil {
			point.Value = peak.Area
			point.OK = true
		}
		out.Points = append(out.Points, point)
	}
	return out
}
