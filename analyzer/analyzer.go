// Package analyzer binds one species registry to one chromatogram series and
// drives the engines over it: assignment, calibration fitting, and
// quantification. Hard errors abort only the species that raised them; soft
// warnings are accumulated across the whole run.
package analyzer

import (
	"log"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/assign"
	"github.com/kinetechlab/chromquant/calibration"
	"github.com/kinetechlab/chromquant/quantify"
)

// Analyzer is the per-series orchestrator.
type Analyzer struct {
	ID       string
	Registry *chromquant.Registry
	Series   *chromquant.Series

	engine *assign.Engine
	fitter *calibration.Fitter

	warnings []chromquant.Warning
}

// Options configures the engines the analyzer drives.
type Options struct {
	Assign assign.Options
	Fit    calibration.Options
}

func New(id string, reg *chromquant.Registry, ser *chromquant.Series, opts Options) *Analyzer {
	return &Analyzer{
		ID:       id,
		Registry: reg,
		Series:   ser,
		engine:   assign.New(opts.Assign),
		fitter:   calibration.New(opts.Fit),
	}
}

// Warnings returns the soft conditions accumulated so far.
func (a *Analyzer) Warnings() []chromquant.Warning {
	return append([]chromquant.Warning(nil), a.warnings...)
}

// AssignSpecies runs peak assignment for one species and records its status.
func (a *Analyzer) AssignSpecies(id string) (assign.Result, error) {
	sp, err := a.Registry.Get(id)
	if err != nil {
		return assign.Result{}, err
	}

	res, err := a.engine.Assign(sp, a.Series.Chromatograms)
	if err != nil {
		return res, err
	}

	a.warnings = append(a.warnings, res.Warnings...)
	if err := a.Registry.MarkAssigned(id); err != nil {
		return res, err
	}

	log.Printf("assigned %s (%s) in %d of %d chromatograms", sp.Name, sp.ID, res.Assigned, a.Series.Len())
	return res, nil
}

// AssignAll runs assignment for every species in definition order. The order
// is sequential on purpose: the chromatograms' peak lists are shared mutable
// state, and a peak may be claimed by at most one species.
func (a *Analyzer) AssignAll() ([]assign.Result, error) {
	out := make([]assign.Result, 0, a.Registry.Len())
	for _, sp := range a.Registry.Species() {
		res, err := a.AssignSpecies(sp.ID)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Calibrate fits a standard for the species from this analyzer's series and
// attaches it. The series must be a calibration set.
func (a *Analyzer) Calibrate(id string, concs []float64, unit chromquant.Unit) (*chromquant.Standard, error) {
	sp, err := a.Registry.Get(id)
	if err != nil {
		return nil, err
	}
	if a.Series.Kind != chromquant.CalibrationSet {
		return nil, &chromquant.ConfigurationError{Op: "calibrate", Message: "series is not a calibration set"}
	}

	std, err := a.fitter.Fit(sp, a.Series, concs, unit)
	if err != nil {
		return nil, err
	}
	if err := a.Registry.AttachStandard(id, std); err != nil {
		return nil, err
	}

	log.Printf("fitted %s standard for %s: law=%s R²=%.4f RMSD=%.4g", unit, sp.ID, std.Law, std.RSquared, std.RMSD)
	return std, nil
}

// QuantifySpecies derives the concentration series for one species using
// whichever strategy its registry state selects.
func (a *Analyzer) QuantifySpecies(id string) (*quantify.Series, error) {
	sp, err := a.Registry.Get(id)
	if err != nil {
		return nil, err
	}

	res, err := quantify.ForSpecies(sp, a.Registry.InternalStandard(), a.Series)
	if err != nil {
		return nil, err
	}

	a.warnings = append(a.warnings, res.Warnings...)
	return res, nil
}

// QuantifyAll quantifies every species except the internal standard itself.
// One species' hard error is reported in the second return value and does
// not block the others.
func (a *Analyzer) QuantifyAll() (map[string]*quantify.Series, map[string]error) {
	results := make(map[string]*quantify.Series)
	failures := make(map[string]error)

	is := a.Registry.InternalStandard()
	for _, sp := range a.Registry.Species() {
		if is != nil && sp.ID == is.ID {
			continue
		}

		res, err := a.QuantifySpecies(sp.ID)
		if err != nil {
			failures[sp.ID] = err
			log.Printf("quantification failed for %s: %v", sp.ID, err)
			continue
		}
		results[sp.ID] = res
	}

	if len(failures) == 0 {
		return results, nil
	}
	return results, failures
}
