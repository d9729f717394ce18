// Package calibration fits candidate signal laws to (concentration, signal)
// pairs by ordinary least squares and selects between them by AIC. The
// selected law, its diagnostics, and the calibration range are recorded on an
// immutable Standard; refitting produces a new Standard.
package calibration

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/kinetechlab/chromquant"
)

// rssFloor keeps AIC finite on exact fits of synthetic data.
const rssFloor = 1e-300

// Options configures the fitter.
type Options struct {
	// Laws are the candidate signal laws. Defaults to DefaultLaws.
	Laws []SignalLaw
}

// Fitter fits calibration standards.
type Fitter struct {
	laws []SignalLaw
}

func New(opts Options) *Fitter {
	if len(opts.Laws) == 0 {
		opts.Laws = DefaultLaws()
	}
	return &Fitter{laws: opts.Laws}
}

// Fit builds a standard for the species from a calibration series: one known
// concentration per chromatogram, in chromatogram order, with the peak
// previously assigned to the species supplying the signal. A calibration set
// needs at least three points; see FitSamples.
//
// The series' pH and temperature are stamped onto the standard: a standard
// is specific to one condition.
func (f *Fitter) Fit(sp *chromquant.Species, series *chromquant.Series, concs []float64, unit chromquant.Unit) (*chromquant.Standard, error) {
	if len(concs) != series.Len() {
		return nil, &chromquant.ValidationError{
			Field:   "concentrations",
			Message: fmt.Sprintf("%d concentration values for %d chromatograms", len(concs), series.Len()),
		}
	}
	if !unit.IsConcentration() {
		return nil, &chromquant.ValidationError{Field: "concentration_unit", Message: "a concentration unit is required"}
	}

	signals := make([]float64, 0, series.Len())
	for i, chrom := range series.Chromatograms {
		peak := chrom.PeakFor(sp.ID)
		if peak == nil {
			return nil, &chromquant.ConfigurationError{
				Op:      "fit",
				Message: fmt.Sprintf("species %s has no assigned peak in chromatogram %d; run assignment first", sp.ID, i),
			}
		}
		signals = append(signals, peak.Area)
	}

	return f.FitSamples(sp.ID, series, concs, signals, unit)
}

// FitSamples fits the candidate laws to explicit (concentration, signal)
// pairs. Fit is the usual entry point; this one exists for refitting a
// persisted standard's samples.
//
// At least three points are required, even though the one-parameter linear
// law would be determined by two: every candidate keeps two residual degrees
// of freedom so its standard errors and AIC stay meaningful, and a two-point
// standard leaves none.
func (f *Fitter) FitSamples(analyteID string, series *chromquant.Series, concs, signals []float64, unit chromquant.Unit) (*chromquant.Standard, error) {
	if len(concs) != len(signals) {
		return nil, &chromquant.ValidationError{
			Field:   "concentrations",
			Message: fmt.Sprintf("%d concentration values for %d signals", len(concs), len(signals)),
		}
	}
	if len(concs) < 3 {
		return nil, &chromquant.ValidationError{Field: "concentrations", Message: "at least three calibration points are required"}
	}

	if _, sd := stat.MeanStdDev(signals, nil); sd == 0 {
		return nil, &chromquant.FitError{Message: "degenerate calibration: zero signal variance"}
	}

	candidates := make([]chromquant.FitCandidate, 0, len(f.laws))
	for _, law := range f.laws {
		cand, err := fitOne(law, concs, signals)
		if err != nil {
			// A singular candidate is skipped; selection happens among the
			// candidates that converged.
			continue
		}
		candidates = append(candidates, cand)
	}
	if len(candidates) == 0 {
		return nil, &chromquant.FitError{Message: "no candidate signal law converged"}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].AIC < candidates[j].AIC })
	candidates[0].Selected = true
	best := candidates[0]

	samples := make([]chromquant.CalibrationSample, len(concs))
	for i := range concs {
		samples[i] = chromquant.CalibrationSample{Concentration: concs[i], Signal: signals[i]}
	}

	std := &chromquant.Standard{
		AnalyteID:         analyteID,
		Law:               best.Law,
		Parameters:        append([]float64(nil), best.Parameters...),
		StandardErrors:    append([]float64(nil), best.StandardErrors...),
		AIC:               best.AIC,
		BIC:               best.BIC,
		RSquared:          best.RSquared,
		RMSD:              best.RMSD,
		Samples:           samples,
		Range:             sampleRange(concs, signals),
		Candidates:        candidates,
		ConcentrationUnit: unit,
	}
	if series != nil {
		std.PH = series.PH
		std.Temperature = series.Temperature
		std.TemperatureUnit = series.TemperatureUnit
	}

	return std, nil
}

// fitOne solves one law by QR least squares and computes its diagnostics.
func fitOne(law SignalLaw, concs, signals []float64) (chromquant.FitCandidate, error) {
	n, k := len(concs), law.NumParams()
	// Two residual degrees of freedom keep the standard errors meaningful
	// and stop a higher-order law from winning AIC on a saturated fit.
	if n < k+2 {
		return chromquant.FitCandidate{}, &chromquant.FitError{Law: law.Name(), Message: "not enough calibration points for this law"}
	}

	x := mat.NewDense(n, k, nil)
	y := mat.NewDense(n, 1, nil)
	for i, c := range concs {
		x.SetRow(i, law.Design(c))
		y.Set(i, 0, signals[i])
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return chromquant.FitCandidate{}, &chromquant.FitError{Law: law.Name(), Message: "least squares did not converge: " + err.Error()}
	}

	params := make([]float64, k)
	for j := 0; j < k; j++ {
		params[j] = beta.At(j, 0)
	}

	mean := stat.Mean(signals, nil)
	var rss, tss float64
	for i, c := range concs {
		r := signals[i] - law.Eval(params, c)
		rss += r * r
		d := signals[i] - mean
		tss += d * d
	}
	if rss < rssFloor {
		rss = rssFloor
	}

	nf := float64(n)
	cand := chromquant.FitCandidate{
		Law:        law.Name(),
		Parameters: params,
		AIC:        nf*math.Log(rss/nf) + 2*float64(k),
		BIC:        nf*math.Log(rss/nf) + float64(k)*math.Log(nf),
		RSquared:   1 - rss/tss,
		RMSD:       math.Sqrt(rss / nf),
	}

	errs, err := standardErrors(x, rss, n, k)
	if err != nil {
		return chromquant.FitCandidate{}, err
	}
	cand.StandardErrors = errs

	return cand, nil
}

// standardErrors derives parameter standard errors from s²·(XᵀX)⁻¹.
func standardErrors(x *mat.Dense, rss float64, n, k int) ([]float64, error) {
	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, &chromquant.FitError{Message: "singular design matrix: " + err.Error()}
	}

	s2 := rss / float64(n-k)
	out := make([]float64, k)
	for j := 0; j < k; j++ {
		out[j] = math.Sqrt(s2 * inv.At(j, j))
	}
	return out, nil
}

func sampleRange(concs, signals []float64) chromquant.CalibrationRange {
	r := chromquant.CalibrationRange{
		MinConcentration: concs[0], MaxConcentration: concs[0],
		MinSignal: signals[0], MaxSignal: signals[0],
	}
	for i := 1; i < len(concs); i++ {
		r.MinConcentration = math.Min(r.MinConcentration, concs[i])
		r.MaxConcentration = math.Max(r.MaxConcentration, concs[i])
		r.MinSignal = math.Min(r.MinSignal, signals[i])
		r.MaxSignal = math.Max(r.MaxSignal, signals[i])
	}
	return r
}
