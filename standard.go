package chromquant

// CalibrationSample is one (known concentration, measured signal) pair used
// to fit a standard.
type CalibrationSample struct {
	Concentration float64 `json:"concentration"`
	Signal        float64 `json:"signal"`
}

// CalibrationRange is the closed interval spanned by the samples a standard
// was fitted from. Quantification outside the range is permitted but flagged.
type CalibrationRange struct {
	MinConcentration float64 `json:"min_concentration"`
	MaxConcentration float64 `json:"max_concentration"`
	MinSignal        float64 `json:"min_signal"`
	MaxSignal        float64 `json:"max_signal"`
}

// ContainsConcentration reports whether c lies inside the fitted
// concentration interval, boundaries included.
func (r CalibrationRange) ContainsConcentration(c float64) bool {
	return c >= r.MinConcentration && c <= r.MaxConcentration
}

// ContainsSignal reports whether s lies inside the fitted signal interval,
// boundaries included.
func (r CalibrationRange) ContainsSignal(s float64) bool {
	return s >= r.MinSignal && s <= r.MaxSignal
}

// FitCandidate records the diagnostics of one candidate signal law. All
// candidates are retained on the standard for inspection; only the selected
// one is used for quantification.
type FitCandidate struct {
	Law            string    `json:"law"`
	Parameters     []float64 `json:"parameters"`
	StandardErrors []float64 `json:"standard_errors"`
	AIC            float64   `json:"aic"`
	BIC            float64   `json:"bic"`
	RSquared       float64   `json:"r_squared"`
	RMSD           float64   `json:"rmsd"`
	Selected       bool      `json:"selected"`
}

// Standard is a fitted calibration artifact scoped to one analyte under one
// pH/temperature condition. A Standard is immutable once fitted; refitting
// produces a new Standard. Reuse under another species requires an explicit
// transfer through the registry.
type Standard struct {
	AnalyteID string `json:"analyte_id"`

	// Law names the selected signal law; Parameters and StandardErrors
	// describe its fitted coefficients.
	Law            string    `json:"law"`
	Parameters     []float64 `json:"parameters"`
	StandardErrors []float64 `json:"standard_errors"`

	AIC      float64 `json:"aic"`
	BIC      float64 `json:"bic"`
	RSquared float64 `json:"r_squared"`
	RMSD     float64 `json:"rmsd"`

	Samples    []CalibrationSample `json:"samples"`
	Range      CalibrationRange    `json:"range"`
	Candidates []FitCandidate      `json:"candidates,omitempty"`

	ConcentrationUnit Unit    `json:"concentration_unit"`
	PH                float64 `json:"ph"`
	Temperature       float64 `json:"temperature"`
	TemperatureUnit   Unit    `json:"temperature_unit,omitempty"`
}

// TransferTo returns a copy of the standard re-scoped to another analyte.
// This is the only sanctioned way to reuse a standard across species.
func (s *Standard) TransferTo(analyteID string) *Standard {
	out := *s
	out.AnalyteID = analyteID
	out.Parameters = append([]float64(nil), s.Parameters...)
	out.StandardErrors = append([]float64(nil), s.StandardErrors...)
	out.Samples = append([]CalibrationSample(nil), s.Samples...)
	out.Candidates = append([]FitCandidate(nil), s.Candidates...)
	return &out
}
