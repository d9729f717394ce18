package chromquant

// SeriesKind distinguishes a sample-over-time run from a calibration run.
type SeriesKind string

const (
	TimeCourse     SeriesKind = "time_course"
	CalibrationSet SeriesKind = "calibration"
)

// Series is an ordered collection of chromatograms for one analysis run:
// one sample over time, or one calibration set over concentration. Order is
// load-bearing: internal-standard quantification treats index 0 as the
// reference point.
type Series struct {
	ID            string          `json:"id"`
	Kind          SeriesKind      `json:"kind"`
	Chromatograms []*Chromatogram `json:"chromatograms"`

	// OrdinalUnit is the unit of every chromatogram's Ordinal: a time unit
	// for a time course, a concentration unit for a calibration set.
	OrdinalUnit Unit `json:"ordinal_unit"`

	// Condition under which the series was acquired. A calibration standard
	// fitted from this series is specific to this condition.
	PH              float64 `json:"ph"`
	Temperature     float64 `json:"temperature"`
	TemperatureUnit Unit    `json:"temperature_unit,omitempty"`
}

// NewSeries builds an empty series and validates the ordinal unit against
// the series kind.
func NewSeries(id string, kind SeriesKind, ordinalUnit Unit) (*Series, error) {
	switch kind {
	case TimeCourse:
		if !ordinalUnit.IsTime() {
			return nil, &ValidationError{Field: "ordinal_unit", Message: "time-course series requires a time unit, got " + string(ordinalUnit)}
		}
	case CalibrationSet:
		if !ordinalUnit.IsConcentration() {
			return nil, &ValidationError{Field: "ordinal_unit", Message: "calibration series requires a concentration unit, got " + string(ordinalUnit)}
		}
	default:
		return nil, &ValidationError{Field: "kind", Message: "unknown series kind " + string(kind)}
	}

	return &Series{ID: id, Kind: kind, OrdinalUnit: ordinalUnit}, nil
}

// Add appends a chromatogram with its ordinal value.
func (s *Series) Add(c *Chromatogram, ordinal float64) {
	c.Ordinal = ordinal
	s.Chromatograms = append(s.Chromatograms, c)
}

// Ordinals returns the ordinal values in chromatogram order.
func (s *Series) Ordinals() []float64 {
	out := make([]float64, 0, len(s.Chromatograms))
	for _, c := range s.Chromatograms {
		out = append(out, c.Ordinal)
	}
	return out
}

// Len returns the number of chromatograms in the series.
func (s *Series) Len() int { return len(s.Chromatograms) }
