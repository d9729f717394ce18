package chromquant

// Chromatogram is one instrument run: the raw signal trace plus the detected
// peak table. The trace is immutable once read; peaks are annotated in place
// by the assignment engine.
type Chromatogram struct {
	ID      string    `json:"id"`
	Times   []float64 `json:"times,omitempty"`
	Signals []float64 `json:"signals,omitempty"`
	Peaks   []*Peak   `json:"peaks"`

	// Ordinal is the series-ordinal value of this chromatogram: the reaction
	// time in a time-course series, or the known concentration in a
	// calibration series. Its unit lives on the owning Series.
	Ordinal float64 `json:"ordinal"`
}

// PeakFor returns the peak assigned to the given species, or nil when the
// species has no peak in this chromatogram.
func (c *Chromatogram) PeakFor(speciesID string) *Peak {
	for _, p := range c.Peaks {
		if p.SpeciesID == speciesID {
			return p
		}
	}
	return nil
}

// ClearAssignments removes the species label from every peak currently
// assigned to the given species.
func (c *Chromatogram) ClearAssignments(speciesID string) {
	for _, p := range c.Peaks {
		if p.SpeciesID == speciesID {
			p.SpeciesID = ""
		}
	}
}
