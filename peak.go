package chromquant

import "gopkg.in/guregu/null.v3"

// Peak is one integrated peak from an instrument peak table. Peaks are
// created once when a chromatogram is read and are never destroyed; the only
// field the engine mutates is SpeciesID.
type Peak struct {
	RetentionTime    float64    `json:"retention_time"`
	Area             float64    `json:"area"`
	Height           float64    `json:"height"`
	Width            null.Float `json:"width"`
	PercentArea      null.Float `json:"percent_area"`
	TailingFactor    null.Float `json:"tailing_factor"`
	SeparationFactor null.Float `json:"separation_factor"`

	// SpeciesID is empty until the assignment engine labels the peak.
	SpeciesID string `json:"species_id,omitempty"`
}

// Assigned reports whether the peak has been labeled with a species.
func (p *Peak) Assigned() bool { return p.SpeciesID != "" }
