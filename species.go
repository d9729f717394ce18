package chromquant

import "gopkg.in/guregu/null.v3"

// DefaultRetentionTolerance is the retention-time window half-width applied
// when a species does not declare its own tolerance.
const DefaultRetentionTolerance = 0.2

// Species is a chemical entity tracked by retention time.
type Species struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ReferenceID is an optional external identifier, such as a PubChem CID.
	ReferenceID string `json:"reference_id,omitempty"`

	RetentionTime      float64 `json:"retention_time"`
	RetentionTolerance float64 `json:"retention_tolerance"`

	// InitialConcentration is the known concentration at the first
	// chromatogram. Required for internal-standard quantification.
	InitialConcentration null.Float `json:"initial_concentration"`
	ConcentrationUnit    Unit       `json:"concentration_unit,omitempty"`

	// InternalStandard marks the species as the series' ratio reference.
	// At most one species per registry may carry this flag.
	InternalStandard bool `json:"internal_standard,omitempty"`

	// Standard is the calibration artifact fitted for this species, if any.
	Standard *Standard `json:"standard,omitempty"`
}

// Tolerance returns the species' retention tolerance, falling back to the
// default when unset.
func (sp *Species) Tolerance() float64 {
	if sp.RetentionTolerance > 0 {
		return sp.RetentionTolerance
	}
	return DefaultRetentionTolerance
}

// Validate checks the fields that must be coherent before the species can
// participate in assignment or quantification.
func (sp *Species) Validate() error {
	if sp.ID == "" {
		return &ValidationError{Field: "id", Message: "species id is required"}
	}
	if sp.RetentionTolerance < 0 {
		return &ValidationError{Field: "retention_tolerance", Message: "retention tolerance must not be negative"}
	}
	if sp.InitialConcentration.Valid && !sp.ConcentrationUnit.IsConcentration() {
		return &ValidationError{Field: "concentration_unit", Message: "initial concentration requires a concentration unit"}
	}
	if sp.ConcentrationUnit != "" && !sp.ConcentrationUnit.IsConcentration() {
		return &ValidationError{Field: "concentration_unit", Message: "unknown concentration unit " + string(sp.ConcentrationUnit)}
	}
	return nil
}
