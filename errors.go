package chromquant

import "fmt"

// ValidationError indicates malformed input: mismatched array lengths, a
// missing required unit, a duplicate species id, or a second internal
// standard.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ConfigurationError indicates an operation was requested without its
// prerequisite state, such as internal-standard quantification without an
// initial concentration.
type ConfigurationError struct {
	Op      string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Op, e.Message)
}

// FitError indicates a numerical fitting failure: non-convergence or a
// degenerate signal.
type FitError struct {
	Law     string
	Message string
}

func (e *FitError) Error() string {
	if e.Law == "" {
		return fmt.Sprintf("fit error: %s", e.Message)
	}
	return fmt.Sprintf("fit error in %s law: %s", e.Law, e.Message)
}

// WarningKind labels a soft condition that is reported but never aborts a
// batch operation.
type WarningKind string

const (
	// WarnAmbiguousAssignment is emitted when multiple peaks in one
	// chromatogram matched one species and a tie-break chose between them.
	WarnAmbiguousAssignment WarningKind = "ambiguous_assignment"

	// WarnExtrapolation is emitted when a quantified concentration falls
	// outside the calibration range. The value is still returned.
	WarnExtrapolation WarningKind = "extrapolation"
)

// Warning is a soft condition tied to one species in one chromatogram.
type Warning struct {
	Kind              WarningKind `json:"kind"`
	SpeciesID         string      `json:"species_id"`
	ChromatogramIndex int         `json:"chromatogram_index"`
	Message           string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: species %s, chromatogram %d: %s", w.Kind, w.SpeciesID, w.ChromatogramIndex, w.Message)
}
