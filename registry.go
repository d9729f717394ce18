package chromquant

import "fmt"

// Status is a species' position in the quantification state machine:
// unassigned → assigned → {uncalibrated | externally-calibrated |
// internally-calibrated}.
type Status string

const (
	StatusUnassigned   Status = "unassigned"
	StatusAssigned     Status = "assigned"
	StatusUncalibrated Status = "uncalibrated"
	StatusExternal     Status = "externally-calibrated"
	StatusInternal     Status = "internally-calibrated"
)

// Registry holds the species definitions for one analysis, keyed by unique
// id. There is no lookup by name similarity: every cross-reference goes
// through the id.
type Registry struct {
	species []*Species
	index   map[string]*Species

	// assigned records which species the assignment engine has labeled
	// peaks for. Cleared on re-definition.
	assigned map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		index:    make(map[string]*Species),
		assigned: make(map[string]bool),
	}
}

// Define adds a new species. Defining an id twice is a ValidationError; use
// Redefine to replace a species and restart it at unassigned.
func (r *Registry) Define(sp *Species) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	if _, ok := r.index[sp.ID]; ok {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("species %s is already defined", sp.ID)}
	}
	if sp.InternalStandard {
		if err := r.checkInternalStandard(sp); err != nil {
			return err
		}
	}

	r.species = append(r.species, sp)
	r.index[sp.ID] = sp
	return nil
}

// Redefine replaces an existing species definition, dropping its standard
// association and assignment status.
func (r *Registry) Redefine(sp *Species) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	old, ok := r.index[sp.ID]
	if !ok {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("species %s is not defined", sp.ID)}
	}
	if sp.InternalStandard {
		if err := r.checkInternalStandard(sp); err != nil {
			return err
		}
	}

	for i, existing := range r.species {
		if existing == old {
			r.species[i] = sp
			break
		}
	}
	r.index[sp.ID] = sp
	delete(r.assigned, sp.ID)
	return nil
}

func (r *Registry) checkInternalStandard(sp *Species) error {
	if !sp.InitialConcentration.Valid {
		return &ValidationError{Field: "initial_concentration", Message: "internal standard requires a known concentration"}
	}
	if is := r.InternalStandard(); is != nil && is.ID != sp.ID {
		return &ValidationError{Field: "internal_standard", Message: fmt.Sprintf("species %s is already the internal standard", is.ID)}
	}
	return nil
}

// Get returns the species with the given id.
func (r *Registry) Get(id string) (*Species, error) {
	sp, ok := r.index[id]
	if !ok {
		return nil, &ValidationError{Field: "id", Message: fmt.Sprintf("species %s is not defined", id)}
	}
	return sp, nil
}

// Species returns the definitions in definition order.
func (r *Registry) Species() []*Species {
	return append([]*Species(nil), r.species...)
}

func (r *Registry) Len() int { return len(r.species) }

// SetInternalStandard designates the species as the series' internal
// standard. A different species already carrying the flag must be cleared
// first.
func (r *Registry) SetInternalStandard(id string) error {
	sp, err := r.Get(id)
	if err != nil {
		return err
	}
	if !sp.InitialConcentration.Valid {
		return &ValidationError{Field: "initial_concentration", Message: "internal standard requires a known concentration"}
	}
	if is := r.InternalStandard(); is != nil && is.ID != id {
		return &ValidationError{Field: "internal_standard", Message: fmt.Sprintf("species %s is already the internal standard", is.ID)}
	}
	sp.InternalStandard = true
	return nil
}

// ClearInternalStandard removes the internal-standard designation, if any.
func (r *Registry) ClearInternalStandard() {
	for _, sp := range r.species {
		sp.InternalStandard = false
	}
}

// InternalStandard returns the designated internal standard, or nil.
func (r *Registry) InternalStandard() *Species {
	for _, sp := range r.species {
		if sp.InternalStandard {
			return sp
		}
	}
	return nil
}

// AttachStandard associates a fitted standard with the species it was
// fitted for. Attaching a standard fitted for a different analyte is a
// ValidationError; use TransferStandard for explicit reuse.
func (r *Registry) AttachStandard(id string, std *Standard) error {
	sp, err := r.Get(id)
	if err != nil {
		return err
	}
	if std.AnalyteID != id {
		return &ValidationError{Field: "analyte_id", Message: fmt.Sprintf("standard was fitted for %s, not %s", std.AnalyteID, id)}
	}
	sp.Standard = std
	return nil
}

// TransferStandard re-scopes a standard fitted for another analyte onto the
// species. The registry keeps a copy; the original standard is unchanged.
func (r *Registry) TransferStandard(id string, std *Standard) error {
	sp, err := r.Get(id)
	if err != nil {
		return err
	}
	sp.Standard = std.TransferTo(id)
	return nil
}

// MarkAssigned records that the assignment engine has labeled peaks for the
// species.
func (r *Registry) MarkAssigned(id string) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	r.assigned[id] = true
	return nil
}

// Assigned reports whether the species has been through assignment.
func (r *Registry) Assigned(id string) bool { return r.assigned[id] }

// Status reports the species' quantification status.
func (r *Registry) Status(id string) (Status, error) {
	sp, err := r.Get(id)
	if err != nil {
		return "", err
	}
	if !r.assigned[id] {
		return StatusUnassigned, nil
	}
	if sp.Standard != nil {
		return StatusExternal, nil
	}
	if is := r.InternalStandard(); is != nil && is.ID != sp.ID && sp.InitialConcentration.Valid {
		return StatusInternal, nil
	}
	if sp.InternalStandard {
		return StatusAssigned, nil
	}
	return StatusUncalibrated, nil
}
