// Package document persists a complete analysis state as a versioned JSON
// document: species definitions with their fitted standards, the chromatogram
// series with peak assignments, derived concentration series, and the
// warnings accumulated while computing them. A saved document reloads into
// the same state, so gaps, extrapolation flags, and assignment status all
// survive the round trip.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/carbocation/pfx"

	"github.com/kinetechlab/chromquant"
	"github.com/kinetechlab/chromquant/quantify"
)

// Version is the current document schema version. Loaders reject documents
// written by a newer schema.
const Version = 1

// SpeciesRecord pairs a species definition with its registry state.
type SpeciesRecord struct {
	*chromquant.Species
	Assigned bool `json:"assigned,omitempty"`
}

// Document is the serialized form of one analysis.
type Document struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Species []SpeciesRecord    `json:"species"`
	Series  *chromquant.Series `json:"series,omitempty"`

	Results  map[string]*quantify.Series `json:"results,omitempty"`
	Warnings []chromquant.Warning        `json:"warnings,omitempty"`
}

// New captures the current analysis state into a document.
func New(id string, reg *chromquant.Registry, ser *chromquant.Series, results map[string]*quantify.Series, warnings []chromquant.Warning) *Document {
	doc := &Document{
		Version:   Version,
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Series:    ser,
		Results:   results,
		Warnings:  warnings,
	}
	if reg != nil {
		for _, sp := range reg.Species() {
			doc.Species = append(doc.Species, SpeciesRecord{Species: sp, Assigned: reg.Assigned(sp.ID)})
		}
	}
	return doc
}

// Registry reconstructs the species registry the document was captured from,
// including assignment status, internal-standard designation, and attached
// standards.
func (d *Document) Registry() (*chromquant.Registry, error) {
	reg := chromquant.NewRegistry()
	for _, rec := range d.Species {
		if err := reg.Define(rec.Species); err != nil {
			return nil, err
		}
		if rec.Assigned {
			if err := reg.MarkAssigned(rec.Species.ID); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

// Save writes the document as indented JSON.
func Save(path string, doc *Document) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pfx.Err(err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Load reads a document back and checks its schema version.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	if doc.Version > Version {
		return nil, &chromquant.ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("document version %d is newer than supported version %d", doc.Version, Version),
		}
	}

	return &doc, nil
}
