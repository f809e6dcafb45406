// Package registry holds the per-pass cross reference stores filled by the
// projection engine: link/image definitions and footnote definitions.
// Registries are owned by a single pass and are not safe for concurrent
// mutation.
package registry

import (
	"slices"

	"github.com/goliatone/go-markview/pkg/mdast"
)

// Definitions maps normalised identifiers to link/image definitions.
type Definitions struct {
	byID  map[string]*mdast.Definition
	order []string
}

// NewDefinitions returns an empty definition registry.
func NewDefinitions() *Definitions {
	return &Definitions{byID: make(map[string]*mdast.Definition)}
}

// Add registers def under its normalised identifier. The first definition
// of an identifier wins; Add reports false for later duplicates.
func (d *Definitions) Add(def *mdast.Definition) bool {
	if def == nil {
		return false
	}
	id := mdast.NormalizeIdentifier(def.Identifier)
	if id == "" {
		id = mdast.NormalizeIdentifier(def.Label)
	}
	if id == "" {
		return false
	}
	if _, exists := d.byID[id]; exists {
		return false
	}
	d.byID[id] = def
	d.order = append(d.order, id)
	return true
}

// Lookup returns the definition for identifier, compared case-insensitively.
func (d *Definitions) Lookup(identifier string) (*mdast.Definition, bool) {
	if d == nil {
		return nil, false
	}
	def, ok := d.byID[mdast.NormalizeIdentifier(identifier)]
	return def, ok
}

// Len returns the number of registered identifiers.
func (d *Definitions) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// Identifiers lists normalised identifiers in registration order.
func (d *Definitions) Identifiers() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.order)
}
