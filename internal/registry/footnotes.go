package registry

import (
	"github.com/goliatone/go-markview/pkg/mdast"
)

// Footnote is one registered footnote definition with its display index.
// Identifier keeps the spelling of the first definition.
type Footnote struct {
	Identifier string
	Index      int
	Node       *mdast.FootnoteDefinition
}

// Footnotes is an ordered, identifier keyed footnote store. Indexes are
// 1-based and assigned in first-seen order.
type Footnotes struct {
	entries []*Footnote
	byID    map[string]*Footnote
}

// NewFootnotes returns an empty footnote registry.
func NewFootnotes() *Footnotes {
	return &Footnotes{byID: make(map[string]*Footnote)}
}

// Add registers def and returns its entry. Registering an identifier a
// second time replaces the body but keeps the index assigned first.
func (f *Footnotes) Add(def *mdast.FootnoteDefinition) *Footnote {
	if def == nil {
		return nil
	}
	identifier := def.Identifier
	if identifier == "" {
		identifier = def.Label
	}
	key := mdast.NormalizeIdentifier(identifier)
	if entry, ok := f.byID[key]; ok {
		entry.Node = def
		return entry
	}
	entry := &Footnote{Identifier: identifier, Index: len(f.entries) + 1, Node: def}
	f.entries = append(f.entries, entry)
	f.byID[key] = entry
	return entry
}

// Lookup returns the entry registered for identifier.
func (f *Footnotes) Lookup(identifier string) (*Footnote, bool) {
	if f == nil {
		return nil, false
	}
	entry, ok := f.byID[mdast.NormalizeIdentifier(identifier)]
	return entry, ok
}

func (f *Footnotes) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Entries returns copies of the entries in index order.
func (f *Footnotes) Entries() []Footnote {
	if f == nil {
		return nil
	}
	out := make([]Footnote, len(f.entries))
	for i, entry := range f.entries {
		out[i] = *entry
	}
	return out
}
