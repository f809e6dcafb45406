package projection

import (
	"slices"

	"github.com/goliatone/go-markview/internal/registry"
	"github.com/goliatone/go-markview/pkg/view"
)

// TOCEntry is one heading outside footnote bodies, in document order.
type TOCEntry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Result is everything one pass produced. It is never mutated after
// Project returns.
type Result struct {
	Nodes             []view.Node
	TOC               []TOCEntry
	Frontmatter       string
	FrontmatterFormat string
	Footnotes         *registry.Footnotes
	Definitions       *registry.Definitions
	Diagnostics       []Diagnostic
	Revision          uint64

	bodies           []view.Footnote
	footnoteRenderer func(registry.Footnote) []view.Node
}

// HasFootnote reports whether the document defines at least one footnote.
func (r *Result) HasFootnote() bool {
	return r != nil && r.Footnotes.Len() > 0
}

// RenderFootnote renders the body of one footnote entry. It reads only the
// finished registries, so it can be called any number of times.
func (r *Result) RenderFootnote(entry registry.Footnote) []view.Node {
	if r == nil || r.footnoteRenderer == nil {
		return nil
	}
	return r.footnoteRenderer(entry)
}

// RenderFootnotes returns every footnote body in index order.
func (r *Result) RenderFootnotes() []view.Footnote {
	if r == nil {
		return nil
	}
	return slices.Clone(r.bodies)
}
