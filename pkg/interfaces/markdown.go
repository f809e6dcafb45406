package interfaces

import "github.com/goliatone/go-markview/pkg/mdast"

// TreeParser turns Markdown source into the typed tree walked by the
// projection engine. Implementations return a best-effort tree for
// malformed input. A non-nil tree returned together with an error is
// usable; the error describes the part of the input that was dropped,
// such as undecodable frontmatter. A nil tree means parsing failed.
type TreeParser interface {
	Parse(source []byte) (*mdast.Root, error)
}

// ParseOptions customises the bundled goldmark parser. Extension names are
// matched case-insensitively; unknown names are ignored.
type ParseOptions struct {
	// Extensions selects goldmark extensions. Empty means gfm, footnote and
	// directive.
	Extensions []string
	// Frontmatter toggles splitting a leading metadata block off the source.
	Frontmatter *bool
}

// URLNormalizer encodes a link or image destination for safe output.
type URLNormalizer func(raw string) string

// SlugTransform maps a heading title to its slug before deduplication.
type SlugTransform func(title string) string
