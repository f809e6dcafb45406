// Package parser adapts goldmark to the mdast tree consumed by the
// projection engine.
package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-markview/internal/logging"
	"github.com/goliatone/go-markview/pkg/interfaces"
	"github.com/goliatone/go-markview/pkg/mdast"
)

// ErrFrontmatter is returned, together with a usable tree, when the leading
// metadata block could not be decoded.
var ErrFrontmatter = errors.New("parser: frontmatter could not be decoded")

// DefaultExtensions is used when ParseOptions names none.
var DefaultExtensions = []string{"gfm", "footnote", "directive"}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"footnotes":     extension.Footnote,
	"directive":     Directives,
	"directives":    Directives,
}

// Parser turns Markdown source into an mdast tree. The goldmark instance is
// built once; Parse is safe for concurrent use.
type Parser struct {
	md          goldmark.Markdown
	frontmatter bool
	extensions  []string
	logger      interfaces.Logger
}

// Option customises a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

var _ interfaces.TreeParser = (*Parser)(nil)

// New builds a parser for opts.
func New(opts interfaces.ParseOptions, options ...Option) *Parser {
	names := normalizeExtensions(opts.Extensions)
	p := &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(collectExtensions(names)...),
			goldmark.WithParserOptions(footnoteRecorderOption()),
		),
		frontmatter: opts.Frontmatter == nil || *opts.Frontmatter,
		extensions:  names,
		logger:      logging.NoOp(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Extensions returns the enabled extension names in registration order.
func (p *Parser) Extensions() []string {
	return append([]string(nil), p.extensions...)
}

// Parse converts source into a tree. A frontmatter decode failure keeps the
// raw block in the tree and is reported as an error wrapping ErrFrontmatter.
func (p *Parser) Parse(source []byte) (*mdast.Root, error) {
	var (
		fm      *mdast.Frontmatter
		fmErr   error
		content = source
	)
	if p.frontmatter {
		if block, ok := cutFrontmatter(source); ok {
			fm, fmErr = block.decode(source)
			content = block.blank(source)
		}
	}

	pc := gparser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(content), gparser.WithContext(pc))

	root := newConverter(source).document(doc, pc)
	if fm != nil {
		root.Children = append([]mdast.Node{fm}, root.Children...)
	}

	if fmErr != nil {
		p.logger.Warn("parser.frontmatter", "error", fmErr, "format", fm.Format)
		return root, fmt.Errorf("%w: %v", ErrFrontmatter, fmErr)
	}
	return root, nil
}

// KnownExtensions lists every accepted extension name, sorted.
func KnownExtensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExtensions(names []string) []string {
	if len(names) == 0 {
		names = DefaultExtensions
	}
	out := make([]string, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := extensionRegistry[key]; !ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// gfmParts are already bundled by extension.GFM.
var gfmParts = map[goldmark.Extender]struct{}{
	extension.Table:         {},
	extension.Strikethrough: {},
	extension.Linkify:       {},
	extension.TaskList:      {},
}

func collectExtensions(names []string) []goldmark.Extender {
	seen := map[goldmark.Extender]struct{}{}
	for _, name := range names {
		if extensionRegistry[name] == extension.GFM {
			for part := range gfmParts {
				seen[part] = struct{}{}
			}
		}
	}

	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		ext := extensionRegistry[name]
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		extenders = append(extenders, ext)
	}
	return extenders
}
