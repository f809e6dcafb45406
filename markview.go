// Package markview renders Markdown into a host neutral view tree. A Mark
// holds one document: set its source and read back the rendered nodes, the
// table of contents, the frontmatter and the footnotes, or mount its
// Content and FootnoteContent units in a host.
package markview

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/goliatone/go-markview/internal/components"
	"github.com/goliatone/go-markview/internal/htmlhost"
	"github.com/goliatone/go-markview/internal/logging"
	"github.com/goliatone/go-markview/internal/parser"
	"github.com/goliatone/go-markview/internal/presets"
	"github.com/goliatone/go-markview/internal/projection"
	"github.com/goliatone/go-markview/internal/validation"
	"github.com/goliatone/go-markview/pkg/interfaces"
	"github.com/goliatone/go-markview/pkg/mdast"
	"github.com/goliatone/go-markview/pkg/view"
)

// ErrParse wraps parser failures that left no tree.
var ErrParse = errors.New("markview: parse failed")

type (
	TOCEntry   = projection.TOCEntry
	Diagnostic = projection.Diagnostic
)

// Diagnostic codes.
const (
	CodeUnresolvedComponent  = projection.CodeUnresolvedComponent
	CodeUnresolvedDirective  = projection.CodeUnresolvedDirective
	CodeUnresolvedReference  = projection.CodeUnresolvedReference
	CodeUnresolvedFootnote   = projection.CodeUnresolvedFootnote
	CodeMissingContext       = projection.CodeMissingContext
	CodeInvalidDirectiveAttr = projection.CodeInvalidDirectiveAttr
	CodeRenderPanic          = projection.CodeRenderPanic
	CodeParseFrontmatter     = projection.CodeParseFrontmatter
)

// Snapshot is everything derived from one source revision. Snapshots are
// immutable; SetSource publishes a new one.
type Snapshot struct {
	Source            string
	Revision          uint64
	Nodes             []view.Node
	TOC               []TOCEntry
	Frontmatter       string
	FrontmatterFormat string
	FrontmatterData   map[string]any
	Footnotes         []view.Footnote
	Diagnostics       []Diagnostic
}

// HasFootnote reports whether the document defines a footnote.
func (s *Snapshot) HasFootnote() bool {
	return s != nil && len(s.Footnotes) > 0
}

// Mark is a reactive document. Readers may run on any goroutine; updates
// are serialised.
type Mark struct {
	engine *projection.Engine
	parser interfaces.TreeParser
	table  *components.Table
	prefix string
	logger interfaces.Logger
	html   *htmlhost.Renderer

	update sync.Mutex

	mu         sync.RWMutex
	snap       *Snapshot
	subs       map[int]func(*Snapshot)
	nextSub    int
	delivering bool
	pending    bool
}

// New builds a Mark and renders source once.
func New(source string, opts ...Option) (*Mark, error) {
	s := newSettings(opts)

	cfg := s.config
	cfg.GlobalPrefix = s.prefix()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider := s.provider
	if provider == nil {
		var err error
		if provider, err = cfg.Logging.LoggerProvider(); err != nil {
			return nil, err
		}
	}

	schemas := validation.NewDirectiveSchemas()
	registered := presets.DirectiveSchemas()
	maps.Copy(registered, s.schemas)
	for _, name := range slices.Sorted(maps.Keys(registered)) {
		if err := schemas.Register(name, registered[name]); err != nil {
			return nil, err
		}
	}

	tp := s.parser
	if tp == nil {
		parseOpts := cfg.parseOptions()
		if s.parseOpts != nil {
			parseOpts = *s.parseOpts
		}
		tp = parser.New(parseOpts, parser.WithLogger(logging.ParserLogger(provider)))
	}

	factory := s.factory
	if factory == nil {
		factory = view.DefaultFactory{}
	}

	table := components.NewTable(presets.Defaults(), s.presets)
	engineOpts := []projection.Option{
		projection.WithTable(table),
		projection.WithFactory(factory),
		projection.WithTextBypass(cfg.TextBypass),
		projection.WithSlugTransform(s.slug),
		projection.WithDirectiveValidator(schemas),
		projection.WithLogger(logging.ProjectionLogger(provider)),
		projection.WithTrace(cfg.Trace),
		projection.WithGlobalPrefix(cfg.GlobalPrefix),
	}
	if s.normalizer != nil {
		engineOpts = append(engineOpts, projection.WithURLNormalizer(s.normalizer))
	}

	m := &Mark{
		engine: projection.New(engineOpts...),
		parser: tp,
		table:  table,
		prefix: cfg.GlobalPrefix,
		logger: logging.ModuleLogger(provider, ""),
		html:   htmlhost.New(),
		subs:   map[int]func(*Snapshot){},
	}
	if err := m.SetSource(source); err != nil {
		return nil, err
	}
	return m, nil
}

// GlobalPrefix returns the namespacing prefix of this instance.
func (m *Mark) GlobalPrefix() string { return m.prefix }

// SetSource reparses and reprojects the document, publishes the new
// snapshot and then notifies subscribers on the calling goroutine. When a
// delivery is already running, on this goroutine or another, the snapshot
// is published and handed to that delivery instead; subscribers never run
// nested or concurrently and always end on the latest snapshot.
func (m *Mark) SetSource(source string) error {
	m.update.Lock()
	snap, err := m.build(source)
	if err != nil {
		m.update.Unlock()
		return err
	}

	m.mu.Lock()
	m.snap = snap
	owner := !m.delivering
	if owner {
		m.delivering = true
	} else {
		m.pending = true
	}
	m.mu.Unlock()
	m.update.Unlock()

	if owner {
		m.deliver()
	}
	return nil
}

func (m *Mark) deliver() {
	done := false
	defer func() {
		if !done {
			m.mu.Lock()
			m.delivering, m.pending = false, false
			m.mu.Unlock()
		}
	}()

	for {
		m.mu.Lock()
		snap := m.snap
		subs := make([]func(*Snapshot), 0, len(m.subs))
		for _, id := range slices.Sorted(maps.Keys(m.subs)) {
			subs = append(subs, m.subs[id])
		}
		m.pending = false
		m.mu.Unlock()

		for _, fn := range subs {
			fn(snap)
		}

		m.mu.Lock()
		if !m.pending {
			m.delivering = false
			m.mu.Unlock()
			done = true
			return
		}
		m.mu.Unlock()
	}
}

func (m *Mark) build(source string) (*Snapshot, error) {
	root, parseErr := m.parser.Parse([]byte(source))
	if root == nil {
		if parseErr == nil {
			parseErr = errors.New("parser returned no tree")
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, parseErr)
	}

	res := m.engine.Project(root)
	snap := &Snapshot{
		Source:            source,
		Revision:          res.Revision,
		Nodes:             res.Nodes,
		TOC:               res.TOC,
		Frontmatter:       res.Frontmatter,
		FrontmatterFormat: res.FrontmatterFormat,
		Footnotes:         res.RenderFootnotes(),
		Diagnostics:       res.Diagnostics,
	}

	if len(snap.Footnotes) > 0 {
		if _, ok := m.table.Resolve(components.FootnoteContainerKey); !ok {
			d := projection.ContainerDiagnostic(components.FootnoteContainerKey)
			m.logger.Warn("diagnostic", "code", d.Code, "message", d.Message, "revision", res.Revision)
			snap.Diagnostics = append(snap.Diagnostics, d)
		}
	}

	var fm mdast.Node
	if node := frontmatterNode(root); node != nil {
		snap.FrontmatterData = node.Data
		fm = node
	}

	if parseErr != nil {
		if !errors.Is(parseErr, parser.ErrFrontmatter) {
			m.logger.Warn("markview.parse", "error", parseErr, "revision", res.Revision)
			return snap, nil
		}
		d := projection.FrontmatterDiagnostic(parseErr, fm)
		m.logger.Warn("diagnostic", "code", d.Code, "message", d.Message, "revision", res.Revision)
		snap.Diagnostics = append([]Diagnostic{d}, snap.Diagnostics...)
	}
	return snap, nil
}

func frontmatterNode(root *mdast.Root) *mdast.Frontmatter {
	for _, child := range root.Children {
		if fm, ok := child.(*mdast.Frontmatter); ok {
			return fm
		}
	}
	return nil
}

// Source returns the current source text.
func (m *Mark) Source() string { return m.Snapshot().Source }

// Snapshot returns the current snapshot.
func (m *Mark) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// TOC returns the table of contents of the current snapshot.
func (m *Mark) TOC() []TOCEntry { return slices.Clone(m.Snapshot().TOC) }

// HasFootnote reports whether the current document defines a footnote.
func (m *Mark) HasFootnote() bool { return m.Snapshot().HasFootnote() }

// Frontmatter returns the verbatim metadata block, or "".
func (m *Mark) Frontmatter() string { return m.Snapshot().Frontmatter }

// Diagnostics returns the diagnostics of the current snapshot.
func (m *Mark) Diagnostics() []Diagnostic { return slices.Clone(m.Snapshot().Diagnostics) }

// Subscribe calls fn after every published update until cancel is called.
func (m *Mark) Subscribe(fn func(*Snapshot)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Content is the renderable unit for the document body: a div holding the
// current nodes, with the instance prefix provided to every descendant.
func (m *Mark) Content() view.Component {
	return view.NewComponent("markview.Content", func(*view.Context, *view.Element) []view.Node {
		snap := m.Snapshot()
		return []view.Node{view.Provide(view.GlobalPrefixKey, m.prefix,
			&view.Element{Unit: view.Tag("div"), Children: slices.Clone(snap.Nodes)},
		)}
	})
}

// FootnoteContent is the renderable unit for the footnote section. A
// component container receives the "footnotes" and "globalPrefix" props,
// a tag container gets the bodies as children, a suppressed one nothing.
// A missing container also renders nothing and is reported on the
// snapshot's diagnostics.
func (m *Mark) FootnoteContent() view.Component {
	return view.NewComponent("markview.FootnoteContent", func(*view.Context, *view.Element) []view.Node {
		unit, ok := m.table.Resolve(components.FootnoteContainerKey)
		if !ok || unit.IsSuppressed() {
			return nil
		}

		footnotes := m.Snapshot().Footnotes
		var container *view.Element
		if unit.IsTag() {
			var bodies []view.Node
			for _, fn := range footnotes {
				bodies = append(bodies, fn.Body...)
			}
			container = &view.Element{Unit: unit, Children: bodies}
		} else {
			container = &view.Element{Unit: unit, Props: view.Props{
				"footnotes":    slices.Clone(footnotes),
				"globalPrefix": m.prefix,
			}}
		}
		return []view.Node{view.Provide(view.GlobalPrefixKey, m.prefix, container)}
	})
}

// RenderHTML renders Content through the HTML host.
func (m *Mark) RenderHTML() (string, error) {
	return m.html.RenderString([]view.Node{&view.Element{Unit: view.Use(m.Content())}})
}

// RenderFootnotesHTML renders FootnoteContent through the HTML host.
func (m *Mark) RenderFootnotesHTML() (string, error) {
	return m.html.RenderString([]view.Node{&view.Element{Unit: view.Use(m.FootnoteContent())}})
}
