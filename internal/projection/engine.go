// Package projection walks a parsed mdast tree and projects it onto view
// nodes, substituting a renderable unit for every node type. A pass also
// yields the table of contents, the frontmatter block, the footnote index
// and a list of diagnostics for nodes that rendered nothing.
package projection

import (
	"sync/atomic"
	"time"

	"github.com/goliatone/go-markview/internal/components"
	"github.com/goliatone/go-markview/internal/logging"
	"github.com/goliatone/go-markview/internal/presets"
	"github.com/goliatone/go-markview/pkg/interfaces"
	"github.com/goliatone/go-markview/pkg/mdast"
	"github.com/goliatone/go-markview/pkg/view"
)

// DirectiveValidator checks directive attributes before a directive is
// rendered. A non-nil error drops the directive and records a diagnostic.
type DirectiveValidator interface {
	ValidateAttributes(name string, attributes map[string]string) error
}

// Engine holds the configuration shared by every pass. It is safe to call
// Project from several goroutines; each pass owns its own state.
type Engine struct {
	table      *components.Table
	factory    view.Factory
	textBypass bool
	slug       interfaces.SlugTransform
	normalize  interfaces.URLNormalizer
	validator  DirectiveValidator
	logger     interfaces.Logger
	trace      bool
	prefix     string
	revision   atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable replaces the resolution table. The default table holds the
// built-in presets with no overrides.
func WithTable(table *components.Table) Option {
	return func(e *Engine) {
		if table != nil {
			e.table = table
		}
	}
}

// WithFactory sets the host factory used to build view nodes.
func WithFactory(factory view.Factory) Option {
	return func(e *Engine) {
		if factory != nil {
			e.factory = factory
		}
	}
}

// WithTextBypass makes text nodes contribute their literal string without
// resolving a unit.
func WithTextBypass(enabled bool) Option {
	return func(e *Engine) {
		e.textBypass = enabled
	}
}

// WithSlugTransform sets the heading title to slug mapping. GitHubSlug is
// used when transform is nil.
func WithSlugTransform(transform interfaces.SlugTransform) Option {
	return func(e *Engine) {
		e.slug = transform
	}
}

func WithURLNormalizer(normalize interfaces.URLNormalizer) Option {
	return func(e *Engine) {
		if normalize != nil {
			e.normalize = normalize
		}
	}
}

func WithDirectiveValidator(validator DirectiveValidator) Option {
	return func(e *Engine) {
		e.validator = validator
	}
}

// WithLogger sets the logger used for diagnostics and trace output.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTrace logs pass timing and counts at debug level.
func WithTrace(enabled bool) Option {
	return func(e *Engine) {
		e.trace = enabled
	}
}

// WithGlobalPrefix tags log entries with the owning instance's prefix.
func WithGlobalPrefix(prefix string) Option {
	return func(e *Engine) {
		e.prefix = prefix
	}
}

// New constructs an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		table:     components.NewTable(presets.Defaults(), nil),
		factory:   view.DefaultFactory{},
		normalize: NormalizeURL,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the resolution table used by the engine.
func (e *Engine) Table() *components.Table {
	return e.table
}

// Project runs one full pass over root. It never fails: nodes that cannot
// be rendered contribute nothing and are reported in Result.Diagnostics.
func (e *Engine) Project(root *mdast.Root) *Result {
	started := time.Now()
	revision := e.revision.Add(1)
	logger := logging.WithPass(e.logger, revision, e.prefix)

	p := newPass(e)
	result := p.run(root)
	result.Revision = revision

	for _, d := range result.Diagnostics {
		if d.Code == CodeMissingContext {
			logger.Error("projection.diagnostic", "code", d.Code, "kind", d.Kind, "message", d.Message)
			continue
		}
		logger.Warn("projection.diagnostic", "code", d.Code, "kind", d.Kind, "identifier", d.Identifier, "message", d.Message)
	}
	if e.trace {
		logger.Debug("projection.pass",
			"duration", time.Since(started),
			"nodes", len(result.Nodes),
			"toc", len(result.TOC),
			"footnotes", result.Footnotes.Len(),
			"definitions", result.Definitions.Len(),
			"diagnostics", len(result.Diagnostics),
		)
	}
	return result
}
