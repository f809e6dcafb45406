package markview

import (
	"maps"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-markview/internal/components"
	"github.com/goliatone/go-markview/internal/identity"
	"github.com/goliatone/go-markview/pkg/interfaces"
	"github.com/goliatone/go-markview/pkg/view"
)

// FootnoteContainerKey is the Presets key of the unit wrapping all
// footnote bodies.
const FootnoteContainerKey = components.FootnoteContainerKey

// Presets maps node type names (mdast kinds such as "heading"),
// DirectiveKey(name) and FootnoteContainerKey to renderable units.
// view.Suppress() renders nothing; a zero Unit keeps the default.
type Presets map[string]view.Unit

// DirectiveKey returns the Presets key for a directive name.
func DirectiveKey(name string) string {
	return components.DirectiveKey(name)
}

// Option customises a Mark.
type Option func(*settings)

type settings struct {
	config      Config
	presets     Presets
	slug        interfaces.SlugTransform
	provider    interfaces.LoggerProvider
	parser      interfaces.TreeParser
	parseOpts   *interfaces.ParseOptions
	factory     view.Factory
	normalizer  interfaces.URLNormalizer
	schemas     map[string]string
	instanceKey string
	unique      bool
}

func newSettings(opts []Option) *settings {
	s := &settings{config: DefaultConfig(), presets: Presets{}, schemas: map[string]string{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithConfig replaces the base configuration. Options given after it still
// apply on top.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.config = cfg
	}
}

// WithPresets merges overrides into the resolution table. Later calls win
// per key.
func WithPresets(presets Presets) Option {
	return func(s *settings) {
		maps.Copy(s.presets, presets)
	}
}

// WithGlobalPrefix sets the namespacing prefix for generated element ids.
func WithGlobalPrefix(prefix string) Option {
	return func(s *settings) {
		s.config.GlobalPrefix = prefix
		s.instanceKey, s.unique = "", false
	}
}

// WithInstanceKey derives a stable prefix from key, such as a document
// path, so each document on a page gets its own id namespace.
func WithInstanceKey(key string) Option {
	return func(s *settings) {
		s.instanceKey, s.unique = key, false
	}
}

// WithUniquePrefix derives a random prefix.
func WithUniquePrefix() Option {
	return func(s *settings) {
		s.instanceKey, s.unique = "", true
	}
}

// WithTextBypass makes plain text contribute literal strings instead of
// resolving the text unit.
func WithTextBypass(enabled bool) Option {
	return func(s *settings) {
		s.config.TextBypass = enabled
	}
}

// WithSlugTransform maps heading titles to slugs before deduplication. It
// replaces the default GitHub-style normalization.
func WithSlugTransform(transform func(string) string) Option {
	return func(s *settings) {
		s.slug = transform
	}
}

// SlugifyTransform lowercases and hyphenates titles with go-slug, keeping
// the title when it normalises to nothing.
func SlugifyTransform(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return title
	}
	return normalized
}

// WithTrace logs pass timing and counts at debug level.
func WithTrace(enabled bool) Option {
	return func(s *settings) {
		s.config.Trace = enabled
	}
}

// WithLoggerProvider sets the provider module loggers are taken from. It
// takes precedence over Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(s *settings) {
		s.provider = provider
	}
}

// WithParser replaces the bundled goldmark parser.
func WithParser(parser interfaces.TreeParser) Option {
	return func(s *settings) {
		s.parser = parser
	}
}

// WithParseOptions configures the bundled parser, overriding Config.Parser.
func WithParseOptions(opts interfaces.ParseOptions) Option {
	return func(s *settings) {
		s.parseOpts = &opts
	}
}

// WithFactory sets the host factory used to build view nodes.
func WithFactory(factory view.Factory) Option {
	return func(s *settings) {
		s.factory = factory
	}
}

// WithURLNormalizer replaces the link and image URL encoder.
func WithURLNormalizer(normalize interfaces.URLNormalizer) Option {
	return func(s *settings) {
		s.normalizer = normalize
	}
}

// WithDirectiveSchema validates the attributes of directive name against a
// JSON schema. It replaces any built-in schema for that directive.
func WithDirectiveSchema(name, schema string) Option {
	return func(s *settings) {
		s.schemas[name] = schema
	}
}

func (s *settings) prefix() string {
	switch {
	case s.unique:
		return identity.UniquePrefix()
	case s.instanceKey != "":
		if prefix := identity.InstancePrefix(s.instanceKey); prefix != "" {
			return prefix
		}
	}
	return s.config.GlobalPrefix
}
