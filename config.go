package markview

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-markview/internal/logging/console"
	"github.com/goliatone/go-markview/internal/logging/gologger"
	"github.com/goliatone/go-markview/internal/parser"
	"github.com/goliatone/go-markview/pkg/interfaces"
	"github.com/goliatone/go-markview/pkg/view"
)

var (
	ErrGlobalPrefixInvalid    = errors.New("markview config: global prefix must start with a letter and hold only letters, digits, '-' or '_'")
	ErrLoggingProviderUnknown = errors.New("markview config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("markview config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("markview config: logging format is invalid")
	ErrParserExtensionUnknown = errors.New("markview config: parser extension is unknown")
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Config is the serialisable part of a Mark's setup. Options passed to New
// are applied on top of it.
type Config struct {
	GlobalPrefix string
	TextBypass   bool
	Trace        bool
	Parser       ParserConfig
	Logging      LoggingConfig
}

// ParserConfig selects goldmark extensions for the bundled parser.
type ParserConfig struct {
	Extensions  []string
	Frontmatter bool
}

// LoggingConfig picks a log provider. An empty Provider disables logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the configuration used by New when none is given.
func DefaultConfig() Config {
	return Config{
		GlobalPrefix: view.DefaultGlobalPrefix,
		Parser: ParserConfig{
			Extensions:  append([]string(nil), parser.DefaultExtensions...),
			Frontmatter: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid field, joined.
func (c Config) Validate() error {
	var errs []error

	if err := validation.Validate(c.GlobalPrefix, validation.Required, validation.Match(prefixPattern)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrGlobalPrefixInvalid, c.GlobalPrefix))
	}

	for _, name := range c.Parser.Extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		if err := validation.Validate(key, validation.In(anySlice(parser.KnownExtensions())...)); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrParserExtensionUnknown, name))
		}
	}

	provider := normalize(c.Logging.Provider)
	if err := validation.Validate(provider, validation.In("none", "console", "gologger")); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, c.Logging.Provider))
	}
	if err := validation.Validate(normalize(c.Logging.Level), validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, c.Logging.Level))
	}
	if provider == "gologger" {
		if err := validation.Validate(normalize(c.Logging.Format), validation.In("json", "console", "pretty")); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, c.Logging.Format))
		}
	}

	return errors.Join(errs...)
}

func (c Config) parseOptions() interfaces.ParseOptions {
	frontmatter := c.Parser.Frontmatter
	return interfaces.ParseOptions{
		Extensions:  c.Parser.Extensions,
		Frontmatter: &frontmatter,
	}
}

// LoggerProvider builds the configured provider, or nil when logging is off.
func (c LoggingConfig) LoggerProvider() (interfaces.LoggerProvider, error) {
	switch normalize(c.Provider) {
	case "", "none":
		return nil, nil
	case "console":
		return console.NewProvider(console.Options{Level: console.ParseLevel(c.Level)}), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Level,
			Format:    c.Format,
			AddSource: c.AddSource,
			Focus:     c.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("markview: logging: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, c.Provider)
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
