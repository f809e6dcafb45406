package logging

import (
	"context"

	"github.com/goliatone/go-markview/pkg/interfaces"
)

const (
	rootModule       = "markview"
	projectionModule = "markview.projection"
	parserModule     = "markview.parser"
	previewModule    = "markview.preview"
)

const (
	fieldRevision = "revision"
	fieldPrefix   = "global_prefix"
)

// ModuleLogger returns a logger scoped to module, falling back to NoOp when
// provider is nil or has nothing for that name. The module name is attached
// as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ProjectionLogger returns the logger used by the projection engine.
func ProjectionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, projectionModule)
}

// ParserLogger returns the logger used by the goldmark adapter.
func ParserLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, parserModule)
}

// PreviewLogger returns the logger used by the preview server.
func PreviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, previewModule)
}

// WithPass tags a logger with the source revision and namespacing prefix of
// the pass it reports on. Zero values are skipped.
func WithPass(logger interfaces.Logger, revision uint64, prefix string) interfaces.Logger {
	fields := map[string]any{}
	if revision > 0 {
		fields[fieldRevision] = revision
	}
	if prefix != "" {
		fields[fieldPrefix] = prefix
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
