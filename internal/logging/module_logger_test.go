package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-markview/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, projectionModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ProjectionLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != projectionModule {
		t.Fatalf("expected module %s, got %v", projectionModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != projectionModule {
		t.Fatalf("expected module field %s, got %v", projectionModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}

	ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	tests := []struct {
		get  func(interfaces.LoggerProvider) interfaces.Logger
		want string
	}{
		{ParserLogger, parserModule},
		{PreviewLogger, previewModule},
	}
	for _, tt := range tests {
		provider := &stubProvider{logger: &recordingLogger{}}
		tt.get(provider)
		if len(provider.requested) == 0 || provider.requested[0] != tt.want {
			t.Fatalf("expected %s request, got %v", tt.want, provider.requested)
		}
	}
}

func TestWithPassSkipsZeroValues(t *testing.T) {
	rec := &recordingLogger{}

	WithPass(rec, 0, "")
	if len(rec.fields) != 0 {
		t.Fatalf("expected no fields for zero pass, got %v", rec.fields)
	}

	WithPass(rec, 3, "docs")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldRevision] != uint64(3) || rec.fields[0][fieldPrefix] != "docs" {
		t.Fatalf("unexpected pass fields: %v", rec.fields[0])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"path": "/api/render"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["path"] != "/api/render" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "a" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
