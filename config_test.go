package markview

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty prefix", func(c *Config) { c.GlobalPrefix = "" }, ErrGlobalPrefixInvalid},
		{"prefix with space", func(c *Config) { c.GlobalPrefix = "a b" }, ErrGlobalPrefixInvalid},
		{"unknown extension", func(c *Config) { c.Parser.Extensions = []string{"gfm", "mermaid"} }, ErrParserExtensionUnknown},
		{"unknown provider", func(c *Config) { c.Logging.Provider = "syslog" }, ErrLoggingProviderUnknown},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, ErrLoggingLevelInvalid},
		{"bad gologger format", func(c *Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, ErrLoggingFormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GlobalPrefix = "-"
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, ErrGlobalPrefixInvalid) || !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestConsoleLoggingFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "error"

	if _, err := New("# a", WithConfig(cfg)); err != nil {
		t.Fatalf("New() with console logging error: %v", err)
	}
}
