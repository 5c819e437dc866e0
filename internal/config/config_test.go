package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Backend.Kind != BackendLocal {
		t.Errorf("Backend.Kind = %q, want %q", cfg.Backend.Kind, BackendLocal)
	}
	if !cfg.FooterBackend.IsZero() {
		t.Errorf("FooterBackend = %+v, want zero", cfg.FooterBackend)
	}
	if cfg.Limits != (LimitsConfig{}) {
		t.Errorf("Limits = %+v, want zero (built-in defaults)", cfg.Limits)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig_Full(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
backend:
  kind: remote
  url: http://render:3000
  timeout: 120s
  rateLimit: 20
footerBackend:
  kind: local
  workers: 2
limits:
  chunkSize: 250
  footerBatchSize: 100
  footerDowngradePages: 800
  footerBandHeight: 72
  regenerateMaxBytes: 5242880
  regenerateMaxInvoices: 4
  minifyThreshold: 1048576
page:
  size: a4
  orientation: landscape
  margin: 0.75
assets:
  basePath: ./assets
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Backend.Kind != BackendRemote || cfg.Backend.URL != "http://render:3000" {
		t.Errorf("Backend = %+v", cfg.Backend)
	}
	if cfg.Backend.RateLimit != 20 {
		t.Errorf("Backend.RateLimit = %g, want 20", cfg.Backend.RateLimit)
	}
	if got := cfg.Backend.TimeoutDuration(); got != 120*time.Second {
		t.Errorf("Backend.TimeoutDuration() = %v, want 120s", got)
	}
	if cfg.FooterBackend.Kind != BackendLocal || cfg.FooterBackend.Workers != 2 {
		t.Errorf("FooterBackend = %+v", cfg.FooterBackend)
	}
	want := LimitsConfig{
		ChunkSize:             250,
		FooterBatchSize:       100,
		FooterDowngradePages:  800,
		FooterBandHeight:      72,
		RegenerateMaxBytes:    5242880,
		RegenerateMaxInvoices: 4,
		MinifyThreshold:       1048576,
	}
	if cfg.Limits != want {
		t.Errorf("Limits = %+v, want %+v", cfg.Limits, want)
	}
	if cfg.Page.Size != "a4" || cfg.Page.Orientation != "landscape" || cfg.Page.Margin != 0.75 {
		t.Errorf("Page = %+v", cfg.Page)
	}
	if cfg.Assets.BasePath != "./assets" {
		t.Errorf("Assets.BasePath = %q", cfg.Assets.BasePath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_KeepsDefaultsForMissingSections(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, "limits:\n  chunkSize: 100\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Backend.Kind != BackendLocal {
		t.Errorf("Backend.Kind = %q, want default %q", cfg.Backend.Kind, BackendLocal)
	}
	if cfg.Limits.ChunkSize != 100 {
		t.Errorf("Limits.ChunkSize = %d, want 100", cfg.Limits.ChunkSize)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown field", content: "backend:\n  kindd: local\n", wantErr: ErrConfigParse},
		{name: "invalid yaml", content: "backend: [unclosed\n", wantErr: ErrConfigParse},
		{name: "unknown backend kind", content: "backend:\n  kind: lambda\n", wantErr: ErrInvalidValue},
		{name: "remote without url", content: "backend:\n  kind: remote\n", wantErr: ErrInvalidValue},
		{name: "bad timeout", content: "backend:\n  timeout: soon\n", wantErr: ErrInvalidValue},
		{name: "negative timeout", content: "backend:\n  timeout: -5s\n", wantErr: ErrInvalidValue},
		{name: "negative workers", content: "footerBackend:\n  workers: -1\n", wantErr: ErrInvalidValue},
		{name: "negative rate limit", content: "backend:\n  rateLimit: -2\n", wantErr: ErrInvalidValue},
		{name: "negative chunk size", content: "limits:\n  chunkSize: -1\n", wantErr: ErrInvalidValue},
		{name: "negative band", content: "limits:\n  footerBandHeight: -10\n", wantErr: ErrInvalidValue},
		{name: "bad log level", content: "log:\n  level: loud\n", wantErr: ErrInvalidValue},
		{name: "page size too long", content: "page:\n  size: " + strings.Repeat("x", MaxPageSizeLength+1) + "\n", wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want %v", err, ErrEmptyConfigName)
	}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := LoadConfig(missing); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing path) error = %v, want %v", err, ErrConfigNotFound)
	}
	if _, err := LoadConfig("no-such-config-name-xyz"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing name) error = %v, want %v", err, ErrConfigNotFound)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("prod")
	if len(paths) < 2 || paths[0] != "prod.yaml" || paths[1] != "prod.yml" {
		t.Fatalf("SearchPaths() = %v, want local paths first", paths)
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, "go-statementpdf") {
			t.Errorf("user path %q not under go-statementpdf", p)
		}
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: %v", err)
	}
	if err := validateFieldLength("f", "12345678901", 10); !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("value over limit: %v, want %v", err, ErrFieldTooLong)
	}
}
