// Package config loads the statement rendering configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-statementpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength         = 2048
	MaxPathLength        = 4096
	MaxPageSizeLength    = 10
	MaxOrientationLength = 10
)

// Backend kinds.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds all configuration for statement rendering.
type Config struct {
	Backend       BackendConfig `yaml:"backend"`
	FooterBackend BackendConfig `yaml:"footerBackend"` // Empty kind = same as Backend
	Limits        LimitsConfig  `yaml:"limits"`
	Page          PageConfig    `yaml:"page"`
	Assets        AssetsConfig  `yaml:"assets"`
	Log           LogConfig     `yaml:"log"`
}

// BackendConfig selects and tunes an HTML to PDF rendering backend.
type BackendConfig struct {
	Kind       string  `yaml:"kind"`       // "local" (headless Chrome) or "remote" (HTTP service)
	URL        string  `yaml:"url"`        // Remote service base URL
	Timeout    string  `yaml:"timeout"`    // Per-render timeout, e.g. "500s"
	Workers    int     `yaml:"workers"`    // Local browser pool size (0 = auto)
	BrowserBin string  `yaml:"browserBin"` // Chrome binary for the local backend
	RateLimit  float64 `yaml:"rateLimit"`  // Remote requests per second (0 = unlimited)
}

// TimeoutDuration returns the parsed timeout, or zero when unset.
// Validate guarantees the value parses.
func (b BackendConfig) TimeoutDuration() time.Duration {
	if b.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// IsZero reports whether no field is set.
func (b BackendConfig) IsZero() bool {
	return b == BackendConfig{}
}

// LimitsConfig overrides pipeline thresholds. Zero means the built-in default.
type LimitsConfig struct {
	ChunkSize             int     `yaml:"chunkSize"`             // Transactions per chunk
	FooterBatchSize       int     `yaml:"footerBatchSize"`       // Footer pages per render
	FooterDowngradePages  int     `yaml:"footerDowngradePages"`  // Above this, footer on page 1 only
	FooterBandHeight      float64 `yaml:"footerBandHeight"`      // Points
	RegenerateMaxBytes    int64   `yaml:"regenerateMaxBytes"`    // Max assembled size for regeneration
	RegenerateMaxInvoices int     `yaml:"regenerateMaxInvoices"` // Max invoices for regeneration
	MinifyThreshold       int64   `yaml:"minifyThreshold"`       // Chunk HTML size that triggers minification
}

// PageConfig defines PDF page settings shared by main and footer renders.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = embedded assets only
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error" (default: "info")
}

// Validate checks values and field lengths.
// Called by LoadConfig; available for callers that build a Config by hand.
func (c *Config) Validate() error {
	if err := c.Backend.validate("backend"); err != nil {
		return err
	}
	if err := c.FooterBackend.validate("footerBackend"); err != nil {
		return err
	}

	l := c.Limits
	switch {
	case l.ChunkSize < 0:
		return fmt.Errorf("%w: limits.chunkSize %d", ErrInvalidValue, l.ChunkSize)
	case l.FooterBatchSize < 0:
		return fmt.Errorf("%w: limits.footerBatchSize %d", ErrInvalidValue, l.FooterBatchSize)
	case l.FooterDowngradePages < 0:
		return fmt.Errorf("%w: limits.footerDowngradePages %d", ErrInvalidValue, l.FooterDowngradePages)
	case l.FooterBandHeight < 0:
		return fmt.Errorf("%w: limits.footerBandHeight %g", ErrInvalidValue, l.FooterBandHeight)
	case l.RegenerateMaxBytes < 0:
		return fmt.Errorf("%w: limits.regenerateMaxBytes %d", ErrInvalidValue, l.RegenerateMaxBytes)
	case l.RegenerateMaxInvoices < 0:
		return fmt.Errorf("%w: limits.regenerateMaxInvoices %d", ErrInvalidValue, l.RegenerateMaxInvoices)
	case l.MinifyThreshold < 0:
		return fmt.Errorf("%w: limits.minifyThreshold %d", ErrInvalidValue, l.MinifyThreshold)
	}

	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	return nil
}

func (b BackendConfig) validate(section string) error {
	switch b.Kind {
	case "", BackendLocal:
	case BackendRemote:
		if b.URL == "" {
			return fmt.Errorf("%w: %s.url is required for the remote backend", ErrInvalidValue, section)
		}
	default:
		return fmt.Errorf("%w: %s.kind %q (must be local or remote)", ErrInvalidValue, section, b.Kind)
	}
	if err := validateFieldLength(section+".url", b.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength(section+".browserBin", b.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if b.Timeout != "" {
		d, err := time.ParseDuration(b.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s.timeout %q", ErrInvalidValue, section, b.Timeout)
		}
	}
	if b.Workers < 0 {
		return fmt.Errorf("%w: %s.workers %d", ErrInvalidValue, section, b.Workers)
	}
	if b.RateLimit < 0 {
		return fmt.Errorf("%w: %s.rateLimit %g", ErrInvalidValue, section, b.RateLimit)
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration rendering locally with built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{Kind: BackendLocal},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; otherwise it is a
// name searched in the current directory then ~/.config/go-statementpdf/.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths returns the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-statementpdf", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
