package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-statementpdf/internal/config"
)

// envPrefix is the prefix of every recognized environment variable.
const envPrefix = "STATEMENTPDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath       string        // STATEMENTPDF_CONFIG: config file path
	Timeout          time.Duration // STATEMENTPDF_TIMEOUT: whole-report timeout
	Backend          string        // STATEMENTPDF_BACKEND: local or remote
	BackendURL       string        // STATEMENTPDF_BACKEND_URL: remote service URL
	FooterBackendURL string        // STATEMENTPDF_FOOTER_BACKEND_URL: remote footer service URL
	Workers          int           // STATEMENTPDF_WORKERS: local browser pool size
	ChunkSize        int           // STATEMENTPDF_CHUNK_SIZE: transactions per chunk
	PageSize         string        // STATEMENTPDF_PAGE_SIZE: letter, a4, legal
	AssetPath        string        // STATEMENTPDF_ASSET_PATH: custom asset directory
	LogLevel         string        // STATEMENTPDF_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid STATEMENTPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"STATEMENTPDF_CONFIG":             true,
	"STATEMENTPDF_TIMEOUT":            true,
	"STATEMENTPDF_BACKEND":            true,
	"STATEMENTPDF_BACKEND_URL":        true,
	"STATEMENTPDF_FOOTER_BACKEND_URL": true,
	"STATEMENTPDF_WORKERS":            true,
	"STATEMENTPDF_CHUNK_SIZE":         true,
	"STATEMENTPDF_PAGE_SIZE":          true,
	"STATEMENTPDF_ASSET_PATH":         true,
	"STATEMENTPDF_LOG_LEVEL":          true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable or non-positive numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:       os.Getenv("STATEMENTPDF_CONFIG"),
		Backend:          os.Getenv("STATEMENTPDF_BACKEND"),
		BackendURL:       os.Getenv("STATEMENTPDF_BACKEND_URL"),
		FooterBackendURL: os.Getenv("STATEMENTPDF_FOOTER_BACKEND_URL"),
		PageSize:         os.Getenv("STATEMENTPDF_PAGE_SIZE"),
		AssetPath:        os.Getenv("STATEMENTPDF_ASSET_PATH"),
		LogLevel:         os.Getenv("STATEMENTPDF_LOG_LEVEL"),
	}

	if timeout := os.Getenv("STATEMENTPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	cfg.Workers = positiveInt(os.Getenv("STATEMENTPDF_WORKERS"))
	cfg.ChunkSize = positiveInt(os.Getenv("STATEMENTPDF_CHUNK_SIZE"))

	return cfg
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized STATEMENTPDF_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Backend != "" {
		cfg.Backend.Kind = env.Backend
	}
	if env.BackendURL != "" {
		cfg.Backend.URL = env.BackendURL
		if env.Backend == "" {
			cfg.Backend.Kind = config.BackendRemote
		}
	}
	if env.FooterBackendURL != "" {
		cfg.FooterBackend.Kind = config.BackendRemote
		cfg.FooterBackend.URL = env.FooterBackendURL
	}
	if env.Workers > 0 {
		cfg.Backend.Workers = env.Workers
	}
	if env.ChunkSize > 0 {
		cfg.Limits.ChunkSize = env.ChunkSize
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
