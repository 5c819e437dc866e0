package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	statementpdf "github.com/alnah/go-statementpdf"
	"github.com/alnah/go-statementpdf/internal/config"
	"github.com/alnah/go-statementpdf/internal/pdfops"
	"github.com/alnah/go-statementpdf/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrTooManyInputs      = errors.New("expected a single data file")
	ErrReadData           = errors.New("failed to read data file")
	ErrInvalidData        = errors.New("invalid statement data")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidChunkSize   = errors.New("invalid chunk size")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdioPath selects stdin for input or stdout for output.
const stdioPath = "-"

// runRender loads configuration, reads the data file and writes the report.
func runRender(ctx context.Context, positional []string, flags *renderFlags, env *Environment) error {
	start := env.Now()

	if err := validateRenderFlags(flags); err != nil {
		return err
	}

	dataPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	vars, err := readVariables(dataPath, env.Stdin)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level, flags.common.verbose, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	pipeline, err := buildPipeline(cfg, flags, timeout, logger, env)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pipeline.Close(); cerr != nil {
			logger.Warn("closing backends", zap.Error(cerr))
		}
	}()

	pdf, err := pipeline.Render(ctx, statementpdf.Request{
		Template:           resolveTemplate(flags.template),
		Vars:               vars,
		GeneratePageNumber: flags.pageNumbers,
		ReportType:         flags.reportType,
	})
	if err != nil {
		return err
	}

	outputPath := resolveOutputPath(dataPath, flags.output)
	if err := writeOutput(outputPath, pdf, env.Stdout); err != nil {
		return err
	}

	if !flags.common.quiet && outputPath != stdioPath {
		printResult(env.Stderr, outputPath, pdf, env.Now().Sub(start), flags.common.verbose)
	}
	return nil
}

func validateRenderFlags(flags *renderFlags) error {
	if flags.backend.workers < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, flags.backend.workers)
	}
	if flags.chunkSize < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidChunkSize, flags.chunkSize)
	}
	return nil
}

// resolveInputPath returns the single data file argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w, got %d", ErrTooManyInputs, len(args))
	}
}

// loadConfig loads the config named by the flag, else by the environment,
// else returns the defaults.
func loadConfig(flagValue string, env *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags to cfg (CLI wins).
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	b := flags.backend
	if b.kind != "" {
		cfg.Backend.Kind = b.kind
	}
	if b.url != "" {
		cfg.Backend.URL = b.url
		if b.kind == "" {
			cfg.Backend.Kind = config.BackendRemote
		}
	}
	if b.footerURL != "" {
		cfg.FooterBackend.Kind = config.BackendRemote
		cfg.FooterBackend.URL = b.footerURL
	}
	if b.workers > 0 {
		cfg.Backend.Workers = b.workers
	}
	if b.browserBin != "" {
		cfg.Backend.BrowserBin = b.browserBin
	}
	if b.renderTimeout != "" {
		cfg.Backend.Timeout = b.renderTimeout
	}

	if flags.chunkSize > 0 {
		cfg.Limits.ChunkSize = flags.chunkSize
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}

	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}

	switch {
	case flags.common.verbose:
		cfg.Log.Level = "debug"
	case flags.common.quiet:
		cfg.Log.Level = "error"
	}
}

// resolveTimeout returns the whole-report timeout: flag, then env, else none.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use format like 30s, 2m, 1h)", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// resolveTemplate defaults to the built-in statement template.
func resolveTemplate(flagValue string) string {
	if flagValue == "" {
		return statementpdf.StatementTemplate
	}
	return flagValue
}

// readVariables decodes a YAML or JSON data file, or stdin for "-".
func readVariables(path string, stdin io.Reader) (map[string]any, error) {
	var data []byte
	var err error
	if path == stdioPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadData, err)
	}

	vars, err := yamlutil.DecodeVariables(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidData, path, err)
	}
	return vars, nil
}

// buildPipeline creates the backends described by cfg and wires them into a
// pipeline. Backends are closed if the pipeline cannot be built.
func buildPipeline(cfg *config.Config, flags *renderFlags, timeout time.Duration, logger *zap.Logger, env *Environment) (*statementpdf.Pipeline, error) {
	backend, err := env.NewBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	opts := []statementpdf.Option{
		statementpdf.WithBackend(backend),
		statementpdf.WithLogger(logger),
		statementpdf.WithClock(env.Now),
		statementpdf.WithLimits(limitsFromConfig(cfg.Limits)),
		statementpdf.WithPage(pageFromConfig(cfg.Page)),
		statementpdf.WithMemoryReclaim(!flags.backend.disableReclaimGC),
	}

	var footerBackend statementpdf.RenderBackend
	if cfg.FooterBackend.Kind != "" {
		footerBackend, err = env.NewBackend(cfg.FooterBackend)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		opts = append(opts, statementpdf.WithFooterBackend(footerBackend))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, statementpdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if flags.backend.footerTemplate != "" {
		opts = append(opts, statementpdf.WithFooterTemplate(flags.backend.footerTemplate))
	}
	if timeout > 0 {
		opts = append(opts, statementpdf.WithTimeout(timeout))
	}

	p, err := statementpdf.NewPipeline(opts...)
	if err != nil {
		closeErr := backend.Close()
		if footerBackend != nil {
			closeErr = errors.Join(closeErr, footerBackend.Close())
		}
		if closeErr != nil {
			logger.Warn("closing backends", zap.Error(closeErr))
		}
		return nil, err
	}
	return p, nil
}

// limitsFromConfig maps config limits; zero fields keep library defaults.
func limitsFromConfig(l config.LimitsConfig) statementpdf.Limits {
	return statementpdf.Limits{
		ChunkSize:             l.ChunkSize,
		FooterBatchSize:       l.FooterBatchSize,
		FooterDowngradePages:  l.FooterDowngradePages,
		FooterBandHeight:      l.FooterBandHeight,
		RegenerateMaxBytes:    l.RegenerateMaxBytes,
		RegenerateMaxInvoices: l.RegenerateMaxInvoices,
		MinifyThreshold:       l.MinifyThreshold,
	}
}

// pageFromConfig fills unset page fields with defaults.
func pageFromConfig(p config.PageConfig) *statementpdf.PageSettings {
	page := statementpdf.DefaultPageSettings()
	if p.Size != "" {
		page.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		page.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin != 0 {
		page.Margin = p.Margin
	}
	return page
}

// resolveOutputPath returns the -o value, stdout for stdin input, or the
// data file path with a .pdf extension.
func resolveOutputPath(dataPath, flagOutput string) string {
	if flagOutput != "" {
		return flagOutput
	}
	if dataPath == stdioPath {
		return stdioPath
	}
	return strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + ".pdf"
}

// writeOutput writes pdf to path, creating parent directories, or to stdout.
func writeOutput(path string, pdf []byte, stdout io.Writer) error {
	if path == stdioPath {
		if _, err := stdout.Write(pdf); err != nil {
			return fmt.Errorf("%w: %v", ErrWritePDF, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWritePDF, err)
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(path, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}

// printResult reports the written file, with page count and timing when verbose.
func printResult(w io.Writer, path string, pdf []byte, elapsed time.Duration, verbose bool) {
	if !verbose {
		fmt.Fprintf(w, "%s\n", path)
		return
	}
	pages, err := pdfops.PageCount(pdf)
	if err != nil {
		fmt.Fprintf(w, "%s (%d bytes, %s)\n", path, len(pdf), elapsed.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(w, "%s (%d pages, %d bytes, %s)\n", path, pages, len(pdf), elapsed.Round(time.Millisecond))
}
