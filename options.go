package statementpdf

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// pipelineConfig holds settings resolved by NewPipeline.
type pipelineConfig struct {
	timeout        time.Duration // 0 = no deadline beyond the caller's context
	limits         Limits
	page           *PageSettings
	assetPath      string
	footerTemplate string
	reclaim        bool
	now            func() time.Time
}

// WithBackend sets the rendering backend. Default: a local RodBackend.
// The pipeline closes it on Close.
func WithBackend(b RenderBackend) Option {
	return func(p *Pipeline) {
		p.backend = b
	}
}

// WithFooterBackend sets the backend used for footer batches.
// Default: the main backend.
func WithFooterBackend(b RenderBackend) Option {
	return func(p *Pipeline) {
		p.footerBackend = b
	}
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithLimits sets the pipeline thresholds. Zero fields keep their default.
func WithLimits(l Limits) Option {
	return func(p *Pipeline) {
		p.cfg.limits = l
	}
}

// WithPage sets the page geometry shared by every render.
func WithPage(page *PageSettings) Option {
	return func(p *Pipeline) {
		p.cfg.page = page
	}
}

// WithAssetPath loads templates and styles from a directory, falling back to
// the built-in assets.
func WithAssetPath(path string) Option {
	return func(p *Pipeline) {
		p.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(p *Pipeline) {
		p.loader = l
	}
}

// WithFooterTemplate sets the per-page footer template, by asset name or
// inline. Default: FooterTemplate.
func WithFooterTemplate(nameOrText string) Option {
	return func(p *Pipeline) {
		p.cfg.footerTemplate = nameOrText
	}
}

// WithMemoryReclaim toggles garbage collection around each chunk render.
// Enabled by default.
func WithMemoryReclaim(enabled bool) Option {
	return func(p *Pipeline) {
		p.cfg.reclaim = enabled
	}
}

// WithTimeout bounds each Render call.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("statementpdf: WithTimeout duration must be positive")
	}
	return func(p *Pipeline) {
		p.cfg.timeout = d
	}
}

// WithClock sets the clock used for "today" in templates and for timings.
// Panics if now is nil.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("statementpdf: WithClock requires a non-nil clock")
	}
	return func(p *Pipeline) {
		p.cfg.now = now
	}
}
