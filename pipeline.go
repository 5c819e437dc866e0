package statementpdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-statementpdf/internal/fileutil"
)

// Pipeline renders reports. Statements with grouped invoices go through the
// chunked path: plan, render concurrently, merge, then number pages. Any
// other report is rendered as one document.
// Create with NewPipeline, use Render, and Close when done.
// Safe for concurrent use.
type Pipeline struct {
	cfg           pipelineConfig
	backend       RenderBackend
	footerBackend RenderBackend
	loader        AssetLoader
	logger        *zap.Logger

	planner    *ChunkPlanner
	renderer   *RenderCoordinator
	reserved   *RenderCoordinator // keeps the footer band free
	counter    *PageCounter
	overlay    *overlayNumberer
	regenerate *regenerateNumberer
}

// NewPipeline creates a Pipeline. Without WithBackend it renders locally
// with headless Chrome, starting browsers on first use.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg: pipelineConfig{
			footerTemplate: FooterTemplate,
			reclaim:        true,
			now:            time.Now,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	limits := p.cfg.limits.WithDefaults()
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	p.cfg.limits = limits
	if err := p.cfg.page.Validate(); err != nil {
		return nil, err
	}

	if p.loader == nil {
		loader, err := NewAssetLoader(p.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		p.loader = loader
	}
	if p.backend == nil {
		p.backend = NewRodBackend(RodConfig{})
	}
	if p.footerBackend == nil {
		p.footerBackend = p.backend
	}

	engine := &templateEngine{loader: p.loader, now: p.cfg.now}
	p.planner = newChunkPlanner(engine, limits)
	p.renderer = &RenderCoordinator{
		backend: p.backend,
		opts:    RenderOptions{Page: p.cfg.page},
		reclaim: p.cfg.reclaim,
		logger:  p.logger,
	}
	p.reserved = &RenderCoordinator{
		backend: p.backend,
		opts:    RenderOptions{Page: p.cfg.page, BottomReserve: limits.FooterBandHeight},
		reclaim: p.cfg.reclaim,
		logger:  p.logger,
	}
	p.counter = &PageCounter{logger: p.logger}
	p.overlay = &overlayNumberer{
		counter: p.counter,
		planner: newFooterPlanner(engine, p.cfg.footerTemplate, limits, p.cfg.page),
		renderer: &FooterRenderCoordinator{renderer: &RenderCoordinator{
			backend: p.footerBackend,
			opts:    RenderOptions{Page: p.cfg.page, FullBleed: true},
			logger:  p.logger,
		}},
		newCompositor: func(mc *MergeContext) *OverlayCompositor {
			return &OverlayCompositor{
				temp:       mc.TempFiles,
				bandHeight: limits.FooterBandHeight,
				logger:     p.logger.With(zap.String("request_id", mc.RequestID)),
			}
		},
		localFooters: isLocal(p.footerBackend),
		logger:       p.logger,
	}
	p.regenerate = &regenerateNumberer{
		engine:  engine,
		backend: p.backend,
		page:    p.cfg.page,
		limits:  limits,
	}
	return p, nil
}

// Render produces the PDF of one report.
// Footer and page-number failures never fail the report: the document is
// returned without them. Temporary files are removed before returning.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (p *Pipeline) Render(ctx context.Context, req Request) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(req.Template) == "" {
		return nil, ErrEmptyTemplate
	}
	if p.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.timeout)
		defer cancel()
	}

	id := uuid.NewString()
	ctx = withRequestID(ctx, id)
	logger := p.logger.With(zap.String("request_id", id))

	temp, err := fileutil.NewTempSet(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	defer func() {
		if cerr := temp.Cleanup(); cerr != nil {
			logger.Warn("temp files not removed", zap.String("dir", temp.Dir()), zap.Error(cerr))
		}
	}()

	vars := req.Vars
	if vars == nil {
		vars = map[string]any{}
	}
	mc := &MergeContext{
		TemplateName:       req.Template,
		TemplateVars:       vars,
		TempFiles:          temp,
		GeneratePageNumber: req.GeneratePageNumber,
		StartTime:          p.cfg.now(),
		InvoiceCount:       invoiceCount(vars),
		RequestID:          id,
	}

	if isStatement(req) && hasGroupedInvoices(vars) {
		pdf, chunked, err := p.renderChunked(ctx, mc, logger)
		if err != nil || chunked {
			return pdf, err
		}
		logger.Debug("no transactions to chunk, rendering directly")
	}
	return p.renderDirect(ctx, mc, logger)
}

// renderChunked runs the chunked path. chunked is false when the statement
// has no transaction at all and nothing was rendered.
func (p *Pipeline) renderChunked(ctx context.Context, mc *MergeContext, logger *zap.Logger) (pdf []byte, chunked bool, err error) {
	tasks, err := p.planner.Plan(ctx, mc.TemplateName, mc.TemplateVars)
	if err != nil {
		return nil, false, err
	}
	if len(tasks) == 0 {
		return nil, false, nil
	}

	renderer := p.renderer
	if mc.GeneratePageNumber {
		renderer = p.reserved
	}
	fragments, err := renderer.Render(ctx, tasks)
	if err != nil {
		return nil, true, err
	}
	assembler := &DocumentAssembler{temp: mc.TempFiles}
	assembled, err := assembler.Assemble(fragments)
	if err != nil {
		return nil, true, err
	}

	strategy := "none"
	out := assembled
	if mc.GeneratePageNumber {
		numberer := p.numbererFor(mc, assembled)
		strategy = numberer.name()
		out, err = numberer.apply(ctx, mc, assembled)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, true, ctxErr
			}
			logger.Warn("page numbering failed, returning document without page numbers",
				zap.String("strategy", strategy), zap.Error(err))
			out = assembled
		}
	}

	logger.Info("statement rendered",
		zap.Int("tasks", len(tasks)),
		zap.Int("invoices", mc.InvoiceCount),
		zap.String("strategy", strategy),
		zap.Int("bytes", len(out)),
		zap.Duration("duration", p.cfg.now().Sub(mc.StartTime)))
	return out, true, nil
}

// renderDirect renders the template as one document. Page numbers, when
// requested, are written by the print engine in the same render.
func (p *Pipeline) renderDirect(ctx context.Context, mc *MergeContext, logger *zap.Logger) ([]byte, error) {
	pdf, err := p.regenerate.render(ctx, mc.TemplateName, mc.TemplateVars, mc.GeneratePageNumber)
	if err != nil {
		return nil, err
	}
	logger.Info("report rendered",
		zap.Bool("page_numbers", mc.GeneratePageNumber),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", p.cfg.now().Sub(mc.StartTime)))
	return pdf, nil
}

// numbererFor picks the page numbering strategy of an assembled document.
func (p *Pipeline) numbererFor(mc *MergeContext, assembled []byte) pageNumberer {
	if p.cfg.limits.ShouldRegenerate(int64(len(assembled)), mc.InvoiceCount) {
		return p.regenerate
	}
	return p.overlay
}

// Close releases the rendering backends.
func (p *Pipeline) Close() error {
	err := p.backend.Close()
	if p.footerBackend != p.backend {
		err = errors.Join(err, p.footerBackend.Close())
	}
	return err
}

// isLocal reports whether b renders with the local browser pool.
func isLocal(b RenderBackend) bool {
	_, ok := b.(*RodBackend)
	return ok
}

// isStatement reports whether req is a statement report. Without an explicit
// type, a template asset whose name contains "statement" is one.
func isStatement(req Request) bool {
	if req.ReportType != "" {
		return strings.EqualFold(req.ReportType, ReportTypeStatement)
	}
	return !isInlineTemplate(req.Template) &&
		strings.Contains(strings.ToLower(req.Template), ReportTypeStatement)
}

// invoiceCount returns the length of groupedInvoices, 0 if absent or malformed.
func invoiceCount(vars map[string]any) int {
	list, _ := asList(vars[varGroupedInvoices])
	return len(list)
}
