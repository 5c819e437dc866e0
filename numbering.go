package statementpdf

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-statementpdf/internal/markup"
)

// Page numbering strategy names, logged as "strategy".
const (
	strategyOverlay    = "overlay"
	strategyRegenerate = "regenerate"
)

// pageNumberer adds running page numbers to an assembled document.
// Errors mean the document is unchanged and usable as is.
type pageNumberer interface {
	name() string
	apply(ctx context.Context, mc *MergeContext, assembled []byte) ([]byte, error)
}

// Compile-time interface checks
var (
	_ pageNumberer = (*overlayNumberer)(nil)
	_ pageNumberer = (*regenerateNumberer)(nil)
)

// ShouldRegenerate reports whether a document of size bytes holding invoices
// invoices is small enough to be rendered again in one piece.
func (l Limits) ShouldRegenerate(size int64, invoices int) bool {
	return size <= l.RegenerateMaxBytes && invoices <= l.RegenerateMaxInvoices
}

// overlayNumberer renders a footer per page and stamps it onto the document.
type overlayNumberer struct {
	counter       *PageCounter
	planner       *FooterPlanner
	renderer      *FooterRenderCoordinator
	newCompositor func(mc *MergeContext) *OverlayCompositor
	localFooters  bool // footer batches share the local browser pool
	logger        *zap.Logger
}

func (n *overlayNumberer) name() string { return strategyOverlay }

func (n *overlayNumberer) apply(ctx context.Context, mc *MergeContext, assembled []byte) ([]byte, error) {
	pages := n.counter.Count(assembled)
	batches, err := n.planner.Plan(mc.TemplateVars, pages)
	if err != nil {
		return assembled, fmt.Errorf("%w: %w", ErrFooterRender, err)
	}
	if pages > n.planner.downgradePages {
		n.logger.Warn("large document, footer on first page only",
			zap.String("request_id", mc.RequestID),
			zap.Int("pages", pages))
	}

	if n.localFooters {
		n.logger.Warn("footer batches rendered by the local browser pool, configure a remote footer backend for large statements",
			zap.String("request_id", mc.RequestID),
			zap.Int("batches", len(batches)))
	}

	footers, err := n.renderer.Render(ctx, batches)
	if err != nil {
		return assembled, err
	}
	return n.newCompositor(mc).Compose(assembled, footers), nil
}

// regenerateNumberer renders the whole template again as one document and
// lets the print engine write the page numbers.
type regenerateNumberer struct {
	engine  *templateEngine
	backend RenderBackend
	page    *PageSettings
	limits  Limits
}

func (n *regenerateNumberer) name() string { return strategyRegenerate }

// apply leaves documents above the regeneration limits untouched.
func (n *regenerateNumberer) apply(ctx context.Context, mc *MergeContext, assembled []byte) ([]byte, error) {
	if !n.limits.ShouldRegenerate(int64(len(assembled)), mc.InvoiceCount) {
		return assembled, nil
	}
	pdf, err := n.render(ctx, mc.TemplateName, mc.TemplateVars, true)
	if err != nil {
		return assembled, fmt.Errorf("%w: %w", ErrFooterRender, err)
	}
	return pdf, nil
}

// render converts the full template to PDF. With numbered set, page-info
// placeholders are moved into the print footer where the page fields are
// filled with the page number and the page total.
func (n *regenerateNumberer) render(ctx context.Context, templateName string, vars map[string]any, numbered bool) ([]byte, error) {
	tmpl, _, err := n.engine.load(templateName)
	if err != nil {
		return nil, err
	}
	body, err := execute(tmpl, vars)
	if err != nil {
		return nil, err
	}
	css, err := n.engine.style()
	if err != nil {
		return nil, err
	}

	opts := RenderOptions{Page: n.page}
	if numbered {
		doc, placeholder, _, err := markup.ExtractPageInfo(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
		}
		body = doc
		opts.FooterHTML = markup.PageNumberFields(placeholder)
	}
	return n.backend.Render(ctx, markup.InjectCSS(body, css), opts)
}
