package statementpdf

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alnah/go-statementpdf/internal/pdfops"
)

// FooterPlanner builds the footer batches of an assembled document.
type FooterPlanner struct {
	engine         *templateEngine
	template       string
	batchSize      int
	downgradePages int
	bandHeight     float64
	page           *PageSettings
}

func newFooterPlanner(engine *templateEngine, template string, limits Limits, page *PageSettings) *FooterPlanner {
	return &FooterPlanner{
		engine:         engine,
		template:       template,
		batchSize:      limits.FooterBatchSize,
		downgradePages: limits.FooterDowngradePages,
		bandHeight:     limits.FooterBandHeight,
		page:           page,
	}
}

// footerPages returns how many pages get a footer: every page, or only the
// first one when the document exceeds the downgrade threshold.
func (p *FooterPlanner) footerPages(totalPages int) int {
	if totalPages > p.downgradePages {
		return 1
	}
	return totalPages
}

// Plan renders one footer fragment per page and groups them into batches of
// at most batchSize contiguous pages. The output depends only on its inputs.
func (p *FooterPlanner) Plan(vars map[string]any, totalPages int) ([]FooterBatch, error) {
	if totalPages < 1 {
		return nil, nil
	}
	tmpl, _, err := p.engine.load(p.template)
	if err != nil {
		return nil, err
	}

	pages := p.footerPages(totalPages)
	css := p.stylesheet()

	var batches []FooterBatch
	for first := 1; first <= pages; first += p.batchSize {
		last := min(first+p.batchSize-1, pages)

		var body strings.Builder
		for page := first; page <= last; page++ {
			fragment, err := execute(tmpl, withVars(vars, map[string]any{
				varCurrentPage: page,
				varTotalPages:  totalPages,
			}))
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&body, `<section class="footer-sheet"><div class="footer-band">%s</div></section>`, fragment)
		}

		batches = append(batches, FooterBatch{
			BatchID:   len(batches),
			HTML:      footerDocument(css, body.String()),
			FirstPage: first,
			PageCount: last - first + 1,
		})
	}
	return batches, nil
}

// stylesheet lays every footer out as one full page whose content sits in a
// band at the bottom, so cropping that band recovers it.
func (p *FooterPlanner) stylesheet() string {
	w, h := p.page.Dimensions()
	return fmt.Sprintf(`@page { size: %[1]spt %[2]spt; margin: 0; }
html, body { margin: 0; padding: 0; }
.footer-sheet { position: relative; width: %[1]spt; height: %[2]spt; overflow: hidden; break-after: page; }
.footer-sheet:last-child { break-after: auto; }
.footer-band { position: absolute; left: 0; right: 0; bottom: 0; height: %[3]spt; box-sizing: border-box; padding: 0 %[4]spt; display: flex; align-items: center; font: 9pt "Helvetica Neue", Arial, sans-serif; color: #555; }
.statement-footer { display: flex; justify-content: space-between; width: 100%%; }
`, points(w*PointsPerInch), points(h*PointsPerInch), points(p.bandHeight), points(p.page.margin()*PointsPerInch))
}

// points formats a length with at most two decimals.
func points(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func footerDocument(css, body string) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><style>` + css +
		`</style></head><body>` + body + `</body></html>`
}

// FooterRenderCoordinator renders footer batches and splits them into one
// single-page PDF per footer page.
type FooterRenderCoordinator struct {
	renderer *RenderCoordinator
}

// Render returns one PDF per planned footer page, in page order.
// Any failure aborts the whole pass with ErrFooterRender.
func (c *FooterRenderCoordinator) Render(ctx context.Context, batches []FooterBatch) ([][]byte, error) {
	tasks := make([]RenderTask, len(batches))
	for i, b := range batches {
		tasks[i] = RenderTask{OrderID: b.BatchID, HTML: b.HTML}
	}

	rendered, err := c.renderer.Render(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFooterRender, err)
	}

	var pages [][]byte
	for i, pdf := range rendered {
		split, err := pdfops.SplitPages(pdf)
		if err != nil {
			return nil, fmt.Errorf("%w: splitting batch %d: %v", ErrFooterRender, batches[i].BatchID, err)
		}
		if len(split) != batches[i].PageCount {
			return nil, fmt.Errorf("%w: batch %d rendered %d pages, want %d",
				ErrFooterRender, batches[i].BatchID, len(split), batches[i].PageCount)
		}
		pages = append(pages, split...)
	}
	return pages, nil
}
