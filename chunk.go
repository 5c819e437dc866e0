package statementpdf

import (
	"context"

	"github.com/alnah/go-statementpdf/internal/markup"
)

// ChunkPlanner splits a statement into bounded render tasks, one per window
// of ChunkSize transactions of one invoice.
type ChunkPlanner struct {
	engine          *templateEngine
	chunkSize       int
	minifyThreshold int64
}

func newChunkPlanner(engine *templateEngine, limits Limits) *ChunkPlanner {
	return &ChunkPlanner{
		engine:          engine,
		chunkSize:       limits.ChunkSize,
		minifyThreshold: limits.MinifyThreshold,
	}
}

// Plan renders one HTML document per chunk, in document order.
// Invoices without transactions produce no task. The returned list is empty
// when there is nothing to chunk. On error no tasks are returned.
func (p *ChunkPlanner) Plan(ctx context.Context, templateName string, vars map[string]any) ([]RenderTask, error) {
	invoices, err := groupedInvoices(vars)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}

	tmpl, _, err := p.engine.load(templateName)
	if err != nil {
		return nil, err
	}
	css, err := p.engine.style()
	if err != nil {
		return nil, err
	}

	var tasks []RenderTask
	for i, inv := range invoices {
		total := len(inv.transactions)
		if total == 0 {
			continue
		}
		chunks := (total + p.chunkSize - 1) / p.chunkSize

		for start := 0; start < total; start += p.chunkSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			end := min(start+p.chunkSize, total)
			desc := ChunkDescriptor{
				Mode:          ChunkModeTransactions,
				InvoiceIndex:  i,
				CurrentChunk:  start/p.chunkSize + 1,
				SliceStart:    start + 1,
				SliceEnd:      end,
				InvoiceChunks: chunks,
				Leading:       len(tasks) == 0,
			}
			data := withVars(vars, map[string]any{
				varGroupedInvoices: []any{inv.withTransactions(inv.transactions[start:end])},
				varChunk:           desc,
			})

			body, err := execute(tmpl, data)
			if err != nil {
				return nil, err
			}
			body = markup.InjectCSS(body, css)
			if int64(len(body)) > p.minifyThreshold {
				body = markup.Minify(body)
			}
			tasks = append(tasks, RenderTask{OrderID: len(tasks), HTML: body})
		}
	}
	return tasks, nil
}
