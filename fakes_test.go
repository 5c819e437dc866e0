package statementpdf

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-statementpdf/internal/assets"
	"github.com/alnah/go-statementpdf/internal/pdftest"
)

// fakeBackend is a RenderBackend recording its calls.
// By default it returns a real PDF with one page per footer page in the
// HTML, or a single page for any other document.
type fakeBackend struct {
	mu          sync.Mutex
	render      func(ctx context.Context, html string, opts RenderOptions) ([]byte, error)
	concurrency int
	calls       []fakeCall
	closed      int
}

type fakeCall struct {
	html string
	opts RenderOptions
}

var _ RenderBackend = (*fakeBackend)(nil)

func (f *fakeBackend) Render(ctx context.Context, html string, opts RenderOptions) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{html: html, opts: opts})
	render := f.render
	f.mu.Unlock()

	if render != nil {
		return render(ctx, html, opts)
	}
	return pdftest.New(max(1, strings.Count(html, `class="footer-sheet"`))), nil
}

func (f *fakeBackend) Concurrency() int { return f.concurrency }

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) allCalls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeBackend) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// fixedNow is the clock used by tests.
var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEngine() *templateEngine {
	return &templateEngine{
		loader: assets.NewEmbeddedLoader(),
		now:    func() time.Time { return fixedNow },
	}
}

func newTestPipeline(t *testing.T, backend RenderBackend, opts ...Option) *Pipeline {
	t.Helper()
	all := append([]Option{
		WithBackend(backend),
		WithLogger(zap.NewNop()),
		WithMemoryReclaim(false),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	p, err := NewPipeline(all...)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return p
}

// statementVars builds a statement with one invoice per entry of counts,
// holding that many transactions.
func statementVars(counts ...int) map[string]any {
	invoices := make([]any, len(counts))
	for i, n := range counts {
		txs := make([]any, n)
		for j := range txs {
			txs[j] = map[string]any{
				"date":        "2026-02-01",
				"description": "Consulting",
				"reference":   "REF",
				"amount":      12.5,
			}
		}
		invoices[i] = map[string]any{
			"invoiceNumber": i + 1,
			"transactions":  txs,
			"total":         12.5 * float64(n),
		}
	}
	return map[string]any{
		"title":           "Statement",
		"company":         map[string]any{"name": "Acme Corp"},
		"customer":        map[string]any{"name": "Jane Roe"},
		"groupedInvoices": invoices,
	}
}
