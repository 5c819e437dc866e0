package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	statementpdf "github.com/alnah/go-statementpdf"
	"github.com/alnah/go-statementpdf/internal/config"
	"github.com/alnah/go-statementpdf/internal/pdftest"
)

// fakeBackend returns one page per render, or one page per footer sheet.
type fakeBackend struct {
	mu     sync.Mutex
	err    error
	calls  int
	closed int
}

var _ statementpdf.RenderBackend = (*fakeBackend)(nil)

func (f *fakeBackend) Render(_ context.Context, html string, _ statementpdf.RenderOptions) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return pdftest.New(max(1, strings.Count(html, `class="footer-sheet"`))), nil
}

func (f *fakeBackend) Concurrency() int { return 2 }

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeBackend) stats() (calls, closed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.closed
}

// testEnv captures output and records every backend configuration built.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	mu       sync.Mutex
	backends []config.BackendConfig
}

func newTestEnv(backend statementpdf.RenderBackend) *testEnv {
	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewBackend: func(cfg config.BackendConfig) (statementpdf.RenderBackend, error) {
			te.mu.Lock()
			defer te.mu.Unlock()
			te.backends = append(te.backends, cfg)
			return backend, nil
		},
	}
	return te
}

func (te *testEnv) builtBackends() []config.BackendConfig {
	te.mu.Lock()
	defer te.mu.Unlock()
	return append([]config.BackendConfig(nil), te.backends...)
}

// statementYAML is a statement with two invoices of three and two rows.
const statementYAML = `title: March statement
company:
  name: Acme Corp
customer:
  name: Jane Roe
groupedInvoices:
  - invoiceNumber: INV-1
    total: 37.5
    transactions:
      - {date: "2026-02-01", description: Consulting, reference: R1, amount: 12.5}
      - {date: "2026-02-02", description: Consulting, reference: R2, amount: 12.5}
      - {date: "2026-02-03", description: Consulting, reference: R3, amount: 12.5}
  - invoiceNumber: INV-2
    total: 25
    transactions:
      - {date: "2026-02-04", description: Support, reference: R4, amount: 12.5}
      - {date: "2026-02-05", description: Support, reference: R5, amount: 12.5}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
