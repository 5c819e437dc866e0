package statementpdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-statementpdf/internal/fileutil"
	"github.com/alnah/go-statementpdf/internal/process"
)

// pdfRenderer renders a local HTML file to PDF. One renderer owns one browser
// and serves one conversion at a time.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts RenderOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ RenderBackend = (*RodBackend)(nil)
	_ pdfRenderer   = (*rodRenderer)(nil)
)

// defaultRenderTimeout bounds one conversion when no deadline is set.
const defaultRenderTimeout = 500 * time.Second

// RodConfig configures the local headless Chrome backend.
type RodConfig struct {
	Workers    int           // Browsers in the pool (0 = ResolvePoolSize)
	Timeout    time.Duration // Per-conversion timeout (0 = 500s)
	BrowserBin string        // Chrome binary (empty = ROD_BROWSER_BIN or auto-download)
}

// RodBackend renders HTML with a pool of headless Chrome processes.
// Each browser handles one task at a time; the pool size bounds concurrency.
type RodBackend struct {
	pool *BrowserPool
}

// NewRodBackend creates a local backend. Browsers start lazily on first use.
func NewRodBackend(cfg RodConfig) *RodBackend {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRenderTimeout
	}
	size := ResolvePoolSize(cfg.Workers)
	return &RodBackend{
		pool: NewBrowserPool(size, func() pdfRenderer {
			return newRodRenderer(cfg.Timeout, cfg.BrowserBin)
		}),
	}
}

// Render writes html to a temporary file and prints it with a pooled browser.
func (b *RodBackend) Render(ctx context.Context, html string, opts RenderOptions) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, &RenderError{Backend: BackendLocal, Message: "writing HTML", Err: err}
	}
	defer cleanup()

	r, err := b.pool.Acquire(ctx)
	if err != nil {
		return nil, &RenderError{Backend: BackendLocal, Message: "acquiring browser", Err: err}
	}
	defer b.pool.Release(r)

	pdf, err := r.RenderFromFile(ctx, path, opts)
	if err != nil {
		return nil, &RenderError{Backend: BackendLocal, Err: err}
	}
	return pdf, nil
}

// Concurrency returns the browser pool size.
func (b *RodBackend) Concurrency() int {
	return b.pool.Size()
}

// Close shuts down every browser of the pool.
func (b *RodBackend) Close() error {
	return b.pool.Close()
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	timeout    time.Duration
	browserBin string
}

func newRodRenderer(timeout time.Duration, browserBin string) *rodRenderer {
	return &rodRenderer{timeout: timeout, browserBin: browserBin}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	bin := r.browserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	r.launcher = l
	return nil
}

// Close releases the browser and kills its process group.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		// Chrome forks renderer and GPU processes that may outlive the browser.
		_ = process.KillGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Timeout(timeout).PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("printing page: %w", err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}

	return pdfBuf, nil
}

// buildPDFOptions maps render options to Chrome's print parameters.
func buildPDFOptions(opts RenderOptions) *proto.PagePrintToPDF {
	width, height := opts.Page.Dimensions()
	top, right, bottom, left := opts.margins()

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(top),
		MarginBottom:    floatPtr(bottom),
		MarginLeft:      floatPtr(left),
		MarginRight:     floatPtr(right),
		PrintBackground: true,
	}

	if opts.FooterHTML != "" {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = footerTemplate(opts.FooterHTML)
	}

	return pdfOpts
}

func floatPtr(v float64) *float64 {
	return &v
}
