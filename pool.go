package statementpdf

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// MinPoolSize ensures at least one browser is available.
const MinPoolSize = 1

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("browser pool closed")

// BrowserPool manages a pool of renderers, each with its own browser.
// Renderers are created lazily on first acquire to avoid startup delay.
type BrowserPool struct {
	size        int
	newRenderer func() pdfRenderer
	renderers   []pdfRenderer
	sem         chan pdfRenderer
	mu          sync.Mutex
	created     int
	closed      bool
}

// NewBrowserPool creates a pool with capacity for n renderers built by factory.
func NewBrowserPool(n int, factory func() pdfRenderer) *BrowserPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &BrowserPool{
		size:        n,
		newRenderer: factory,
		renderers:   make([]pdfRenderer, 0, n),
		sem:         make(chan pdfRenderer, n),
	}
}

// Acquire gets a renderer from the pool, creating one if capacity remains.
// Blocks until a renderer is released or ctx is done.
func (p *BrowserPool) Acquire(ctx context.Context) (pdfRenderer, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		r := p.newRenderer()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a renderer to the pool.
// The send happens under the lock so it never races with Close.
func (p *BrowserPool) Release(r pdfRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// Never blocks: at most size renderers exist.
	p.sem <- r
}

// Close releases all browser resources.
// Returns an aggregated error if several renderers fail to close.
func (p *BrowserPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *BrowserPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the browser pool size.
// An explicit worker count wins; otherwise one browser per available CPU,
// keeping one CPU for the pipeline itself.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	// GOMAXPROCS is container-aware when the CLI runs automaxprocs.
	return max(MinPoolSize, runtime.GOMAXPROCS(0)-1)
}
