package statementpdf

import (
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RenderCoordinator converts render tasks concurrently and returns the PDF
// fragments in order id order, whatever the completion order.
type RenderCoordinator struct {
	backend RenderBackend
	opts    RenderOptions
	reclaim bool
	logger  *zap.Logger
}

// renderedFragment pairs a task's order id with its PDF.
type renderedFragment struct {
	orderID int
	pdf     []byte
}

// Render converts every task. The first failure cancels the remaining work
// and is returned alone; no partial result is returned.
func (c *RenderCoordinator) Render(ctx context.Context, tasks []RenderTask) ([][]byte, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if n := c.backend.Concurrency(); n > 0 {
		g.SetLimit(n)
	}

	var mu sync.Mutex
	done := make([]renderedFragment, 0, len(tasks))

	for _, task := range tasks {
		g.Go(func() error {
			if c.reclaim {
				runtime.GC()
			}
			pdf, err := c.backend.Render(gctx, task.HTML, c.opts)
			if c.reclaim {
				runtime.GC()
			}
			if err != nil {
				return err
			}
			mu.Lock()
			done = append(done, renderedFragment{orderID: task.OrderID, pdf: pdf})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(done, func(a, b renderedFragment) int {
		return a.orderID - b.orderID
	})
	out := make([][]byte, len(done))
	for i, f := range done {
		out[i] = f.pdf
	}

	c.logger.Debug("render batch done",
		zap.Int("tasks", len(tasks)),
		zap.Duration("duration", time.Since(start)))
	return out, nil
}
