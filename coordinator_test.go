package statementpdf

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTasks(n int) []RenderTask {
	tasks := make([]RenderTask, n)
	for i := range tasks {
		tasks[i] = RenderTask{OrderID: i, HTML: fmt.Sprintf("task-%d", i)}
	}
	return tasks
}

// ---------------------------------------------------------------------------
// TestRenderCoordinator - Ordering, fail-fast and concurrency bounds
// ---------------------------------------------------------------------------

func TestRenderCoordinator_PreservesOrder(t *testing.T) {
	t.Parallel()

	const n = 20
	backend := &fakeBackend{
		render: func(_ context.Context, html string, _ RenderOptions) ([]byte, error) {
			var i int
			fmt.Sscanf(html, "task-%d", &i)
			// Later tasks finish first.
			time.Sleep(time.Duration(n-i) * time.Millisecond)
			return []byte(html), nil
		},
	}
	c := &RenderCoordinator{backend: backend, logger: zap.NewNop()}

	tasks := newTasks(n)
	out, err := c.Render(context.Background(), tasks)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out) != n {
		t.Fatalf("Render() returned %d fragments, want %d", len(out), n)
	}
	for i, pdf := range out {
		if string(pdf) != tasks[i].HTML {
			t.Errorf("fragment %d = %q, want %q", i, pdf, tasks[i].HTML)
		}
	}
}

func TestRenderCoordinator_FailFast(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	backend := &fakeBackend{
		render: func(ctx context.Context, html string, _ RenderOptions) ([]byte, error) {
			if html == "task-3" {
				return nil, &RenderError{Backend: BackendRemote, Status: 502, Err: errBoom}
			}
			return []byte(html), nil
		},
	}
	c := &RenderCoordinator{backend: backend, logger: zap.NewNop()}

	out, err := c.Render(context.Background(), newTasks(8))
	if !errors.Is(err, errBoom) || !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want %v wrapped in %v", err, errBoom, ErrRender)
	}
	if out != nil {
		t.Errorf("Render() returned %d fragments on failure", len(out))
	}
}

func TestRenderCoordinator_RespectsConcurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	backend := &fakeBackend{
		concurrency: 2,
		render: func(_ context.Context, html string, _ RenderOptions) ([]byte, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return []byte(html), nil
		},
	}
	c := &RenderCoordinator{backend: backend, reclaim: true, logger: zap.NewNop()}

	if _, err := c.Render(context.Background(), newTasks(10)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestRenderCoordinator_PassesOptions(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 1}
	c := &RenderCoordinator{backend: backend, opts: RenderOptions{Page: page, FullBleed: true}, logger: zap.NewNop()}

	if _, err := c.Render(context.Background(), newTasks(1)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := backend.lastCall().opts
	if got.Page != page || !got.FullBleed {
		t.Errorf("backend received options %+v", got)
	}
}

func TestRenderCoordinator_Empty(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	c := &RenderCoordinator{backend: backend, logger: zap.NewNop()}
	out, err := c.Render(context.Background(), nil)
	if err != nil || out != nil {
		t.Errorf("Render(nil) = %v, %v; want nil, nil", out, err)
	}
	if backend.callCount() != 0 {
		t.Errorf("backend called %d times", backend.callCount())
	}
}
