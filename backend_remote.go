package statementpdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var _ RenderBackend = (*RemoteBackend)(nil)

// convertRoute is the Chromium HTML route of a Gotenberg-compatible service.
const convertRoute = "/forms/chromium/convert/html"

// maxErrorBody caps how much of a failed response is kept in RenderError.
const maxErrorBody = 512

// RemoteConfig configures the remote rendering backend.
type RemoteConfig struct {
	URL     string        // Service base URL, e.g. http://gotenberg:3000
	Timeout time.Duration // Per-request timeout (0 = 500s)

	// RateLimit caps requests per second sent to the service (0 = no limit).
	RateLimit float64

	// Client overrides the HTTP client; its Timeout is left untouched.
	Client *http.Client
}

// RemoteBackend sends HTML to a rendering service over HTTP.
// All requests share one client so connections are reused across a batch.
// Concurrency is unbounded; the service applies its own limits.
type RemoteBackend struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter // nil = unlimited
}

// NewRemoteBackend validates the service URL and builds the shared client.
func NewRemoteBackend(cfg RemoteConfig) (*RemoteBackend, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackendURL, cfg.URL)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultRenderTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConnsPerHost = 64
		client = &http.Client{Timeout: timeout, Transport: transport}
	}

	b := &RemoteBackend{
		endpoint: strings.TrimRight(cfg.URL, "/") + convertRoute,
		client:   client,
	}
	if cfg.RateLimit > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}
	return b, nil
}

// Render posts html as index.html with paper geometry form fields.
func (b *RemoteBackend) Render(ctx context.Context, html string, opts RenderOptions) ([]byte, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, &RenderError{Backend: BackendRemote, Message: "waiting for rate limiter", Err: err}
		}
	}

	body, contentType, err := buildRemoteForm(html, opts)
	if err != nil {
		return nil, &RenderError{Backend: BackendRemote, Message: "building request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, body)
	if err != nil {
		return nil, &RenderError{Backend: BackendRemote, Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if id := requestIDFrom(ctx); id != "" {
		req.Header.Set("Gotenberg-Trace", id)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &RenderError{Backend: BackendRemote, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RenderError{
			Backend: BackendRemote,
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(msg)),
		}
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RenderError{Backend: BackendRemote, Status: resp.StatusCode, Message: "reading response", Err: err}
	}
	return pdf, nil
}

// Concurrency returns 0: requests are not bounded client-side.
func (b *RemoteBackend) Concurrency() int {
	return 0
}

// Close drops idle connections.
func (b *RemoteBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// buildRemoteForm encodes the multipart form of the convert route.
func buildRemoteForm(html string, opts RenderOptions) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writeFormFile(w, "index.html", html); err != nil {
		return nil, "", err
	}
	if opts.FooterHTML != "" {
		footer := "<html><head></head><body>" + footerTemplate(opts.FooterHTML) + "</body></html>"
		if err := writeFormFile(w, "footer.html", footer); err != nil {
			return nil, "", err
		}
	}

	width, height := opts.Page.Dimensions()
	top, right, bottom, left := opts.margins()
	fields := []struct {
		name  string
		value float64
	}{
		{"paperWidth", width},
		{"paperHeight", height},
		{"marginTop", top},
		{"marginBottom", bottom},
		{"marginLeft", left},
		{"marginRight", right},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, strconv.FormatFloat(f.value, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("printBackground", "true"); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFormFile(w *multipart.Writer, name, content string) error {
	part, err := w.CreateFormFile("files", name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(part, content)
	return err
}
