package statementpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// Planning errors: nothing was rendered.
	ErrEmptyTemplate     = errors.New("template cannot be empty")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrTemplateRender    = errors.New("template rendering failed")
	ErrMalformedInvoices = errors.New("malformed grouped invoices")

	// Rendering errors.
	ErrRender         = errors.New("HTML to PDF rendering failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// ErrInvalidBackendURL rejects a remote backend URL that is not http(s).
	ErrInvalidBackendURL = errors.New("invalid backend URL")

	// Assembly errors.
	ErrAssembly = errors.New("PDF assembly failed")

	// ErrFooterRender aborts the footer pass. Pipeline.Render recovers from it
	// and returns the document without footers.
	ErrFooterRender = errors.New("footer rendering failed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Configuration errors.
	ErrInvalidLimits    = errors.New("invalid limits")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// RenderError reports a failed HTML to PDF conversion.
// It matches ErrRender with errors.Is, as well as the underlying cause.
type RenderError struct {
	Backend string // "local" or "remote"
	Status  int    // HTTP status for the remote backend, 0 otherwise
	Message string
	Err     error // underlying cause, may be nil
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s: %s backend", ErrRender, e.Backend)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrRender and the underlying cause to errors.Is and errors.As.
func (e *RenderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRender}
	}
	return []error{ErrRender, e.Err}
}
