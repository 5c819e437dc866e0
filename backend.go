package statementpdf

import (
	"context"
	"fmt"
)

// RenderBackend converts one HTML document to PDF.
// Implementations must be safe for concurrent use.
type RenderBackend interface {
	// Render converts html to PDF bytes. Failures are *RenderError values.
	Render(ctx context.Context, html string, opts RenderOptions) ([]byte, error)

	// Concurrency is the number of conversions the backend runs at once.
	// Zero means unbounded.
	Concurrency() int

	// Close releases backend resources.
	Close() error
}

// Backend names reported in RenderError.Backend.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// RenderOptions tunes one conversion.
type RenderOptions struct {
	Page *PageSettings // nil = defaults

	// FooterHTML is drawn at the bottom of every page by the print engine.
	// Elements with class pageNumber and totalPages are filled per page.
	FooterHTML string

	// FullBleed removes page margins; footer bands are rendered this way so
	// their geometry matches the full page.
	FullBleed bool

	// BottomReserve is the height in points kept free of content at the
	// bottom of every page, where footer bands are stamped later.
	BottomReserve float64
}

// footerMarginExtra is added to the bottom margin when a footer is drawn.
const footerMarginExtra = 0.25

// margins returns top, right, bottom and left margins in inches.
func (o RenderOptions) margins() (top, right, bottom, left float64) {
	if o.FullBleed {
		return 0, 0, 0, 0
	}
	m := o.Page.margin()
	bottom = max(m, o.BottomReserve/PointsPerInch)
	if o.FooterHTML != "" {
		bottom += footerMarginExtra
	}
	return m, m, bottom, m
}

// footerTemplate wraps footer markup for the print engine, which renders
// footers with a tiny default font and no page styles.
func footerTemplate(inner string) string {
	return fmt.Sprintf(`<div style="font-size: 9px; font-family: Helvetica, Arial, sans-serif; color: #666; width: 100%%; text-align: center; padding: 0 0.5in;">%s</div>`, inner)
}
