package statementpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-statementpdf/internal/fileutil"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PointsPerInch converts page geometry between inches and PDF points.
const PointsPerInch = 72.0

// PageSettings configures PDF page dimensions.
// Main and footer renders share the same settings so footer bands line up.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Dimensions returns the paper width and height in inches, orientation applied.
// A nil receiver or an unknown size means US Letter.
func (p *PageSettings) Dimensions() (width, height float64) {
	width, height = 8.5, 11.0
	if p == nil {
		return width, height
	}
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		width, height = 8.27, 11.69
	case PageSizeLegal:
		width, height = 8.5, 14.0
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// margin returns the margin in inches, defaulting when p is nil or unset.
func (p *PageSettings) margin() float64 {
	if p == nil || p.Margin == 0 {
		return DefaultMargin
	}
	return p.Margin
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Limits holds the pipeline thresholds.
type Limits struct {
	ChunkSize             int     // Transactions per chunk
	FooterBatchSize       int     // Footer pages rendered per backend call
	FooterDowngradePages  int     // Above this page count, only page 1 gets a footer
	FooterBandHeight      float64 // Footer band height in points
	RegenerateMaxBytes    int64   // Max assembled size for page-number regeneration
	RegenerateMaxInvoices int     // Max invoice count for page-number regeneration
	MinifyThreshold       int64   // Chunk HTML size above which it is minified
}

// Default thresholds.
const (
	DefaultChunkSize             = 500
	DefaultFooterBatchSize       = 200
	DefaultFooterDowngradePages  = 500
	DefaultFooterBandHeight      = 90.0
	DefaultRegenerateMaxBytes    = 10 << 20
	DefaultRegenerateMaxInvoices = 10
	DefaultMinifyThreshold       = 10 << 20
)

// DefaultLimits returns the built-in thresholds.
func DefaultLimits() Limits {
	return Limits{
		ChunkSize:             DefaultChunkSize,
		FooterBatchSize:       DefaultFooterBatchSize,
		FooterDowngradePages:  DefaultFooterDowngradePages,
		FooterBandHeight:      DefaultFooterBandHeight,
		RegenerateMaxBytes:    DefaultRegenerateMaxBytes,
		RegenerateMaxInvoices: DefaultRegenerateMaxInvoices,
		MinifyThreshold:       DefaultMinifyThreshold,
	}
}

// WithDefaults returns a copy where every zero field takes its default value.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.ChunkSize == 0 {
		l.ChunkSize = d.ChunkSize
	}
	if l.FooterBatchSize == 0 {
		l.FooterBatchSize = d.FooterBatchSize
	}
	if l.FooterDowngradePages == 0 {
		l.FooterDowngradePages = d.FooterDowngradePages
	}
	if l.FooterBandHeight == 0 {
		l.FooterBandHeight = d.FooterBandHeight
	}
	if l.RegenerateMaxBytes == 0 {
		l.RegenerateMaxBytes = d.RegenerateMaxBytes
	}
	if l.RegenerateMaxInvoices == 0 {
		l.RegenerateMaxInvoices = d.RegenerateMaxInvoices
	}
	if l.MinifyThreshold == 0 {
		l.MinifyThreshold = d.MinifyThreshold
	}
	return l
}

// Validate checks that every threshold is positive.
func (l Limits) Validate() error {
	switch {
	case l.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size %d", ErrInvalidLimits, l.ChunkSize)
	case l.FooterBatchSize <= 0:
		return fmt.Errorf("%w: footer batch size %d", ErrInvalidLimits, l.FooterBatchSize)
	case l.FooterDowngradePages <= 0:
		return fmt.Errorf("%w: footer downgrade pages %d", ErrInvalidLimits, l.FooterDowngradePages)
	case l.FooterBandHeight <= 0:
		return fmt.Errorf("%w: footer band height %g", ErrInvalidLimits, l.FooterBandHeight)
	case l.RegenerateMaxBytes <= 0:
		return fmt.Errorf("%w: regenerate max bytes %d", ErrInvalidLimits, l.RegenerateMaxBytes)
	case l.RegenerateMaxInvoices <= 0:
		return fmt.Errorf("%w: regenerate max invoices %d", ErrInvalidLimits, l.RegenerateMaxInvoices)
	case l.MinifyThreshold <= 0:
		return fmt.Errorf("%w: minify threshold %d", ErrInvalidLimits, l.MinifyThreshold)
	}
	return nil
}

// ReportTypeStatement routes a request to the chunked pipeline.
const ReportTypeStatement = "statement"

// Request describes one report to render.
type Request struct {
	// Template is an asset name ("statement") or inline template text.
	Template string

	// Vars are the template variables. A statement carries groupedInvoices,
	// a list of invoice mappings each holding a transactions list.
	Vars map[string]any

	// GeneratePageNumber adds "Page X of Y" to every page.
	GeneratePageNumber bool

	// ReportType selects the pipeline. Empty means: a statement when the
	// template name contains "statement".
	ReportType string
}

// RenderTask is one independent unit of HTML to PDF conversion.
// Order ids are dense and zero-based within a request.
type RenderTask struct {
	OrderID int
	HTML    string
}

// Chunk modes recorded in ChunkDescriptor.Mode.
const ChunkModeTransactions = "transactions"

// ChunkDescriptor describes which invoice and which transaction rows a chunk
// covers. Templates receive it as .chunk; it is never used for control flow.
type ChunkDescriptor struct {
	Mode          string
	InvoiceIndex  int // Index in groupedInvoices
	CurrentChunk  int // 1-based chunk number within the invoice
	SliceStart    int // 1-based first transaction row
	SliceEnd      int // 1-based last transaction row, inclusive
	InvoiceChunks int // Chunks for this invoice
	Leading       bool
}

// FooterBatch is a group of contiguous footer pages rendered in one call.
type FooterBatch struct {
	BatchID   int
	HTML      string
	FirstPage int // 1-based
	PageCount int
}

// MergeContext carries what the pipeline needs to finalize a chunked report
// after raw page assembly. Created once per request.
type MergeContext struct {
	TemplateName       string
	TemplateVars       map[string]any
	TempFiles          *fileutil.TempSet
	GeneratePageNumber bool
	StartTime          time.Time
	InvoiceCount       int
	RequestID          string
}
