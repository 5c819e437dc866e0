package statementpdf

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/alnah/go-statementpdf/internal/fileutil"
	"github.com/alnah/go-statementpdf/internal/pdfops"
)

// OverlayCompositor stamps per-page footer bands onto the bottom of the
// matching pages of a document.
type OverlayCompositor struct {
	temp       *fileutil.TempSet
	bandHeight float64
	logger     *zap.Logger
}

// Compose stamps footers[i] onto page i+1. Pages without a footer are left
// as they are. It never fails: a page whose footer cannot be applied stays
// un-footered, and when the document itself cannot be processed the input
// is returned unchanged.
func (c *OverlayCompositor) Compose(main []byte, footers [][]byte) []byte {
	if len(footers) == 0 {
		return main
	}
	dims, err := pdfops.PageDims(main)
	if err != nil {
		c.logger.Warn("overlay skipped, cannot read document", zap.Error(err))
		return main
	}

	stamps := make(map[int]string, min(len(dims), len(footers)))
	for i := 0; i < len(dims) && i < len(footers); i++ {
		page := i + 1
		band, err := pdfops.CropBottomBand(footers[i], dims[i].Width, dims[i].Height, c.bandHeight)
		if err != nil {
			c.logger.Warn("footer band crop failed", zap.Int("page", page), zap.Error(err))
			continue
		}
		path, err := c.temp.WriteFile("footer", "pdf", band)
		if err != nil {
			c.logger.Warn("footer band not persisted", zap.Int("page", page), zap.Error(err))
			continue
		}
		stamps[page] = path
	}

	out, err := pdfops.Overlay(main, stamps)
	if err != nil {
		c.logger.Warn("batch overlay failed, stamping page by page", zap.Error(err))
		out = c.composeEach(main, stamps)
	}

	info, err := pdfops.Inspect(out)
	if err != nil || info.Pages != len(dims) {
		c.logger.Warn("overlay changed the document, keeping the original",
			zap.Int("pages", len(dims)), zap.Int("got", info.Pages), zap.Error(err))
		return main
	}
	if len(info.Stamped) < len(stamps) {
		c.logger.Warn("some pages left without footer",
			zap.Int("stamped", len(info.Stamped)), zap.Int("footers", len(stamps)))
	}
	return out
}

// composeEach stamps one page at a time, skipping pages that fail.
func (c *OverlayCompositor) composeEach(main []byte, stamps map[int]string) []byte {
	out := main
	for _, page := range slices.Sorted(maps.Keys(stamps)) {
		next, err := pdfops.Overlay(out, map[int]string{page: stamps[page]})
		if err != nil {
			c.logger.Warn("page overlay failed, page left without footer", zap.Int("page", page), zap.Error(err))
			continue
		}
		out = next
	}
	return out
}
