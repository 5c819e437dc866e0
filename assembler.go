package statementpdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-statementpdf/internal/fileutil"
	"github.com/alnah/go-statementpdf/internal/pdfops"
)

// DocumentAssembler merges ordered PDF fragments into one document.
// Fragments are persisted in the request's temp set, which owns them from
// then on.
type DocumentAssembler struct {
	temp *fileutil.TempSet
}

// Assemble writes each fragment to its own file and appends their pages in
// order. Entries of fragments are released as soon as they are on disk.
func (a *DocumentAssembler) Assemble(fragments [][]byte) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: no fragments", ErrAssembly)
	}

	paths := make([]string, 0, len(fragments))
	for i := range fragments {
		path, err := a.temp.WriteFile("chunk", "pdf", fragments[i])
		if err != nil {
			return nil, fmt.Errorf("%w: persisting fragment %d: %v", ErrAssembly, i, err)
		}
		fragments[i] = nil
		paths = append(paths, path)
	}

	merged, err := pdfops.MergeFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	return merged, nil
}

// PageCounter reads the page count of an assembled document.
type PageCounter struct {
	logger *zap.Logger
}

// Count returns the number of pages, or 1 when the document cannot be read.
func (c *PageCounter) Count(pdf []byte) int {
	n, err := pdfops.PageCount(pdf)
	if err != nil || n < 1 {
		c.logger.Warn("page count failed, assuming one page", zap.Error(err), zap.Int("bytes", len(pdf)))
		return 1
	}
	return n
}
