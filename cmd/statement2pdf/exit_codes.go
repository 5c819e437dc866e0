package main

import (
	"errors"
	"os"

	statementpdf "github.com/alnah/go-statementpdf"
	"github.com/alnah/go-statementpdf/internal/config"
)

// Exit codes for statement2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Report written
	ExitGeneral = 1 // General/unexpected error, including timeouts
	ExitUsage   = 2 // Invalid flags, config, template or data
	ExitIO      = 3 // File not found, permission denied
	ExitBackend = 4 // Rendering backend errors (Chrome or remote service)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Backend errors (exit 4)
	if errors.Is(err, statementpdf.ErrRender) ||
		errors.Is(err, statementpdf.ErrBrowserConnect) ||
		errors.Is(err, statementpdf.ErrPageCreate) ||
		errors.Is(err, statementpdf.ErrPageLoad) {
		return ExitBackend
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadData) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, statementpdf.ErrEmptyTemplate) ||
		errors.Is(err, statementpdf.ErrTemplateNotFound) ||
		errors.Is(err, statementpdf.ErrTemplateRender) ||
		errors.Is(err, statementpdf.ErrMalformedInvoices) ||
		errors.Is(err, statementpdf.ErrInvalidPageSize) ||
		errors.Is(err, statementpdf.ErrInvalidOrientation) ||
		errors.Is(err, statementpdf.ErrInvalidMargin) ||
		errors.Is(err, statementpdf.ErrInvalidLimits) ||
		errors.Is(err, statementpdf.ErrInvalidAssetPath) ||
		errors.Is(err, statementpdf.ErrInvalidBackendURL) ||
		errors.Is(err, ErrTooManyInputs) ||
		errors.Is(err, ErrInvalidData) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidChunkSize) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidLogLevel) {
		return ExitUsage
	}

	return ExitGeneral
}
