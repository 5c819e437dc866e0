package main

import (
	"context"
	"errors"

	statementpdf "github.com/alnah/go-statementpdf"
	"github.com/alnah/go-statementpdf/internal/assets"
	"github.com/alnah/go-statementpdf/internal/config"
	"github.com/alnah/go-statementpdf/internal/hints"
)

// hintFor returns an actionable hint to append to an error message, or "".
func hintFor(err error, flags *renderFlags) string {
	var renderErr *statementpdf.RenderError
	switch {
	case errors.Is(err, statementpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.As(err, &renderErr) && renderErr.Backend == statementpdf.BackendRemote:
		return hints.ForRemoteBackend(remoteURL(flags))
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(flags.common.config))
	case errors.Is(err, statementpdf.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(assets.TemplateNames())
	case errors.Is(err, statementpdf.ErrMalformedInvoices):
		return hints.ForMalformedData()
	case errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}

// remoteURL returns the remote service URL from the flag or the environment.
// URLs set only in a config file are not known here.
func remoteURL(flags *renderFlags) string {
	if flags.backend.url != "" {
		return flags.backend.url
	}
	return loadEnvConfig().BackendURL
}
