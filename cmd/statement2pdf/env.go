package main

import (
	"io"
	"os"
	"time"

	statementpdf "github.com/alnah/go-statementpdf"
	"github.com/alnah/go-statementpdf/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and backend construction.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewBackend builds a rendering backend from its configuration.
	NewBackend func(cfg config.BackendConfig) (statementpdf.RenderBackend, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		NewBackend: newBackend,
	}
}
