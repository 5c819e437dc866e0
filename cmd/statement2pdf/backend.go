package main

import (
	statementpdf "github.com/alnah/go-statementpdf"
	"github.com/alnah/go-statementpdf/internal/config"
)

// newBackend builds the local or remote backend described by cfg.
func newBackend(cfg config.BackendConfig) (statementpdf.RenderBackend, error) {
	if cfg.Kind == config.BackendRemote {
		b, err := statementpdf.NewRemoteBackend(statementpdf.RemoteConfig{
			URL:       cfg.URL,
			Timeout:   cfg.TimeoutDuration(),
			RateLimit: cfg.RateLimit,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return statementpdf.NewRodBackend(statementpdf.RodConfig{
		Workers:    cfg.Workers,
		Timeout:    cfg.TimeoutDuration(),
		BrowserBin: cfg.BrowserBin,
	}), nil
}
