package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// backendFlags holds rendering backend flags.
type backendFlags struct {
	kind             string
	url              string
	footerURL        string
	workers          int
	browserBin       string
	renderTimeout    string
	footerTemplate   string
	disableReclaimGC bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common      commonFlags
	output      string
	template    string
	reportType  string
	pageNumbers bool
	timeout     string
	chunkSize   int
	assetPath   string
	page        pageFlags
	backend     backendFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging and timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addBackendFlags adds rendering backend flags to a FlagSet.
func addBackendFlags(fs *flag.FlagSet, f *backendFlags) {
	fs.StringVarP(&f.kind, "backend", "b", "", "rendering backend: local, remote")
	fs.StringVar(&f.url, "backend-url", "", "remote rendering service URL (implies --backend remote)")
	fs.StringVar(&f.footerURL, "footer-backend-url", "", "remote service URL for footer batches")
	fs.IntVarP(&f.workers, "workers", "w", 0, "local browsers (0 = auto)")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome binary for the local backend")
	fs.StringVar(&f.renderTimeout, "render-timeout", "", "per-render timeout (e.g., 90s)")
	fs.StringVar(&f.footerTemplate, "footer-template", "", "footer template name or inline text")
	fs.BoolVar(&f.disableReclaimGC, "no-gc", false, "skip garbage collection around chunk renders")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (\"-\" = stdout)")
	fs.StringVarP(&f.template, "template", "t", "", "template name or inline template (default: statement)")
	fs.StringVar(&f.reportType, "report-type", "", "report type (\"statement\" = chunked pipeline)")
	fs.BoolVarP(&f.pageNumbers, "page-numbers", "n", false, "add \"Page X of Y\" to every page")
	fs.StringVar(&f.timeout, "timeout", "", "whole report timeout (e.g., 10m)")
	fs.IntVar(&f.chunkSize, "chunk-size", 0, "transactions per chunk")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addBackendFlags(fs, &f.backend)

	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
