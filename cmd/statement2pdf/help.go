package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: statement2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a statement data file to PDF (default)")
	fmt.Fprintln(w, "  doctor     Check the rendering environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'statement2pdf help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: statement2pdf render <data.yaml|data.json|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a report from a YAML or JSON data file. Statements carry")
	fmt.Fprintln(w, "groupedInvoices, a list of invoices each holding a transactions list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output PDF (default: data file with .pdf, \"-\" = stdout)")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report:")
	fmt.Fprintln(w, "  -t, --template <s>           Template name or inline template (default: statement)")
	fmt.Fprintln(w, "      --report-type <s>        Report type (\"statement\" = chunked pipeline)")
	fmt.Fprintln(w, "  -n, --page-numbers           Add \"Page X of Y\" to every page")
	fmt.Fprintln(w, "      --footer-template <s>    Footer template name or inline text")
	fmt.Fprintln(w, "      --chunk-size <n>         Transactions per chunk (default: 500)")
	fmt.Fprintln(w, "      --timeout <d>            Whole report timeout (e.g., 10m)")
	fmt.Fprintln(w, "      --asset-path <dir>       Custom templates/ and styles/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>          Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>        Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>             Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backend:")
	fmt.Fprintln(w, "  -b, --backend <s>            Rendering backend: local, remote")
	fmt.Fprintln(w, "      --backend-url <url>      Remote rendering service (implies --backend remote)")
	fmt.Fprintln(w, "      --footer-backend-url <u> Remote service for footer batches")
	fmt.Fprintln(w, "  -w, --workers <n>            Local browsers (0 = auto)")
	fmt.Fprintln(w, "      --browser-bin <path>     Chrome binary for the local backend")
	fmt.Fprintln(w, "      --render-timeout <d>     Per-render timeout (default: 500s)")
	fmt.Fprintln(w, "      --no-gc                  Skip garbage collection around chunk renders")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Debug logging and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  STATEMENTPDF_CONFIG, STATEMENTPDF_TIMEOUT, STATEMENTPDF_BACKEND,")
	fmt.Fprintln(w, "  STATEMENTPDF_BACKEND_URL, STATEMENTPDF_FOOTER_BACKEND_URL, STATEMENTPDF_WORKERS,")
	fmt.Fprintln(w, "  STATEMENTPDF_CHUNK_SIZE, STATEMENTPDF_PAGE_SIZE, STATEMENTPDF_ASSET_PATH,")
	fmt.Fprintln(w, "  STATEMENTPDF_LOG_LEVEL")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: statement2pdf doctor [--json] [--backend-url <url>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the temp directory and, with --backend-url,")
	fmt.Fprintln(w, "the remote rendering service.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: statement2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: statement2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
