// Package statementpdf renders large statements to PDF with running page
// numbers, within bounded memory and time.
//
// # Quick Start
//
// Create a pipeline, render a report, and close when done:
//
//	p, err := statementpdf.NewPipeline()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	pdf, err := p.Render(ctx, statementpdf.Request{
//	    Template:           statementpdf.StatementTemplate,
//	    Vars:               vars, // holds groupedInvoices
//	    GeneratePageNumber: true,
//	})
//
// # Chunked Pipeline
//
// A statement is a list of invoices (groupedInvoices), each carrying a list
// of transactions. It is rendered in stages:
//
//  1. ChunkPlanner cuts every invoice into windows of Limits.ChunkSize rows
//     and renders one HTML document per window
//  2. RenderCoordinator converts the documents concurrently and restores
//     their order
//  3. DocumentAssembler appends the pages of every fragment into one PDF
//  4. Page numbers are added by one of two strategies:
//     small documents are rendered again in one piece with print-engine page
//     fields; larger ones get a footer band rendered per page and stamped
//     onto the bottom of each page (first page only above
//     Limits.FooterDowngradePages pages)
//
// Reports that are not statements, or statements without transactions, are
// rendered as one document.
//
// # Rendering Backends
//
// RenderBackend converts HTML to PDF. RodBackend drives a pool of local
// headless Chrome processes; RemoteBackend posts to a Gotenberg-compatible
// service:
//
//	remote, err := statementpdf.NewRemoteBackend(statementpdf.RemoteConfig{
//	    URL: "http://gotenberg:3000",
//	})
//	p, err := statementpdf.NewPipeline(statementpdf.WithBackend(remote))
//
// # Templates
//
// Request.Template is an asset name (see StatementTemplate) or inline
// html/template text. Templates can use markdown, money, add and date.
// Elements with class page-info hold the page number line; {page} and
// {pages} are replaced by the current page and the page total.
//
// # Errors
//
// Planning errors (ErrTemplateNotFound, ErrTemplateRender,
// ErrMalformedInvoices), rendering errors (*RenderError, matching ErrRender)
// and merge errors (ErrAssembly) fail the report. Footer failures do not:
// the document is returned without page numbers.
package statementpdf
