// Package pdftest builds small, valid PDF documents for tests.
// Documents are assembled by hand with a correct cross-reference table so
// strict parsers accept them without repair.
package pdftest

import (
	"bytes"
	"fmt"
)

// Letter page size in points.
const (
	LetterWidth  = 612
	LetterHeight = 792
)

// New returns a PDF with the given number of US Letter pages.
// Each page draws a diagonal line whose length depends on the page index,
// so pages are not byte-identical.
func New(pages int) []byte {
	return NewSized(pages, LetterWidth, LetterHeight)
}

// NewSized returns a PDF with pages of the given size in points.
func NewSized(pages int, width, height float64) []byte {
	if pages < 1 {
		pages = 1
	}

	// Object layout: 1 catalog, 2 page tree, then a page/content pair per page.
	var objects []string
	kids := new(bytes.Buffer)
	for i := 0; i < pages; i++ {
		fmt.Fprintf(kids, "%d 0 R ", 3+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", bytes.TrimSpace(kids.Bytes()), pages),
	)
	for i := 0; i < pages; i++ {
		pageObj := 3 + 2*i
		content := fmt.Sprintf("%d w 0 0 m %d %d l S", 1+i%4, 100+10*i, 100+10*i)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> /Contents %d 0 R >>",
				width, height, pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
