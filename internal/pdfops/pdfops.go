// Package pdfops performs page-level PDF manipulation: counting, merging,
// splitting, cropping and stamping pages of one document onto another.
//
// Every operation is synchronous, local and works on in-memory documents or
// files owned by the caller. The underlying engine is pdfcpu, configured in
// relaxed validation mode because browser-produced PDFs are not always
// strictly conformant.
package pdfops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Sentinel errors for PDF operations.
var (
	ErrEmptyDocument = errors.New("empty PDF document")
	ErrNoInputs      = errors.New("no documents to merge")
	ErrPageRange     = errors.New("page out of range")
	ErrInvalidBand   = errors.New("invalid band height")
)

// stampDescription places a stamp at the bottom-left corner, unscaled and
// unrotated, so a band cropped from a same-sized page lands where it was cut.
const stampDescription = "pos:bl, off:0 0, scalefactor:1 abs, rot:0, op:1"

var disableConfigDir sync.Once

// newConfig returns a pdfcpu configuration that never touches the user's
// config directory.
func newConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages of a document.
func PageCount(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, ErrEmptyDocument
	}
	n, err := api.PageCount(bytes.NewReader(pdf), newConfig())
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// Dim is a page size in points.
type Dim struct {
	Width  float64
	Height float64
}

// PageDims returns the size of every page, in page order.
func PageDims(pdf []byte) ([]Dim, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	dims, err := api.PageDims(bytes.NewReader(pdf), newConfig())
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions: %w", err)
	}
	out := make([]Dim, len(dims))
	for i, d := range dims {
		out[i] = Dim{Width: d.Width, Height: d.Height}
	}
	return out, nil
}

// Info summarizes the pages of a document.
type Info struct {
	Pages   int
	Stamped []int // 1-based pages whose resources hold an XObject
}

// Inspect counts the pages of a document and reports which ones carry an
// XObject, the form Overlay draws stamps with.
func Inspect(pdf []byte) (Info, error) {
	if len(pdf) == 0 {
		return Info{}, ErrEmptyDocument
	}
	ctx, err := api.ReadContext(bytes.NewReader(pdf), newConfig())
	if err != nil {
		return Info{}, fmt.Errorf("reading document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Info{}, fmt.Errorf("counting pages: %w", err)
	}

	info := Info{Pages: ctx.PageCount}
	for i := 1; i <= ctx.PageCount; i++ {
		d, _, _, err := ctx.PageDict(i, false)
		if err != nil {
			return Info{}, fmt.Errorf("reading page %d: %w", i, err)
		}
		res, err := ctx.DereferenceDict(d["Resources"])
		if err != nil {
			return Info{}, fmt.Errorf("reading page %d resources: %w", i, err)
		}
		xobjects, err := ctx.DereferenceDict(res["XObject"])
		if err != nil {
			return Info{}, fmt.Errorf("reading page %d XObjects: %w", i, err)
		}
		if len(xobjects) > 0 {
			info.Stamped = append(info.Stamped, i)
		}
	}
	return info, nil
}

// MergeFiles appends the pages of every file, in order, into one document.
// Files are opened one after another and closed before returning.
func MergeFiles(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}

	files := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	readers := make([]io.ReadSeeker, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p) // #nosec G304 -- paths come from the request temp set
		if err != nil {
			return nil, fmt.Errorf("opening fragment: %w", err)
		}
		files = append(files, f)
		readers = append(readers, f)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, newConfig()); err != nil {
		return nil, fmt.Errorf("merging %d documents: %w", len(paths), err)
	}
	return out.Bytes(), nil
}

// ExtractPage returns a new single-page document holding page n (1-based).
func ExtractPage(pdf []byte, n int) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrPageRange, n)
	}
	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(pdf), &out, []string{strconv.Itoa(n)}, newConfig()); err != nil {
		return nil, fmt.Errorf("extracting page %d: %w", n, err)
	}
	return out.Bytes(), nil
}

// SplitPages returns one single-page document per page, in page order.
func SplitPages(pdf []byte) ([][]byte, error) {
	n, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	pages := make([][]byte, 0, n)
	for i := 1; i <= n; i++ {
		page, err := ExtractPage(pdf, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// CropBottomBand sets the crop box of every page to the bottom band of a
// width x height page, band points tall.
func CropBottomBand(pdf []byte, width, height, band float64) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	if band <= 0 || band > height {
		return nil, fmt.Errorf("%w: %g (page height %g)", ErrInvalidBand, band, height)
	}
	box, err := api.Box(fmt.Sprintf("[0 0 %g %g]", width, band), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("parsing crop box: %w", err)
	}
	var out bytes.Buffer
	if err := api.Crop(bytes.NewReader(pdf), &out, nil, box, newConfig()); err != nil {
		return nil, fmt.Errorf("cropping band: %w", err)
	}
	return out.Bytes(), nil
}

// Overlay stamps the first page of each stamp file onto the mapped page of
// pdf (1-based page number to file path). Stamps are drawn on top of the
// existing content. Pages missing from the map are left untouched.
func Overlay(pdf []byte, stamps map[int]string) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyDocument
	}
	if len(stamps) == 0 {
		return pdf, nil
	}

	m := make(map[int]*model.Watermark, len(stamps))
	for page, path := range stamps {
		wm, err := api.PDFWatermark(path+":1", stampDescription, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("preparing stamp for page %d: %w", page, err)
		}
		m[page] = wm
	}

	var out bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(pdf), &out, m, newConfig()); err != nil {
		return nil, fmt.Errorf("stamping %d pages: %w", len(stamps), err)
	}
	return out.Bytes(), nil
}
