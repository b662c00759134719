// Package raster renders PDF pages to in-memory images via the MuPDF
// bindings. Documents are validated with pdfcpu before any page work begins
// so unreadable files fail up front.
package raster

import (
	"errors"
	"fmt"
	"image"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pdf2text/observability"
)

// ErrDocumentOpen reports that a document could not be opened or parsed. It
// is fatal to the whole pipeline invocation.
var ErrDocumentOpen = errors.New("cannot open document")

// DefaultDPI is the raster density used when none is configured.
const DefaultDPI = 300

// Rasterizer renders PDF pages at a fixed density.
type Rasterizer struct {
	dpi float64
	log observability.Logger
}

type Option func(*Rasterizer)

// WithDPI sets the raster density in dots per inch.
func WithDPI(dpi float64) Option {
	return func(r *Rasterizer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithLogger sets the logger used for per-page progress.
func WithLogger(log observability.Logger) Option {
	return func(r *Rasterizer) {
		if log != nil {
			r.log = log
		}
	}
}

func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{dpi: DefaultDPI, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DPI returns the configured raster density.
func (r *Rasterizer) DPI() float64 { return r.dpi }

// PageCount validates the document and returns its page count. A missing or
// unparseable file yields ErrDocumentOpen.
func (r *Rasterizer) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrDocumentOpen, path, err)
	}
	return n, nil
}

// Pages renders every page of the document in order, one image per page.
func (r *Rasterizer) Pages(path string) ([]image.Image, error) {
	if _, err := r.PageCount(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentOpen, path, err)
	}
	defer doc.Close()

	pages := make([]image.Image, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		r.log.Debug("rendered page", observability.Int("page", i+1), observability.Float64("dpi", r.dpi))
		pages = append(pages, img)
	}
	return pages, nil
}
