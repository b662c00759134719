// Package pipeline turns a PDF document into plain text. Two strategies are
// available: ImageStrategy rasterizes and OCRs each page image directly,
// DirectStrategy embeds a searchable text layer into a copy of the PDF and
// extracts the embedded text per page. Both feed per-page outcomes into a
// single best-effort aggregation.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"strings"

	"pdf2text/observability"
)

// Strategy extracts the full text of one PDF document.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string) (string, error)
}

// Extract runs the strategy and converts a panic escaping it into an error,
// so a fault deep in a PDF parsing library surfaces as a single error line
// instead of crashing the process.
func Extract(ctx context.Context, s Strategy, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("unexpected failure in %s strategy: %v", s.Name(), r)
		}
	}()
	return s.Extract(ctx, path)
}

// PageSource produces one image per page of a document, in document order.
type PageSource interface {
	Pages(path string) ([]image.Image, error)
}

// PageResult is the outcome of one page: either recognized text or a
// page-scoped error. Page failures never abort the document.
type PageResult struct {
	Text string
	Err  error
}

// Options configures a strategy. The zero value selects sensible defaults:
// English, 300 DPI, no preprocessing, nop logging.
type Options struct {
	// Preprocess cleans each page image before OCR (image strategy only).
	Preprocess bool
	// Languages are recognition language hints, defaulting to English.
	Languages []string
	// DPI is the effective raster density forwarded to the OCR engine.
	DPI int
	// ForceOCR re-runs OCR even when the document already carries a text
	// layer (direct strategy only).
	ForceOCR bool
	// Parallel allows the enrichment pass to recognize pages on multiple
	// workers. The core per-document flow stays sequential either way.
	Parallel bool
	// Logger receives per-page progress.
	Logger observability.Logger
}

func (o Options) normalized() Options {
	if len(o.Languages) == 0 {
		o.Languages = []string{"eng"}
	}
	if o.DPI <= 0 {
		o.DPI = 300
	}
	if o.Logger == nil {
		o.Logger = observability.NopLogger{}
	}
	return o
}

// Aggregate folds per-page results into one document text, preserving page
// order. Successful pages are joined by a blank line; a failed page
// contributes an inline error marker instead of aborting the document.
func Aggregate(pages []PageResult) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Err != nil {
			parts = append(parts, fmt.Sprintf("[ERROR] Failed to extract text: %v", p.Err))
			continue
		}
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}
