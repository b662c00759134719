package pipeline

import (
	"context"
	"fmt"
	"image"

	"pdf2text/observability"
	"pdf2text/ocr"
	"pdf2text/preprocess"
)

// ImageStrategy rasterizes each page and runs OCR on the page image directly,
// optionally cleaning the image first. It gives fine-grained per-page control
// at the cost of losing the engine's own PDF-layer integration.
type ImageStrategy struct {
	source PageSource
	engine ocr.Engine
	opts   Options
}

// NewImageStrategy builds the image pipeline. A nil engine selects the
// process-wide default.
func NewImageStrategy(source PageSource, engine ocr.Engine, opts Options) *ImageStrategy {
	if engine == nil {
		engine = ocr.DefaultEngine()
	}
	return &ImageStrategy{source: source, engine: engine, opts: opts.normalized()}
}

func (s *ImageStrategy) Name() string { return "image" }

// Extract renders every page, OCRs each one in order, and aggregates the
// per-page outcomes. Only rasterization failures are document-fatal.
func (s *ImageStrategy) Extract(ctx context.Context, path string) (string, error) {
	pages, err := s.source.Pages(path)
	if err != nil {
		return "", fmt.Errorf("rasterize %s: %w", path, err)
	}
	results := make([]PageResult, 0, len(pages))
	for i, img := range pages {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		s.opts.Logger.Info("extracting text from page", observability.Int("page", i+1))
		results = append(results, s.extractPage(ctx, i, img))
	}
	return Aggregate(results), nil
}

func (s *ImageStrategy) extractPage(ctx context.Context, index int, img image.Image) PageResult {
	if s.opts.Preprocess {
		img = preprocess.Clean(img)
	}
	in, err := ocr.InputFromImage(index, img,
		ocr.WithLanguages(s.opts.Languages...),
		ocr.WithDPI(s.opts.DPI),
	)
	if err != nil {
		return PageResult{Err: err}
	}
	res, err := s.engine.Recognize(ctx, in)
	if err != nil {
		s.opts.Logger.Warn("page recognition failed",
			observability.Int("page", index+1),
			observability.Error("error", err),
		)
		return PageResult{Err: ocr.RecognitionError(err)}
	}
	return PageResult{Text: res.PlainText}
}
