package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gardar/ocrchestra/pkg/pdfocr"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"pdf2text/observability"
	"pdf2text/ocr"
)

// DirectStrategy runs an OCR-enrichment pass over the whole document: page
// images are recognized to hOCR, a searchable text layer is embedded into a
// copy of the PDF, and the embedded text is then extracted per page. The
// intermediate enriched PDF lives in a uuid-named temp file that is removed
// on every exit path.
type DirectStrategy struct {
	source PageSource
	engine ocr.LayoutEngine
	opts   Options

	// tmpDir overrides os.TempDir for the enriched-PDF artifact.
	tmpDir string
}

func NewDirectStrategy(source PageSource, engine ocr.LayoutEngine, opts Options) *DirectStrategy {
	return &DirectStrategy{source: source, engine: engine, opts: opts.normalized()}
}

func (s *DirectStrategy) Name() string { return "direct" }

// Extract produces the document text. When the PDF already carries a text
// layer and ForceOCR is off, the enrichment pass is skipped and the existing
// layer is read directly.
func (s *DirectStrategy) Extract(ctx context.Context, path string) (string, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if !s.opts.ForceOCR && s.hasTextLayer(pdfBytes) {
		s.opts.Logger.Info("document already has a text layer, skipping OCR")
		results, err := textLayerPages(path)
		if err != nil {
			return "", err
		}
		return Aggregate(results), nil
	}

	pages, err := s.source.Pages(path)
	if err != nil {
		return "", fmt.Errorf("rasterize %s: %w", path, err)
	}

	fragments, pageErrs := s.recognizePages(ctx, pages)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	enriched, err := pdfocr.ApplyOCR(pdfBytes, []byte(stitchHOCR(fragments)), s.ocrConfig())
	if err != nil {
		return "", fmt.Errorf("apply ocr layer: %w", err)
	}

	results, err := s.withEnrichedPDF(enriched, textLayerPages)
	if err != nil {
		return "", err
	}
	// A page whose recognition failed has an empty slot in the text layer;
	// surface the original error instead.
	for i := range results {
		if i < len(pageErrs) && pageErrs[i] != nil {
			results[i] = PageResult{Err: pageErrs[i]}
		}
	}
	return Aggregate(results), nil
}

// withEnrichedPDF writes the enriched document to a uuid-named temp file,
// hands the path to fn, and removes the file on every exit path.
func (s *DirectStrategy) withEnrichedPDF(enriched []byte, fn func(path string) ([]PageResult, error)) ([]PageResult, error) {
	dir := s.tmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	tmp := filepath.Join(dir, "pdf2text-"+uuid.NewString()+".pdf")
	if err := os.WriteFile(tmp, enriched, 0o600); err != nil {
		return nil, fmt.Errorf("write enriched pdf: %w", err)
	}
	defer os.Remove(tmp)
	return fn(tmp)
}

// recognizePages runs hOCR recognition over the page images, optionally on a
// bounded worker pool. Failed pages yield an empty hOCR fragment so page
// alignment in the assembled layer is preserved.
func (s *DirectStrategy) recognizePages(ctx context.Context, pages []image.Image) ([]hocrPage, []error) {
	fragments := make([]hocrPage, len(pages))
	pageErrs := make([]error, len(pages))

	recognize := func(i int) {
		img := pages[i]
		b := img.Bounds()
		fragments[i] = hocrPage{width: b.Dx(), height: b.Dy()}
		in, err := ocr.InputFromImage(i, img,
			ocr.WithLanguages(s.opts.Languages...),
			ocr.WithDPI(s.opts.DPI),
		)
		if err != nil {
			pageErrs[i] = err
			return
		}
		s.opts.Logger.Info("extracting text from page", observability.Int("page", i+1))
		frag, err := s.engine.RecognizeHOCR(ctx, in)
		if err != nil {
			s.opts.Logger.Warn("page recognition failed",
				observability.Int("page", i+1),
				observability.Error("error", err),
			)
			pageErrs[i] = ocr.RecognitionError(err)
			return
		}
		fragments[i].fragment = frag
	}

	if s.opts.Parallel {
		var g errgroup.Group
		g.SetLimit(runtime.NumCPU())
		for i := range pages {
			g.Go(func() error {
				recognize(i)
				return nil
			})
		}
		g.Wait()
		return fragments, pageErrs
	}

	for i := range pages {
		if ctx.Err() != nil {
			break
		}
		recognize(i)
	}
	return fragments, pageErrs
}

func (s *DirectStrategy) hasTextLayer(pdfBytes []byte) bool {
	det, err := pdfocr.DetectOCR(pdfBytes, s.ocrConfig())
	if err != nil {
		return false
	}
	return det.HasOCR
}

func (s *DirectStrategy) ocrConfig() pdfocr.OCRConfig {
	return pdfocr.OCRConfig{
		Force:     s.opts.ForceOCR,
		StartPage: 1,
		Font:      pdfocr.DefaultFont,
		LayerName: "OCR Text",
	}
}

// textLayerPages reads the embedded text layer, one result per page in
// document order. Page-level read failures stay page-scoped.
func textLayerPages(path string) ([]PageResult, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text layer: %w", err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	results := make([]PageResult, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			results = append(results, PageResult{Err: fmt.Errorf("page %d has no content", i)})
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		text, err := pageText(p, fonts)
		if err != nil {
			results = append(results, PageResult{Err: fmt.Errorf("extract page %d: %w", i, err)})
			continue
		}
		results = append(results, PageResult{Text: strings.TrimSpace(text)})
	}
	return results, nil
}

// pageText reads one page of the text layer. The content-stream interpreter
// panics on some malformed operands, so the panic is converted into a
// page-scoped error here.
func pageText(p pdf.Page, fonts map[string]*pdf.Font) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return p.GetPlainText(fonts)
}
