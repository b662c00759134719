package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf2text/ocr"
)

type stubLayoutEngine struct {
	stubEngine
	failOn map[int]bool
}

func (e *stubLayoutEngine) RecognizeHOCR(_ context.Context, in ocr.Input) (string, error) {
	if e.failOn[in.PageIndex] {
		return "", errors.New("corrupt buffer")
	}
	return fmt.Sprintf("<div class='ocr_page' id='page_1' title='bbox 0 0 8 8; ppageno 0'>p%d</div>", in.PageIndex+1), nil
}

func TestRecognizePagesSequential(t *testing.T) {
	s := NewDirectStrategy(nil, &stubLayoutEngine{failOn: map[int]bool{1: true}}, Options{})
	fragments, pageErrs := s.recognizePages(context.Background(), blankPages(3))

	if len(fragments) != 3 || len(pageErrs) != 3 {
		t.Fatalf("expected 3 slots, got %d/%d", len(fragments), len(pageErrs))
	}
	if fragments[0].fragment == "" || fragments[2].fragment == "" {
		t.Fatalf("healthy pages must produce fragments")
	}
	if fragments[1].fragment != "" || pageErrs[1] == nil {
		t.Fatalf("failed page must yield empty fragment and an error")
	}
	if !errors.Is(pageErrs[1], ocr.ErrRecognition) {
		t.Fatalf("page error not tagged as recognition failure: %v", pageErrs[1])
	}
	if fragments[1].width != 8 || fragments[1].height != 8 {
		t.Fatalf("failed page must keep its dimensions: %+v", fragments[1])
	}
}

func TestWithEnrichedPDFRemovesArtifactOnSuccess(t *testing.T) {
	s := NewDirectStrategy(nil, &stubLayoutEngine{}, Options{})
	s.tmpDir = t.TempDir()

	var artifact string
	results, err := s.withEnrichedPDF([]byte("%PDF-1.4"), func(path string) ([]PageResult, error) {
		artifact = path
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("artifact missing while in use: %v", err)
		}
		return []PageResult{{Text: "ok"}}, nil
	})
	if err != nil || len(results) != 1 {
		t.Fatalf("withEnrichedPDF() = %v, %v", results, err)
	}
	name := filepath.Base(artifact)
	if !strings.HasPrefix(name, "pdf2text-") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("unexpected artifact name: %s", name)
	}
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Fatalf("artifact still on disk: %v", err)
	}
}

func TestWithEnrichedPDFRemovesArtifactOnError(t *testing.T) {
	s := NewDirectStrategy(nil, &stubLayoutEngine{}, Options{})
	s.tmpDir = t.TempDir()

	var artifact string
	_, err := s.withEnrichedPDF([]byte("%PDF-1.4"), func(path string) ([]PageResult, error) {
		artifact = path
		return nil, errors.New("open text layer: damaged xref")
	})
	if err == nil {
		t.Fatalf("expected the read failure to propagate")
	}
	if _, statErr := os.Stat(artifact); !os.IsNotExist(statErr) {
		t.Fatalf("artifact survived the failure: %v", statErr)
	}
	entries, readErr := os.ReadDir(s.tmpDir)
	if readErr != nil || len(entries) != 0 {
		t.Fatalf("temp dir not empty: %v, %v", entries, readErr)
	}
}

func TestRecognizePagesParallel(t *testing.T) {
	s := NewDirectStrategy(nil, &stubLayoutEngine{}, Options{Parallel: true})
	fragments, pageErrs := s.recognizePages(context.Background(), blankPages(8))

	for i, frag := range fragments {
		if pageErrs[i] != nil {
			t.Fatalf("page %d errored: %v", i+1, pageErrs[i])
		}
		if !strings.Contains(frag.fragment, fmt.Sprintf(">p%d<", i+1)) {
			t.Fatalf("page %d fragment out of position: %q", i+1, frag.fragment)
		}
	}
}
