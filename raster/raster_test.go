package raster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPagesMissingFile(t *testing.T) {
	r := New()
	_, err := r.Pages(filepath.Join(t.TempDir(), "nope.pdf"))
	if !errors.Is(err, ErrDocumentOpen) {
		t.Fatalf("expected ErrDocumentOpen, got %v", err)
	}
}

func TestPagesInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	r := New()
	if _, err := r.Pages(path); !errors.Is(err, ErrDocumentOpen) {
		t.Fatalf("expected ErrDocumentOpen, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	if got := New().DPI(); got != DefaultDPI {
		t.Fatalf("default dpi = %v", got)
	}
	if got := New(WithDPI(150)).DPI(); got != 150 {
		t.Fatalf("dpi override = %v", got)
	}
	if got := New(WithDPI(-1)).DPI(); got != DefaultDPI {
		t.Fatalf("invalid dpi should keep default, got %v", got)
	}
}
