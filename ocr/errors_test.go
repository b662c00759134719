package ocr

import (
	"errors"
	"fmt"
	"testing"
)

func TestRecognitionError(t *testing.T) {
	if got := RecognitionError(nil); got != nil {
		t.Fatalf("RecognitionError(nil) = %v", got)
	}

	cause := errors.New("corrupt buffer")
	err := RecognitionError(cause)
	if !errors.Is(err, ErrRecognition) {
		t.Fatalf("expected ErrRecognition in chain, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost from chain: %v", err)
	}
}

func TestRecognitionErrorIdempotent(t *testing.T) {
	wrapped := RecognitionError(errors.New("boom"))
	if again := RecognitionError(wrapped); again != wrapped {
		t.Fatalf("already-tagged error was rewrapped: %v", again)
	}

	// Tagging survives further wrapping by callers.
	outer := fmt.Errorf("recognize page-2: %w", wrapped)
	if RecognitionError(outer) != outer {
		t.Fatalf("sentinel not detected through outer wrap")
	}
}
