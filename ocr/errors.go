package ocr

import (
	"errors"
	"fmt"
)

// ErrRecognition marks page-scoped engine failures. Strategies contain it per
// page instead of aborting the document.
var ErrRecognition = errors.New("text recognition failed")

// RecognitionError tags err with ErrRecognition unless it already carries the
// sentinel. A nil err stays nil.
func RecognitionError(err error) error {
	if err == nil || errors.Is(err, ErrRecognition) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRecognition, err)
}
