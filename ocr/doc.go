package ocr

// Package ocr defines the abstraction layer between the document pipeline and
// third-party OCR engines. The interfaces are intentionally small so engines
// can be backed by native libraries or remote APIs without leaking
// provider-specific concerns into callers.
