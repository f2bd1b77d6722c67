// Package ocr defines the boundary between the preprocessing pipeline and
// external OCR engines.
//
// Engines are plugged in behind the small Engine interface so the external
// provider (a local Tesseract install, a cloud service, a test fake) can be
// swapped without touching callers. Engine failures of any kind (missing
// binary, bad exit status, malformed output) surface as
// *EngineUnavailableError so the boundary contract stays stable regardless
// of which engine is configured.
//
// An empty recognition is not an error: engines return a valid Result with
// Empty set, and the caller decides whether to retry with different
// preprocessing.
//
// Key Types:
//
// - Engine: the capability interface implemented by each adapter
// - Options: language, page segmentation and engine-mode hints plus timeout
// - Result: recognized text with optional per-word boxes and confidences
//
// Main Functions:
//
// - Recognize: runs an engine with the configured timeout applied
package ocr

import (
	"context"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// Engine is the OCR provider contract: one bitmap in, one result out.
// Implementations must honor ctx cancellation where their backend allows it
// and wrap provider failures in *EngineUnavailableError.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, bm *bitmap.Bitmap, opts Options) (*Result, error)
}
