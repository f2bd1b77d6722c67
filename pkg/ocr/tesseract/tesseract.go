// Package tesseract adapts a local Tesseract installation to the ocr.Engine
// interface via the gosseract bindings. Word bounding boxes and confidences
// are extracted alongside the plain text, and hOCR output is available for
// callers that need the full layout.
package tesseract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

// Config holds installation-specific settings. All fields are optional; the
// zero value relies on the Tesseract defaults of the host system.
type Config struct {
	// TessdataDir points at the trained-data directory. Empty leaves the
	// engine's own lookup (TESSDATA_PREFIX or the compiled-in default).
	TessdataDir string
	// ExePath is the tesseract binary used for orientation detection.
	// Empty means lookup on PATH.
	ExePath string
}

// DefaultConfig returns a Config that relies on the system defaults.
func DefaultConfig() Config { return Config{} }

// Engine is a Tesseract-backed ocr.Engine.
type Engine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract engine with the given installation config.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on the bitmap. The bitmap is handed to Tesseract
// as encoded PNG, so any channel layout the pipeline produces is accepted.
func (e *Engine) Recognize(ctx context.Context, bm *bitmap.Bitmap, opts ocr.Options) (*ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := bm.EncodePNG()
	if err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}

	client := e.clientFactory()
	defer client.Close()

	if err := e.configure(client, opts); err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("set image: %w", err)}
	}

	text, err := client.Text()
	if err != nil {
		return nil, &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("recognize: %w", err)}
	}

	return ocr.NewResult(e.Name(), text, extractWords(client)), nil
}

// RecognizeHOCR runs recognition and returns the engine's raw hOCR HTML.
func (e *Engine) RecognizeHOCR(ctx context.Context, bm *bitmap.Bitmap, opts ocr.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := bm.EncodePNG()
	if err != nil {
		return "", &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}

	client := e.clientFactory()
	defer client.Close()

	if err := e.configure(client, opts); err != nil {
		return "", &ocr.EngineUnavailableError{Engine: e.Name(), Err: err}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("set image: %w", err)}
	}

	html, err := client.HOCRText()
	if err != nil {
		return "", &ocr.EngineUnavailableError{Engine: e.Name(), Err: fmt.Errorf("hocr: %w", err)}
	}
	return html, nil
}

func (e *Engine) configure(client *gosseract.Client, opts ocr.Options) error {
	if e.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(opts.Languages) > 0 {
		if err := client.SetLanguage(opts.Languages...); err != nil {
			return fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	for key, value := range engineVariables(opts) {
		if err := client.SetVariable(gosseract.SettableVariable(key), value); err != nil {
			return fmt.Errorf("set variable %s: %w", key, err)
		}
	}
	return nil
}

// engineVariables flattens the option set into Tesseract variables, letting
// explicit Variables entries win over derived ones.
func engineVariables(opts ocr.Options) map[string]string {
	vars := make(map[string]string, len(opts.Variables)+1)
	if oem, ok := engineModeValue(opts.EngineMode); ok {
		vars["tessedit_ocr_engine_mode"] = strconv.Itoa(oem)
	}
	for k, v := range opts.Variables {
		vars[k] = v
	}
	return vars
}

// engineModeValue maps the portable engine mode onto Tesseract's OEM
// numbering. The default mode sets nothing.
func engineModeValue(mode ocr.EngineMode) (int, bool) {
	switch mode {
	case ocr.EngineModeLegacy:
		return 0, true
	case ocr.EngineModeNeural:
		return 1, true
	case ocr.EngineModeCombined:
		return 2, true
	default:
		return 0, false
	}
}

func extractWords(client *gosseract.Client) []ocr.Word {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	words := make([]ocr.Word, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		words = append(words, ocr.Word{
			Text: text,
			Box: ocr.Box{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			Confidence: b.Confidence / 100.0,
		})
	}
	return words
}
