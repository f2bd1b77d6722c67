package ocr

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// PageSegMode hints the expected structural layout of text in the image.
// Values follow Tesseract's numbering; adapters for other engines map or
// ignore them.
type PageSegMode int

const (
	PSMOSDOnly PageSegMode = iota
	PSMAutoOSD
	PSMAutoOnly
	PSMAuto
	PSMSingleColumn
	PSMSingleBlockVertText
	PSMSingleBlock
	PSMSingleLine
	PSMSingleWord
	PSMCircleWord
	PSMSingleChar
	PSMSparseText
	PSMSparseTextOSD
	PSMRawLine
)

// EngineMode selects the recognition backend for engines that ship more
// than one. Adapters without the concept ignore it.
type EngineMode int

const (
	// EngineModeDefault lets the engine pick.
	EngineModeDefault EngineMode = iota
	// EngineModeLegacy forces the classic recognizer.
	EngineModeLegacy
	// EngineModeNeural forces the neural (LSTM) recognizer.
	EngineModeNeural
	// EngineModeCombined runs both where supported.
	EngineModeCombined
)

// Options configures a single recognition call.
type Options struct {
	// Languages holds ISO-639 codes in engine notation (e.g. "eng", "por").
	Languages []string
	// PageSegMode hints the page layout.
	PageSegMode PageSegMode
	// EngineMode selects legacy vs. neural recognition where supported.
	EngineMode EngineMode
	// Timeout bounds the engine invocation. Zero means no limit.
	Timeout time.Duration
	// Variables passes engine-specific knobs (e.g. Tesseract variables)
	// without hard-coding them into the API.
	Variables map[string]string
}

// DefaultOptions returns English recognition with automatic segmentation
// and a 30 second timeout.
func DefaultOptions() Options {
	return Options{
		Languages:   []string{"eng"},
		PageSegMode: PSMAuto,
		Timeout:     30 * time.Second,
	}
}

// Validate checks that every configured value is inside its domain. Language
// codes are checked for well-formedness, not for engine availability: which
// trained data is installed only the engine knows.
func (o Options) Validate() error {
	for _, code := range o.Languages {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("invalid language code %q: %w", code, err)
		}
	}
	if o.PageSegMode < PSMOSDOnly || o.PageSegMode > PSMRawLine {
		return fmt.Errorf("page segmentation mode %d outside [%d, %d]", o.PageSegMode, PSMOSDOnly, PSMRawLine)
	}
	if o.EngineMode < EngineModeDefault || o.EngineMode > EngineModeCombined {
		return fmt.Errorf("unknown engine mode %d", o.EngineMode)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", o.Timeout)
	}
	return nil
}
