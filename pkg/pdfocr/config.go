package pdfocr

import (
	"io"
)

// OCRConfig holds user options for assembling searchable PDFs.
type OCRConfig struct {
	Debug     bool      // Render the text layer visibly in red with word outlines
	LayerName string    // Base name of the OCR layer (page number is appended)
	Logger    io.Writer // Destination for warnings (nil = stderr)
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() OCRConfig {
	return OCRConfig{
		Debug:     false,
		LayerName: "OCR Text", // Formatted as "OCR Text (Page X)" in the final PDF
		Logger:    nil,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for OCR text rendering.
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont sets the default font to Helvetica which is tried and tested for the OCR layer
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}
