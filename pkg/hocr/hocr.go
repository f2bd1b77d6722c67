// Package hocr reads and writes hOCR, the HTML-based standard format for
// OCR results with positional metadata.
//
// The object model is deliberately flat (pages, lines, words), matching
// what the recognition boundary produces. Confidence values follow the hOCR
// convention of 0-100 (the x_wconf property); conversion from the engine
// model's [0, 1] scale happens in FromResult.
//
// Main Functions:
//
// - FromResult: builds an hOCR page from a recognition result
// - Generate: renders a Document as hOCR HTML
// - Parse: reads hOCR HTML back into the object model
// - ExtractText: linearizes a Document into plain text
package hocr

// Document is a whole hOCR document.
type Document struct {
	Title    string
	Language string
	// System names the producing OCR system, emitted as the ocr-system
	// meta tag.
	System string
	Pages  []Page
}

// Page is one recognized page (hOCR class ocr_page).
type Page struct {
	ID         string
	PageNumber int
	ImageName  string
	Lang       string
	BBox       BBox
	Lines      []Line
}

// Line is one text line (hOCR class ocr_line).
type Line struct {
	ID    string
	BBox  BBox
	Words []Word
}

// Word is one recognized token (hOCR class ocrx_word). Confidence is on the
// hOCR 0-100 scale.
type Word struct {
	ID         string
	Text       string
	BBox       BBox
	Confidence float64
}

// BBox is a rectangle in pixel coordinates: left, top, right, bottom.
type BBox struct {
	X1, Y1, X2, Y2 int
}

// NewBBox creates a bounding box from its corner coordinates.
func NewBBox(x1, y1, x2, y2 int) BBox {
	return BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the horizontal extent.
func (b BBox) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent.
func (b BBox) Height() int { return b.Y2 - b.Y1 }

// Union returns the smallest box containing both operands.
func (b BBox) Union(other BBox) BBox {
	out := b
	if other.X1 < out.X1 {
		out.X1 = other.X1
	}
	if other.Y1 < out.Y1 {
		out.Y1 = other.Y1
	}
	if other.X2 > out.X2 {
		out.X2 = other.X2
	}
	if other.Y2 > out.Y2 {
		out.Y2 = other.Y2
	}
	return out
}
