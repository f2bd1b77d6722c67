package pdfocr

import (
	"fmt"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/ocrpipe/ocrpipe/pkg/hocr"
)

// drawTextLayer draws the page's OCR text onto a named layer. Outside debug
// mode the text is rendered fully transparent so the page image stays the
// visible content.
func drawTextLayer(pdf *fpdf.Fpdf, page hocr.Page, pageNum int, config OCRConfig) error {
	layerName := config.LayerName
	if pageNum > 0 {
		layerName = fmt.Sprintf("%s (Page %d)", config.LayerName, pageNum)
	}

	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(config.Font.Name, config.Font.Style, config.Font.Size)

	if config.Debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	encodingErrors := 0
	wordCount := 0
	for _, line := range page.Lines {
		for _, word := range line.Words {
			drawWord(pdf, word, config.Font, config.Debug, &encodingErrors)
			wordCount++
		}
	}

	pdf.EndLayer()

	if wordCount > 0 && encodingErrors > wordCount/10 {
		return fmt.Errorf("character encoding issues in %d of %d words",
			encodingErrors, wordCount)
	}
	if encodingErrors > 0 {
		fmt.Fprintf(getLogger(config), "Warning: %d of %d words had encoding issues on page %d\n",
			encodingErrors, wordCount, pageNum)
	}
	return nil
}

// drawWord renders a single word onto the PDF layer, scaling the font so the
// string width matches the word's bounding box.
func drawWord(pdf *fpdf.Fpdf, word hocr.Word, font FontConfig, debug bool, encodingErrors *int) {
	x := float64(word.BBox.X1)
	y := float64(word.BBox.Y1)
	wordWidth := float64(word.BBox.Width())

	// Convert text to ISO-8859-1 to avoid PDF encoding issues
	latin1, err := charmap.ISO8859_1.NewEncoder().String(word.Text)
	if err != nil {
		*encodingErrors++
		latin1 = word.Text // fallback to raw text
	}

	strWidth := pdf.GetStringWidth(latin1)
	if strWidth > 0 {
		scale := wordWidth / strWidth
		pdf.SetFontSize(font.Size * scale)
	}

	fontSize, _ := pdf.GetFontSize()
	y += fontSize * font.AscentRatio

	pdf.Text(x, y, latin1)
	pdf.SetFontSize(font.Size)

	if debug {
		height := float64(word.BBox.Height())
		pdf.Rect(x, y-(fontSize*font.AscentRatio), wordWidth, height, "D")
	}
}

// getLogger returns the warning destination, defaulting to stderr.
func getLogger(config OCRConfig) io.Writer {
	if config.Logger == nil {
		return os.Stderr
	}
	return config.Logger
}
