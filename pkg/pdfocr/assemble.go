// Package pdfocr assembles searchable PDFs from page images and hOCR text.
//
// Each output page carries the source image with an invisible text layer
// positioned over it, so the resulting document is searchable and the text is
// selectable while the page still looks like the original scan. The layer can
// be toggled in compatible PDF readers.
//
// Main Functions:
//
// - AssembleWithOCR: creates a PDF from images and an hOCR document
// - FromRecognition: one-page convenience over a bitmap and a recognition result
package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
	"github.com/ocrpipe/ocrpipe/pkg/hocr"
	"github.com/ocrpipe/ocrpipe/pkg/ocr"
)

// AssembleWithOCR creates a PDF from page images and their hOCR text.
// Image i backs page i of the document; there must be at least as many
// images as hOCR pages.
func AssembleWithOCR(doc *hocr.Document, imagesData [][]byte, config OCRConfig) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, fmt.Errorf("hOCR document contains no pages")
	}
	if len(imagesData) < len(doc.Pages) {
		return nil, fmt.Errorf("not enough images (%d) for hOCR pages (%d)",
			len(imagesData), len(doc.Pages))
	}
	for i, imgData := range imagesData {
		if len(imgData) == 0 {
			return nil, fmt.Errorf("image %d is empty", i+1)
		}
		if _, err := detectImageType(imgData); err != nil {
			return nil, fmt.Errorf("image %d has invalid format: %w", i+1, err)
		}
	}

	pdf := fpdf.New("P", "pt", "A4", "")

	for i, page := range doc.Pages {
		w := float64(page.BBox.Width())
		h := float64(page.BBox.Height())
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("page %d has empty bounding box", i+1)
		}

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imageName := fmt.Sprintf("img%d", i)
		imageType, err := detectImageType(imagesData[i])
		if err != nil {
			return nil, fmt.Errorf("failed to detect image type for image %d: %w", i, err)
		}
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(imagesData[i]))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

		if err := drawTextLayer(pdf, page, i+1, config); err != nil {
			return nil, fmt.Errorf("failed to draw OCR layer for page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// FromRecognition builds a one-page searchable PDF directly from a bitmap
// and its recognition result.
func FromRecognition(bm *bitmap.Bitmap, res *ocr.Result, config OCRConfig) ([]byte, error) {
	if bm == nil {
		return nil, fmt.Errorf("nil bitmap")
	}
	if res == nil {
		return nil, fmt.Errorf("nil recognition result")
	}
	png, err := bm.EncodePNG()
	if err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	doc := hocr.FromResult(res, bm.Width, bm.Height, "page_1.png")
	return AssembleWithOCR(doc, [][]byte{png}, config)
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}
