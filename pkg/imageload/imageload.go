// Package imageload reads image resources into the pipeline's Bitmap model.
//
// PNG, JPEG, BMP and TIFF are supported; decoding failures of any kind
// (missing file, truncated data, unknown format) surface as
// *UnreadableImageError so callers can treat every unreadable source the
// same way. The loader preserves the decoded color depth: orientation fixes
// and channel reduction are preprocessing concerns, not loading concerns.
package imageload

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "image/jpeg"
	_ "image/png"
)

// UnreadableImageError reports a source that could not be decoded into a
// Bitmap.
type UnreadableImageError struct {
	Source string
	Err    error
}

func (e *UnreadableImageError) Error() string {
	return fmt.Sprintf("unreadable image %s: %v", e.Source, e.Err)
}

func (e *UnreadableImageError) Unwrap() error { return e.Err }

// Load decodes the image file at path into a Bitmap.
func Load(path string) (*bitmap.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableImageError{Source: path, Err: err}
	}
	defer f.Close()
	return decode(f, path)
}

// LoadBytes decodes an in-memory image buffer into a Bitmap.
func LoadBytes(data []byte) (*bitmap.Bitmap, error) {
	if len(data) == 0 {
		return nil, &UnreadableImageError{Source: "(bytes)", Err: fmt.Errorf("empty input")}
	}
	return decode(bytes.NewReader(data), "(bytes)")
}

// DetectFormat reports the registered format name ("png", "jpeg", "bmp",
// "tiff") of an encoded image without decoding its pixels.
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &UnreadableImageError{Source: "(bytes)", Err: err}
	}
	return format, nil
}

func decode(r io.Reader, source string) (*bitmap.Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &UnreadableImageError{Source: source, Err: err}
	}
	bm, err := bitmap.FromImage(img)
	if err != nil {
		return nil, &UnreadableImageError{Source: source, Err: err}
	}
	return bm, nil
}
