package preprocess

import (
	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// Grayscale reduces a color bitmap to a single luminance channel using the
// ITU-R BT.601 weights (0.299 R, 0.587 G, 0.114 B). Alpha is ignored.
// Applying it to an already-gray bitmap is a no-op copy, so the step is
// idempotent.
type Grayscale struct{}

func (Grayscale) Name() string { return "grayscale" }

func (Grayscale) Validate() error { return nil }

func (Grayscale) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	if bm.Channels == bitmap.ChannelsGray {
		return bm.Clone(), nil
	}

	out, err := bitmap.New(bm.Width, bm.Height, bitmap.ChannelsGray)
	if err != nil {
		return nil, err
	}
	n := bm.Width * bm.Height
	for i := 0; i < n; i++ {
		off := i * bm.Channels
		r := uint32(bm.Samples[off])
		g := uint32(bm.Samples[off+1])
		b := uint32(bm.Samples[off+2])
		// Fixed-point BT.601 luma, rounded.
		out.Samples[i] = uint8((299*r + 587*g + 114*b + 500) / 1000)
	}
	return out, nil
}

// Invert flips every sample (255 - v), turning light-on-dark text into the
// dark-on-light form OCR engines prefer. Works on any channel layout; on
// four-channel bitmaps the alpha channel is left untouched.
type Invert struct{}

func (Invert) Name() string { return "invert" }

func (Invert) Validate() error { return nil }

func (Invert) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	out := bm.Clone()
	if bm.Channels == bitmap.ChannelsRGBA {
		for i := 0; i < len(out.Samples); i += 4 {
			out.Samples[i] = 255 - out.Samples[i]
			out.Samples[i+1] = 255 - out.Samples[i+1]
			out.Samples[i+2] = 255 - out.Samples[i+2]
		}
		return out, nil
	}
	for i, v := range out.Samples {
		out.Samples[i] = 255 - v
	}
	return out, nil
}
