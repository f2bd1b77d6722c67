// Package bitmap defines the in-memory raster representation shared by the
// image loading, preprocessing and OCR stages.
//
// A Bitmap holds pixel samples as a flat, row-major byte slice with one byte
// per channel. The invariant len(Samples) == Width*Height*Channels holds for
// every Bitmap produced by this package; transforms that change dimensions
// allocate a fresh Bitmap rather than resizing in place.
//
// Key Types:
//
// - Bitmap: width, height, channel count and the sample buffer
//
// Main Functions:
//
// - New: allocates a zeroed Bitmap with a valid geometry
// - FromImage: converts a decoded image.Image into a Bitmap
// - Bitmap.ToImage / Bitmap.EncodePNG: conversions back out of the model
package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Channel counts used by the pipeline.
const (
	ChannelsGray = 1
	ChannelsRGB  = 3
	ChannelsRGBA = 4
)

// Bitmap is a raster image with 8-bit samples stored row-major,
// interleaved per channel.
type Bitmap struct {
	Width    int
	Height   int
	Channels int
	Samples  []uint8
}

// New allocates a zeroed Bitmap. It fails if the geometry is not positive or
// the channel count is not 1, 3 or 4.
func New(width, height, channels int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap dimensions must be positive, got %dx%d", width, height)
	}
	if channels != ChannelsGray && channels != ChannelsRGB && channels != ChannelsRGBA {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	return &Bitmap{
		Width:    width,
		Height:   height,
		Channels: channels,
		Samples:  make([]uint8, width*height*channels),
	}, nil
}

// Validate checks the sample-count invariant.
func (b *Bitmap) Validate() error {
	if b == nil {
		return fmt.Errorf("nil bitmap")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("bitmap dimensions must be positive, got %dx%d", b.Width, b.Height)
	}
	if b.Channels != ChannelsGray && b.Channels != ChannelsRGB && b.Channels != ChannelsRGBA {
		return fmt.Errorf("unsupported channel count %d", b.Channels)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Samples) != want {
		return fmt.Errorf("sample count %d does not match %dx%dx%d (want %d)",
			len(b.Samples), b.Width, b.Height, b.Channels, want)
	}
	return nil
}

// Clone returns a deep copy. Stages that must not alias their input operate
// on clones.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Samples:  make([]uint8, len(b.Samples)),
	}
	copy(out.Samples, b.Samples)
	return out
}

// Equal reports whether two bitmaps have identical geometry and samples.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Width == other.Width &&
		b.Height == other.Height &&
		b.Channels == other.Channels &&
		bytes.Equal(b.Samples, other.Samples)
}

// At returns the sample for channel c at (x, y). Coordinates are not bounds
// checked beyond what the slice itself enforces.
func (b *Bitmap) At(x, y, c int) uint8 {
	return b.Samples[(y*b.Width+x)*b.Channels+c]
}

// Set stores the sample for channel c at (x, y).
func (b *Bitmap) Set(x, y, c int, v uint8) {
	b.Samples[(y*b.Width+x)*b.Channels+c] = v
}

// FromImage converts a decoded image into a Bitmap. Grayscale images map to a
// single channel, images with an alpha channel to four, everything else to
// three (RGB).
func FromImage(img image.Image) (*Bitmap, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out, err := New(w, h, ChannelsGray)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			copy(out.Samples[y*w:(y+1)*w], row)
		}
		return out, nil
	case *image.NRGBA:
		out, err := New(w, h, ChannelsRGBA)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			copy(out.Samples[y*w*4:(y+1)*w*4], row)
		}
		return out, nil
	default:
		out, err := New(w, h, ChannelsRGB)
		if err != nil {
			return nil, err
		}
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				out.Samples[i] = uint8(r >> 8)
				out.Samples[i+1] = uint8(g >> 8)
				out.Samples[i+2] = uint8(bl >> 8)
				i += 3
			}
		}
		return out, nil
	}
}

// ToImage converts the Bitmap into a stdlib image. Single-channel bitmaps
// become *image.Gray, everything else *image.NRGBA.
func (b *Bitmap) ToImage() (image.Image, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	switch b.Channels {
	case ChannelsGray:
		img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
		for y := 0; y < b.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width], b.Samples[y*b.Width:(y+1)*b.Width])
		}
		return img, nil
	case ChannelsRGB:
		img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				off := (y*b.Width + x) * 3
				img.SetNRGBA(x, y, color.NRGBA{
					R: b.Samples[off],
					G: b.Samples[off+1],
					B: b.Samples[off+2],
					A: 255,
				})
			}
		}
		return img, nil
	case ChannelsRGBA:
		img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
		for y := 0; y < b.Height; y++ {
			row := b.Samples[y*b.Width*4 : (y+1)*b.Width*4]
			copy(img.Pix[y*img.Stride:y*img.Stride+b.Width*4], row)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d", b.Channels)
	}
}

// EncodePNG renders the Bitmap as PNG bytes, the interchange format used at
// the OCR engine boundary.
func (b *Bitmap) EncodePNG() ([]byte, error) {
	img, err := b.ToImage()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
