package preprocess

import (
	"fmt"
	"sort"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// DenoiseMethod selects the noise-removal filter.
type DenoiseMethod string

const (
	// DenoiseMedian replaces each sample with the median of its
	// neighborhood, removing isolated salt-and-pepper pixels.
	DenoiseMedian DenoiseMethod = "median"
	// DenoiseOpen erodes then dilates, removing small bright specks
	// outside the text.
	DenoiseOpen DenoiseMethod = "open"
	// DenoiseClose dilates then erodes, filling small dark holes inside
	// strokes.
	DenoiseClose DenoiseMethod = "close"
)

// Denoise removes pixel noise from a grayscale bitmap with a square kernel.
// Dimensions never change; samples near the border are computed with edge
// replication (out-of-range coordinates clamp to the nearest edge pixel).
type Denoise struct {
	Method DenoiseMethod
	// Kernel is the filter window side length. Must be odd and at least 3.
	Kernel int
}

func (Denoise) Name() string { return "denoise" }

func (d Denoise) Validate() error {
	if d.Kernel < 3 || d.Kernel%2 == 0 {
		return &InvalidStepConfigurationError{
			Step:   d.Name(),
			Reason: fmt.Sprintf("kernel size %d must be odd and >= 3", d.Kernel),
		}
	}
	switch d.Method {
	case DenoiseMedian, DenoiseOpen, DenoiseClose:
	default:
		return &InvalidStepConfigurationError{
			Step:   d.Name(),
			Reason: fmt.Sprintf("unknown method %q", d.Method),
		}
	}
	return nil
}

func (d Denoise) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	if err := requireGray(d.Name(), bm); err != nil {
		return nil, err
	}
	switch d.Method {
	case DenoiseMedian:
		return medianFilter(bm, d.Kernel), nil
	case DenoiseOpen:
		return dilate(erode(bm, d.Kernel), d.Kernel), nil
	default: // DenoiseClose, Validate rejects everything else
		return erode(dilate(bm, d.Kernel), d.Kernel), nil
	}
}

func medianFilter(bm *bitmap.Bitmap, kernel int) *bitmap.Bitmap {
	out := bm.Clone()
	r := kernel / 2
	window := make([]uint8, 0, kernel*kernel)
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			window = window[:0]
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					window = append(window, bm.At(clamp(x+dx, bm.Width), clamp(y+dy, bm.Height), 0))
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.Set(x, y, 0, window[len(window)/2])
		}
	}
	return out
}

// erode takes the neighborhood minimum, shrinking bright regions.
func erode(bm *bitmap.Bitmap, kernel int) *bitmap.Bitmap {
	return morph(bm, kernel, func(acc, v uint8) bool { return v < acc })
}

// dilate takes the neighborhood maximum, expanding bright regions.
func dilate(bm *bitmap.Bitmap, kernel int) *bitmap.Bitmap {
	return morph(bm, kernel, func(acc, v uint8) bool { return v > acc })
}

func morph(bm *bitmap.Bitmap, kernel int, better func(acc, v uint8) bool) *bitmap.Bitmap {
	out := bm.Clone()
	r := kernel / 2
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			acc := bm.At(x, y, 0)
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					v := bm.At(clamp(x+dx, bm.Width), clamp(y+dy, bm.Height), 0)
					if better(acc, v) {
						acc = v
					}
				}
			}
			out.Set(x, y, 0, acc)
		}
	}
	return out
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}
