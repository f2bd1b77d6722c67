package preprocess

import (
	"fmt"
	"math"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// BlurMethod selects the smoothing filter.
type BlurMethod string

const (
	// BlurBox averages the neighborhood uniformly.
	BlurBox BlurMethod = "box"
	// BlurGaussian weights the neighborhood with a Gaussian kernel.
	BlurGaussian BlurMethod = "gaussian"
)

// Blur smooths a grayscale bitmap, softening sensor noise before
// binarization. Border samples use edge replication, same as Denoise.
type Blur struct {
	Method BlurMethod
	// Kernel is the window side length. Must be odd and at least 3.
	Kernel int
	// Sigma is the Gaussian standard deviation. Zero derives it from the
	// kernel size.
	Sigma float64
}

func (Blur) Name() string { return "blur" }

func (b Blur) Validate() error {
	if b.Kernel < 3 || b.Kernel%2 == 0 {
		return &InvalidStepConfigurationError{
			Step:   b.Name(),
			Reason: fmt.Sprintf("kernel size %d must be odd and >= 3", b.Kernel),
		}
	}
	if b.Sigma < 0 {
		return &InvalidStepConfigurationError{
			Step:   b.Name(),
			Reason: fmt.Sprintf("sigma %g must not be negative", b.Sigma),
		}
	}
	switch b.Method {
	case BlurBox, BlurGaussian:
	default:
		return &InvalidStepConfigurationError{
			Step:   b.Name(),
			Reason: fmt.Sprintf("unknown method %q", b.Method),
		}
	}
	return nil
}

func (b Blur) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	if err := requireGray(b.Name(), bm); err != nil {
		return nil, err
	}
	kernel := b.weights()
	// Separable filter: horizontal pass, then vertical.
	tmp := convolve1D(bm, kernel, true)
	return convolve1D(tmp, kernel, false), nil
}

func (b Blur) weights() []float64 {
	w := make([]float64, b.Kernel)
	if b.Method == BlurBox {
		for i := range w {
			w[i] = 1 / float64(b.Kernel)
		}
		return w
	}

	sigma := b.Sigma
	if sigma == 0 {
		sigma = 0.3*(float64(b.Kernel-1)*0.5-1) + 0.8
	}
	r := b.Kernel / 2
	var sum float64
	for i := range w {
		d := float64(i - r)
		w[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

func convolve1D(bm *bitmap.Bitmap, weights []float64, horizontal bool) *bitmap.Bitmap {
	out := bm.Clone()
	r := len(weights) / 2
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			var acc float64
			for i, w := range weights {
				d := i - r
				var v uint8
				if horizontal {
					v = bm.At(clamp(x+d, bm.Width), y, 0)
				} else {
					v = bm.At(x, clamp(y+d, bm.Height), 0)
				}
				acc += w * float64(v)
			}
			out.Set(x, y, 0, uint8(math.Round(math.Min(255, math.Max(0, acc)))))
		}
	}
	return out
}
