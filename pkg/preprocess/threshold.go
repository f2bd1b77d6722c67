package preprocess

import (
	"fmt"
	"math"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// ThresholdMethod selects how the binarization cutoff is chosen.
type ThresholdMethod string

const (
	// ThresholdFixed uses the configured Cutoff value directly.
	ThresholdFixed ThresholdMethod = "fixed"
	// ThresholdOtsu derives the cutoff from the histogram by maximizing
	// between-class variance.
	ThresholdOtsu ThresholdMethod = "otsu"
	// ThresholdMean uses the mean sample value as the cutoff.
	ThresholdMean ThresholdMethod = "mean"
	// ThresholdAdaptiveMean thresholds each sample against the mean of its
	// Block neighborhood minus Offset, tolerating uneven illumination.
	ThresholdAdaptiveMean ThresholdMethod = "adaptive-mean"
	// ThresholdAdaptiveGaussian is like ThresholdAdaptiveMean with a
	// Gaussian-weighted neighborhood.
	ThresholdAdaptiveGaussian ThresholdMethod = "adaptive-gaussian"
)

// Threshold binarizes a grayscale bitmap: every output sample is exactly 0 or
// 255. Samples strictly above the cutoff become 255. The global methods use
// one cutoff for the whole image; the adaptive methods compute a per-sample
// cutoff from the local neighborhood. Requires a prior Grayscale step on
// color input.
type Threshold struct {
	Method ThresholdMethod
	// Cutoff is the fixed cutoff in [0, 255]. Only read for ThresholdFixed.
	Cutoff int
	// Block is the neighborhood side length for the adaptive methods. Must
	// be odd and at least 3.
	Block int
	// Offset is subtracted from the local neighborhood value before
	// comparing; raising it pushes borderline samples to black. Only read
	// for the adaptive methods. May be negative.
	Offset int
}

func (Threshold) Name() string { return "threshold" }

func (t Threshold) Validate() error {
	switch t.Method {
	case ThresholdFixed:
		if t.Cutoff < 0 || t.Cutoff > 255 {
			return &InvalidStepConfigurationError{
				Step:   t.Name(),
				Reason: fmt.Sprintf("cutoff %d outside [0, 255]", t.Cutoff),
			}
		}
	case ThresholdOtsu, ThresholdMean:
	case ThresholdAdaptiveMean, ThresholdAdaptiveGaussian:
		if t.Block < 3 || t.Block%2 == 0 {
			return &InvalidStepConfigurationError{
				Step:   t.Name(),
				Reason: fmt.Sprintf("block size %d must be odd and >= 3", t.Block),
			}
		}
	default:
		return &InvalidStepConfigurationError{
			Step:   t.Name(),
			Reason: fmt.Sprintf("unknown method %q", t.Method),
		}
	}
	return nil
}

func (t Threshold) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	if err := requireGray(t.Name(), bm); err != nil {
		return nil, err
	}

	switch t.Method {
	case ThresholdAdaptiveMean, ThresholdAdaptiveGaussian:
		return t.applyAdaptive(bm), nil
	}

	cutoff := t.Cutoff
	switch t.Method {
	case ThresholdOtsu:
		cutoff = otsuCutoff(bm.Samples)
	case ThresholdMean:
		cutoff = meanCutoff(bm.Samples)
	}

	out := bm.Clone()
	for i, v := range out.Samples {
		if int(v) > cutoff {
			out.Samples[i] = 255
		} else {
			out.Samples[i] = 0
		}
	}
	return out, nil
}

// applyAdaptive compares each sample against the (weighted) mean of its
// Block neighborhood minus Offset. Border samples use edge replication, same
// as Denoise.
func (t Threshold) applyAdaptive(bm *bitmap.Bitmap) *bitmap.Bitmap {
	weights := adaptiveWeights(t.Method, t.Block)
	r := t.Block / 2

	out := bm.Clone()
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			var local float64
			for dy := -r; dy <= r; dy++ {
				wy := weights[dy+r]
				for dx := -r; dx <= r; dx++ {
					v := bm.At(clamp(x+dx, bm.Width), clamp(y+dy, bm.Height), 0)
					local += wy * weights[dx+r] * float64(v)
				}
			}
			if float64(bm.At(x, y, 0)) > local-float64(t.Offset) {
				out.Set(x, y, 0, 255)
			} else {
				out.Set(x, y, 0, 0)
			}
		}
	}
	return out
}

// adaptiveWeights builds the normalized 1D window applied separably on both
// axes: uniform for the mean variant, Gaussian with a sigma derived from the
// block size otherwise.
func adaptiveWeights(method ThresholdMethod, block int) []float64 {
	w := make([]float64, block)
	if method == ThresholdAdaptiveMean {
		for i := range w {
			w[i] = 1 / float64(block)
		}
		return w
	}

	sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
	r := block / 2
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

// otsuCutoff finds the threshold maximizing between-class variance.
func otsuCutoff(samples []uint8) int {
	var hist [256]int
	for _, v := range samples {
		hist[v]++
	}
	total := len(samples)

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	best, bestVar := 0, -1.0
	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = i
		}
	}
	return best
}

func meanCutoff(samples []uint8) int {
	if len(samples) == 0 {
		return 127
	}
	var sum uint64
	for _, v := range samples {
		sum += uint64(v)
	}
	return int(sum / uint64(len(samples)))
}
