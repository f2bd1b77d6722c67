package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

func grayBitmap(t *testing.T, w, h int, fill uint8) *bitmap.Bitmap {
	t.Helper()
	bm, err := bitmap.New(w, h, bitmap.ChannelsGray)
	require.NoError(t, err)
	for i := range bm.Samples {
		bm.Samples[i] = fill
	}
	return bm
}

func colorBitmap(t *testing.T, w, h int) *bitmap.Bitmap {
	t.Helper()
	bm, err := bitmap.New(w, h, bitmap.ChannelsRGB)
	require.NoError(t, err)
	for i := range bm.Samples {
		bm.Samples[i] = uint8(i % 251)
	}
	return bm
}

func TestRunEmptyStepsReturnsEqualCopy(t *testing.T) {
	in := colorBitmap(t, 6, 4)

	out, err := Run(in)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	// Equal but not aliased.
	out.Samples[0] ^= 0xFF
	assert.False(t, in.Equal(out))
}

func TestRunValidatesConfigBeforePixelWork(t *testing.T) {
	in := colorBitmap(t, 4, 4)

	_, err := Run(in, Grayscale{}, Denoise{Method: DenoiseMedian, Kernel: -3})
	var invalid *InvalidStepConfigurationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "denoise", invalid.Step)
}

func TestRunRejectsThresholdBeforeGrayscale(t *testing.T) {
	in := colorBitmap(t, 4, 4)

	_, err := Run(in, Threshold{Method: ThresholdFixed, Cutoff: 128})
	var layout *UnsupportedChannelLayoutError
	require.ErrorAs(t, err, &layout)
	assert.Equal(t, "threshold", layout.Step)
	assert.Equal(t, bitmap.ChannelsRGB, layout.Got)
}

func TestGrayscaleIdempotent(t *testing.T) {
	in := colorBitmap(t, 8, 8)

	once, err := Run(in, Grayscale{})
	require.NoError(t, err)
	twice, err := Run(in, Grayscale{}, Grayscale{})
	require.NoError(t, err)

	assert.Equal(t, bitmap.ChannelsGray, once.Channels)
	assert.True(t, once.Equal(twice))
}

func TestGrayscaleDoesNotMutateInput(t *testing.T) {
	in := colorBitmap(t, 4, 4)
	snapshot := in.Clone()

	_, err := Run(in, Grayscale{})
	require.NoError(t, err)
	assert.True(t, in.Equal(snapshot))
}

func TestThresholdOutputsAreStrictlyBinary(t *testing.T) {
	for _, method := range []ThresholdMethod{ThresholdFixed, ThresholdOtsu, ThresholdMean} {
		in := grayBitmap(t, 16, 16, 0)
		for i := range in.Samples {
			in.Samples[i] = uint8(i % 256)
		}

		out, err := Run(in, Threshold{Method: method, Cutoff: 128})
		require.NoError(t, err, "method %s", method)
		for _, v := range out.Samples {
			assert.True(t, v == 0 || v == 255, "method %s produced sample %d", method, v)
		}
	}
}

func TestThresholdCutoffOutsideDomain(t *testing.T) {
	err := Threshold{Method: ThresholdFixed, Cutoff: 300}.Validate()
	var invalid *InvalidStepConfigurationError
	require.ErrorAs(t, err, &invalid)
}

func TestOtsuSeparatesBimodalHistogram(t *testing.T) {
	in := grayBitmap(t, 10, 10, 0)
	// Half dark ink, half light paper.
	for i := range in.Samples {
		if i%2 == 0 {
			in.Samples[i] = 30
		} else {
			in.Samples[i] = 220
		}
	}

	out, err := Run(in, Threshold{Method: ThresholdOtsu})
	require.NoError(t, err)
	for i, v := range out.Samples {
		if i%2 == 0 {
			assert.EqualValues(t, 0, v)
		} else {
			assert.EqualValues(t, 255, v)
		}
	}
}

func TestAdaptiveThresholdOutputsAreStrictlyBinary(t *testing.T) {
	for _, method := range []ThresholdMethod{ThresholdAdaptiveMean, ThresholdAdaptiveGaussian} {
		in := grayBitmap(t, 16, 16, 0)
		for i := range in.Samples {
			in.Samples[i] = uint8(i % 256)
		}

		out, err := Run(in, Threshold{Method: method, Block: 5, Offset: 9})
		require.NoError(t, err, "method %s", method)
		for _, v := range out.Samples {
			assert.True(t, v == 0 || v == 255, "method %s produced sample %d", method, v)
		}
	}
}

func TestAdaptiveThresholdToleratesUnevenIllumination(t *testing.T) {
	// Dark text on a page whose left half is shadowed. A global cutoff
	// cannot separate both halves; a local one can.
	in := grayBitmap(t, 40, 12, 0)
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			if x < in.Width/2 {
				in.Set(x, y, 0, 80) // shadowed paper
			} else {
				in.Set(x, y, 0, 220) // lit paper
			}
		}
	}
	in.Set(5, 6, 0, 40)   // text in the shadow
	in.Set(30, 6, 0, 180) // text in the light

	for _, method := range []ThresholdMethod{ThresholdAdaptiveMean, ThresholdAdaptiveGaussian} {
		out, err := Run(in, Threshold{Method: method, Block: 5, Offset: 9})
		require.NoError(t, err, "method %s", method)
		assert.EqualValues(t, 0, out.At(5, 6, 0), "method %s shadowed text", method)
		assert.EqualValues(t, 0, out.At(30, 6, 0), "method %s lit text", method)
		assert.EqualValues(t, 255, out.At(5, 2, 0), "method %s shadowed paper", method)
		assert.EqualValues(t, 255, out.At(30, 2, 0), "method %s lit paper", method)
	}
}

func TestAdaptiveThresholdBlockDomain(t *testing.T) {
	var invalid *InvalidStepConfigurationError
	require.ErrorAs(t, Threshold{Method: ThresholdAdaptiveMean, Block: 4}.Validate(), &invalid)
	require.ErrorAs(t, Threshold{Method: ThresholdAdaptiveGaussian}.Validate(), &invalid)
	assert.NoError(t, Threshold{Method: ThresholdAdaptiveMean, Block: 11, Offset: -5}.Validate())
}

func TestDenoisePreservesDimensions(t *testing.T) {
	for _, method := range []DenoiseMethod{DenoiseMedian, DenoiseOpen, DenoiseClose} {
		in := grayBitmap(t, 11, 7, 200)
		out, err := Run(in, Denoise{Method: method, Kernel: 3})
		require.NoError(t, err, "method %s", method)
		assert.Equal(t, in.Width, out.Width)
		assert.Equal(t, in.Height, out.Height)
		assert.Equal(t, in.Channels, out.Channels)
	}
}

func TestMedianRemovesIsolatedPixel(t *testing.T) {
	in := grayBitmap(t, 9, 9, 255)
	in.Set(4, 4, 0, 0) // lone speck

	out, err := Run(in, Denoise{Method: DenoiseMedian, Kernel: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 255, out.At(4, 4, 0))
}

func TestInvertIsAnInvolution(t *testing.T) {
	in := grayBitmap(t, 5, 5, 0)
	for i := range in.Samples {
		in.Samples[i] = uint8(i * 10)
	}

	out, err := Run(in, Invert{}, Invert{})
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestResizeScalesDimensions(t *testing.T) {
	in := grayBitmap(t, 10, 20, 128)

	out, err := Run(in, Resize{ScaleX: 2, ScaleY: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Width)
	assert.Equal(t, 10, out.Height)
	assert.Equal(t, bitmap.ChannelsGray, out.Channels)
}

func TestResizeKeepsColorLayout(t *testing.T) {
	in := colorBitmap(t, 8, 8)

	out, err := Run(in, Resize{ScaleX: 2, ScaleY: 2})
	require.NoError(t, err)
	assert.Equal(t, bitmap.ChannelsRGB, out.Channels)
	require.NoError(t, out.Validate())
}

func TestBlurRejectsEvenKernel(t *testing.T) {
	err := Blur{Method: BlurBox, Kernel: 4}.Validate()
	var invalid *InvalidStepConfigurationError
	require.ErrorAs(t, err, &invalid)
}

func TestBlurPreservesUniformImage(t *testing.T) {
	in := grayBitmap(t, 8, 8, 100)

	for _, method := range []BlurMethod{BlurBox, BlurGaussian} {
		out, err := Run(in, Blur{Method: method, Kernel: 3})
		require.NoError(t, err)
		for _, v := range out.Samples {
			assert.EqualValues(t, 100, v, "method %s", method)
		}
	}
}
