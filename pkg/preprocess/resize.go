package preprocess

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// Resize scales the bitmap by independent horizontal and vertical factors
// using Catmull-Rom resampling. Upscaling small scans before recognition
// often improves engine accuracy. Works on any channel layout.
type Resize struct {
	ScaleX float64
	ScaleY float64
}

func (Resize) Name() string { return "resize" }

func (r Resize) Validate() error {
	if r.ScaleX <= 0 || r.ScaleY <= 0 {
		return &InvalidStepConfigurationError{
			Step:   r.Name(),
			Reason: fmt.Sprintf("scale factors must be positive, got %gx%g", r.ScaleX, r.ScaleY),
		}
	}
	return nil
}

func (r Resize) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	src, err := bm.ToImage()
	if err != nil {
		return nil, err
	}

	w := int(math.Max(1, math.Round(float64(bm.Width)*r.ScaleX)))
	h := int(math.Max(1, math.Round(float64(bm.Height)*r.ScaleY)))

	var dst xdraw.Image
	if bm.Channels == bitmap.ChannelsGray {
		dst = image.NewGray(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out, err := bitmap.FromImage(dst)
	if err != nil {
		return nil, err
	}
	// A three-channel input round-trips through NRGBA; restore the layout.
	if bm.Channels == bitmap.ChannelsRGB && out.Channels != bitmap.ChannelsRGB {
		out = dropAlpha(out)
	}
	return out, nil
}

func dropAlpha(bm *bitmap.Bitmap) *bitmap.Bitmap {
	out, _ := bitmap.New(bm.Width, bm.Height, bitmap.ChannelsRGB)
	n := bm.Width * bm.Height
	for i := 0; i < n; i++ {
		out.Samples[i*3] = bm.Samples[i*4]
		out.Samples[i*3+1] = bm.Samples[i*4+1]
		out.Samples[i*3+2] = bm.Samples[i*4+2]
	}
	return out
}
