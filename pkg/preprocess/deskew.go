package preprocess

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

const (
	defaultMaxSkew        = 15.0
	defaultSkewStep       = 0.5
	defaultMinImprovement = 0.05
	inkCutoff             = 128
)

// Deskew estimates the dominant skew angle of a grayscale bitmap via a
// projection profile and rotates the image to correct it, resampling with
// bilinear interpolation. The output grows as needed so no content is
// cropped; uncovered corners are filled white.
//
// The step is best-effort: when no candidate angle improves the projection
// score enough over the unrotated baseline (blank pages, ambiguous content,
// skew beyond MaxAngle), the input is returned unchanged rather than
// guessing.
type Deskew struct {
	// MaxAngle bounds the search to [-MaxAngle, +MaxAngle] degrees.
	// Zero means 15.
	MaxAngle float64
	// AngleStep is the search increment in degrees. Zero means 0.5.
	AngleStep float64
	// MinImprovement is the fraction by which the best score must beat the
	// zero-angle baseline before a rotation is trusted. Zero means 0.05.
	MinImprovement float64
}

func (Deskew) Name() string { return "deskew" }

func (d Deskew) Validate() error {
	if d.MaxAngle < 0 || d.MaxAngle > 45 {
		return &InvalidStepConfigurationError{
			Step:   d.Name(),
			Reason: fmt.Sprintf("max angle %g outside [0, 45]", d.MaxAngle),
		}
	}
	if d.AngleStep < 0 {
		return &InvalidStepConfigurationError{
			Step:   d.Name(),
			Reason: fmt.Sprintf("angle step %g must not be negative", d.AngleStep),
		}
	}
	if d.MinImprovement < 0 {
		return &InvalidStepConfigurationError{
			Step:   d.Name(),
			Reason: fmt.Sprintf("min improvement %g must not be negative", d.MinImprovement),
		}
	}
	return nil
}

func (d Deskew) Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	if err := requireGray(d.Name(), bm); err != nil {
		return nil, err
	}

	angle, ok := d.estimateSkew(bm)
	if !ok || angle == 0 {
		return bm.Clone(), nil
	}
	return rotateGray(bm, -angle)
}

// estimateSkew searches candidate angles for the one whose row projection of
// ink pixels is most concentrated. The second return value is false when the
// estimate is unreliable.
func (d Deskew) estimateSkew(bm *bitmap.Bitmap) (float64, bool) {
	maxAngle := d.MaxAngle
	if maxAngle == 0 {
		maxAngle = defaultMaxSkew
	}
	step := d.AngleStep
	if step == 0 {
		step = defaultSkewStep
	}
	minImprovement := d.MinImprovement
	if minImprovement == 0 {
		minImprovement = defaultMinImprovement
	}

	type point struct{ x, y int }
	var ink []point
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			if bm.At(x, y, 0) < inkCutoff {
				ink = append(ink, point{x, y})
			}
		}
	}
	// Too little ink for a meaningful profile.
	if len(ink) < 16 {
		return 0, false
	}

	diag := bm.Width + bm.Height
	bins := make([]int, 2*diag+1)
	score := func(deg float64) float64 {
		rad := deg * math.Pi / 180
		sin, cos := math.Sin(rad), math.Cos(rad)
		for i := range bins {
			bins[i] = 0
		}
		for _, p := range ink {
			// Row coordinate after rotating the page by -deg.
			yr := int(math.Round(float64(p.y)*cos-float64(p.x)*sin)) + diag
			bins[yr]++
		}
		var s float64
		for _, c := range bins {
			s += float64(c) * float64(c)
		}
		return s
	}

	baseline := score(0)
	best, bestScore := 0.0, baseline
	for deg := -maxAngle; deg <= maxAngle+1e-9; deg += step {
		if math.Abs(deg) < 1e-9 {
			continue
		}
		if s := score(deg); s > bestScore {
			best, bestScore = deg, s
		}
	}

	if bestScore < baseline*(1+minImprovement) {
		return 0, false
	}
	return best, true
}

// rotateGray rotates a single-channel bitmap by deg degrees around its
// center, expanding the canvas so nothing is cropped.
func rotateGray(bm *bitmap.Bitmap, deg float64) (*bitmap.Bitmap, error) {
	src, err := bm.ToImage()
	if err != nil {
		return nil, err
	}

	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	w, h := float64(bm.Width), float64(bm.Height)
	outW := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	outH := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))

	dst := image.NewGray(image.Rect(0, 0, outW, outH))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	cx, cy := w/2, h/2
	dcx, dcy := float64(outW)/2, float64(outH)/2
	m := f64.Aff3{
		cos, -sin, dcx - cos*cx + sin*cy,
		sin, cos, dcy - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, m, src, src.Bounds(), xdraw.Over, nil)

	return bitmap.FromImage(dst)
}
