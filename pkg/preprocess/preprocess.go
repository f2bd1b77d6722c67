// Package preprocess implements the image transforms applied between loading
// and recognition: grayscale reduction, binarization, noise removal, blur,
// resizing and skew correction.
//
// Each transform is an independent, pure Step: it validates its own
// configuration, checks the channel layout of its input and produces a fresh
// Bitmap without mutating the one it was given. Run applies an ordered step
// sequence, feeding each step's output to the next.
//
// The canonical order is grayscale, threshold, denoise, deskew. Grayscale
// must precede threshold and denoise (both require a single channel), and
// denoise runs before deskew because residual noise corrupts the projection
// profile that the skew estimate is built on.
//
// Key Types:
//
// - Step: a named, configurable Bitmap transform
// - InvalidStepConfigurationError: step parameters outside their domain
// - UnsupportedChannelLayoutError: step applied to an incompatible layout
//
// Main Functions:
//
// - Run: applies an ordered sequence of steps
// - Default: the canonical grayscale + Otsu pipeline
// - LoadConfig / ParseConfig: build a pipeline from a YAML declaration
package preprocess

import (
	"fmt"

	"github.com/ocrpipe/ocrpipe/pkg/bitmap"
)

// Step is a single preprocessing transform. Implementations are stateless
// beyond their configuration and never modify their input Bitmap.
type Step interface {
	// Name identifies the step in errors and pipeline declarations.
	Name() string
	// Validate checks the step configuration without touching pixel data.
	Validate() error
	// Apply runs the transform and returns a new Bitmap.
	Apply(bm *bitmap.Bitmap) (*bitmap.Bitmap, error)
}

// InvalidStepConfigurationError reports a step parameter outside its valid
// domain, such as a negative kernel size or a threshold above 255.
type InvalidStepConfigurationError struct {
	Step   string
	Reason string
}

func (e *InvalidStepConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for step %q: %s", e.Step, e.Reason)
}

// UnsupportedChannelLayoutError reports a step applied to a bitmap whose
// channel count it cannot operate on, e.g. thresholding a color image that
// was never reduced to grayscale.
type UnsupportedChannelLayoutError struct {
	Step string
	Got  int
	Want int
}

func (e *UnsupportedChannelLayoutError) Error() string {
	return fmt.Sprintf("step %q requires %d channel(s), bitmap has %d", e.Step, e.Want, e.Got)
}

// Run applies steps in order. Configurations are validated up front so a bad
// step fails the run before any pixel work happens. An empty step sequence
// returns a copy equal to the input; no step ever aliases the Bitmap it was
// handed.
func Run(bm *bitmap.Bitmap, steps ...Step) (*bitmap.Bitmap, error) {
	if err := bm.Validate(); err != nil {
		return nil, err
	}
	for _, step := range steps {
		if err := step.Validate(); err != nil {
			return nil, err
		}
	}

	current := bm.Clone()
	for _, step := range steps {
		next, err := step.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("step %q failed: %w", step.Name(), err)
		}
		if err := next.Validate(); err != nil {
			return nil, fmt.Errorf("step %q produced an inconsistent bitmap: %w", step.Name(), err)
		}
		current = next
	}
	return current, nil
}

// Default returns the canonical pipeline used when the caller does not
// declare one: grayscale reduction followed by Otsu binarization.
func Default() []Step {
	return []Step{
		Grayscale{},
		Threshold{Method: ThresholdOtsu},
	}
}

// requireGray is the shared channel precondition for single-channel steps.
func requireGray(step string, bm *bitmap.Bitmap) error {
	if bm.Channels != bitmap.ChannelsGray {
		return &UnsupportedChannelLayoutError{Step: step, Got: bm.Channels, Want: bitmap.ChannelsGray}
	}
	return nil
}
