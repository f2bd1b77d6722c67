package preprocess

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of a pipeline declaration:
//
//	steps:
//	  - name: grayscale
//	  - name: threshold
//	    method: otsu
//	  - name: denoise
//	    method: median
//	    kernel: 3
//	  - name: deskew
type Config struct {
	Steps []StepSpec `yaml:"steps"`
}

// StepSpec is one declared step. Fields that a step does not use are
// ignored; fields a step does use are validated by the step itself.
// Omitted numeric fields select the step's documented default, so a zero
// max-angle means the 15 degree default, not a zero-width search.
type StepSpec struct {
	Name           string  `yaml:"name"`
	Method         string  `yaml:"method,omitempty"`
	Cutoff         *int    `yaml:"cutoff,omitempty"`
	Block          int     `yaml:"block,omitempty"`
	Offset         *int    `yaml:"offset,omitempty"`
	Kernel         int     `yaml:"kernel,omitempty"`
	Sigma          float64 `yaml:"sigma,omitempty"`
	ScaleX         float64 `yaml:"scale-x,omitempty"`
	ScaleY         float64 `yaml:"scale-y,omitempty"`
	MaxAngle       float64 `yaml:"max-angle,omitempty"`
	AngleStep      float64 `yaml:"angle-step,omitempty"`
	MinImprovement float64 `yaml:"min-improvement,omitempty"`
}

// LoadConfig reads a YAML pipeline declaration from disk and compiles it.
func LoadConfig(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig compiles a YAML pipeline declaration into validated steps.
func ParseConfig(data []byte) ([]Step, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config: %w", err)
	}
	if len(cfg.Steps) == 0 {
		return nil, fmt.Errorf("pipeline config declares no steps")
	}

	steps := make([]Step, 0, len(cfg.Steps))
	for _, spec := range cfg.Steps {
		step, err := spec.build()
		if err != nil {
			return nil, err
		}
		if err := step.Validate(); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (s StepSpec) build() (Step, error) {
	switch s.Name {
	case "grayscale":
		return Grayscale{}, nil
	case "invert":
		return Invert{}, nil
	case "threshold":
		step := Threshold{Method: ThresholdMethod(s.Method), Block: s.Block}
		if s.Method == "" {
			if s.Cutoff != nil {
				step.Method = ThresholdFixed
			} else {
				step.Method = ThresholdOtsu
			}
		}
		if s.Cutoff != nil {
			step.Cutoff = *s.Cutoff
		}
		switch step.Method {
		case ThresholdAdaptiveMean, ThresholdAdaptiveGaussian:
			if step.Block == 0 {
				step.Block = 11
			}
			step.Offset = 9
			if s.Offset != nil {
				step.Offset = *s.Offset
			}
		}
		return step, nil
	case "denoise":
		step := Denoise{Method: DenoiseMethod(s.Method), Kernel: s.Kernel}
		if s.Method == "" {
			step.Method = DenoiseMedian
		}
		if s.Kernel == 0 {
			step.Kernel = 3
		}
		return step, nil
	case "blur":
		step := Blur{Method: BlurMethod(s.Method), Kernel: s.Kernel, Sigma: s.Sigma}
		if s.Method == "" {
			step.Method = BlurGaussian
		}
		if s.Kernel == 0 {
			step.Kernel = 3
		}
		return step, nil
	case "resize":
		step := Resize{ScaleX: s.ScaleX, ScaleY: s.ScaleY}
		if step.ScaleX == 0 {
			step.ScaleX = step.ScaleY
		}
		if step.ScaleY == 0 {
			step.ScaleY = step.ScaleX
		}
		return step, nil
	case "deskew":
		return Deskew{
			MaxAngle:       s.MaxAngle,
			AngleStep:      s.AngleStep,
			MinImprovement: s.MinImprovement,
		}, nil
	default:
		return nil, &InvalidStepConfigurationError{
			Step:   s.Name,
			Reason: "unknown step name",
		}
	}
}
