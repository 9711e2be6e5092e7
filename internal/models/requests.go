package models

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors surfaced as 400s at the API boundary.
var (
	ErrEmptyFilePath      = errors.New("file_path cannot be empty")
	ErrEmptyMethod        = errors.New("method cannot be empty")
	ErrWindowSizeRange    = errors.New("window_size must be between 5 and 100")
	ErrStepRange          = errors.New("step must be between 1 and 100")
	ErrThresholdNegative  = errors.New("threshold must be >= 0")
	ErrFactorRange        = errors.New("interpolation factor must be between 2 and 10")
	ErrSmoothWindowRange  = errors.New("smoothing window must be between 2 and 10")
	ErrAlphaRange         = errors.New("smoothing alpha must be between 0 and 1")
	ErrSigmaRange         = errors.New("smoothing sigma must be between 0.1 and 5")
	ErrEmptyAlgorithm     = errors.New("algorithm cannot be empty")
	ErrStreamIntervalLow  = errors.New("interval_ms must be at least 10")
	ErrStreamIntervalHigh = errors.New("interval_ms must be at most 10000")
)

// InterpolationRequest selects an interpolation kernel and frame multiplier.
// Algorithm is one of linear, cubic_spline, b_spline, univariate_spline.
type InterpolationRequest struct {
	Algorithm string `json:"algorithm"`
	Factor    int    `json:"factor"`
}

// Validate applies defaults and checks bounds. A zero Factor defaults to 2.
func (r *InterpolationRequest) Validate() error {
	if strings.TrimSpace(r.Algorithm) == "" {
		return ErrEmptyAlgorithm
	}
	if r.Factor == 0 {
		r.Factor = 2
	}
	if r.Factor < 2 || r.Factor > 10 {
		return ErrFactorRange
	}
	return nil
}

// SmoothingRequest selects a smoothing kernel and its sub-parameter.
// Algorithm is one of moving_average, exponential, gaussian; only the
// parameter belonging to the chosen algorithm is consulted.
type SmoothingRequest struct {
	Algorithm string  `json:"algorithm"`
	Window    int     `json:"window"`
	Alpha     float64 `json:"alpha"`
	Sigma     float64 `json:"sigma"`
}

// Validate applies per-algorithm defaults and checks the relevant bound.
func (r *SmoothingRequest) Validate() error {
	switch strings.TrimSpace(r.Algorithm) {
	case "":
		return ErrEmptyAlgorithm
	case "moving_average":
		if r.Window == 0 {
			r.Window = 3
		}
		if r.Window < 2 || r.Window > 10 {
			return ErrSmoothWindowRange
		}
	case "exponential":
		if r.Alpha == 0 {
			r.Alpha = 0.5
		}
		if r.Alpha < 0 || r.Alpha > 1 {
			return ErrAlphaRange
		}
	case "gaussian":
		if r.Sigma == 0 {
			r.Sigma = 1.0
		}
		if r.Sigma < 0.1 || r.Sigma > 5 {
			return ErrSigmaRange
		}
	default:
		return fmt.Errorf("unknown smoothing algorithm %q", r.Algorithm)
	}
	return nil
}

// GraphRequest is the body of the graph endpoint. WindowSize zero means the
// full series (one window); Step zero means 1.
type GraphRequest struct {
	FilePath        string                `json:"file_path"`
	Method          string                `json:"method"`
	WindowSize      int                   `json:"window_size"`
	Step            int                   `json:"step"`
	FisherTransform bool                  `json:"fisher_transform"`
	Threshold       float64               `json:"threshold"`
	Interpolation   *InterpolationRequest `json:"interpolation,omitempty"`
	Smoothing       *SmoothingRequest     `json:"smoothing,omitempty"`
}

// Validate checks the boundary parameter contract. Method strings are parsed
// separately by the pipeline so unknown methods report their own error.
func (r *GraphRequest) Validate() error {
	if strings.TrimSpace(r.FilePath) == "" {
		return ErrEmptyFilePath
	}
	if strings.TrimSpace(r.Method) == "" {
		return ErrEmptyMethod
	}
	if r.WindowSize != 0 && (r.WindowSize < 5 || r.WindowSize > 100) {
		return ErrWindowSizeRange
	}
	if r.Step == 0 {
		r.Step = 1
	}
	if r.Step < 1 || r.Step > 100 {
		return ErrStepRange
	}
	if r.Threshold < 0 {
		return ErrThresholdNegative
	}
	if r.Interpolation != nil {
		if err := r.Interpolation.Validate(); err != nil {
			return err
		}
	}
	if r.Smoothing != nil {
		if err := r.Smoothing.Validate(); err != nil {
			return err
		}
	}
	return nil
}
