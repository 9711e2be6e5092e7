package pipeline

import (
	"fmt"
	"math"
)

// SmoothingKernel is the closed set of temporal smoothing filters. Each
// variant carries exactly the parameter its algorithm needs.
type SmoothingKernel interface {
	validate() error
	smoothSeries(y []float64) []float64
}

// MovingAverage replaces each frame with the mean of a centered window.
// At the boundaries the window shrinks to the samples actually present,
// so smoothed values never overshoot their neighborhood. For even window
// sizes the window leans one frame toward the past.
type MovingAverage struct {
	Window int
}

// Exponential applies the recursive filter y[t] = alpha*x[t] + (1-alpha)*y[t-1]
// seeded with y[0] = x[0]. Higher alpha tracks the raw series more closely.
type Exponential struct {
	Alpha float64
}

// Gaussian convolves each cell series with a normalized Gaussian of the
// given standard deviation, truncated at radius ceil(3*sigma). Out-of-range
// taps clamp to the nearest edge sample.
type Gaussian struct {
	Sigma float64
}

func (k MovingAverage) validate() error {
	if k.Window < 2 || k.Window > 10 {
		return fmt.Errorf("moving average window %d out of range [2,10]", k.Window)
	}
	return nil
}

func (k Exponential) validate() error {
	if k.Alpha < 0 || k.Alpha > 1 {
		return fmt.Errorf("exponential smoothing alpha %g out of range [0,1]", k.Alpha)
	}
	return nil
}

func (k Gaussian) validate() error {
	if k.Sigma < 0.1 || k.Sigma > 5 {
		return fmt.Errorf("gaussian smoothing sigma %g out of range [0.1,5]", k.Sigma)
	}
	return nil
}

// ParseSmoothingKernel builds the kernel variant for a wire-level algorithm
// name, validating the parameter that variant uses.
func ParseSmoothingKernel(algorithm string, window int, alpha, sigma float64) (SmoothingKernel, error) {
	var k SmoothingKernel
	switch algorithm {
	case "moving_average":
		k = MovingAverage{Window: window}
	case "exponential":
		k = Exponential{Alpha: alpha}
	case "gaussian":
		k = Gaussian{Sigma: sigma}
	default:
		return nil, fmt.Errorf("invalid smoothing algorithm: %s", algorithm)
	}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// Smooth filters every cell series across frames with the given kernel.
// The output has exactly as many frames as the input. Sequences shorter
// than two frames pass through unchanged.
func Smooth(seq Sequence, kernel SmoothingKernel) (Sequence, error) {
	if err := kernel.validate(); err != nil {
		return Sequence{}, err
	}
	n := seq.Len()
	if n <= 1 {
		return seq, nil
	}

	size := seq.Size()
	out := make([]Matrix, n)
	for t := range out {
		out[t] = NewMatrix(size)
	}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			smoothed := kernel.smoothSeries(seq.cellSeries(i, j))
			for t, v := range smoothed {
				out[t][i][j] = v
			}
		}
	}
	return Sequence{Matrices: out, Symmetric: seq.Symmetric}, nil
}

func (k MovingAverage) smoothSeries(y []float64) []float64 {
	n := len(y)
	w := k.Window
	if w > n {
		w = n
	}
	lo := w - 1 - (w-1)/2
	hi := (w - 1) / 2
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		start := t - lo
		if start < 0 {
			start = 0
		}
		end := t + hi
		if end > n-1 {
			end = n - 1
		}
		sum := 0.0
		for i := start; i <= end; i++ {
			sum += y[i]
		}
		out[t] = sum / float64(end-start+1)
	}
	return out
}

func (k Exponential) smoothSeries(y []float64) []float64 {
	out := make([]float64, len(y))
	out[0] = y[0]
	for t := 1; t < len(y); t++ {
		out[t] = k.Alpha*y[t] + (1-k.Alpha)*out[t-1]
	}
	return out
}

func (k Gaussian) smoothSeries(y []float64) []float64 {
	n := len(y)
	radius := int(math.Ceil(3 * k.Sigma))
	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * k.Sigma * k.Sigma))
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}

	out := make([]float64, n)
	for t := 0; t < n; t++ {
		acc := 0.0
		for i := -radius; i <= radius; i++ {
			idx := t + i
			if idx < 0 {
				idx = 0
			} else if idx > n-1 {
				idx = n - 1
			}
			acc += weights[i+radius] * y[idx]
		}
		out[t] = acc
	}
	return out
}
