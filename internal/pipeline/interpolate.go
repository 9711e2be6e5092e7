package pipeline

import "fmt"

// InterpolationKernel is the closed set of kernels for temporal upsampling.
// One variant per algorithm; dispatch is an exhaustive type switch.
type InterpolationKernel interface {
	kernelID() string
}

// Linear interpolates piecewise between consecutive samples.
type Linear struct{}

// CubicSpline fits a C2 cubic spline with natural boundary conditions
// through every sample.
type CubicSpline struct{}

// BSpline fits an interpolating cubic basis spline with not-a-knot boundary
// conditions (degree reduced for very short sequences).
type BSpline struct{}

// UnivariateSpline fits the cubic curve after a light binomial pre-smoothing
// pass. Unlike the other kernels it is not guaranteed to reproduce the input
// samples exactly.
type UnivariateSpline struct{}

func (Linear) kernelID() string           { return "linear" }
func (CubicSpline) kernelID() string      { return "cubic_spline" }
func (BSpline) kernelID() string          { return "b_spline" }
func (UnivariateSpline) kernelID() string { return "univariate_spline" }

// ParseInterpolationKernel validates a wire-level algorithm name.
func ParseInterpolationKernel(s string) (InterpolationKernel, error) {
	switch s {
	case "linear":
		return Linear{}, nil
	case "cubic_spline":
		return CubicSpline{}, nil
	case "b_spline":
		return BSpline{}, nil
	case "univariate_spline":
		return UnivariateSpline{}, nil
	}
	return nil, fmt.Errorf("invalid interpolation algorithm: %s", s)
}

// Interpolate resamples a sequence of length N to (N-1)*factor + 1 frames.
// Every cell's values across frames form a 1-D signal sampled at integer
// positions; the kernel is fitted over those samples and evaluated at evenly
// spaced query points spanning [0, N-1]. Timestamps renumber from 0.
// Sequences of length 0 or 1 pass through unchanged.
func Interpolate(seq Sequence, kernel InterpolationKernel, factor int) (Sequence, error) {
	if factor < 2 || factor > 10 {
		return Sequence{}, fmt.Errorf("interpolation factor %d out of range [2,10]", factor)
	}
	n := seq.Len()
	if n <= 1 {
		return seq, nil
	}

	size := seq.Size()
	outLen := (n-1)*factor + 1
	out := make([]Matrix, outLen)
	for t := range out {
		out[t] = NewMatrix(size)
	}

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			resampled, err := resample(seq.cellSeries(i, j), kernel, factor)
			if err != nil {
				return Sequence{}, err
			}
			for t, v := range resampled {
				out[t][i][j] = v
			}
		}
	}

	return Sequence{Matrices: out, Symmetric: seq.Symmetric}, nil
}

// resample evaluates one cell series at (len(y)-1)*factor + 1 query points.
func resample(y []float64, kernel InterpolationKernel, factor int) ([]float64, error) {
	switch kernel.(type) {
	case Linear:
		return resampleLinear(y, factor), nil
	case CubicSpline:
		return evalSpline(y, solveNaturalSpline(y), factor), nil
	case BSpline:
		return resampleBSpline(y, factor), nil
	case UnivariateSpline:
		sm := binomialSmooth(y)
		return evalSpline(sm, solveNaturalSpline(sm), factor), nil
	default:
		return nil, fmt.Errorf("unsupported interpolation kernel %T", kernel)
	}
}

func resampleLinear(y []float64, factor int) []float64 {
	n := len(y)
	out := make([]float64, (n-1)*factor+1)
	for i := 0; i < n-1; i++ {
		for s := 0; s < factor; s++ {
			u := float64(s) / float64(factor)
			out[i*factor+s] = y[i] + u*(y[i+1]-y[i])
		}
	}
	out[len(out)-1] = y[n-1]
	return out
}

func resampleBSpline(y []float64, factor int) []float64 {
	switch len(y) {
	case 2:
		return resampleLinear(y, factor)
	case 3:
		return resampleQuadratic(y, factor)
	}
	return evalSpline(y, solveNotAKnotSpline(y), factor)
}

// resampleQuadratic evaluates the unique parabola through three samples.
func resampleQuadratic(y []float64, factor int) []float64 {
	out := make([]float64, 2*factor+1)
	for q := range out {
		t := float64(q) / float64(factor)
		out[q] = y[0]*(t-1)*(t-2)/2 - y[1]*t*(t-2) + y[2]*t*(t-1)/2
	}
	return out
}

// evalSpline evaluates the cubic spline given per-knot second derivatives m,
// using the uniform-spacing segment form. Query q sits at position q/factor;
// u is the offset inside segment i. The form returns exactly y[i] at u=0 and
// y[i+1] at u=1, so sample positions reproduce the input.
func evalSpline(y, m []float64, factor int) []float64 {
	n := len(y)
	out := make([]float64, (n-1)*factor+1)
	for i := 0; i < n-1; i++ {
		for s := 0; s < factor; s++ {
			u := float64(s) / float64(factor)
			v := 1 - u
			out[i*factor+s] = m[i]/6*v*v*v + m[i+1]/6*u*u*u +
				(y[i]-m[i]/6)*v + (y[i+1]-m[i+1]/6)*u
		}
	}
	out[len(out)-1] = y[n-1]
	return out
}

// solveNaturalSpline returns second derivatives for the natural cubic spline
// (zero curvature at both ends) over unit-spaced samples.
func solveNaturalSpline(y []float64) []float64 {
	n := len(y)
	m := make([]float64, n)
	if n < 3 {
		return m
	}
	rhs := make([]float64, n-2)
	for i := 1; i <= n-2; i++ {
		rhs[i-1] = 6 * (y[i+1] - 2*y[i] + y[i-1])
	}
	inner := solveUniformTridiag(rhs)
	copy(m[1:n-1], inner)
	return m
}

// solveNotAKnotSpline returns second derivatives with not-a-knot boundaries:
// the third derivative is continuous across the second and second-to-last
// knots. Requires len(y) >= 4. For unit spacing the boundary condition
// decouples m[1] and m[n-2] in closed form.
func solveNotAKnotSpline(y []float64) []float64 {
	n := len(y)
	m := make([]float64, n)

	m[1] = y[2] - 2*y[1] + y[0]
	m[n-2] = y[n-1] - 2*y[n-2] + y[n-3]

	if inner := n - 4; inner > 0 {
		rhs := make([]float64, inner)
		for i := 2; i <= n-3; i++ {
			rhs[i-2] = 6 * (y[i+1] - 2*y[i] + y[i-1])
		}
		rhs[0] -= m[1]
		rhs[inner-1] -= m[n-2]
		copy(m[2:n-2], solveUniformTridiag(rhs))
	}

	m[0] = 2*m[1] - m[2]
	m[n-1] = 2*m[n-2] - m[n-3]
	return m
}

// solveUniformTridiag solves the tridiagonal system with diagonal 4 and
// off-diagonals 1 via the Thomas algorithm. rhs is overwritten.
func solveUniformTridiag(rhs []float64) []float64 {
	n := len(rhs)
	if n == 0 {
		return nil
	}
	c := make([]float64, n)
	c[0] = 1.0 / 4.0
	rhs[0] /= 4.0
	for i := 1; i < n; i++ {
		den := 4.0 - c[i-1]
		if i < n-1 {
			c[i] = 1.0 / den
		}
		rhs[i] = (rhs[i] - rhs[i-1]) / den
	}
	for i := n - 2; i >= 0; i-- {
		rhs[i] -= c[i] * rhs[i+1]
	}
	return rhs
}

// binomialSmooth applies one [1 2 1]/4 pass to the interior, leaving the
// endpoints anchored.
func binomialSmooth(y []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	copy(out, y)
	for i := 1; i < n-1; i++ {
		out[i] = 0.25*y[i-1] + 0.5*y[i] + 0.25*y[i+1]
	}
	return out
}
