package pipeline

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Pearson computes the Pearson correlation coefficient of two equal-length
// series in a single pass. Degenerate input (length mismatch, fewer than two
// samples, or zero variance) yields 0 rather than NaN.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) || n < 2 {
		return 0.0
	}
	var sx, sy, sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		xi := x[i]
		yi := y[i]
		sx += xi
		sy += yi
		sxx += xi * xi
		syy += yi * yi
		sxy += xi * yi
	}
	num := float64(n)*sxy - sx*sy
	den := math.Sqrt((float64(n)*sxx - sx*sx) * (float64(n)*syy - sy*sy))
	if den == 0 {
		return 0.0
	}
	return num / den
}

// averageRanks returns 1-based fractional ranks. Tied values share the mean
// of the positions they span, matching the rank transform Spearman requires.
func averageRanks(a []float64) []float64 {
	n := len(a)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return a[idx[i]] < a[idx[j]] })

	ranks := make([]float64, n)
	for s := 0; s < n; {
		e := s + 1
		for e < n && a[idx[e]] == a[idx[s]] {
			e++
		}
		// mean of 1-based positions s+1 .. e
		avg := float64(s+e+1) / 2
		for k := s; k < e; k++ {
			ranks[idx[k]] = avg
		}
		s = e
	}
	return ranks
}

// Spearman computes the rank correlation: Pearson over average-ranked data.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0.0
	}
	return Pearson(averageRanks(x), averageRanks(y))
}

// degenerate reports whether a series has zero variance, using the same
// criterion as Pearson's denominator.
func degenerate(x []float64) bool {
	n := len(x)
	if n < 2 {
		return true
	}
	var sx, sxx float64
	for _, v := range x {
		sx += v
		sxx += v * v
	}
	return float64(n)*sxx-sx*sx == 0
}

// windowCount returns the number of fully-covered windows, zero when the
// series is shorter than one window.
func windowCount(timepoints, windowSize, step int) int {
	if timepoints < windowSize {
		return 0
	}
	return (timepoints-windowSize)/step + 1
}

// windowResult carries one window's matrix plus its degenerate-channel count.
type windowResult struct {
	matrix     Matrix
	degenerate int
}

// correlationWindow computes the matrix for the window starting at row start.
func correlationWindow(signals *SignalMatrix, method Method, start, size int) (windowResult, error) {
	c := signals.Channels()
	m := NewMatrix(c)

	series := make([][]float64, c)
	for i := 0; i < c; i++ {
		series[i] = signals.window(i, start, size)
	}

	deg := 0
	for i := 0; i < c; i++ {
		if degenerate(series[i]) {
			deg++
		}
	}

	switch method {
	case MethodPearson:
		// keep series as-is
	case MethodSpearman:
		ranked := make([][]float64, c)
		for i := 0; i < c; i++ {
			ranked[i] = averageRanks(series[i])
		}
		series = ranked
	default:
		return windowResult{}, fmt.Errorf("method %s does not compute windowed correlation", method)
	}

	for i := 0; i < c; i++ {
		m[i][i] = 1.0
		for j := i + 1; j < c; j++ {
			r := Pearson(series[i], series[j])
			m[i][j] = r
			m[j][i] = r
		}
	}
	return windowResult{matrix: m, degenerate: deg}, nil
}

// Correlate slides a window of windowSize rows across the signal in steps of
// step rows and computes one correlation matrix per position. windowSize 0
// means the full series (a single window). Workers above 1 compute windows
// concurrently; results land in timestamp order either way. The second
// return value counts zero-variance channel observations across all windows.
func Correlate(signals *SignalMatrix, method Method, windowSize, step, workers int) (Sequence, int, error) {
	t := signals.Timepoints()
	if windowSize <= 0 {
		windowSize = t
	}
	if step <= 0 {
		step = 1
	}

	n := windowCount(t, windowSize, step)
	if n <= 0 {
		return Sequence{}, 0, &InsufficientDataError{Timepoints: t, WindowSize: windowSize}
	}

	results := make([]windowResult, n)

	if workers <= 1 || n == 1 {
		for k := 0; k < n; k++ {
			res, err := correlationWindow(signals, method, k*step, windowSize)
			if err != nil {
				return Sequence{}, 0, err
			}
			results[k] = res
		}
	} else {
		if workers > n {
			workers = n
		}
		// Windows are independent; each goroutine writes only its own slots.
		jobs := make(chan int, n)
		for k := 0; k < n; k++ {
			jobs <- k
		}
		close(jobs)

		errOnce := make(chan error, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := range jobs {
					res, err := correlationWindow(signals, method, k*step, windowSize)
					if err != nil {
						select {
						case errOnce <- err:
						default:
						}
						return
					}
					results[k] = res
				}
			}()
		}
		wg.Wait()
		select {
		case err := <-errOnce:
			return Sequence{}, 0, err
		default:
		}
	}

	matrices := make([]Matrix, n)
	deg := 0
	for k, res := range results {
		matrices[k] = res.matrix
		deg += res.degenerate
	}
	return Sequence{Matrices: matrices, Symmetric: true}, deg, nil
}

// FisherZ applies the Fisher z-transform in place to every cell, clipping
// inputs to +/-0.9999 so the output stays finite. Transformed values are no
// longer bounded by [-1, 1].
func FisherZ(seq Sequence) Sequence {
	for _, m := range seq.Matrices {
		for i := range m {
			for j := range m[i] {
				r := m[i][j]
				if r > 0.9999 {
					r = 0.9999
				} else if r < -0.9999 {
					r = -0.9999
				}
				m[i][j] = 0.5 * math.Log((1+r)/(1-r))
			}
		}
	}
	return seq
}
