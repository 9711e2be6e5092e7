package pipeline

// Matrix is one square correlation matrix, indexed [row][col].
type Matrix [][]float64

// NewMatrix allocates an n by n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// newFilledMatrix allocates an n by n matrix with every cell set to v.
func newFilledMatrix(n int, v float64) Matrix {
	m := make(Matrix, n)
	for i := range m {
		row := make([]float64, n)
		for j := range row {
			row[j] = v
		}
		m[i] = row
	}
	return m
}

// Size returns the matrix dimension.
func (m Matrix) Size() int { return len(m) }

// Sequence is an ordered run of same-shaped correlation matrices, one per
// window position. The index is the timestamp. Symmetric records whether
// every matrix satisfies M[i][j] == M[j][i]; interpolation and smoothing
// preserve the flag.
type Sequence struct {
	Matrices  []Matrix
	Symmetric bool
}

// Len returns the number of frames in the sequence.
func (s Sequence) Len() int { return len(s.Matrices) }

// Size returns the matrix dimension, or 0 for an empty sequence.
func (s Sequence) Size() int {
	if len(s.Matrices) == 0 {
		return 0
	}
	return s.Matrices[0].Size()
}

// cellSeries collects cell (i,j) across all frames into a 1-D series.
func (s Sequence) cellSeries(i, j int) []float64 {
	out := make([]float64, len(s.Matrices))
	for t, m := range s.Matrices {
		out[t] = m[i][j]
	}
	return out
}
