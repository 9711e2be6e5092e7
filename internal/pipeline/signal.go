package pipeline

import (
	"errors"
	"fmt"
)

var errNoSamples = errors.New("signal matrix has no samples")

// SignalMatrix holds T timepoints of C channels plus the ordered channel
// labels. Storage is column-major so a correlation window over channel i is
// a plain sub-slice. Instances are immutable after construction and safe for
// concurrent reads.
type SignalMatrix struct {
	labels []string
	cols   [][]float64
}

// NewSignalMatrix builds a SignalMatrix from row-major samples (one row per
// timepoint). Every row must have exactly len(labels) values.
func NewSignalMatrix(rows [][]float64, labels []string) (*SignalMatrix, error) {
	if len(rows) == 0 {
		return nil, errNoSamples
	}
	c := len(labels)
	if c == 0 {
		return nil, errors.New("signal matrix needs at least one channel label")
	}
	for t, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d values, want %d", t, len(row), c)
		}
	}

	cols := make([][]float64, c)
	for i := range cols {
		col := make([]float64, len(rows))
		for t, row := range rows {
			col[t] = row[i]
		}
		cols[i] = col
	}

	lab := make([]string, c)
	copy(lab, labels)

	return &SignalMatrix{labels: lab, cols: cols}, nil
}

// Timepoints returns T.
func (m *SignalMatrix) Timepoints() int { return len(m.cols[0]) }

// Channels returns C.
func (m *SignalMatrix) Channels() int { return len(m.cols) }

// Labels returns the ordered channel labels. Callers must not modify the
// returned slice.
func (m *SignalMatrix) Labels() []string { return m.labels }

// Channel returns channel i's full time series. Callers must not modify the
// returned slice.
func (m *SignalMatrix) Channel(i int) []float64 { return m.cols[i] }

// window returns channel i's samples over rows [start, start+size).
func (m *SignalMatrix) window(i, start, size int) []float64 {
	return m.cols[i][start : start+size]
}
