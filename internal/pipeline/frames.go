package pipeline

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/brainviz/connectome-core/internal/models"
)

// BuildFrames converts each matrix in a sequence into a weighted graph
// frame. Symmetric sequences emit every unordered channel pair once,
// asymmetric sequences emit both directions. Edges whose absolute weight
// falls strictly below threshold are dropped before node degrees and
// connected-component groups are computed. Frame timestamps count from 0.
func BuildFrames(seq Sequence, labels, fullNames []string, threshold float64) ([]models.GraphFrame, error) {
	size := seq.Size()
	if len(labels) != size {
		return nil, fmt.Errorf("have %d labels for %d channels", len(labels), size)
	}
	frames := make([]models.GraphFrame, seq.Len())
	for t, m := range seq.Matrices {
		frames[t] = buildFrame(t, m, seq.Symmetric, labels, fullNames, threshold)
	}
	return frames, nil
}

func buildFrame(timestamp int, m Matrix, symmetric bool, labels, fullNames []string, threshold float64) models.GraphFrame {
	size := len(m)
	nodes := make([]models.Node, size)
	for i := range nodes {
		full := ""
		if i < len(fullNames) {
			full = fullNames[i]
		}
		nodes[i] = models.Node{ID: labels[i], Label: labels[i], FullName: full}
	}

	capacity := size * (size - 1)
	if symmetric {
		capacity /= 2
	}
	edges := make([]models.Edge, 0, capacity)
	groups := newUnionFind(size)

	emit := func(i, j int) {
		w := m[i][j]
		if threshold > 0 && math.Abs(w) < threshold {
			return
		}
		edges = append(edges, models.Edge{Source: labels[i], Target: labels[j], Weight: w})
		nodes[i].Degree++
		nodes[j].Degree++
		groups.union(i, j)
	}

	if symmetric {
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				emit(i, j)
			}
		}
	} else {
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				if i != j {
					emit(i, j)
				}
			}
		}
	}

	// Group ids are assigned in node order so numbering is stable across
	// frames with the same component structure.
	byRoot := make(map[int]int, size)
	for i := range nodes {
		root := groups.find(i)
		id, ok := byRoot[root]
		if !ok {
			id = len(byRoot)
			byRoot[root] = id
		}
		nodes[i].Group = id
	}

	return models.GraphFrame{Timestamp: timestamp, Nodes: nodes, Edges: edges}
}

// SummarizeFrames computes response-level metadata over every edge kept in
// every frame: the global weight range plus mean and standard deviation.
// Returns ErrNoEdges when thresholding removed all edges, since a data
// range over zero weights is undefined.
func SummarizeFrames(frames []models.GraphFrame, description string) (models.GraphMeta, error) {
	var weights []float64
	for _, f := range frames {
		for _, e := range f.Edges {
			weights = append(weights, e.Weight)
		}
	}
	if len(weights) == 0 {
		return models.GraphMeta{}, ErrNoEdges
	}

	min, _ := stats.Min(weights)
	max, _ := stats.Max(weights)
	mean, _ := stats.Mean(weights)
	std, _ := stats.StandardDeviation(weights)

	return models.GraphMeta{
		FrameCount:     len(frames),
		NodeAttributes: []string{"id", "label", "full_name", "degree", "group"},
		EdgeAttributes: []string{"source", "target", "weight"},
		EdgeWeightMin:  min,
		EdgeWeightMax:  max,
		EdgeWeightMean: mean,
		EdgeWeightStd:  std,
		Description:    description,
	}, nil
}
