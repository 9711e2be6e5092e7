package pipeline

import (
	"errors"
	"math"
	"testing"
)

func TestBuildFramesSymmetricEdgeCount(t *testing.T) {
	m := newFilledMatrix(14, 0.5)
	for i := 0; i < 14; i++ {
		m[i][i] = 1.0
	}
	seq := Sequence{Matrices: []Matrix{m}, Symmetric: true}
	frames, err := BuildFrames(seq, testLabels(14), nil, 0)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if len(frames[0].Edges) != 91 {
		t.Fatalf("symmetric 14x14 should give 91 edges, got %d", len(frames[0].Edges))
	}
	for _, n := range frames[0].Nodes {
		if n.Degree != 13 {
			t.Fatalf("node %s degree = %d, want 13", n.ID, n.Degree)
		}
		if n.Group != 0 {
			t.Fatalf("fully connected graph should be one component, node %s in group %d", n.ID, n.Group)
		}
	}
}

func TestBuildFramesAsymmetricEdgeCount(t *testing.T) {
	m := newFilledMatrix(14, 0.4)
	for i := 0; i < 14; i++ {
		m[i][i] = 1.0
	}
	seq := Sequence{Matrices: []Matrix{m}, Symmetric: false}
	frames, err := BuildFrames(seq, testLabels(14), nil, 0)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	if len(frames[0].Edges) != 182 {
		t.Fatalf("asymmetric 14x14 should give 182 edges, got %d", len(frames[0].Edges))
	}
	for _, n := range frames[0].Nodes {
		if n.Degree != 26 {
			t.Fatalf("node %s degree = %d, want 26", n.ID, n.Degree)
		}
	}
}

func TestBuildFramesRoundTrip(t *testing.T) {
	labels := testLabels(4)
	m := NewMatrix(4)
	for i := 0; i < 4; i++ {
		m[i][i] = 1.0
		for j := i + 1; j < 4; j++ {
			v := float64(i*10+j) / 100
			m[i][j] = v
			m[j][i] = v
		}
	}
	seq := Sequence{Matrices: []Matrix{m}, Symmetric: true}
	frames, err := BuildFrames(seq, labels, nil, 0)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	if len(frames[0].Edges) != 6 {
		t.Fatalf("expected 6 edges, got %d", len(frames[0].Edges))
	}
	pos := func(label string) int { return int(label[0] - 'A') }
	for _, e := range frames[0].Edges {
		want := m[pos(e.Source)][pos(e.Target)]
		if e.Weight != want {
			t.Fatalf("edge %s-%s weight %v, want %v", e.Source, e.Target, e.Weight, want)
		}
	}
}

func TestBuildFramesThresholdAndGroups(t *testing.T) {
	// Only the 0-1 edge survives the threshold; node 2 ends up isolated in
	// its own component with degree 0.
	m := NewMatrix(3)
	for i := 0; i < 3; i++ {
		m[i][i] = 1.0
	}
	m[0][1], m[1][0] = 0.8, 0.8
	m[0][2], m[2][0] = 0.05, 0.05
	m[1][2], m[2][1] = -0.02, -0.02

	seq := Sequence{Matrices: []Matrix{m}, Symmetric: true}
	frames, err := BuildFrames(seq, testLabels(3), nil, 0.1)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	f := frames[0]
	if len(f.Edges) != 1 {
		t.Fatalf("expected 1 edge above threshold, got %d", len(f.Edges))
	}
	if f.Nodes[0].Degree != 1 || f.Nodes[1].Degree != 1 || f.Nodes[2].Degree != 0 {
		t.Fatalf("unexpected degrees: %d %d %d",
			f.Nodes[0].Degree, f.Nodes[1].Degree, f.Nodes[2].Degree)
	}
	if f.Nodes[0].Group != f.Nodes[1].Group {
		t.Fatal("connected nodes must share a group")
	}
	if f.Nodes[2].Group == f.Nodes[0].Group {
		t.Fatal("isolated node must get its own group")
	}
}

func TestBuildFramesNegativeWeightMagnitude(t *testing.T) {
	// Thresholding compares absolute weight, so strong negative
	// correlations survive.
	m := NewMatrix(2)
	m[0][0], m[1][1] = 1.0, 1.0
	m[0][1], m[1][0] = -0.9, -0.9
	seq := Sequence{Matrices: []Matrix{m}, Symmetric: true}
	frames, err := BuildFrames(seq, testLabels(2), nil, 0.5)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	if len(frames[0].Edges) != 1 {
		t.Fatalf("negative edge above threshold magnitude must survive, got %d edges", len(frames[0].Edges))
	}
}

func TestBuildFramesLabelMismatch(t *testing.T) {
	seq := Sequence{Matrices: []Matrix{NewMatrix(3)}, Symmetric: true}
	if _, err := BuildFrames(seq, testLabels(2), nil, 0); err == nil {
		t.Fatal("expected error for label/channel mismatch")
	}
}

func TestSummarizeFrames(t *testing.T) {
	m := NewMatrix(3)
	m[0][1], m[0][2], m[1][2] = 1, 2, 3
	m2 := NewMatrix(3)
	m2[0][1], m2[0][2], m2[1][2] = 4, 2, 3
	seq := Sequence{Matrices: []Matrix{m, m2}, Symmetric: true}
	frames, err := BuildFrames(seq, testLabels(3), nil, 0)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	meta, err := SummarizeFrames(frames, "test run")
	if err != nil {
		t.Fatalf("SummarizeFrames: %v", err)
	}
	if meta.FrameCount != 2 {
		t.Fatalf("frame count %d, want 2", meta.FrameCount)
	}
	if meta.EdgeWeightMin != 1 || meta.EdgeWeightMax != 4 {
		t.Fatalf("range [%v, %v], want [1, 4]", meta.EdgeWeightMin, meta.EdgeWeightMax)
	}
	// Weights are 1,2,3,4,2,3: mean 2.5, population stddev sqrt(11/12).
	if math.Abs(meta.EdgeWeightMean-2.5) > 1e-12 {
		t.Fatalf("mean %v, want 2.5", meta.EdgeWeightMean)
	}
	if math.Abs(meta.EdgeWeightStd-math.Sqrt(11.0/12.0)) > 1e-9 {
		t.Fatalf("stddev %v, want %v", meta.EdgeWeightStd, math.Sqrt(11.0/12.0))
	}
	if meta.Description != "test run" {
		t.Fatalf("description %q", meta.Description)
	}
}

func TestSummarizeFramesNoEdges(t *testing.T) {
	m := NewMatrix(2)
	m[0][1], m[1][0] = 0.01, 0.01
	seq := Sequence{Matrices: []Matrix{m}, Symmetric: true}
	frames, err := BuildFrames(seq, testLabels(2), nil, 0.5)
	if err != nil {
		t.Fatalf("BuildFrames: %v", err)
	}
	_, err = SummarizeFrames(frames, "")
	if !errors.Is(err, ErrNoEdges) {
		t.Fatalf("expected ErrNoEdges, got %v", err)
	}
}
