package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/brainviz/connectome-core/internal/wavelet"
)

// phaseDataset builds a three-channel dataset for subject 42 with four
// timepoints and two scales per pair.
func phaseDataset(t *testing.T) *wavelet.Dataset {
	t.Helper()
	ds := wavelet.NewDataset()

	add := func(source, target int, codes []int8) {
		series, err := wavelet.NewPairSeries(4, 2, codes)
		if err != nil {
			t.Fatalf("NewPairSeries: %v", err)
		}
		if err := ds.Add(42, source, target, series); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	// Pair (0,1): five LEAD, one LAG across the full series.
	add(0, 1, []int8{1, 1, 1, -1, 0, 0, 1, 1})
	// Pair (0,2): no lead or lag activity at all.
	add(0, 2, []int8{0, 0, 2, 2, -2, -2, 0, 0})
	// Pair (1,2): one LEAD, four LAG.
	add(1, 2, []int8{-1, -1, -1, -1, 2, -2, 0, 1})

	return ds
}

func TestLeadershipFullSeries(t *testing.T) {
	ds := phaseDataset(t)
	seq, err := Leadership(ds, 42, 3, 0, 1)
	if err != nil {
		t.Fatalf("Leadership: %v", err)
	}
	if seq.Len() != 1 {
		t.Fatalf("expected 1 frame for full series, got %d", seq.Len())
	}
	if seq.Symmetric {
		t.Fatal("leadership sequence must be asymmetric")
	}

	m := seq.Matrices[0]
	if math.Abs(m[0][1]-5.0/6.0) > 1e-12 {
		t.Fatalf("m[0][1] = %v, want 5/6", m[0][1])
	}
	if math.Abs(m[1][0]-1.0/6.0) > 1e-12 {
		t.Fatalf("m[1][0] = %v, want 1/6", m[1][0])
	}
	// No lead/lag events stays at the neutral ratio.
	if m[0][2] != 0.5 || m[2][0] != 0.5 {
		t.Fatalf("inactive pair should be 0.5 both ways, got %v and %v", m[0][2], m[2][0])
	}
	if math.Abs(m[1][2]-0.2) > 1e-12 {
		t.Fatalf("m[1][2] = %v, want 0.2", m[1][2])
	}
	for i := 0; i < 3; i++ {
		if m[i][i] != 1.0 {
			t.Fatalf("diagonal [%d][%d] = %v, want 1", i, i, m[i][i])
		}
	}
}

func TestLeadershipComplementarity(t *testing.T) {
	ds := phaseDataset(t)
	seq, err := Leadership(ds, 42, 3, 0, 1)
	if err != nil {
		t.Fatalf("Leadership: %v", err)
	}
	m := seq.Matrices[0]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			if math.Abs(m[i][j]+m[j][i]-1.0) > 1e-12 {
				t.Fatalf("m[%d][%d] + m[%d][%d] = %v, want 1", i, j, j, i, m[i][j]+m[j][i])
			}
		}
	}
}

func TestLeadershipWindowed(t *testing.T) {
	ds := phaseDataset(t)
	seq, err := Leadership(ds, 42, 3, 2, 2)
	if err != nil {
		t.Fatalf("Leadership: %v", err)
	}
	if seq.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", seq.Len())
	}
	// Pair (0,1) rows 0-1: three LEAD, one LAG; rows 2-3: two LEAD, no LAG.
	if v := seq.Matrices[0][0][1]; math.Abs(v-0.75) > 1e-12 {
		t.Fatalf("window 0 ratio = %v, want 0.75", v)
	}
	if v := seq.Matrices[1][0][1]; math.Abs(v-1.0) > 1e-12 {
		t.Fatalf("window 1 ratio = %v, want 1.0", v)
	}
	if v := seq.Matrices[0][1][0]; math.Abs(v-0.25) > 1e-12 {
		t.Fatalf("window 0 complement = %v, want 0.25", v)
	}
}

func TestLeadershipSubjectNotFound(t *testing.T) {
	ds := phaseDataset(t)
	_, err := Leadership(ds, 99, 3, 0, 1)
	if err == nil {
		t.Fatal("expected error for unknown subject")
	}
	var notFound *SubjectNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SubjectNotFoundError, got %T: %v", err, err)
	}
	if notFound.SubjectID != 99 {
		t.Fatalf("unexpected subject id %d", notFound.SubjectID)
	}
}

func TestLeadershipIncompletePairs(t *testing.T) {
	ds := wavelet.NewDataset()
	series, err := wavelet.NewPairSeries(4, 2, make([]int8, 8))
	if err != nil {
		t.Fatalf("NewPairSeries: %v", err)
	}
	if err := ds.Add(7, 0, 1, series); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err = Leadership(ds, 7, 3, 0, 1)
	if err == nil {
		t.Fatal("expected error for incomplete pair coverage")
	}
}

func TestLeadershipWindowTooLarge(t *testing.T) {
	ds := phaseDataset(t)
	_, err := Leadership(ds, 42, 3, 10, 1)
	if err == nil {
		t.Fatal("expected error for oversized window")
	}
	var insufficientErr *InsufficientDataError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientDataError, got %T: %v", err, err)
	}
}
