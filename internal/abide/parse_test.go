package abide

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brainviz/connectome-core/internal/rsn"
)

// writeSignalFixture writes rows x 32 samples where cell (t, c) = t*100 + c+1.
func writeSignalFixture(t *testing.T, dir, rel string, rows int) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < 32; c++ {
			if c > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%.6f", float64(r*100+c+1))
		}
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestParseSignalFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSignalFixture(t, dir, "v1/NYU/dr_stage1_subject0050003.txt", 3)

	rows, err := ParseSignalFile(path)
	if err != nil {
		t.Fatalf("ParseSignalFile: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if len(rows[0]) != 32 {
		t.Fatalf("expected 32 columns, got %d", len(rows[0]))
	}
	if rows[1][4] != 105 {
		t.Fatalf("expected cell (1,4) = 105, got %v", rows[1][4])
	}
}

func TestParseSignalFileSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subject.txt")
	content := "1 2 3\n\n4 5 6\n   \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := ParseSignalFile(path)
	if err != nil {
		t.Fatalf("ParseSignalFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != 4 {
		t.Fatalf("expected second row to start at 4, got %v", rows[1][0])
	}
}

func TestParseSignalFileRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.txt")
	if err := os.WriteFile(path, []byte("1 2 3\n4 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ParseSignalFile(path); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestParseSignalFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ParseSignalFile(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestFilterNetworkColumns(t *testing.T) {
	row := make([]float64, 32)
	for c := range row {
		row[c] = float64(c + 1)
	}
	filtered, err := FilterNetworkColumns([][]float64{row})
	if err != nil {
		t.Fatalf("FilterNetworkColumns: %v", err)
	}
	if len(filtered[0]) != rsn.Count {
		t.Fatalf("expected %d columns, got %d", rsn.Count, len(filtered[0]))
	}
	for i, comp := range rsn.ComponentIndices() {
		if filtered[0][i] != float64(comp) {
			t.Fatalf("column %d: expected component %d value, got %v", i, comp, filtered[0][i])
		}
	}
}

func TestFilterNetworkColumnsTooNarrow(t *testing.T) {
	// The highest analyzed component is 27, so 20 columns cannot satisfy it.
	row := make([]float64, 20)
	if _, err := FilterNetworkColumns([][]float64{row}); err == nil {
		t.Fatal("expected error for narrow rows")
	}
}

func TestLoadSignalMatrix(t *testing.T) {
	dir := t.TempDir()
	path := writeSignalFixture(t, dir, "v1/NYU/dr_stage1_subject0050003.txt", 5)

	m, err := LoadSignalMatrix(path)
	if err != nil {
		t.Fatalf("LoadSignalMatrix: %v", err)
	}
	if m.Timepoints() != 5 {
		t.Fatalf("expected 5 timepoints, got %d", m.Timepoints())
	}
	if m.Channels() != rsn.Count {
		t.Fatalf("expected %d channels, got %d", rsn.Count, m.Channels())
	}
	labels := m.Labels()
	if labels[0] != "aDMN" || labels[rsn.Count-1] != "occVIS" {
		t.Fatalf("unexpected channel labels %v", labels)
	}
	// Channel 0 is component 1: cell (t, 0) = t*100 + 1.
	ch := m.Channel(0)
	for tp, v := range ch {
		want := float64(tp*100 + 1)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("channel 0 timepoint %d: expected %v, got %v", tp, want, v)
		}
	}
}

func TestSubjectIDString(t *testing.T) {
	if got := SubjectIDString("v1/NYU/dr_stage1_subject0050003.txt"); got != "0050003" {
		t.Fatalf("expected 0050003, got %q", got)
	}
	if got := SubjectIDString("notes.txt"); got != "notes" {
		t.Fatalf("expected notes, got %q", got)
	}
}

func TestSubjectIDFromPath(t *testing.T) {
	id, err := SubjectIDFromPath("v1/NYU/dr_stage1_subject0050003.txt")
	if err != nil {
		t.Fatalf("SubjectIDFromPath: %v", err)
	}
	if id != 50003 {
		t.Fatalf("expected 50003, got %d", id)
	}
	if _, err := SubjectIDFromPath("v1/NYU/readme.txt"); err == nil {
		t.Fatal("expected error for non-subject file")
	}
}
