// Package abide loads and indexes ABIDE dual-regression subject files. A
// subject file is a plain-text matrix of whitespace-separated floats, one row
// per timepoint and one column per ICA component; the pipeline consumes only
// the 14 resting-state-network columns.
package abide

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brainviz/connectome-core/internal/pipeline"
	"github.com/brainviz/connectome-core/internal/rsn"
)

// SubjectFilePrefix is the dual-regression stage-1 file name prefix. The
// digits after it are the zero-padded subject id.
const SubjectFilePrefix = "dr_stage1_subject"

// ParseSignalFile reads a dual-regression text file into row-major samples.
// Blank lines are skipped; every remaining row must carry the same number of
// columns.
func ParseSignalFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows [][]float64
	width := -1
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if width < 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("%s:%d: %d columns, want %d", filepath.Base(path), line, len(fields), width)
		}
		row := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: column %d: %w", filepath.Base(path), line, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no timepoints", filepath.Base(path))
	}
	return rows, nil
}

// FilterNetworkColumns keeps the 14 analyzed network columns of the full
// component matrix, in catalog order. Component indices are 1-based.
func FilterNetworkColumns(rows [][]float64) ([][]float64, error) {
	indices := rsn.ComponentIndices()
	out := make([][]float64, len(rows))
	for t, row := range rows {
		filtered := make([]float64, len(indices))
		for i, comp := range indices {
			col := comp - 1
			if col >= len(row) {
				return nil, fmt.Errorf("row %d has %d columns, component %d out of range", t, len(row), comp)
			}
			filtered[i] = row[col]
		}
		out[t] = filtered
	}
	return out, nil
}

// LoadSignalMatrix parses a subject file and reduces it to the 14-network
// signal matrix consumed by the pipeline.
func LoadSignalMatrix(path string) (*pipeline.SignalMatrix, error) {
	rows, err := ParseSignalFile(path)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterNetworkColumns(rows)
	if err != nil {
		return nil, err
	}
	return pipeline.NewSignalMatrix(filtered, rsn.Labels())
}

// SubjectIDString extracts the zero-padded subject id from a dual-regression
// file path, e.g. "0050003" from "v1/NYU/dr_stage1_subject0050003.txt". The
// stem is returned unchanged when the prefix is absent.
func SubjectIDString(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(stem, SubjectFilePrefix)
}

// SubjectIDFromPath derives the numeric subject id used as the wavelet store
// key from a dual-regression file path.
func SubjectIDFromPath(path string) (int64, error) {
	id, err := strconv.ParseInt(SubjectIDString(path), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("no subject id in %q", filepath.Base(path))
	}
	return id, nil
}
