// Package wavelet holds the precomputed wavelet-coherence phase dataset: for
// every subject and network pair, one categorical phase code per timepoint
// per frequency scale. The data is produced upstream; this package only
// stores, loads and serves it.
package wavelet

import (
	"fmt"
	"sort"
)

// Phase codes match the upstream classifier output
// (angle = 2*in_phase + 1*lead - 1*lag - 2*anti).
const (
	PhaseNone    int8 = 0
	PhaseLead    int8 = 1
	PhaseLag     int8 = -1
	PhaseAnti    int8 = -2
	PhaseInPhase int8 = 2
)

// PairSeries is the phase classification for one directed network pair:
// Timepoints rows of Scales codes, stored row-major by timepoint.
type PairSeries struct {
	Timepoints int
	Scales     int
	codes      []int8
}

// NewPairSeries wraps a code slice. len(codes) must equal timepoints*scales.
func NewPairSeries(timepoints, scales int, codes []int8) (*PairSeries, error) {
	if timepoints <= 0 || scales <= 0 {
		return nil, fmt.Errorf("invalid series shape %dx%d", timepoints, scales)
	}
	if len(codes) != timepoints*scales {
		return nil, fmt.Errorf("series has %d codes, want %d", len(codes), timepoints*scales)
	}
	return &PairSeries{Timepoints: timepoints, Scales: scales, codes: codes}, nil
}

// At returns the phase code at timepoint t, scale s.
func (p *PairSeries) At(t, s int) int8 {
	return p.codes[t*p.Scales+s]
}

// CountLeadLag counts LEAD and LAG codes over timepoint rows [start, end)
// across every scale.
func (p *PairSeries) CountLeadLag(start, end int) (lead, lag int) {
	if start < 0 {
		start = 0
	}
	if end > p.Timepoints {
		end = p.Timepoints
	}
	for _, code := range p.codes[start*p.Scales : end*p.Scales] {
		switch code {
		case PhaseLead:
			lead++
		case PhaseLag:
			lag++
		}
	}
	return lead, lag
}

type pairKey struct {
	Source int
	Target int
}

// SubjectPhases holds every stored pair series for one subject. All series
// of a subject share the same timepoint count.
type SubjectPhases struct {
	pairs      map[pairKey]*PairSeries
	timepoints int
}

// Timepoints returns the shared timepoint count, 0 when no pairs are stored.
func (s *SubjectPhases) Timepoints() int { return s.timepoints }

// PairCount returns the number of stored pair series.
func (s *SubjectPhases) PairCount() int { return len(s.pairs) }

// Pair returns the series for a directed pair, nil when absent.
func (s *SubjectPhases) Pair(source, target int) *PairSeries {
	return s.pairs[pairKey{Source: source, Target: target}]
}

// ForEachPair invokes fn for every stored pair series.
func (s *SubjectPhases) ForEachPair(fn func(source, target int, series *PairSeries)) {
	for k, series := range s.pairs {
		fn(k.Source, k.Target, series)
	}
}

// Dataset is the whole phase store held in memory. It is populated once at
// load time and read-only afterwards, which makes unsynchronized concurrent
// reads safe.
type Dataset struct {
	subjects map[int64]*SubjectPhases
}

// NewDataset returns an empty dataset ready for loading.
func NewDataset() *Dataset {
	return &Dataset{subjects: make(map[int64]*SubjectPhases)}
}

// Add registers a pair series. It fails when the series shape disagrees with
// the subject's previously added series. Not safe for concurrent use; call
// only while loading.
func (d *Dataset) Add(subjectID int64, source, target int, series *PairSeries) error {
	sp, ok := d.subjects[subjectID]
	if !ok {
		sp = &SubjectPhases{pairs: make(map[pairKey]*PairSeries), timepoints: series.Timepoints}
		d.subjects[subjectID] = sp
	}
	if series.Timepoints != sp.timepoints {
		return fmt.Errorf("subject %d: series has %d timepoints, want %d",
			subjectID, series.Timepoints, sp.timepoints)
	}
	sp.pairs[pairKey{Source: source, Target: target}] = series
	return nil
}

// Subject returns a subject's phases, false when absent.
func (d *Dataset) Subject(id int64) (*SubjectPhases, bool) {
	sp, ok := d.subjects[id]
	return sp, ok
}

// SubjectIDs returns all subject ids in ascending order.
func (d *Dataset) SubjectIDs() []int64 {
	ids := make([]int64, 0, len(d.subjects))
	for id := range d.subjects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of subjects.
func (d *Dataset) Len() int { return len(d.subjects) }
