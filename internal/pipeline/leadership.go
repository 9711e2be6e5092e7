package pipeline

import (
	"fmt"

	"github.com/brainviz/connectome-core/internal/wavelet"
)

// Leadership builds the directional leadership-ratio sequence for a subject
// from the precomputed phase dataset. Cell (i,j) is the share of LEAD codes
// among all LEAD and LAG codes for pair (i,j) inside the window, across
// every frequency scale; (j,i) holds the complement. Pairs with no lead or
// lag activity stay at the neutral 0.5. windowSize 0 means the full series.
func Leadership(ds *wavelet.Dataset, subjectID int64, channels, windowSize, step int) (Sequence, error) {
	sp, ok := ds.Subject(subjectID)
	if !ok {
		return Sequence{}, &SubjectNotFoundError{SubjectID: subjectID}
	}
	if want := channels * (channels - 1) / 2; sp.PairCount() < want {
		return Sequence{}, fmt.Errorf("subject %d has %d of %d network pairs in wavelet data",
			subjectID, sp.PairCount(), want)
	}

	t := sp.Timepoints()
	if windowSize <= 0 {
		windowSize = t
	}
	if step <= 0 {
		step = 1
	}
	n := windowCount(t, windowSize, step)
	if n <= 0 {
		return Sequence{}, &InsufficientDataError{Timepoints: t, WindowSize: windowSize}
	}

	matrices := make([]Matrix, n)
	for k := range matrices {
		m := newFilledMatrix(channels, 0.5)
		for i := 0; i < channels; i++ {
			m[i][i] = 1.0
		}
		matrices[k] = m
	}

	sp.ForEachPair(func(source, target int, series *wavelet.PairSeries) {
		if source < 0 || source >= channels || target < 0 || target >= channels {
			return
		}
		for k := 0; k < n; k++ {
			start := k * step
			lead, lag := series.CountLeadLag(start, start+windowSize)
			ratio := 0.5
			if lead+lag > 0 {
				ratio = float64(lead) / float64(lead+lag)
			}
			matrices[k][source][target] = ratio
			matrices[k][target][source] = 1.0 - ratio
		}
	})

	return Sequence{Matrices: matrices, Symmetric: false}, nil
}
