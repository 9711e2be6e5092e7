package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoEdges reports that the weight threshold filtered out every edge in
// every frame, leaving nothing to build a data range from.
var ErrNoEdges = errors.New("no edges survived the weight threshold")

// ErrDatasetUnavailable reports a wavelet request made before any phase
// dataset was loaded. Maps to a service-unavailable response, not a 4xx.
var ErrDatasetUnavailable = errors.New("wavelet phase dataset not loaded")

// InsufficientDataError reports a signal too short to fit a single window.
// The boundary layer maps it to a rejected request; it is never retried.
type InsufficientDataError struct {
	Timepoints int
	WindowSize int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("window size %d too large for %d timepoints", e.WindowSize, e.Timepoints)
}

// SubjectNotFoundError reports a subject with no entry in the precomputed
// wavelet phase dataset.
type SubjectNotFoundError struct {
	SubjectID int64
}

func (e *SubjectNotFoundError) Error() string {
	return fmt.Sprintf("subject %d not found in wavelet data", e.SubjectID)
}
