package integration

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/rsn"
	"github.com/brainviz/connectome-core/internal/wavelet"
)

// writeSubject writes one 32-column dual-regression file of sinusoid mixtures
// and returns its catalog-relative path. Distinct subjects get phase-shifted
// signals so correlations differ between files.
func writeSubject(t *testing.T, dir, version, site string, subject int64, timepoints int) string {
	t.Helper()
	siteDir := filepath.Join(dir, version, site)
	require.NoError(t, os.MkdirAll(siteDir, 0o755))
	name := fmt.Sprintf("%s%07d.txt", abide.SubjectFilePrefix, subject)

	phase := float64(subject%97) * 0.01
	var sb strings.Builder
	for row := 0; row < timepoints; row++ {
		for col := 0; col < 32; col++ {
			if col > 0 {
				sb.WriteString("  ")
			}
			v := math.Sin((float64(row) + phase) * 0.07 * float64(col+1))
			sb.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
		sb.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, name), []byte(sb.String()), 0o644))
	return version + "/" + site + "/" + name
}

// buildWaveletStore seeds a real sqlite phase store for one subject, with two
// LEAD codes per LAG code on every pair, and returns its path.
func buildWaveletStore(t *testing.T, dir string, subject int64, timepoints, scales int) string {
	t.Helper()
	path := filepath.Join(dir, "wavelet.db")

	store, err := wavelet.Open(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Init())

	for i := 0; i < rsn.Count; i++ {
		for j := i + 1; j < rsn.Count; j++ {
			codes := make([]int8, timepoints*scales)
			for k := range codes {
				if k%3 == 2 {
					codes[k] = wavelet.PhaseLag
				} else {
					codes[k] = wavelet.PhaseLead
				}
			}
			series, err := wavelet.NewPairSeries(timepoints, scales, codes)
			require.NoError(t, err)
			require.NoError(t, store.PutSeries(subject, i, j, series))
		}
	}
	return path
}
