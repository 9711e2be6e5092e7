package abide

import (
	"github.com/montanaflynn/stats"

	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/internal/pipeline"
)

// SummarizeSignals computes per-channel descriptive statistics for one
// subject's filtered time series.
func SummarizeSignals(m *pipeline.SignalMatrix) []models.ChannelStats {
	labels := m.Labels()
	out := make([]models.ChannelStats, m.Channels())
	for i := range out {
		series := m.Channel(i)
		mean, _ := stats.Mean(series)
		std, _ := stats.StandardDeviation(series)
		min, _ := stats.Min(series)
		max, _ := stats.Max(series)
		median, _ := stats.Median(series)
		out[i] = models.ChannelStats{
			Channel: labels[i],
			Mean:    mean,
			StdDev:  std,
			Min:     min,
			Max:     max,
			Median:  median,
		}
	}
	return out
}
