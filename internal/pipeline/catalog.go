package pipeline

import "github.com/brainviz/connectome-core/internal/models"

func windowParams() []models.ParamInfo {
	return []models.ParamInfo{
		{Name: "window_size", Type: "int", Default: 30, Min: 5, Max: 100},
		{Name: "step", Type: "int", Default: 1, Min: 1, Max: 100},
	}
}

// MethodCatalog describes the correlation methods the graph endpoint accepts,
// in the order a client should present them.
func MethodCatalog() []models.MethodInfo {
	return []models.MethodInfo{
		{
			ID:          string(MethodPearson),
			Name:        "Pearson Correlation",
			Description: "Linear correlation coefficient",
			Symmetric:   true,
			Params:      windowParams(),
		},
		{
			ID:          string(MethodSpearman),
			Name:        "Spearman Correlation",
			Description: "Rank-based correlation (robust to outliers)",
			Symmetric:   true,
			Params:      windowParams(),
		},
		{
			ID:          string(MethodWavelet),
			Name:        "Wavelet Leadership",
			Description: "Lead/lag ratio from precomputed wavelet coherence phases",
			Symmetric:   false,
			Params:      windowParams(),
		},
	}
}

// InterpolationCatalog describes the temporal upsampling kernels.
func InterpolationCatalog() []models.OptionInfo {
	factor := []models.ParamInfo{
		{Name: "factor", Type: "int", Default: 2, Min: 2, Max: 10},
	}
	return []models.OptionInfo{
		{ID: "linear", Name: "Linear", Description: "Piecewise linear between frames", Params: factor},
		{ID: "cubic_spline", Name: "Cubic Spline", Description: "Natural cubic spline through all frames", Params: factor},
		{ID: "b_spline", Name: "B-Spline", Description: "Interpolating basis spline", Params: factor},
		{ID: "univariate_spline", Name: "Univariate Spline", Description: "Cubic fit with light smoothing", Params: factor},
	}
}

// SmoothingCatalog describes the temporal smoothing kernels.
func SmoothingCatalog() []models.OptionInfo {
	return []models.OptionInfo{
		{
			ID:          "moving_average",
			Name:        "Moving Average",
			Description: "Centered windowed mean across frames",
			Params: []models.ParamInfo{
				{Name: "window", Type: "int", Default: 3, Min: 2, Max: 10},
			},
		},
		{
			ID:          "exponential",
			Name:        "Exponential",
			Description: "Causal recursive filter weighted toward recent frames",
			Params: []models.ParamInfo{
				{Name: "alpha", Type: "float", Default: 0.5, Min: 0, Max: 1},
			},
		},
		{
			ID:          "gaussian",
			Name:        "Gaussian",
			Description: "Normalized Gaussian kernel across frames",
			Params: []models.ParamInfo{
				{Name: "sigma", Type: "float", Default: 1.0, Min: 0.1, Max: 5},
			},
		},
	}
}
