package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainviz/connectome-core/internal/models"
)

func TestGetMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/methods", NewMethodHandler().GetMethods)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Methods       []models.MethodInfo `json:"methods"`
		Interpolation []models.OptionInfo `json:"interpolation"`
		Smoothing     []models.OptionInfo `json:"smoothing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Methods, 3)
	byID := make(map[string]models.MethodInfo)
	for _, m := range resp.Methods {
		byID[m.ID] = m
	}
	assert.True(t, byID["pearson"].Symmetric)
	assert.True(t, byID["spearman"].Symmetric)
	assert.False(t, byID["wavelet"].Symmetric)

	// Every method documents the shared windowing parameters.
	for _, m := range resp.Methods {
		require.Len(t, m.Params, 2, m.ID)
		assert.Equal(t, "window_size", m.Params[0].Name)
		assert.Equal(t, 30.0, m.Params[0].Default)
		assert.Equal(t, 5.0, m.Params[0].Min)
		assert.Equal(t, 100.0, m.Params[0].Max)
		assert.Equal(t, "step", m.Params[1].Name)
	}

	interpIDs := make([]string, 0, len(resp.Interpolation))
	for _, o := range resp.Interpolation {
		interpIDs = append(interpIDs, o.ID)
	}
	assert.ElementsMatch(t, []string{"linear", "cubic_spline", "b_spline", "univariate_spline"}, interpIDs)

	smoothIDs := make([]string, 0, len(resp.Smoothing))
	for _, o := range resp.Smoothing {
		smoothIDs = append(smoothIDs, o.ID)
	}
	assert.ElementsMatch(t, []string{"moving_average", "exponential", "gaussian"}, smoothIDs)
}
