package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/pipeline"
)

type MethodHandler struct{}

func NewMethodHandler() *MethodHandler {
	return &MethodHandler{}
}

// GET /api/v1/methods - Correlation methods plus interpolation and smoothing options
func (h *MethodHandler) GetMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"methods":       pipeline.MethodCatalog(),
		"interpolation": pipeline.InterpolationCatalog(),
		"smoothing":     pipeline.SmoothingCatalog(),
	})
}
