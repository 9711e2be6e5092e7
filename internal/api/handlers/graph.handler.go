package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/internal/pipeline"
	"github.com/brainviz/connectome-core/pkg/logger"
)

type GraphHandler struct {
	catalog *abide.Catalog
	runner  *pipeline.Runner
	logger  logger.Logger
}

func NewGraphHandler(catalog *abide.Catalog, runner *pipeline.Runner, logger logger.Logger) *GraphHandler {
	return &GraphHandler{catalog: catalog, runner: runner, logger: logger}
}

// POST /api/v1/graph - Run the correlation pipeline for one subject file
func (h *GraphHandler) CreateGraph(c *gin.Context) {
	var req models.GraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("invalid request body: %s", err),
		})
		return
	}

	resp, status, err := runGraphRequest(c.Request.Context(), h.catalog, h.runner, h.logger, &req)
	if err != nil {
		c.JSON(status, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// runGraphRequest validates, resolves the subject file and executes the
// pipeline. Shared by the POST endpoint and the WebSocket stream; on failure
// the returned status is the HTTP code the error maps to.
func runGraphRequest(ctx context.Context, catalog *abide.Catalog, runner *pipeline.Runner, log logger.Logger, req *models.GraphRequest) (*models.GraphResponse, int, error) {
	if err := req.Validate(); err != nil {
		return nil, http.StatusBadRequest, err
	}
	method, err := pipeline.ParseMethod(req.Method)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	full, err := catalog.Resolve(req.FilePath)
	if err != nil {
		log.Warn("graph request for unknown file", "file", req.FilePath, "error", err)
		return nil, http.StatusNotFound, fmt.Errorf("file %q not found", req.FilePath)
	}

	var (
		signals   *pipeline.SignalMatrix
		subjectID int64
	)
	if method == pipeline.MethodWavelet {
		// The phase store is keyed by numeric subject id, not file path.
		subjectID, err = abide.SubjectIDFromPath(req.FilePath)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
	} else {
		signals, err = abide.LoadSignalMatrix(full)
		if err != nil {
			log.Error("failed to load subject file", "file", req.FilePath, "error", err)
			return nil, http.StatusBadRequest, fmt.Errorf("invalid data file: %s", err)
		}
	}

	resp, err := runner.Run(ctx, *req, signals, subjectID)
	if err != nil {
		return nil, graphErrorStatus(err), err
	}
	return resp, http.StatusOK, nil
}

// graphErrorStatus maps pipeline failures onto HTTP codes. Everything not
// covered explicitly is a parameter problem (unknown kernel, threshold that
// drops every edge) and stays a 400.
func graphErrorStatus(err error) int {
	var notFound *pipeline.SubjectNotFoundError
	var insufficient *pipeline.InsufficientDataError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
