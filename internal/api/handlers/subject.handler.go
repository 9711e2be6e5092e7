package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/pkg/logger"
)

type SubjectHandler struct {
	catalog *abide.Catalog
	logger  logger.Logger
}

func NewSubjectHandler(catalog *abide.Catalog, logger logger.Logger) *SubjectHandler {
	return &SubjectHandler{catalog: catalog, logger: logger}
}

// GET /api/v1/subjects - List indexed subject files
// query params: q (search query string), site, diagnosis, limit
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	var (
		files []models.SubjectFile
		err   error
	)
	if q := c.Query("q"); q != "" {
		limit := parseIntDefault(c.Query("limit"), 0)
		files, err = h.catalog.Search(c.Request.Context(), q, limit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  fmt.Sprintf("invalid search query: %s", err),
			})
			return
		}
	} else {
		files = h.catalog.Files()
	}

	site := c.Query("site")
	diagnosis := c.Query("diagnosis")
	if site != "" || diagnosis != "" {
		filtered := make([]models.SubjectFile, 0, len(files))
		for _, f := range files {
			if site != "" && f.Site != site {
				continue
			}
			if diagnosis != "" && f.Diagnosis != diagnosis {
				continue
			}
			filtered = append(filtered, f)
		}
		files = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"files":    files,
		"data_dir": h.catalog.DataDir(),
		"count":    len(files),
	})
}

// GET /api/v1/subjects/:id/signal - Per-network signal statistics for one subject
func (h *SubjectHandler) GetSignalSummary(c *gin.Context) {
	id := c.Param("id")
	file, ok := h.findSubject(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("subject %q not found", id),
		})
		return
	}

	full, err := h.catalog.Resolve(file.Path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("file %q not found", file.Path),
		})
		return
	}

	m, err := abide.LoadSignalMatrix(full)
	if err != nil {
		h.logger.Error("failed to load subject file", "file", file.Path, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("invalid data file: %s", err),
		})
		return
	}

	c.JSON(http.StatusOK, models.SignalSummary{
		SubjectID:  file.SubjectID,
		Path:       file.Path,
		Timepoints: m.Timepoints(),
		Channels:   abide.SummarizeSignals(m),
	})
}

// findSubject matches the zero-padded id exactly, falling back to a numeric
// comparison so "50003" finds "0050003". First catalog entry wins when the
// same subject appears under several pipeline versions.
func (h *SubjectHandler) findSubject(id string) (models.SubjectFile, bool) {
	files := h.catalog.Files()
	for _, f := range files {
		if f.SubjectID == id {
			return f, true
		}
	}
	want, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.SubjectFile{}, false
	}
	for _, f := range files {
		if n, err := strconv.ParseInt(f.SubjectID, 10, 64); err == nil && n == want {
			return f, true
		}
	}
	return models.SubjectFile{}, false
}
