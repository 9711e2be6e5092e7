package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/pkg/logger"
)

type subjectListResponse struct {
	Files   []models.SubjectFile `json:"files"`
	DataDir string               `json:"data_dir"`
	Count   int                  `json:"count"`
}

func subjectRouter(catalog *abide.Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSubjectHandler(catalog, logger.NewNop())
	r.GET("/api/v1/subjects", h.ListSubjects)
	r.GET("/api/v1/subjects/:id/signal", h.GetSignalSummary)
	return r
}

func getJSON(t *testing.T, router http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestListSubjects(t *testing.T) {
	dir := t.TempDir()
	writeSubjectFile(t, dir, "v1", "NYU", 50003, 10)
	writeSubjectFile(t, dir, "v1", "Yale", 50004, 10)
	writeSubjectFile(t, dir, "v2", "NYU", 50005, 10)
	catalog := newTestCatalog(t, dir, map[int64]string{50003: "ASD", 50004: "HC"})
	router := subjectRouter(catalog)

	var resp subjectListResponse
	w := getJSON(t, router, "/api/v1/subjects", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, dir, resp.DataDir)

	// Sorted by version, site, subject id.
	require.Len(t, resp.Files, 3)
	assert.Equal(t, "v1/NYU/dr_stage1_subject0050003.txt", resp.Files[0].Path)
	assert.Equal(t, "ASD", resp.Files[0].Diagnosis)
	assert.Equal(t, "v1/Yale/dr_stage1_subject0050004.txt", resp.Files[1].Path)
	assert.Equal(t, "v2/NYU/dr_stage1_subject0050005.txt", resp.Files[2].Path)
}

func TestListSubjects_EmptyDir(t *testing.T) {
	router := subjectRouter(newTestCatalog(t, t.TempDir(), nil))

	var resp subjectListResponse
	w := getJSON(t, router, "/api/v1/subjects", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Files)
}

func TestListSubjects_Filters(t *testing.T) {
	dir := t.TempDir()
	writeSubjectFile(t, dir, "v1", "NYU", 50003, 10)
	writeSubjectFile(t, dir, "v1", "Yale", 50004, 10)
	catalog := newTestCatalog(t, dir, map[int64]string{50003: "ASD", 50004: "HC"})
	router := subjectRouter(catalog)

	var bySite subjectListResponse
	w := getJSON(t, router, "/api/v1/subjects?site=Yale", &bySite)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, bySite.Count)
	assert.Equal(t, "Yale", bySite.Files[0].Site)

	var byDiagnosis subjectListResponse
	w = getJSON(t, router, "/api/v1/subjects?diagnosis=ASD", &byDiagnosis)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, byDiagnosis.Count)
	assert.Equal(t, "0050003", byDiagnosis.Files[0].SubjectID)
}

func TestListSubjects_Search(t *testing.T) {
	dir := t.TempDir()
	writeSubjectFile(t, dir, "v1", "NYU", 50003, 10)
	writeSubjectFile(t, dir, "v1", "Yale", 50004, 10)
	router := subjectRouter(newTestCatalog(t, dir, nil))

	var resp subjectListResponse
	w := getJSON(t, router, "/api/v1/subjects?q=site:Yale", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "v1/Yale/dr_stage1_subject0050004.txt", resp.Files[0].Path)
}

func TestGetSignalSummary(t *testing.T) {
	dir := t.TempDir()
	writeSubjectFile(t, dir, "v1", "NYU", 50003, 25)
	router := subjectRouter(newTestCatalog(t, dir, nil))

	var resp models.SignalSummary
	w := getJSON(t, router, "/api/v1/subjects/0050003/signal", &resp)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "0050003", resp.SubjectID)
	assert.Equal(t, 25, resp.Timepoints)
	require.Len(t, resp.Channels, 14)
	for _, ch := range resp.Channels {
		assert.NotEmpty(t, ch.Channel)
		assert.LessOrEqual(t, ch.Min, ch.Median)
		assert.LessOrEqual(t, ch.Median, ch.Max)
	}
}

func TestGetSignalSummary_NumericLookup(t *testing.T) {
	dir := t.TempDir()
	writeSubjectFile(t, dir, "v1", "NYU", 50003, 12)
	router := subjectRouter(newTestCatalog(t, dir, nil))

	// Unpadded id resolves to the same subject.
	var resp models.SignalSummary
	w := getJSON(t, router, "/api/v1/subjects/50003/signal", &resp)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0050003", resp.SubjectID)
}

func TestGetSignalSummary_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeSubjectFile(t, dir, "v1", "NYU", 50003, 12)
	router := subjectRouter(newTestCatalog(t, dir, nil))

	w := getJSON(t, router, "/api/v1/subjects/9999999/signal", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
