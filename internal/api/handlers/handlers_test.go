package handlers

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/config"
	"github.com/brainviz/connectome-core/internal/pipeline"
	"github.com/brainviz/connectome-core/internal/rsn"
	"github.com/brainviz/connectome-core/internal/wavelet"
	"github.com/brainviz/connectome-core/pkg/logger"
)

// writeSubjectFile writes a 32-column dual-regression file of sinusoid
// mixtures under dir/<version>/<site>/ and returns its catalog-relative path.
func writeSubjectFile(t *testing.T, dir, version, site string, subject int64, timepoints int) string {
	t.Helper()
	siteDir := filepath.Join(dir, version, site)
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", siteDir, err)
	}
	name := fmt.Sprintf("%s%07d.txt", abide.SubjectFilePrefix, subject)

	var sb strings.Builder
	for row := 0; row < timepoints; row++ {
		for col := 0; col < 32; col++ {
			if col > 0 {
				sb.WriteString("  ")
			}
			v := math.Sin(float64(row) * 0.07 * float64(col+1))
			sb.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(siteDir, name), []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write subject file: %v", err)
	}
	return version + "/" + site + "/" + name
}

func newTestCatalog(t *testing.T, dir string, diagnosis map[int64]string) *abide.Catalog {
	t.Helper()
	c := abide.NewCatalog(dir, diagnosis, logger.NewNop())
	if err := c.Scan(context.Background()); err != nil {
		t.Fatalf("catalog scan: %v", err)
	}
	return c
}

func newTestRunner(ds *wavelet.Dataset) *pipeline.Runner {
	return pipeline.NewRunner(logger.NewNop(), ds, rsn.Labels(), rsn.FullNames(), 2)
}

// leadershipDataset builds an in-memory phase dataset for one subject where
// every pair carries two LEAD codes per LAG code, so each upper-triangle
// ratio lands on 2/3.
func leadershipDataset(t *testing.T, subject int64, timepoints, scales int) *wavelet.Dataset {
	t.Helper()
	ds := wavelet.NewDataset()
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
			if err != nil {
				t.Fatalf("pair series: %v", err)
			}
			if err := ds.Add(subject, i, j, series); err != nil {
				t.Fatalf("dataset add: %v", err)
			}
		}
	}
	return ds
}

// graphRouter registers the pipeline routes the way the server does.
func graphRouter(catalog *abide.Catalog, ds *wavelet.Dataset) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	runner := newTestRunner(ds)
	graph := NewGraphHandler(catalog, runner, logger.NewNop())
	stream := NewStreamHandler(catalog, runner, config.WebSocketConfig{
		Enabled:         true,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		PingInterval:    30,
		MaxMessageSize:  1 << 20,
	}, logger.NewNop())
	r.POST("/api/v1/graph", graph.CreateGraph)
	r.GET("/api/v1/graph/stream", stream.StreamGraph)
	return r
}
