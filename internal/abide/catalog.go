package abide

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/brainviz/connectome-core/internal/metrics"
	"github.com/brainviz/connectome-core/internal/models"
	"github.com/brainviz/connectome-core/internal/utils/fswatcher"
	"github.com/brainviz/connectome-core/pkg/logger"
)

// DefaultSearchLimit caps catalog search results when the caller gives no
// limit.
const DefaultSearchLimit = 100

// rescanDelay batches bursts of filesystem events into one rescan.
const rescanDelay = 500 * time.Millisecond

// Catalog indexes the dual-regression files under one data directory. The
// expected layout is <version>/<site>/dr_stage1_subject<ID>.txt; .txt files
// at other depths are still listed, with site and version falling back to
// "unknown". All methods are safe for concurrent use; Scan swaps the file
// list and the search index atomically under the write lock.
type Catalog struct {
	dataDir   string
	diagnosis map[int64]string
	log       logger.Logger

	mu     sync.RWMutex
	files  []models.SubjectFile
	byPath map[string]models.SubjectFile
	index  bleve.Index
}

// NewCatalog builds an empty catalog rooted at dataDir. diagnosis maps
// numeric subject ids to phenotypic labels and may be nil. Call Scan before
// serving.
func NewCatalog(dataDir string, diagnosis map[int64]string, log logger.Logger) *Catalog {
	return &Catalog{
		dataDir:   dataDir,
		diagnosis: diagnosis,
		log:       log,
		byPath:    make(map[string]models.SubjectFile),
	}
}

// Scan walks the data directory and rebuilds the file list and the in-memory
// search index. The list is sorted by version, site, then subject id.
func (c *Catalog) Scan(ctx context.Context) error {
	var files []models.SubjectFile
	err := filepath.WalkDir(c.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		rel, err := filepath.Rel(c.dataDir, path)
		if err != nil {
			return err
		}
		files = append(files, c.describe(rel))
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", c.dataDir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Version != files[j].Version {
			return files[i].Version < files[j].Version
		}
		if files[i].Site != files[j].Site {
			return files[i].Site < files[j].Site
		}
		return files[i].SubjectID < files[j].SubjectID
	})

	index, err := buildIndex(files)
	if err != nil {
		return err
	}

	byPath := make(map[string]models.SubjectFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	c.mu.Lock()
	old := c.index
	c.files = files
	c.byPath = byPath
	c.index = index
	c.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			c.log.Warn("failed to close previous subject index", "error", err)
		}
	}

	metrics.SubjectFilesIndexed.Set(float64(len(files)))
	c.log.Info("subject catalog scanned", "dir", c.dataDir, "files", len(files))
	return nil
}

func (c *Catalog) describe(rel string) models.SubjectFile {
	slash := filepath.ToSlash(rel)
	parts := strings.Split(slash, "/")
	site, version := "unknown", "unknown"
	if len(parts) >= 2 {
		site = parts[len(parts)-2]
	}
	if len(parts) >= 3 {
		version = parts[len(parts)-3]
	}
	f := models.SubjectFile{
		Path:      slash,
		SubjectID: SubjectIDString(rel),
		Site:      site,
		Version:   version,
	}
	if id, err := SubjectIDFromPath(rel); err == nil {
		f.Diagnosis = c.diagnosis[id]
	}
	return f
}

func buildIndex(files []models.SubjectFile) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create subject index: %w", err)
	}
	batch := index.NewBatch()
	for _, f := range files {
		doc := map[string]any{
			"subject_id": f.SubjectID,
			"site":       f.Site,
			"version":    f.Version,
		}
		if f.Diagnosis != "" {
			doc["diagnosis"] = f.Diagnosis
		}
		if err := batch.Index(f.Path, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("index %s: %w", f.Path, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("commit subject index: %w", err)
	}
	return index, nil
}

// Files returns a copy of the sorted file list.
func (c *Catalog) Files() []models.SubjectFile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.SubjectFile, len(c.files))
	copy(out, c.files)
	return out
}

// Len returns the number of indexed files.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// DataDir returns the catalog root.
func (c *Catalog) DataDir() string { return c.dataDir }

// Search runs a query-string search over subject id, site, version and
// diagnosis, returning matching files in relevance order. A non-positive
// limit falls back to DefaultSearchLimit.
func (c *Catalog) Search(ctx context.Context, q string, limit int) ([]models.SubjectFile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.index == nil {
		return nil, fmt.Errorf("subject index not built")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	bleveQuery := query.NewQueryStringQuery(q)
	searchRequest := bleve.NewSearchRequestOptions(bleveQuery, limit, 0, false)

	searchResult, err := c.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := make([]models.SubjectFile, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		if f, ok := c.byPath[hit.ID]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Resolve maps a catalog-relative path to an absolute path under the data
// directory. Paths that escape the root are rejected; the file must exist,
// and a missing file surfaces the os.Stat error so callers can map it to a
// not-found response.
func (c *Catalog) Resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the data directory", rel)
	}
	full := filepath.Join(c.dataDir, clean)
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}

// Watch rescans the catalog whenever files appear, change or disappear under
// the data directory. Event bursts are coalesced into one rescan. Blocks
// until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fswatcher.New()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := c.addWatches(w); err != nil {
		return err
	}

	debounce := time.NewTimer(rescanDelay)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			debounce.Reset(rescanDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("subject catalog watcher error", "error", err)
		case <-debounce.C:
			if err := c.Scan(ctx); err != nil {
				c.log.Error("subject catalog rescan failed", "error", err)
				continue
			}
			// New site or version directories need their own watches.
			if err := c.addWatches(w); err != nil {
				c.log.Warn("subject catalog watch refresh failed", "error", err)
			}
		}
	}
}

func (c *Catalog) addWatches(w *fswatcher.Watcher) error {
	return filepath.WalkDir(c.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}
