package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/navkit/calcontext-mcp/internal/codeindex"
	"github.com/navkit/calcontext-mcp/internal/parser"
	"github.com/navkit/calcontext-mcp/internal/refs"
	"github.com/navkit/calcontext-mcp/internal/symboldb"
	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Loader wires parsed objects into the indexes.
type Loader struct {
	db      *symboldb.Database
	refIdx  *refs.Index
	codeIdx *codeindex.Index // optional
	log     *zap.SugaredLogger
	workers int
}

// Config configures a Loader. Zero values get sensible defaults.
type Config struct {
	Workers int // concurrent parse workers, default runtime.NumCPU()
}

// New creates a Loader over the given indexes. codeIdx may be nil when code
// search is disabled.
func New(db *symboldb.Database, refIdx *refs.Index, codeIdx *codeindex.Index, log *zap.SugaredLogger, cfg Config) *Loader {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Loader{
		db:      db,
		refIdx:  refIdx,
		codeIdx: codeIdx,
		log:     log,
		workers: workers,
	}
}

// Failure records one object that failed to parse.
type Failure struct {
	Path  string `json:"path"`
	Index int    `json:"index"` // position of the object within its file's stream
	Error string `json:"error"`
}

// Report summarizes one load batch.
type Report struct {
	BatchID  string        `json:"batchId"`
	Files    int           `json:"files"`
	Objects  int           `json:"objects"`
	Loaded   int           `json:"loaded"`
	Failed   int           `json:"failed"`
	Failures []Failure     `json:"failures,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// document is one object text awaiting parse.
type document struct {
	path  string
	index int
	text  string
}

// parseOutcome is one parsed object or its failure, fanned in for the
// single-goroutine insert.
type parseOutcome struct {
	doc    document
	entity types.Entity
	err    error
}

// LoadPaths ingests every export file under the given paths: files are
// taken as-is, directories are walked for *.txt. Objects parse concurrently;
// all index mutation happens on one goroutine.
func (l *Loader) LoadPaths(ctx context.Context, paths []string) (*Report, error) {
	started := time.Now()
	report := &Report{
		BatchID: ulid.Make().String(),
		Started: started,
	}

	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}
	report.Files = len(files)

	var docs []document
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for i, obj := range SplitObjects(string(data)) {
			docs = append(docs, document{path: path, index: i, text: obj})
		}
	}
	report.Objects = len(docs)

	outcomes := make(chan parseOutcome, l.workers)
	insertDone := make(chan struct{})
	go func() {
		defer close(insertDone)
		for out := range outcomes {
			if out.err != nil {
				report.Failed++
				report.Failures = append(report.Failures, Failure{
					Path:  out.doc.path,
					Index: out.doc.index,
					Error: out.err.Error(),
				})
				l.log.Warnw("object failed to parse",
					"path", out.doc.path, "index", out.doc.index, "error", out.err)
				continue
			}
			l.db.Insert(out.entity)
			l.refIdx.Put(out.entity)
			if l.codeIdx != nil {
				if err := l.codeIdx.IndexEntity(ctx, out.entity); err != nil {
					l.log.Warnw("code indexing failed",
						"path", out.doc.path, "index", out.doc.index, "error", err)
				}
			}
			report.Loaded++
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for _, doc := range docs {
		g.Go(func() error {
			entity, err := parser.Parse(doc.text)
			select {
			case outcomes <- parseOutcome{doc: doc, entity: entity, err: err}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	err = g.Wait()
	close(outcomes)
	<-insertDone
	if err != nil {
		return nil, err
	}

	report.Duration = time.Since(started)
	l.log.Infow("load complete",
		"batch", report.BatchID,
		"files", report.Files,
		"objects", report.Objects,
		"loaded", report.Loaded,
		"failed", report.Failed,
		"duration", report.Duration)
	return report, nil
}

// collectFiles expands the given paths into export files: directories are
// walked recursively for .txt files, explicit files are taken regardless of
// extension.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(p), ".txt") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}
	return files, nil
}
