package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fernbridge/codelens/internal/config"
	"github.com/fernbridge/codelens/internal/embedder"
	"github.com/fernbridge/codelens/internal/extract"
	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/idgen"
	"github.com/fernbridge/codelens/internal/logging"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

// Pipeline orchestrates one full indexing pass: scan, fingerprint-skip,
// parallel per-file extraction, deletion of vanished files, and the
// centrality/clustering post-pass from spec.md section 4.3.
type Pipeline struct {
	Indexer *Indexer
	Config  *config.Config
	Log     *logging.Logger

	// OnBatch, if set, is called after every debounced watch-mode batch is
	// applied. Callers use it to invalidate caches that sit above the
	// pipeline (the retriever's fused-result cache) without this package
	// depending on rank.
	OnBatch func()

	runMu sync.Mutex // serializes Run against itself and watch-mode events
}

// New builds a Pipeline from an already-open set of stores.
func New(cfg *config.Config, st *store.Store, ft *fulltext.Index, vs *vectorstore.Store, emb embedder.Embedder) *Pipeline {
	return &Pipeline{
		Indexer: &Indexer{Store: st, FullText: ft, Vectors: vs, Embedder: emb},
		Config:  cfg,
		Log:     logging.New("pipeline"),
	}
}

// Run executes one indexing pass over every configured repo root and
// records the resulting IndexRun summary.
func (p *Pipeline) Run() (*store.IndexRun, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	startedAt := time.Now()
	run := &store.IndexRun{StartedAt: startedAt}

	var allPaths []string
	for _, root := range p.Config.RepoRoots {
		paths, err := ScanRoot(root, nil, func(path string) bool {
			_, ok := extract.LanguageForFile(path)
			return ok
		})
		if err != nil {
			return nil, fmt.Errorf("pipeline: scan %s: %w", root, err)
		}
		allPaths = append(allPaths, paths...)
	}
	run.FilesScanned = len(allPaths)
	p.Log.Infof("scanned %d files across %d root(s)", len(allPaths), len(p.Config.RepoRoots))

	if err := p.handleDeletions(allPaths, run); err != nil {
		return nil, err
	}
	if err := p.indexFiles(allPaths, run); err != nil {
		return nil, err
	}
	if err := p.recomputeCentrality(); err != nil {
		return nil, fmt.Errorf("pipeline: centrality post-pass: %w", err)
	}
	if err := p.recomputeClusters(); err != nil {
		return nil, fmt.Errorf("pipeline: clustering post-pass: %w", err)
	}

	run.DurationMS = time.Since(startedAt).Milliseconds()
	if err := p.Indexer.Store.RecordIndexRun(run); err != nil {
		return nil, fmt.Errorf("pipeline: record index run: %w", err)
	}
	p.Log.Infof("indexed=%d unchanged=%d deleted=%d skipped=%d in %dms",
		run.FilesIndexed, run.FilesUnchanged, run.FilesDeleted, run.FilesSkipped, run.DurationMS)
	return run, nil
}

// RunFiles indexes exactly the given paths rather than a full root scan,
// backing refresh_index's "files" argument. It runs the same per-file
// worker pool and post-pass centrality/clustering recompute as Run, but
// skips the scan step and vanished-file deletion handling since the caller
// names the files explicitly.
func (p *Pipeline) RunFiles(paths []string) (*store.IndexRun, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	startedAt := time.Now()
	run := &store.IndexRun{StartedAt: startedAt, FilesScanned: len(paths)}

	if err := p.indexFiles(paths, run); err != nil {
		return nil, err
	}
	if err := p.recomputeCentrality(); err != nil {
		return nil, fmt.Errorf("pipeline: centrality post-pass: %w", err)
	}
	if err := p.recomputeClusters(); err != nil {
		return nil, fmt.Errorf("pipeline: clustering post-pass: %w", err)
	}

	run.DurationMS = time.Since(startedAt).Milliseconds()
	if err := p.Indexer.Store.RecordIndexRun(run); err != nil {
		return nil, fmt.Errorf("pipeline: record index run: %w", err)
	}
	p.Log.Infof("indexed=%d unchanged=%d skipped=%d in %dms (targeted refresh)",
		run.FilesIndexed, run.FilesUnchanged, run.FilesSkipped, run.DurationMS)
	return run, nil
}

// handleDeletions cascades store cleanup for every fingerprinted path that
// no longer exists on disk, per spec.md section 4.3's scan-step contract.
func (p *Pipeline) handleDeletions(currentPaths []string, run *store.IndexRun) error {
	known, err := p.Indexer.Store.AllFingerprintPaths()
	if err != nil {
		return fmt.Errorf("pipeline: list fingerprints: %w", err)
	}
	present := make(map[string]bool, len(currentPaths))
	for _, path := range currentPaths {
		present[path] = true
	}
	for _, path := range known {
		if present[path] {
			continue
		}
		if err := p.Indexer.DeleteFile(path); err != nil {
			return fmt.Errorf("pipeline: delete vanished file %s: %w", path, err)
		}
		run.FilesDeleted++
	}
	return nil
}

// indexFiles runs IndexFile for every path using a bounded worker pool
// sized from Config.ParallelWorkers, the same prepare/extract/commit shape
// as the teacher's engine_parallel.go expressed with errgroup instead of a
// hand-rolled channel/WaitGroup pair.
func (p *Pipeline) indexFiles(paths []string, run *store.IndexRun) error {
	limit := p.Config.ParallelWorkers
	if limit <= 0 {
		limit = 1
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			outcome, err := indexWithRetry(path, p.Indexer)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case OutcomeIndexed:
				run.FilesIndexed++
			case OutcomeUnchanged:
				run.FilesUnchanged++
			case OutcomeSkipped:
				run.FilesSkipped++
			}
			if err != nil {
				p.Log.Warnf("index %s: %v", path, err)
			}
			return nil // one file's failure never aborts the whole run
		})
	}
	return g.Wait()
}

func indexWithRetry(path string, ix *Indexer) (FileOutcome, error) {
	var outcome FileOutcome
	err := withRetry(3, 100*time.Millisecond, func() error {
		var innerErr error
		outcome, innerErr = ix.IndexFile(path)
		return innerErr
	})
	return outcome, err
}

// recomputeCentrality reloads every symbol and edge and rewrites PageRank
// and in/out degree for the whole graph.
func (p *Pipeline) recomputeCentrality() error {
	ids, err := p.Indexer.Store.AllSymbolIDs()
	if err != nil {
		return err
	}
	edges, err := p.Indexer.Store.AllEdges()
	if err != nil {
		return err
	}

	ranks := PageRank(ids, edges, p.Config.PagerankDamping, p.Config.PagerankIterations)
	inDeg, outDeg := Degrees(ids, edges)
	for _, id := range ids {
		if err := p.Indexer.Store.UpsertSymbolMetrics(&store.SymbolMetrics{
			SymbolID: id, PageRank: ranks[id], InDegree: inDeg[id], OutDegree: outDeg[id],
		}); err != nil {
			return err
		}
	}
	return nil
}

// recomputeClusters buckets every symbol into a duplicate cluster keyed on
// its kind and its whitespace-collapsed body (exact match), backing the
// diversification step of the hybrid retriever and the similarity-cluster
// lookup tool.
func (p *Pipeline) recomputeClusters() error {
	ids, err := p.Indexer.Store.AllSymbolIDs()
	if err != nil {
		return err
	}
	symbols, err := p.Indexer.Store.SymbolsByIDs(ids)
	if err != nil {
		return err
	}
	for _, sym := range symbols {
		key := idgen.ClusterKey(sym.Kind, normalizeForCluster(sym.Source))
		if err := p.Indexer.Store.UpsertSimilarityCluster(sym.ID, key); err != nil {
			return err
		}
	}
	return nil
}

// normalizeForCluster collapses whitespace so bodies that differ only in
// formatting land in the same cluster bucket.
func normalizeForCluster(source string) string {
	fields := strings.Fields(source)
	return strings.Join(fields, " ")
}
