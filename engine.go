package codelens

import (
	"fmt"

	"github.com/fernbridge/codelens/internal/assemble"
	"github.com/fernbridge/codelens/internal/config"
	"github.com/fernbridge/codelens/internal/embedder"
	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/hyde"
	"github.com/fernbridge/codelens/internal/logging"
	"github.com/fernbridge/codelens/internal/pipeline"
	"github.com/fernbridge/codelens/internal/rank"
	"github.com/fernbridge/codelens/internal/rerank"
	"github.com/fernbridge/codelens/internal/rewrite"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

// Engine owns the three stores, the indexing pipeline, the query rewriter,
// the hybrid retriever, and the context assembler, and is the single
// construction point wiring them together per spec.md section 2's
// component table.
type Engine struct {
	Config *config.Config

	Store    *store.Store
	FullText *fulltext.Index
	Vectors  *vectorstore.Store

	Embedder embedder.Embedder
	Rewriter *rewrite.Rewriter
	Reranker rerank.Reranker
	Hyde     hyde.Expander

	Pipeline  *pipeline.Pipeline
	Retriever *rank.Retriever
	Assembler *assemble.Assembler

	log *logging.Logger
}

// Option configures an Engine before its internal components are wired
// together.
type Option func(*Engine)

// WithReranker swaps in a cross-encoder reranker. Defaults to rerank.NoOp{}.
func WithReranker(r rerank.Reranker) Option {
	return func(e *Engine) { e.Reranker = r }
}

// WithHyde swaps in a hypothetical-document expander. Defaults to hyde.NoOp{}.
func WithHyde(h hyde.Expander) Option {
	return func(e *Engine) { e.Hyde = h }
}

// WithEmbedder overrides the embedder Config.EmbeddingsBackend would
// otherwise select.
func WithEmbedder(emb embedder.Embedder) Option {
	return func(e *Engine) { e.Embedder = emb }
}

// New opens every store at the paths named in cfg, applies opts, and wires
// the pipeline, retriever, and assembler together. Callers must call Close
// when done.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		Config:   cfg,
		Reranker: rerank.NoOp{},
		Hyde:     hyde.NoOp{},
		log:      logging.New("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	e.Store, err = store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("codelens: open store: %w", err)
	}
	e.FullText, err = fulltext.Open(cfg.FullTextIndexDir)
	if err != nil {
		e.Store.Close()
		return nil, fmt.Errorf("codelens: open fulltext index: %w", err)
	}
	e.Vectors, err = vectorstore.Open(cfg.VectorDBPath, cfg.EmbeddingDimension)
	if err != nil {
		e.Store.Close()
		e.FullText.Close()
		return nil, fmt.Errorf("codelens: open vector store: %w", err)
	}

	if e.Embedder == nil {
		e.Embedder = newEmbedder(cfg, e.log)
	}
	e.Rewriter = rewrite.New(cfg)

	e.Pipeline = pipeline.New(cfg, e.Store, e.FullText, e.Vectors, e.Embedder)
	e.Retriever = rank.New(cfg, e.Store, e.FullText, e.Vectors, e.Embedder, e.Rewriter, e.Reranker, e.Hyde)
	e.Assembler = assemble.New(cfg, e.Store)

	return e, nil
}

// newEmbedder selects the configured embedding backend. No neural-embedding
// dependency exists anywhere in the retrieved corpus (checked across every
// manifest), so EMBEDDINGS_BACKEND=neural falls back to the hash backend
// with a warning rather than failing startup — the three-store architecture
// still works end to end, just without a trained model behind the vector
// branch.
func newEmbedder(cfg *config.Config, log *logging.Logger) embedder.Embedder {
	switch cfg.EmbeddingsBackend {
	case config.BackendHash:
		return embedder.NewHashEmbedder(cfg.EmbeddingDimension)
	default:
		log.Warnf("embeddings backend %q has no available implementation, falling back to hash", cfg.EmbeddingsBackend)
		return embedder.NewHashEmbedder(cfg.EmbeddingDimension)
	}
}

// Close releases every open store handle.
func (e *Engine) Close() error {
	var errs []error
	if err := e.Vectors.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.FullText.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("codelens: close: %v", errs)
	}
	return nil
}

// RefreshIndex runs one indexing pass. When paths is empty it scans every
// configured repo root (Pipeline.Run); otherwise it indexes exactly the
// named files (Pipeline.RunFiles). Either way, the retriever's memoized
// result cache is invalidated afterward since the underlying stores
// changed.
func (e *Engine) RefreshIndex(paths []string) (*store.IndexRun, error) {
	var run *store.IndexRun
	var err error
	if len(paths) == 0 {
		run, err = e.Pipeline.Run()
	} else {
		run, err = e.Pipeline.RunFiles(paths)
	}
	if err != nil {
		return nil, err
	}
	e.Retriever.InvalidateCache()
	return run, nil
}

// Watch starts filesystem watch mode over every configured repo root,
// returning a stop function. Each debounced batch invalidates the
// retriever's cache the same way RefreshIndex does.
func (e *Engine) Watch() (stop func() error, err error) {
	e.Pipeline.OnBatch = e.Retriever.InvalidateCache

	var stops []func() error
	for _, root := range e.Config.RepoRoots {
		s, err := e.Pipeline.Watch(root)
		if err != nil {
			for _, prev := range stops {
				prev()
			}
			return nil, fmt.Errorf("codelens: watch %s: %w", root, err)
		}
		stops = append(stops, s)
	}
	return func() error {
		var errs []error
		for _, s := range stops {
			if err := s(); err != nil {
				errs = append(errs, err)
			}
		}
		e.Pipeline.OnBatch = nil
		if len(errs) > 0 {
			return fmt.Errorf("codelens: stop watch: %v", errs)
		}
		return nil
	}, nil
}

// Query returns a new QueryBuilder wrapping this Engine's stores.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{engine: e}
}
