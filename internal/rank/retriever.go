package rank

import (
	"fmt"
	"strings"
	"time"

	"github.com/fernbridge/codelens/internal/cache"
	"github.com/fernbridge/codelens/internal/config"
	"github.com/fernbridge/codelens/internal/embedder"
	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/hyde"
	"github.com/fernbridge/codelens/internal/rerank"
	"github.com/fernbridge/codelens/internal/rewrite"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

// cacheMaxEntries bounds the fused-result-set memoization cache; capacity,
// not correctness, is the concern here, so this isn't config-exposed.
const cacheMaxEntries = 256

// rerankTopK is the "top-k (≤50)" ceiling on how many hits the optional
// cross-encoder rerank stage reorders, per spec.md section 4.5.
const rerankTopK = 50

// Retriever ties the query rewriter, the three search branches, fusion,
// scoring adjustments, optional rerank, and diversification into one
// top-level entry point, per spec.md section 4.5.
type Retriever struct {
	Store    *store.Store
	FullText *fulltext.Index
	Vectors  *vectorstore.Store
	Embedder embedder.Embedder
	Rewriter *rewrite.Rewriter
	Reranker rerank.Reranker
	Hyde     hyde.Expander
	Config   *config.Config

	cache *cache.LRU
}

// New builds a Retriever. reranker and expander may be rerank.NoOp{} and
// hyde.NoOp{} respectively when the corresponding feature is disabled.
func New(cfg *config.Config, st *store.Store, ft *fulltext.Index, vs *vectorstore.Store, emb embedder.Embedder, rw *rewrite.Rewriter, rr rerank.Reranker, hy hyde.Expander) *Retriever {
	return &Retriever{
		Store: st, FullText: ft, Vectors: vs, Embedder: emb,
		Rewriter: rw, Reranker: rr, Hyde: hy, Config: cfg,
		cache: cache.New(cacheMaxEntries, 0, nil),
	}
}

// InvalidateCache discards every memoized result set. Callers invoke this
// after a completed indexing run changes the underlying stores.
func (r *Retriever) InvalidateCache() {
	r.cache.Purge()
}

// Search runs the full hybrid retrieval pipeline for query and returns
// ranked hits, along with the rewritten query that produced them (callers
// need rr.Target for Callers(name) edge-only presentation and rr.Terms for
// highlighting).
func (r *Retriever) Search(query string, req Request) ([]*Hit, rewrite.Result, error) {
	rr := r.Rewriter.Rewrite(query)

	cacheKey := fmt.Sprintf("%s|%d|%v", rr.KeywordQuery, req.Limit, req.ExportedOnly)
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]*Hit), rr, nil
	}

	keywordHits, keywordSymbols, err := keywordBranch(r.Store, r.FullText, rr.KeywordQuery, req.ExportedOnly)
	if err != nil {
		return nil, rr, fmt.Errorf("rank: keyword branch: %w", err)
	}

	embedQuery := rr.KeywordQuery
	if r.Hyde.Enabled() {
		expanded, err := r.Hyde.Expand(query)
		if err == nil && expanded != "" {
			embedQuery = expanded
		}
	}
	vectorHits, vectorSymbols, err := vectorBranch(r.Store, r.Vectors, r.Embedder, embedQuery)
	if err != nil {
		return nil, rr, fmt.Errorf("rank: vector branch: %w", err)
	}

	unionIDs := unionSymbolIDs(keywordHits, vectorHits)
	graphOrder, err := graphBranch(r.Store, unionIDs)
	if err != nil {
		return nil, rr, fmt.Errorf("rank: graph branch: %w", err)
	}
	graphSymbols := mergeSymbolMaps(keywordSymbols, vectorSymbols)

	var hits map[string]*Hit
	if r.Config.RRFEnabled {
		hits = fuseRRF(keywordHits, keywordSymbols, vectorHits, vectorSymbols, graphOrder, graphSymbols,
			r.Config.RRFK, r.Config.RRFKeywordWeight, r.Config.RRFVectorWeight, r.Config.RRFGraphWeight)
	} else {
		hits = fuseLinearBlend(keywordHits, keywordSymbols, vectorHits, vectorSymbols,
			r.Config.RankKeywordWeight, r.Config.RankVectorWeight)
	}

	for _, h := range hits {
		applyStructuralAdjustments(h, r.Config.ExportedBoost, rr.Terms)
		applyIntentMultiplier(h, rr.Intent)
		applyDefinitionBias(h, rr.Raw, rr.Intent)
	}

	if err := r.applyPopularity(hits); err != nil {
		return nil, rr, fmt.Errorf("rank: popularity boost: %w", err)
	}
	if r.Config.LearningEnabled {
		if err := r.applyLearning(hits, rr); err != nil {
			return nil, rr, fmt.Errorf("rank: learning boost: %w", err)
		}
	}

	ordered := hitSlice(hits)
	sortByScore(ordered)

	if err := expandGraph(r.Store, ordered, hits); err != nil {
		return nil, rr, fmt.Errorf("rank: graph expansion: %w", err)
	}
	ordered = hitSlice(hits)
	sortByScore(ordered)

	if r.Reranker.Enabled() {
		if err := r.applyRerank(ordered, query); err != nil {
			return nil, rr, fmt.Errorf("rank: rerank: %w", err)
		}
		sortByScore(ordered)
	}

	clusterKeys, err := r.Store.ClusterKeysFor(hitIDs(ordered))
	if err != nil {
		return nil, rr, fmt.Errorf("rank: cluster keys: %w", err)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	final := diversify(ordered, clusterKeys, limit)

	r.cache.Set(cacheKey, final)
	return final, rr, nil
}

func (r *Retriever) applyPopularity(hits map[string]*Hit) error {
	metrics, err := r.Store.SymbolMetricsFor(hitIDs(hitSlice(hits)))
	if err != nil {
		return err
	}
	applyPopularityBoost(hits, metrics, r.Config.PopularityWeight)
	return nil
}

func (r *Retriever) applyLearning(hits map[string]*Hit, rr rewrite.Result) error {
	recorded, err := r.Store.SelectionsForQuery(NormalizedQuery(rr))
	if err != nil {
		return err
	}
	selections := make(map[string][]time.Time)
	for _, sel := range recorded {
		selections[sel.SelectedSymbolID] = append(selections[sel.SelectedSymbolID], sel.Timestamp)
	}
	files := make(map[string]bool)
	for _, h := range hits {
		files[h.Symbol.FilePath] = true
	}
	filePaths := make([]string, 0, len(files))
	for f := range files {
		filePaths = append(filePaths, f)
	}
	affinities, err := r.Store.FileAffinitiesFor(filePaths)
	if err != nil {
		return err
	}
	applyLearningBoosts(hits, selections, affinities, time.Now())
	return nil
}

func (r *Retriever) applyRerank(ordered []*Hit, query string) error {
	n := len(ordered)
	if n > rerankTopK {
		n = rerankTopK
	}
	for _, h := range ordered[:n] {
		score, err := r.Reranker.Score(query, h.Symbol.Source)
		if err != nil {
			return err
		}
		h.Score = 0.5*h.Score + 0.5*10*score
		h.addReason("rerank")
	}
	return nil
}

// NormalizedQuery produces the canonical form of a query used as the key for
// recorded QuerySelections — callers record a selection against this value
// after a search so a later identical query's learning boost can find it.
func NormalizedQuery(rr rewrite.Result) string {
	return strings.ToLower(rr.KeywordQuery)
}

func unionSymbolIDs(keywordHits []fulltext.Hit, vectorHits []vectorstore.Hit) []string {
	seen := make(map[string]bool, len(keywordHits)+len(vectorHits))
	var out []string
	for _, h := range keywordHits {
		if !seen[h.SymbolID] {
			seen[h.SymbolID] = true
			out = append(out, h.SymbolID)
		}
	}
	for _, h := range vectorHits {
		if !seen[h.SymbolID] {
			seen[h.SymbolID] = true
			out = append(out, h.SymbolID)
		}
	}
	return out
}

func mergeSymbolMaps(maps ...map[string]*store.Symbol) map[string]*store.Symbol {
	out := make(map[string]*store.Symbol)
	for _, m := range maps {
		for id, s := range m {
			out[id] = s
		}
	}
	return out
}

func hitSlice(hits map[string]*Hit) []*Hit {
	out := make([]*Hit, 0, len(hits))
	for _, h := range hits {
		out = append(out, h)
	}
	return out
}

func hitIDs(hits []*Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Symbol.ID
	}
	return out
}
