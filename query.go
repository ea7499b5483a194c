package codelens

import (
	"sort"
	"time"

	"github.com/fernbridge/codelens/internal/assemble"
	"github.com/fernbridge/codelens/internal/rank"
	"github.com/fernbridge/codelens/internal/store"
)

// QueryBuilder provides the read-oriented query surface over an Engine's
// stores — the operations backing the tool-call protocol's 13 tools.
type QueryBuilder struct {
	engine *Engine
}

const defaultSearchLimit = 20

func withDefault(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

// resolveSymbols looks up every symbol named name, optionally restricted to
// one file. Most graph-facing tools accept an ambiguous (no-file) name and
// simply treat every match as a seed.
func (q *QueryBuilder) resolveSymbols(name, file string) ([]*store.Symbol, error) {
	return q.engine.Store.SymbolsByName(name, file)
}

// SearchHit is one ranked search result, with the scoring reasons the
// hybrid retriever attached for debuggability.
type SearchHit struct {
	ID        string
	FilePath  string
	StartLine int
	EndLine   int
	Kind      string
	Name      string
	Exported  bool
	Score     float64
	Reasons   []string
}

// SearchStats reports where time went in one search_code call, plus the
// intent the rewriter classified the query as.
type SearchStats struct {
	RewriteIntent string
	RetrieveMS    int64
	AssembleMS    int64
	TotalMS       int64
}

// SearchResult is search_code's result shape: ranked hits, an assembled
// context bundle built from those hits, and timing stats.
type SearchResult struct {
	Hits    []SearchHit
	Context []*assemble.Item
	Stats   SearchStats
}

// SearchCode runs the full hybrid retrieval pipeline and assembles a
// token-budgeted context bundle from the results, backing the search_code
// tool.
func (q *QueryBuilder) SearchCode(query string, limit int, exportedOnly bool) (*SearchResult, error) {
	started := time.Now()
	req := rank.Request{Limit: withDefault(limit, defaultSearchLimit), ExportedOnly: exportedOnly}

	hits, rr, err := q.engine.Retriever.Search(query, req)
	if err != nil {
		return nil, err
	}
	retrieveMS := time.Since(started).Milliseconds()

	roots := make([]*store.Symbol, len(hits))
	searchHits := make([]SearchHit, len(hits))
	for i, h := range hits {
		roots[i] = h.Symbol
		searchHits[i] = SearchHit{
			ID: h.Symbol.ID, FilePath: h.Symbol.FilePath, StartLine: h.Symbol.StartLine,
			EndLine: h.Symbol.EndLine, Kind: h.Symbol.Kind, Name: h.Symbol.Name,
			Exported: h.Symbol.Exported, Score: h.Score, Reasons: h.Reasons,
		}
	}

	assembleStarted := time.Now()
	items, err := q.engine.Assembler.Assemble(roots, 0)
	if err != nil {
		return nil, err
	}
	assembleMS := time.Since(assembleStarted).Milliseconds()

	return &SearchResult{
		Hits:    searchHits,
		Context: items,
		Stats: SearchStats{
			RewriteIntent: string(rr.Intent),
			RetrieveMS:    retrieveMS,
			AssembleMS:    assembleMS,
			TotalMS:       time.Since(started).Milliseconds(),
		},
	}, nil
}

// GetDefinition resolves symbol_name (optionally scoped to file) to its
// full declaration(s), backing the get_definition tool. With no file,
// every matching symbol is returned — SPEC_FULL.md's resolution of the
// "all matches vs top-ranked" open question — ordered exported desc, then
// file_path asc, then declaration byte offset asc, capped by limit
// (default 20).
func (q *QueryBuilder) GetDefinition(name, file string, limit int) ([]*store.Symbol, error) {
	syms, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(syms, func(i, j int) bool {
		a, b := syms[i], syms[j]
		if a.Exported != b.Exported {
			return a.Exported
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.StartByte < b.StartByte
	})
	limit = withDefault(limit, defaultSearchLimit)
	if len(syms) > limit {
		syms = syms[:limit]
	}
	return syms, nil
}
