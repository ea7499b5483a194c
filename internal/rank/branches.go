package rank

import (
	"sort"

	"github.com/fernbridge/codelens/internal/embedder"
	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

// branchLimit bounds how many candidates each of the three branches
// contributes before fusion; generous relative to the caller's requested
// limit since fusion, adjustment, and diversification all shrink the set.
const branchLimit = 100

// keywordBranch queries the inverted index and loads the matching symbols.
func keywordBranch(st *store.Store, ft *fulltext.Index, query string, exportedOnly bool) ([]fulltext.Hit, map[string]*store.Symbol, error) {
	hits, err := ft.Search(query, branchLimit, exportedOnly)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.SymbolID
	}
	symbols, err := st.SymbolsByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*store.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}
	return hits, byID, nil
}

// vectorBranch embeds the rewritten query once and runs nearest-neighbor
// search, per spec.md section 4.5.
func vectorBranch(st *store.Store, vs *vectorstore.Store, emb embedder.Embedder, query string) ([]vectorstore.Hit, map[string]*store.Symbol, error) {
	if emb == nil {
		return nil, nil, nil
	}
	vec, err := emb.Embed(query)
	if err != nil {
		return nil, nil, err
	}
	hits, err := vs.Search(vec, branchLimit)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.SymbolID
	}
	symbols, err := st.SymbolsByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*store.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}
	return hits, byID, nil
}

// graphBranch takes the union of the keyword and vector hit ids and
// reorders them by persisted PageRank, per spec.md section 4.5's "Graph
// branch" description.
func graphBranch(st *store.Store, unionIDs []string) ([]string, error) {
	metrics, err := st.SymbolMetricsFor(unionIDs)
	if err != nil {
		return nil, err
	}
	ordered := append([]string{}, unionIDs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return pageRankOf(metrics, ordered[i]) > pageRankOf(metrics, ordered[j])
	})
	return ordered, nil
}

func pageRankOf(metrics map[string]*store.SymbolMetrics, id string) float64 {
	if m, ok := metrics[id]; ok {
		return m.PageRank
	}
	return 0
}
