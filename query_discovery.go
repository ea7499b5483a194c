package codelens

import (
	"time"

	"github.com/fernbridge/codelens/internal/rank"
	"github.com/fernbridge/codelens/internal/store"
)

// IndexStats summarizes the current index state plus its most recent run,
// backing the get_index_stats tool.
type IndexStats struct {
	Symbols   int
	Edges     int
	Files     int
	LatestRun *store.IndexRun
}

// GetIndexStats reports symbol/edge/file totals and the most recent
// IndexRun record.
func (q *QueryBuilder) GetIndexStats() (*IndexStats, error) {
	symbols, err := q.engine.Store.TotalSymbolCount()
	if err != nil {
		return nil, err
	}
	edges, err := q.engine.Store.TotalEdgeCount()
	if err != nil {
		return nil, err
	}
	files, err := q.engine.Store.TotalFileCount()
	if err != nil {
		return nil, err
	}
	latest, err := q.engine.Store.LatestIndexRun()
	if err != nil {
		return nil, err
	}
	return &IndexStats{Symbols: symbols, Edges: edges, Files: files, LatestRun: latest}, nil
}

// GetSimilarityCluster returns the near-duplicate peers of every symbol
// matching symbol_name, backing the get_similarity_cluster tool.
func (q *QueryBuilder) GetSimilarityCluster(name, file string, limit int) ([]*store.Symbol, error) {
	syms, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	limit = withDefault(limit, defaultSearchLimit)

	var peers []*store.Symbol
	for _, sym := range syms {
		p, err := q.engine.Store.PeersInCluster(sym.ID, limit-len(peers))
		if err != nil {
			return nil, err
		}
		peers = append(peers, p...)
		if len(peers) >= limit {
			break
		}
	}
	return peers, nil
}

// ReportSelection records which ranked result a caller actually used for a
// query, normalizing the query text the same way the retriever does so the
// record joins back to future identical queries, backing the
// report_selection tool. The retriever's cache is invalidated since
// learning boosts are computed at search time from selection history.
func (q *QueryBuilder) ReportSelection(queryText, selectedSymbolID string, position int) error {
	rr := q.engine.Rewriter.Rewrite(queryText)
	sel := &store.QuerySelection{
		QueryText:        queryText,
		QueryNormalized:  rank.NormalizedQuery(rr),
		SelectedSymbolID: selectedSymbolID,
		Position:         position,
		Timestamp:        time.Now(),
	}
	if err := q.engine.Store.RecordQuerySelection(sel); err != nil {
		return err
	}
	q.engine.Retriever.InvalidateCache()
	return nil
}
