package store

import "fmt"

// UpsertSymbolMetrics replaces one symbol's centrality record, written by
// the indexing pipeline's post-pass after every full recomputation.
func (s *Store) UpsertSymbolMetrics(m *SymbolMetrics) error {
	_, err := s.db.Exec(
		`INSERT INTO symbol_metrics (symbol_id, pagerank, in_degree, out_degree) VALUES (?, ?, ?, ?)
		 ON CONFLICT(symbol_id) DO UPDATE SET pagerank=excluded.pagerank, in_degree=excluded.in_degree, out_degree=excluded.out_degree`,
		m.SymbolID, m.PageRank, m.InDegree, m.OutDegree,
	)
	if err != nil {
		return fmt.Errorf("store: upsert symbol metrics %s: %w", m.SymbolID, err)
	}
	return nil
}

// SymbolMetricsFor batch-loads centrality records for the given symbol ids.
// Ids with no recorded metrics (isolated symbols, or metrics not yet
// recomputed) are simply absent from the result.
func (s *Store) SymbolMetricsFor(ids []string) (map[string]*SymbolMetrics, error) {
	out := make(map[string]*SymbolMetrics, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args := inClause(`SELECT symbol_id, pagerank, in_degree, out_degree FROM symbol_metrics WHERE symbol_id IN (%s)`, ids)
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: symbol metrics for: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m SymbolMetrics
		if err := rows.Scan(&m.SymbolID, &m.PageRank, &m.InDegree, &m.OutDegree); err != nil {
			return nil, fmt.Errorf("store: scan symbol metrics: %w", err)
		}
		out[m.SymbolID] = &m
	}
	return out, rows.Err()
}

// AllSymbolMetrics loads every centrality record, for callers that need the
// whole-index maximum (the popularity boost's normalization denominator is
// scoped to the current result set instead, but index-wide stats and
// get_index_stats use this).
func (s *Store) AllSymbolMetrics() (map[string]*SymbolMetrics, error) {
	rows, err := s.db.Query(`SELECT symbol_id, pagerank, in_degree, out_degree FROM symbol_metrics`)
	if err != nil {
		return nil, fmt.Errorf("store: all symbol metrics: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*SymbolMetrics)
	for rows.Next() {
		var m SymbolMetrics
		if err := rows.Scan(&m.SymbolID, &m.PageRank, &m.InDegree, &m.OutDegree); err != nil {
			return nil, fmt.Errorf("store: scan symbol metrics: %w", err)
		}
		out[m.SymbolID] = &m
	}
	return out, rows.Err()
}

// UpsertSimilarityCluster assigns a symbol to a cluster key, computed by the
// indexing pipeline's post-pass from (kind, normalized source).
func (s *Store) UpsertSimilarityCluster(symbolID, clusterKey string) error {
	_, err := s.db.Exec(
		`INSERT INTO similarity_clusters (symbol_id, cluster_key) VALUES (?, ?)
		 ON CONFLICT(symbol_id) DO UPDATE SET cluster_key=excluded.cluster_key`,
		symbolID, clusterKey,
	)
	if err != nil {
		return fmt.Errorf("store: upsert similarity cluster %s: %w", symbolID, err)
	}
	return nil
}

// ClusterKeysFor batch-loads the cluster key assigned to each of the given
// symbol ids, used by the retriever's diversification pass.
func (s *Store) ClusterKeysFor(ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args := inClause(`SELECT symbol_id, cluster_key FROM similarity_clusters WHERE symbol_id IN (%s)`, ids)
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: cluster keys for: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, fmt.Errorf("store: scan cluster key: %w", err)
		}
		out[id] = key
	}
	return out, rows.Err()
}

// SymbolsInCluster returns every symbol id sharing a cluster key, used by
// the get_similarity_cluster tool.
func (s *Store) SymbolsInCluster(clusterKey string) ([]string, error) {
	rows, err := s.db.Query(`SELECT symbol_id FROM similarity_clusters WHERE cluster_key = ?`, clusterKey)
	if err != nil {
		return nil, fmt.Errorf("store: symbols in cluster: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan cluster member: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
