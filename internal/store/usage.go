package store

import (
	"database/sql"
	"fmt"
)

// InsertUsageExample records one usage occurrence, deduplicated by the full
// tuple per spec.md section 3.
func (s *Store) InsertUsageExample(u *UsageExample) error {
	var fromID any
	if u.FromSymbolID != "" {
		fromID = u.FromSymbolID
	}
	_, err := s.db.Exec(
		`INSERT INTO usage_examples (to_symbol_id, from_symbol_id, type, file, line, snippet)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(to_symbol_id, from_symbol_id, type, file, line) DO UPDATE SET snippet = excluded.snippet`,
		u.ToSymbolID, fromID, u.Type, u.File, u.Line, u.Snippet,
	)
	if err != nil {
		return fmt.Errorf("store: insert usage example: %w", err)
	}
	return nil
}

// UsageExamplesFor returns up to limit stored usage examples for a symbol,
// ordered by file then line for determinism.
func (s *Store) UsageExamplesFor(symbolID string, limit int) ([]*UsageExample, error) {
	rows, err := s.db.Query(
		`SELECT id, to_symbol_id, COALESCE(from_symbol_id, ''), type, file, line, snippet
		 FROM usage_examples WHERE to_symbol_id = ? ORDER BY file, line LIMIT ?`,
		symbolID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: usage examples for: %w", err)
	}
	defer rows.Close()
	var out []*UsageExample
	for rows.Next() {
		var u UsageExample
		if err := rows.Scan(&u.ID, &u.ToSymbolID, &u.FromSymbolID, &u.Type, &u.File, &u.Line, &u.Snippet); err != nil {
			return nil, fmt.Errorf("store: scan usage example: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// CountUsageExamples returns how many usage examples of the given type are
// already stored for a symbol — used to enforce the per-symbol reference cap.
func (s *Store) CountUsageExamples(symbolID, typ string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM usage_examples WHERE to_symbol_id = ? AND type = ?`, symbolID, typ,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count usage examples: %w", err)
	}
	return n, nil
}

// PeersInCluster returns every other symbol id sharing symbolID's cluster.
func (s *Store) PeersInCluster(symbolID string, limit int) ([]*Symbol, error) {
	var key string
	err := s.db.QueryRow(`SELECT cluster_key FROM similarity_clusters WHERE symbol_id = ?`, symbolID).Scan(&key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: peers in cluster: %w", err)
	}
	rows, err := s.db.Query(
		`SELECT `+symbolCols+` FROM symbols s
		 JOIN similarity_clusters c ON c.symbol_id = s.id
		 WHERE c.cluster_key = ? AND s.id != ? LIMIT ?`,
		key, symbolID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: peers in cluster query: %w", err)
	}
	defer rows.Close()
	var out []*Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan peer symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
