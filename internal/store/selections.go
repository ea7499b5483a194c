package store

import (
	"fmt"
	"time"
)

// RecordQuerySelection appends one "user picked this hit" event. These are
// never updated or deleted in place — the learning boost reads the whole
// append-only log and applies its own time decay at read time.
func (s *Store) RecordQuerySelection(sel *QuerySelection) error {
	_, err := s.db.Exec(
		`INSERT INTO query_selections (query_text, query_normalized, selected_symbol_id, position, timestamp_ns)
		 VALUES (?, ?, ?, ?, ?)`,
		sel.QueryText, sel.QueryNormalized, sel.SelectedSymbolID, sel.Position, sel.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: record query selection: %w", err)
	}
	return nil
}

// SelectionsForQuery returns every recorded selection whose normalized query
// matches queryNormalized, most recent first.
func (s *Store) SelectionsForQuery(queryNormalized string) ([]*QuerySelection, error) {
	rows, err := s.db.Query(
		`SELECT query_text, query_normalized, selected_symbol_id, position, timestamp_ns
		 FROM query_selections WHERE query_normalized = ? ORDER BY timestamp_ns DESC`,
		queryNormalized,
	)
	if err != nil {
		return nil, fmt.Errorf("store: selections for query: %w", err)
	}
	defer rows.Close()
	var out []*QuerySelection
	for rows.Next() {
		var sel QuerySelection
		var ts int64
		if err := rows.Scan(&sel.QueryText, &sel.QueryNormalized, &sel.SelectedSymbolID, &sel.Position, &ts); err != nil {
			return nil, fmt.Errorf("store: scan query selection: %w", err)
		}
		sel.Timestamp = time.Unix(0, ts)
		out = append(out, &sel)
	}
	return out, rows.Err()
}

// SelectionTimestampsForSymbols batch-loads, per symbol id, every selection
// timestamp recorded for it across all queries.
func (s *Store) SelectionTimestampsForSymbols(ids []string) (map[string][]time.Time, error) {
	out := make(map[string][]time.Time, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args := inClause(`SELECT selected_symbol_id, timestamp_ns FROM query_selections WHERE selected_symbol_id IN (%s)`, ids)
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: selection timestamps for symbols: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var ts int64
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("store: scan selection timestamp: %w", err)
		}
		out[id] = append(out[id], time.Unix(0, ts))
	}
	return out, rows.Err()
}
