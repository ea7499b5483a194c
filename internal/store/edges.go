package store

import (
	"database/sql"
	"fmt"
)

const edgeCols = `from_id, to_id, type, file, line, confidence, evidence_count, resolution, resolution_rank`

func scanEdge(row interface{ Scan(...any) error }) (*Edge, error) {
	var e Edge
	var file sql.NullString
	var line sql.NullInt64
	if err := row.Scan(&e.FromID, &e.ToID, &e.Type, &file, &line, &e.Confidence,
		&e.EvidenceCount, &e.Resolution, &e.ResolutionRank); err != nil {
		return nil, err
	}
	e.File = file.String
	e.Line = int(line.Int64)
	return &e, nil
}

// UpsertEdge merges an edge into the store using the monotone rule from
// spec.md section 3: resolution and confidence may only improve (max of
// old/new by rank, max of confidence, max of evidence_count). Implemented
// as a single conditional-assignment statement, never read-modify-write,
// per spec.md section 9.
func (s *Store) UpsertEdge(e *Edge) error {
	e.ResolutionRank = ResolutionRank(e.Resolution)
	_, err := s.db.Exec(
		`INSERT INTO edges (`+edgeCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(from_id, to_id, type) DO UPDATE SET
		   file            = CASE WHEN excluded.resolution_rank > edges.resolution_rank THEN excluded.file ELSE edges.file END,
		   line            = CASE WHEN excluded.resolution_rank > edges.resolution_rank THEN excluded.line ELSE edges.line END,
		   confidence      = MAX(edges.confidence, excluded.confidence),
		   evidence_count  = MAX(edges.evidence_count, excluded.evidence_count),
		   resolution      = CASE WHEN excluded.resolution_rank > edges.resolution_rank THEN excluded.resolution ELSE edges.resolution END,
		   resolution_rank = MAX(edges.resolution_rank, excluded.resolution_rank)`,
		e.FromID, e.ToID, e.Type, e.File, e.Line, e.Confidence, e.EvidenceCount, e.Resolution, e.ResolutionRank,
	)
	if err != nil {
		return fmt.Errorf("store: upsert edge %s->%s(%s): %w", e.FromID, e.ToID, e.Type, err)
	}
	return nil
}

// AppendEdgeEvidence records or bumps one (edge, file, line) occurrence.
func (s *Store) AppendEdgeEvidence(ev *EdgeEvidence) error {
	_, err := s.db.Exec(
		`INSERT INTO edge_evidence (from_id, to_id, type, file, line, occurrence_count)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(from_id, to_id, type, file, line) DO UPDATE SET
		   occurrence_count = edge_evidence.occurrence_count + excluded.occurrence_count`,
		ev.FromID, ev.ToID, ev.Type, ev.File, ev.Line, ev.OccurrenceCount,
	)
	if err != nil {
		return fmt.Errorf("store: append edge evidence: %w", err)
	}
	return nil
}

// EdgeEvidenceFor returns every evidence row for one edge, ordered by file/line.
func (s *Store) EdgeEvidenceFor(fromID, toID, edgeType string) ([]*EdgeEvidence, error) {
	rows, err := s.db.Query(
		`SELECT from_id, to_id, type, file, line, occurrence_count FROM edge_evidence
		 WHERE from_id = ? AND to_id = ? AND type = ? ORDER BY file, line`,
		fromID, toID, edgeType,
	)
	if err != nil {
		return nil, fmt.Errorf("store: edge evidence for: %w", err)
	}
	defer rows.Close()
	var out []*EdgeEvidence
	for rows.Next() {
		var ev EdgeEvidence
		if err := rows.Scan(&ev.FromID, &ev.ToID, &ev.Type, &ev.File, &ev.Line, &ev.OccurrenceCount); err != nil {
			return nil, fmt.Errorf("store: scan edge evidence: %w", err)
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}

func (s *Store) queryEdges(query string, args ...any) ([]*Edge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query edges: %w", err)
	}
	defer rows.Close()
	var out []*Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// OutgoingEdges returns edges leaving fromID, optionally filtered by type.
func (s *Store) OutgoingEdges(fromID string, types ...string) ([]*Edge, error) {
	if len(types) == 0 {
		return s.queryEdges(`SELECT `+edgeCols+` FROM edges WHERE from_id = ?`, fromID)
	}
	q, args := inClause(`SELECT `+edgeCols+` FROM edges WHERE from_id = ? AND type IN (%s)`, types)
	return s.queryEdges(q, append([]any{fromID}, args...)...)
}

// IncomingEdges returns edges arriving at toID, optionally filtered by type.
func (s *Store) IncomingEdges(toID string, types ...string) ([]*Edge, error) {
	if len(types) == 0 {
		return s.queryEdges(`SELECT `+edgeCols+` FROM edges WHERE to_id = ?`, toID)
	}
	q, args := inClause(`SELECT `+edgeCols+` FROM edges WHERE to_id = ? AND type IN (%s)`, types)
	return s.queryEdges(q, append([]any{toID}, args...)...)
}

// AllEdges returns every edge, for bulk-loading into the post-pass
// adjacency list (PageRank) or the retriever's graph branch.
func (s *Store) AllEdges() ([]*Edge, error) {
	return s.queryEdges(`SELECT ` + edgeCols + ` FROM edges`)
}
