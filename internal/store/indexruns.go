package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RecordIndexRun persists the summary of one completed indexing pass.
func (s *Store) RecordIndexRun(r *IndexRun) error {
	res, err := s.db.Exec(
		`INSERT INTO index_runs (started_ns, duration_ms, files_scanned, files_indexed, files_unchanged, files_deleted, files_skipped, files_reresolved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UnixNano(), r.DurationMS, r.FilesScanned, r.FilesIndexed, r.FilesUnchanged,
		r.FilesDeleted, r.FilesSkipped, r.FilesReresolved,
	)
	if err != nil {
		return fmt.Errorf("store: record index run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: record index run: last insert id: %w", err)
	}
	r.ID = id
	return nil
}

// LatestIndexRun returns the most recently recorded index run, or nil if
// none exist yet.
func (s *Store) LatestIndexRun() (*IndexRun, error) {
	row := s.db.QueryRow(
		`SELECT id, started_ns, duration_ms, files_scanned, files_indexed, files_unchanged, files_deleted, files_skipped, files_reresolved
		 FROM index_runs ORDER BY id DESC LIMIT 1`,
	)
	var r IndexRun
	var startedNS int64
	if err := row.Scan(&r.ID, &startedNS, &r.DurationMS, &r.FilesScanned, &r.FilesIndexed,
		&r.FilesUnchanged, &r.FilesDeleted, &r.FilesSkipped, &r.FilesReresolved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: latest index run: %w", err)
	}
	r.StartedAt = time.Unix(0, startedNS)
	return &r, nil
}

// TotalSymbolCount and TotalEdgeCount back get_index_stats.
func (s *Store) TotalSymbolCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM symbols`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: total symbol count: %w", err)
	}
	return n, nil
}

func (s *Store) TotalEdgeCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: total edge count: %w", err)
	}
	return n, nil
}

func (s *Store) TotalFileCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT file_path) FROM symbols`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: total file count: %w", err)
	}
	return n, nil
}
