package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TouchFileView increments a file's view count and bumps last-accessed.
func (s *Store) TouchFileView(path string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO file_affinity (file_path, view_count, edit_count, last_accessed_ns) VALUES (?, 1, 0, ?)
		 ON CONFLICT(file_path) DO UPDATE SET view_count = file_affinity.view_count + 1, last_accessed_ns = excluded.last_accessed_ns`,
		path, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: touch file view %s: %w", path, err)
	}
	return nil
}

// TouchFileEdit increments a file's edit count and bumps last-accessed.
func (s *Store) TouchFileEdit(path string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO file_affinity (file_path, view_count, edit_count, last_accessed_ns) VALUES (?, 0, 1, ?)
		 ON CONFLICT(file_path) DO UPDATE SET edit_count = file_affinity.edit_count + 1, last_accessed_ns = excluded.last_accessed_ns`,
		path, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: touch file edit %s: %w", path, err)
	}
	return nil
}

// FileAffinityFor returns the affinity record for a file, or nil if it has
// never been viewed or edited.
func (s *Store) FileAffinityFor(path string) (*FileAffinity, error) {
	var fa FileAffinity
	fa.FilePath = path
	var lastNS int64
	err := s.db.QueryRow(
		`SELECT view_count, edit_count, last_accessed_ns FROM file_affinity WHERE file_path = ?`, path,
	).Scan(&fa.ViewCount, &fa.EditCount, &lastNS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: file affinity for %s: %w", path, err)
	}
	fa.LastAccessedAt = time.Unix(0, lastNS)
	return &fa, nil
}

// FileAffinitiesFor batch-loads affinity records for the given files.
func (s *Store) FileAffinitiesFor(paths []string) (map[string]*FileAffinity, error) {
	out := make(map[string]*FileAffinity, len(paths))
	if len(paths) == 0 {
		return out, nil
	}
	q, args := inClause(`SELECT file_path, view_count, edit_count, last_accessed_ns FROM file_affinity WHERE file_path IN (%s)`, paths)
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: file affinities for: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fa FileAffinity
		var lastNS int64
		if err := rows.Scan(&fa.FilePath, &fa.ViewCount, &fa.EditCount, &lastNS); err != nil {
			return nil, fmt.Errorf("store: scan file affinity: %w", err)
		}
		fa.LastAccessedAt = time.Unix(0, lastNS)
		out[fa.FilePath] = &fa
	}
	return out, rows.Err()
}
