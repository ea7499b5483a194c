package store

import (
	"database/sql"
	"fmt"
)

// UpsertFingerprint writes a file's (mtime_ns, size_bytes). Per spec.md
// section 4.3, this must be the last write in a file's re-index so crash
// recovery re-processes partially-written files.
func (s *Store) UpsertFingerprint(fp *Fingerprint) error {
	_, err := s.db.Exec(
		`INSERT INTO file_fingerprints (path, mtime_ns, size_bytes) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mtime_ns = excluded.mtime_ns, size_bytes = excluded.size_bytes`,
		fp.Path, fp.MtimeNS, fp.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("store: upsert fingerprint %s: %w", fp.Path, err)
	}
	return nil
}

// Fingerprint returns the stored fingerprint for path, or (nil, nil) if absent.
func (s *Store) Fingerprint(path string) (*Fingerprint, error) {
	var fp Fingerprint
	fp.Path = path
	err := s.db.QueryRow(`SELECT mtime_ns, size_bytes FROM file_fingerprints WHERE path = ?`, path).
		Scan(&fp.MtimeNS, &fp.SizeBytes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: fingerprint %s: %w", path, err)
	}
	return &fp, nil
}

// AllFingerprintPaths returns every path with a stored fingerprint, used by
// the scan step to detect filesystem deletions.
func (s *Store) AllFingerprintPaths() ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM file_fingerprints`)
	if err != nil {
		return nil, fmt.Errorf("store: all fingerprint paths: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("store: scan fingerprint path: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteFingerprint removes a file's fingerprint row.
func (s *Store) DeleteFingerprint(path string) error {
	if _, err := s.db.Exec(`DELETE FROM file_fingerprints WHERE path = ?`, path); err != nil {
		return fmt.Errorf("store: delete fingerprint %s: %w", path, err)
	}
	return nil
}
