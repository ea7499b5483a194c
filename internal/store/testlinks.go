package store

import "fmt"

// LinkTest records a test-file-to-source-file association derived during
// indexing (naming convention or import-based, per spec.md section 4.3).
func (s *Store) LinkTest(testFile, sourceFile string) error {
	_, err := s.db.Exec(
		`INSERT INTO test_links (test_file, source_file) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		testFile, sourceFile,
	)
	if err != nil {
		return fmt.Errorf("store: link test %s -> %s: %w", testFile, sourceFile, err)
	}
	return nil
}

// TestsForSource returns every test file linked to a source file.
func (s *Store) TestsForSource(sourceFile string) ([]string, error) {
	rows, err := s.db.Query(`SELECT test_file FROM test_links WHERE source_file = ?`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("store: tests for source: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("store: scan test link: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SourcesForTest returns every source file linked to a test file.
func (s *Store) SourcesForTest(testFile string) ([]string, error) {
	rows, err := s.db.Query(`SELECT source_file FROM test_links WHERE test_file = ?`, testFile)
	if err != nil {
		return nil, fmt.Errorf("store: sources for test: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("store: scan test link: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
