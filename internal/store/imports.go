package store

import "fmt"

// ReplaceImports stores the import statements found in one file, replacing
// any rows left over from a prior index of the same path. Callers run this
// after deleteProjections and before edge resolution, since resolution's
// import tier depends on the current file's own import list already being
// durable.
func (s *Store) ReplaceImports(filePath string, imports []Import) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: replace imports: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM imports WHERE file_path = ?`, filePath); err != nil {
		return fmt.Errorf("store: replace imports: delete: %w", err)
	}
	for _, imp := range imports {
		if _, err := tx.Exec(
			`INSERT INTO imports (file_path, import_path, line) VALUES (?, ?, ?)`,
			filePath, imp.ImportPath, imp.Line,
		); err != nil {
			return fmt.Errorf("store: replace imports: insert: %w", err)
		}
	}
	return tx.Commit()
}

// ImportsForFile returns the import statements recorded for a file.
func (s *Store) ImportsForFile(filePath string) ([]Import, error) {
	rows, err := s.db.Query(`SELECT import_path, line FROM imports WHERE file_path = ?`, filePath)
	if err != nil {
		return nil, fmt.Errorf("store: imports for file: %w", err)
	}
	defer rows.Close()
	var out []Import
	for rows.Next() {
		imp := Import{FilePath: filePath}
		if err := rows.Scan(&imp.ImportPath, &imp.Line); err != nil {
			return nil, fmt.Errorf("store: scan import: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// FilesByStem returns every indexed file path whose directory-plus-stem
// (the path with its extension removed) matches stem, either exactly or as
// a path suffix. Used by edge resolution's import tier to turn a written
// import path into the set of indexed files it could plausibly name — a
// relative import resolves to an exact stem, a package-style import
// (pkg/sub, com.foo.Bar, @scope/pkg) resolves by suffix.
func (s *Store) FilesByStem(stem string) ([]string, error) {
	if stem == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT DISTINCT file_path FROM symbols WHERE file_path = ? OR file_path LIKE ? OR file_path LIKE ?`,
		stem, stem+".%", "%/"+stem+".%",
	)
	if err != nil {
		return nil, fmt.Errorf("store: files by stem: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("store: scan file stem match: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
