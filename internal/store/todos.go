package store

import "fmt"

// ReplaceTODOs stores a file's TODO/FIXME/XXX comment occurrences,
// replacing any rows left over from a prior index of the same path.
func (s *Store) ReplaceTODOs(filePath string, todos []TODOItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: replace todos: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM todos WHERE file_path = ?`, filePath); err != nil {
		return fmt.Errorf("store: replace todos: delete: %w", err)
	}
	for _, t := range todos {
		if _, err := tx.Exec(
			`INSERT INTO todos (file_path, text, line) VALUES (?, ?, ?)`,
			filePath, t.Text, t.Line,
		); err != nil {
			return fmt.Errorf("store: replace todos: insert: %w", err)
		}
	}
	return tx.Commit()
}

// TODOsForFile returns the TODO occurrences recorded for a file, in line order.
func (s *Store) TODOsForFile(filePath string) ([]TODOItem, error) {
	rows, err := s.db.Query(`SELECT text, line FROM todos WHERE file_path = ? ORDER BY line`, filePath)
	if err != nil {
		return nil, fmt.Errorf("store: todos for file: %w", err)
	}
	defer rows.Close()
	var out []TODOItem
	for rows.Next() {
		t := TODOItem{FilePath: filePath}
		if err := rows.Scan(&t.Text, &t.Line); err != nil {
			return nil, fmt.Errorf("store: scan todo: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
