package store

import "fmt"

// AddDecorator records one decorator/annotation text on a symbol (Python
// @decorator, Java @Annotation). A symbol's decorators are always written
// fresh alongside the symbol itself, so no replace variant is needed —
// DeleteFileData clears them by symbol id before a file is re-extracted.
func (s *Store) AddDecorator(symbolID, decorator string) error {
	_, err := s.db.Exec(
		`INSERT INTO symbol_decorators (symbol_id, decorator) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		symbolID, decorator,
	)
	if err != nil {
		return fmt.Errorf("store: add decorator %s on %s: %w", decorator, symbolID, err)
	}
	return nil
}

// DecoratorsFor returns every decorator recorded on a symbol.
func (s *Store) DecoratorsFor(symbolID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT decorator FROM symbol_decorators WHERE symbol_id = ?`, symbolID)
	if err != nil {
		return nil, fmt.Errorf("store: decorators for: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("store: scan decorator: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
