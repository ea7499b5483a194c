package store

import (
	"database/sql"
	"fmt"
	"time"
)

const symbolCols = `id, file_path, language, kind, name, exported, start_byte, end_byte, start_line, end_line, source, updated_at`

func scanSymbol(row interface{ Scan(...any) error }) (*Symbol, error) {
	var s Symbol
	var exported int
	var updatedAt int64
	if err := row.Scan(&s.ID, &s.FilePath, &s.Language, &s.Kind, &s.Name, &exported,
		&s.StartByte, &s.EndByte, &s.StartLine, &s.EndLine, &s.Source, &updatedAt); err != nil {
		return nil, err
	}
	s.Exported = exported != 0
	s.UpdatedAt = time.Unix(0, updatedAt)
	return &s, nil
}

// UpsertSymbol inserts or replaces a symbol row keyed by id.
func (s *Store) UpsertSymbol(sym *Symbol) error {
	_, err := s.db.Exec(
		`INSERT INTO symbols (`+symbolCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   file_path=excluded.file_path, language=excluded.language, kind=excluded.kind,
		   name=excluded.name, exported=excluded.exported, start_byte=excluded.start_byte,
		   end_byte=excluded.end_byte, start_line=excluded.start_line, end_line=excluded.end_line,
		   source=excluded.source, updated_at=excluded.updated_at`,
		sym.ID, sym.FilePath, sym.Language, sym.Kind, sym.Name, boolToInt(sym.Exported),
		sym.StartByte, sym.EndByte, sym.StartLine, sym.EndLine, sym.Source, sym.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: upsert symbol %s: %w", sym.ID, err)
	}
	return nil
}

// SymbolByID fetches one symbol by id.
func (s *Store) SymbolByID(id string) (*Symbol, error) {
	row := s.db.QueryRow(`SELECT `+symbolCols+` FROM symbols WHERE id = ?`, id)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: symbol by id: %w", err)
	}
	return sym, nil
}

// SymbolsByIDs fetches many symbols in one query, preserving no particular order.
func (s *Store) SymbolsByIDs(ids []string) ([]*Symbol, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args := inClause(`SELECT `+symbolCols+` FROM symbols WHERE id IN (%s)`, ids)
	return s.querySymbols(q, args...)
}

// SymbolsByName returns every symbol with the given display name, optionally
// restricted to one file.
func (s *Store) SymbolsByName(name, file string) ([]*Symbol, error) {
	if file != "" {
		return s.querySymbols(`SELECT `+symbolCols+` FROM symbols WHERE name = ? AND file_path = ?`, name, file)
	}
	return s.querySymbols(`SELECT `+symbolCols+` FROM symbols WHERE name = ?`, name)
}

// SymbolsByFile returns every symbol declared in a file, in declaration order.
func (s *Store) SymbolsByFile(file string, exportedOnly bool) ([]*Symbol, error) {
	if exportedOnly {
		return s.querySymbols(`SELECT `+symbolCols+` FROM symbols WHERE file_path = ? AND exported = 1 ORDER BY start_byte`, file)
	}
	return s.querySymbols(`SELECT `+symbolCols+` FROM symbols WHERE file_path = ? ORDER BY start_byte`, file)
}

// LocalSymbolByName returns a symbol named name declared in file, or nil if
// there is none — used by edge resolution's "local name match" rule.
func (s *Store) LocalSymbolByName(file, name string) (*Symbol, error) {
	row := s.db.QueryRow(`SELECT `+symbolCols+` FROM symbols WHERE file_path = ? AND name = ? LIMIT 1`, file, name)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: local symbol by name: %w", err)
	}
	return sym, nil
}

// GlobalExportedSymbolsByName returns every exported symbol across the index with
// this name — used by edge resolution's heuristic global-match rule. An
// ambiguous (len > 1) result means the caller should drop the edge.
func (s *Store) GlobalExportedSymbolsByName(name string) ([]*Symbol, error) {
	return s.querySymbols(`SELECT `+symbolCols+` FROM symbols WHERE name = ? AND exported = 1`, name)
}

// AllSymbolIDs returns every symbol id in the store, for the post-pass that
// recomputes centrality and cluster assignments over the whole graph.
func (s *Store) AllSymbolIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM symbols`)
	if err != nil {
		return nil, fmt.Errorf("store: all symbol ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan symbol id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) querySymbols(query string, args ...any) ([]*Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query symbols: %w", err)
	}
	defer rows.Close()
	var out []*Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
