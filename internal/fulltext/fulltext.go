// Package fulltext is the inverted full-text index: a derived projection of
// the relational store's symbol rows, rebuilt with a delete-then-insert on
// every re-index per spec.md section 4.1. It never owns data — the
// relational store is authoritative and this index can always be rebuilt
// from it.
package fulltext

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Index wraps a SQLite FTS5 virtual table keyed by symbol id. Field weights
// favor name and signature over doc comments and body, per spec.md
// section 4.4's "keyword" source description.
type Index struct {
	db *sql.DB
}

const schemaDDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS symbols_fts USING fts5(
  symbol_id   UNINDEXED,
  file_path   UNINDEXED,
  exported    UNINDEXED,
  name,
  signature,
  doc_comment,
  body
);
`

// bm25 column weights: name, signature, doc_comment, body — name counts most.
const bm25Weights = "10.0, 5.0, 2.0, 1.0"

// Open opens (creating if necessary) the FTS5-backed inverted index at path.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("fulltext: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("fulltext: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("fulltext: migrate: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Doc is one symbol's indexed text content.
type Doc struct {
	SymbolID   string
	FilePath   string
	Exported   bool
	Name       string
	Signature  string
	DocComment string
	Body       string
}

// IndexSymbol inserts one symbol's text into the index. Callers are
// responsible for deleting any stale row first — see DeleteFile.
func (ix *Index) IndexSymbol(d Doc) error {
	exported := 0
	if d.Exported {
		exported = 1
	}
	_, err := ix.db.Exec(
		`INSERT INTO symbols_fts (symbol_id, file_path, exported, name, signature, doc_comment, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.SymbolID, d.FilePath, exported, d.Name, d.Signature, d.DocComment, d.Body,
	)
	if err != nil {
		return fmt.Errorf("fulltext: index symbol %s: %w", d.SymbolID, err)
	}
	return nil
}

// DeleteFile removes every indexed row for a file, the first half of the
// delete-then-insert re-index cycle.
func (ix *Index) DeleteFile(path string) error {
	if _, err := ix.db.Exec(`DELETE FROM symbols_fts WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("fulltext: delete file %s: %w", path, err)
	}
	return nil
}

// Hit is one keyword search result, ranked by bm25 (lower is better, as
// SQLite reports it — callers invert the ordering before fusing with other
// sources).
type Hit struct {
	SymbolID string
	Score    float64
}

// Search runs a keyword query against the index, optionally restricted to
// exported symbols only (spec.md section 4.2's "definitions only" filter).
func (ix *Index) Search(query string, limit int, exportedOnly bool) ([]Hit, error) {
	q := sanitize(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	sqlQuery := `SELECT symbol_id, bm25(symbols_fts, ` + bm25Weights + `) AS rank
		FROM symbols_fts WHERE symbols_fts MATCH ?`
	args := []any{q}
	if exportedOnly {
		sqlQuery += ` AND exported = 1`
	}
	sqlQuery += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := ix.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("fulltext: search %q: %w", query, err)
	}
	defer rows.Close()
	var out []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.SymbolID, &h.Score); err != nil {
			return nil, fmt.Errorf("fulltext: scan hit: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// sanitize strips FTS5 operator syntax so free-text queries never fail with
// a syntax error, following the same approach as a plain identifier split:
// quote each token and OR them together.
func sanitize(query string) string {
	replacer := strings.NewReplacer(
		`"`, " ", `^`, " ", `:`, " ", `(`, " ", `)`, " ",
		`{`, " ", `}`, " ", `[`, " ", `]`, " ", `*`, " ",
	)
	cleaned := replacer.Replace(query)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		switch strings.ToUpper(f) {
		case "OR", "AND", "NOT", "NEAR":
			continue
		}
		quoted = append(quoted, `"`+f+`"`)
	}
	if len(quoted) == 0 {
		return ""
	}
	return strings.Join(quoted, " OR ")
}
