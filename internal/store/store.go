// Package store is the relational substrate: the authoritative, durable
// record of symbols, edges, and their supporting tables. It is the single
// writer, multiple-reader store described in spec.md section 4.1 — the
// inverted index and vector store are derived projections that key off the
// symbol ids this package owns.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by single-row lookups that find nothing.
var ErrNotFound = errors.New("store: not found")

// Store is the SQLite-backed relational store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at dbPath in WAL
// mode with foreign keys enabled, and applies the schema migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", dbPath, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying *sql.DB for packages that need a raw handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS symbols (
  id                  TEXT PRIMARY KEY,
  file_path           TEXT NOT NULL,
  language            TEXT NOT NULL,
  kind                TEXT NOT NULL,
  name                TEXT NOT NULL,
  exported            INTEGER NOT NULL DEFAULT 0,
  start_byte          INTEGER NOT NULL,
  end_byte            INTEGER NOT NULL,
  start_line          INTEGER NOT NULL,
  end_line            INTEGER NOT NULL,
  source              TEXT NOT NULL,
  updated_at          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_path);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);

CREATE TABLE IF NOT EXISTS edges (
  from_id         TEXT NOT NULL,
  to_id           TEXT NOT NULL,
  type            TEXT NOT NULL,
  file            TEXT,
  line            INTEGER,
  confidence      REAL NOT NULL DEFAULT 0,
  evidence_count  INTEGER NOT NULL DEFAULT 0,
  resolution      TEXT NOT NULL,
  resolution_rank INTEGER NOT NULL,
  PRIMARY KEY (from_id, to_id, type)
);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);
CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(type);

CREATE TABLE IF NOT EXISTS edge_evidence (
  from_id          TEXT NOT NULL,
  to_id            TEXT NOT NULL,
  type             TEXT NOT NULL,
  file             TEXT NOT NULL,
  line             INTEGER NOT NULL,
  occurrence_count INTEGER NOT NULL DEFAULT 1,
  PRIMARY KEY (from_id, to_id, type, file, line)
);
CREATE INDEX IF NOT EXISTS idx_edge_evidence_edge ON edge_evidence(from_id, to_id, type);

CREATE TABLE IF NOT EXISTS file_fingerprints (
  path      TEXT PRIMARY KEY,
  mtime_ns  INTEGER NOT NULL,
  size_bytes INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS usage_examples (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  to_symbol_id   TEXT NOT NULL,
  from_symbol_id TEXT,
  type           TEXT NOT NULL,
  file           TEXT NOT NULL,
  line           INTEGER NOT NULL,
  snippet        TEXT NOT NULL DEFAULT '',
  UNIQUE (to_symbol_id, from_symbol_id, type, file, line)
);
CREATE INDEX IF NOT EXISTS idx_usage_examples_to ON usage_examples(to_symbol_id);
CREATE INDEX IF NOT EXISTS idx_usage_examples_file ON usage_examples(file);

CREATE TABLE IF NOT EXISTS symbol_metrics (
  symbol_id  TEXT PRIMARY KEY,
  pagerank   REAL NOT NULL DEFAULT 0,
  in_degree  INTEGER NOT NULL DEFAULT 0,
  out_degree INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS similarity_clusters (
  symbol_id   TEXT PRIMARY KEY,
  cluster_key TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_similarity_clusters_key ON similarity_clusters(cluster_key);

CREATE TABLE IF NOT EXISTS query_selections (
  id                 INTEGER PRIMARY KEY AUTOINCREMENT,
  query_text         TEXT NOT NULL,
  query_normalized   TEXT NOT NULL,
  selected_symbol_id TEXT NOT NULL,
  position           INTEGER NOT NULL,
  timestamp_ns       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_selections_norm ON query_selections(query_normalized);
CREATE INDEX IF NOT EXISTS idx_query_selections_symbol ON query_selections(selected_symbol_id);

CREATE TABLE IF NOT EXISTS file_affinity (
  file_path        TEXT PRIMARY KEY,
  view_count       INTEGER NOT NULL DEFAULT 0,
  edit_count       INTEGER NOT NULL DEFAULT 0,
  last_accessed_ns INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS imports (
  file_path   TEXT NOT NULL,
  import_path TEXT NOT NULL,
  line        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_imports_file ON imports(file_path);

CREATE TABLE IF NOT EXISTS todos (
  file_path TEXT NOT NULL,
  text      TEXT NOT NULL,
  line      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_file ON todos(file_path);

CREATE TABLE IF NOT EXISTS symbol_decorators (
  symbol_id TEXT NOT NULL,
  decorator TEXT NOT NULL,
  PRIMARY KEY (symbol_id, decorator)
);
CREATE INDEX IF NOT EXISTS idx_symbol_decorators_symbol ON symbol_decorators(symbol_id);

CREATE TABLE IF NOT EXISTS test_links (
  test_file   TEXT NOT NULL,
  source_file TEXT NOT NULL,
  PRIMARY KEY (test_file, source_file)
);
CREATE INDEX IF NOT EXISTS idx_test_links_source ON test_links(source_file);

CREATE TABLE IF NOT EXISTS index_runs (
  id               INTEGER PRIMARY KEY AUTOINCREMENT,
  started_ns       INTEGER NOT NULL,
  duration_ms      INTEGER NOT NULL,
  files_scanned    INTEGER NOT NULL DEFAULT 0,
  files_indexed    INTEGER NOT NULL DEFAULT 0,
  files_unchanged  INTEGER NOT NULL DEFAULT 0,
  files_deleted    INTEGER NOT NULL DEFAULT 0,
  files_skipped    INTEGER NOT NULL DEFAULT 0,
  files_reresolved INTEGER NOT NULL DEFAULT 0
);
`

// DeleteFileData removes every row keyed by path from symbols, edges (via
// their symbol ids), evidence, usage examples, metrics, clusters,
// decorators, test links, imports, and todos, in one transaction. This is
// step 2 of the per-file indexing procedure in spec.md section 4.3 and
// backs filesystem-delete handling.
func (s *Store) DeleteFileData(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: delete file data: begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT id FROM symbols WHERE file_path = ?`, path)
	if err != nil {
		return fmt.Errorf("store: delete file data: query symbols: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("store: delete file data: scan: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM edges WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
			return fmt.Errorf("store: delete file data: edges: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM edge_evidence WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
			return fmt.Errorf("store: delete file data: evidence: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM usage_examples WHERE to_symbol_id = ? OR from_symbol_id = ?`, id, id); err != nil {
			return fmt.Errorf("store: delete file data: usage examples: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM symbol_metrics WHERE symbol_id = ?`, id); err != nil {
			return fmt.Errorf("store: delete file data: metrics: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM similarity_clusters WHERE symbol_id = ?`, id); err != nil {
			return fmt.Errorf("store: delete file data: clusters: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM symbol_decorators WHERE symbol_id = ?`, id); err != nil {
			return fmt.Errorf("store: delete file data: decorators: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM usage_examples WHERE file = ?`, path); err != nil {
		return fmt.Errorf("store: delete file data: usage examples by file: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM edge_evidence WHERE file = ?`, path); err != nil {
		return fmt.Errorf("store: delete file data: evidence by file: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM symbols WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("store: delete file data: symbols: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM test_links WHERE test_file = ? OR source_file = ?`, path, path); err != nil {
		return fmt.Errorf("store: delete file data: test links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM imports WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("store: delete file data: imports: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM todos WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("store: delete file data: todos: %w", err)
	}

	return tx.Commit()
}
