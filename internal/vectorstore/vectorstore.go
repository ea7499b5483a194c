// Package vectorstore is the third of the three persistent stores: a
// fixed-dimension similarity index over symbol embeddings. Per spec.md
// section 4.4, no approximate-nearest-neighbor library exists anywhere in
// the retrieved corpus, so this performs an honest brute-force (exact) scan
// rather than pretending to an ANN algorithm it does not implement.
package vectorstore

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed fixed-dimension vector store. All embeddings in
// one Store must share the same dimension — Upsert returns an error on
// mismatch rather than silently truncating or padding.
type Store struct {
	db  *sql.DB
	dim int
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS embeddings (
  symbol_id TEXT PRIMARY KEY,
  file_path TEXT NOT NULL,
  vector    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_embeddings_file ON embeddings(file_path);
`

// Open opens (creating if necessary) the vector store at path. dim is the
// fixed embedding dimension this store will accept.
func Open(path string, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vectorstore: dimension must be positive, got %d", dim)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorstore: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorstore: migrate: %w", err)
	}
	return &Store{db: db, dim: dim}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dim returns the fixed embedding dimension this store accepts.
func (s *Store) Dim() int {
	return s.dim
}

// Upsert writes one symbol's embedding. Returns an error if vec's length
// does not match the store's fixed dimension.
func (s *Store) Upsert(symbolID, filePath string, vec []float32) error {
	if len(vec) != s.dim {
		return fmt.Errorf("vectorstore: dimension mismatch for %s: got %d want %d", symbolID, len(vec), s.dim)
	}
	_, err := s.db.Exec(
		`INSERT INTO embeddings (symbol_id, file_path, vector) VALUES (?, ?, ?)
		 ON CONFLICT(symbol_id) DO UPDATE SET file_path = excluded.file_path, vector = excluded.vector`,
		symbolID, filePath, encode(vec),
	)
	if err != nil {
		return fmt.Errorf("vectorstore: upsert %s: %w", symbolID, err)
	}
	return nil
}

// DeleteFile removes every embedding belonging to a file, the first half of
// the delete-then-insert re-index cycle.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec(`DELETE FROM embeddings WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("vectorstore: delete file %s: %w", path, err)
	}
	return nil
}

// Hit is one nearest-neighbor result. Score is similarity in (0, 1],
// converted from distance via 1/(1+max(d,0)) per spec.md section 4.4, so
// higher is always better regardless of the underlying metric.
type Hit struct {
	SymbolID string
	Score    float64
}

// Search returns the limit nearest neighbors to query by cosine distance,
// scanning every stored vector. O(n) in the number of indexed symbols —
// acceptable at the single-repository scale this system targets; see
// SPEC_FULL.md section 4.4 for the tradeoff this accepts.
func (s *Store) Search(query []float32, limit int) ([]Hit, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("vectorstore: query dimension mismatch: got %d want %d", len(query), s.dim)
	}
	rows, err := s.db.Query(`SELECT symbol_id, vector FROM embeddings`)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: search: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("vectorstore: scan: %w", err)
		}
		vec := decode(blob)
		if len(vec) != s.dim {
			continue
		}
		d := cosineDistance(query, vec)
		hits = append(hits, Hit{SymbolID: id, Score: 1 / (1 + math.Max(d, 0))})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// cosineDistance returns 1 - cosine similarity, so 0 means identical.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return 1 - cos
}

func encode(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decode(buf []byte) []float32 {
	if len(buf)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
