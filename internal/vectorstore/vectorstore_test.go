package vectorstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dim int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vec.db"), dim)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_RejectsNonPositiveDimension(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "vec.db"), 0)
	assert.Error(t, err)
}

func TestUpsert_RejectsDimensionMismatch(t *testing.T) {
	s := newTestStore(t, 4)
	err := s.Upsert("s1", "a.go", []float32{1, 2, 3})
	assert.Error(t, err)
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	s := newTestStore(t, 3)
	require.NoError(t, s.Upsert("same", "a.go", []float32{1, 0, 0}))
	require.NoError(t, s.Upsert("orthogonal", "b.go", []float32{0, 1, 0}))
	require.NoError(t, s.Upsert("opposite", "c.go", []float32{-1, 0, 0}))

	hits, err := s.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "same", hits[0].SymbolID)
	assert.Equal(t, "orthogonal", hits[1].SymbolID)
	assert.Equal(t, "opposite", hits[2].SymbolID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Greater(t, hits[1].Score, hits[2].Score)
}

func TestSearch_RespectsLimit(t *testing.T) {
	s := newTestStore(t, 2)
	require.NoError(t, s.Upsert("a", "a.go", []float32{1, 0}))
	require.NoError(t, s.Upsert("b", "b.go", []float32{0, 1}))
	require.NoError(t, s.Upsert("c", "c.go", []float32{1, 1}))

	hits, err := s.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestDeleteFile_RemovesOnlyThatFilesEmbeddings(t *testing.T) {
	s := newTestStore(t, 2)
	require.NoError(t, s.Upsert("a", "a.go", []float32{1, 0}))
	require.NoError(t, s.Upsert("b", "b.go", []float32{0, 1}))

	require.NoError(t, s.DeleteFile("a.go"))

	hits, err := s.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].SymbolID)
}

func TestUpsert_ConflictReplacesVector(t *testing.T) {
	s := newTestStore(t, 2)
	require.NoError(t, s.Upsert("a", "a.go", []float32{1, 0}))
	require.NoError(t, s.Upsert("a", "a.go", []float32{0, 1}))

	hits, err := s.Search([]float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 0.0001)
}
