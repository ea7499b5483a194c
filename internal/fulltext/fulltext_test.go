package fulltext

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "fts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndexSymbol_FindableByName(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.IndexSymbol(Doc{
		SymbolID: "s1", FilePath: "a.go", Exported: true,
		Name: "ParseConfig", Signature: "func ParseConfig() error", Body: "reads the config file",
	}))

	hits, err := ix.Search("ParseConfig", 10, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s1", hits[0].SymbolID)
}

func TestSearch_ExportedOnlyFilter(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.IndexSymbol(Doc{SymbolID: "pub", FilePath: "a.go", Exported: true, Name: "widget"}))
	require.NoError(t, ix.IndexSymbol(Doc{SymbolID: "priv", FilePath: "a.go", Exported: false, Name: "widget"}))

	hits, err := ix.Search("widget", 10, true)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "pub", hits[0].SymbolID)

	all, err := ix.Search("widget", 10, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteFile_RemovesOnlyThatFile(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.IndexSymbol(Doc{SymbolID: "s1", FilePath: "a.go", Name: "foo"}))
	require.NoError(t, ix.IndexSymbol(Doc{SymbolID: "s2", FilePath: "b.go", Name: "foo"}))

	require.NoError(t, ix.DeleteFile("a.go"))

	hits, err := ix.Search("foo", 10, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s2", hits[0].SymbolID)
}

func TestSearch_EmptyQueryAfterSanitizeReturnsNil(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.IndexSymbol(Doc{SymbolID: "s1", FilePath: "a.go", Name: "foo"}))

	hits, err := ix.Search(`"*(){}[]`, 10, false)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_StripsOperatorTokensRatherThanErroring(t *testing.T) {
	ix := newTestIndex(t)
	require.NoError(t, ix.IndexSymbol(Doc{SymbolID: "s1", FilePath: "a.go", Name: "fetch"}))

	hits, err := ix.Search("fetch AND widget", 10, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}
