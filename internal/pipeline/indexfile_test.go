package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

func newTestIndexer(t *testing.T) *Indexer {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ft, err := fulltext.Open(filepath.Join(dir, "fts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ft.Close() })

	vs, err := vectorstore.Open(filepath.Join(dir, "vec.db"), 32)
	require.NoError(t, err)
	t.Cleanup(func() { vs.Close() })

	return &Indexer{Store: st, FullText: ft, Vectors: vs}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndexFile_IndexesGoFileEndToEnd(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "widget.go", `package widget

// New builds a Widget.
func New() *Widget {
	return helper()
}

func helper() *Widget {
	return &Widget{}
}

type Widget struct{}
`)

	outcome, err := ix.IndexFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIndexed, outcome)

	syms, err := ix.Store.SymbolsByFile(path, false)
	require.NoError(t, err)
	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "New")
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "Widget")

	fp, err := ix.Store.Fingerprint(path)
	require.NoError(t, err)
	require.NotNil(t, fp)
}

func TestIndexFile_UnchangedFileIsSkipped(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "widget.go", "package widget\n\nfunc Foo() {}\n")

	outcome, err := ix.IndexFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIndexed, outcome)

	outcome, err = ix.IndexFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
}

func TestIndexFile_ChangedFileReindexesAndDropsStaleSymbols(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "widget.go", "package widget\n\nfunc Foo() {}\n")

	_, err := ix.IndexFile(path)
	require.NoError(t, err)

	// Force the mtime forward so the fingerprint check sees a real change
	// even if content size happens to match.
	future := time.Now().Add(time.Hour)
	writeFile(t, dir, "widget.go", "package widget\n\nfunc Bar() {}\n")
	require.NoError(t, os.Chtimes(path, future, future))

	outcome, err := ix.IndexFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIndexed, outcome)

	syms, err := ix.Store.SymbolsByFile(path, false)
	require.NoError(t, err)
	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Bar")
	assert.NotContains(t, names, "Foo", "stale symbol from the previous version must be gone")
}

func TestIndexFile_UnsupportedExtensionIsSkipped(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "README.md", "# hello\n")

	outcome, err := ix.IndexFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
}

func TestIndexFile_WritesImportsAndTODOs(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", `package main

import (
	"fmt"
)

// TODO: clean this up
func main() {
	fmt.Println("hi")
}
`)

	_, err := ix.IndexFile(path)
	require.NoError(t, err)

	imports, err := ix.Store.ImportsForFile(path)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "fmt", imports[0].ImportPath)

	todos, err := ix.Store.TODOsForFile(path)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Contains(t, todos[0].Text, "TODO")
}

func TestIndexFile_PythonDecoratorsStored(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "routes.py", `
@app.route("/widgets")
def list_widgets():
    return []
`)

	_, err := ix.IndexFile(path)
	require.NoError(t, err)

	syms, err := ix.Store.SymbolsByFile(path, false)
	require.NoError(t, err)
	require.Len(t, syms, 1)

	decs, err := ix.Store.DecoratorsFor(syms[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, decs)
}

func TestDeleteFile_RemovesFingerprintAndProjections(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "widget.go", "package widget\n\nfunc Foo() {}\n")

	_, err := ix.IndexFile(path)
	require.NoError(t, err)

	require.NoError(t, ix.DeleteFile(path))

	fp, err := ix.Store.Fingerprint(path)
	require.NoError(t, err)
	assert.Nil(t, fp)

	syms, err := ix.Store.SymbolsByFile(path, false)
	require.NoError(t, err)
	assert.Empty(t, syms)
}
