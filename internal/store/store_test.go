package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesAllTables(t *testing.T) {
	s := newTestStore(t)
	tables := []string{
		"symbols", "edges", "edge_evidence", "file_fingerprints", "usage_examples",
		"symbol_metrics", "similarity_clusters", "query_selections", "file_affinity",
		"imports", "todos", "symbol_decorators", "test_links", "index_runs",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.migrate())
}

func TestUpsertSymbol_InsertAndFetch(t *testing.T) {
	s := newTestStore(t)
	sym := &Symbol{ID: "s1", FilePath: "a.go", Language: "go", Kind: KindFunction, Name: "Foo", Exported: true}
	require.NoError(t, s.UpsertSymbol(sym))

	got, err := s.SymbolByID("s1")
	require.NoError(t, err)
	assert.Equal(t, "Foo", got.Name)
	assert.True(t, got.Exported)
}

func TestUpsertSymbol_ConflictReplaces(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "a.go", Language: "go", Kind: KindFunction, Name: "Foo"}))
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "a.go", Language: "go", Kind: KindFunction, Name: "Bar"}))

	got, err := s.SymbolByID("s1")
	require.NoError(t, err)
	assert.Equal(t, "Bar", got.Name)
}

func TestLocalSymbolByName_OnlyMatchesSameFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "a.go", Language: "go", Kind: KindFunction, Name: "Foo"}))
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s2", FilePath: "b.go", Language: "go", Kind: KindFunction, Name: "Foo"}))

	got, err := s.LocalSymbolByName("a.go", "Foo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.ID)

	none, err := s.LocalSymbolByName("c.go", "Foo")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGlobalExportedSymbolsByName_AmbiguousWhenMultiple(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "a.go", Language: "go", Kind: KindFunction, Name: "Foo", Exported: true}))
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s2", FilePath: "b.go", Language: "go", Kind: KindFunction, Name: "Foo", Exported: true}))
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s3", FilePath: "c.go", Language: "go", Kind: KindFunction, Name: "unexp", Exported: false}))

	matches, err := s.GlobalExportedSymbolsByName("Foo")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	none, err := s.GlobalExportedSymbolsByName("unexp")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpsertEdge_RankNeverRegresses(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertEdge(&Edge{
		FromID: "a", ToID: "b", Type: EdgeCall, File: "x.go", Line: 1,
		Confidence: 0.75, EvidenceCount: 1, Resolution: ResolutionHeuristic,
	}))

	edges, err := s.OutgoingEdges("a")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, ResolutionHeuristic, edges[0].Resolution)
	assert.Equal(t, 0.75, edges[0].Confidence)

	// A later, better-resolved observation upgrades resolution and file/line.
	require.NoError(t, s.UpsertEdge(&Edge{
		FromID: "a", ToID: "b", Type: EdgeCall, File: "y.go", Line: 2,
		Confidence: 1.0, EvidenceCount: 3, Resolution: ResolutionLocal,
	}))

	edges, err = s.OutgoingEdges("a")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, ResolutionLocal, edges[0].Resolution)
	assert.Equal(t, 1.0, edges[0].Confidence)
	assert.Equal(t, 3, edges[0].EvidenceCount)
	assert.Equal(t, "y.go", edges[0].File)
	assert.Equal(t, 2, edges[0].Line)
}

func TestUpsertEdge_WorseObservationNeverDowngrades(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertEdge(&Edge{
		FromID: "a", ToID: "b", Type: EdgeCall, File: "local.go", Line: 5,
		Confidence: 1.0, EvidenceCount: 4, Resolution: ResolutionLocal,
	}))
	require.NoError(t, s.UpsertEdge(&Edge{
		FromID: "a", ToID: "b", Type: EdgeCall, File: "heuristic.go", Line: 9,
		Confidence: 0.75, EvidenceCount: 1, Resolution: ResolutionHeuristic,
	}))

	edges, err := s.OutgoingEdges("a")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, ResolutionLocal, edges[0].Resolution, "resolution rank is monotone, never downgraded")
	assert.Equal(t, "local.go", edges[0].File)
	assert.Equal(t, 1.0, edges[0].Confidence)
	assert.Equal(t, 4, edges[0].EvidenceCount, "evidence count is a running max, not overwritten by a smaller one")
}

func TestAppendEdgeEvidence_BumpsOccurrenceCount(t *testing.T) {
	s := newTestStore(t)
	ev := &EdgeEvidence{FromID: "a", ToID: "b", Type: EdgeCall, File: "x.go", Line: 1, OccurrenceCount: 1}
	require.NoError(t, s.AppendEdgeEvidence(ev))
	require.NoError(t, s.AppendEdgeEvidence(ev))

	got, err := s.EdgeEvidenceFor("a", "b", EdgeCall)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].OccurrenceCount)
}

func TestReplaceImports_ReplacesPriorRows(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ReplaceImports("a.go", []Import{{FilePath: "a.go", ImportPath: "fmt", Line: 1}}))
	got, err := s.ImportsForFile("a.go")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, s.ReplaceImports("a.go", []Import{{FilePath: "a.go", ImportPath: "os", Line: 2}}))
	got, err = s.ImportsForFile("a.go")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "os", got[0].ImportPath)
}

func TestFilesByStem_MatchesExactAndSuffix(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "internal/widget/widget.go", Language: "go", Kind: KindFunction, Name: "New", Exported: true}))

	exact, err := s.FilesByStem("internal/widget/widget")
	require.NoError(t, err)
	assert.Contains(t, exact, "internal/widget/widget.go")

	suffix, err := s.FilesByStem("widget/widget")
	require.NoError(t, err)
	assert.Contains(t, suffix, "internal/widget/widget.go")

	none, err := s.FilesByStem("nothing/here")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddDecorator_DeduplicatesAndDeletesWithFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "a.py", Language: "python", Kind: KindFunction, Name: "handler"}))
	require.NoError(t, s.AddDecorator("s1", "@app.route"))
	require.NoError(t, s.AddDecorator("s1", "@app.route"))

	got, err := s.DecoratorsFor("s1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, s.DeleteFileData("a.py"))
	got, err = s.DecoratorsFor("s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceTODOs_DeletedByDeleteFileData(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ReplaceTODOs("a.go", []TODOItem{{FilePath: "a.go", Text: "TODO: fix this", Line: 3}}))
	got, err := s.TODOsForFile("a.go")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, s.DeleteFileData("a.go"))
	got, err = s.TODOsForFile("a.go")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteFileData_RemovesSymbolsEdgesAndEvidence(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s1", FilePath: "a.go", Language: "go", Kind: KindFunction, Name: "Foo"}))
	require.NoError(t, s.UpsertSymbol(&Symbol{ID: "s2", FilePath: "b.go", Language: "go", Kind: KindFunction, Name: "Bar"}))
	require.NoError(t, s.UpsertEdge(&Edge{FromID: "s1", ToID: "s2", Type: EdgeCall, File: "a.go", Line: 1, Confidence: 1.0, Resolution: ResolutionLocal}))
	require.NoError(t, s.AppendEdgeEvidence(&EdgeEvidence{FromID: "s1", ToID: "s2", Type: EdgeCall, File: "a.go", Line: 1, OccurrenceCount: 1}))

	require.NoError(t, s.DeleteFileData("a.go"))

	_, err := s.SymbolByID("s1")
	assert.ErrorIs(t, err, ErrNotFound)

	edges, err := s.OutgoingEdges("s1")
	require.NoError(t, err)
	assert.Empty(t, edges)

	// b.go's own symbol survives — DeleteFileData only touches rows keyed by a.go.
	still, err := s.SymbolByID("s2")
	require.NoError(t, err)
	assert.Equal(t, "Bar", still.Name)
}

func TestLinkTest_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.LinkTest("widget_test.go", "widget.go"))

	tests, err := s.TestsForSource("widget.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"widget_test.go"}, tests)

	sources, err := s.SourcesForTest("widget_test.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"widget.go"}, sources)
}
