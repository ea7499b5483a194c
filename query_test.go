package codelens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbridge/codelens/internal/rank"
	"github.com/fernbridge/codelens/internal/store"
)

func insertSymbol(t *testing.T, e *Engine, sym *store.Symbol) {
	t.Helper()
	if sym.UpdatedAt.IsZero() {
		sym.UpdatedAt = time.Now()
	}
	require.NoError(t, e.Store.UpsertSymbol(sym))
}

func TestGetDefinition_UnscopedReturnsAllMatchesOrdered(t *testing.T) {
	e := newTestEngine(t)

	// Two symbols sharing a name across files: spec.md's boundary case for
	// get_definition without a file argument.
	insertSymbol(t, e, &store.Symbol{
		ID: "b-unexported", FilePath: "b.go", Language: "go", Kind: store.KindFunction,
		Name: "widget", Exported: false, StartByte: 50, Source: "func widget() {}",
	})
	insertSymbol(t, e, &store.Symbol{
		ID: "a-exported", FilePath: "a.go", Language: "go", Kind: store.KindFunction,
		Name: "widget", Exported: true, StartByte: 10, Source: "func Widget() {}",
	})

	defs, err := e.Query().GetDefinition("widget", "", 0)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "a-exported", defs[0].ID, "exported symbol ranks first")
	assert.Equal(t, "b-unexported", defs[1].ID)
}

func TestGetDefinition_ScopedToFileReturnsOneMatch(t *testing.T) {
	e := newTestEngine(t)
	insertSymbol(t, e, &store.Symbol{
		ID: "a-1", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "widget",
	})
	insertSymbol(t, e, &store.Symbol{
		ID: "b-1", FilePath: "b.go", Language: "go", Kind: store.KindFunction, Name: "widget",
	})

	defs, err := e.Query().GetDefinition("widget", "a.go", 0)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "a-1", defs[0].ID)
}

func TestGetDefinition_RespectsLimit(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 5; i++ {
		insertSymbol(t, e, &store.Symbol{
			ID: string(rune('a' + i)), FilePath: string(rune('a'+i)) + ".go",
			Language: "go", Kind: store.KindFunction, Name: "widget",
		})
	}
	defs, err := e.Query().GetDefinition("widget", "", 2)
	require.NoError(t, err)
	require.Len(t, defs, 2)
}

func TestSearchCode_ReturnsHitsAndAssembledContext(t *testing.T) {
	e := newTestEngine(t)
	insertSymbol(t, e, &store.Symbol{
		ID: "alpha", FilePath: "a.go", Language: "go", Kind: store.KindFunction,
		Name: "alpha", Exported: true, Source: "func alpha() {}",
	})

	result, err := e.Query().SearchCode("definition of alpha", 10, false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Definition", result.Stats.RewriteIntent)
}

func TestFindReferences_ReturnsIncomingEdgesWithEvidence(t *testing.T) {
	e := newTestEngine(t)
	insertSymbol(t, e, &store.Symbol{ID: "caller", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "caller"})
	insertSymbol(t, e, &store.Symbol{ID: "callee", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "callee"})
	require.NoError(t, e.Store.UpsertEdge(&store.Edge{
		FromID: "caller", ToID: "callee", Type: store.EdgeCall, File: "a.go", Line: 5,
		Confidence: 1, EvidenceCount: 1, Resolution: store.ResolutionLocal,
	}))
	require.NoError(t, e.Store.AppendEdgeEvidence(&store.EdgeEvidence{
		FromID: "caller", ToID: "callee", Type: store.EdgeCall, File: "a.go", Line: 5, OccurrenceCount: 1,
	}))

	refs, err := e.Query().FindReferences("callee", "", "", 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "caller", refs[0].FromID)
	assert.Len(t, refs[0].Evidence, 1)
}

func TestGetIndexStats_ReflectsStoreCounts(t *testing.T) {
	e := newTestEngine(t)
	insertSymbol(t, e, &store.Symbol{ID: "a", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "a"})
	insertSymbol(t, e, &store.Symbol{ID: "b", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "b"})

	stats, err := e.Query().GetIndexStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Symbols)
	assert.Equal(t, 1, stats.Files)
}

func TestReportSelection_RecordsUnderNormalizedQuery(t *testing.T) {
	e := newTestEngine(t)
	insertSymbol(t, e, &store.Symbol{ID: "alpha", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "alpha"})

	err := e.Query().ReportSelection("alpha", "alpha", 0)
	require.NoError(t, err)

	normalized := rank.NormalizedQuery(e.Rewriter.Rewrite("alpha"))
	sels, err := e.Store.SelectionsForQuery(normalized)
	require.NoError(t, err)
	require.Len(t, sels, 1)
	assert.Equal(t, "alpha", sels[0].SelectedSymbolID)
}
