package assemble

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fernbridge/codelens/internal/config"
	"github.com/fernbridge/codelens/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestAssemble_IncludesRootThenExpandsNeighborsThenTypeDeps(t *testing.T) {
	st := newTestStore(t)

	root := &store.Symbol{ID: "root", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "root", Source: "func root() {}"}
	neighbor := &store.Symbol{ID: "neighbor", FilePath: "b.go", Language: "go", Kind: store.KindFunction, Name: "neighbor", Source: "func neighbor() {}"}
	dep := &store.Symbol{ID: "dep", FilePath: "c.go", Language: "go", Kind: store.KindStruct, Name: "Dep", Source: "type Dep struct{}"}
	for _, s := range []*store.Symbol{root, neighbor, dep} {
		require.NoError(t, st.UpsertSymbol(s))
	}
	require.NoError(t, st.UpsertEdge(&store.Edge{
		FromID: "root", ToID: "neighbor", Type: store.EdgeCall, Confidence: 1, Resolution: store.ResolutionLocal,
	}))
	require.NoError(t, st.UpsertEdge(&store.Edge{
		FromID: "root", ToID: "dep", Type: store.EdgeType, Confidence: 1, Resolution: store.ResolutionLocal,
	}))

	a := New(&config.Config{MaxContextTokens: 10000, TokenEncoding: "o200k_base"}, st)
	items, err := a.Assemble([]*store.Symbol{root}, 0)
	require.NoError(t, err)

	byID := make(map[string]*Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	require.Contains(t, byID, "root")
	require.Contains(t, byID, "neighbor")
	require.Contains(t, byID, "dep")
	require.Equal(t, RoleRoot, byID["root"].Role)
	require.Equal(t, RoleExpanded, byID["neighbor"].Role)
	require.Equal(t, RoleExtra, byID["dep"].Role)
}

func TestAssemble_StopsAddingOnceBudgetExhausted(t *testing.T) {
	st := newTestStore(t)

	root := &store.Symbol{ID: "root", FilePath: "a.go", Language: "go", Kind: store.KindFunction, Name: "root", Source: "func root() {}"}
	neighbor := &store.Symbol{ID: "neighbor", FilePath: "b.go", Language: "go", Kind: store.KindFunction, Name: "neighbor", Source: "func neighbor() {}"}
	require.NoError(t, st.UpsertSymbol(root))
	require.NoError(t, st.UpsertSymbol(neighbor))
	require.NoError(t, st.UpsertEdge(&store.Edge{
		FromID: "root", ToID: "neighbor", Type: store.EdgeCall, Confidence: 1, Resolution: store.ResolutionLocal,
	}))

	rootTokens := CountTokens("o200k_base", root.Source)
	a := New(&config.Config{MaxContextTokens: rootTokens, TokenEncoding: "o200k_base"}, st)
	items, err := a.Assemble([]*store.Symbol{root}, 0)
	require.NoError(t, err)

	require.Len(t, items, 1, "the budget is exhausted by the root item alone")
	require.Equal(t, "root", items[0].ID)
}
