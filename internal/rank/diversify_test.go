package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernbridge/codelens/internal/store"
)

func hit(id string, score float64, kind, filePath string) *Hit {
	return &Hit{Symbol: &store.Symbol{ID: id, Name: id, Kind: kind, FilePath: filePath}, Score: score}
}

func TestSortByScore_OrdersByScoreThenByNameOnTie(t *testing.T) {
	a := hit("a", 1.0, store.KindFunction, "z.go")
	b := hit("b", 2.0, store.KindFunction, "a.go")
	c := hit("c", 1.0, store.KindFunction, "a.go")
	hits := []*Hit{c, a, b}

	sortByScore(hits)

	require.Equal(t, []*Hit{b, a, c}, hits, "highest score first, ties broken by name asc before file_path")
}

func TestSortByScore_TiesOnNameBreakByFilePathAsc(t *testing.T) {
	a := hit("x", 1.0, store.KindFunction, "z.go")
	a.Symbol.Name = "widget"
	b := hit("y", 1.0, store.KindFunction, "a.go")
	b.Symbol.Name = "widget"
	hits := []*Hit{a, b}

	sortByScore(hits)

	require.Equal(t, []*Hit{b, a}, hits)
}

func TestDiversify_CapsHitsPerCluster(t *testing.T) {
	a := hit("a", 3.0, store.KindFunction, "a.go")
	b := hit("b", 2.0, store.KindFunction, "b.go")
	c := hit("c", 1.0, store.KindFunction, "c.go")
	clusters := map[string]string{"a": "cluster-1", "b": "cluster-1", "c": "cluster-1"}

	out := diversify([]*Hit{a, b, c}, clusters, 0)

	require.Len(t, out, clusterCap, "third hit from the same cluster is dropped")
	assert.Equal(t, "a", out[0].Symbol.ID)
	assert.Equal(t, "b", out[1].Symbol.ID)
}

func TestDiversify_RespectsLimitAfterCapping(t *testing.T) {
	a := hit("a", 3.0, store.KindFunction, "a.go")
	b := hit("b", 2.0, store.KindFunction, "b.go")
	out := diversify([]*Hit{a, b}, nil, 1)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Symbol.ID)
}

func TestBucketOf_ClassifiesDefinitionTestAndOther(t *testing.T) {
	assert.Equal(t, "definition-kind", bucketOf(hit("a", 0, store.KindFunction, "a.go")))
	assert.Equal(t, "test-file", bucketOf(hit("b", 0, store.KindFunction, "a_test.go")))
	assert.Equal(t, "other", bucketOf(hit("c", 0, store.KindModule, "c.go")))
}

func TestEnsureFirstThreeDiverse_PullsMissingBucketForward(t *testing.T) {
	def1 := hit("def1", 5.0, store.KindFunction, "a.go")
	def2 := hit("def2", 4.0, store.KindFunction, "b.go")
	def3 := hit("def3", 3.0, store.KindFunction, "c.go")
	test1 := hit("test1", 1.0, store.KindFunction, "a_test.go")
	hits := []*Hit{def1, def2, def3, test1}

	ensureFirstThreeDiverse(hits)

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.Symbol.ID
	}
	assert.Contains(t, ids[:3], "test1", "the only test-file hit is pulled into the first three")
	assert.Len(t, hits, 4, "no hit is lost by the rearrangement")
}
