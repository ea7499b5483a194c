package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fernbridge/codelens/internal/store"
)

func TestApplyPopularityBoost_NormalizesAgainstMaxInResultSet(t *testing.T) {
	a := hit("a", 0, store.KindFunction, "a.go")
	b := hit("b", 0, store.KindFunction, "b.go")
	hits := map[string]*Hit{"a": a, "b": b}
	metrics := map[string]*store.SymbolMetrics{
		"a": {SymbolID: "a", PageRank: 0.5},
		"b": {SymbolID: "b", PageRank: 0.25},
	}

	applyPopularityBoost(hits, metrics, 2.0)

	assert.Equal(t, 2.0, a.Score, "the top pagerank hit gets the full weight")
	assert.Equal(t, 1.0, b.Score)
}

func TestApplyPopularityBoost_NoOpWhenNoPositivePagerank(t *testing.T) {
	a := hit("a", 5, store.KindFunction, "a.go")
	hits := map[string]*Hit{"a": a}
	applyPopularityBoost(hits, nil, 2.0)
	assert.Equal(t, 5.0, a.Score)
}

func TestApplyLearningBoosts_DecaysSelectionsAndAffinityFromNow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := hit("a", 0, store.KindFunction, "a.go")
	hits := map[string]*Hit{"a": a}
	selections := map[string][]time.Time{"a": {now}}
	affinities := map[string]*store.FileAffinity{
		"a.go": {FilePath: "a.go", ViewCount: 1, EditCount: 0, LastAccessedAt: now},
	}

	applyLearningBoosts(hits, selections, affinities, now)

	assert.InDelta(t, 2.0, a.Score, 1e-9, "one fresh selection plus one fresh view, no decay elapsed")
	assert.Contains(t, a.Reasons, "learning_selection")
	assert.Contains(t, a.Reasons, "learning_affinity")
}

func TestApplyLearningBoosts_HalvesAtHalfLife(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-selectionHalfLife)
	a := hit("a", 0, store.KindFunction, "a.go")
	hits := map[string]*Hit{"a": a}
	selections := map[string][]time.Time{"a": {past}}

	applyLearningBoosts(hits, selections, nil, now)

	assert.InDelta(t, 0.5, a.Score, 1e-9)
}

func TestDecay_NeverIncreasesPastAndClampsFuture(t *testing.T) {
	assert.Equal(t, 1.0, decay(-time.Hour, time.Hour))
	assert.InDelta(t, 0.5, decay(time.Hour, time.Hour), 1e-9)
}
