package rank

import (
	"math"
	"time"

	"github.com/fernbridge/codelens/internal/store"
)

// selectionHalfLife is the decay period for the per-(query, symbol)
// selection boost, on the order of weeks per spec.md section 4.5.
const selectionHalfLife = 14 * 24 * time.Hour

// affinityHalfLife is the slower decay period for the per-file view/edit
// boost.
const affinityHalfLife = 60 * 24 * time.Hour

// applyPopularityBoost normalizes pagerank across the hits actually present
// in this result set (an Open Question resolved in favor of per-query
// scoping, since whole-index normalization would make every individual
// query's boost vanish to near-zero as the index grows) and adds
// popularityWeight · normalized_pagerank to each hit.
func applyPopularityBoost(hits map[string]*Hit, metrics map[string]*store.SymbolMetrics, popularityWeight float64) {
	var max float64
	for id := range hits {
		if m, ok := metrics[id]; ok && m.PageRank > max {
			max = m.PageRank
		}
	}
	if max <= 0 {
		return
	}
	for id, h := range hits {
		m, ok := metrics[id]
		if !ok || m.PageRank <= 0 {
			continue
		}
		boost := popularityWeight * (m.PageRank / max)
		h.Score += boost
		h.addReason("popularity")
	}
}

// applyLearningBoosts adds the selection-frequency and file-affinity
// components from spec.md section 4.5, each decayed exponentially from the
// moment it was recorded toward now.
func applyLearningBoosts(hits map[string]*Hit, selections map[string][]time.Time, affinities map[string]*store.FileAffinity, now time.Time) {
	for id, h := range hits {
		if times, ok := selections[id]; ok {
			var weight float64
			for _, t := range times {
				weight += decay(now.Sub(t), selectionHalfLife)
			}
			if weight > 0 {
				h.Score += weight
				h.addReason("learning_selection")
			}
		}
		if fa, ok := affinities[h.Symbol.FilePath]; ok {
			age := now.Sub(fa.LastAccessedAt)
			weight := decay(age, affinityHalfLife) * float64(fa.ViewCount+2*fa.EditCount)
			if weight > 0 {
				h.Score += weight
				h.addReason("learning_affinity")
			}
		}
	}
}

// decay applies exponential half-life decay: weight halves every halfLife
// of elapsed time.
func decay(elapsed, halfLife time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return math.Pow(0.5, float64(elapsed)/float64(halfLife))
}
