package rank

import (
	"sort"

	"github.com/fernbridge/codelens/internal/store"
)

const clusterCap = 2

// sortByScore applies the final stable tiebreak ordering from spec.md
// section 4.5: score desc, exported desc, name asc, file_path asc, kind
// asc, id asc.
func sortByScore(hits []*Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Symbol.Exported != b.Symbol.Exported {
			return a.Symbol.Exported
		}
		if a.Symbol.Name != b.Symbol.Name {
			return a.Symbol.Name < b.Symbol.Name
		}
		if a.Symbol.FilePath != b.Symbol.FilePath {
			return a.Symbol.FilePath < b.Symbol.FilePath
		}
		if a.Symbol.Kind != b.Symbol.Kind {
			return a.Symbol.Kind < b.Symbol.Kind
		}
		return a.Symbol.ID < b.Symbol.ID
	})
}

// diversify applies spec.md section 4.5's two-pass diversification: a
// greedy cap of clusterCap per similarity cluster, then a pass that pulls
// one of each {definition-kind, other, test-file} into the first three
// positions when such a hit exists anywhere in the list.
func diversify(hits []*Hit, clusterKeys map[string]string, limit int) []*Hit {
	sortByScore(hits)

	capped := make([]*Hit, 0, len(hits))
	clusterCounts := make(map[string]int)
	for _, h := range hits {
		key, ok := clusterKeys[h.Symbol.ID]
		if ok && key != "" {
			if clusterCounts[key] >= clusterCap {
				continue
			}
			clusterCounts[key]++
		}
		capped = append(capped, h)
	}

	ensureFirstThreeDiverse(capped)

	if limit > 0 && len(capped) > limit {
		capped = capped[:limit]
	}
	return capped
}

func bucketOf(h *Hit) string {
	switch {
	case isTestFile(h.Symbol.FilePath):
		return "test-file"
	case store.DefinitionalKinds[h.Symbol.Kind]:
		return "definition-kind"
	default:
		return "other"
	}
}

// ensureFirstThreeDiverse rearranges capped in place so the first three
// positions draw one each from {definition-kind, other, test-file} whenever
// the list actually contains a hit from every bucket that's still missing,
// without ever losing any hit or changing the relative order otherwise
// implied by score.
func ensureFirstThreeDiverse(hits []*Hit) {
	if len(hits) < 3 {
		return
	}
	wanted := []string{"definition-kind", "other", "test-file"}
	present := make(map[string]int, 3)
	for i := 0; i < 3 && i < len(hits); i++ {
		present[bucketOf(hits[i])]++
	}

	for slot, bucket := range wanted {
		if slot >= 3 {
			break
		}
		if bucketOf(hits[slot]) == bucket {
			continue
		}
		if present[bucket] > 0 {
			continue // another of the first three already covers this bucket
		}
		// find the best-scoring later hit in this bucket and swap it forward.
		for j := 3; j < len(hits); j++ {
			if bucketOf(hits[j]) != bucket {
				continue
			}
			moved := hits[j]
			displaced := hits[slot]
			present[bucketOf(displaced)]--
			copy(hits[slot+1:j+1], hits[slot:j])
			hits[slot] = moved
			present[bucket]++
			break
		}
	}
}
