package assemble

import (
	"math"

	"github.com/fernbridge/codelens/internal/store"
)

// Breadth, fan-out, and exploration caps from spec.md section 4.6 step 3.
const (
	maxDepth       = 2
	fanOutCap      = 20
	explorationCap = 100
)

type candidate struct {
	symbolID string
	score    float64
	viaType  string
}

// typeMultiplier implements spec.md section 4.6 step 3's
// type_mult ∈ { extends|implements|alias|type: 1.5, call: 1.0,
// reference: 0.8, other: 1.0 }.
func typeMultiplier(edgeType string) float64 {
	switch edgeType {
	case store.EdgeExtends, store.EdgeImplements, store.EdgeAlias, store.EdgeType:
		return 1.5
	case store.EdgeCall:
		return 1.0
	case store.EdgeReference:
		return 0.8
	default:
		return 1.0
	}
}

// resolutionMultiplier mirrors internal/rank's graph-expansion table — the
// same {local, import, heuristic, unknown} -> {1.0, 0.9, 0.75, 0.8}
// mapping spec.md section 4.5 defines, reapplied here per section 4.6's
// own "resolution_mult" factor. Duplicated rather than imported from
// internal/rank to keep the assembler independent of the retriever.
func resolutionMultiplier(resolution string) float64 {
	switch resolution {
	case store.ResolutionLocal:
		return 1.0
	case store.ResolutionImport:
		return 0.9
	case store.ResolutionHeuristic:
		return 0.75
	default:
		return 0.8
	}
}

// evidenceBoost implements clamp(1 + 0.25·ln(1+evidence_count), 1.0, 1.75),
// the same formula internal/rank's graph expansion uses.
func evidenceBoost(evidenceCount int) float64 {
	boost := 1 + 0.25*math.Log(1+float64(evidenceCount))
	if boost < 1.0 {
		return 1.0
	}
	if boost > 1.75 {
		return 1.75
	}
	return boost
}

type frontierNode struct {
	id    string
	depth int
}

// walkNeighborhood performs the breadth-limited walk from spec.md section
// 4.6 step 3 starting from every root id. seen marks ids already included
// (the roots themselves) so they're never re-added as candidates. Returns
// the best-scoring candidate reached for each newly-discovered symbol id.
func walkNeighborhood(st *store.Store, rootIDs []string, seen map[string]bool) (map[string]*candidate, error) {
	scored := make(map[string]*candidate)
	visited := make(map[string]bool)
	explored := 0

	frontier := make([]frontierNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		frontier = append(frontier, frontierNode{id: id, depth: 0})
		visited[id] = true
	}

	for len(frontier) > 0 && explored < explorationCap {
		node := frontier[0]
		frontier = frontier[1:]
		if node.depth >= maxDepth {
			continue
		}

		edges, err := st.OutgoingEdges(node.id)
		if err != nil {
			return nil, err
		}
		if len(edges) > fanOutCap {
			edges = edges[:fanOutCap]
		}

		childDepth := node.depth + 1
		for _, e := range edges {
			if explored >= explorationCap {
				break
			}
			explored++
			if seen[e.ToID] {
				continue
			}
			score := (1 / float64(childDepth+1)) * typeMultiplier(e.Type) *
				resolutionMultiplier(e.Resolution) * e.Confidence * evidenceBoost(e.EvidenceCount)

			if existing, ok := scored[e.ToID]; !ok || score > existing.score {
				scored[e.ToID] = &candidate{symbolID: e.ToID, score: score, viaType: e.Type}
			}
			if !visited[e.ToID] {
				visited[e.ToID] = true
				frontier = append(frontier, frontierNode{id: e.ToID, depth: childDepth})
			}
		}
	}
	return scored, nil
}
