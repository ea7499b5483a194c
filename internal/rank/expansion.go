package rank

import (
	"math"

	"github.com/fernbridge/codelens/internal/store"
)

const (
	expansionSeeds = 3
	expansionDecay = 0.8
)

var typeKinds = map[string]bool{
	store.KindStruct:    true,
	store.KindClass:     true,
	store.KindInterface: true,
	store.KindTrait:     true,
	store.KindEnum:      true,
}

var typeIncomingEdgeTypes = []string{
	store.EdgeReference, store.EdgeType, store.EdgeExtends, store.EdgeImplements, store.EdgeAlias,
}

// expandGraph pulls direct neighbors of the top expansionSeeds surviving
// hits, per spec.md section 4.5's graph expansion step. Expansion hits that
// coincide with an existing hit only raise its score if the expansion score
// is higher, never silently overwrite a stronger direct hit.
func expandGraph(st *store.Store, ordered []*Hit, hits map[string]*Hit) error {
	seedCount := expansionSeeds
	if seedCount > len(ordered) {
		seedCount = len(ordered)
	}

	for _, seed := range ordered[:seedCount] {
		var edges []*store.Edge
		var err error
		if typeKinds[seed.Symbol.Kind] {
			edges, err = st.IncomingEdges(seed.Symbol.ID, typeIncomingEdgeTypes...)
		} else {
			edges, err = st.OutgoingEdges(seed.Symbol.ID, store.EdgeCall)
		}
		if err != nil {
			return err
		}

		for _, e := range edges {
			neighborID := e.ToID
			if typeKinds[seed.Symbol.Kind] {
				neighborID = e.FromID
			}
			score := seed.Score * expansionDecay * e.Confidence * resolutionMultiplier(e.Resolution) * evidenceBoost(e.EvidenceCount)

			if existing, ok := hits[neighborID]; ok {
				if score > existing.Score {
					existing.Score = score
					existing.addReason("graph_expansion")
				}
				continue
			}
			sym, err := st.SymbolByID(neighborID)
			if err != nil {
				if err == store.ErrNotFound {
					continue
				}
				return err
			}
			h := &Hit{Symbol: sym, Score: score, FromExpansion: true}
			h.addReason("graph_expansion")
			hits[neighborID] = h
		}
	}
	return nil
}

// resolutionMultiplier implements spec.md section 4.5's
// resolution_multiplier ∈ {1.0, 0.9, 0.75, 0.8} for
// {local, import, heuristic, unknown}.
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

// evidenceBoost implements clamp(1 + 0.25·ln(1+evidence_count), 1.0, 1.75).
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
