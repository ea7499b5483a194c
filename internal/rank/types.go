// Package rank is the hybrid retriever: keyword, vector, and graph-rank
// branches fused by Reciprocal Rank Fusion, then adjusted by structural,
// intent, popularity, and learning signals, optionally reranked, and
// finally diversified, per spec.md section 4.5.
package rank

import "github.com/fernbridge/codelens/internal/store"

// Hit is one scored candidate as it flows through the ranking pipeline.
// Fields accumulate as the hit passes through each stage; Reasons records
// which adjustments fired, surfaced to callers for debuggability.
type Hit struct {
	Symbol  *store.Symbol
	Score   float64
	Reasons []string

	// Rank-in-source bookkeeping for RRF; zero means "not present in that
	// source's result list".
	KeywordRank int
	VectorRank  int
	GraphRank   int

	// KeywordScore/VectorScore back the linear-blend fallback path.
	KeywordScore float64
	VectorScore  float64

	// FromExpansion marks a hit introduced by graph expansion rather than
	// one of the three primary branches, so diversification and final
	// tiebreaks can treat it consistently with a direct hit.
	FromExpansion bool
}

func (h *Hit) addReason(r string) {
	h.Reasons = append(h.Reasons, r)
}

// Request bundles everything one retrieval call needs beyond the rewritten
// query itself.
type Request struct {
	Limit        int
	ExportedOnly bool
}
