// Package rerank defines the optional cross-encoder reranking hook used by
// the hybrid retriever's final stage, per spec.md section 4.5. No reranking
// model dependency exists anywhere in the retrieved corpus, so the default
// implementation is a no-op that preserves fusion order.
package rerank

// Reranker scores a (query, candidate document) pair. Higher is more
// relevant.
type Reranker interface {
	Score(query, document string) (float64, error)
	// Enabled reports whether this reranker should be consulted at all —
	// lets config gate the stage without a separate nil-check at call sites.
	Enabled() bool
}

// NoOp is the default reranker: it never reorders results. Score returns a
// neutral 0.5 for every candidate per spec.md section 7, and Enabled
// reports false so callers skip the stage entirely rather than pay for a
// no-op pass over every candidate.
type NoOp struct{}

func (NoOp) Score(_, _ string) (float64, error) { return 0.5, nil }
func (NoOp) Enabled() bool                      { return false }
