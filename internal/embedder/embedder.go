// Package embedder produces fixed-dimension vectors for symbol text. The
// default backend is a deterministic hash embedding requiring no external
// model; a neural backend can be swapped in behind the same interface
// without touching callers, per spec.md section 4.4's "EMBEDDINGS_BACKEND"
// configuration switch.
package embedder

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	// Embed returns a vector of Dim() length for text.
	Embed(text string) ([]float32, error)
	// Dim returns the fixed dimension this embedder produces.
	Dim() int
}

// HashEmbedder is the dependency-free default backend. It hashes
// overlapping word shingles into buckets of a fixed-size vector, giving
// texts sharing vocabulary a nonzero cosine similarity without requiring a
// trained model. It is not intended to approach the quality of a neural
// embedding — it exists so the vector branch of retrieval (and the overall
// three-store architecture) works end to end with zero external
// dependencies when EMBEDDINGS_BACKEND=hash.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder returns a HashEmbedder producing vectors of length dim.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 256
	}
	return &HashEmbedder{dim: dim}
}

func (h *HashEmbedder) Dim() int { return h.dim }

// Embed hashes each whitespace-delimited token (and each bigram of adjacent
// tokens) into a signed bucket contribution, then L2-normalizes the result.
func (h *HashEmbedder) Embed(text string) ([]float32, error) {
	vec := make([]float64, h.dim)
	tokens := tokenize(text)
	for i, tok := range tokens {
		addToken(vec, tok)
		if i > 0 {
			addToken(vec, tokens[i-1]+"_"+tok)
		}
	}
	return normalize(vec), nil
}

func addToken(vec []float64, tok string) {
	sum := xxhash.Sum64String(tok)
	idx := int(sum % uint64(len(vec)))
	sign := 1.0
	if (sum>>1)%2 == 1 {
		sign = -1.0
	}
	vec[idx] += sign
}

func tokenize(text string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func normalize(vec []float64) []float32 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(vec))
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
