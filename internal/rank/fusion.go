package rank

import (
	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

// fuseRRF combines the three branches by Reciprocal Rank Fusion, per
// spec.md section 4.5: score(doc) = Σ w_source / (k + rank_in_source(doc)),
// chosen because the sources produce scores on incomparable scales.
func fuseRRF(
	keywordHits []fulltext.Hit, keywordSymbols map[string]*store.Symbol,
	vectorHits []vectorstore.Hit, vectorSymbols map[string]*store.Symbol,
	graphOrder []string, graphSymbols map[string]*store.Symbol,
	k int, wKeyword, wVector, wGraph float64,
) map[string]*Hit {
	hits := make(map[string]*Hit)

	get := func(id string, symbols map[string]*store.Symbol) *Hit {
		if h, ok := hits[id]; ok {
			return h
		}
		sym := symbols[id]
		if sym == nil {
			return nil
		}
		h := &Hit{Symbol: sym}
		hits[id] = h
		return h
	}

	for i, kh := range keywordHits {
		h := get(kh.SymbolID, keywordSymbols)
		if h == nil {
			continue
		}
		rank := i + 1
		h.KeywordRank = rank
		h.KeywordScore = kh.Score
		h.Score += wKeyword / float64(k+rank)
	}
	for i, vh := range vectorHits {
		h := get(vh.SymbolID, vectorSymbols)
		if h == nil {
			continue
		}
		rank := i + 1
		h.VectorRank = rank
		h.VectorScore = vh.Score
		h.Score += wVector / float64(k+rank)
	}
	for i, id := range graphOrder {
		h := get(id, graphSymbols)
		if h == nil {
			continue
		}
		rank := i + 1
		h.GraphRank = rank
		h.Score += wGraph / float64(k+rank)
	}
	return hits
}

// fuseLinearBlend is the RRF-disabled fallback: a normalized linear blend
// of per-source scores, per spec.md section 4.5. Vector scores are
// max-normalized; bm25 scores are inverted and scaled over their range, so
// the best keyword hit gets 1 and the worst 0.
func fuseLinearBlend(
	keywordHits []fulltext.Hit, keywordSymbols map[string]*store.Symbol,
	vectorHits []vectorstore.Hit, vectorSymbols map[string]*store.Symbol,
	wKeyword, wVector float64,
) map[string]*Hit {
	hits := make(map[string]*Hit)
	get := func(id string, symbols map[string]*store.Symbol) *Hit {
		if h, ok := hits[id]; ok {
			return h
		}
		sym := symbols[id]
		if sym == nil {
			return nil
		}
		h := &Hit{Symbol: sym}
		hits[id] = h
		return h
	}

	maxKeyword := maxFulltextScore(keywordHits)
	minKeyword := maxKeyword
	for _, kh := range keywordHits {
		if kh.Score < minKeyword {
			minKeyword = kh.Score
		}
	}
	maxVector := maxVectorScore(vectorHits)

	for _, kh := range keywordHits {
		h := get(kh.SymbolID, keywordSymbols)
		if h == nil {
			continue
		}
		h.KeywordScore = kh.Score
		norm := 0.0
		if spread := maxKeyword - minKeyword; spread > 0 {
			// bm25 is "lower is better" (SQLite reports it negative); invert
			// by measuring distance from the worst score, then normalize.
			norm = (maxKeyword - kh.Score) / spread
		}
		h.Score += wKeyword * norm
	}
	for _, vh := range vectorHits {
		h := get(vh.SymbolID, vectorSymbols)
		if h == nil {
			continue
		}
		h.VectorScore = vh.Score
		norm := 0.0
		if maxVector > 0 {
			norm = vh.Score / maxVector
		}
		h.Score += wVector * norm
	}
	return hits
}

func maxFulltextScore(hits []fulltext.Hit) float64 {
	var max float64
	for i, h := range hits {
		if i == 0 || h.Score > max {
			max = h.Score
		}
	}
	return max
}

func maxVectorScore(hits []vectorstore.Hit) float64 {
	var max float64
	for i, h := range hits {
		if i == 0 || h.Score > max {
			max = h.Score
		}
	}
	return max
}
