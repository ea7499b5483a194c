package pipeline

import (
	"github.com/fernbridge/codelens/internal/store"
)

// PageRank computes symbol centrality over the call/reference graph using
// standard power iteration with the given damping factor, run for at most
// maxIterations or until the scores converge within 1e-6 L1 distance,
// whichever comes first. No graph-centrality library is a dependency
// anywhere in the retrieved corpus (see DESIGN.md), so this is a direct,
// textbook implementation.
func PageRank(symbolIDs []string, edges []*store.Edge, damping float64, maxIterations int) map[string]float64 {
	n := len(symbolIDs)
	if n == 0 {
		return map[string]float64{}
	}

	index := make(map[string]int, n)
	for i, id := range symbolIDs {
		index[id] = i
	}

	outLinks := make([][]int, n)
	outDegree := make([]int, n)
	for _, e := range edges {
		from, ok1 := index[e.FromID]
		to, ok2 := index[e.ToID]
		if !ok1 || !ok2 || from == to {
			continue
		}
		outLinks[from] = append(outLinks[from], to)
		outDegree[from]++
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	base := (1 - damping) / float64(n)
	for iter := 0; iter < maxIterations; iter++ {
		next := make([]float64, n)
		for i := range next {
			next[i] = base
		}

		var danglingMass float64
		for i, deg := range outDegree {
			if deg == 0 {
				danglingMass += scores[i]
				continue
			}
			share := damping * scores[i] / float64(deg)
			for _, to := range outLinks[i] {
				next[to] += share
			}
		}
		if danglingMass > 0 {
			spread := damping * danglingMass / float64(n)
			for i := range next {
				next[i] += spread
			}
		}

		var delta float64
		for i := range next {
			d := next[i] - scores[i]
			if d < 0 {
				d = -d
			}
			delta += d
		}
		scores = next
		if delta < 1e-6 {
			break
		}
	}

	out := make(map[string]float64, n)
	for id, i := range index {
		out[id] = scores[i]
	}
	return out
}

// Degrees computes in/out degree per symbol from the edge set.
func Degrees(symbolIDs []string, edges []*store.Edge) (inDeg, outDeg map[string]int) {
	inDeg = make(map[string]int, len(symbolIDs))
	outDeg = make(map[string]int, len(symbolIDs))
	for _, id := range symbolIDs {
		inDeg[id] = 0
		outDeg[id] = 0
	}
	for _, e := range edges {
		outDeg[e.FromID]++
		inDeg[e.ToID]++
	}
	return inDeg, outDeg
}
