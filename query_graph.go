package codelens

import "github.com/fernbridge/codelens/internal/store"

// ReferenceHit is one incoming reference to a resolved symbol, with the
// evidence occurrences the edge accumulated.
type ReferenceHit struct {
	FromID   string
	FilePath string
	Line     int
	Type     string
	Evidence []*store.EdgeEvidence
}

// FindReferences resolves symbol_name (optionally scoped to file) and
// returns every incoming edge, optionally filtered to one reference_type,
// backing the find_references tool.
func (q *QueryBuilder) FindReferences(name, file, referenceType string, limit int) ([]ReferenceHit, error) {
	syms, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	limit = withDefault(limit, defaultSearchLimit)

	var types []string
	if referenceType != "" {
		types = []string{referenceType}
	}

	var hits []ReferenceHit
	for _, sym := range syms {
		edges, err := q.engine.Store.IncomingEdges(sym.ID, types...)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			ev, err := q.engine.Store.EdgeEvidenceFor(e.FromID, e.ToID, e.Type)
			if err != nil {
				return nil, err
			}
			hits = append(hits, ReferenceHit{FromID: e.FromID, FilePath: e.File, Line: e.Line, Type: e.Type, Evidence: ev})
			if len(hits) >= limit {
				return hits, nil
			}
		}
	}
	return hits, nil
}

// CallNode is one frame of a call hierarchy tree, expanded to Depth levels
// in Direction ("callers" or "callees").
type CallNode struct {
	Symbol   *store.Symbol
	Children []CallNode
}

// GetCallHierarchy walks store.EdgeCall edges up to depth levels deep from
// every symbol matching symbol_name, backing the get_call_hierarchy tool.
// direction "callers" walks incoming edges, anything else walks outgoing
// (callees).
func (q *QueryBuilder) GetCallHierarchy(name, file, direction string, depth, limit int) ([]CallNode, error) {
	seeds, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	depth = withDefault(depth, 2)
	limit = withDefault(limit, defaultSearchLimit)
	visited := map[string]bool{}
	budget := &limit

	nodes := make([]CallNode, 0, len(seeds))
	for _, sym := range seeds {
		node, err := q.walkCallHierarchy(sym, direction, depth, visited, budget)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (q *QueryBuilder) walkCallHierarchy(sym *store.Symbol, direction string, depth int, visited map[string]bool, budget *int) (CallNode, error) {
	node := CallNode{Symbol: sym}
	if depth <= 0 || *budget <= 0 || visited[sym.ID] {
		return node, nil
	}
	visited[sym.ID] = true

	var edges []*store.Edge
	var err error
	if direction == "callers" {
		edges, err = q.engine.Store.IncomingEdges(sym.ID, store.EdgeCall)
	} else {
		edges, err = q.engine.Store.OutgoingEdges(sym.ID, store.EdgeCall)
	}
	if err != nil {
		return node, err
	}

	for _, e := range edges {
		if *budget <= 0 {
			break
		}
		neighborID := e.ToID
		if direction == "callers" {
			neighborID = e.FromID
		}
		neighbor, err := q.engine.Store.SymbolByID(neighborID)
		if err != nil || neighbor == nil {
			continue
		}
		*budget--
		child, err := q.walkCallHierarchy(neighbor, direction, depth-1, visited, budget)
		if err != nil {
			return node, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// typeGraphEdgeTypes are the edge kinds get_type_graph and
// explore_dependency_graph traverse for type relationships.
var typeGraphEdgeTypes = []string{store.EdgeType, store.EdgeExtends, store.EdgeImplements, store.EdgeAlias}

// GraphNode is one node of a BFS-expanded symbol neighborhood, along with
// the edges that connect it to the frontier that discovered it.
type GraphNode struct {
	Symbol *store.Symbol
	Edges  []*store.Edge
}

// GetTypeGraph BFS-expands the extends/implements/alias/type-reference
// neighborhood of every symbol matching symbol_name, up to depth levels,
// backing the get_type_graph tool.
func (q *QueryBuilder) GetTypeGraph(name, file string, depth, limit int) ([]GraphNode, error) {
	seeds, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	return q.bfsNeighborhood(seeds, typeGraphEdgeTypes, withDefault(depth, 2), withDefault(limit, defaultSearchLimit))
}

// ExploreDependencyGraph BFS-expands every edge type from every symbol
// matching symbol_name, optionally restricted to one direction, backing
// the explore_dependency_graph tool.
func (q *QueryBuilder) ExploreDependencyGraph(name, file, direction string, depth, limit int) ([]GraphNode, error) {
	seeds, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	depth = withDefault(depth, 2)
	limit = withDefault(limit, defaultSearchLimit)

	visited := map[string]bool{}
	frontier := seeds
	var nodes []GraphNode

	for level := 0; level < depth && len(frontier) > 0 && len(nodes) < limit; level++ {
		var next []*store.Symbol
		for _, sym := range frontier {
			if visited[sym.ID] {
				continue
			}
			visited[sym.ID] = true

			var edges []*store.Edge
			if direction != "incoming" {
				out, err := q.engine.Store.OutgoingEdges(sym.ID)
				if err != nil {
					return nil, err
				}
				edges = append(edges, out...)
			}
			if direction != "outgoing" {
				in, err := q.engine.Store.IncomingEdges(sym.ID)
				if err != nil {
					return nil, err
				}
				edges = append(edges, in...)
			}
			nodes = append(nodes, GraphNode{Symbol: sym, Edges: edges})
			if len(nodes) >= limit {
				break
			}
			for _, e := range edges {
				neighborID := e.ToID
				if e.ToID == sym.ID {
					neighborID = e.FromID
				}
				if visited[neighborID] {
					continue
				}
				neighbor, err := q.engine.Store.SymbolByID(neighborID)
				if err == nil && neighbor != nil {
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}
	return nodes, nil
}

// bfsNeighborhood expands seeds breadth-first over edges of the given
// types only, shared by GetTypeGraph and any future typed-edge walk.
func (q *QueryBuilder) bfsNeighborhood(seeds []*store.Symbol, edgeTypes []string, depth, limit int) ([]GraphNode, error) {
	visited := map[string]bool{}
	frontier := seeds
	var nodes []GraphNode

	for level := 0; level < depth && len(frontier) > 0 && len(nodes) < limit; level++ {
		var next []*store.Symbol
		for _, sym := range frontier {
			if visited[sym.ID] {
				continue
			}
			visited[sym.ID] = true

			out, err := q.engine.Store.OutgoingEdges(sym.ID, edgeTypes...)
			if err != nil {
				return nil, err
			}
			in, err := q.engine.Store.IncomingEdges(sym.ID, edgeTypes...)
			if err != nil {
				return nil, err
			}
			edges := append(out, in...)

			nodes = append(nodes, GraphNode{Symbol: sym, Edges: edges})
			if len(nodes) >= limit {
				break
			}
			for _, e := range edges {
				neighborID := e.ToID
				if e.ToID == sym.ID {
					neighborID = e.FromID
				}
				if visited[neighborID] {
					continue
				}
				neighbor, err := q.engine.Store.SymbolByID(neighborID)
				if err == nil && neighbor != nil {
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}
	return nodes, nil
}
