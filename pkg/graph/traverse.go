package graph

// Mode selects the adjacency semantics for a traversal.
type Mode string

const (
	// ModeDirected follows edges both downstream (what the start node
	// causes) and upstream (what causes it), each bounded separately.
	// Used for causal-path highlighting.
	ModeDirected Mode = "directed"
	// ModeUndirected ignores edge direction and explores the immediate
	// neighborhood. Used for hover highlighting.
	ModeUndirected Mode = "undirected"
)

// Result holds the node and edge IDs reached by a traversal. Both are
// sets; callers only perform membership tests when deciding what to
// highlight.
type Result struct {
	NodeIDs map[string]struct{}
	EdgeIDs map[string]struct{}
}

// HasNode reports whether the traversal reached the given node.
func (r Result) HasNode(id string) bool {
	_, ok := r.NodeIDs[id]
	return ok
}

// HasEdge reports whether the traversal crossed the given edge.
func (r Result) HasEdge(id string) bool {
	_, ok := r.EdgeIDs[id]
	return ok
}

type hop struct {
	nodeID string
	edgeID string
}

// Traverse computes the set of nodes and edges reachable from startID
// within depth hops under the given mode. The start node is always
// part of the result, even when it appears in no edge. A depth of 0
// yields just the start node. Unknown edge endpoints are treated as
// edges to nowhere: their IDs can appear in the result without a
// matching node in the graph.
//
// Traverse is pure and never fails; repeated calls with the same
// inputs return identical results.
func Traverse(startID string, edges []Edge, depth int, mode Mode) Result {
	res := Result{
		NodeIDs: map[string]struct{}{startID: {}},
		EdgeIDs: map[string]struct{}{},
	}
	if depth <= 0 {
		return res
	}

	if mode == ModeUndirected {
		adj := make(map[string][]hop, len(edges)*2)
		for _, e := range edges {
			adj[e.Source] = append(adj[e.Source], hop{nodeID: e.Target, edgeID: e.ID})
			adj[e.Target] = append(adj[e.Target], hop{nodeID: e.Source, edgeID: e.ID})
		}
		bfs(startID, adj, depth, &res)
		return res
	}

	forward := make(map[string][]hop, len(edges))
	backward := make(map[string][]hop, len(edges))
	for _, e := range edges {
		forward[e.Source] = append(forward[e.Source], hop{nodeID: e.Target, edgeID: e.ID})
		backward[e.Target] = append(backward[e.Target], hop{nodeID: e.Source, edgeID: e.ID})
	}
	bfs(startID, forward, depth, &res)
	bfs(startID, backward, depth, &res)
	return res
}

// bfs runs a breadth-first expansion bounded to depth layers over the
// given adjacency map, unioning discovered nodes and crossed edges
// into res. It stops early once a frontier produces no new nodes.
func bfs(startID string, adj map[string][]hop, depth int, res *Result) {
	visited := map[string]struct{}{startID: {}}
	frontier := []string{startID}

	for layer := 0; layer < depth && len(frontier) > 0; layer++ {
		var next []string
		for _, id := range frontier {
			for _, h := range adj[id] {
				res.EdgeIDs[h.edgeID] = struct{}{}
				res.NodeIDs[h.nodeID] = struct{}{}
				if _, seen := visited[h.nodeID]; !seen {
					visited[h.nodeID] = struct{}{}
					next = append(next, h.nodeID)
				}
			}
		}
		frontier = next
	}
}
