package graph

import "testing"

func chainEdges() []Edge {
	return []Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "e2", Source: "B", Target: "C"},
		{ID: "e3", Source: "C", Target: "D"},
	}
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func assertSet(t *testing.T, got map[string]struct{}, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("unexpected set size: got %v, want %v", keys(got), want)
	}
	for _, id := range want {
		if _, ok := got[id]; !ok {
			t.Fatalf("missing %q: got %v, want %v", id, keys(got), want)
		}
	}
}

func TestTraverseDirectedChain(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		depth     int
		wantNodes []string
		wantEdges []string
	}{
		{
			name:      "depth one from head",
			start:     "A",
			depth:     1,
			wantNodes: []string{"A", "B"},
			wantEdges: []string{"e1"},
		},
		{
			name:      "depth exceeding chain length",
			start:     "A",
			depth:     10,
			wantNodes: []string{"A", "B", "C", "D"},
			wantEdges: []string{"e1", "e2", "e3"},
		},
		{
			name:      "middle node sees both directions",
			start:     "B",
			depth:     1,
			wantNodes: []string{"A", "B", "C"},
			wantEdges: []string{"e1", "e2"},
		},
		{
			name:      "depth zero is start only",
			start:     "B",
			depth:     0,
			wantNodes: []string{"B"},
			wantEdges: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Traverse(tt.start, chainEdges(), tt.depth, ModeDirected)
			assertSet(t, res.NodeIDs, tt.wantNodes...)
			assertSet(t, res.EdgeIDs, tt.wantEdges...)
		})
	}
}

func TestTraverseUndirectedNeighborhood(t *testing.T) {
	res := Traverse("C", chainEdges(), 1, ModeUndirected)
	assertSet(t, res.NodeIDs, "B", "C", "D")
	assertSet(t, res.EdgeIDs, "e2", "e3")
}

func TestTraverseUndirectedSymmetry(t *testing.T) {
	edges := chainEdges()
	ids := []string{"A", "B", "C", "D"}
	for _, a := range ids {
		for _, b := range ids {
			fromA := Traverse(a, edges, 2, ModeUndirected)
			if !fromA.HasNode(b) {
				continue
			}
			fromB := Traverse(b, edges, 2, ModeUndirected)
			if !fromB.HasNode(a) {
				t.Fatalf("symmetry broken: %s reaches %s but %s does not reach %s", a, b, b, a)
			}
		}
	}
}

func TestTraverseMissingStartNode(t *testing.T) {
	res := Traverse("ghost", chainEdges(), 3, ModeDirected)
	assertSet(t, res.NodeIDs, "ghost")
	assertSet(t, res.EdgeIDs)
}

func TestTraverseNoEdges(t *testing.T) {
	for _, mode := range []Mode{ModeDirected, ModeUndirected} {
		res := Traverse("A", nil, 5, mode)
		assertSet(t, res.NodeIDs, "A")
		assertSet(t, res.EdgeIDs)
	}
}

func TestTraverseCycleTerminates(t *testing.T) {
	edges := []Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "e2", Source: "B", Target: "A"},
	}
	res := Traverse("A", edges, 100, ModeDirected)
	assertSet(t, res.NodeIDs, "A", "B")
	assertSet(t, res.EdgeIDs, "e1", "e2")
}

func TestTraverseDepthBound(t *testing.T) {
	// Long chain: depth d must never reach past d hops.
	edges := []Edge{
		{ID: "e1", Source: "n0", Target: "n1"},
		{ID: "e2", Source: "n1", Target: "n2"},
		{ID: "e3", Source: "n2", Target: "n3"},
		{ID: "e4", Source: "n3", Target: "n4"},
	}
	for depth := 0; depth <= 4; depth++ {
		res := Traverse("n0", edges, depth, ModeDirected)
		if len(res.NodeIDs) != depth+1 {
			t.Fatalf("depth %d: got %d nodes, want %d", depth, len(res.NodeIDs), depth+1)
		}
	}
}

func TestTraverseUnknownTargetAppearsAsID(t *testing.T) {
	edges := []Edge{{ID: "e1", Source: "A", Target: "nowhere"}}
	res := Traverse("A", edges, 1, ModeDirected)
	assertSet(t, res.NodeIDs, "A", "nowhere")
	assertSet(t, res.EdgeIDs, "e1")
}

func TestTraverseDeterminism(t *testing.T) {
	edges := []Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "e2", Source: "A", Target: "C"},
		{ID: "e3", Source: "C", Target: "B"},
		{ID: "e4", Source: "B", Target: "D"},
	}
	first := Traverse("A", edges, 2, ModeDirected)
	for i := 0; i < 10; i++ {
		again := Traverse("A", edges, 2, ModeDirected)
		assertSet(t, again.NodeIDs, keys(first.NodeIDs)...)
		assertSet(t, again.EdgeIDs, keys(first.EdgeIDs)...)
	}
}
