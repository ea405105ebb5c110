package graph

// NodeType classifies a node's role in a cause-effect diagram.
type NodeType string

const (
	NodeTypeLeaf         NodeType = "leaf"
	NodeTypeCause        NodeType = "cause"
	NodeTypeIntermediate NodeType = "intermediate"
	NodeTypeEffect       NodeType = "effect"
)

// Strength rates how strongly an edge's source drives its target.
type Strength string

const (
	StrengthStrong Strength = "strong"
	StrengthWeak   Strength = "weak"
	StrengthNormal Strength = "normal"
)

// Effect describes the direction of influence along an edge.
type Effect string

const (
	EffectIncreases Effect = "increases"
	EffectDecreases Effect = "decreases"
	EffectMixed     Effect = "mixed"
)

// Node represents a concept in a causal graph. The four score fields
// are independent ratings on a 1-10 scale; a nil pointer means the
// dimension was not rated.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type,omitempty"`

	Novelty       *int `json:"novelty,omitempty"`
	Sensitivity   *int `json:"sensitivity,omitempty"`
	Changeability *int `json:"changeability,omitempty"`
	Certainty     *int `json:"certainty,omitempty"`
}

// Edge represents a directed causal relation between two nodes.
// Strength and Effect are optional annotations; the zero value means
// the attribute was not set.
type Edge struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Strength Strength `json:"strength,omitempty"`
	Effect   Effect   `json:"effect,omitempty"`
}

// Graph is a cause-effect diagram supplied whole by a data source.
// It is treated as immutable: traversal and styling compute derived
// sets on demand and never modify the nodes or edges.
//
// Edges reference nodes by ID. The graph may contain cycles; it is
// not assumed to be a DAG.
type Graph struct {
	Slug  string `json:"slug"`
	Title string `json:"title,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns the node with the given ID, or nil if the graph
// has no such node.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
