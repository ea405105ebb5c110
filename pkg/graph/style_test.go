package graph

import "testing"

func intPtr(v int) *int { return &v }

func TestBandOf(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		want  Band
	}{
		{name: "nil score", score: nil, want: BandUnset},
		{name: "minimum", score: intPtr(1), want: BandLow},
		{name: "low boundary", score: intPtr(3), want: BandLow},
		{name: "medium", score: intPtr(5), want: BandMedium},
		{name: "medium boundary", score: intPtr(7), want: BandMedium},
		{name: "high", score: intPtr(9), want: BandHigh},
		{name: "maximum", score: intPtr(10), want: BandHigh},
		{name: "below range", score: intPtr(0), want: BandUnset},
		{name: "above range", score: intPtr(11), want: BandUnset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BandOf(tt.score); got != tt.want {
				t.Fatalf("unexpected band: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNodeScoreDimensions(t *testing.T) {
	n := Node{
		ID:          "x",
		Novelty:     intPtr(8),
		Sensitivity: intPtr(2),
	}
	if got := n.Score(DimensionNovelty); got == nil || *got != 8 {
		t.Fatalf("novelty: got %v", got)
	}
	if got := n.Score(DimensionSensitivity); got == nil || *got != 2 {
		t.Fatalf("sensitivity: got %v", got)
	}
	if got := n.Score(DimensionCertainty); got != nil {
		t.Fatalf("unrated dimension should be nil, got %v", got)
	}
	if got := n.Score(Dimension("bogus")); got != nil {
		t.Fatalf("unknown dimension should be nil, got %v", got)
	}
}

func TestStyleNodeDimming(t *testing.T) {
	res := Traverse("A", chainEdges(), 1, ModeDirected)
	state := HighlightState{SelectedNode: "A"}

	inside := StyleNode(Node{ID: "B"}, res, state)
	if inside.Opacity != fullOpacity || !inside.Emphasized {
		t.Fatalf("node in result should be emphasized: %+v", inside)
	}

	selected := StyleNode(Node{ID: "A"}, res, state)
	if selected.StrokeWidth <= inside.StrokeWidth {
		t.Fatalf("selected node should have the widest stroke: %+v vs %+v", selected, inside)
	}

	outside := StyleNode(Node{ID: "D"}, res, state)
	if outside.Opacity != dimmedOpacity || outside.Emphasized {
		t.Fatalf("node outside result should be dimmed: %+v", outside)
	}

	idle := StyleNode(Node{ID: "D"}, res, HighlightState{})
	if idle.Opacity != fullOpacity {
		t.Fatalf("no interaction state should mean no dimming: %+v", idle)
	}
}

func TestStyleEdgeAttributes(t *testing.T) {
	res := Traverse("A", chainEdges(), 1, ModeDirected)
	state := HighlightState{HoveredNode: "A"}

	strong := StyleEdge(Edge{ID: "e1", Strength: StrengthStrong, Effect: EffectIncreases}, res, state)
	if !strong.Emphasized || strong.Dashed {
		t.Fatalf("strong edge in result: %+v", strong)
	}

	weak := StyleEdge(Edge{ID: "e1", Strength: StrengthWeak}, res, state)
	if !weak.Dashed || weak.StrokeWidth >= strong.StrokeWidth {
		t.Fatalf("weak edge should be dashed and thinner: %+v vs %+v", weak, strong)
	}

	// Unknown attribute values take the fallback style, never panic.
	odd := StyleEdge(Edge{ID: "e3", Strength: Strength("?"), Effect: Effect("?")}, res, state)
	if odd.Opacity != dimmedOpacity {
		t.Fatalf("edge outside result should be dimmed: %+v", odd)
	}
	if odd.Color == "" || odd.StrokeWidth == 0 {
		t.Fatalf("fallback style must be total: %+v", odd)
	}
}
