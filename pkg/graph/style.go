package graph

// Dimension names one of the four independent node rating scales.
type Dimension string

const (
	DimensionNovelty       Dimension = "novelty"
	DimensionSensitivity   Dimension = "sensitivity"
	DimensionChangeability Dimension = "changeability"
	DimensionCertainty     Dimension = "certainty"
)

// Band buckets a 1-10 rating into a closed set of display levels.
// BandUnset is the explicit fallback for absent or out-of-range
// scores; there is no fuzzy matching between levels.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
	BandUnset  Band = "unset"
)

// BandOf maps a rating to its display band. Scores outside [1,10]
// and nil scores both map to BandUnset.
func BandOf(score *int) Band {
	if score == nil {
		return BandUnset
	}
	switch {
	case *score < 1 || *score > 10:
		return BandUnset
	case *score <= 3:
		return BandLow
	case *score <= 7:
		return BandMedium
	default:
		return BandHigh
	}
}

// Score returns the node's rating on the given dimension, or nil when
// the dimension is unknown or unrated.
func (n Node) Score(dim Dimension) *int {
	switch dim {
	case DimensionNovelty:
		return n.Novelty
	case DimensionSensitivity:
		return n.Sensitivity
	case DimensionChangeability:
		return n.Changeability
	case DimensionCertainty:
		return n.Certainty
	default:
		return nil
	}
}

// HighlightState captures the front-end's current interaction state.
// An empty HoveredNode/SelectedNode means no hover/selection.
type HighlightState struct {
	HoveredNode  string
	SelectedNode string
}

// Active reports whether any node is hovered or selected, i.e.
// whether dimming applies at all.
func (s HighlightState) Active() bool {
	return s.HoveredNode != "" || s.SelectedNode != ""
}

// NodeStyle describes how a node should be drawn.
type NodeStyle struct {
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"stroke_width"`
	Emphasized  bool    `json:"emphasized"`
}

// EdgeStyle describes how an edge should be drawn.
type EdgeStyle struct {
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"stroke_width"`
	Color       string  `json:"color"`
	Dashed      bool    `json:"dashed"`
	Emphasized  bool    `json:"emphasized"`
}

const (
	fullOpacity   = 1.0
	dimmedOpacity = 0.2
)

// StyleNode derives the display style for a node from the traversal
// result and interaction state. Styling is a pure function of its
// inputs: the same (result, state, node) always yields the same style.
func StyleNode(n Node, res Result, state HighlightState) NodeStyle {
	st := NodeStyle{Opacity: fullOpacity, StrokeWidth: 1}
	if !state.Active() {
		return st
	}
	if !res.HasNode(n.ID) {
		st.Opacity = dimmedOpacity
		return st
	}
	st.Emphasized = true
	if n.ID == state.SelectedNode || n.ID == state.HoveredNode {
		st.StrokeWidth = 3
	} else {
		st.StrokeWidth = 2
	}
	return st
}

// StyleEdge derives the display style for an edge. Width follows the
// edge's strength and color its effect, each through a total mapping
// with an explicit default arm.
func StyleEdge(e Edge, res Result, state HighlightState) EdgeStyle {
	st := EdgeStyle{
		Opacity:     fullOpacity,
		StrokeWidth: strengthWidth(e.Strength),
		Color:       effectColor(e.Effect),
		Dashed:      e.Strength == StrengthWeak,
	}
	if !state.Active() {
		return st
	}
	if !res.HasEdge(e.ID) {
		st.Opacity = dimmedOpacity
		return st
	}
	st.Emphasized = true
	st.StrokeWidth += 1
	return st
}

func strengthWidth(s Strength) float64 {
	switch s {
	case StrengthStrong:
		return 3
	case StrengthWeak:
		return 1
	case StrengthNormal:
		return 2
	default:
		return 2
	}
}

func effectColor(e Effect) string {
	switch e {
	case EffectIncreases:
		return "#16a34a"
	case EffectDecreases:
		return "#dc2626"
	case EffectMixed:
		return "#ca8a04"
	default:
		return "#64748b"
	}
}
