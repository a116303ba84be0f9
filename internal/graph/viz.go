package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed palette shared with the renderer
const (
	ColorStudent    = "#1f78b4"
	ColorCourse     = "#33a02c"
	ColorLiked      = "#2ca02c"
	ColorDisliked   = "#d62728"
	ColorWillEnroll = "#ff7f0e"
	ColorUnknown    = "#7f7f7f"

	DefaultNodeSize = 200
)

// EdgeColor maps an interaction type to its palette colour; anything outside
// the palette is drawn as unknown.
func EdgeColor(t InteractionType) string {
	switch t {
	case Liked:
		return ColorLiked
	case Disliked:
		return ColorDisliked
	case WillEnroll:
		return ColorWillEnroll
	default:
		return ColorUnknown
	}
}

// VizOptions describes what produced the graph being drawn
type VizOptions struct {
	Seeds    []NodeKey
	Hops     int // negative when not an ego-network
	NodeSize int
}

// VizNode is a node as the renderer needs it
type VizNode struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	Size  int      `json:"size"`
}

// VizEdge is an edge as the renderer needs it
type VizEdge struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Type   InteractionType `json:"type"`
	Color  string          `json:"color"`
}

// LegendEntry pairs an interaction type with its colour
type LegendEntry struct {
	Type  InteractionType `json:"type"`
	Color string          `json:"color"`
}

// VizData is everything an external renderer needs to draw a graph
type VizData struct {
	Title    string        `json:"title,omitempty"`
	Students int           `json:"students"`
	Courses  int           `json:"courses"`
	Nodes    []VizNode     `json:"nodes"`
	Edges    []VizEdge     `json:"edges"`
	Legend   []LegendEntry `json:"legend"`
}

// BuildVizData classifies every node and edge of g for drawing.
// Course nodes are drawn 1.2x the student size.
func BuildVizData(g *Graph, opts VizOptions) *VizData {
	size := opts.NodeSize
	if size <= 0 {
		size = DefaultNodeSize
	}

	data := &VizData{
		Title:  vizTitle(opts),
		Nodes:  make([]VizNode, 0, g.NumNodes()),
		Edges:  make([]VizEdge, 0, g.NumEdges()),
		Legend: []LegendEntry{{Liked, ColorLiked}, {Disliked, ColorDisliked}, {WillEnroll, ColorWillEnroll}},
	}
	data.Students, data.Courses = g.Counts()

	for _, n := range g.Nodes() {
		key := n.Key()
		vn := VizNode{ID: key.String(), Kind: key.Kind, Label: key.Label(), Color: ColorStudent, Size: size}
		if key.Kind == KindCourse {
			vn.Color = ColorCourse
			vn.Size = int(float64(size) * 1.2)
		}
		data.Nodes = append(data.Nodes, vn)
	}

	for _, e := range g.Edges() {
		t := Classify(e)
		data.Edges = append(data.Edges, VizEdge{
			Source: e.Student.String(),
			Target: e.Course.String(),
			Type:   t,
			Color:  EdgeColor(t),
		})
	}
	return data
}

// vizTitle renders "students=0,1 | hops=2"
func vizTitle(opts VizOptions) string {
	var parts []string
	if len(opts.Seeds) > 0 {
		refs := make([]string, len(opts.Seeds))
		for i, s := range opts.Seeds {
			if s.Kind == KindStudent {
				refs[i] = strconv.Itoa(s.ID)
			} else {
				refs[i] = s.String()
			}
		}
		parts = append(parts, "students="+strings.Join(refs, ","))
	}
	if opts.Hops >= 0 {
		parts = append(parts, fmt.Sprintf("hops=%d", opts.Hops))
	}
	return strings.Join(parts, " | ")
}
