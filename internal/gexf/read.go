package gexf

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/graph/formats/gexf12"

	"coursekg/kgraph/internal/attr"
	"coursekg/kgraph/internal/errs"
	"coursekg/kgraph/internal/graph"
)

// NodeRecord is one node as stored in the file, attributes typed by their declaration
type NodeRecord struct {
	ID    string
	Label string
	Attrs map[string]any
}

// EdgeRecord is one edge as stored in the file. Encoded attributes such as
// interactions stay opaque text.
type EdgeRecord struct {
	ID     string
	Source string
	Target string
	Attrs  map[string]any
}

// Document is a decoded GEXF file in file order
type Document struct {
	Nodes []NodeRecord
	Edges []EdgeRecord
}

// ReadFile decodes the GEXF file at path
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "read gexf", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a GEXF 1.2 document
func Decode(r io.Reader) (*Document, error) {
	const op = "decode gexf"
	var content gexf12.Content
	if err := xml.NewDecoder(r).Decode(&content); err != nil {
		if _, ok := err.(*xml.SyntaxError); ok || err == io.EOF {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, err)
		}
		if _, ok := err.(*xml.UnmarshalError); ok {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, err)
		}
		return nil, errs.Wrap(errs.IOFailure, op, err)
	}

	nodeDecl := map[string]declared{}
	edgeDecl := map[string]declared{}
	for _, block := range content.Graph.Attributes {
		target := nodeDecl
		if block.Class == "edge" {
			target = edgeDecl
		}
		for _, a := range block.Attributes {
			target[a.ID] = declared{title: a.Title, typ: string(a.Type)}
		}
	}

	doc := &Document{}
	for _, n := range content.Graph.Nodes.Nodes {
		attrs, err := readValues(n.AttValues, nodeDecl)
		if err != nil {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, fmt.Errorf("node %s: %w", n.ID, err))
		}
		doc.Nodes = append(doc.Nodes, NodeRecord{ID: n.ID, Label: n.Label, Attrs: attrs})
	}
	for _, e := range content.Graph.Edges.Edges {
		attrs, err := readValues(e.AttValues, edgeDecl)
		if err != nil {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, fmt.Errorf("edge %s: %w", e.ID, err))
		}
		doc.Edges = append(doc.Edges, EdgeRecord{ID: e.ID, Source: e.Source, Target: e.Target, Attrs: attrs})
	}
	return doc, nil
}

type declared struct {
	title string
	typ   string
}

func readValues(vals *gexf12.AttValues, decl map[string]declared) (map[string]any, error) {
	out := make(map[string]any)
	if vals == nil {
		return out, nil
	}
	for _, v := range vals.AttValues {
		d, ok := decl[v.For]
		if !ok {
			return nil, fmt.Errorf("attribute id %q is not declared", v.For)
		}
		parsed, err := parseValue(d.typ, v.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", d.title, err)
		}
		out[d.title] = parsed
	}
	return out, nil
}

func parseValue(typ, s string) (any, error) {
	switch typ {
	case "long", "integer":
		return strconv.ParseInt(s, 10, 64)
	case "double", "float":
		return strconv.ParseFloat(s, 64)
	case "boolean":
		return strconv.ParseBool(s)
	case "string", "liststring", "anyURI", "":
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type %q", typ)
	}
}

// Graph rebuilds a typed graph from the document. The interactions
// attribute is decoded back into the edge's interaction list.
func (d *Document) Graph() (*graph.Graph, error) {
	const op = "rebuild graph"
	g := graph.NewGraph()
	for _, n := range d.Nodes {
		key, err := graph.ParseNodeKey(n.ID)
		if err != nil {
			return nil, err
		}
		node, err := nodeFromAttrs(key, n.Attrs)
		if err != nil {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, fmt.Errorf("node %s: %w", n.ID, err))
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}

	for _, e := range d.Edges {
		src, err := graph.ParseNodeKey(e.Source)
		if err != nil {
			return nil, err
		}
		dst, err := graph.ParseNodeKey(e.Target)
		if err != nil {
			return nil, err
		}
		if src.Kind == graph.KindCourse {
			src, dst = dst, src
		}
		edge, err := edgeFromAttrs(src, dst, e.Attrs)
		if err != nil {
			return nil, errs.Wrap(errs.UnsupportedFormat, op, fmt.Errorf("edge %s: %w", e.ID, err))
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func nodeFromAttrs(key graph.NodeKey, a map[string]any) (graph.Node, error) {
	semester, err := optInt(a["semester"])
	if err != nil {
		return nil, err
	}
	if key.Kind == graph.KindStudent {
		gpa, err := optFloat(a["gpa"])
		if err != nil {
			return nil, err
		}
		return &graph.StudentNode{
			ID:        key.ID,
			Code:      optString(a["student_code"]),
			Semester:  semester,
			GPA:       gpa,
			MajorCode: optString(a["student_major_code"]),
		}, nil
	}
	credit, err := optInt(a["credit"])
	if err != nil {
		return nil, err
	}
	return &graph.CourseNode{
		ID:        key.ID,
		Code:      optString(a["course_code"]),
		Semester:  semester,
		Credit:    credit,
		MajorCode: optString(a["course_major_code"]),
	}, nil
}

func edgeFromAttrs(student, course graph.NodeKey, a map[string]any) (graph.Edge, error) {
	e := graph.Edge{Student: student, Course: course}
	if t, ok := a["type"]; ok {
		e.Type = graph.InteractionType(formatValue(t))
	}
	w, err := optFloat(a["weight"])
	if err != nil {
		return e, err
	}
	if w != nil {
		e.Weight = *w
	}
	e.IsEnrolled = truthy(a["is_enrolled"])

	raw, ok := a["interactions"].(string)
	if !ok || raw == "" {
		return e, nil
	}
	list, err := attr.DecodeList(raw)
	if err != nil {
		return e, err
	}
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return e, fmt.Errorf("interactions[%d] is not a mapping", i)
		}
		in := graph.Interaction{IsEnrolled: truthy(m["is_enrolled"])}
		if t, ok := m["type"].(string); ok {
			in.Type = graph.InteractionType(t)
		}
		w, err := optFloat(m["weight"])
		if err != nil {
			return e, fmt.Errorf("interactions[%d]: %w", i, err)
		}
		if w != nil {
			in.Weight = *w
		}
		e.Interactions = append(e.Interactions, in)
	}
	return e, nil
}

// optString treats "" as absent
func optString(v any) *string {
	if v == nil {
		return nil
	}
	s := formatValue(v)
	if s == "" {
		return nil
	}
	return &s
}

func optInt(v any) (*int, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		i := int(x)
		return &i, nil
	case float64:
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("%v is not an integer", x)
		}
		i := int(x)
		return &i, nil
	case string:
		if x == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(x)
		if err != nil {
			return nil, err
		}
		return &i, nil
	default:
		return nil, fmt.Errorf("unexpected %T for an integer field", v)
	}
}

func optFloat(v any) (*float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &x, nil
	case int64:
		f := float64(x)
		return &f, nil
	case string:
		if x == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, err
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("unexpected %T for a numeric field", v)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x == "1" || x == "true"
	}
	return false
}
