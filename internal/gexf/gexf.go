// Package gexf writes graphs as GEXF 1.2 documents and reads them back.
package gexf

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/graph/formats/gexf12"

	"coursekg/kgraph/internal/attr"
	"coursekg/kgraph/internal/errs"
	"coursekg/kgraph/internal/graph"
)

const version = "1.2"

// valueType is a declared GEXF attribute type
type valueType string

const (
	typeLong    valueType = "long"
	typeDouble  valueType = "double"
	typeBoolean valueType = "boolean"
	typeString  valueType = "string"
)

func typeOf(v any) valueType {
	switch v.(type) {
	case int64:
		return typeLong
	case float64:
		return typeDouble
	case bool:
		return typeBoolean
	default:
		return typeString
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// FileName returns <prefix>_<n>-students_<m>-courses.gexf
func FileName(prefix string, students, courses int) string {
	return fmt.Sprintf("%s_%d-students_%d-courses.gexf", prefix, students, courses)
}

// declarations collects attribute keys in first-seen order with their
// settled types. A key seen with more than one type is declared string.
type declarations struct {
	ids   map[string]string
	keys  []string
	types map[string]valueType
}

func newDeclarations() *declarations {
	return &declarations{ids: make(map[string]string), types: make(map[string]valueType)}
}

func (d *declarations) observe(fields []attr.Field) {
	for _, f := range fields {
		t := typeOf(f.Value)
		prev, ok := d.types[f.Key]
		if !ok {
			d.ids[f.Key] = strconv.Itoa(len(d.keys))
			d.keys = append(d.keys, f.Key)
			d.types[f.Key] = t
			continue
		}
		if prev != t {
			d.types[f.Key] = typeString
		}
	}
}

func (d *declarations) block(class string) gexf12.Attributes {
	block := gexf12.Attributes{Class: "node"}
	if class == "edge" {
		block.Class = "edge"
	}
	for _, k := range d.keys {
		a := gexf12.Attribute{ID: d.ids[k], Title: k}
		switch d.types[k] {
		case typeLong:
			a.Type = "long"
		case typeDouble:
			a.Type = "double"
		case typeBoolean:
			a.Type = "boolean"
		default:
			a.Type = "string"
		}
		block.Attributes = append(block.Attributes, a)
	}
	return block
}

func (d *declarations) values(fields []attr.Field) *gexf12.AttValues {
	vals := &gexf12.AttValues{}
	for _, f := range fields {
		vals.AttValues = append(vals.AttValues, gexf12.AttValue{For: d.ids[f.Key], Value: formatValue(f.Value)})
	}
	return vals
}

// Encode writes g to w as an undirected GEXF 1.2 document. Every attribute
// is sanitized first; a value with no portable form fails the whole write.
func Encode(w io.Writer, g *graph.Graph) error {
	const op = "encode gexf"
	if g == nil {
		return errs.E(errs.NotBuilt, op, "graph is not built")
	}

	nodes := g.Nodes()
	nodeFields := make([][]attr.Field, len(nodes))
	nodeDecl := newDeclarations()
	for i, n := range nodes {
		fields, err := attr.SanitizeFields(n.Fields())
		if err != nil {
			return fmt.Errorf("node %s: %w", n.Key(), err)
		}
		nodeFields[i] = fields
		nodeDecl.observe(fields)
	}

	edges := g.Edges()
	edgeFields := make([][]attr.Field, len(edges))
	edgeDecl := newDeclarations()
	for i, e := range edges {
		fields, err := attr.SanitizeFields(e.Fields())
		if err != nil {
			return fmt.Errorf("edge %s-%s: %w", e.Student, e.Course, err)
		}
		edgeFields[i] = fields
		edgeDecl.observe(fields)
	}

	doc := gexf12.Content{Version: version}
	doc.Graph.DefaultEdgeType = "undirected"
	doc.Graph.Attributes = []gexf12.Attributes{nodeDecl.block("node"), edgeDecl.block("edge")}

	doc.Graph.Nodes.Count = len(nodes)
	for i, n := range nodes {
		id := n.Key().String()
		doc.Graph.Nodes.Nodes = append(doc.Graph.Nodes.Nodes, gexf12.Node{
			ID:        id,
			Label:     id,
			AttValues: nodeDecl.values(nodeFields[i]),
		})
	}

	doc.Graph.Edges.Count = len(edges)
	for i, e := range edges {
		doc.Graph.Edges.Edges = append(doc.Graph.Edges.Edges, gexf12.Edge{
			ID:        strconv.Itoa(i),
			Source:    e.Student.String(),
			Target:    e.Course.String(),
			AttValues: edgeDecl.values(edgeFields[i]),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	if err := enc.Flush(); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	_, err := io.WriteString(w, "\n")
	if err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	return nil
}

// WriteFile encodes g into a temp file next to path and renames it into
// place, so path is either the old file or the complete new one.
func WriteFile(path string, g *graph.Graph) (err error) {
	const op = "write gexf"
	if g == nil {
		return errs.E(errs.NotBuilt, op, "graph is not built")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, g); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errs.Wrap(errs.IOFailure, op, err)
	}
	return nil
}
