package gexf

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/formats/gexf12"

	"coursekg/kgraph/internal/attr"
	"coursekg/kgraph/internal/dataset"
	"coursekg/kgraph/internal/errs"
	"coursekg/kgraph/internal/graph"
)

func sptr(s string) *string   { return &s }
func iptr(i int) *int         { return &i }
func fptr(f float64) *float64 { return &f }

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	ds := &dataset.Dataset{
		Students: []dataset.Student{
			{StudentID: 0, StudentCode: sptr("ST0"), Semester: iptr(3), GPA: fptr(3.5), MajorCode: sptr("IT")},
			{StudentID: 1, StudentCode: sptr("ST1"), Semester: iptr(5), GPA: fptr(2.75), MajorCode: sptr("IT")},
			{StudentID: 2},
		},
		Courses: []dataset.Course{
			{CourseID: 0, CourseCode: sptr("CS101"), Semester: iptr(1), Credit: iptr(4), MajorCode: sptr("IT")},
		},
		Enrollments: []dataset.Enrollment{
			{StudentID: 0, CourseID: 0, Type: dataset.TypeLiked, Weight: fptr(1.5)},
			{StudentID: 1, CourseID: 0, Type: dataset.TypeDisliked, Weight: fptr(-1)},
			{StudentID: 0, CourseID: 0, Type: dataset.TypeLiked, Weight: fptr(2)},
		},
	}
	g, err := graph.Build(ds, graph.BuildOptions{})
	require.NoError(t, err)
	return g
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "./data/built-graph_3-students_1-courses.gexf", FileName("./data/built-graph", 3, 1))
}

func TestEncode_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleGraph(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `defaultedgetype="undirected"`)
	assert.Contains(t, out, `id="s_0"`)
	assert.Contains(t, out, `label="c_0"`)

	var content gexf12.Content
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &content))
	types := map[string]string{}
	for _, block := range content.Graph.Attributes {
		for _, a := range block.Attributes {
			types[string(block.Class)+"/"+a.Title] = string(a.Type)
		}
	}
	assert.Equal(t, "string", types["node/node_type"])
	assert.Equal(t, "long", types["node/orig_id"])
	assert.Equal(t, "long", types["node/credit"])
	// s_2 has no gpa, so the key mixes double and "" and falls back to string
	assert.Equal(t, "string", types["node/gpa"])
	assert.Equal(t, "double", types["edge/weight"])
	assert.Equal(t, "long", types["edge/is_enrolled"])
	assert.Equal(t, "string", types["edge/interactions"])
}

func TestRoundTrip_InteractionList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleGraph(t)))

	doc, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 4)
	require.Len(t, doc.Edges, 2)

	multi := doc.Edges[0]
	assert.Equal(t, "s_0", multi.Source)
	assert.Equal(t, "c_0", multi.Target)
	assert.Equal(t, "liked", multi.Attrs["type"])
	assert.Equal(t, 1.5, multi.Attrs["weight"])
	assert.Equal(t, int64(1), multi.Attrs["is_enrolled"])

	raw, ok := multi.Attrs["interactions"].(string)
	require.True(t, ok, "interactions stay opaque text until decoded")
	list, err := attr.DecodeList(raw)
	require.NoError(t, err)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "liked", first["type"])
	assert.Equal(t, 1.5, first["weight"])
	assert.Equal(t, int64(1), first["is_enrolled"])
	// an integral weight keeps its float type through the text form
	assert.Contains(t, raw, `"weight":2.0`)
	assert.Equal(t, 2.0, list[1].(map[string]any)["weight"])

	_, ok = doc.Edges[1].Attrs["interactions"]
	assert.False(t, ok, "single-record edges carry no interaction list")
}

func TestDocument_Graph(t *testing.T) {
	src := sampleGraph(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))
	doc, err := Decode(&buf)
	require.NoError(t, err)

	g, err := doc.Graph()
	require.NoError(t, err)
	assert.Equal(t, src.NumNodes(), g.NumNodes())
	assert.Equal(t, src.NumEdges(), g.NumEdges())

	want, _ := src.Edge(graph.StudentKey(0), graph.CourseKey(0))
	got, ok := g.Edge(graph.StudentKey(0), graph.CourseKey(0))
	require.True(t, ok)
	assert.Equal(t, want, got)

	n, ok := g.Node(graph.StudentKey(0))
	require.True(t, ok)
	s := n.(*graph.StudentNode)
	assert.Equal(t, "ST0", *s.Code)
	assert.Equal(t, 3, *s.Semester)
	assert.Equal(t, 3.5, *s.GPA)

	bare, _ := g.Node(graph.StudentKey(2))
	assert.Nil(t, bare.(*graph.StudentNode).GPA)

	c, _ := g.Node(graph.CourseKey(0))
	assert.Equal(t, 4, *c.(*graph.CourseNode).Credit)
}

func TestWriteFile_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", FileName("graph", 3, 1))

	require.NoError(t, WriteFile(path, sampleGraph(t)))
	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 4)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, graph.NewGraph()))
	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Edges)
}

func TestErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, errs.NotBuilt, errs.KindOf(Encode(&buf, nil)))
	assert.Equal(t, errs.NotBuilt, errs.KindOf(WriteFile(filepath.Join(t.TempDir(), "x.gexf"), nil)))

	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.gexf"))
	assert.Equal(t, errs.IOFailure, errs.KindOf(err))

	_, err = Decode(strings.NewReader("<gexf><graph>"))
	assert.Equal(t, errs.UnsupportedFormat, errs.KindOf(err))

	undeclared := `<?xml version="1.0"?>
<gexf xmlns="http://www.gexf.net/1.2draft" version="1.2">
  <graph defaultedgetype="undirected">
    <nodes><node id="s_0" label="s_0"><attvalues><attvalue for="9" value="x"/></attvalues></node></nodes>
    <edges></edges>
  </graph>
</gexf>`
	_, err = Decode(strings.NewReader(undeclared))
	assert.Equal(t, errs.UnsupportedFormat, errs.KindOf(err))

	badValue := `<?xml version="1.0"?>
<gexf xmlns="http://www.gexf.net/1.2draft" version="1.2">
  <graph defaultedgetype="undirected">
    <attributes class="node"><attribute id="0" title="orig_id" type="long"/></attributes>
    <nodes><node id="s_0" label="s_0"><attvalues><attvalue for="0" value="abc"/></attvalues></node></nodes>
    <edges></edges>
  </graph>
</gexf>`
	_, err = Decode(strings.NewReader(badValue))
	assert.Equal(t, errs.UnsupportedFormat, errs.KindOf(err))
}
