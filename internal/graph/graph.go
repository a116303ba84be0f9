package graph

import (
	"slices"
	"sort"

	"coursekg/kgraph/internal/attr"
	"coursekg/kgraph/internal/errs"
)

// Node is either a *StudentNode or a *CourseNode
type Node interface {
	Key() NodeKey
	// Fields returns the raw export attributes, node_type and orig_id first
	Fields() []attr.Field
	// Major returns the major code, or "" when absent
	Major() string
	clone() Node
}

// StudentNode holds one student. Nil fields were absent in the source.
type StudentNode struct {
	ID        int
	Code      *string
	Semester  *int
	GPA       *float64
	MajorCode *string
}

func (n *StudentNode) Key() NodeKey { return StudentKey(n.ID) }

func (n *StudentNode) Fields() []attr.Field {
	return []attr.Field{
		{Key: "node_type", Value: string(KindStudent)},
		{Key: "orig_id", Value: n.ID},
		{Key: "student_code", Value: n.Code},
		{Key: "semester", Value: n.Semester},
		{Key: "gpa", Value: n.GPA},
		{Key: "student_major_code", Value: n.MajorCode},
	}
}

func (n *StudentNode) Major() string { return deref(n.MajorCode) }

func (n *StudentNode) clone() Node {
	return &StudentNode{
		ID:        n.ID,
		Code:      clonePtr(n.Code),
		Semester:  clonePtr(n.Semester),
		GPA:       clonePtr(n.GPA),
		MajorCode: clonePtr(n.MajorCode),
	}
}

// CourseNode holds one course. Nil fields were absent in the source.
type CourseNode struct {
	ID        int
	Code      *string
	Semester  *int
	Credit    *int
	MajorCode *string
}

func (n *CourseNode) Key() NodeKey { return CourseKey(n.ID) }

func (n *CourseNode) Fields() []attr.Field {
	return []attr.Field{
		{Key: "node_type", Value: string(KindCourse)},
		{Key: "orig_id", Value: n.ID},
		{Key: "course_code", Value: n.Code},
		{Key: "semester", Value: n.Semester},
		{Key: "credit", Value: n.Credit},
		{Key: "course_major_code", Value: n.MajorCode},
	}
}

func (n *CourseNode) Major() string { return deref(n.MajorCode) }

func (n *CourseNode) clone() Node {
	return &CourseNode{
		ID:        n.ID,
		Code:      clonePtr(n.Code),
		Semester:  clonePtr(n.Semester),
		Credit:    clonePtr(n.Credit),
		MajorCode: clonePtr(n.MajorCode),
	}
}

// InteractionType is the kind of an enrollment interaction
type InteractionType string

const (
	Liked      InteractionType = "liked"
	Disliked   InteractionType = "disliked"
	WillEnroll InteractionType = "will_enroll"
	Unknown    InteractionType = "unknown"
)

// Interaction is one enrollment record merged onto an edge
type Interaction struct {
	Type       InteractionType `json:"type"`
	Weight     float64         `json:"weight"`
	IsEnrolled bool            `json:"is_enrolled"`
}

// AttrMap implements attr.Mapper
func (in Interaction) AttrMap() map[string]any {
	return map[string]any{
		"type":        string(in.Type),
		"weight":      in.Weight,
		"is_enrolled": boolInt(in.IsEnrolled),
	}
}

// Edge joins one student and one course. Type, Weight and IsEnrolled are
// taken from the first interaction seen for the pair; Interactions holds
// every interaction in arrival order.
type Edge struct {
	Student      NodeKey
	Course       NodeKey
	Type         InteractionType
	Weight       float64
	IsEnrolled   bool
	Interactions []Interaction
}

// Fields returns the raw export attributes. The interaction list is only
// included when more than one record was merged.
func (e Edge) Fields() []attr.Field {
	fields := []attr.Field{
		{Key: "type", Value: string(e.Type)},
		{Key: "weight", Value: e.Weight},
		{Key: "is_enrolled", Value: boolInt(e.IsEnrolled)},
	}
	if len(e.Interactions) > 1 {
		list := make([]any, len(e.Interactions))
		for i, in := range e.Interactions {
			list[i] = in
		}
		fields = append(fields, attr.Field{Key: "interactions", Value: list})
	}
	return fields
}

func (e Edge) clone() Edge {
	e.Interactions = slices.Clone(e.Interactions)
	return e
}

type pair struct {
	student, course NodeKey
}

// Graph is an undirected bipartite multigraph of students and courses.
// Repeated interactions for one pair share a single Edge.
type Graph struct {
	nodes map[NodeKey]Node
	order []NodeKey
	edges []*Edge
	pairs map[pair]*Edge
	adj   map[NodeKey][]NodeKey
}

// NewGraph returns an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[NodeKey]Node),
		pairs: make(map[pair]*Edge),
		adj:   make(map[NodeKey][]NodeKey),
	}
}

// AddNode inserts n. Keys are unique.
func (g *Graph) AddNode(n Node) error {
	key := n.Key()
	if _, ok := g.nodes[key]; ok {
		return errs.E(errs.MalformedDataset, "add node", "duplicate node %s", key)
	}
	g.nodes[key] = n
	g.order = append(g.order, key)
	g.adj[key] = nil // ensure entry exists
	return nil
}

// Merge records one interaction between a student and a course. The first
// interaction for a pair creates the edge and fixes its canonical fields;
// later ones are appended to its interaction list.
func (g *Graph) Merge(student, course NodeKey, in Interaction) error {
	if err := g.checkEndpoints(student, course); err != nil {
		return err
	}
	p := pair{student, course}
	if e, ok := g.pairs[p]; ok {
		e.Interactions = append(e.Interactions, in)
		return nil
	}
	g.link(&Edge{
		Student:      student,
		Course:       course,
		Type:         in.Type,
		Weight:       in.Weight,
		IsEnrolled:   in.IsEnrolled,
		Interactions: []Interaction{in},
	})
	return nil
}

// AddEdge inserts a fully formed edge; a pair may only be added once.
// An edge without interactions gets its canonical fields as the single entry.
func (g *Graph) AddEdge(e Edge) error {
	if err := g.checkEndpoints(e.Student, e.Course); err != nil {
		return err
	}
	if _, ok := g.pairs[pair{e.Student, e.Course}]; ok {
		return errs.E(errs.InvalidArgument, "add edge", "edge %s-%s already exists", e.Student, e.Course)
	}
	e = e.clone()
	if len(e.Interactions) == 0 {
		e.Interactions = []Interaction{{Type: e.Type, Weight: e.Weight, IsEnrolled: e.IsEnrolled}}
	}
	g.link(&e)
	return nil
}

func (g *Graph) checkEndpoints(student, course NodeKey) error {
	if student.Kind != KindStudent || course.Kind != KindCourse {
		return errs.E(errs.InvalidArgument, "link", "edge must join a student and a course, got %s-%s", student, course)
	}
	if _, ok := g.nodes[student]; !ok {
		return errs.E(errs.MissingInput, "link", "node %s not in graph", student)
	}
	if _, ok := g.nodes[course]; !ok {
		return errs.E(errs.MissingInput, "link", "node %s not in graph", course)
	}
	return nil
}

func (g *Graph) link(e *Edge) {
	g.edges = append(g.edges, e)
	g.pairs[pair{e.Student, e.Course}] = e
	g.adj[e.Student] = append(g.adj[e.Student], e.Course)
	g.adj[e.Course] = append(g.adj[e.Course], e.Student)
}

// Node returns the node with key
func (g *Graph) Node(key NodeKey) (Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// HasNode reports whether key is in the graph
func (g *Graph) HasNode(key NodeKey) bool {
	_, ok := g.nodes[key]
	return ok
}

// Nodes returns the nodes in insertion order. Callers must not modify them.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, k := range g.order {
		out[i] = g.nodes[k]
	}
	return out
}

// Edges returns copies of the edges in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.clone()
	}
	return out
}

// Edge returns a copy of the edge between a student and a course
func (g *Graph) Edge(student, course NodeKey) (Edge, bool) {
	e, ok := g.pairs[pair{student, course}]
	if !ok {
		return Edge{}, false
	}
	return e.clone(), true
}

// Neighbors returns the nodes adjacent to key, in edge insertion order
func (g *Graph) Neighbors(key NodeKey) []NodeKey {
	return slices.Clone(g.adj[key])
}

// Degree is the number of edges incident to key
func (g *Graph) Degree(key NodeKey) int { return len(g.adj[key]) }

// NumNodes returns the node count
func (g *Graph) NumNodes() int { return len(g.order) }

// NumEdges returns the edge count (distinct student-course pairs)
func (g *Graph) NumEdges() int { return len(g.edges) }

// Counts returns the number of student and course nodes
func (g *Graph) Counts() (students, courses int) {
	for _, k := range g.order {
		if k.Kind == KindStudent {
			students++
		} else {
			courses++
		}
	}
	return students, courses
}

// NodeKeys returns all keys sorted, students first (for deterministic output)
func (g *Graph) NodeKeys() []NodeKey {
	keys := slices.Clone(g.order)
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Subgraph returns an independent copy of the subgraph induced by keep:
// every kept node plus every edge whose endpoints are both kept.
func (g *Graph) Subgraph(keep map[NodeKey]bool) *Graph {
	sub := NewGraph()
	for _, k := range g.order {
		if keep[k] {
			sub.nodes[k] = g.nodes[k].clone()
			sub.order = append(sub.order, k)
			sub.adj[k] = nil
		}
	}
	for _, e := range g.edges {
		if keep[e.Student] && keep[e.Course] {
			c := e.clone()
			sub.link(&c)
		}
	}
	return sub
}

// FilterToMajor returns the subgraph induced by nodes whose major code is major
func (g *Graph) FilterToMajor(major string) *Graph {
	keep := make(map[NodeKey]bool)
	for _, k := range g.order {
		if g.nodes[k].Major() == major {
			keep[k] = true
		}
	}
	return g.Subgraph(keep)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
