package graph

import "coursekg/kgraph/internal/errs"

// Extract returns the ego-network of seeds: every node within radius hops of
// any seed, plus the edges among them, as an independent graph. g is only read.
//
// Radius 0 yields just the seeds. Student seeds are never adjacent to each
// other, so a student-only seed set at radius 0 has no edges. Seeds may also
// be course keys; a course seeded next to one of its students keeps the edge
// between them, since the result is always the induced subgraph.
func Extract(g *Graph, seeds []NodeKey, radius int) (*Graph, error) {
	const op = "extract ego-network"
	if g == nil {
		return nil, errs.E(errs.NotBuilt, op, "graph is not built")
	}
	if radius < 0 {
		return nil, errs.E(errs.InvalidArgument, op, "radius must be >= 0, got %d", radius)
	}
	if len(seeds) == 0 {
		return nil, errs.E(errs.MissingInput, op, "no seed nodes")
	}

	nodes := make(map[NodeKey]bool, len(seeds))
	frontier := make(map[NodeKey]bool, len(seeds))
	for _, s := range seeds {
		if !g.HasNode(s) {
			return nil, errs.E(errs.MissingInput, op, "seed node %s not found in graph", s)
		}
		nodes[s] = true
		frontier[s] = true
	}

	for hop := 0; hop < radius && len(frontier) > 0; hop++ {
		next := make(map[NodeKey]bool)
		for n := range frontier {
			for _, nb := range g.adj[n] {
				if !nodes[nb] {
					next[nb] = true
				}
			}
		}
		for n := range next {
			nodes[n] = true
		}
		frontier = next
	}

	return g.Subgraph(nodes), nil
}

// ExtractStudents is Extract seeded by raw student ids.
func ExtractStudents(g *Graph, studentIDs []int, radius int) (*Graph, error) {
	seeds := make([]NodeKey, len(studentIDs))
	for i, id := range studentIDs {
		seeds[i] = StudentKey(id)
	}
	return Extract(g, seeds, radius)
}
