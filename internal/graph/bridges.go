package graph

import "sort"

// ArticulationPoint is a node whose removal disconnects the graph
type ArticulationPoint struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Kind   NodeKind `json:"kind"`
	Degree int      `json:"degree"`
}

// BridgeEdge is an edge whose removal disconnects the graph
type BridgeEdge struct {
	StudentID string          `json:"student_id"`
	CourseID  string          `json:"course_id"`
	Type      InteractionType `json:"type"`
}

// FragileConnection is a pair of majors joined by very few edges
type FragileConnection struct {
	MajorA     string `json:"major_a"`
	MajorB     string `json:"major_b"`
	CrossEdges int    `json:"cross_edges"`
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges"`
	FragileConnections []FragileConnection `json:"fragile_connections"`
	APCount            int                 `json:"ap_count"`
	BridgeCount        int                 `json:"bridge_count"`
}

const unassignedMajor = "unassigned"

// ComputeBridges finds articulation points, bridge edges, and fragile cross-major connections
func ComputeBridges(g *Graph) *BridgeReport {
	if g.NumNodes() == 0 {
		return &BridgeReport{}
	}

	keys := g.NodeKeys()
	idx := make(map[NodeKey]int, len(keys))
	for i, k := range keys {
		idx[k] = i
	}
	n := len(keys)

	adjIdx := make([][]int, n)
	edgeAt := make(map[[2]int]*Edge, len(g.edges))
	for _, e := range g.edges {
		u, v := idx[e.Student], idx[e.Course]
		adjIdx[u] = append(adjIdx[u], v)
		adjIdx[v] = append(adjIdx[v], u)
		edgeAt[[2]int{u, v}] = e
		edgeAt[[2]int{v, u}] = e
	}

	disc := make([]int, n)
	low := make([]int, n)
	visited := make([]bool, n)
	isAP := make([]bool, n)
	var bridgePairs [][2]int
	counter := 1

	const noParent = -1

	// Iterative Tarjan for each connected component
	type frame struct {
		node, parent, ni int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		visited[start] = true
		disc[start] = counter
		low[start] = counter
		counter++

		stack := []frame{{start, noParent, 0}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := top.node

			if top.ni < len(adjIdx[node]) {
				child := adjIdx[node][top.ni]
				top.ni++

				if child == top.parent {
					continue
				}

				if visited[child] {
					if disc[child] < low[node] {
						low[node] = disc[child]
					}
					continue
				}

				visited[child] = true
				disc[child] = counter
				low[child] = counter
				counter++
				if node == start {
					rootChildren++
				}
				stack = append(stack, frame{child, node, 0})
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			pn := stack[len(stack)-1].node
			if low[node] < low[pn] {
				low[pn] = low[node]
			}
			if low[node] > disc[pn] {
				bridgePairs = append(bridgePairs, [2]int{pn, node})
			}
			if pn != start && low[node] >= disc[pn] {
				isAP[pn] = true
			}
		}

		if rootChildren >= 2 {
			isAP[start] = true
		}
	}

	var aps []ArticulationPoint
	for i := 0; i < n; i++ {
		if isAP[i] {
			k := keys[i]
			aps = append(aps, ArticulationPoint{
				ID:     k.String(),
				Label:  k.Label(),
				Kind:   k.Kind,
				Degree: len(adjIdx[i]),
			})
		}
	}

	var bridges []BridgeEdge
	for _, p := range bridgePairs {
		e := edgeAt[p]
		bridges = append(bridges, BridgeEdge{
			StudentID: e.Student.String(),
			CourseID:  e.Course.String(),
			Type:      Classify(*e),
		})
	}

	// Fragile connections: cross-major edge counts
	type majorPair struct{ a, b string }
	pairCounts := make(map[majorPair]int)
	for _, e := range g.edges {
		ma := majorOf(g, e.Student)
		mb := majorOf(g, e.Course)
		if ma == mb {
			continue
		}
		key := majorPair{ma, mb}
		if ma > mb {
			key = majorPair{mb, ma}
		}
		pairCounts[key]++
	}

	var fragile []FragileConnection
	for p, count := range pairCounts {
		if count <= 2 {
			fragile = append(fragile, FragileConnection{
				MajorA:     p.a,
				MajorB:     p.b,
				CrossEdges: count,
			})
		}
	}
	sort.Slice(fragile, func(i, j int) bool {
		if fragile[i].CrossEdges != fragile[j].CrossEdges {
			return fragile[i].CrossEdges < fragile[j].CrossEdges
		}
		if fragile[i].MajorA != fragile[j].MajorA {
			return fragile[i].MajorA < fragile[j].MajorA
		}
		return fragile[i].MajorB < fragile[j].MajorB
	})

	return &BridgeReport{
		ArticulationPoints: aps,
		BridgeEdges:        bridges,
		FragileConnections: fragile,
		APCount:            len(aps),
		BridgeCount:        len(bridges),
	}
}

func majorOf(g *Graph, k NodeKey) string {
	if m := g.nodes[k].Major(); m != "" {
		return m
	}
	return unassignedMajor
}
