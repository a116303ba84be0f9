package graph

import "sort"

// HubNode is a node with high connectivity
type HubNode struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Kind   NodeKind `json:"kind"`
	Degree int      `json:"degree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	Students          int            `json:"students"`
	Courses           int            `json:"courses"`
	NumComponents     int            `json:"num_components"`
	LargestComponent  int            `json:"largest_component"`
	SmallestComponent int            `json:"smallest_component"`
	IsolatedCount     int            `json:"isolated_count"`
	IsolatedIDs       []string       `json:"isolated_ids"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram"`
	Hubs              []HubNode      `json:"hubs"`
}

// ComputeTopology analyzes graph topology: components, isolated nodes, degree distribution, hubs
func ComputeTopology(g *Graph, hubThreshold, topN int) *TopologyReport {
	totalNodes := g.NumNodes()
	if totalNodes == 0 {
		return &TopologyReport{
			DegreeHistogram: defaultHistogram(),
		}
	}

	keys := g.NodeKeys()
	uf := NewUnionFind(keys)
	for _, e := range g.edges {
		uf.Union(e.Student, e.Course)
	}

	components := uf.Components()
	largest, smallest := 0, totalNodes
	for _, c := range components {
		if len(c) > largest {
			largest = len(c)
		}
		if len(c) < smallest {
			smallest = len(c)
		}
	}

	// Isolated: degree == 0, e.g. students with no kept enrollments
	var isolated []string
	for _, k := range keys {
		if g.Degree(k) == 0 {
			isolated = append(isolated, k.String())
		}
	}
	isolatedCount := len(isolated)
	if len(isolated) > topN {
		isolated = isolated[:topN]
	}

	// Degree histogram (log-scale buckets)
	buckets := [7]int{}
	for _, k := range keys {
		buckets[degreeBucket(g.Degree(k))]++
	}
	histogram := defaultHistogram()
	for i := range histogram {
		histogram[i].Count = buckets[i]
	}

	var hubs []HubNode
	for _, k := range keys {
		degree := g.Degree(k)
		if degree > hubThreshold {
			hubs = append(hubs, HubNode{
				ID:     k.String(),
				Label:  k.Label(),
				Kind:   k.Kind,
				Degree: degree,
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Degree > hubs[j].Degree })
	if len(hubs) > topN {
		hubs = hubs[:topN]
	}

	students, courses := g.Counts()
	return &TopologyReport{
		TotalNodes:        totalNodes,
		TotalEdges:        g.NumEdges(),
		Students:          students,
		Courses:           courses,
		NumComponents:     len(components),
		LargestComponent:  largest,
		SmallestComponent: smallest,
		IsolatedCount:     isolatedCount,
		IsolatedIDs:       isolated,
		DegreeHistogram:   histogram,
		Hubs:              hubs,
	}
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}
