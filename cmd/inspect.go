package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"coursekg/kgraph/internal/gexf"
	"coursekg/kgraph/internal/graph"
)

var (
	inspectJSON   bool
	inspectDecode bool
)

type inspectEdge struct {
	Source       string                `json:"source"`
	Target       string                `json:"target"`
	Type         graph.InteractionType `json:"type"`
	Interactions []graph.Interaction   `json:"interactions,omitempty"`
}

type inspectReport struct {
	Path        string                        `json:"path"`
	Students    int                           `json:"students"`
	Courses     int                           `json:"courses"`
	Edges       int                           `json:"edges"`
	MergedEdges int                           `json:"merged_edges"`
	ByType      map[graph.InteractionType]int `json:"by_type"`
	Decoded     []inspectEdge                 `json:"decoded,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.gexf>",
	Short: "Import a GEXF export, summarise it and classify its edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := gexf.ReadFile(args[0])
		if err != nil {
			return err
		}
		g, err := doc.Graph()
		if err != nil {
			return err
		}
		log.Debug("graph imported", "path", args[0], "nodes", g.NumNodes(), "edges", g.NumEdges())

		report := inspect(args[0], g, inspectDecode)
		if inspectJSON {
			return printJSON(report)
		}

		fmt.Printf("\n  %s\n", report.Path)
		fmt.Printf("  Students: %d  Courses: %d  Edges: %d (%d merged)\n", report.Students, report.Courses, report.Edges, report.MergedEdges)
		types := make([]string, 0, len(report.ByType))
		for t := range report.ByType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			it := graph.InteractionType(t)
			fmt.Printf("    %-12s %5d  %s\n", t, report.ByType[it], graph.EdgeColor(it))
		}
		for _, e := range report.Decoded {
			fmt.Printf("  %s -- %s  %s\n", e.Source, e.Target, e.Type)
			for i, in := range e.Interactions {
				fmt.Printf("    [%d] %s weight=%g enrolled=%t\n", i, in.Type, in.Weight, in.IsEnrolled)
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output as JSON")
	inspectCmd.Flags().BoolVar(&inspectDecode, "decode", false, "List the decoded interaction records of merged edges")
	rootCmd.AddCommand(inspectCmd)
}

func inspect(path string, g *graph.Graph, decode bool) *inspectReport {
	r := &inspectReport{Path: path, Edges: g.NumEdges(), ByType: make(map[graph.InteractionType]int)}
	r.Students, r.Courses = g.Counts()
	for _, e := range g.Edges() {
		t := graph.Classify(e)
		r.ByType[t]++
		if len(e.Interactions) > 1 {
			r.MergedEdges++
			if decode {
				r.Decoded = append(r.Decoded, inspectEdge{
					Source:       e.Student.String(),
					Target:       e.Course.String(),
					Type:         t,
					Interactions: e.Interactions,
				})
			}
		}
	}
	return r
}
