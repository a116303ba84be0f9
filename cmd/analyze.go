package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"coursekg/kgraph/internal/graph"
)

var (
	analyzeJSON              bool
	analyzeMajor             string
	analyzeTopN              int
	analyzeHubThreshold      int
	analyzeIncludeWillEnroll bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze graph structure: components, hubs, bridges, health score",
	RunE: func(cmd *cobra.Command, args []string) error {
		includeWillEnroll := cfg.Build.IncludeWillEnroll
		if cmd.Flags().Changed("include-will-enroll") {
			includeWillEnroll = analyzeIncludeWillEnroll
		}
		g, err := buildGraph(includeWillEnroll)
		if err != nil {
			return err
		}

		if analyzeMajor != "" {
			g = g.FilterToMajor(analyzeMajor)
			log.Debug("scoped to major", "major", analyzeMajor, "nodes", g.NumNodes())
		}

		config := &graph.AnalyzerConfig{
			HubThreshold: cfg.Analyze.HubThreshold,
			TopN:         cfg.Analyze.TopN,
		}
		if cmd.Flags().Changed("hub-threshold") {
			config.HubThreshold = analyzeHubThreshold
		}
		if cmd.Flags().Changed("top-n") {
			config.TopN = analyzeTopN
		}

		report := graph.Analyze(g, config)

		if analyzeJSON {
			return printJSON(report)
		}

		printHumanReadable(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().StringVar(&analyzeMajor, "major", "", "Scope analysis to students and courses of this major code")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	analyzeCmd.Flags().IntVar(&analyzeHubThreshold, "hub-threshold", 10, "Minimum degree to consider a node a hub")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeWillEnroll, "include-will-enroll", false, "Keep will_enroll interactions as edges")
	rootCmd.AddCommand(analyzeCmd)
}

func printHumanReadable(report *graph.AnalysisReport) {
	// Health bar
	barLen := int(report.HealthScore * 20)
	if barLen > 20 {
		barLen = 20
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Printf("\n  Graph Health: %.0f%%  [%s]\n", report.HealthScore*100, bar)
	fmt.Printf("  breakdown: connectivity=%.2f components=%.2f fragility=%.2f\n\n",
		report.HealthBreakdown.Connectivity,
		report.HealthBreakdown.Components,
		report.HealthBreakdown.Fragility)

	// Topology
	t := report.Topology
	fmt.Println("  TOPOLOGY")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Nodes: %d (%d students, %d courses)  Edges: %d  Components: %d\n",
		t.TotalNodes, t.Students, t.Courses, t.TotalEdges, t.NumComponents)
	fmt.Printf("  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)

	if t.IsolatedCount > 0 {
		fmt.Printf("  Isolated: %d nodes without kept interactions\n", t.IsolatedCount)
		limit := min(5, len(t.IsolatedIDs))
		fmt.Printf("    %s", strings.Join(t.IsolatedIDs[:limit], ", "))
		if t.IsolatedCount > limit {
			fmt.Printf(" ... and %d more", t.IsolatedCount-limit)
		}
		fmt.Println()
	}

	// Degree distribution
	fmt.Println("\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			fmt.Printf("    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	// Hubs
	if len(t.Hubs) > 0 {
		fmt.Println("\n  Top hubs (degree > threshold):")
		for _, hub := range t.Hubs {
			fmt.Printf("    %-8s %-7s degree=%d\n", hub.Label, hub.Kind, hub.Degree)
		}
	}

	// Bridges
	br := report.Bridges
	if br.APCount > 0 || br.BridgeCount > 0 || len(br.FragileConnections) > 0 {
		fmt.Println("\n  STRUCTURAL FRAGILITY")
		fmt.Println("  ────────────────────────────────────────")
		if br.APCount > 0 {
			fmt.Printf("  %d articulation points (removal disconnects graph):\n", br.APCount)
			for _, ap := range br.ArticulationPoints[:min(10, len(br.ArticulationPoints))] {
				fmt.Printf("    %-8s %-7s degree=%d\n", ap.Label, ap.Kind, ap.Degree)
			}
		}
		if br.BridgeCount > 0 {
			fmt.Printf("  %d bridge edges (removal disconnects graph):\n", br.BridgeCount)
			for _, be := range br.BridgeEdges[:min(10, len(br.BridgeEdges))] {
				fmt.Printf("    %s -- %s (%s)\n", be.StudentID, be.CourseID, be.Type)
			}
		}
		if len(br.FragileConnections) > 0 {
			fmt.Printf("  %d fragile cross-major connections (<=2 edges):\n", len(br.FragileConnections))
			for _, fc := range br.FragileConnections[:min(10, len(br.FragileConnections))] {
				s := ""
				if fc.CrossEdges != 1 {
					s = "s"
				}
				fmt.Printf("    %s <-> %s (%d edge%s)\n", fc.MajorA, fc.MajorB, fc.CrossEdges, s)
			}
		}
	}

	fmt.Println()
}
