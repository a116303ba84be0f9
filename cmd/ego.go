package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"coursekg/kgraph/internal/errs"
	"coursekg/kgraph/internal/gexf"
	"coursekg/kgraph/internal/graph"
)

var (
	egoJSON              bool
	egoHops              int
	egoOut               string
	egoViz               string
	egoIncludeWillEnroll bool
	egoNoSave            bool
)

var egoCmd = &cobra.Command{
	Use:   "ego [seed...]",
	Short: "Extract the ego-network around seed students and export it",
	Long: `Extract every node within --hops of the seeds and export the induced subgraph.
Seeds are student ids (7 or s_7) or course keys (c_3). With no seeds the
student ids from the config file are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seeds, err := parseSeeds(args, cfg.Ego.StudentIDs)
		if err != nil {
			return err
		}
		hops := cfg.Ego.Hops
		if cmd.Flags().Changed("hops") {
			hops = egoHops
		}
		includeWillEnroll := cfg.Build.IncludeWillEnroll
		if cmd.Flags().Changed("include-will-enroll") {
			includeWillEnroll = egoIncludeWillEnroll
		}

		g, err := buildGraph(includeWillEnroll)
		if err != nil {
			return err
		}
		sub, err := graph.Extract(g, seeds, hops)
		if err != nil {
			return err
		}
		log.Info("ego-network extracted", "seeds", len(seeds), "hops", hops, "nodes", sub.NumNodes(), "edges", sub.NumEdges())

		res := summarize(sub)
		if !egoNoSave {
			res.Output = egoOut
			if res.Output == "" {
				res.Output = gexf.FileName(cfg.Ego.OutputPrefix, res.Students, res.Courses)
			}
			if err := gexf.WriteFile(res.Output, sub); err != nil {
				return err
			}
			log.Info("ego-network exported", "path", res.Output)
		}

		if egoViz != "" {
			data := graph.BuildVizData(sub, graph.VizOptions{Seeds: seeds, Hops: hops, NodeSize: cfg.Ego.NodeSize})
			if err := writeJSONFile(egoViz, data); err != nil {
				return err
			}
			log.Info("visualization data written", "path", egoViz)
		}

		if egoJSON {
			return printJSON(res)
		}
		printResult("Ego-network", res)
		return nil
	},
}

func init() {
	egoCmd.Flags().BoolVar(&egoJSON, "json", false, "Output as JSON")
	egoCmd.Flags().IntVar(&egoHops, "hops", 2, "Neighbourhood radius in hops (default from config)")
	egoCmd.Flags().StringVar(&egoOut, "out", "", "Output GEXF path (default derived from the config prefix)")
	egoCmd.Flags().StringVar(&egoViz, "viz", "", "Also write renderer data (nodes, colours, legend) as JSON to this file")
	egoCmd.Flags().BoolVar(&egoIncludeWillEnroll, "include-will-enroll", false, "Keep will_enroll interactions as edges")
	egoCmd.Flags().BoolVar(&egoNoSave, "no-save", false, "Extract and report without writing the GEXF file")
	rootCmd.AddCommand(egoCmd)
}

// parseSeeds normalizes seed arguments, falling back to configured student ids
func parseSeeds(args []string, fallback []int) ([]graph.NodeKey, error) {
	if len(args) == 0 {
		seeds := make([]graph.NodeKey, len(fallback))
		for i, id := range fallback {
			seeds[i] = graph.StudentKey(id)
		}
		if len(seeds) == 0 {
			return nil, errs.E(errs.MissingInput, "parse seeds", "no seeds given and none configured")
		}
		return seeds, nil
	}

	seen := make(map[graph.NodeKey]bool, len(args))
	var seeds []graph.NodeKey
	for _, a := range args {
		k, err := graph.ParseSeed(a)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			seeds = append(seeds, k)
		}
	}
	return seeds, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errs.Wrap(errs.IOFailure, "write json", err)
	}
	return nil
}
