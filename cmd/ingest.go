package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursekg/kgraph/internal/dataset"
	"coursekg/kgraph/internal/db"
	"coursekg/kgraph/internal/errs"
)

// seedStatus reports whether a configured ego seed exists in the stored dataset
type seedStatus struct {
	StudentID   int
	Found       bool
	Enrollments int
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <dataset.json>",
	Short: "Validate a dataset JSON file and store it in the sqlite database",
	Long: `Validate a dataset JSON file and replace the contents of the database with it.
The database is --db when given, otherwise ` + dbFileName + ` in the working directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(args[0])
		if err != nil {
			return err
		}

		path := dbPath
		if path == "" {
			path = dbFileName
		}
		d, err := db.OpenDB(path)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.EnsureSchema(); err != nil {
			return err
		}
		if err := d.SaveDataset(ds); err != nil {
			return err
		}
		log.Info("dataset ingested", "path", path, "summary", ds.Summary())

		counts, err := d.CountByType()
		if err != nil {
			return err
		}
		fmt.Printf("Stored %s in %s\n", ds.Summary(), path)
		for _, t := range []string{dataset.TypeLiked, dataset.TypeDisliked, dataset.TypeWillEnroll} {
			fmt.Printf("  %-12s %d\n", t, counts[t])
		}

		seeds, err := checkSeeds(d, cfg.Ego.StudentIDs)
		if err != nil {
			return err
		}
		for _, s := range seeds {
			if !s.Found {
				log.Warn("configured ego seed not in dataset", "student_id", s.StudentID)
				fmt.Printf("  seed s_%d: not found\n", s.StudentID)
				continue
			}
			fmt.Printf("  seed s_%d: %d enrollments\n", s.StudentID, s.Enrollments)
		}
		return nil
	},
}

// checkSeeds looks up each configured ego seed in the store
func checkSeeds(d *db.DB, ids []int) ([]seedStatus, error) {
	out := make([]seedStatus, 0, len(ids))
	for _, id := range ids {
		st := seedStatus{StudentID: id}
		_, err := d.GetStudent(id)
		switch {
		case errs.KindOf(err) == errs.MissingInput:
		case err != nil:
			return nil, errs.Wrap(errs.IOFailure, "check seeds", err)
		default:
			st.Found = true
			ens, err := d.EnrollmentsForStudent(id)
			if err != nil {
				return nil, errs.Wrap(errs.IOFailure, "check seeds", err)
			}
			st.Enrollments = len(ens)
		}
		out = append(out, st)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
