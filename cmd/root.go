package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"coursekg/kgraph/internal/config"
	"coursekg/kgraph/internal/dataset"
	"coursekg/kgraph/internal/db"
	"coursekg/kgraph/internal/errs"
	"coursekg/kgraph/internal/logger"
)

const dbFileName = ".kgraph.db"

var (
	dbPath      string
	datasetPath string
	configPath  string
	logMode     string

	cfg *config.Config
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:           "kgraph",
	Short:         "Build and slice student-course knowledge graphs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = os.Getenv("KGRAPH_CONFIG")
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c

		mode := cfg.Log.Mode
		if logMode != "" {
			mode = logMode
		}
		l, err := logger.New(mode)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		log = l.With("command", cmd.Name())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input (2) from everything else (1)
func exitCode(err error) int {
	switch errs.KindOf(err) {
	case errs.InvalidArgument, errs.MalformedDataset, errs.MissingInput:
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to "+dbFileName+" database")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "Path to a dataset JSON file (takes precedence over the database)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ./"+config.DefaultFile+", or KGRAPH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "", "Log mode: console, dev, prod, off")
}

// DiscoverDB finds the database path using priority: env > flag > walk-up
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("KGRAPH_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", errs.E(errs.MissingInput, "discover database", "database not found at --db path: %s", dbPath)
	}

	// 3. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, dbFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return "", errs.E(errs.MissingInput, "discover database",
		"no %s found (pass --dataset, set KGRAPH_DB, use --db, or run from a directory containing %s)", dbFileName, dbFileName)
}

// OpenDatabase discovers and opens the database
func OpenDatabase() (*db.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	return db.OpenDB(path)
}

// LoadDataset reads --dataset when given, otherwise the discovered database
func LoadDataset() (*dataset.Dataset, error) {
	if datasetPath != "" {
		log.Debug("loading dataset file", "path", datasetPath)
		return dataset.Load(datasetPath)
	}

	d, err := OpenDatabase()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	log.Debug("loading dataset from database", "path", d.Path)
	return d.LoadDataset()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
