package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"coursekg/kgraph/internal/db"
	"coursekg/kgraph/internal/gexf"
)

// three students, two courses; s0 likes c0 and will enroll in it, s1 dislikes
// c0, s2 only will enroll in c1
const scenarioJSON = `{
  "students": [{"student_id": 0}, {"student_id": 1}, {"student_id": 2}],
  "courses": [{"course_id": 0}, {"course_id": 1}],
  "enrollments": [
    {"student_id": 0, "course_id": 0, "type": "liked"},
    {"student_id": 0, "course_id": 0, "type": "will_enroll"},
    {"student_id": 1, "course_id": 0, "type": "disliked"},
    {"student_id": 2, "course_id": 1, "type": "will_enroll"}
  ]
}`

// setupWorkdir moves into a fresh directory holding dataset.json
func setupWorkdir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	for _, env := range []string{"KGRAPH_DB", "KGRAPH_CONFIG", "KGRAPH_LOG_MODE", "KGRAPH_INCLUDE_WILL_ENROLL", "KGRAPH_HOPS"} {
		t.Setenv(env, "")
	}
	path := filepath.Join(dir, "dataset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with fresh flag state
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
	rootCmd.SetArgs(append(args, "--log", "off"))
	return rootCmd.Execute()
}

func TestCLI_Build(t *testing.T) {
	ds := setupWorkdir(t, scenarioJSON)

	if err := runCLI(t, "build", "--dataset", ds, "--out-prefix", "out/graph"); err != nil {
		t.Fatalf("build: %v", err)
	}
	doc, err := gexf.ReadFile(filepath.Join("out", "graph_3-students_2-courses.gexf"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if len(doc.Nodes) != 5 || len(doc.Edges) != 2 {
		t.Errorf("got %d nodes %d edges, want 5 and 2", len(doc.Nodes), len(doc.Edges))
	}

	if err := runCLI(t, "build", "--dataset", ds, "--out-prefix", "out/all", "--include-will-enroll"); err != nil {
		t.Fatalf("build with will_enroll: %v", err)
	}
	doc, err = gexf.ReadFile(filepath.Join("out", "all_3-students_2-courses.gexf"))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Edges) != 3 {
		t.Errorf("got %d edges with will_enroll kept, want 3", len(doc.Edges))
	}
}

func TestCLI_Ego(t *testing.T) {
	ds := setupWorkdir(t, scenarioJSON)

	if err := runCLI(t, "ego", "0", "--dataset", ds, "--hops", "2", "--viz", "viz.json"); err != nil {
		t.Fatalf("ego: %v", err)
	}
	// default prefix from config, named after the extracted counts
	doc, err := gexf.ReadFile(filepath.Join("data", "visualized-graph_2-students_1-courses.gexf"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("got %d nodes %d edges, want 3 and 2", len(doc.Nodes), len(doc.Edges))
	}
	if _, err := os.Stat("viz.json"); err != nil {
		t.Errorf("viz data not written: %v", err)
	}

	if err := runCLI(t, "ego", "s_0", "--dataset", ds, "--hops", "1", "--out", "one.gexf"); err != nil {
		t.Fatalf("ego radius 1: %v", err)
	}
	doc, err = gexf.ReadFile("one.gexf")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Errorf("radius 1: got %d nodes %d edges, want 2 and 1", len(doc.Nodes), len(doc.Edges))
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	ds := setupWorkdir(t, `{"students": [], "courses": []}`)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"malformed dataset", []string{"build", "--dataset", ds, "--no-save"}, 2},
		{"missing dataset file", []string{"build", "--dataset", "nope.json", "--no-save"}, 1},
		{"no database anywhere", []string{"build", "--no-save"}, 2},
		{"bad seed", []string{"ego", "x7", "--dataset", ds, "--no-save"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := exitCode(err); got != tt.code {
				t.Errorf("exit code = %d (%v), want %d", got, err, tt.code)
			}
		})
	}
}

func TestCLI_IngestThenBuild(t *testing.T) {
	ds := setupWorkdir(t, scenarioJSON)
	dbFile := filepath.Join(t.TempDir(), "store.db")

	if err := runCLI(t, "ingest", ds, "--db", dbFile); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := runCLI(t, "build", "--db", dbFile, "--out-prefix", "fromdb"); err != nil {
		t.Fatalf("build from db: %v", err)
	}
	if _, err := os.Stat("fromdb_3-students_2-courses.gexf"); err != nil {
		t.Errorf("export not written: %v", err)
	}
}

func TestCheckSeeds(t *testing.T) {
	ds := setupWorkdir(t, scenarioJSON)
	if err := runCLI(t, "ingest", ds); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	d, err := db.OpenDB(dbFileName)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	got, err := checkSeeds(d, []int{0, 2, 9})
	if err != nil {
		t.Fatal(err)
	}
	want := []seedStatus{
		{StudentID: 0, Found: true, Enrollments: 2},
		{StudentID: 2, Found: true, Enrollments: 1},
		{StudentID: 9},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("seed %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
