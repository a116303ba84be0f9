package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"coursekg/kgraph/internal/errs"
	"coursekg/kgraph/internal/graph"
)

func TestParseSeeds(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		fallback []int
		want     []graph.NodeKey
		wantErr  errs.Kind
	}{
		{
			name: "bare ids are students",
			args: []string{"0", "7"},
			want: []graph.NodeKey{graph.StudentKey(0), graph.StudentKey(7)},
		},
		{
			name: "prefixed forms and duplicates",
			args: []string{"s_7", "7", "c_3"},
			want: []graph.NodeKey{graph.StudentKey(7), graph.CourseKey(3)},
		},
		{
			name:     "falls back to configured students",
			fallback: []int{4},
			want:     []graph.NodeKey{graph.StudentKey(4)},
		},
		{
			name:    "nothing to seed from",
			wantErr: errs.MissingInput,
		},
		{
			name:    "bad reference",
			args:    []string{"x7"},
			wantErr: errs.InvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSeeds(tt.args, tt.fallback)
			if tt.wantErr != "" {
				if errs.KindOf(err) != tt.wantErr {
					t.Fatalf("got error %v, want kind %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("seed %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDiscoverDB_WalkUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, dbFileName), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	chdir(t, nested)
	t.Setenv("KGRAPH_DB", "")

	got, err := DiscoverDB()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(root, dbFileName))
	if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDiscoverDB_FlagMissing(t *testing.T) {
	t.Setenv("KGRAPH_DB", "")
	old := dbPath
	dbPath = filepath.Join(t.TempDir(), "nope.db")
	defer func() { dbPath = old }()

	_, err := DiscoverDB()
	if errs.KindOf(err) != errs.MissingInput {
		t.Errorf("expected missing_input, got %v", err)
	}
}

func TestInspect_Summary(t *testing.T) {
	g := graph.NewGraph()
	g.AddNode(&graph.StudentNode{ID: 0})
	g.AddNode(&graph.StudentNode{ID: 1})
	g.AddNode(&graph.CourseNode{ID: 0})
	g.Merge(graph.StudentKey(0), graph.CourseKey(0), graph.Interaction{Type: graph.Liked})
	g.Merge(graph.StudentKey(0), graph.CourseKey(0), graph.Interaction{Type: graph.Disliked})
	g.Merge(graph.StudentKey(1), graph.CourseKey(0), graph.Interaction{Type: graph.Disliked})

	r := inspect("x.gexf", g, true)
	if r.Students != 2 || r.Courses != 1 || r.Edges != 2 {
		t.Errorf("unexpected counts: %+v", r)
	}
	if r.MergedEdges != 1 || len(r.Decoded) != 1 || len(r.Decoded[0].Interactions) != 2 {
		t.Errorf("expected one decoded merged edge, got %+v", r.Decoded)
	}
	if r.ByType[graph.Liked] != 1 || r.ByType[graph.Disliked] != 1 {
		t.Errorf("unexpected classification: %v", r.ByType)
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(errs.E(errs.MalformedDataset, "x", "bad")) != 2 {
		t.Error("malformed dataset should exit 2")
	}
	if exitCode(errs.E(errs.IOFailure, "x", "disk")) != 1 {
		t.Error("io failure should exit 1")
	}
}
