package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
	"github.com/matzehuels/bundlegraph/pkg/engine"
	"github.com/matzehuels/bundlegraph/pkg/errors"
	"github.com/matzehuels/bundlegraph/pkg/node"
)

type pipeline struct {
	root                     string
	g                        *dag.Graph
	load, filter, exportNode *dag.Node
	engine                   *engine.Engine
}

func writeAsset(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// newPipeline builds Loader(Assets/X) -> Filter(*.png) -> Exporter(Out/)
// over a project on disk.
func newPipeline(t *testing.T, filterPattern string) *pipeline {
	t.Helper()
	root := t.TempDir()
	writeAsset(t, root, "Assets/X/readme.txt", "hello")
	writeAsset(t, root, "Assets/Y/keep.txt", "y")

	p := &pipeline{root: root, g: dag.NewGraph("scenario")}
	p.load = dag.NewNode("Load X", node.NewLoader("Assets/X"), 0, 0)
	p.filter = dag.NewNode("PNG only", node.NewFilter(node.FilterRule{Pattern: filterPattern, Label: "png"}), 200, 0)
	p.exportNode = dag.NewNode("Export", &node.Exporter{ExportPath: node.Value("Out/"), CreateDir: true}, 400, 0)
	for _, n := range []*dag.Node{p.load, p.filter, p.exportNode} {
		if err := p.g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := p.g.Connect(p.load.Outputs[0].ID, p.filter.Inputs[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := p.g.Connect(p.filter.OutputByLabel("png").ID, p.exportNode.Inputs[0].ID); err != nil {
		t.Fatal(err)
	}
	p.engine = engine.New(engine.Options{ProjectRoot: root})
	return p
}

func (p *pipeline) run(t *testing.T, d asset.Delta) *engine.Report {
	t.Helper()
	rep, err := p.engine.Run(context.Background(), "standalone", p.g, d)
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func TestScenarioImportUnderLoadPath(t *testing.T) {
	p := newPipeline(t, "*.png")
	if rep := p.run(t, asset.Delta{}); rep.Failed() {
		t.Fatalf("initial run failed: %+v", rep.Errors)
	}

	writeAsset(t, p.root, "Assets/X/a.png", "png")
	rep := p.run(t, asset.Delta{Imported: []string{"Assets/X/a.png"}})

	for _, n := range []*dag.Node{p.load, p.filter, p.exportNode} {
		res, _ := rep.Result(n.ID)
		if !res.Dirty || !res.Built {
			t.Errorf("%s: dirty=%v built=%v", n.Name, res.Dirty, res.Built)
		}
	}
	in := rep.Inputs(p.exportNode.ID)
	if len(in) != 1 {
		t.Fatalf("exporter inputs = %d", len(in))
	}
	if got := in[0].Groups.Paths(); !slices.Equal(got, []string{"Assets/X/a.png"}) {
		t.Errorf("exporter input = %v", got)
	}
	if _, err := os.Stat(filepath.Join(p.root, "Out", "a.png")); err != nil {
		t.Errorf("file not exported: %v", err)
	}

	again := p.run(t, asset.Delta{})
	if again.BuildCount() != 0 {
		t.Errorf("second run built %d nodes", again.BuildCount())
	}
}

func TestScenarioImportOutsideLoadPath(t *testing.T) {
	p := newPipeline(t, "*.png")
	p.run(t, asset.Delta{})

	writeAsset(t, p.root, "Assets/Y/b.txt", "b")
	rep := p.run(t, asset.Delta{Imported: []string{"Assets/Y/b.txt"}})
	if rep.BuildCount() != 0 || rep.DirtyCount() != 0 {
		t.Errorf("built %d, dirty %d; want 0, 0", rep.BuildCount(), rep.DirtyCount())
	}
	if rep.Count(engine.StatusCached) != 3 {
		t.Errorf("statuses = %+v", rep.Nodes)
	}
}

func TestScenarioFilterConfigError(t *testing.T) {
	p := newPipeline(t, "[")
	rep := p.run(t, asset.Delta{})

	if got := rep.Status(p.load.ID); got != engine.StatusCached {
		t.Errorf("loader status = %s", got)
	}
	if got := rep.Status(p.filter.ID); got != engine.StatusFailed {
		t.Errorf("filter status = %s", got)
	}
	if got := rep.Status(p.exportNode.ID); got != engine.StatusBlocked {
		t.Errorf("exporter status = %s", got)
	}
	if len(rep.Errors) != 1 || rep.Errors[0].NodeID != p.filter.ID {
		t.Fatalf("errors = %+v", rep.Errors)
	}
	if !errors.Is(rep.Errors[0].Err, errors.ErrCodeConfig) {
		t.Errorf("error code = %s", rep.Errors[0].Code)
	}
}
