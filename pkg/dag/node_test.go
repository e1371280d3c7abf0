package dag_test

import (
	"testing"

	"github.com/matzehuels/bundlegraph/pkg/dag"
)

func TestDefaultPointsReused(t *testing.T) {
	n := step("filter")
	if len(n.Inputs) != 1 || len(n.Outputs) != 1 {
		t.Fatalf("Initialize created %d inputs, %d outputs; want 1, 1", len(n.Inputs), len(n.Outputs))
	}
	in := n.Inputs[0]
	for range 3 {
		if got := n.AddDefaultInputPoint(); got != in {
			t.Fatalf("AddDefaultInputPoint returned a new point %s", got.ID)
		}
	}
	out := n.AddDefaultOutputPoint()
	if n.AddDefaultOutputPoint() != out {
		t.Fatal("AddDefaultOutputPoint returned a new point")
	}
	if len(n.Inputs) != 1 || len(n.Outputs) != 1 {
		t.Errorf("points = %d/%d, want 1/1", len(n.Inputs), len(n.Outputs))
	}
	if in.Label != dag.DefaultInputLabel || out.Label != dag.DefaultOutputLabel {
		t.Errorf("labels = %q/%q", in.Label, out.Label)
	}
}

func TestAddPoints(t *testing.T) {
	n := step("filter")
	a := n.AddOutputPoint("textures")
	b := n.AddOutputPoint("models")

	if n.FindOutputPoint(a.ID) != a || n.FindPoint(b.ID) != b {
		t.Fatal("FindOutputPoint did not return the added point")
	}
	if n.FindInputPoint(a.ID) != nil {
		t.Error("FindInputPoint found an output point")
	}
	if a.NodeID != n.ID || a.IsInput {
		t.Errorf("point = %+v", a)
	}
	if got := n.PointIndex(b.ID); got != 2 {
		t.Errorf("PointIndex = %d, want 2", got)
	}
	if !n.RemovePoint(a.ID) || n.FindPoint(a.ID) != nil {
		t.Error("RemovePoint did not remove the point")
	}
}

func TestDuplicate(t *testing.T) {
	op := &stubOp{kind: dag.KindModifier, settings: []string{"a"}}
	n := dag.NewNode("mod", op, 10, 20)
	n.AddOutputPoint("extra")

	t.Run("fresh ids", func(t *testing.T) {
		cp := n.Duplicate(false)
		if cp.ID == n.ID {
			t.Fatal("copy kept the node id")
		}
		if cp.Name != n.Name || cp.X != 10 || cp.Y != 20 {
			t.Errorf("copy = %+v", cp)
		}
		if len(cp.Outputs) != len(n.Outputs) {
			t.Fatalf("copy has %d outputs, want %d", len(cp.Outputs), len(n.Outputs))
		}
		for i, p := range cp.Outputs {
			if p.ID == n.Outputs[i].ID {
				t.Errorf("output %d kept id %s", i, p.ID)
			}
			if p.Label != n.Outputs[i].Label || p.NodeID != cp.ID {
				t.Errorf("output %d = %+v", i, p)
			}
		}
	})

	t.Run("keep ids", func(t *testing.T) {
		cp := n.Duplicate(true)
		if cp.ID != n.ID || cp.Inputs[0].ID != n.Inputs[0].ID {
			t.Error("ids were not preserved")
		}
		if cp.Inputs[0] == n.Inputs[0] {
			t.Error("points are shared with the original")
		}
	})

	t.Run("operation cloned", func(t *testing.T) {
		cp := n.Duplicate(false)
		cp.Operation.(*stubOp).settings[0] = "changed"
		if op.settings[0] != "a" {
			t.Error("editing the copy changed the original settings")
		}
	})
}

func TestNodeValidate(t *testing.T) {
	n := &dag.Node{ID: "x"}
	if err := n.Validate(); err != dag.ErrNilOperation {
		t.Errorf("Validate() = %v, want ErrNilOperation", err)
	}
	if step("ok").Validate() != nil {
		t.Error("valid node rejected")
	}
}
