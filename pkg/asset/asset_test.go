package asset

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Assets/X/a.png", TypeTexture},
		{"Assets/X/A.PNG", TypeTexture},
		{"Assets/m/hero.fbx", TypeModel},
		{"Assets/readme.txt", TypeText},
		{"Assets/unknown.bin", TypeGeneric},
		{"Assets/noext", TypeGeneric},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.path); got != tt.want {
			t.Errorf("TypeOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadable(t *testing.T) {
	tests := []struct {
		p    string
		want bool
	}{
		{"Assets/X/a.png", true},
		{"Assets/X/a.png.meta", false},
		{"Assets/X.meta", false},
		{"Assets/X/.DS_Store", false},
		{"Assets/.git/config", false},
		{"Assets/Backup~/a.png", false},
		{"Assets/X/a~.png", true},
	}
	for _, tt := range tests {
		if got := Loadable(tt.p); got != tt.want {
			t.Errorf("Loadable(%q) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestUnder(t *testing.T) {
	tests := []struct {
		p, dir string
		want   bool
	}{
		{"Assets/X/a.png", "Assets/X", true},
		{"Assets/X/a.png", "Assets/X/", true},
		{"Assets/X", "Assets/X", true},
		{"Assets/XY/a.png", "Assets/X", false},
		{"Assets/Y/b.txt", "Assets/X", false},
		{"anything", "", true},
	}
	for _, tt := range tests {
		if got := Under(tt.p, tt.dir); got != tt.want {
			t.Errorf("Under(%q, %q) = %v, want %v", tt.p, tt.dir, got, tt.want)
		}
	}
}

func TestReferenceWithMetaDoesNotMutate(t *testing.T) {
	r := NewReference("Assets/a.png", "f1").WithMeta(map[string]string{"a": "1"})
	r2 := r.WithMeta(map[string]string{"b": "2"})

	if _, ok := r.Meta["b"]; ok {
		t.Error("WithMeta should not modify the receiver")
	}
	if r2.Meta["a"] != "1" || r2.Meta["b"] != "2" {
		t.Errorf("WithMeta merged meta = %v", r2.Meta)
	}
	if !r.Same(r2) {
		t.Error("metadata should not affect Same")
	}
	if r.Equal(r2) {
		t.Error("metadata should affect Equal")
	}
}

func TestGroupSetMergeKeepsFirst(t *testing.T) {
	a := GroupSet{"0": {NewReference("Assets/a.png", "1"), NewReference("Assets/b.png", "1")}}
	b := GroupSet{
		"0": {NewReference("Assets/b.png", "2"), NewReference("Assets/c.png", "1")},
		"1": {NewReference("Assets/d.png", "1")},
	}

	m := Merge(a, b)
	if got := m.Paths(); !slices.Equal(got, []string{"Assets/a.png", "Assets/b.png", "Assets/c.png", "Assets/d.png"}) {
		t.Errorf("Merge paths = %v", got)
	}
	if r, _ := m.Find("0", "Assets/b.png"); r.Fingerprint != "1" {
		t.Errorf("Merge should keep first occurrence, got fingerprint %s", r.Fingerprint)
	}
	if m.Count() != 4 {
		t.Errorf("Count = %d, want 4", m.Count())
	}
}

func TestGroupSetCloneAndEqual(t *testing.T) {
	g := Single([]Reference{NewReference("Assets/a.png", "1")})
	c := g.Clone()
	if !g.Equal(c) {
		t.Fatal("clone should be equal")
	}
	c["0"][0] = NewReference("Assets/z.png", "9")
	if g["0"][0].Path != "Assets/a.png" {
		t.Error("mutating the clone changed the original")
	}
	if g.Equal(c) {
		t.Error("sets with different references should differ")
	}
	if g.Equal(GroupSet{"1": g["0"]}) {
		t.Error("sets with different keys should differ")
	}
}

func TestDelta(t *testing.T) {
	d := Delta{
		Imported: []string{"Assets/X/a.png", "Assets/Y/b.txt"},
		Deleted:  []string{"Assets/X/a.png"},
	}
	if d.IsEmpty() {
		t.Error("delta should not be empty")
	}
	if got := d.All(); !slices.Equal(got, []string{"Assets/X/a.png", "Assets/Y/b.txt"}) {
		t.Errorf("All = %v", got)
	}
	if !d.Touches("Assets/Y") || d.Touches("Assets/Z") {
		t.Error("Touches mismatch")
	}
	if !(Delta{}).IsEmpty() {
		t.Error("zero delta should be empty")
	}
}

func TestFileResolver(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("Assets/X/b.png", "b")
	write("Assets/X/a.png", "a")
	write("Assets/Y/c.txt", "c")

	r := NewFileResolver(root)

	paths, err := r.List("Assets/X")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(paths, []string{"Assets/X/a.png", "Assets/X/b.png"}) {
		t.Errorf("List = %v", paths)
	}

	ref, ok, err := r.Resolve("Assets/X/a.png")
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if ref.Type != TypeTexture || len(ref.Fingerprint) != 64 {
		t.Errorf("Resolve ref = %+v", ref)
	}

	if _, ok, _ := r.Resolve("Assets/X/missing.png"); ok {
		t.Error("missing file should not resolve")
	}
	if _, ok, _ := r.Resolve("Assets/X"); ok {
		t.Error("directory should not resolve")
	}
	if paths, _ := r.List("Assets/Nope"); len(paths) != 0 {
		t.Errorf("missing dir List = %v", paths)
	}
	if !r.DirExists("Assets/Y") || r.DirExists("Assets/Nope") {
		t.Error("DirExists mismatch")
	}
}

func TestMemoryResolver(t *testing.T) {
	m := NewMemoryResolver()
	m.Put("Assets/X/a.png", "1")
	m.Put("Assets/XY/b.png", "1")
	m.MkdirAll("Out")

	paths, _ := m.List("Assets/X")
	if !slices.Equal(paths, []string{"Assets/X/a.png"}) {
		t.Errorf("List = %v", paths)
	}
	if !m.DirExists("Assets") || !m.DirExists("Out") || m.DirExists("Missing") {
		t.Error("DirExists mismatch")
	}
	m.Remove("Assets/X/a.png")
	if _, ok, _ := m.Resolve("Assets/X/a.png"); ok {
		t.Error("removed file should not resolve")
	}
}

func TestSnapshotDiff(t *testing.T) {
	m := NewMemoryResolver()
	m.Put("Assets/a.png", "1")
	m.Put("Assets/b.png", "1")

	prev, err := Scan(m, "Assets")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	m.Put("Assets/b.png", "2")
	m.Put("Assets/c.png", "1")
	m.Remove("Assets/a.png")

	cur, _ := Scan(m, "Assets")
	d := cur.Diff(prev)
	if !slices.Equal(d.Imported, []string{"Assets/b.png", "Assets/c.png"}) {
		t.Errorf("Imported = %v", d.Imported)
	}
	if !slices.Equal(d.Deleted, []string{"Assets/a.png"}) {
		t.Errorf("Deleted = %v", d.Deleted)
	}
	if !cur.Diff(cur).IsEmpty() {
		t.Error("diff against itself should be empty")
	}

	data, err := cur.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if !back.Diff(cur).IsEmpty() {
		t.Error("decoded snapshot should match")
	}
}
