package node

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/bundlegraph/pkg/asset"
	"github.com/matzehuels/bundlegraph/pkg/dag"
)

// merged folds every incoming group set into one, in connection order.
func merged(incoming []dag.Incoming) asset.GroupSet {
	sets := make([]asset.GroupSet, len(incoming))
	for i, in := range incoming {
		sets[i] = in.Groups
	}
	return asset.Merge(sets...)
}

// dirExists asks the resolver whether a project-relative directory exists.
// Resolvers that cannot answer directly are asked for a listing.
func dirExists(r asset.Resolver, dir string) bool {
	if r == nil {
		return false
	}
	if dc, ok := r.(asset.DirChecker); ok {
		return dc.DirExists(dir)
	}
	paths, err := r.List(dir)
	return err == nil && len(paths) > 0
}

// projectPath maps a project-relative slash path to a file path. Absolute
// paths are returned unchanged.
func projectPath(ec *dag.ExecContext, p string) string {
	fp := filepath.FromSlash(p)
	if filepath.IsAbs(fp) {
		return fp
	}
	return filepath.Join(ec.ProjectRoot, fp)
}

// writeFile writes data below the project root, creating directories.
func writeFile(ec *dag.ExecContext, rel string, data []byte) error {
	full := projectPath(ec, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
