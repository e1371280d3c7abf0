package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/bundlegraph/pkg/cache"
)

// Resolver is the asset resolution collaborator. It maps project-relative
// paths to references and lists the files below a directory.
type Resolver interface {
	// Resolve returns the current reference for p. A missing file is
	// reported as (Reference{}, false, nil).
	Resolve(p string) (Reference, bool, error)
	// List returns the file paths below dir, sorted.
	List(dir string) ([]string, error)
}

// FileResolver resolves paths against a project directory on disk.
// Fingerprints are SHA-256 hashes of the file content.
type FileResolver struct {
	root string
}

// NewFileResolver creates a resolver rooted at the project directory.
func NewFileResolver(root string) *FileResolver {
	return &FileResolver{root: root}
}

// Root returns the project directory.
func (r *FileResolver) Root() string { return r.root }

// Abs returns the absolute file path for a project-relative path.
func (r *FileResolver) Abs(p string) string {
	return filepath.Join(r.root, filepath.FromSlash(p))
}

// Resolve implements Resolver.
func (r *FileResolver) Resolve(p string) (Reference, bool, error) {
	full := r.Abs(p)
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return Reference{}, false, nil
	}
	if err != nil {
		return Reference{}, false, err
	}
	if info.IsDir() {
		return Reference{}, false, nil
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return Reference{}, false, fmt.Errorf("read %s: %w", p, err)
	}
	return NewReference(p, cache.Hash(data)), true, nil
}

// List implements Resolver. A missing directory yields an empty list.
func (r *FileResolver) List(dir string) ([]string, error) {
	base := r.Abs(dir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}
	var out []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	slices.Sort(out)
	return out, nil
}

// DirExists reports whether the project-relative directory exists.
func (r *FileResolver) DirExists(dir string) bool {
	info, err := os.Stat(r.Abs(dir))
	return err == nil && info.IsDir()
}

// MemoryResolver is an in-memory Resolver keyed by path. It is safe for
// concurrent use.
type MemoryResolver struct {
	mu    sync.RWMutex
	files map[string]string
	dirs  map[string]bool
}

// NewMemoryResolver returns an empty in-memory resolver.
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{files: map[string]string{}, dirs: map[string]bool{}}
}

// Put adds or replaces a file with the given fingerprint. Parent
// directories are created implicitly.
func (m *MemoryResolver) Put(p, fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = fingerprint
	for d := path.Dir(p); d != "." && d != "/"; d = path.Dir(d) {
		m.dirs[d] = true
	}
}

// MkdirAll records an empty directory.
func (m *MemoryResolver) MkdirAll(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for d := strings.TrimSuffix(dir, "/"); d != "." && d != "/" && d != ""; d = path.Dir(d) {
		m.dirs[d] = true
	}
}

// Remove deletes a file.
func (m *MemoryResolver) Remove(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, p)
}

// Resolve implements Resolver.
func (m *MemoryResolver) Resolve(p string) (Reference, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fp, ok := m.files[p]
	if !ok {
		return Reference{}, false, nil
	}
	return NewReference(p, fp), true, nil
}

// List implements Resolver.
func (m *MemoryResolver) List(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for p := range m.files {
		if Under(p, dir) {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out, nil
}

// DirExists reports whether a file or directory was recorded under dir.
func (m *MemoryResolver) DirExists(dir string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[strings.TrimSuffix(dir, "/")]
}

// DirChecker is implemented by resolvers that can answer directory
// existence, which nodes use to validate configured paths.
type DirChecker interface {
	DirExists(dir string) bool
}

var (
	_ Resolver   = (*FileResolver)(nil)
	_ Resolver   = (*MemoryResolver)(nil)
	_ DirChecker = (*FileResolver)(nil)
	_ DirChecker = (*MemoryResolver)(nil)
)
