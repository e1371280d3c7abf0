package asset

import (
	"maps"
	"path"
	"strings"
)

// DefaultGroupKey is the key used by nodes that emit a single group.
const DefaultGroupKey = "0"

// AssetsRoot is the project directory that holds importable assets.
const AssetsRoot = "Assets"

// ConfigDir holds the tool's own files inside the assets tree. Loaders never
// load from it and changes below it never count as asset changes.
const ConfigDir = AssetsRoot + "/BundleGraph"

// Type tags assigned from file extensions.
const (
	TypeTexture  = "texture"
	TypeModel    = "model"
	TypeMaterial = "material"
	TypeAudio    = "audio"
	TypeText     = "text"
	TypeScene    = "scene"
	TypePrefab   = "prefab"
	TypeBundle   = "bundle"
	TypeGeneric  = "asset"
)

var typeByExt = map[string]string{
	".png":    TypeTexture,
	".jpg":    TypeTexture,
	".jpeg":   TypeTexture,
	".tga":    TypeTexture,
	".psd":    TypeTexture,
	".fbx":    TypeModel,
	".obj":    TypeModel,
	".mat":    TypeMaterial,
	".wav":    TypeAudio,
	".mp3":    TypeAudio,
	".ogg":    TypeAudio,
	".txt":    TypeText,
	".json":   TypeText,
	".xml":    TypeText,
	".csv":    TypeText,
	".unity":  TypeScene,
	".prefab": TypePrefab,
	".bundle": TypeBundle,
}

// TypeOf returns the type tag for a path based on its extension.
func TypeOf(p string) string {
	if t, ok := typeByExt[strings.ToLower(path.Ext(p))]; ok {
		return t
	}
	return TypeGeneric
}

// Reference is an immutable handle to a tracked asset.
// Two references describe the same import generation when both Path and
// Fingerprint match.
type Reference struct {
	Path        string            `json:"path"`
	Fingerprint string            `json:"fingerprint"`
	Type        string            `json:"type"`
	Imported    bool              `json:"imported"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// NewReference creates a reference with the type derived from the path.
func NewReference(p, fingerprint string) Reference {
	return Reference{
		Path:        p,
		Fingerprint: fingerprint,
		Type:        TypeOf(p),
		Imported:    true,
	}
}

// Name returns the file name without directory.
func (r Reference) Name() string { return path.Base(r.Path) }

// WithMeta returns a copy of r with the given metadata merged in.
// The receiver is left unchanged.
func (r Reference) WithMeta(kv map[string]string) Reference {
	out := r
	out.Meta = make(map[string]string, len(r.Meta)+len(kv))
	maps.Copy(out.Meta, r.Meta)
	maps.Copy(out.Meta, kv)
	return out
}

// Same reports whether two references name the same import generation.
func (r Reference) Same(o Reference) bool {
	return r.Path == o.Path && r.Fingerprint == o.Fingerprint
}

// Equal reports whether r and o are identical, metadata included.
func (r Reference) Equal(o Reference) bool {
	return r.Path == o.Path &&
		r.Fingerprint == o.Fingerprint &&
		r.Type == o.Type &&
		r.Imported == o.Imported &&
		maps.Equal(r.Meta, o.Meta)
}

// MetaExt is the extension of the sidecar files the editor keeps next to
// every asset.
const MetaExt = ".meta"

// Loadable reports whether p is an asset a loader should pick up. Sidecar
// .meta files are not, and neither is anything the editor hides: names
// starting with "." or ending with "~", or files below such a directory.
func Loadable(p string) bool {
	if strings.HasSuffix(p, MetaExt) {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") || strings.HasSuffix(seg, "~") {
			return false
		}
	}
	return true
}

// Under reports whether p equals dir or lies below it. Matching is on path
// segment boundaries, so "Assets/XY" is not under "Assets/X".
func Under(p, dir string) bool {
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
