package domain

import (
	"path"
	"strings"
)

// ProjectMount is the content root every in-project asset lives under
const ProjectMount = "/Game"

// TypeTag identifies the class of an asset ("NiagaraSystem", "Texture2D", ...)
// Tags that are not listed below are carried verbatim.
type TypeTag string

const (
	TypeNiagaraSystem            TypeTag = "NiagaraSystem"
	TypeNiagaraScript            TypeTag = "NiagaraScript"
	TypeMaterial                 TypeTag = "Material"
	TypeMaterialInstance         TypeTag = "MaterialInstance"
	TypeMaterialInstanceConstant TypeTag = "MaterialInstanceConstant"
	TypeMaterialFunction         TypeTag = "MaterialFunction"
	TypeTexture                  TypeTag = "Texture"
	TypeTexture2D                TypeTag = "Texture2D"
	TypeStaticMesh               TypeTag = "StaticMesh"
	TypeSkeletalMesh             TypeTag = "SkeletalMesh"
	TypeVectorField              TypeTag = "VectorField"
	TypeVectorFieldStatic        TypeTag = "VectorFieldStatic"
	TypeUnknown                  TypeTag = "Unknown"
)

func (t TypeTag) String() string {
	return string(t)
}

// AssetHandle is the canonical soft path of an asset: "/Game/FX/T_Fire.T_Fire".
// The zero value is the invalid handle.
type AssetHandle struct {
	path string
}

// ParseHandle canonicalises a raw path into a handle.
// "/Game/FX/T_Fire" -> "/Game/FX/T_Fire.T_Fire"
func ParseHandle(raw string) AssetHandle {
	p := strings.TrimSpace(raw)
	if p == "" {
		return AssetHandle{}
	}

	p = NormalizePath(p)
	if p == "" || p == "/" || !strings.HasPrefix(p, "/") {
		return AssetHandle{}
	}

	// The object suffix lives after the last path segment only
	last := p[strings.LastIndex(p, "/")+1:]
	if last == "" {
		return AssetHandle{}
	}
	if !strings.Contains(last, ".") {
		p = p + "." + last
	}

	return AssetHandle{path: p}
}

// NewHandle builds the handle of an asset named name inside folder. Names that
// are not a single path segment give the invalid handle.
func NewHandle(folder, name string) AssetHandle {
	folder = NormalizePath(folder)
	if !ValidAssetName(name) || !strings.HasPrefix(folder, "/") {
		return AssetHandle{}
	}
	if folder == "/" {
		folder = ""
	}
	return AssetHandle{path: folder + "/" + name + "." + name}
}

// ValidAssetName reports whether name can be used as an asset name: non-empty,
// no separators, no '.' (it would collide with the object suffix).
func ValidAssetName(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsAny(name, "/\\.")
}

// NormalizePath converts separators to '/' and cleans the result: duplicate
// slashes, trailing slashes and "."/".." segments are resolved. A rooted path
// never climbs above "/"; a relative path that climbs out keeps its leading "..".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// String returns the canonical path
func (h AssetHandle) String() string {
	return h.path
}

// IsValid reports whether the handle points at something
func (h AssetHandle) IsValid() bool {
	return h.path != ""
}

// PackagePath strips the object suffix: "/Game/FX/T_Fire"
func (h AssetHandle) PackagePath() string {
	slash := strings.LastIndex(h.path, "/")
	dot := strings.LastIndex(h.path, ".")
	if dot > slash {
		return h.path[:dot]
	}
	return h.path
}

// Folder returns the directory containing the asset: "/Game/FX"
func (h AssetHandle) Folder() string {
	if !h.IsValid() {
		return ""
	}
	return path.Dir(h.PackagePath())
}

// LeafName returns the asset name without folder or suffix: "T_Fire"
func (h AssetHandle) LeafName() string {
	if !h.IsValid() {
		return ""
	}
	return path.Base(h.PackagePath())
}

// IsUnder reports whether the asset lives below root ("/Game")
func (h AssetHandle) IsUnder(root string) bool {
	root = strings.TrimRight(NormalizePath(root), "/")
	return strings.HasPrefix(h.path, root+"/")
}

// InProject reports whether the asset belongs to the project content mount
func (h AssetHandle) InProject() bool {
	return h.IsUnder(ProjectMount)
}

// MarshalYAML stores handles as plain strings
func (h AssetHandle) MarshalYAML() (interface{}, error) {
	return h.path, nil
}

// UnmarshalYAML parses and canonicalises a stored path
func (h *AssetHandle) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*h = ParseHandle(raw)
	return nil
}

// ReferencedAssetRecord is one discovered dependency of an asset
type ReferencedAssetRecord struct {
	Handle AssetHandle
	Type   TypeTag
}

// IsZero lets yaml omit unset handles
func (h AssetHandle) IsZero() bool {
	return h.path == ""
}
