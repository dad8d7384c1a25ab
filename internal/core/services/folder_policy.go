package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// folderNames maps type tags to their subfolder below the library root.
// Tags not listed here use the tag itself as folder name.
var folderNames = map[domain.TypeTag]string{
	domain.TypeMaterial:                 "Materials",
	domain.TypeMaterialInstance:         "Materials",
	domain.TypeMaterialInstanceConstant: "Materials",
	domain.TypeTexture:                  "Textures",
	domain.TypeTexture2D:                "Textures",
	domain.TypeStaticMesh:               "Meshes",
	domain.TypeSkeletalMesh:             "Meshes",
	domain.TypeVectorField:              "VectorFields",
	domain.TypeVectorFieldStatic:        "VectorFields",
	domain.TypeNiagaraScript:            "NiagaraScripts",
	domain.TypeNiagaraSystem:            "Particles",
}

// FolderNameFor returns the subfolder used for assets of the given type
func FolderNameFor(tag domain.TypeTag) string {
	if name, ok := folderNames[tag]; ok {
		return name
	}
	return string(tag)
}

// DestinationFolder computes where a copy of an asset of the given type lands.
// Only particle systems are scoped by category.
func DestinationFolder(rootPath, categoryName string, tag domain.TypeTag) string {
	root := strings.ReplaceAll(rootPath, "\\", "/")
	root = strings.TrimRight(root, "/")

	if tag == domain.TypeNiagaraSystem {
		return fmt.Sprintf("%s/%s/%s", root, FolderNameFor(tag), categoryName)
	}
	return fmt.Sprintf("%s/%s", root, FolderNameFor(tag))
}

// NormalizeFolder canonicalises a content folder and forces it below the project mount
// "FX\\Textures//" -> "/Game/FX/Textures"
func NormalizeFolder(path string) string {
	// Rooting first keeps ".." from climbing above the mount
	p := strings.TrimPrefix(domain.NormalizePath("/"+strings.TrimSpace(path)), "/")
	mount := strings.TrimPrefix(domain.ProjectMount, "/")

	switch {
	case p == "" || p == mount:
		return domain.ProjectMount
	case strings.HasPrefix(p, mount+"/"):
		return "/" + p
	default:
		return domain.ProjectMount + "/" + p
	}
}

// FolderPolicy creates destination folders through the content index
type FolderPolicy struct {
	index ports.ContentIndex
}

// NewFolderPolicy creates a folder policy
func NewFolderPolicy(index ports.ContentIndex) *FolderPolicy {
	return &FolderPolicy{index: index}
}

// EnsureFolderExists makes sure path exists below the project mount.
// An already existing folder is success.
func (p *FolderPolicy) EnsureFolderExists(ctx context.Context, path string) error {
	folder := NormalizeFolder(path)
	if err := p.index.EnsureDirectory(ctx, folder); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", folder, err)
	}
	return nil
}
