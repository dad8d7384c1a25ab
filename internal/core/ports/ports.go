package ports

import (
	"context"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
)

// ContentIndex defines the port for querying what exists in the project
type ContentIndex interface {
	// ResolveType returns the type tag of an asset, or domain.ErrNotFound
	ResolveType(ctx context.Context, h domain.AssetHandle) (domain.TypeTag, error)

	// GetHardDependencies returns the direct hard references of an asset
	GetHardDependencies(ctx context.Context, h domain.AssetHandle) ([]domain.AssetHandle, error)

	// ListChildrenOf returns the assets stored directly in folder
	ListChildrenOf(ctx context.Context, folder string) ([]domain.AssetHandle, error)

	// EnsureDirectory creates a content folder; an existing folder is success
	EnsureDirectory(ctx context.Context, path string) error
}

// ObjectStore defines the port for loading, duplicating and saving assets
type ObjectStore interface {
	// Load returns the object for h, loading it if necessary
	Load(ctx context.Context, h domain.AssetHandle) (*domain.Object, error)

	// Duplicate copies source into folder under name and records source as
	// the copy's origin. Fails with domain.ErrAlreadyExists if the target is taken.
	Duplicate(ctx context.Context, source domain.AssetHandle, folder, name string) (*domain.Object, error)

	// Persist writes a modified object back to storage
	Persist(ctx context.Context, obj *domain.Object) error

	// IsLoaded reports whether h is currently held in memory
	IsLoaded(h domain.AssetHandle) bool
}

// LibraryRepository defines the port for category library persistence
type LibraryRepository interface {
	// Load returns the stored library, or the default library if none exists
	Load(ctx context.Context) (*domain.Library, error)

	// Save persists the library
	Save(ctx context.Context, lib *domain.Library) error
}

// ContentSource enumerates and reads asset documents without loading them
type ContentSource interface {
	// ListAll returns every asset document in the project
	ListAll(ctx context.Context) ([]domain.AssetHandle, error)

	// ReadDocument parses an asset document without adding it to the loaded set
	ReadDocument(ctx context.Context, h domain.AssetHandle) (*domain.Object, error)
}

// Catalog defines the port for the persisted content index
type Catalog interface {
	// Replace swaps the whole catalog for entries
	Replace(ctx context.Context, entries []domain.CatalogEntry) error

	// Stats describes the catalog contents
	Stats(ctx context.Context) (domain.CatalogStats, error)
}

// DocumentLocator maps assets to the files that hold them
type DocumentLocator interface {
	FilePath(h domain.AssetHandle) (string, error)
}

// CatalogReader reads entries back out of the catalog
type CatalogReader interface {
	// Entries returns catalogued assets, all of them when tag is empty
	Entries(ctx context.Context, tag domain.TypeTag) ([]domain.CatalogEntry, error)
}
