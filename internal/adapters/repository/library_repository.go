package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// FileLibraryRepository stores the category library as a YAML file
type FileLibraryRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileLibraryRepository creates a library repository backed by path
func NewFileLibraryRepository(path string) *FileLibraryRepository {
	return &FileLibraryRepository{path: path}
}

var _ ports.LibraryRepository = (*FileLibraryRepository)(nil)

// Load reads the library from disk. A missing file yields the default library.
func (r *FileLibraryRepository) Load(ctx context.Context) (*domain.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultLibrary(), nil
		}
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}

	var lib domain.Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse library file: %w", err)
	}
	for i := range lib.Categories {
		if lib.Categories[i].Assets == nil {
			lib.Categories[i].Assets = []domain.AssetHandle{}
		}
	}
	return &lib, nil
}

// Save writes the library to disk
func (r *FileLibraryRepository) Save(ctx context.Context, lib *domain.Library) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	data, err := yaml.Marshal(lib)
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}

	// Write to a temp file, then rename over the old one
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write library file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace library file: %w", err)
	}
	return nil
}
