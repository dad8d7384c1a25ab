package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// LibraryService manages effect categories and their registered assets
type LibraryService struct {
	repo  ports.LibraryRepository
	index ports.ContentIndex
}

// NewLibraryService creates a new library service
func NewLibraryService(repo ports.LibraryRepository, index ports.ContentIndex) *LibraryService {
	return &LibraryService{
		repo:  repo,
		index: index,
	}
}

// Load returns the current library
func (s *LibraryService) Load(ctx context.Context) (*domain.Library, error) {
	lib, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return lib, nil
}

// update loads the library, applies fn and saves the result
func (s *LibraryService) update(ctx context.Context, fn func(lib *domain.Library) error) (*domain.Library, error) {
	lib, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(lib); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, lib); err != nil {
		return nil, fmt.Errorf("failed to save library: %w", err)
	}
	return lib, nil
}

// AddCategory creates a category unless one with that name exists.
// An empty icon uses the conventional icon path.
func (s *LibraryService) AddCategory(ctx context.Context, name, icon string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("category name cannot be empty")
	}

	created := false
	_, err := s.update(ctx, func(lib *domain.Library) error {
		if lib.FindCategory(name) != nil {
			return nil
		}
		iconHandle := domain.ParseHandle(icon)
		if !iconHandle.IsValid() {
			iconHandle = domain.DefaultIcon(name)
		}
		lib.AddCategory(name, iconHandle)
		created = true
		return nil
	})
	return created, err
}

// RemoveCategory deletes a category and its registrations
func (s *LibraryService) RemoveCategory(ctx context.Context, name string) error {
	_, err := s.update(ctx, func(lib *domain.Library) error {
		if !lib.RemoveCategory(name) {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, name)
		}
		return nil
	})
	return err
}

// RenameCategory renames a category
func (s *LibraryService) RenameCategory(ctx context.Context, oldName, newName string) error {
	_, err := s.update(ctx, func(lib *domain.Library) error {
		return lib.RenameCategory(oldName, newName)
	})
	return err
}

// SetIcon changes the icon of a category
func (s *LibraryService) SetIcon(ctx context.Context, name, icon string) error {
	h := domain.ParseHandle(icon)
	if !h.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidHandle, icon)
	}
	_, err := s.update(ctx, func(lib *domain.Library) error {
		c := lib.FindCategory(name)
		if c == nil {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, name)
		}
		c.Icon = h
		return nil
	})
	return err
}

// RegisterAsset adds an asset to an existing category
func (s *LibraryService) RegisterAsset(ctx context.Context, category string, h domain.AssetHandle) error {
	_, err := s.update(ctx, func(lib *domain.Library) error {
		return lib.AddAsset(category, h)
	})
	return err
}

// UnregisterAsset removes an asset from a category
func (s *LibraryService) UnregisterAsset(ctx context.Context, category string, h domain.AssetHandle) (int, error) {
	removed := 0
	_, err := s.update(ctx, func(lib *domain.Library) error {
		if lib.FindCategory(category) == nil {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, category)
		}
		removed = lib.RemoveAsset(category, h)
		return nil
	})
	return removed, err
}

// CleanupRequest selects the cleanup passes to run
type CleanupRequest struct {
	RemoveEmptyCategories bool
}

// CleanupResponse reports what a cleanup removed
type CleanupResponse struct {
	InvalidAssets   int
	EmptyCategories int
}

// Cleanup drops registrations of assets that no longer exist and, optionally,
// categories left without assets
func (s *LibraryService) Cleanup(ctx context.Context, req CleanupRequest) (*CleanupResponse, error) {
	resp := &CleanupResponse{}
	_, err := s.update(ctx, func(lib *domain.Library) error {
		resp.InvalidAssets = lib.CleanupInvalidAssets(func(h domain.AssetHandle) bool {
			_, err := s.index.ResolveType(ctx, h)
			return err == nil
		})
		if req.RemoveEmptyCategories {
			resp.EmptyCategories = lib.CleanupEmptyCategories()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
