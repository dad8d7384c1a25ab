package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// RegistrationService copies effects into the library layout and files them under a category
type RegistrationService struct {
	copier *GraphCopier
	index  ports.ContentIndex
	store  ports.ObjectStore
	repo   ports.LibraryRepository
	logger *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(copier *GraphCopier, index ports.ContentIndex, store ports.ObjectStore, repo ports.LibraryRepository, logger *slog.Logger) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		copier: copier,
		index:  index,
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// RegisterRequest describes effects to add to the library
type RegisterRequest struct {
	RootPath  string
	AssetName string
	Category  string
	Sources   []domain.AssetHandle
}

// RegisteredAsset pairs a source with the library copy made from it
type RegisteredAsset struct {
	Source domain.AssetHandle
	Copy   domain.AssetHandle
	Report *CopyReport
}

// RegisterResponse reports the outcome of a registration
type RegisterResponse struct {
	Category        string
	CategoryCreated bool
	Registered      []RegisteredAsset
	Skipped         []SkippedAsset
}

// Execute copies every particle system in req.Sources (with its dependencies)
// into the category folder and registers the copies in the library
func (s *RegistrationService) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if strings.TrimSpace(req.RootPath) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}
	if strings.TrimSpace(req.AssetName) == "" {
		return nil, fmt.Errorf("asset name cannot be empty")
	}
	if !domain.ValidAssetName(req.AssetName) {
		return nil, fmt.Errorf("%w: %q is not a valid asset name", domain.ErrInvalidHandle, req.AssetName)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("category cannot be empty")
	}

	lib, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	resp := &RegisterResponse{Category: req.Category}
	if lib.FindCategory(req.Category) == nil {
		lib.AddCategory(req.Category, domain.DefaultIcon(req.Category))
		resp.CategoryCreated = true
	}

	dest := DestinationFolder(req.RootPath, req.Category, domain.TypeNiagaraSystem)
	if err := s.copier.Folders().EnsureFolderExists(ctx, dest); err != nil {
		return nil, err
	}

	for i, src := range req.Sources {
		tag, err := s.typeOf(ctx, src)
		if err != nil {
			resp.Skipped = append(resp.Skipped, SkippedAsset{Handle: src, Reason: err.Error()})
			continue
		}
		if tag != domain.TypeNiagaraSystem {
			s.logger.Info("skipping non particle system", "asset", src.String(), "type", tag.String())
			resp.Skipped = append(resp.Skipped, SkippedAsset{Handle: src, Reason: "not a NiagaraSystem: " + tag.String()})
			continue
		}

		name := req.AssetName
		if len(req.Sources) > 1 {
			name = fmt.Sprintf("%s_%d", req.AssetName, i)
		}

		report, err := s.copier.CopyWithReport(ctx, src, dest, name, req.RootPath)
		if err != nil {
			s.logger.Error("failed to register asset", "asset", src.String(), "error", err)
			resp.Skipped = append(resp.Skipped, SkippedAsset{Handle: src, Reason: err.Error()})
			continue
		}

		if err := lib.AddAsset(req.Category, report.Root); err != nil {
			return nil, err
		}
		resp.Registered = append(resp.Registered, RegisteredAsset{Source: src, Copy: report.Root, Report: report})
	}

	if err := s.repo.Save(ctx, lib); err != nil {
		return nil, fmt.Errorf("failed to save library: %w", err)
	}
	return resp, nil
}

func (s *RegistrationService) typeOf(ctx context.Context, h domain.AssetHandle) (domain.TypeTag, error) {
	if tag, err := s.index.ResolveType(ctx, h); err == nil {
		return tag, nil
	}
	obj, err := s.store.Load(ctx, h)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", h, err)
	}
	return obj.Type, nil
}

// CopyAssetWithNewName duplicates a single asset without following its references
func (s *RegistrationService) CopyAssetWithNewName(ctx context.Context, source domain.AssetHandle, folder, name string) (domain.AssetHandle, error) {
	if !source.IsValid() {
		return domain.AssetHandle{}, domain.ErrInvalidHandle
	}
	if name == "" {
		return domain.AssetHandle{}, fmt.Errorf("asset name cannot be empty")
	}
	if !domain.ValidAssetName(name) {
		return domain.AssetHandle{}, fmt.Errorf("%w: %q is not a valid asset name", domain.ErrInvalidHandle, name)
	}
	if err := s.copier.Folders().EnsureFolderExists(ctx, folder); err != nil {
		return domain.AssetHandle{}, err
	}

	dup, err := s.store.Duplicate(ctx, source, NormalizeFolder(folder), name)
	if err != nil {
		return domain.AssetHandle{}, fmt.Errorf("failed to copy %s: %w", source, err)
	}
	s.logger.Info("copied asset", "source", source.String(), "copy", dup.Handle.String())
	return dup.Handle, nil
}

// CopyAssets duplicates several assets into folder. With more than one source the
// copies are suffixed _0, _1, ... Failed copies are logged and left out.
func (s *RegistrationService) CopyAssets(ctx context.Context, sources []domain.AssetHandle, folder, baseName string) ([]domain.AssetHandle, error) {
	var copies []domain.AssetHandle
	for i, src := range sources {
		name := baseName
		if name == "" {
			name = src.LeafName()
		}
		if len(sources) > 1 {
			name = fmt.Sprintf("%s_%d", name, i)
		}

		h, err := s.CopyAssetWithNewName(ctx, src, folder, name)
		if err != nil {
			s.logger.Warn("failed to copy asset", "asset", src.String(), "error", err)
			continue
		}
		copies = append(copies, h)
	}

	if len(copies) == 0 && len(sources) > 0 {
		return nil, fmt.Errorf("no assets were copied")
	}
	return copies, nil
}
