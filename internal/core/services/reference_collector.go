package services

import (
	"context"
	"log/slog"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// ReferenceCollector discovers the in-project hard dependencies of an asset
type ReferenceCollector struct {
	index  ports.ContentIndex
	store  ports.ObjectStore
	logger *slog.Logger
}

// NewReferenceCollector creates a collector. A nil logger uses slog.Default().
func NewReferenceCollector(index ports.ContentIndex, store ports.ObjectStore, logger *slog.Logger) *ReferenceCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceCollector{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// CollectHardReferences returns one typed record per distinct in-project hard
// dependency of h. An unresolvable root yields an empty list.
func (c *ReferenceCollector) CollectHardReferences(ctx context.Context, h domain.AssetHandle) []domain.ReferencedAssetRecord {
	deps, err := c.index.GetHardDependencies(ctx, h)
	if err != nil {
		c.logger.Debug("could not resolve asset for reference collection", "asset", h.String(), "error", err)
		return []domain.ReferencedAssetRecord{}
	}

	seen := make(map[domain.AssetHandle]bool, len(deps))
	records := make([]domain.ReferencedAssetRecord, 0, len(deps))
	for _, dep := range deps {
		if !dep.IsValid() || !dep.InProject() || seen[dep] {
			continue
		}
		seen[dep] = true
		records = append(records, domain.ReferencedAssetRecord{
			Handle: dep,
			Type:   c.resolveType(ctx, dep),
		})
	}
	return records
}

// resolveType asks the index first and falls back to loading the object
func (c *ReferenceCollector) resolveType(ctx context.Context, h domain.AssetHandle) domain.TypeTag {
	if tag, err := c.index.ResolveType(ctx, h); err == nil && tag != "" {
		return tag
	}
	if obj, err := c.store.Load(ctx, h); err == nil && obj.Type != "" {
		return obj.Type
	}
	c.logger.Debug("unknown asset type", "asset", h.String())
	return domain.TypeUnknown
}
