package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// OriginPolicy decides when an existing object counts as a copy of a source
type OriginPolicy string

const (
	// OriginByProvenance matches on path equality or on the recorded origin of the existing object
	OriginByProvenance OriginPolicy = "provenance"
	// OriginByPath matches on path equality only
	OriginByPath OriginPolicy = "path"
)

// DefaultMaxNumberedNames bounds the name_NN search
const DefaultMaxNumberedNames = 99

// ParseOriginPolicy maps a config value to a policy, defaulting to provenance
func ParseOriginPolicy(s string) OriginPolicy {
	if OriginPolicy(s) == OriginByPath {
		return OriginByPath
	}
	return OriginByProvenance
}

// Deduplicator finds existing copies and picks free names on collision
type Deduplicator struct {
	index      ports.ContentIndex
	store      ports.ObjectStore
	policy     OriginPolicy
	maxNumbers int
	logger     *slog.Logger
}

// NewDeduplicator creates a deduplicator. maxNumbers <= 0 uses DefaultMaxNumberedNames.
func NewDeduplicator(index ports.ContentIndex, store ports.ObjectStore, policy OriginPolicy, maxNumbers int, logger *slog.Logger) *Deduplicator {
	if maxNumbers <= 0 {
		maxNumbers = DefaultMaxNumberedNames
	}
	if policy == "" {
		policy = OriginByProvenance
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deduplicator{
		index:      index,
		store:      store,
		policy:     policy,
		maxNumbers: maxNumbers,
		logger:     logger,
	}
}

// FindExisting returns the asset named name stored directly in folder
func (d *Deduplicator) FindExisting(ctx context.Context, folder, name string) (domain.AssetHandle, bool) {
	children, err := d.index.ListChildrenOf(ctx, folder)
	if err != nil {
		d.logger.Debug("failed to list folder", "folder", folder, "error", err)
		return domain.AssetHandle{}, false
	}
	for _, child := range children {
		if child.LeafName() == name {
			return child, true
		}
	}
	return domain.AssetHandle{}, false
}

// IsSameOrigin reports whether existing can stand in for a copy of source
func (d *Deduplicator) IsSameOrigin(ctx context.Context, source, existing domain.AssetHandle) bool {
	if source == existing {
		return true
	}
	if d.policy != OriginByProvenance {
		return false
	}
	obj, err := d.store.Load(ctx, existing)
	if err != nil {
		return false
	}
	return obj.Origin == source
}

// NextAvailableName walks name_01, name_02, ... in folder. A candidate that is
// free is returned with an invalid handle; a candidate that already holds a copy
// of source is returned together with its handle for reuse.
func (d *Deduplicator) NextAvailableName(ctx context.Context, source domain.AssetHandle, folder, name string) (string, domain.AssetHandle, error) {
	return d.nextName(ctx, source, folder, name, true)
}

// NextFreeName is NextAvailableName without reuse: only unoccupied names qualify
func (d *Deduplicator) NextFreeName(ctx context.Context, folder, name string) (string, error) {
	candidate, _, err := d.nextName(ctx, domain.AssetHandle{}, folder, name, false)
	return candidate, err
}

func (d *Deduplicator) nextName(ctx context.Context, source domain.AssetHandle, folder, name string, allowReuse bool) (string, domain.AssetHandle, error) {
	occupied := make(map[string]domain.AssetHandle)
	if children, err := d.index.ListChildrenOf(ctx, folder); err == nil {
		for _, child := range children {
			occupied[child.LeafName()] = child
		}
	}

	for i := 1; i <= d.maxNumbers; i++ {
		candidate := fmt.Sprintf("%s_%02d", name, i)
		existing, taken := occupied[candidate]
		if !taken {
			return candidate, domain.AssetHandle{}, nil
		}
		if allowReuse && d.IsSameOrigin(ctx, source, existing) {
			return candidate, existing, nil
		}
	}

	return "", domain.AssetHandle{}, fmt.Errorf("%w: %s/%s_01..%02d", domain.ErrNameExhausted, folder, name, d.maxNumbers)
}
