package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

type catalogAsset struct {
	Handle    string `gorm:"primaryKey"`
	Type      string `gorm:"index"`
	Folder    string `gorm:"index"`
	Name      string
	Origin    string `gorm:"index"`
	UpdatedAt time.Time
}

func (catalogAsset) TableName() string { return "catalog_assets" }

type catalogDependency struct {
	ID       uint   `gorm:"primaryKey"`
	Source   string `gorm:"index"`
	Target   string `gorm:"index"`
	Position int
}

func (catalogDependency) TableName() string { return "catalog_dependencies" }

type catalogMeta struct {
	Name  string `gorm:"primaryKey"`
	Value string
}

func (catalogMeta) TableName() string { return "catalog_meta" }

const metaLastIndexed = "last_indexed"

// CatalogRepository is a SQLite-backed content index. Lookups that miss the
// catalog, and folder creation, go to fallback, which owns the content tree.
type CatalogRepository struct {
	db       *gorm.DB
	fallback ports.ContentIndex
}

var (
	_ ports.ContentIndex  = (*CatalogRepository)(nil)
	_ ports.Catalog       = (*CatalogRepository)(nil)
	_ ports.CatalogReader = (*CatalogRepository)(nil)
)

// OpenCatalog opens (and migrates) the catalog database at path
func OpenCatalog(path string, fallback ports.ContentIndex) (*CatalogRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if err := db.AutoMigrate(&catalogAsset{}, &catalogDependency{}, &catalogMeta{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}

	return &CatalogRepository{db: db, fallback: fallback}, nil
}

// Close releases the database handle
func (r *CatalogRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRows(e domain.CatalogEntry) (catalogAsset, []catalogDependency) {
	asset := catalogAsset{
		Handle:    e.Handle.String(),
		Type:      string(e.Type),
		Folder:    e.Handle.Folder(),
		Name:      e.Handle.LeafName(),
		Origin:    e.Origin.String(),
		UpdatedAt: time.Now(),
	}
	deps := make([]catalogDependency, 0, len(e.Dependencies))
	for i, d := range e.Dependencies {
		deps = append(deps, catalogDependency{
			Source:   asset.Handle,
			Target:   d.String(),
			Position: i,
		})
	}
	return asset, deps
}

// --- Catalog ---

// Replace swaps the whole catalog in one transaction
func (r *CatalogRepository) Replace(ctx context.Context, entries []domain.CatalogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&catalogDependency{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&catalogAsset{}).Error; err != nil {
			return err
		}

		var assets []catalogAsset
		var deps []catalogDependency
		for _, e := range entries {
			a, d := toRows(e)
			assets = append(assets, a)
			deps = append(deps, d...)
		}

		if len(assets) > 0 {
			if err := tx.CreateInBatches(&assets, 200).Error; err != nil {
				return err
			}
		}
		if len(deps) > 0 {
			if err := tx.CreateInBatches(&deps, 500).Error; err != nil {
				return err
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&catalogMeta{Name: metaLastIndexed, Value: time.Now().Format(time.RFC3339)}).Error
	})
}

// Upsert records one object, replacing its dependency rows
func (r *CatalogRepository) Upsert(ctx context.Context, obj *domain.Object) error {
	asset, deps := toRows(domain.CatalogEntry{
		Handle:       obj.Handle,
		Type:         obj.Type,
		Origin:       obj.Origin,
		Dependencies: obj.HardDependencies(),
	})

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "handle"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "folder", "name", "origin", "updated_at"}),
		}).Create(&asset).Error; err != nil {
			return err
		}
		if err := tx.Where("source = ?", asset.Handle).Delete(&catalogDependency{}).Error; err != nil {
			return err
		}
		if len(deps) > 0 {
			return tx.Create(&deps).Error
		}
		return nil
	})
}

// Remove drops an asset and its outgoing edges
func (r *CatalogRepository) Remove(ctx context.Context, h domain.AssetHandle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", h.String()).Delete(&catalogDependency{}).Error; err != nil {
			return err
		}
		return tx.Where("handle = ?", h.String()).Delete(&catalogAsset{}).Error
	})
}

// Stats counts catalog rows
func (r *CatalogRepository) Stats(ctx context.Context) (domain.CatalogStats, error) {
	var stats domain.CatalogStats
	db := r.db.WithContext(ctx)

	var assets, deps int64
	if err := db.Model(&catalogAsset{}).Count(&assets).Error; err != nil {
		return stats, fmt.Errorf("failed to count assets: %w", err)
	}
	if err := db.Model(&catalogDependency{}).Count(&deps).Error; err != nil {
		return stats, fmt.Errorf("failed to count dependencies: %w", err)
	}
	stats.Assets = int(assets)
	stats.Dependencies = int(deps)

	var meta catalogMeta
	if err := db.Where("name = ?", metaLastIndexed).First(&meta).Error; err == nil {
		if ts, err := time.Parse(time.RFC3339, meta.Value); err == nil {
			stats.LastIndexed = ts
		}
	}
	return stats, nil
}

// Entries returns every catalog entry of the given type ("" for all)
func (r *CatalogRepository) Entries(ctx context.Context, tag domain.TypeTag) ([]domain.CatalogEntry, error) {
	q := r.db.WithContext(ctx).Order("handle")
	if tag != "" {
		q = q.Where("type = ?", string(tag))
	}

	var rows []catalogAsset
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}

	var deps []catalogDependency
	dq := r.db.WithContext(ctx).Order("source, position")
	if tag != "" {
		dq = dq.Where("source IN (?)", r.db.Model(&catalogAsset{}).Select("handle").Where("type = ?", string(tag)))
	}
	if err := dq.Find(&deps).Error; err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	bySource := make(map[string][]domain.AssetHandle)
	for _, d := range deps {
		bySource[d.Source] = append(bySource[d.Source], domain.ParseHandle(d.Target))
	}

	entries := make([]domain.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.CatalogEntry{
			Handle:       domain.ParseHandle(row.Handle),
			Type:         domain.TypeTag(row.Type),
			Origin:       domain.ParseHandle(row.Origin),
			Dependencies: bySource[row.Handle],
		})
	}
	return entries, nil
}

// CopiesOf returns every catalogued asset whose recorded origin is source
func (r *CatalogRepository) CopiesOf(ctx context.Context, source domain.AssetHandle) ([]domain.AssetHandle, error) {
	var rows []catalogAsset
	if err := r.db.WithContext(ctx).Where("origin = ?", source.String()).Order("handle").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query copies: %w", err)
	}
	out := make([]domain.AssetHandle, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ParseHandle(row.Handle))
	}
	return out, nil
}

// --- ContentIndex ---

// lookup returns the catalog row of h, or nil when it is not catalogued
func (r *CatalogRepository) lookup(ctx context.Context, h domain.AssetHandle) (*catalogAsset, error) {
	var row catalogAsset
	err := r.db.WithContext(ctx).Where("handle = ?", h.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	return &row, nil
}

func (r *CatalogRepository) ResolveType(ctx context.Context, h domain.AssetHandle) (domain.TypeTag, error) {
	row, err := r.lookup(ctx, h)
	if err != nil {
		return "", err
	}
	if row != nil {
		return domain.TypeTag(row.Type), nil
	}
	if r.fallback != nil {
		return r.fallback.ResolveType(ctx, h)
	}
	return "", fmt.Errorf("%w: %s", domain.ErrNotFound, h)
}

func (r *CatalogRepository) GetHardDependencies(ctx context.Context, h domain.AssetHandle) ([]domain.AssetHandle, error) {
	row, err := r.lookup(ctx, h)
	if err != nil {
		return nil, err
	}
	if row == nil {
		if r.fallback != nil {
			return r.fallback.GetHardDependencies(ctx, h)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, h)
	}

	var rows []catalogDependency
	if err := r.db.WithContext(ctx).Where("source = ?", h.String()).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	deps := make([]domain.AssetHandle, 0, len(rows))
	for _, row := range rows {
		deps = append(deps, domain.ParseHandle(row.Target))
	}
	return deps, nil
}

// ListChildrenOf lists a folder. With a fallback the disk is authoritative:
// rows whose document is gone are dropped from the catalog, and documents
// the catalog has not seen yet are included.
func (r *CatalogRepository) ListChildrenOf(ctx context.Context, folder string) ([]domain.AssetHandle, error) {
	var rows []catalogAsset
	if err := r.db.WithContext(ctx).Where("folder = ?", domain.NormalizePath(folder)).Order("handle").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	children := make([]domain.AssetHandle, 0, len(rows))
	if r.fallback == nil {
		for _, row := range rows {
			children = append(children, domain.ParseHandle(row.Handle))
		}
		return children, nil
	}

	onDisk, err := r.fallback.ListChildrenOf(ctx, folder)
	if err != nil {
		return nil, err
	}
	present := make(map[domain.AssetHandle]bool, len(onDisk))
	for _, h := range onDisk {
		present[h] = true
	}

	seen := make(map[domain.AssetHandle]bool, len(onDisk))
	for _, row := range rows {
		h := domain.ParseHandle(row.Handle)
		if !present[h] {
			if err := r.Remove(ctx, h); err != nil {
				slog.Warn("failed to drop stale catalog entry", "asset", row.Handle, "error", err)
			}
			continue
		}
		seen[h] = true
		children = append(children, h)
	}
	for _, h := range onDisk {
		if !seen[h] {
			children = append(children, h)
		}
	}
	return children, nil
}

func (r *CatalogRepository) EnsureDirectory(ctx context.Context, path string) error {
	if r.fallback == nil {
		return nil
	}
	return r.fallback.EnsureDirectory(ctx, path)
}
