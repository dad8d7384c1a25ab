package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// IndexerService rebuilds the asset catalog from the content tree
type IndexerService struct {
	source     ports.ContentSource
	catalog    ports.Catalog
	maxWorkers int
	logger     *slog.Logger
}

// NewIndexerService creates a new indexer service
func NewIndexerService(source ports.ContentSource, catalog ports.Catalog, maxWorkers int, logger *slog.Logger) *IndexerService {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexerService{
		source:     source,
		catalog:    catalog,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// ReindexRequest represents a request to rebuild the catalog
type ReindexRequest struct {
	// Strict fails the reindex on the first unreadable document
	Strict bool
}

// ReindexResponse represents the response from reindexing
type ReindexResponse struct {
	TotalAssets       int
	TotalDependencies int
	Failed            []domain.AssetHandle
	Duration          time.Duration
}

// Execute parses every asset document and replaces the catalog with the result
func (s *IndexerService) Execute(ctx context.Context, req ReindexRequest) (*ReindexResponse, error) {
	start := time.Now()

	handles, err := s.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var (
		mu      sync.Mutex
		entries = make([]domain.CatalogEntry, 0, len(handles))
		failed  []domain.AssetHandle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	for _, h := range handles {
		h := h
		g.Go(func() error {
			obj, err := s.source.ReadDocument(gctx, h)
			if err != nil {
				if req.Strict {
					return fmt.Errorf("failed to read %s: %w", h, err)
				}
				s.logger.Warn("skipping unreadable asset", "asset", h.String(), "error", err)
				mu.Lock()
				failed = append(failed, h)
				mu.Unlock()
				return nil
			}

			entry := domain.CatalogEntry{
				Handle:       obj.Handle,
				Type:         obj.Type,
				Origin:       obj.Origin,
				Dependencies: obj.HardDependencies(),
			}

			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Handle.String() < entries[j].Handle.String()
	})

	if err := s.catalog.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}

	deps := 0
	for _, e := range entries {
		deps += len(e.Dependencies)
	}

	resp := &ReindexResponse{
		TotalAssets:       len(entries),
		TotalDependencies: deps,
		Failed:            failed,
		Duration:          time.Since(start),
	}
	s.logger.Info("catalog rebuilt", "assets", resp.TotalAssets, "dependencies", resp.TotalDependencies, "failed", len(failed), "duration", resp.Duration)
	return resp, nil
}
