package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// CopierOptions tunes duplicate detection
type CopierOptions struct {
	OriginPolicy     OriginPolicy
	MaxNumberedNames int
}

// SkippedAsset is a dependency that could not be copied
type SkippedAsset struct {
	Handle domain.AssetHandle
	Reason string
}

// CopyReport describes the outcome of one CopyWithReferences call
type CopyReport struct {
	OperationID string
	Source      domain.AssetHandle
	Root        domain.AssetHandle
	Copied      []domain.ReferencePair
	Reused      []domain.ReferencePair
	Skipped     []SkippedAsset
	Rewritten   int
	Map         *domain.ReferenceMap
	Duration    time.Duration
}

// GraphCopier duplicates an asset together with its hard-dependency graph
type GraphCopier struct {
	store     ports.ObjectStore
	collector *ReferenceCollector
	dedup     *Deduplicator
	rewriter  *ReferenceRewriter
	folders   *FolderPolicy
	logger    *slog.Logger
}

// NewGraphCopier wires a copier over the given index and store
func NewGraphCopier(index ports.ContentIndex, store ports.ObjectStore, opts CopierOptions, logger *slog.Logger) *GraphCopier {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphCopier{
		store:     store,
		collector: NewReferenceCollector(index, store, logger),
		dedup:     NewDeduplicator(index, store, opts.OriginPolicy, opts.MaxNumberedNames, logger),
		rewriter:  NewReferenceRewriter(store, logger),
		folders:   NewFolderPolicy(index),
		logger:    logger,
	}
}

// Collector exposes the reference collector used by the copier
func (c *GraphCopier) Collector() *ReferenceCollector {
	return c.collector
}

// Folders exposes the folder policy used by the copier
func (c *GraphCopier) Folders() *FolderPolicy {
	return c.folders
}

// CopyWithReferences copies sourceRoot into destFolder as newName after copying
// its dependencies below rootPath. It returns the invalid handle and an error
// when the root itself could not be copied.
func (c *GraphCopier) CopyWithReferences(ctx context.Context, sourceRoot domain.AssetHandle, destFolder, newName, rootPath string) (domain.AssetHandle, error) {
	report, err := c.CopyWithReport(ctx, sourceRoot, destFolder, newName, rootPath)
	if err != nil {
		return domain.AssetHandle{}, err
	}
	return report.Root, nil
}

// copyRun holds the state of one top-level copy
type copyRun struct {
	rootPath  string
	source    domain.AssetHandle
	processed domain.ProcessedSet
	refMap    *domain.ReferenceMap
	report    *CopyReport
	// copies whose source referenced the root; rewritten once the root exists
	backRefs []domain.AssetHandle
	logger   *slog.Logger
}

// CopyWithReport is CopyWithReferences returning the full outcome
func (c *GraphCopier) CopyWithReport(ctx context.Context, sourceRoot domain.AssetHandle, destFolder, newName, rootPath string) (*CopyReport, error) {
	start := time.Now()
	if !sourceRoot.IsValid() {
		return nil, domain.ErrInvalidHandle
	}
	if newName == "" {
		newName = sourceRoot.LeafName()
	}
	if !domain.ValidAssetName(newName) {
		return nil, fmt.Errorf("%w: %q is not a valid asset name", domain.ErrInvalidHandle, newName)
	}

	opID := uuid.NewString()
	run := &copyRun{
		rootPath:  rootPath,
		source:    sourceRoot,
		processed: domain.ProcessedSet{},
		refMap:    domain.NewReferenceMap(),
		logger:    c.logger.With("op", opID),
	}
	run.report = &CopyReport{
		OperationID: opID,
		Source:      sourceRoot,
		Map:         run.refMap,
	}
	run.processed.Mark(sourceRoot)

	run.logger.Info("copying asset with references", "source", sourceRoot.String(), "dest", destFolder, "name", newName, "root_path", rootPath)

	refs := c.collector.CollectHardReferences(ctx, sourceRoot)
	c.copyGraph(ctx, run, refs)

	newRoot, err := c.copyRoot(ctx, run, destFolder, newName)
	if err != nil {
		run.logger.Error("root copy failed", "source", sourceRoot.String(), "error", err)
		return nil, err
	}
	run.report.Root = newRoot

	n, err := c.rewriter.Apply(ctx, newRoot, run.refMap)
	if err != nil {
		run.logger.Warn("failed to rewrite root copy", "asset", newRoot.String(), "error", err)
	}
	run.report.Rewritten += n

	// Dependencies that point back at the root can only be fixed now
	if len(run.backRefs) > 0 {
		run.refMap.Add(sourceRoot, newRoot)
		for _, h := range run.backRefs {
			n, err := c.rewriter.Apply(ctx, h, run.refMap)
			if err != nil {
				run.logger.Warn("failed to rewrite back reference", "asset", h.String(), "error", err)
			}
			run.report.Rewritten += n
		}
	}

	run.report.Duration = time.Since(start)
	run.logger.Info("copy finished",
		"root", newRoot.String(),
		"copied", len(run.report.Copied),
		"reused", len(run.report.Reused),
		"skipped", len(run.report.Skipped),
		"rewritten", run.report.Rewritten,
		"duration", run.report.Duration,
	)
	return run.report, nil
}

// copyGraph copies every unprocessed record depth-first
func (c *GraphCopier) copyGraph(ctx context.Context, run *copyRun, refs []domain.ReferencedAssetRecord) {
	for _, ref := range refs {
		if ref.Handle == run.source {
			continue
		}
		if !run.processed.Mark(ref.Handle) {
			continue
		}

		copied, reused, err := c.copyNode(ctx, run, ref)
		if err != nil {
			run.logger.Warn("skipping dependency", "asset", ref.Handle.String(), "type", ref.Type.String(), "error", err)
			run.report.Skipped = append(run.report.Skipped, SkippedAsset{Handle: ref.Handle, Reason: err.Error()})
			continue
		}

		run.refMap.Add(ref.Handle, copied)
		pair := domain.ReferencePair{Source: ref.Handle, Dest: copied}
		if reused {
			run.report.Reused = append(run.report.Reused, pair)
		} else {
			run.report.Copied = append(run.report.Copied, pair)
		}

		nested := c.collector.CollectHardReferences(ctx, ref.Handle)
		for _, n := range nested {
			if n.Handle == run.source {
				run.backRefs = append(run.backRefs, copied)
				break
			}
		}
		c.copyGraph(ctx, run, nested)

		n, err := c.rewriter.Apply(ctx, copied, run.refMap)
		if err != nil {
			run.logger.Warn("failed to rewrite copy", "asset", copied.String(), "error", err)
		}
		run.report.Rewritten += n
	}
}

// copyNode produces the copy of one dependency, reusing an existing copy when possible
func (c *GraphCopier) copyNode(ctx context.Context, run *copyRun, ref domain.ReferencedAssetRecord) (domain.AssetHandle, bool, error) {
	// Loaded sources let the rewriter sweep embedded links, reused copies included
	if _, err := c.store.Load(ctx, ref.Handle); err != nil {
		return domain.AssetHandle{}, false, fmt.Errorf("failed to load source: %w", err)
	}

	folder := NormalizeFolder(DestinationFolder(run.rootPath, "", ref.Type))
	if err := c.folders.EnsureFolderExists(ctx, folder); err != nil {
		return domain.AssetHandle{}, false, err
	}

	name := ref.Handle.LeafName()
	existing, found := c.dedup.FindExisting(ctx, folder, name)
	if found {
		if c.dedup.IsSameOrigin(ctx, ref.Handle, existing) {
			run.logger.Debug("reusing existing copy", "asset", ref.Handle.String(), "copy", existing.String())
			return existing, true, nil
		}

		numbered, reuse, err := c.dedup.NextAvailableName(ctx, ref.Handle, folder, name)
		if err != nil {
			return domain.AssetHandle{}, false, err
		}
		if reuse.IsValid() {
			run.logger.Debug("reusing numbered copy", "asset", ref.Handle.String(), "copy", reuse.String())
			return reuse, true, nil
		}
		name = numbered
	}

	dup, err := c.store.Duplicate(ctx, ref.Handle, folder, name)
	if err != nil {
		return domain.AssetHandle{}, false, fmt.Errorf("failed to duplicate: %w", err)
	}
	run.logger.Debug("duplicated dependency", "asset", ref.Handle.String(), "copy", dup.Handle.String())
	return dup.Handle, false, nil
}

// copyRoot duplicates the root. The root is never reused; a taken name is numbered.
func (c *GraphCopier) copyRoot(ctx context.Context, run *copyRun, destFolder, newName string) (domain.AssetHandle, error) {
	folder := NormalizeFolder(destFolder)
	if err := c.folders.EnsureFolderExists(ctx, folder); err != nil {
		return domain.AssetHandle{}, fmt.Errorf("%w: %w", domain.ErrRootCopyFailed, err)
	}

	name := newName
	if _, taken := c.dedup.FindExisting(ctx, folder, name); taken {
		free, err := c.dedup.NextFreeName(ctx, folder, name)
		if err != nil {
			return domain.AssetHandle{}, fmt.Errorf("%w: %w", domain.ErrRootCopyFailed, err)
		}
		name = free
	}

	dup, err := c.store.Duplicate(ctx, run.source, folder, name)
	if err != nil {
		return domain.AssetHandle{}, fmt.Errorf("%w: %s: %w", domain.ErrRootCopyFailed, run.source, err)
	}
	return dup.Handle, nil
}
