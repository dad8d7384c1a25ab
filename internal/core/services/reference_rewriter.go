package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports"
)

// ReferenceRewriter replaces source references with their copies inside an object
type ReferenceRewriter struct {
	store  ports.ObjectStore
	logger *slog.Logger
}

// NewReferenceRewriter creates a rewriter. A nil logger uses slog.Default().
func NewReferenceRewriter(store ports.ObjectStore, logger *slog.Logger) *ReferenceRewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceRewriter{
		store:  store,
		logger: logger,
	}
}

// Rewrite applies refMap to target. It reports false only when the target could
// not be loaded; a failed save is logged and the in-memory change is kept.
func (r *ReferenceRewriter) Rewrite(ctx context.Context, target domain.AssetHandle, refMap *domain.ReferenceMap) (bool, error) {
	if _, err := r.Apply(ctx, target, refMap); err != nil {
		return false, err
	}
	return true, nil
}

// Apply is Rewrite returning the number of replaced slots
func (r *ReferenceRewriter) Apply(ctx context.Context, target domain.AssetHandle, refMap *domain.ReferenceMap) (int, error) {
	if refMap.Len() == 0 {
		return 0, nil
	}

	obj, err := r.store.Load(ctx, target)
	if err != nil {
		r.logger.Error("failed to load asset for reference rewrite", "asset", target.String(), "error", err)
		return 0, fmt.Errorf("failed to load %s: %w", target, err)
	}

	changed := 0
	for _, visitor := range VisitorsFor(obj.Type) {
		for _, slot := range visitor.Slots(obj) {
			if dest, ok := refMap.Lookup(*slot.Ref); ok && dest != *slot.Ref {
				r.logger.Debug("rewrote reference", "asset", target.String(), "field", slot.Field, "from", slot.Ref.String(), "to", dest.String())
				*slot.Ref = dest
				changed++
			}
		}
	}

	changed += r.sweep(obj, refMap)

	if changed == 0 {
		return 0, nil
	}

	if err := r.store.Persist(ctx, obj); err != nil {
		r.logger.Warn("failed to save rewritten asset", "asset", target.String(), "error", err)
	}
	return changed, nil
}

// sweep catches references the typed visitors do not reach, limited to pairs
// whose endpoints are both loaded
func (r *ReferenceRewriter) sweep(obj *domain.Object, refMap *domain.ReferenceMap) int {
	var live []domain.ReferencePair
	for _, pair := range refMap.Pairs() {
		if r.store.IsLoaded(pair.Source) && r.store.IsLoaded(pair.Dest) {
			live = append(live, pair)
		}
	}
	if len(live) == 0 {
		return 0
	}

	changed := 0
	for _, visitor := range sweepVisitors {
		for _, slot := range visitor.Slots(obj) {
			for _, pair := range live {
				if *slot.Ref == pair.Source {
					r.logger.Debug("replaced remaining reference", "asset", obj.Handle.String(), "field", slot.Field, "to", pair.Dest.String())
					*slot.Ref = pair.Dest
					changed++
					break
				}
			}
		}
	}
	return changed
}
