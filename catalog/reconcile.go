package catalog

import (
	"context"
	"time"

	"catalog-backend/assets"
	"catalog-backend/logger"

	"go.uber.org/zap"
)

// ImageRefSource lists the image references held by one entity table.
type ImageRefSource interface {
	ImageRefs(ctx context.Context) ([]string, error)
}

// ObjectIndex is the part of the asset gateway the reconciler needs.
type ObjectIndex interface {
	Objects(ctx context.Context) ([]assets.ObjectInfo, error)
	KeyOf(ref string) (string, bool)
	Locator(key string) string
	Delete(ctx context.Context, ref string) error
}

// SweepResult summarises one orphan sweep.
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

// Reconciler removes stored images that no record references.
type Reconciler struct {
	store   ObjectIndex
	sources []ImageRefSource
	grace   time.Duration
	log     *zap.Logger

	now func() time.Time
}

// NewReconciler builds a reconciler. Objects younger than grace are never swept,
// which keeps uploads of in-flight writes safe.
func NewReconciler(store ObjectIndex, grace time.Duration, log *zap.Logger, sources ...ImageRefSource) *Reconciler {
	return &Reconciler{
		store:   store,
		sources: sources,
		grace:   grace,
		log:     named(log, "reconciler"),
		now:     time.Now,
	}
}

// SweepOrphans deletes unreferenced objects older than the grace period. Running it
// twice in a row deletes nothing the second time.
func (r *Reconciler) SweepOrphans(ctx context.Context) (SweepResult, error) {
	referenced := make(map[string]struct{})
	for _, src := range r.sources {
		refs, err := src.ImageRefs(ctx)
		if err != nil {
			return SweepResult{}, err
		}
		for _, ref := range refs {
			if key, ok := r.store.KeyOf(ref); ok {
				referenced[key] = struct{}{}
			}
		}
	}

	objects, err := r.store.Objects(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Scanned: len(objects), Deleted: []string{}, Failed: []string{}}
	cutoff := r.now().Add(-r.grace)
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.Created.After(cutoff) {
			continue
		}
		if err := r.store.Delete(ctx, r.store.Locator(obj.Key)); err != nil {
			r.log.Warn("failed to delete orphaned image", logger.AssetKey(obj.Key), zap.Error(err))
			result.Failed = append(result.Failed, obj.Key)
			continue
		}
		result.Deleted = append(result.Deleted, obj.Key)
	}

	r.log.Info("orphan sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}
