// Package catalog implements create, update and delete for catalog entities and
// keeps each record's image in step with object storage.
//
// Write ordering for images: validate, upload the new image, persist the record,
// then delete the image it replaced. A failed persist leaves the fresh upload
// unreferenced; Reconciler.SweepOrphans removes such objects later.
package catalog

import (
	"context"

	"catalog-backend/apperr"
	"catalog-backend/assets"
	"catalog-backend/logger"
	"catalog-backend/utils"

	"go.uber.org/zap"
)

// Images is the part of the asset gateway the services write through.
type Images interface {
	Upload(ctx context.Context, u assets.Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

var validate = utils.NewValidator()

func validateInput(in interface{}) error {
	if err := validate.Struct(in); err != nil {
		return apperr.Validation(utils.ValidationField(err), utils.SanitizeValidationError(err))
	}
	return nil
}

// imageLifecycle sequences image writes around a single record save.
type imageLifecycle struct {
	images Images
	entity string
	log    *zap.Logger
}

// upload stores img when supplied and returns its locator, or "" when img is nil.
func (l imageLifecycle) upload(ctx context.Context, img *assets.Upload) (string, error) {
	if img == nil {
		return "", nil
	}
	return l.images.Upload(ctx, *img)
}

// abandon records a fresh upload whose record could not be saved.
func (l imageLifecycle) abandon(ref string, saveErr error) {
	if ref == "" {
		return
	}
	l.log.Warn("image left unreferenced after failed save",
		logger.Entity(l.entity), logger.AssetRef(ref), zap.Error(saveErr))
}

// discard deletes a no-longer-referenced image. Failures are logged, not returned.
func (l imageLifecycle) discard(ctx context.Context, id, ref string) {
	if ref == "" {
		return
	}
	if err := l.images.Delete(ctx, ref); err != nil {
		l.log.Warn("failed to delete image",
			logger.Entity(l.entity), logger.EntityID(id), logger.AssetRef(ref), zap.Error(err))
	}
}

// replaced deletes previous once fresh is durably referenced.
func (l imageLifecycle) replaced(ctx context.Context, id, previous, fresh string) {
	if fresh == "" || previous == "" || previous == fresh {
		return
	}
	l.discard(ctx, id, previous)
}

func named(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return logger.Named(name)
	}
	return log.Named(name)
}
