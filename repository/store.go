// Package repository persists catalog records through gorm.
//
// Lookups that miss return *apperr.NotFoundError; unique index violations
// surface as *apperr.ConflictError. Anything else is wrapped with the operation.
package repository

import (
	"context"

	"catalog-backend/apperr"
	"catalog-backend/query"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store holds the CRUD shared by every table. T is a models struct keyed by a uuid "id".
type store[T any] struct {
	db      *gorm.DB
	entity  string
	preload []string
}

func (s store[T]) read(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, rel := range s.preload {
		q = q.Preload(rel)
	}
	return q
}

func (s store[T]) page(ctx context.Context, req query.PageRequest, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	req = req.Normalize()

	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrapf(err, "count %s", s.entity)
	}

	items := make([]T, 0, req.Size)
	err := s.read(ctx).
		Scopes(scopes...).
		Order("created_at, id").
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, errors.Wrapf(err, "list %s", s.entity)
	}
	return items, total, nil
}

// List returns one page of records in insertion order.
func (s store[T]) List(ctx context.Context, req query.PageRequest) ([]T, int64, error) {
	return s.page(ctx, req)
}

func (s store[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.first(ctx, id.String(), "id = ?", id)
}

func (s store[T]) first(ctx context.Context, key string, cond string, args ...interface{}) (*T, error) {
	var out T
	err := s.read(ctx).Where(cond, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(s.entity, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find %s %s", s.entity, key)
	}
	return &out, nil
}

func (s store[T]) exists(ctx context.Context, cond string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where(cond, args...).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "count %s", s.entity)
	}
	return count > 0, nil
}

// Save inserts or updates the row. Loaded associations are never written back,
// so a stale preloaded parent cannot overwrite the foreign key.
func (s store[T]) Save(ctx context.Context, rec *T) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(s.entity, "unique field", "")
	}
	return errors.Wrapf(err, "save %s", s.entity)
}

// Delete removes the row by id. Dependents are left untouched.
func (s store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete %s %s", s.entity, id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.entity, id.String())
	}
	return nil
}

// ImageRefs lists every non-empty image reference in the table.
func (s store[T]) ImageRefs(ctx context.Context) ([]string, error) {
	var refs []string
	err := s.db.WithContext(ctx).Model(new(T)).Where("image <> ''").Pluck("image", &refs).Error
	if err != nil {
		return nil, errors.Wrapf(err, "collect %s images", s.entity)
	}
	return refs, nil
}
