package repository

import (
	"context"

	"catalog-backend/models"
	"catalog-backend/query"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository interface {
	List(ctx context.Context, req query.PageRequest) ([]models.User, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUsername(ctx context.Context, username string) error
}

type userRepository struct {
	store[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{store[models.User]{db: db, entity: "user"}}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, username, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, email, "email = ?", email)
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error) {
	return r.exists(ctx, "username = ? AND id <> ?", username, except)
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	return r.exists(ctx, "email = ? AND id <> ?", email, except)
}

func (r *userRepository) DeleteByUsername(ctx context.Context, username string) error {
	u, err := r.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := r.Delete(ctx, u.ID); err != nil {
		return errors.WithMessagef(err, "delete user %s", username)
	}
	return nil
}
