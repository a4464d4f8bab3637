package catalog

import (
	"context"

	"catalog-backend/apperr"
	"catalog-backend/assets"
	"catalog-backend/logger"
	"catalog-backend/models"
	"catalog-backend/query"
	"catalog-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryInput carries the full state of a category write. Image is optional;
// on update a nil Image keeps the current one.
type CategoryInput struct {
	Name        string `validate:"required,max=255"`
	Description string `validate:"max=5000"`
	Image       *assets.Upload
}

type CategoryService struct {
	repo   repository.CategoryRepository
	images imageLifecycle
	log    *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, images Images, log *zap.Logger) *CategoryService {
	log = named(log, "category")
	return &CategoryService{
		repo:   repo,
		images: imageLifecycle{images: images, entity: "category", log: log},
		log:    log,
	}
}

func (s *CategoryService) List(ctx context.Context, req query.PageRequest) (query.Page[models.Category], error) {
	req = req.Normalize()
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return query.Page[models.Category]{}, err
	}
	return query.NewPage(items, req, total), nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, in.Name, uuid.Nil); err != nil {
		return nil, err
	}

	ref, err := s.images.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	cat := &models.Category{Name: in.Name, Description: in.Description, Image: ref}
	if err := s.repo.Save(ctx, cat); err != nil {
		s.images.abandon(ref, err)
		return nil, err
	}

	s.log.Info("category created", logger.EntityID(cat.ID.String()), zap.String("name", cat.Name))
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, in.Name, id); err != nil {
		return nil, err
	}

	fresh, err := s.images.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	previous := cat.Image
	cat.Name = in.Name
	cat.Description = in.Description
	if fresh != "" {
		cat.Image = fresh
	}
	if err := s.repo.Save(ctx, cat); err != nil {
		s.images.abandon(fresh, err)
		return nil, err
	}
	s.images.replaced(ctx, id.String(), previous, fresh)

	s.log.Info("category updated", logger.EntityID(id.String()))
	return cat, nil
}

// Delete removes the category, then its image. Subcategories keep their link.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.discard(ctx, id.String(), cat.Image)

	s.log.Info("category deleted", logger.EntityID(id.String()))
	return nil
}

func (s *CategoryService) checkName(ctx context.Context, name string, self uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("category", "name", name)
	}
	return nil
}
