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

type SubcategoryInput struct {
	Name        string `validate:"required,max=255"`
	Description string `validate:"max=5000"`
	CategoryID  uuid.UUID
	Image       *assets.Upload
}

type SubcategoryService struct {
	repo       repository.SubcategoryRepository
	categories repository.CategoryRepository
	images     imageLifecycle
	log        *zap.Logger
}

func NewSubcategoryService(repo repository.SubcategoryRepository, categories repository.CategoryRepository, images Images, log *zap.Logger) *SubcategoryService {
	log = named(log, "subcategory")
	return &SubcategoryService{
		repo:       repo,
		categories: categories,
		images:     imageLifecycle{images: images, entity: "subcategory", log: log},
		log:        log,
	}
}

func (s *SubcategoryService) List(ctx context.Context, req query.PageRequest) (query.Page[models.Subcategory], error) {
	req = req.Normalize()
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return query.Page[models.Subcategory]{}, err
	}
	return query.NewPage(items, req, total), nil
}

func (s *SubcategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SubcategoryService) Create(ctx context.Context, in SubcategoryInput) (*models.Subcategory, error) {
	if err := s.check(ctx, in, uuid.Nil); err != nil {
		return nil, err
	}

	ref, err := s.images.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	sub := &models.Subcategory{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Image:       ref,
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		s.images.abandon(ref, err)
		return nil, err
	}

	s.log.Info("subcategory created", logger.EntityID(sub.ID.String()), zap.String("name", sub.Name))
	return s.reload(ctx, sub)
}

func (s *SubcategoryService) Update(ctx context.Context, id uuid.UUID, in SubcategoryInput) (*models.Subcategory, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, in, id); err != nil {
		return nil, err
	}

	fresh, err := s.images.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	previous := sub.Image
	sub.Name = in.Name
	sub.Description = in.Description
	sub.CategoryID = in.CategoryID
	if fresh != "" {
		sub.Image = fresh
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		s.images.abandon(fresh, err)
		return nil, err
	}
	s.images.replaced(ctx, id.String(), previous, fresh)

	s.log.Info("subcategory updated", logger.EntityID(id.String()))
	return s.reload(ctx, sub)
}

// Delete removes the subcategory, then its image. Products keep their link.
func (s *SubcategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.discard(ctx, id.String(), sub.Image)

	s.log.Info("subcategory deleted", logger.EntityID(id.String()))
	return nil
}

// check validates input, resolves the parent category and enforces a unique name.
func (s *SubcategoryService) check(ctx context.Context, in SubcategoryInput, self uuid.UUID) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if in.CategoryID == uuid.Nil {
		return apperr.Validation("category_id", "category_id is required")
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return err
	}
	taken, err := s.repo.NameTaken(ctx, in.Name, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("subcategory", "name", in.Name)
	}
	return nil
}

// reload returns the saved row with its category attached.
func (s *SubcategoryService) reload(ctx context.Context, sub *models.Subcategory) (*models.Subcategory, error) {
	fresh, err := s.repo.FindByID(ctx, sub.ID)
	if err != nil {
		return sub, nil
	}
	return fresh, nil
}
