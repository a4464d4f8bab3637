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

type ProductInput struct {
	Name            string   `validate:"required,max=255"`
	Price           float64  `validate:"finite,gte=0"`
	Description     string   `validate:"max=5000"`
	Brand           string   `validate:"max=255"`
	Rating          *float64 `validate:"omitempty,finite,gte=0"`
	Quantity        int      `validate:"gte=0"`
	SubcategoryName string   `validate:"required"`
	Image           *assets.Upload
}

// ProductPatch is a field-level merge: only fields marked Set are written.
type ProductPatch struct {
	Name            Optional[string]
	Price           Optional[float64]
	Description     Optional[string]
	Brand           Optional[string]
	Rating          Optional[float64]
	Quantity        Optional[int]
	SubcategoryName Optional[string]
	Image           *assets.Upload
}

func (p ProductPatch) validate() error {
	checks := []struct {
		field string
		set   bool
		value interface{}
		tag   string
	}{
		{"name", p.Name.Set, p.Name.Value, "required,max=255"},
		{"price", p.Price.Set, p.Price.Value, "finite,gte=0"},
		{"description", p.Description.Set, p.Description.Value, "max=5000"},
		{"brand", p.Brand.Set, p.Brand.Value, "max=255"},
		{"rating", p.Rating.Set, p.Rating.Value, "finite,gte=0"},
		{"quantity", p.Quantity.Set, p.Quantity.Value, "gte=0"},
		{"subcategory_name", p.SubcategoryName.Set, p.SubcategoryName.Value, "required"},
	}
	for _, c := range checks {
		if !c.set {
			continue
		}
		if err := validate.Var(c.value, c.tag); err != nil {
			return apperr.Validation(c.field, "invalid "+c.field+" ("+c.tag+")")
		}
	}
	return nil
}

type ProductService struct {
	repo          repository.ProductRepository
	subcategories repository.SubcategoryRepository
	images        imageLifecycle
	log           *zap.Logger
}

func NewProductService(repo repository.ProductRepository, subcategories repository.SubcategoryRepository, images Images, log *zap.Logger) *ProductService {
	log = named(log, "product")
	return &ProductService{
		repo:          repo,
		subcategories: subcategories,
		images:        imageLifecycle{images: images, entity: "product", log: log},
		log:           log,
	}
}

func (s *ProductService) List(ctx context.Context, req query.PageRequest) (query.Page[models.Product], error) {
	req = req.Normalize()
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return query.Page[models.Product]{}, err
	}
	return query.NewPage(items, req, total), nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create persists a product linked to an existing subcategory, looked up by name.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	sub, err := s.subcategories.FindByName(ctx, in.SubcategoryName)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:          in.Name,
		Price:         in.Price,
		Description:   in.Description,
		Brand:         in.Brand,
		Image:         ref,
		Rating:        in.Rating,
		Quantity:      in.Quantity,
		SubcategoryID: &sub.ID,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		s.images.abandon(ref, err)
		return nil, err
	}
	p.Subcategory = sub

	s.log.Info("product created", logger.EntityID(p.ID.String()), zap.String("name", p.Name))
	return p, nil
}

// Update merges the supplied fields into the stored product.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patch.validate(); err != nil {
		return nil, err
	}
	var sub *models.Subcategory
	if patch.SubcategoryName.Set {
		if sub, err = s.subcategories.FindByName(ctx, patch.SubcategoryName.Value); err != nil {
			return nil, err
		}
	}

	fresh, err := s.images.upload(ctx, patch.Image)
	if err != nil {
		return nil, err
	}

	previous := p.Image
	patch.Name.Apply(&p.Name)
	patch.Price.Apply(&p.Price)
	patch.Description.Apply(&p.Description)
	patch.Brand.Apply(&p.Brand)
	patch.Quantity.Apply(&p.Quantity)
	if patch.Rating.Set {
		rating := patch.Rating.Value
		p.Rating = &rating
	}
	if sub != nil {
		p.SubcategoryID = &sub.ID
		p.Subcategory = sub
	}
	if fresh != "" {
		p.Image = fresh
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.images.abandon(fresh, err)
		return nil, err
	}
	s.images.replaced(ctx, id.String(), previous, fresh)

	s.log.Info("product updated", logger.EntityID(id.String()))
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.discard(ctx, id.String(), p.Image)

	s.log.Info("product deleted", logger.EntityID(id.String()))
	return nil
}
