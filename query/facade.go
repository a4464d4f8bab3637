package query

import (
	"context"

	"catalog-backend/models"

	"github.com/google/uuid"
)

type CategoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type SubcategoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error)
}

type ProductReader interface {
	ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID, req PageRequest) ([]models.Product, int64, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
}

// Facade serves relational reads. Readers report unknown ids as *apperr.NotFoundError.
type Facade struct {
	Categories    CategoryReader
	Subcategories SubcategoryReader
	Products      ProductReader
}

func NewFacade(categories CategoryReader, subcategories SubcategoryReader, products ProductReader) *Facade {
	return &Facade{Categories: categories, Subcategories: subcategories, Products: products}
}

func (f *Facade) CategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return f.Categories.FindByID(ctx, id)
}

func (f *Facade) SubcategoryByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	return f.Subcategories.FindByID(ctx, id)
}

// ProductsBySubcategory pages the products linked to a subcategory, which must exist.
func (f *Facade) ProductsBySubcategory(ctx context.Context, subcategoryID uuid.UUID, req PageRequest) (Page[models.Product], error) {
	if _, err := f.Subcategories.FindByID(ctx, subcategoryID); err != nil {
		return Page[models.Product]{}, err
	}
	req = req.Normalize()
	items, total, err := f.Products.ListBySubcategory(ctx, subcategoryID, req)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return NewPage(items, req, total), nil
}

// SearchProducts matches keyword case-insensitively against name, description and brand.
// Results are unpaged.
func (f *Facade) SearchProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	products, err := f.Products.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
