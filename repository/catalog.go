package repository

import (
	"context"
	"strings"

	"catalog-backend/models"
	"catalog-backend/query"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	List(ctx context.Context, req query.PageRequest) ([]models.Category, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error)
	Save(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ImageRefs(ctx context.Context) ([]string, error)
}

type SubcategoryRepository interface {
	List(ctx context.Context, req query.PageRequest) ([]models.Subcategory, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error)
	FindByName(ctx context.Context, name string) (*models.Subcategory, error)
	NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error)
	Save(ctx context.Context, s *models.Subcategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	ImageRefs(ctx context.Context) ([]string, error)
}

type ProductRepository interface {
	List(ctx context.Context, req query.PageRequest) ([]models.Product, int64, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID, req query.PageRequest) ([]models.Product, int64, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ImageRefs(ctx context.Context) ([]string, error)
}

type categoryRepository struct {
	store[models.Category]
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{store[models.Category]{db: db, entity: "category"}}
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.first(ctx, name, "name = ?", name)
}

func (r *categoryRepository) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	return r.exists(ctx, "name = ? AND id <> ?", name, except)
}

type subcategoryRepository struct {
	store[models.Subcategory]
}

func NewSubcategoryRepository(db *gorm.DB) SubcategoryRepository {
	return &subcategoryRepository{store[models.Subcategory]{db: db, entity: "subcategory", preload: []string{"Category"}}}
}

func (r *subcategoryRepository) FindByName(ctx context.Context, name string) (*models.Subcategory, error) {
	return r.first(ctx, name, "name = ?", name)
}

func (r *subcategoryRepository) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	return r.exists(ctx, "name = ? AND id <> ?", name, except)
}

type productRepository struct {
	store[models.Product]
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{store[models.Product]{db: db, entity: "product", preload: []string{"Subcategory"}}}
}

// FindAll loads every product with its subcategory, in insertion order.
func (r *productRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.read(ctx).Order("created_at, id").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list all products")
	}
	return products, nil
}

func (r *productRepository) ListBySubcategory(ctx context.Context, subcategoryID uuid.UUID, req query.PageRequest) ([]models.Product, int64, error) {
	return r.page(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("subcategory_id = ?", subcategoryID)
	})
}

// Search matches keyword case-insensitively against name, description and brand.
// An empty keyword matches every product.
func (r *productRepository) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"

	products := []models.Product{}
	err := r.read(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(brand) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern).
		Order("created_at, id").
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrapf(err, "search products %q", keyword)
	}
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
