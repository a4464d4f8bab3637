package catalog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"catalog-backend/assets"
	"catalog-backend/database"
	"catalog-backend/models"
	"catalog-backend/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testBase = "https://storage.googleapis.com/test-bucket"

func init() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

type fixture struct {
	db            *gorm.DB
	store         *assets.MemoryStore
	gateway       *assets.Gateway
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	products      repository.ProductRepository
	users         repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	store := assets.NewMemoryStore()
	return &fixture{
		db:            db,
		store:         store,
		gateway:       assets.NewGateway(store, testBase, zap.NewNop()),
		categories:    repository.NewCategoryRepository(db),
		subcategories: repository.NewSubcategoryRepository(db),
		products:      repository.NewProductRepository(db),
		users:         repository.NewUserRepository(db),
	}
}

func (f *fixture) categoryService() *CategoryService {
	return NewCategoryService(f.categories, f.gateway, zap.NewNop())
}

func (f *fixture) subcategoryService() *SubcategoryService {
	return NewSubcategoryService(f.subcategories, f.categories, f.gateway, zap.NewNop())
}

func (f *fixture) productService() *ProductService {
	return NewProductService(f.products, f.subcategories, f.gateway, zap.NewNop())
}

// seedSubcategory stores a category and a subcategory named name under it.
func (f *fixture) seedSubcategory(t *testing.T, name string) *models.Subcategory {
	t.Helper()
	ctx := context.Background()
	cat := &models.Category{Name: "cat-" + name}
	require.NoError(t, f.categories.Save(ctx, cat))
	sub := &models.Subcategory{Name: name, CategoryID: cat.ID}
	require.NoError(t, f.subcategories.Save(ctx, sub))
	return sub
}

func pngUpload(t *testing.T, filename string) *assets.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &assets.Upload{Data: buf.Bytes(), Filename: filename}
}

func jpegUpload(t *testing.T, filename string) *assets.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return &assets.Upload{Data: buf.Bytes(), Filename: filename}
}

// failingImages rejects deletes and counts them.
type failingImages struct {
	Images
	deletes int
}

func (f *failingImages) Delete(ctx context.Context, ref string) error {
	f.deletes++
	return errors.New("storage offline")
}

// failingProducts refuses every save.
type failingProducts struct {
	repository.ProductRepository
}

func (failingProducts) Save(ctx context.Context, p *models.Product) error {
	return errors.New("database unavailable")
}
