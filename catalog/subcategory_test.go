package catalog

import (
	"context"
	"testing"

	"catalog-backend/apperr"
	"catalog-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcategoryCreateLoadsCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := &models.Category{Name: "Shoes"}
	require.NoError(t, f.categories.Save(ctx, cat))

	sub, err := f.subcategoryService().Create(ctx, SubcategoryInput{
		Name:       "Sneakers",
		CategoryID: cat.ID,
		Image:      pngUpload(t, "sneakers.png"),
	})
	require.NoError(t, err)
	require.NotNil(t, sub.Category)
	assert.Equal(t, "Shoes", sub.Category.Name)
	assert.Equal(t, 1, f.store.Len())
}

func TestSubcategoryCreateUnknownCategoryUploadsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.subcategoryService().Create(context.Background(), SubcategoryInput{
		Name:       "Orphans",
		CategoryID: uuid.New(),
		Image:      pngUpload(t, "x.png"),
	})
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, f.store.Len())
}

func TestSubcategoryCreateRequiresCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.subcategoryService().Create(context.Background(), SubcategoryInput{Name: "Loose"})
	assert.True(t, apperr.IsValidation(err))
}

func TestSubcategoryDuplicateName(t *testing.T) {
	f := newFixture(t)
	existing := f.seedSubcategory(t, "Sneakers")

	_, err := f.subcategoryService().Create(context.Background(), SubcategoryInput{
		Name:       "Sneakers",
		CategoryID: existing.CategoryID,
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestSubcategoryUpdateMovesAndReplacesImage(t *testing.T) {
	f := newFixture(t)
	svc := f.subcategoryService()
	ctx := context.Background()

	sub := f.seedSubcategory(t, "Sneakers")
	other := &models.Category{Name: "Sport"}
	require.NoError(t, f.categories.Save(ctx, other))

	first, err := svc.Update(ctx, sub.ID, SubcategoryInput{Name: "Sneakers", CategoryID: sub.CategoryID, Image: jpegUpload(t, "a.jpg")})
	require.NoError(t, err)

	moved, err := svc.Update(ctx, sub.ID, SubcategoryInput{Name: "Trainers", CategoryID: other.ID, Image: pngUpload(t, "b.png")})
	require.NoError(t, err)
	assert.Equal(t, "Trainers", moved.Name)
	assert.Equal(t, other.ID, moved.CategoryID)
	require.NotNil(t, moved.Category)
	assert.Equal(t, "Sport", moved.Category.Name)

	_, err = f.gateway.Fetch(ctx, first.Image)
	assert.True(t, apperr.IsNotFound(err), "previous image should be deleted")
	assert.Equal(t, 1, f.store.Len())
}

func TestSubcategoryDeleteLeavesProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.seedSubcategory(t, "Sneakers")
	p := &models.Product{Name: "Runner", SubcategoryID: &sub.ID}
	require.NoError(t, f.products.Save(ctx, p))

	require.NoError(t, f.subcategoryService().Delete(ctx, sub.ID))

	got, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, *got.SubcategoryID)
	assert.Empty(t, got.SubcategoryName())

	err = f.subcategoryService().Delete(ctx, sub.ID)
	assert.True(t, apperr.IsNotFound(err))
}
