package catalog

import (
	"context"
	"math"
	"testing"

	"catalog-backend/apperr"
	"catalog-backend/assets"
	"catalog-backend/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 { return &v }

func TestProductCreateLinksSubcategoryByName(t *testing.T) {
	f := newFixture(t)
	sub := f.seedSubcategory(t, "Sneakers")

	p, err := f.productService().Create(context.Background(), ProductInput{
		Name:            "Runner",
		Price:           59.99,
		Brand:           "Acme",
		Rating:          floatPtr(4.5),
		Quantity:        3,
		SubcategoryName: "Sneakers",
		Image:           jpegUpload(t, "runner.jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, p.SubcategoryID)
	assert.Equal(t, sub.ID, *p.SubcategoryID)
	assert.Equal(t, "Sneakers", p.SubcategoryName())
	assert.True(t, f.gateway.Owns(p.Image))
}

func TestProductCreateUnknownSubcategoryPersistsNothing(t *testing.T) {
	f := newFixture(t)
	svc := f.productService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{
		Name:            "Runner",
		Price:           10,
		SubcategoryName: "Missing",
		Image:           pngUpload(t, "r.png"),
	})
	assert.True(t, apperr.IsNotFound(err))

	page, err := svc.List(ctx, query.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, 0, f.store.Len())
}

func TestProductCreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()

	tests := []struct {
		name string
		in   ProductInput
	}{
		{"missing name", ProductInput{Price: 1, SubcategoryName: "Sneakers"}},
		{"negative price", ProductInput{Name: "x", Price: -1, SubcategoryName: "Sneakers"}},
		{"negative quantity", ProductInput{Name: "x", Quantity: -2, SubcategoryName: "Sneakers"}},
		{"missing subcategory", ProductInput{Name: "x", Price: 1}},
		{"infinite price", ProductInput{Name: "x", Price: math.Inf(1), SubcategoryName: "Sneakers"}},
		{"nan price", ProductInput{Name: "x", Price: math.NaN(), SubcategoryName: "Sneakers"}},
		{"infinite rating", ProductInput{Name: "x", Price: 1, Rating: floatPtr(math.Inf(1)), SubcategoryName: "Sneakers"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
}

func TestProductPriceOnlyPatchLeavesOtherFields(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{
		Name:            "Runner",
		Price:           59.99,
		Description:     "Light shoe",
		Brand:           "Acme",
		Rating:          floatPtr(4),
		Quantity:        7,
		SubcategoryName: "Sneakers",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{Price: Some(49.5)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 49.5, got.Price)
	assert.Equal(t, "Runner", got.Name)
	assert.Equal(t, "Light shoe", got.Description)
	assert.Equal(t, "Acme", got.Brand)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4.0, *got.Rating)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, "Sneakers", got.SubcategoryName())
}

func TestProductPatchAppliesZeroValues(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, Quantity: 4, SubcategoryName: "Sneakers"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{Price: Some(0.0), Quantity: Some(0)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, 0, got.Quantity)
}

func TestProductPatchMovesSubcategory(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	boots := f.seedSubcategory(t, "Boots")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{SubcategoryName: Some("Boots")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, boots.ID, *got.SubcategoryID)
	assert.Equal(t, "Boots", got.SubcategoryName())
}

func TestProductPatchUnknownSubcategory(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{Price: Some(1.0), SubcategoryName: Some("Missing")})
	assert.True(t, apperr.IsNotFound(err))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Price)
}

func TestProductPatchRejectsNegativePrice(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{Price: Some(-5.0)})
	assert.True(t, apperr.IsValidation(err))
}

func TestProductPatchRejectsNonFinite(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers"})
	require.NoError(t, err)

	for _, patch := range []ProductPatch{
		{Price: Some(math.Inf(1))},
		{Price: Some(math.NaN())},
		{Rating: Some(math.Inf(-1))},
	} {
		_, err = svc.Update(ctx, p.ID, patch)
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Price)
	assert.Nil(t, got.Rating)
}

func TestProductPatchEmptySubcategoryIsValidation(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{SubcategoryName: Some("")})
	assert.True(t, apperr.IsValidation(err), "got %v", err)
}

func TestProductUpdateReplacesImageAfterSave(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers", Image: jpegUpload(t, "a.jpg")})
	require.NoError(t, err)
	old := p.Image

	updated, err := svc.Update(ctx, p.ID, ProductPatch{Image: pngUpload(t, "b.png")})
	require.NoError(t, err)

	_, err = f.gateway.Fetch(ctx, old)
	assert.True(t, apperr.IsNotFound(err))
	_, err = f.gateway.Fetch(ctx, updated.Image)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.store.Len())
}

func TestProductUpdateInvalidImageKeepsOld(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers", Image: jpegUpload(t, "a.jpg")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, ProductPatch{Name: Some("Sprinter"), Image: &assets.Upload{Data: []byte("x"), Filename: "b.png"}})
	assert.True(t, apperr.IsValidation(err))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Runner", got.Name)
	assert.Equal(t, p.Image, got.Image)
	_, err = f.gateway.Fetch(ctx, p.Image)
	assert.NoError(t, err)
}

func TestProductFailedSaveKeepsOldImageAndLeavesOrphan(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	ctx := context.Background()

	p, err := f.productService().Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers", Image: jpegUpload(t, "a.jpg")})
	require.NoError(t, err)

	broken := NewProductService(failingProducts{f.products}, f.subcategories, f.gateway, zap.NewNop())
	_, err = broken.Update(ctx, p.ID, ProductPatch{Image: pngUpload(t, "b.png")})
	require.Error(t, err)

	// The stored record still points at the old image, which still exists.
	got, err := f.productService().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Image, got.Image)
	_, err = f.gateway.Fetch(ctx, p.Image)
	assert.NoError(t, err)

	// The fresh upload is unreferenced until a sweep removes it.
	assert.Equal(t, 2, f.store.Len())
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	svc := f.productService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers", Image: pngUpload(t, "a.png")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, f.store.Len())

	assert.True(t, apperr.IsNotFound(svc.Delete(ctx, uuid.New())))
}

func TestOptionalApply(t *testing.T) {
	v := 3
	Optional[int]{}.Apply(&v)
	assert.Equal(t, 3, v)
	Some(0).Apply(&v)
	assert.Equal(t, 0, v)
}
