package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (f *fixture) reconciler(grace time.Duration) *Reconciler {
	return NewReconciler(f.gateway, grace, zap.NewNop(), f.categories, f.subcategories, f.products)
}

func TestSweepRemovesOrphanLeftByFailedSave(t *testing.T) {
	f := newFixture(t)
	f.seedSubcategory(t, "Sneakers")
	ctx := context.Background()

	p, err := f.productService().Create(ctx, ProductInput{Name: "Runner", Price: 20, SubcategoryName: "Sneakers", Image: jpegUpload(t, "a.jpg")})
	require.NoError(t, err)

	broken := NewProductService(failingProducts{f.products}, f.subcategories, f.gateway, zap.NewNop())
	_, err = broken.Create(ctx, ProductInput{Name: "Ghost", Price: 1, SubcategoryName: "Sneakers", Image: pngUpload(t, "ghost.png")})
	require.Error(t, err)
	require.Equal(t, 2, f.store.Len())

	r := f.reconciler(time.Minute)
	r.now = func() time.Time { return time.Now().Add(time.Hour) }

	res, err := r.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	require.Len(t, res.Deleted, 1)
	assert.Contains(t, res.Deleted[0], "ghost.png")

	_, err = f.gateway.Fetch(ctx, p.Image)
	assert.NoError(t, err)

	again, err := r.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Deleted)
}

func TestSweepSparesRecentObjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gateway.Upload(ctx, *pngUpload(t, "inflight.png"))
	require.NoError(t, err)

	res, err := f.reconciler(time.Hour).SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Deleted)
	assert.Equal(t, 1, f.store.Len())
}

func TestSweepKeepsEveryReferencedImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat, err := f.categoryService().Create(ctx, CategoryInput{Name: "Shoes", Image: pngUpload(t, "c.png")})
	require.NoError(t, err)
	_, err = f.subcategoryService().Create(ctx, SubcategoryInput{Name: "Sneakers", CategoryID: cat.ID, Image: pngUpload(t, "s.png")})
	require.NoError(t, err)
	_, err = f.productService().Create(ctx, ProductInput{Name: "Runner", Price: 1, SubcategoryName: "Sneakers", Image: jpegUpload(t, "p.jpg")})
	require.NoError(t, err)

	r := f.reconciler(0)
	r.now = func() time.Time { return time.Now().Add(time.Hour) }

	res, err := r.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Empty(t, res.Deleted)
	assert.Equal(t, 3, f.store.Len())
}

func TestSweepLeavesForeignObjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	require.NoError(t, f.store.PutObject(ctx, "firebase-backup.json", []byte("{}"), "application/json"))
	require.NoError(t, f.store.PutObject(ctx, "banners/hero.png", []byte("png"), "image/png"))
	orphan, err := f.gateway.Upload(ctx, *pngUpload(t, "orphan.png"))
	require.NoError(t, err)

	res, err := f.reconciler(time.Hour).SweepOrphans(ctx)
	require.NoError(t, err)

	key, _ := f.gateway.KeyOf(orphan)
	assert.Equal(t, []string{key}, res.Deleted)
	assert.Equal(t, 1, res.Scanned)
	assert.Equal(t, 2, f.store.Len())

	_, err = f.store.GetObject(ctx, "banners/hero.png")
	assert.NoError(t, err)
	_, err = f.store.GetObject(ctx, "firebase-backup.json")
	assert.NoError(t, err)
}
