package assets

import (
	"context"
	"strings"

	"catalog-backend/apperr"
	"catalog-backend/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Gateway validates images, writes them to an ObjectStore and maps between
// locators ("<base>/<key>") and object keys.
type Gateway struct {
	store ObjectStore
	base  string
	log   *zap.Logger

	newID func() string
}

// NewGateway builds a gateway issuing locators under baseURL. A nil log uses the "assets" logger.
func NewGateway(store ObjectStore, baseURL string, log *zap.Logger) *Gateway {
	if log == nil {
		log = logger.Named("assets")
	}
	return &Gateway{
		store: store,
		base:  strings.TrimRight(baseURL, "/"),
		log:   log,
		newID: uuid.NewString,
	}
}

func (g *Gateway) Locator(key string) string {
	return g.base + "/" + key
}

// Owns reports whether ref was issued under this gateway's base.
func (g *Gateway) Owns(ref string) bool {
	_, ok := g.KeyOf(ref)
	return ok
}

// KeyOf extracts the object key from an owned locator. Keys are flat, so a
// locator with anything nested under the base is not owned.
func (g *Gateway) KeyOf(ref string) (string, bool) {
	if !strings.HasPrefix(ref, g.base+"/") {
		return "", false
	}
	key := ref[len(g.base)+1:]
	if key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

// Issued reports whether key has the "<uuid>_<name>" shape put gives new objects.
func Issued(key string) bool {
	id, name, ok := strings.Cut(key, "_")
	if !ok || name == "" || strings.Contains(key, "/") {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Upload validates and stores the image under a fresh key and returns its locator.
// Nothing is written when validation fails.
func (g *Gateway) Upload(ctx context.Context, u Upload) (string, error) {
	if err := Validate(u); err != nil {
		return "", err
	}
	return g.put(ctx, u)
}

func (g *Gateway) put(ctx context.Context, u Upload) (string, error) {
	key := g.newID() + "_" + keyName(u.Filename)
	if err := g.store.PutObject(ctx, key, u.Data, contentType(u)); err != nil {
		return "", apperr.Storage("put", key, err)
	}
	g.log.Debug("asset stored", logger.AssetKey(key), zap.Int("bytes", len(u.Data)))
	return g.Locator(key), nil
}

// Delete removes the object behind ref. Empty or foreign refs are ignored and
// an already missing object counts as deleted.
func (g *Gateway) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	key, ok := g.KeyOf(ref)
	if !ok {
		g.log.Debug("skipping delete of foreign asset", logger.AssetRef(ref))
		return nil
	}
	err := g.store.DeleteObject(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Storage("delete", key, err)
	}
	g.log.Debug("asset deleted", logger.AssetKey(key))
	return nil
}

// Replace validates the new image, then deletes oldRef, then uploads.
// A rejected image leaves oldRef untouched, but a failed upload loses it.
// Record-backed writes go through the catalog services instead, which upload,
// persist, and only then delete the old image.
func (g *Gateway) Replace(ctx context.Context, oldRef string, u Upload) (string, error) {
	if err := Validate(u); err != nil {
		return "", err
	}
	if err := g.Delete(ctx, oldRef); err != nil {
		return "", err
	}
	return g.put(ctx, u)
}

// Fetch reads the image behind an owned ref.
func (g *Gateway) Fetch(ctx context.Context, ref string) ([]byte, error) {
	key, ok := g.KeyOf(ref)
	if !ok {
		return nil, apperr.NotFound("asset", ref)
	}
	data, err := g.store.GetObject(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, apperr.NotFound("asset", ref)
	}
	if err != nil {
		return nil, apperr.Storage("get", key, err)
	}
	return data, nil
}

// Objects lists the objects this gateway issued. Anything else sharing the
// store, nested keys included, is left out.
func (g *Gateway) Objects(ctx context.Context) ([]ObjectInfo, error) {
	objs, err := g.store.ListObjects(ctx)
	if err != nil {
		return nil, apperr.Storage("list", "", err)
	}
	out := objs[:0]
	for _, obj := range objs {
		if Issued(obj.Key) {
			out = append(out, obj)
			continue
		}
		g.log.Debug("ignoring foreign object", logger.AssetKey(obj.Key))
	}
	return out, nil
}
