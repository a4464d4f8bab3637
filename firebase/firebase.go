// Package firebase backs the asset gateway with a Cloud Storage bucket
// reached through the Firebase Admin SDK.
package firebase

import (
	"context"
	"io"
	"strings"

	"catalog-backend/assets"
	"catalog-backend/logger"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// clientOptions turns GOOGLE_APPLICATION_CREDENTIALS into client options. The value may
// hold the credentials JSON itself or a path to it; empty falls back to default credentials.
func clientOptions(credentials string) ([]option.ClientOption, string) {
	switch {
	case credentials == "":
		return nil, "default"
	case strings.HasPrefix(strings.TrimSpace(credentials), "{"):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentials))}, "env"
	default:
		return []option.ClientOption{option.WithCredentialsFile(credentials)}, "file"
	}
}

// NewApp initialises the Firebase app.
func NewApp(ctx context.Context, credentials string) (*firebase.App, error) {
	log := logger.Named("firebase")
	opts, source := clientOptions(credentials)
	if source == "default" {
		log.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	} else {
		log.Info("using firebase credentials", zap.String("source", source))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "firebase init")
	}
	log.Info("firebase initialized")
	return app, nil
}

// Store is an assets.ObjectStore over one bucket. Objects are made publicly
// readable so locators resolve without authentication.
type Store struct {
	bucket *storage.BucketHandle
	name   string
	log    *zap.Logger
}

func NewStore(ctx context.Context, app *firebase.App, bucketName string) (*Store, error) {
	if bucketName == "" {
		return nil, errors.New("asset bucket not configured")
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "storage client")
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, errors.Wrapf(err, "bucket %s", bucketName)
	}
	return &Store{bucket: bucket, name: bucketName, log: logger.Named("firebase")}, nil
}

func (s *Store) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	obj := s.bucket.Object(key)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return errors.Wrapf(err, "write %s", key)
	}
	if err := wc.Close(); err != nil {
		return errors.Wrapf(err, "finalize %s", key)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		s.log.Warn("failed to set public ACL", logger.AssetKey(key), zap.Error(err))
	}
	return nil
}

func (s *Store) DeleteObject(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil {
		return translate(err, "delete", key)
	}
	s.log.Info("deleted object", logger.AssetKey(key), zap.String("bucket", s.name))
	return nil
}

func (s *Store) GetObject(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, translate(err, "read", key)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", key)
	}
	return data, nil
}

func (s *Store) ListObjects(ctx context.Context) ([]assets.ObjectInfo, error) {
	var out []assets.ObjectInfo
	// Keys are flat; the delimiter stops the listing from descending into folders.
	it := s.bucket.Objects(ctx, &storage.Query{Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "list bucket %s", s.name)
		}
		if attrs.Prefix != "" {
			continue
		}
		out = append(out, assets.ObjectInfo{Key: attrs.Name, Created: attrs.Created})
	}
	return out, nil
}

// translate maps a missing object onto assets.ErrObjectNotFound.
func translate(err error, op, key string) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return errors.WithMessagef(assets.ErrObjectNotFound, "%s %s", op, key)
	}
	return errors.Wrapf(err, "%s %s", op, key)
}
