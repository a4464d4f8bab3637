// Package assets stores catalog images in object storage and hands back
// public locators that entities keep as their image reference.
package assets

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by an ObjectStore when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key     string
	Created time.Time
}

// ObjectStore is the blob boundary. Keys are flat names without slashes.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context) ([]ObjectInfo, error)
}
