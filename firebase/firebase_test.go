package firebase

import (
	"context"
	"errors"
	"testing"

	"catalog-backend/assets"

	"cloud.google.com/go/storage"
)

var _ assets.ObjectStore = (*Store)(nil)

func TestClientOptionsDefault(t *testing.T) {
	opts, source := clientOptions("")
	if source != "default" {
		t.Errorf("expected source 'default', got '%s'", source)
	}
	if len(opts) != 0 {
		t.Errorf("expected no options, got %d", len(opts))
	}
}

func TestClientOptionsJSON(t *testing.T) {
	opts, source := clientOptions(`  {"type":"service_account"}`)
	if source != "env" {
		t.Errorf("expected source 'env', got '%s'", source)
	}
	if len(opts) != 1 {
		t.Errorf("expected 1 option, got %d", len(opts))
	}
}

func TestClientOptionsFile(t *testing.T) {
	opts, source := clientOptions("/etc/creds/service-account.json")
	if source != "file" {
		t.Errorf("expected source 'file', got '%s'", source)
	}
	if len(opts) != 1 {
		t.Errorf("expected 1 option, got %d", len(opts))
	}
}

func TestTranslateMissingObject(t *testing.T) {
	err := translate(storage.ErrObjectNotExist, "delete", "abc_a.png")
	if !errors.Is(err, assets.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestTranslateOtherError(t *testing.T) {
	cause := errors.New("permission denied")
	err := translate(cause, "delete", "abc_a.png")
	if errors.Is(err, assets.ErrObjectNotFound) {
		t.Error("unexpected ErrObjectNotFound")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestNewStoreRequiresBucket(t *testing.T) {
	if _, err := NewStore(context.Background(), nil, ""); err == nil {
		t.Error("expected error for empty bucket name")
	}
}
