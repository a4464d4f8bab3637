package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-backend/apperr"
	"catalog-backend/assets"
	"catalog-backend/models"

	"github.com/gin-gonic/gin"
)

func TestSweepOrphansRemovesUnreferencedImages(t *testing.T) {
	db := freshDB()
	app := setupApp(db)
	_, adminToken := seedTestUser(db, "admin", models.RoleAdmin)

	w := app.do(multipartRequest("POST", "/api/admin/categories",
		map[string]string{"name": "Shoes"}, pngFile("kept.png"), adminToken))
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	orphan, err := app.images.Upload(context.Background(), assets.Upload{Data: pngBytes(), Filename: "orphan.png"})
	if err != nil {
		t.Fatal(err)
	}

	w = app.do(authRequest("POST", "/api/admin/assets/sweep", nil, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["scanned"] != float64(2) {
		t.Errorf("expected 2 scanned, got %v", resp["scanned"])
	}
	orphanKey, _ := app.images.KeyOf(orphan)
	deleted, _ := resp["deleted"].([]interface{})
	if len(deleted) != 1 || deleted[0] != orphanKey {
		t.Errorf("expected only %s deleted, got %v", orphanKey, resp["deleted"])
	}
	if app.store.Len() != 1 {
		t.Errorf("expected the referenced image to remain, store holds %d", app.store.Len())
	}
}

func TestSweepOrphansRequiresAdmin(t *testing.T) {
	db := freshDB()
	app := setupApp(db)
	_, userToken := seedTestUser(db, "jane", models.RoleUser)

	w := app.do(authRequest("POST", "/api/admin/assets/sweep", nil, userToken))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestGetAssetMissing(t *testing.T) {
	app := setupApp(freshDB())

	w := app.do(httptest.NewRequest("GET", "/api/assets/nothing.png", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestRespondErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("name", "required"), http.StatusBadRequest},
		{"not found", apperr.NotFound("product", "x"), http.StatusNotFound},
		{"conflict", apperr.Conflict("user", "email", "a@b.c"), http.StatusConflict},
		{"credentials", apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{"storage", apperr.Storage("put", "k", errors.New("timeout")), http.StatusBadGateway},
		{"export", &apperr.ExportError{Err: errors.New("disk")}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err, "fallback")
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
			if len(c.Errors) != 1 {
				t.Errorf("expected error attached to context")
			}
		})
	}
}

func TestRespondErrorHidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: connection refused"), "Failed to fetch products")

	if parseResponse(w)["error"] != "Failed to fetch products" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
