package handlers

import (
	"net/http"

	"catalog-backend/assets"
	"catalog-backend/catalog"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	Images     *assets.Gateway
	Reconciler *catalog.Reconciler
}

// GetAsset serves a stored image by key. Deployments on object storage hand out
// bucket URLs instead; this route backs the in-memory store.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	data, err := h.Images.Fetch(c.Request.Context(), h.Images.Locator(c.Param("key")))
	if err != nil {
		respondError(c, err, "Failed to fetch image")
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *AssetHandler) SweepOrphans(c *gin.Context) {
	result, err := h.Reconciler.SweepOrphans(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to sweep images")
		return
	}
	c.JSON(http.StatusOK, result)
}
