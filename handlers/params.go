package handlers

import (
	"errors"
	"net/http"

	"catalog-backend/apperr"
	"catalog-backend/assets"
	"catalog-backend/query"
	"catalog-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses the :id segment, answering 400 itself when it is not a uuid.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

func pageRequest(c *gin.Context) (query.PageRequest, bool) {
	var req query.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and size must be integers"})
		return req, false
	}
	return req.Normalize(), true
}

// formImage returns the optional "image" file part. A request without one,
// or one that is not multipart at all, carries no image. A multipart body
// that cannot be parsed is a validation error.
func formImage(c *gin.Context) (*assets.Upload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("image", "malformed multipart body")
	}
	up, err := utils.ReadUpload(fh)
	if err != nil {
		return nil, err
	}
	return &up, nil
}
