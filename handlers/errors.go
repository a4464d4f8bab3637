package handlers

import (
	"errors"
	"net/http"

	"catalog-backend/apperr"

	"github.com/gin-gonic/gin"
)

// respondError writes the status for a catalog error kind. Unclassified errors
// answer 500 with fallback so internals stay out of the body.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case apperr.IsStorage(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Image storage unavailable"})
	case apperr.IsExport(err):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
