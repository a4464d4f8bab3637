package handlers

import (
	"net/http"

	"catalog-backend/catalog"
	"catalog-backend/dtos"
	"catalog-backend/models"
	"catalog-backend/query"
	"catalog-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubcategoryHandler struct {
	Subcategories *catalog.SubcategoryService
	Query         *query.Facade
}

func (h *SubcategoryHandler) GetSubcategories(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Subcategories.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to fetch subcategories")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *SubcategoryHandler) GetSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sub, err := h.Query.SubcategoryByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch subcategory")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// GetSubcategoryProducts pages the products linked to one subcategory.
func (h *SubcategoryHandler) GetSubcategoryProducts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Query.ProductsBySubcategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, query.MapPage(page, func(p models.Product) dtos.ProductResponse {
		return dtos.NewProductResponse(p)
	}))
}

func (h *SubcategoryHandler) CreateSubcategory(c *gin.Context) {
	in, ok := bindSubcategory(c)
	if !ok {
		return
	}
	sub, err := h.Subcategories.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create subcategory")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubcategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := bindSubcategory(c)
	if !ok {
		return
	}
	sub, err := h.Subcategories.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Failed to update subcategory")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubcategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Subcategories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete subcategory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subcategory deleted successfully"})
}

func bindSubcategory(c *gin.Context) (catalog.SubcategoryInput, bool) {
	var form dtos.SubcategoryForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return catalog.SubcategoryInput{}, false
	}
	image, err := formImage(c)
	if err != nil {
		respondError(c, err, "Failed to read image")
		return catalog.SubcategoryInput{}, false
	}
	return catalog.SubcategoryInput{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  uuid.MustParse(form.CategoryID),
		Image:       image,
	}, true
}
