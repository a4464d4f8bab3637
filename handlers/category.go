package handlers

import (
	"net/http"

	"catalog-backend/catalog"
	"catalog-backend/dtos"
	"catalog-backend/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Categories *catalog.CategoryService
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Categories.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := h.Categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	in, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := h.Categories.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := h.Categories.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func bindCategory(c *gin.Context) (catalog.CategoryInput, bool) {
	var form dtos.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return catalog.CategoryInput{}, false
	}
	image, err := formImage(c)
	if err != nil {
		respondError(c, err, "Failed to read image")
		return catalog.CategoryInput{}, false
	}
	return catalog.CategoryInput{
		Name:        form.Name,
		Description: form.Description,
		Image:       image,
	}, true
}
