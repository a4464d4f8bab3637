package handlers

import (
	"net/http"
	"strconv"

	"catalog-backend/apperr"
	"catalog-backend/catalog"
	"catalog-backend/dtos"
	"catalog-backend/export"
	"catalog-backend/models"
	"catalog-backend/query"
	"catalog-backend/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Products *catalog.ProductService
	Query    *query.Facade
	Exporter *export.Exporter
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Products.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, query.MapPage(page, func(p models.Product) dtos.ProductResponse {
		return dtos.NewProductResponse(p)
	}))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.Products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, dtos.NewProductResponse(*product))
}

// SearchProducts matches keyword against name, description and brand. No keyword lists everything.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.Query.SearchProducts(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, err, "Failed to search products")
		return
	}
	c.JSON(http.StatusOK, dtos.NewProductResponses(products))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var form dtos.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	image, err := formImage(c)
	if err != nil {
		respondError(c, err, "Failed to read image")
		return
	}

	product, err := h.Products.Create(c.Request.Context(), catalog.ProductInput{
		Name:            form.Name,
		Price:           form.Price,
		Description:     form.Description,
		Brand:           form.Brand,
		Rating:          form.Rating,
		Quantity:        form.Quantity,
		SubcategoryName: form.SubcategoryName,
		Image:           image,
	})
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, dtos.NewProductResponse(*product))
}

// UpdateProduct merges only the form fields present in the request.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	patch, err := productPatch(c)
	if err != nil {
		respondError(c, err, "Failed to read product")
		return
	}
	if patch.Image, err = formImage(c); err != nil {
		respondError(c, err, "Failed to read image")
		return
	}

	product, err := h.Products.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, dtos.NewProductResponse(*product))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func productPatch(c *gin.Context) (catalog.ProductPatch, error) {
	var p catalog.ProductPatch
	if v, ok := c.GetPostForm("name"); ok {
		p.Name = catalog.Some(v)
	}
	if v, ok := c.GetPostForm("description"); ok {
		p.Description = catalog.Some(v)
	}
	if v, ok := c.GetPostForm("brand"); ok {
		p.Brand = catalog.Some(v)
	}
	if v, ok := c.GetPostForm("subcategory_name"); ok {
		p.SubcategoryName = catalog.Some(v)
	}
	if v, ok := c.GetPostForm("price"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, apperr.Validation("price", "must be a number")
		}
		p.Price = catalog.Some(f)
	}
	if v, ok := c.GetPostForm("rating"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, apperr.Validation("rating", "must be a number")
		}
		p.Rating = catalog.Some(f)
	}
	if v, ok := c.GetPostForm("quantity"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, apperr.Validation("quantity", "must be an integer")
		}
		p.Quantity = catalog.Some(n)
	}
	return p, nil
}
