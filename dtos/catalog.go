package dtos

import (
	"time"

	"catalog-backend/models"

	"github.com/google/uuid"
)

// CategoryForm is the multipart body of a category write; the image travels as file field "image".
type CategoryForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
}

type SubcategoryForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	CategoryID  string `form:"category_id" binding:"required,uuid"`
}

// ProductForm is the multipart body of a product create. Updates read fields
// individually so absent fields stay untouched.
type ProductForm struct {
	Name            string   `form:"name" binding:"required"`
	Price           float64  `form:"price" binding:"gte=0"`
	Description     string   `form:"description"`
	Brand           string   `form:"brand"`
	Rating          *float64 `form:"rating"`
	Quantity        int      `form:"quantity" binding:"gte=0"`
	SubcategoryName string   `form:"subcategory_name" binding:"required"`
}

// ProductResponse flattens the subcategory to its name.
type ProductResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Price           float64    `json:"price"`
	Description     string     `json:"description"`
	Brand           string     `json:"brand"`
	Image           string     `json:"image"`
	Rating          *float64   `json:"rating"`
	Quantity        int        `json:"quantity"`
	SubcategoryID   *uuid.UUID `json:"subcategory_id"`
	SubcategoryName string     `json:"subcategory_name"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Description:     p.Description,
		Brand:           p.Brand,
		Image:           p.Image,
		Rating:          p.Rating,
		Quantity:        p.Quantity,
		SubcategoryID:   p.SubcategoryID,
		SubcategoryName: p.SubcategoryName(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
