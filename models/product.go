package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Name          string       `gorm:"not null;index" json:"name"`
	Price         float64      `gorm:"not null" json:"price"`
	Description   string       `gorm:"type:text" json:"description"`
	Brand         string       `gorm:"index" json:"brand"`
	Image         string       `gorm:"size:1024" json:"image"`
	Rating        *float64     `json:"rating"`
	Quantity      int          `gorm:"default:0" json:"quantity"`
	SubcategoryID *uuid.UUID   `gorm:"type:uuid;index" json:"subcategory_id"`
	Subcategory   *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SubcategoryName returns the linked subcategory's name, or "" when unlinked or not loaded.
func (p *Product) SubcategoryName() string {
	if p.Subcategory == nil {
		return ""
	}
	return p.Subcategory.Name
}
