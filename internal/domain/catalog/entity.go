// internal/domain/catalog/entity.go
package catalog

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SizeNone is the reserved size key for products sold without a size choice.
const SizeNone = "none"

// Product represents a catalog product
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SKU         string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	Price       int64          `gorm:"not null" json:"price"` // Price in cents
	Sizes       string         `gorm:"size:255" json:"sizes"` // Comma-separated size labels, empty for one-size products
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// SizeList returns the product's size labels
func (p *Product) SizeList() []string {
	if strings.TrimSpace(p.Sizes) == "" {
		return nil
	}

	parts := strings.Split(p.Sizes, ",")
	sizes := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

// HasSize reports whether the given label is a valid size for the product
func (p *Product) HasSize(size string) bool {
	for _, s := range p.SizeList() {
		if strings.EqualFold(s, size) {
			return true
		}
	}
	return false
}
