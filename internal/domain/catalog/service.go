// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a product id does not resolve
	ErrProductNotFound = errors.New("product not found")
	// ErrSizeRequired is returned when a sized product is referenced without a size
	ErrSizeRequired = errors.New("size required")
	// ErrInvalidSize is returned when the size label is not offered for the product
	ErrInvalidSize = errors.New("invalid size for product")
)

// Service handles catalog lookups
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// GetProduct retrieves an active product by id
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ? AND is_active = ?", id, true).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &prod, nil
}

// ListProducts retrieves active products with simple pagination
func (s *Service) ListProducts(page, limit int) ([]Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Where("is_active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, total, nil
}

// NormalizeSize validates a caller-supplied size label against the product and
// returns the catalog's own spelling of that label, so cart lines and order
// items always carry the label as listed on the product. Products without
// sizes always use the reserved SizeNone key; sized products reject empty or
// placeholder labels.
func NormalizeSize(prod *Product, size string) (string, error) {
	size = strings.TrimSpace(size)

	labels := prod.SizeList()
	if len(labels) == 0 {
		if size == "" || strings.EqualFold(size, SizeNone) {
			return SizeNone, nil
		}
		return "", ErrInvalidSize
	}

	if size == "" || strings.EqualFold(size, SizeNone) {
		return "", ErrSizeRequired
	}
	for _, label := range labels {
		if strings.EqualFold(label, size) {
			return label, nil
		}
	}
	return "", ErrInvalidSize
}
