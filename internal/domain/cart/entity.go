// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Line represents one cart line stored in the database. A user's cart is the
// set of lines keyed by (user, product, size); a line with quantity <= 0 does
// not exist and is removed by every write path and lazily by reads.
type Line struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_cart_lines_user_product_size,unique" json:"user_id"`
	ProductID uint      `gorm:"not null;index:idx_cart_lines_user_product_size,unique" json:"product_id"`
	Size      string    `gorm:"not null;size:50;index:idx_cart_lines_user_product_size,unique" json:"size"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"` // Price at time of adding, in cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Line) TableName() string {
	return "cart_lines"
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int   `json:"item_count"`     // Number of distinct lines
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`      // In cents
}

// LineResponse represents a cart line with denormalized product details
type LineResponse struct {
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
	LineTotal   int64     `json:"line_total"`
	AddedAt     time.Time `json:"added_at"`
}

// Snapshot represents a cleaned view of a user's cart
type Snapshot struct {
	UserID    uint           `json:"user_id"`
	Items     []LineResponse `json:"items"`
	Totals    Totals         `json:"totals"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NormalizeLines drops zero and negative quantity lines and returns the
// surviving lines along with the ones that were removed.
func NormalizeLines(lines []Line) (kept, dropped []Line) {
	for _, line := range lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		} else {
			dropped = append(dropped, line)
		}
	}
	return kept, dropped
}

// CalculateTotals computes cart totals from the given lines
func CalculateTotals(items []LineResponse) Totals {
	var totals Totals
	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Price * int64(item.Quantity)
	}
	return totals
}
