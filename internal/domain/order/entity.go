// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/revenue"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod represents the canonical payment method
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCardStripe     PaymentMethod = "card_stripe"
	PaymentMethodCardPayPal     PaymentMethod = "card_paypal"
)

// ItemStatus represents the lifecycle stage of an order item
type ItemStatus string

const (
	ItemStatusInCart     ItemStatus = "in_cart"
	ItemStatusCheckedOut ItemStatus = "checked_out"
)

// CustomerInfo is snapshotted onto the order at creation or checkout time.
// Later profile edits do not flow back into historical orders.
type CustomerInfo struct {
	Name         string `gorm:"size:200" json:"name"`
	Email        string `gorm:"size:255" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	City         string `gorm:"size:100" json:"city"`
	Region       string `gorm:"size:100" json:"region"`
	Country      string `gorm:"size:100" json:"country"`
}

// Order represents the order entity. A user has at most one order in pending
// status; while it is pending its in_cart items mirror the live cart.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	Status        OrderStatus   `gorm:"not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"not null;size:50" json:"payment_method"`
	TransactionID string        `gorm:"size:255" json:"transaction_id,omitempty"`

	TotalAmount int64 `gorm:"not null" json:"total_amount"` // In cents

	CustomerInfo CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`

	TrackingNumber string `gorm:"size:100" json:"tracking_number,omitempty"`
	Notes          string `gorm:"type:text" json:"notes,omitempty"`
	CancelReason   string `gorm:"size:255" json:"cancel_reason,omitempty"`

	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents items in an order
type OrderItem struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	OrderID    uint       `gorm:"not null;index" json:"order_id"`
	ProductID  uint       `gorm:"not null;index" json:"product_id"`
	Name       string     `gorm:"not null;size:255" json:"name"`
	ImageURL   string     `gorm:"size:500" json:"image_url,omitempty"`
	Size       string     `gorm:"not null;size:50" json:"size"`
	Quantity   int        `gorm:"not null" json:"quantity"`
	Price      int64      `gorm:"not null" json:"price"`       // Price per unit in cents
	TotalPrice int64      `gorm:"not null" json:"total_price"` // Quantity * Price
	Status     ItemStatus `gorm:"not null;default:'in_cart'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy uint        `gorm:"index" json:"created_by"` // User ID who made the change
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// statusTransitions defines the allowed status machine. Delivered and
// cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo checks whether the order may move to the target status
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range statusTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// NormalizePaymentMethod maps informal labels from clients onto the canonical
// enum. Unknown labels default to cash on delivery.
func NormalizePaymentMethod(hint string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "cash", "cod", string(PaymentMethodCashOnDelivery):
		return PaymentMethodCashOnDelivery
	case "bank", "transfer", string(PaymentMethodBankTransfer):
		return PaymentMethodBankTransfer
	case "stripe", "card", "online", string(PaymentMethodCardStripe):
		return PaymentMethodCardStripe
	case "paypal", string(PaymentMethodCardPayPal):
		return PaymentMethodCardPayPal
	default:
		return PaymentMethodCashOnDelivery
	}
}

// GenerateOrderNumber generates a unique order number
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", o.CreatedAt.UTC().Format("20060102"), o.ID)
}

// GetFormattedTotal returns total amount as float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// InCartItems returns the items still mirroring the live cart
func (o *Order) InCartItems() []OrderItem {
	var items []OrderItem
	for _, item := range o.Items {
		if item.Status == ItemStatusInCart {
			items = append(items, item)
		}
	}
	return items
}

// CheckedOutItems returns the items that went through checkout. Only these
// are shown in admin and order-history views and only they count toward
// checked-out revenue.
func (o *Order) CheckedOutItems() []OrderItem {
	var items []OrderItem
	for _, item := range o.Items {
		if item.Status == ItemStatusCheckedOut {
			items = append(items, item)
		}
	}
	return items
}

// VisibleInHistory reports whether the order belongs in the customer's order
// history. A pending order with no checked-out items is the live cart mirror
// and stays hidden; an order keeps its checked-out items visible even before
// an admin moves it off pending.
func (o *Order) VisibleInHistory() bool {
	return o.Status != OrderStatusPending || len(o.CheckedOutItems()) > 0
}

// Emptied reports whether no items remain on the order
func (o *Order) Emptied() bool {
	return len(o.InCartItems()) == 0 && len(o.CheckedOutItems()) == 0
}

// CheckedOutTotal sums the totals of checked-out items
func (o *Order) CheckedOutTotal() int64 {
	var total int64
	for _, item := range o.CheckedOutItems() {
		total += item.TotalPrice
	}
	return total
}

// SumItemTotals sums TotalPrice over the given items
func SumItemTotals(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}

// MergeItemDelta applies a quantity delta to the item matching (productID,
// size), appending a new item when none matches and the delta is positive.
// Items whose quantity drops to zero or below are removed. Line totals are
// recomputed for every touched item.
func MergeItemDelta(items []OrderItem, productID uint, size string, delta int, name, imageURL string, price int64) []OrderItem {
	merged := make([]OrderItem, 0, len(items)+1)
	found := false
	for _, item := range items {
		if item.Status == ItemStatusInCart && item.ProductID == productID && item.Size == size {
			found = true
			item.Quantity += delta
			if item.Quantity <= 0 {
				continue
			}
			item.TotalPrice = item.Price * int64(item.Quantity)
		}
		merged = append(merged, item)
	}
	if !found && delta > 0 {
		merged = append(merged, OrderItem{
			ProductID:  productID,
			Name:       name,
			ImageURL:   imageURL,
			Size:       size,
			Quantity:   delta,
			Price:      price,
			TotalPrice: price * int64(delta),
			Status:     ItemStatusInCart,
		})
	}
	return merged
}

// AddStatusHistory adds a new status change to history
func (o *Order) AddStatusHistory(status OrderStatus, comment string, createdBy uint) {
	history := OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	o.StatusHistory = append(o.StatusHistory, history)
}

// revenueState captures the fields the revenue ledger keys on
func (o *Order) revenueState() revenue.OrderState {
	return revenue.OrderState{
		CreatedAt:       o.CreatedAt,
		Status:          string(o.Status),
		Total:           o.TotalAmount,
		CheckedOutTotal: o.CheckedOutTotal(),
	}
}
