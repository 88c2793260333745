// internal/domain/order/checkout.go
package order

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/storefront-backend/internal/domain/revenue"
)

// CheckoutRequest carries the shipping and payment details supplied at
// checkout time.
type CheckoutRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	AddressLine1  string `json:"address_line1" binding:"required"`
	City          string `json:"city" binding:"required"`
	Region        string `json:"region,omitempty"`
	Country       string `json:"country,omitempty"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// CheckoutSummary is returned to the client after a successful checkout
type CheckoutSummary struct {
	OrderID       uint          `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	ItemCount     int           `json:"item_count"`
	Total         int64         `json:"total"`
}

// Checkout converts the user's cart into checked-out order items at current
// catalog prices, finalizes customer and payment metadata, and empties the
// cart. The pending order is reused when one exists; items it carried are
// replaced wholesale.
func (s *Service) Checkout(userID uint, req *CheckoutRequest) (*CheckoutSummary, error) {
	snapshot, err := s.cartService.GetCart(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Reprice every line before opening the transaction. A product gone
	// missing aborts the whole checkout.
	items := make([]OrderItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		product, err := s.catalog.GetProduct(line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			ImageURL:   product.ImageURL,
			Size:       line.Size,
			Quantity:   line.Quantity,
			Price:      product.Price,
			TotalPrice: product.Price * int64(line.Quantity),
			Status:     ItemStatusCheckedOut,
		})
	}
	total := SumItemTotals(items)

	customerInfo := CustomerInfo{
		Name:         orUnspecified(req.Name),
		Phone:        orUnspecified(req.Phone),
		AddressLine1: orUnspecified(req.AddressLine1),
		City:         orUnspecified(req.City),
		Region:       orUnspecified(req.Region),
		Country:      orUnspecified(req.Country),
	}

	var ord Order
	var prevState *revenue.OrderState

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, OrderStatusPending).
			First(&ord).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			ord = Order{
				UserID:        userID,
				Status:        OrderStatusPending,
				PaymentStatus: PaymentStatusPending,
			}
			if err := tx.Create(&ord).Error; err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			ord.OrderNumber = ord.GenerateOrderNumber()
			if err := tx.Model(&Order{}).Where("id = ?", ord.ID).Update("order_number", ord.OrderNumber).Error; err != nil {
				return fmt.Errorf("failed to assign order number: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to get pending order: %w", err)
		} else {
			if err := tx.Where("order_id = ?", ord.ID).Find(&ord.Items).Error; err != nil {
				return fmt.Errorf("failed to load order items: %w", err)
			}
			state := ord.revenueState()
			prevState = &state
		}

		if err := tx.Where("order_id = ?", ord.ID).Delete(&OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to replace order items: %w", err)
		}
		for i := range items {
			items[i].OrderID = ord.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to write order item: %w", err)
			}
		}

		ord.Items = items
		ord.TotalAmount = total
		customerInfo.Email = ord.CustomerInfo.Email
		ord.CustomerInfo = customerInfo
		ord.PaymentMethod = NormalizePaymentMethod(req.PaymentMethod)
		ord.PaymentStatus = PaymentStatusPending
		ord.TransactionID = req.TransactionID
		// Email stays from the profile snapshot when the order predates
		// checkout; otherwise pull it fresh.
		if ord.CustomerInfo.Email == "" {
			ord.CustomerInfo.Email = s.snapshotCustomer(tx, userID).Email
			customerInfo.Email = ord.CustomerInfo.Email
		}

		return tx.Model(&Order{}).Where("id = ?", ord.ID).Updates(map[string]interface{}{
			"total_amount":   total,
			"payment_method": ord.PaymentMethod,
			"payment_status": ord.PaymentStatus,
			"transaction_id": ord.TransactionID,
			"customer_name":          ord.CustomerInfo.Name,
			"customer_email":         ord.CustomerInfo.Email,
			"customer_phone":         ord.CustomerInfo.Phone,
			"customer_address_line1": ord.CustomerInfo.AddressLine1,
			"customer_city":          ord.CustomerInfo.City,
			"customer_region":        ord.CustomerInfo.Region,
			"customer_country":       ord.CustomerInfo.Country,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.cartService.ClearAfterCheckout(userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to clear cart after checkout")
	}

	s.ledger.Apply(prevState, ord.revenueState())
	s.publishEvent("order.checked_out", &ord)
	s.notifyConfirmation(&ord)

	return &CheckoutSummary{
		OrderID:       ord.ID,
		OrderNumber:   ord.OrderNumber,
		Status:        ord.Status,
		PaymentMethod: ord.PaymentMethod,
		ItemCount:     len(ord.Items),
		Total:         ord.TotalAmount,
	}, nil
}

func (s *Service) notifyConfirmation(ord *Order) {
	if s.notifier == nil || ord.CustomerInfo.Email == "" {
		return
	}
	err := s.notifier.SendOrderConfirmation(
		ord.CustomerInfo.Email,
		ord.CustomerInfo.Name,
		ord.OrderNumber,
		ord.TotalAmount,
	)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", ord.ID).Warn("Failed to send order confirmation email")
	}
}
