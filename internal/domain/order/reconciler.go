// internal/domain/order/reconciler.go
package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/revenue"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// ApplyCartDelta mirrors a cart line change into the user's pending order.
// The pending row is locked for the duration of the transaction, so
// concurrent mutations for the same user serialize instead of losing
// updates. Implements the cart package's Reconciler.
func (s *Service) ApplyCartDelta(userID, productID uint, size string, delta int, paymentHint string) error {
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return err
	}

	var ord Order
	var prevState *revenue.OrderState
	var touched bool

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, OrderStatusPending).
			First(&ord).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if delta <= 0 {
				return nil
			}
			created, err := s.createPendingOrder(tx, userID, product, size, delta, paymentHint)
			if err != nil {
				return err
			}
			ord = *created
			touched = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get pending order: %w", err)
		}

		if err := tx.Where("order_id = ?", ord.ID).Find(&ord.Items).Error; err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		state := ord.revenueState()
		prevState = &state

		merged := MergeItemDelta(ord.Items, productID, size, delta, product.Name, product.ImageURL, product.Price)
		if err := s.replaceInCartItems(tx, &ord, merged); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"total_amount": ord.TotalAmount,
		}
		if paymentHint != "" {
			ord.PaymentMethod = NormalizePaymentMethod(paymentHint)
			updates["payment_method"] = ord.PaymentMethod
		}

		if ord.Emptied() {
			now := time.Now().UTC()
			ord.Status = OrderStatusCancelled
			ord.CancelReason = "all items removed"
			ord.CancelledAt = &now
			updates["status"] = ord.Status
			updates["cancel_reason"] = ord.CancelReason
			updates["cancelled_at"] = now
		}

		if err := tx.Model(&Order{}).Where("id = ?", ord.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update pending order: %w", err)
		}
		touched = true
		return nil
	})
	if err != nil {
		return err
	}
	if !touched {
		return nil
	}

	s.ledger.Apply(prevState, ord.revenueState())
	s.publishEvent("order.reconciled", &ord)
	return nil
}

// CancelPending cancels the user's pending order if one exists. Called when
// the cart is cleared. Implements the cart package's Reconciler.
func (s *Service) CancelPending(userID uint, reason string) error {
	var ord Order
	var prevState revenue.OrderState
	var found bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, OrderStatusPending).
			First(&ord).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get pending order: %w", err)
		}

		if err := tx.Where("order_id = ?", ord.ID).Find(&ord.Items).Error; err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		prevState = ord.revenueState()
		found = true

		now := time.Now().UTC()
		ord.Status = OrderStatusCancelled
		ord.CancelReason = reason
		ord.CancelledAt = &now
		return tx.Model(&Order{}).Where("id = ?", ord.ID).Updates(map[string]interface{}{
			"status":        ord.Status,
			"cancel_reason": reason,
			"cancelled_at":  now,
		}).Error
	})
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	s.ledger.Apply(&prevState, ord.revenueState())
	s.publishEvent("order.cancelled", &ord)
	return nil
}

// createPendingOrder opens a fresh pending order with a single in_cart item
// and customer info snapshotted from the user profile.
func (s *Service) createPendingOrder(tx *gorm.DB, userID uint, product *catalog.Product, size string, quantity int, paymentHint string) (*Order, error) {
	ord := Order{
		UserID:        userID,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: NormalizePaymentMethod(paymentHint),
		TotalAmount:   product.Price * int64(quantity),
		CustomerInfo:  s.snapshotCustomer(tx, userID),
		Items: []OrderItem{
			{
				ProductID:  product.ID,
				Name:       product.Name,
				ImageURL:   product.ImageURL,
				Size:       size,
				Quantity:   quantity,
				Price:      product.Price,
				TotalPrice: product.Price * int64(quantity),
				Status:     ItemStatusInCart,
			},
		},
	}

	if err := tx.Create(&ord).Error; err != nil {
		return nil, fmt.Errorf("failed to create pending order: %w", err)
	}

	ord.OrderNumber = ord.GenerateOrderNumber()
	if err := tx.Model(&Order{}).Where("id = ?", ord.ID).Update("order_number", ord.OrderNumber).Error; err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}
	return &ord, nil
}

// replaceInCartItems swaps the order's in_cart rows for the merged set and
// recomputes the stored total on the order struct.
func (s *Service) replaceInCartItems(tx *gorm.DB, ord *Order, merged []OrderItem) error {
	err := tx.Where("order_id = ? AND status = ?", ord.ID, ItemStatusInCart).
		Delete(&OrderItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to replace order items: %w", err)
	}

	for i := range merged {
		if merged[i].Status != ItemStatusInCart {
			continue
		}
		merged[i].ID = 0
		merged[i].OrderID = ord.ID
		if err := tx.Create(&merged[i]).Error; err != nil {
			return fmt.Errorf("failed to write order item: %w", err)
		}
	}

	ord.Items = merged
	ord.TotalAmount = SumItemTotals(merged)
	return nil
}

// snapshotCustomer copies profile fields onto the order. Missing fields fall
// back to "unspecified"; the copy is never refreshed from later profile edits.
func (s *Service) snapshotCustomer(tx *gorm.DB, userID uint) CustomerInfo {
	var profile user.User
	if err := tx.First(&profile, userID).Error; err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to load user profile for order snapshot")
		return CustomerInfo{
			Name:         "unspecified",
			Email:        "unspecified",
			Phone:        "unspecified",
			AddressLine1: "unspecified",
			City:         "unspecified",
			Region:       "unspecified",
			Country:      "unspecified",
		}
	}
	return CustomerInfo{
		Name:         orUnspecified(profile.GetFullName()),
		Email:        orUnspecified(profile.Email),
		Phone:        orUnspecified(profile.Phone),
		AddressLine1: orUnspecified(profile.AddressLine1),
		City:         orUnspecified(profile.City),
		Region:       orUnspecified(profile.Region),
		Country:      orUnspecified(profile.Country),
	}
}

func orUnspecified(v string) string {
	if v == "" {
		return "unspecified"
	}
	return v
}
