// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/revenue"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrEmptyCart         = errors.New("cart is empty")
)

// Notifier dispatches customer-facing messages. Failures are logged and never
// fail the order operation that triggered them.
type Notifier interface {
	SendOrderConfirmation(email, name, orderNumber string, total int64) error
	SendOrderStatusUpdate(email, name, orderNumber, status string) error
}

// EventPublisher emits order lifecycle events to the message broker
type EventPublisher interface {
	PublishOrderEvent(eventType string, orderID uint, userID uint, status string, total int64) error
}

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	logger      *logrus.Logger
	catalog     *catalog.Service
	cartService *cart.Service
	ledger      *revenue.Ledger
	notifier    Notifier
	publisher   EventPublisher
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger, catalogService *catalog.Service, cartService *cart.Service, ledger *revenue.Ledger) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		logger:      logger,
		catalog:     catalogService,
		cartService: cartService,
		ledger:      ledger,
	}
}

// SetNotifier wires the notification sender
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetPublisher wires the event publisher
func (s *Service) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	UserID    uint        `form:"user_id"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status         OrderStatus `json:"status" binding:"required"`
	Notes          string      `json:"notes,omitempty"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	CancelReason   string      `json:"cancel_reason,omitempty"`
}

// GetUserOrders returns the user's orders, newest first. A pending order
// with only in_cart items is the live cart mirror and stays hidden; once an
// order has checked-out items it shows up even while still pending.
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&Order{}).
		Where("user_id = ? AND (status != ? OR EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id AND order_items.status = ?))",
			userID, OrderStatusPending, ItemStatusCheckedOut)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (page - 1) * limit
	err := query.
		Preload("Items", "status = ?", ItemStatusCheckedOut).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderResponse{
		Orders:     orders,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

// GetOrder returns a single order owned by the user. The cart mirror is not
// addressable here, matching the history listing.
func (s *Service) GetOrder(userID, orderID uint) (*Order, error) {
	var order Order
	err := s.db.
		Preload("Items").
		Preload("StatusHistory").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !order.VisibleInHistory() {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// AdminGetOrder returns any order by id
func (s *Service) AdminGetOrder(orderID uint) (*Order, error) {
	var order Order
	err := s.db.
		Preload("Items").
		Preload("StatusHistory").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// AdminListOrders returns orders across all users with filters
func (s *Service) AdminListOrders(req *OrderListRequest) (*OrderResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{})
	if req.Status != "" {
		if !IsValidStatus(req.Status) {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.UserID != 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	sortBy := req.SortBy
	switch sortBy {
	case "created_at", "total_amount", "status":
	default:
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	err := query.
		Preload("Items", "status = ?", ItemStatusCheckedOut).
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderResponse{
		Orders:     orders,
		Pagination: buildPagination(req.Page, req.Limit, total),
	}, nil
}

// SetOrderStatus transitions an order to a new status. The revenue ledger is
// updated with the transition and the customer is notified; both are best
// effort once the order row is committed.
func (s *Service) SetOrderStatus(orderID uint, req *UpdateStatusRequest, changedBy uint) (*Order, error) {
	if !IsValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	var order Order
	var prevState revenue.OrderState

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}

		prevState = order.revenueState()

		if req.Status != order.Status && !order.CanTransitionTo(req.Status) {
			return ErrInvalidTransition
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status": req.Status,
		}
		if req.Notes != "" {
			updates["notes"] = req.Notes
		}
		if req.TrackingNumber != "" {
			updates["tracking_number"] = req.TrackingNumber
		}
		switch req.Status {
		case OrderStatusDelivered:
			updates["delivered_at"] = now
			if order.PaymentMethod == PaymentMethodCashOnDelivery {
				updates["payment_status"] = PaymentStatusPaid
			}
		case OrderStatusCancelled:
			updates["cancelled_at"] = now
			reason := req.CancelReason
			if reason == "" {
				reason = "cancelled by admin"
			}
			updates["cancel_reason"] = reason
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := OrderStatusHistory{
			OrderID:   order.ID,
			Status:    req.Status,
			Comment:   req.Notes,
			CreatedBy: changedBy,
			CreatedAt: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = req.Status
	s.ledger.Apply(&prevState, order.revenueState())
	s.publishEvent("order.status_changed", &order)
	s.notifyStatusChange(&order)

	return &order, nil
}

func (s *Service) publishEvent(eventType string, order *Order) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishOrderEvent(eventType, order.ID, order.UserID, string(order.Status), order.TotalAmount)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to publish order event")
	}
}

func (s *Service) notifyStatusChange(order *Order) {
	if s.notifier == nil || order.CustomerInfo.Email == "" {
		return
	}
	err := s.notifier.SendOrderStatusUpdate(
		order.CustomerInfo.Email,
		order.CustomerInfo.Name,
		order.OrderNumber,
		string(order.Status),
	)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to send status update email")
	}
}

func buildPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
