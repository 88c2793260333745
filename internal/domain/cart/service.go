// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

var ErrQuantityRange = errors.New("quantity out of range")

// Reconciler mirrors cart mutations into the user's pending order. It is
// implemented by the order service and injected after construction so the two
// packages stay independent.
type Reconciler interface {
	ApplyCartDelta(userID, productID uint, size string, delta int, paymentHint string) error
	CancelPending(userID uint, reason string) error
}

// Service handles cart operations
type Service struct {
	db         *gorm.DB
	redis      *redis.Client
	config     *config.Config
	logger     *logrus.Logger
	catalog    *catalog.Service
	reconciler Reconciler
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger, catalogService *catalog.Service) *Service {
	return &Service{
		db:      db,
		redis:   redisClient,
		config:  cfg,
		logger:  logger,
		catalog: catalogService,
	}
}

// SetReconciler wires the pending-order reconciler. Must be called once during
// startup before the service handles requests.
func (s *Service) SetReconciler(r Reconciler) {
	s.reconciler = r
}

// AddLine adds quantity to a cart line, creating it if needed, and mirrors the
// change into the user's pending order.
func (s *Service) AddLine(userID, productID uint, size string, quantity int, paymentHint string) (*Snapshot, error) {
	if quantity <= 0 {
		return nil, ErrQuantityRange
	}
	return s.applyDelta(userID, productID, size, quantity, paymentHint)
}

// SetLineQuantity sets a cart line to an absolute quantity. The change is
// applied as a delta so it reaches the pending order through the same path
// as AddLine. Setting zero removes the line.
func (s *Service) SetLineQuantity(userID, productID uint, size string, quantity int, paymentHint string) (*Snapshot, error) {
	if quantity < 0 {
		return nil, ErrQuantityRange
	}

	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	normalizedSize, err := catalog.NormalizeSize(product, size)
	if err != nil {
		return nil, err
	}

	current := s.currentQuantity(userID, productID, normalizedSize)
	delta := quantity - current
	if delta == 0 {
		return s.GetCart(userID)
	}
	return s.applyDelta(userID, productID, size, delta, paymentHint)
}

// RemoveLine removes a cart line entirely. It is AddLine with the negated
// current quantity, so removing a line that does not exist is a no-op.
func (s *Service) RemoveLine(userID, productID uint, size string, paymentHint string) (*Snapshot, error) {
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	normalizedSize, err := catalog.NormalizeSize(product, size)
	if err != nil {
		return nil, err
	}

	current := s.currentQuantity(userID, productID, normalizedSize)
	if current <= 0 {
		return s.GetCart(userID)
	}
	return s.applyDelta(userID, productID, size, -current, paymentHint)
}

// Clear empties the user's cart and cancels the pending order that mirrors it
func (s *Service) Clear(userID uint) (*Snapshot, error) {
	if err := s.db.Where("user_id = ?", userID).Delete(&Line{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	s.invalidateCache(userID)

	if s.reconciler != nil {
		if err := s.reconciler.CancelPending(userID, "cart cleared"); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to cancel pending order after cart clear")
		}
	}

	return s.GetCart(userID)
}

// ClearAfterCheckout removes the cart lines without touching the pending
// order. Checkout owns the order transition itself.
func (s *Service) ClearAfterCheckout(userID uint) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&Line{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.invalidateCache(userID)
	return nil
}

// GetCart returns a snapshot of the user's cart. Zero and negative quantity
// lines left behind by older writes are deleted on read.
func (s *Service) GetCart(userID uint) (*Snapshot, error) {
	if snapshot := s.cachedSnapshot(userID); snapshot != nil {
		return snapshot, nil
	}

	var lines []Line
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	kept, dropped := NormalizeLines(lines)
	if len(dropped) > 0 {
		ids := make([]uint, 0, len(dropped))
		for _, line := range dropped {
			ids = append(ids, line.ID)
		}
		if err := s.db.Where("id IN ?", ids).Delete(&Line{}).Error; err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to remove stale cart lines")
		}
	}

	snapshot := s.buildSnapshot(userID, kept)
	s.cacheSnapshot(userID, snapshot)
	return snapshot, nil
}

// applyDelta is the single write path for cart line changes. It validates the
// product, adjusts the line, and forwards the applied delta to the reconciler.
func (s *Service) applyDelta(userID, productID uint, size string, delta int, paymentHint string) (*Snapshot, error) {
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	normalizedSize, err := catalog.NormalizeSize(product, size)
	if err != nil {
		return nil, err
	}

	current := s.currentQuantity(userID, productID, normalizedSize)
	target, err := clampTarget(current, delta, s.config.Cart.MaxLineQuantity)
	if err != nil {
		return nil, err
	}
	applied := target - current
	if applied == 0 {
		return s.GetCart(userID)
	}

	if target == 0 {
		err = s.db.Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, normalizedSize).
			Delete(&Line{}).Error
	} else if current == 0 {
		line := Line{
			UserID:    userID,
			ProductID: productID,
			Size:      normalizedSize,
			Quantity:  target,
			Price:     product.Price,
		}
		err = s.db.Create(&line).Error
	} else {
		err = s.db.Model(&Line{}).
			Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, normalizedSize).
			Update("quantity", target).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	s.invalidateCache(userID)

	if s.reconciler != nil {
		if err := s.reconciler.ApplyCartDelta(userID, productID, normalizedSize, applied, paymentHint); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": productID,
			}).Error("Failed to reconcile pending order")
		}
	}

	return s.GetCart(userID)
}

// clampTarget applies a delta to the current line quantity. Targets above max
// are rejected; targets below zero clamp to zero, so oversized removals land
// on line deletion instead of an error.
func clampTarget(current, delta, max int) (int, error) {
	target := current + delta
	if target > max {
		return 0, ErrQuantityRange
	}
	if target < 0 {
		target = 0
	}
	return target, nil
}

func (s *Service) currentQuantity(userID, productID uint, size string) int {
	var line Line
	err := s.db.Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, size).
		First(&line).Error
	if err != nil {
		return 0
	}
	if line.Quantity < 0 {
		return 0
	}
	return line.Quantity
}

func (s *Service) buildSnapshot(userID uint, lines []Line) *Snapshot {
	items := make([]LineResponse, 0, len(lines))
	var updatedAt time.Time
	for _, line := range lines {
		item := LineResponse{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     line.Price,
			LineTotal: line.Price * int64(line.Quantity),
			AddedAt:   line.CreatedAt,
		}
		if product, err := s.catalog.GetProduct(line.ProductID); err == nil {
			item.ProductName = product.Name
			item.ImageURL = product.ImageURL
		}
		items = append(items, item)
		if line.UpdatedAt.After(updatedAt) {
			updatedAt = line.UpdatedAt
		}
	}

	return &Snapshot{
		UserID:    userID,
		Items:     items,
		Totals:    CalculateTotals(items),
		UpdatedAt: updatedAt,
	}
}

func (s *Service) cacheKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

func (s *Service) cachedSnapshot(userID uint) *Snapshot {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(context.Background(), s.cacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func (s *Service) cacheSnapshot(userID uint, snapshot *Snapshot) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.redis.Set(context.Background(), s.cacheKey(userID), data, s.config.Redis.CartCacheTTL).Err(); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Debug("Failed to cache cart snapshot")
	}
}

func (s *Service) invalidateCache(userID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), s.cacheKey(userID)).Err(); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Debug("Failed to invalidate cart cache")
	}
}
