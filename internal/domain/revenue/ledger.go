// internal/domain/revenue/ledger.go
package revenue

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger maintains the per-day revenue buckets. Updates are computed from the
// (previous state, next state) pair of an order rather than from the next
// state alone, so touching an order twice in the same state is a no-op and
// repeated admin saves cannot double count.
type Ledger struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewLedger creates a new revenue ledger
func NewLedger(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Ledger {
	return &Ledger{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Apply records an order transition. prev is nil for newly created orders.
// The ledger is strictly best effort: every failure is logged and swallowed
// so that order-path writes, which are authoritative, never fail on
// bookkeeping.
func (l *Ledger) Apply(prev *OrderState, next OrderState) {
	delta := TransitionDelta(prev, next)
	if delta.IsZero() {
		return
	}

	day := BucketDay(next.CreatedAt)
	if next.CreatedAt.IsZero() {
		day = BucketDay(time.Now())
	}

	if err := l.applyDelta(day, delta); err != nil {
		l.logger.WithFields(logrus.Fields{
			"bucket_date": day.Format("2006-01-02"),
			"status":      next.Status,
			"total":       next.Total,
		}).WithError(err).Error("Failed to apply revenue delta")
	}
}

func (l *Ledger) applyDelta(day time.Time, delta Delta) error {
	// Ensure the bucket row exists; the unique index on bucket_date makes
	// concurrent creates collapse into one row.
	bucket := Bucket{BucketDate: day}
	if err := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bucket_date"}},
		DoNothing: true,
	}).Create(&bucket).Error; err != nil {
		return fmt.Errorf("failed to ensure revenue bucket: %w", err)
	}

	// Atomic in-database increments; concurrent writers on the same day's
	// bucket cannot lose updates.
	updates := map[string]interface{}{}
	if delta.OrdersCount != 0 {
		updates["orders_count"] = gorm.Expr("orders_count + ?", delta.OrdersCount)
	}
	if delta.DailyRevenue != 0 {
		updates["daily_revenue"] = gorm.Expr("daily_revenue + ?", delta.DailyRevenue)
	}
	if delta.DeliveredRevenue != 0 {
		updates["delivered_revenue"] = gorm.Expr("delivered_revenue + ?", delta.DeliveredRevenue)
	}
	if delta.PendingRevenue != 0 {
		updates["pending_revenue"] = gorm.Expr("pending_revenue + ?", delta.PendingRevenue)
	}
	if delta.CancelledRevenue != 0 {
		updates["cancelled_revenue"] = gorm.Expr("cancelled_revenue + ?", delta.CancelledRevenue)
	}
	if delta.CheckedOutRevenue != 0 {
		updates["checkedout_revenue"] = gorm.Expr("checkedout_revenue + ?", delta.CheckedOutRevenue)
	}

	result := l.db.Model(&Bucket{}).Where("bucket_date = ?", day).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update revenue bucket: %w", result.Error)
	}

	return nil
}

// TransitionDelta computes the counter adjustments implied by an order moving
// from prev to next. An order contributes its total to exactly one of the
// pending/delivered/cancelled buckets at a time, keyed by its status; the
// previous contribution is withdrawn before the new one is added.
func TransitionDelta(prev *OrderState, next OrderState) Delta {
	var delta Delta

	if prev == nil {
		delta.OrdersCount = 1
	} else {
		subtractContribution(&delta, *prev)
		delta.CheckedOutRevenue -= prev.CheckedOutTotal
	}

	addContribution(&delta, next)
	delta.CheckedOutRevenue += next.CheckedOutTotal

	return delta
}

func addContribution(d *Delta, state OrderState) {
	switch state.Status {
	case "delivered":
		d.DeliveredRevenue += state.Total
		d.DailyRevenue += state.Total
	case "cancelled":
		d.CancelledRevenue += state.Total
	default:
		d.PendingRevenue += state.Total
	}
}

func subtractContribution(d *Delta, state OrderState) {
	switch state.Status {
	case "delivered":
		d.DeliveredRevenue -= state.Total
		d.DailyRevenue -= state.Total
	case "cancelled":
		d.CancelledRevenue -= state.Total
	default:
		d.PendingRevenue -= state.Total
	}
}
