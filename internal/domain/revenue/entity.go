// internal/domain/revenue/entity.go
package revenue

import (
	"time"
)

// Bucket represents one calendar day of order-revenue aggregates. Buckets are
// created lazily on the first order event of the day and never deleted.
type Bucket struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	BucketDate        time.Time `gorm:"type:date;uniqueIndex;not null" json:"bucket_date"`
	OrdersCount       int64     `gorm:"not null;default:0" json:"orders_count"`
	DailyRevenue      int64     `gorm:"not null;default:0" json:"daily_revenue"`     // Delivered revenue for the day, in cents
	DeliveredRevenue  int64     `gorm:"not null;default:0" json:"delivered_revenue"` // In cents
	PendingRevenue    int64     `gorm:"not null;default:0" json:"pending_revenue"`
	CancelledRevenue  int64     `gorm:"not null;default:0" json:"cancelled_revenue"`
	CheckedOutRevenue int64     `gorm:"not null;default:0" json:"checkedout_revenue"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Bucket) TableName() string {
	return "revenue_buckets"
}

// OrderState is the financial snapshot of an order that the ledger accounts
// for. Callers capture one before and one after a mutation; the ledger applies
// only the difference between the two.
type OrderState struct {
	CreatedAt       time.Time
	Status          string
	Total           int64
	CheckedOutTotal int64 // Sum of checked_out item totals
}

// Delta is the set of counter adjustments implied by one order transition.
type Delta struct {
	OrdersCount       int64
	DailyRevenue      int64
	DeliveredRevenue  int64
	PendingRevenue    int64
	CancelledRevenue  int64
	CheckedOutRevenue int64
}

// IsZero reports whether applying the delta would change nothing
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// BucketDay truncates a timestamp to its UTC calendar day
func BucketDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
