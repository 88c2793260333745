// internal/domain/revenue/ledger_test.go
package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransitionDeltaNewOrder(t *testing.T) {
	t.Parallel()

	delta := TransitionDelta(nil, OrderState{Status: "pending", Total: 100})

	assert.Equal(t, int64(1), delta.OrdersCount)
	assert.Equal(t, int64(100), delta.PendingRevenue)
	assert.Zero(t, delta.DeliveredRevenue)
	assert.Zero(t, delta.DailyRevenue)
	assert.Zero(t, delta.CancelledRevenue)
	assert.Zero(t, delta.CheckedOutRevenue)
}

func TestTransitionDeltaQuantityChangeWhilePending(t *testing.T) {
	t.Parallel()

	prev := OrderState{Status: "pending", Total: 100}
	delta := TransitionDelta(&prev, OrderState{Status: "pending", Total: 300})

	assert.Zero(t, delta.OrdersCount)
	assert.Equal(t, int64(200), delta.PendingRevenue)
}

func TestTransitionDeltaPendingToDelivered(t *testing.T) {
	t.Parallel()

	prev := OrderState{Status: "pending", Total: 300, CheckedOutTotal: 300}
	delta := TransitionDelta(&prev, OrderState{Status: "delivered", Total: 300, CheckedOutTotal: 300})

	assert.Equal(t, int64(-300), delta.PendingRevenue)
	assert.Equal(t, int64(300), delta.DeliveredRevenue)
	assert.Equal(t, int64(300), delta.DailyRevenue)
	assert.Zero(t, delta.CheckedOutRevenue)
}

func TestTransitionDeltaPendingToCancelled(t *testing.T) {
	t.Parallel()

	prev := OrderState{Status: "pending", Total: 250}
	delta := TransitionDelta(&prev, OrderState{Status: "cancelled", Total: 250})

	assert.Equal(t, int64(-250), delta.PendingRevenue)
	assert.Equal(t, int64(250), delta.CancelledRevenue)
}

func TestTransitionDeltaCheckout(t *testing.T) {
	t.Parallel()

	// Checkout keeps the order pending but its items become checked out
	prev := OrderState{Status: "pending", Total: 500, CheckedOutTotal: 0}
	delta := TransitionDelta(&prev, OrderState{Status: "pending", Total: 500, CheckedOutTotal: 500})

	assert.Zero(t, delta.PendingRevenue)
	assert.Equal(t, int64(500), delta.CheckedOutRevenue)
}

func TestTransitionDeltaIdempotentOnUnchangedState(t *testing.T) {
	t.Parallel()

	// Re-applying the same state, as when an admin saves notes twice,
	// must not move any counter.
	state := OrderState{Status: "delivered", Total: 300, CheckedOutTotal: 300}
	delta := TransitionDelta(&state, state)

	assert.True(t, delta.IsZero())
}

func TestTransitionDeltaUnknownStatusCountsAsPending(t *testing.T) {
	t.Parallel()

	prev := OrderState{Status: "pending", Total: 100}
	delta := TransitionDelta(&prev, OrderState{Status: "processing", Total: 100})

	// processing is neither delivered nor cancelled, so the contribution
	// stays in the pending bucket and nothing moves
	assert.True(t, delta.IsZero())
}

func TestBucketDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2025, 8, 28, 2, 30, 0, 0, loc) // 2025-08-27 21:30 UTC

	day := BucketDay(ts)

	assert.Equal(t, time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC), day)
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{"daily", PeriodDaily, false},
		{"monthly", PeriodMonthly, false},
		{"yearly", PeriodYearly, false},
		{"", PeriodDaily, false},
		{"weekly", "", true},
		{"DAILY", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPeriod, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
