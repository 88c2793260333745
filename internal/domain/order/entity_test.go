// internal/domain/order/entity_test.go
package order

import (
	"testing"
	"time"
)

func TestMergeItemDeltaAddToExisting(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Size: "M", Quantity: 1, Price: 100, TotalPrice: 100, Status: ItemStatusInCart},
	}

	merged := MergeItemDelta(items, 1, "M", 2, "Tee", "", 100)

	if len(merged) != 1 {
		t.Fatalf("expected 1 item, got %d", len(merged))
	}
	if merged[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", merged[0].Quantity)
	}
	if merged[0].TotalPrice != 300 {
		t.Errorf("expected total 300, got %d", merged[0].TotalPrice)
	}
}

func TestMergeItemDeltaAppendsNewItem(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Size: "M", Quantity: 1, Price: 100, TotalPrice: 100, Status: ItemStatusInCart},
	}

	merged := MergeItemDelta(items, 2, "L", 1, "Hoodie", "img.jpg", 250)

	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %d", len(merged))
	}
	added := merged[1]
	if added.ProductID != 2 || added.Size != "L" || added.Quantity != 1 {
		t.Errorf("unexpected appended item: %+v", added)
	}
	if added.TotalPrice != 250 {
		t.Errorf("expected total 250, got %d", added.TotalPrice)
	}
	if added.Status != ItemStatusInCart {
		t.Errorf("expected in_cart status, got %s", added.Status)
	}
}

func TestMergeItemDeltaRemovesAtZero(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Size: "M", Quantity: 2, Price: 100, TotalPrice: 200, Status: ItemStatusInCart},
	}

	merged := MergeItemDelta(items, 1, "M", -2, "Tee", "", 100)

	if len(merged) != 0 {
		t.Fatalf("expected item removed, got %d items", len(merged))
	}
}

func TestMergeItemDeltaNegativeDeltaOnMissingItemIsNoop(t *testing.T) {
	merged := MergeItemDelta(nil, 1, "M", -1, "Tee", "", 100)

	if len(merged) != 0 {
		t.Fatalf("expected no items, got %d", len(merged))
	}
}

func TestMergeItemDeltaMatchesOnSize(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Size: "M", Quantity: 1, Price: 100, TotalPrice: 100, Status: ItemStatusInCart},
	}

	merged := MergeItemDelta(items, 1, "L", 1, "Tee", "", 100)

	if len(merged) != 2 {
		t.Fatalf("expected separate lines per size, got %d items", len(merged))
	}
}

func TestMergeItemDeltaSkipsCheckedOutItems(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Size: "M", Quantity: 2, Price: 100, TotalPrice: 200, Status: ItemStatusCheckedOut},
	}

	merged := MergeItemDelta(items, 1, "M", 1, "Tee", "", 100)

	if len(merged) != 2 {
		t.Fatalf("expected checked-out item untouched plus a new line, got %d items", len(merged))
	}
	if merged[0].Quantity != 2 || merged[0].Status != ItemStatusCheckedOut {
		t.Errorf("checked-out item was modified: %+v", merged[0])
	}
}

func TestMergeItemDeltaRoundTrip(t *testing.T) {
	original := []OrderItem{
		{ProductID: 1, Size: "M", Quantity: 2, Price: 100, TotalPrice: 200, Status: ItemStatusInCart},
		{ProductID: 2, Size: "none", Quantity: 1, Price: 250, TotalPrice: 250, Status: ItemStatusCheckedOut},
	}

	tests := []struct {
		name      string
		productID uint
		size      string
		delta     int
	}{
		{"existing line", 1, "M", 3},
		{"fresh line", 3, "L", 2},
		{"fresh one-size line", 4, "none", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := MergeItemDelta(original, tt.productID, tt.size, tt.delta, "Item", "", 100)
			restored := MergeItemDelta(after, tt.productID, tt.size, -tt.delta, "Item", "", 100)

			if len(restored) != len(original) {
				t.Fatalf("expected %d items after round trip, got %d", len(original), len(restored))
			}
			for i := range original {
				if restored[i].ProductID != original[i].ProductID ||
					restored[i].Size != original[i].Size ||
					restored[i].Quantity != original[i].Quantity ||
					restored[i].TotalPrice != original[i].TotalPrice ||
					restored[i].Status != original[i].Status {
					t.Errorf("item %d changed across round trip: got %+v, want %+v", i, restored[i], original[i])
				}
			}
			if SumItemTotals(restored) != SumItemTotals(original) {
				t.Errorf("total changed across round trip: got %d, want %d", SumItemTotals(restored), SumItemTotals(original))
			}
		})
	}
}

func TestOrderEmptied(t *testing.T) {
	ord := Order{
		Items: []OrderItem{
			{ProductID: 1, Size: "M", Quantity: 1, Price: 100, TotalPrice: 100, Status: ItemStatusInCart},
		},
	}
	if ord.Emptied() {
		t.Error("order with an in_cart item should not be emptied")
	}

	ord.Items = MergeItemDelta(ord.Items, 1, "M", -1, "Tee", "", 100)
	if !ord.Emptied() {
		t.Error("expected order emptied after last item removed")
	}

	ord.Items = []OrderItem{
		{ProductID: 2, Size: "L", Quantity: 1, Price: 250, TotalPrice: 250, Status: ItemStatusCheckedOut},
	}
	if ord.Emptied() {
		t.Error("order with a checked-out item should not be emptied")
	}
}

func TestVisibleInHistory(t *testing.T) {
	inCart := OrderItem{Status: ItemStatusInCart}
	checkedOut := OrderItem{Status: ItemStatusCheckedOut}

	tests := []struct {
		name    string
		order   Order
		visible bool
	}{
		{"pending cart mirror", Order{Status: OrderStatusPending, Items: []OrderItem{inCart}}, false},
		{"pending with no items", Order{Status: OrderStatusPending}, false},
		{"pending after checkout", Order{Status: OrderStatusPending, Items: []OrderItem{checkedOut}}, true},
		{"pending with mixed items", Order{Status: OrderStatusPending, Items: []OrderItem{inCart, checkedOut}}, true},
		{"processing", Order{Status: OrderStatusProcessing, Items: []OrderItem{checkedOut}}, true},
		{"delivered", Order{Status: OrderStatusDelivered, Items: []OrderItem{checkedOut}}, true},
		{"cancelled mirror", Order{Status: OrderStatusCancelled}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.VisibleInHistory(); got != tt.visible {
				t.Errorf("expected visible=%v, got %v", tt.visible, got)
			}
		})
	}
}

func TestSumItemTotals(t *testing.T) {
	items := []OrderItem{
		{TotalPrice: 200},
		{TotalPrice: 250},
	}
	if got := SumItemTotals(items); got != 450 {
		t.Errorf("expected 450, got %d", got)
	}
	if got := SumItemTotals(nil); got != 0 {
		t.Errorf("expected 0 for empty items, got %d", got)
	}
}

func TestOrderTotalMatchesItems(t *testing.T) {
	ord := Order{
		TotalAmount: 450,
		Items: []OrderItem{
			{Price: 100, Quantity: 2, TotalPrice: 200, Status: ItemStatusCheckedOut},
			{Price: 250, Quantity: 1, TotalPrice: 250, Status: ItemStatusCheckedOut},
		},
	}

	for _, item := range ord.Items {
		if item.TotalPrice != item.Price*int64(item.Quantity) {
			t.Errorf("item total %d does not match price*quantity", item.TotalPrice)
		}
	}
	if ord.TotalAmount != SumItemTotals(ord.Items) {
		t.Errorf("order total %d does not match item sum %d", ord.TotalAmount, SumItemTotals(ord.Items))
	}
	if ord.CheckedOutTotal() != 450 {
		t.Errorf("expected checked-out total 450, got %d", ord.CheckedOutTotal())
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		ord := Order{Status: tt.from}
		if got := ord.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if !IsValidStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if IsValidStatus("refunded") {
		t.Error("expected refunded to be invalid")
	}
	if IsValidStatus("") {
		t.Error("expected empty status to be invalid")
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		hint string
		want PaymentMethod
	}{
		{"cash", PaymentMethodCashOnDelivery},
		{"COD", PaymentMethodCashOnDelivery},
		{"cash_on_delivery", PaymentMethodCashOnDelivery},
		{"bank", PaymentMethodBankTransfer},
		{"transfer", PaymentMethodBankTransfer},
		{"online", PaymentMethodCardStripe},
		{"card", PaymentMethodCardStripe},
		{"Stripe", PaymentMethodCardStripe},
		{"paypal", PaymentMethodCardPayPal},
		{" PayPal ", PaymentMethodCardPayPal},
		{"", PaymentMethodCashOnDelivery},
		{"bitcoin", PaymentMethodCashOnDelivery},
	}

	for _, tt := range tests {
		if got := NormalizePaymentMethod(tt.hint); got != tt.want {
			t.Errorf("NormalizePaymentMethod(%q) = %s, want %s", tt.hint, got, tt.want)
		}
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	ord := Order{ID: 42, CreatedAt: time.Date(2025, 8, 28, 10, 0, 0, 0, time.UTC)}

	if got := ord.GenerateOrderNumber(); got != "ORD-20250828-00042" {
		t.Errorf("unexpected order number: %s", got)
	}
}

func TestInCartAndCheckedOutItemViews(t *testing.T) {
	ord := Order{
		Items: []OrderItem{
			{ProductID: 1, Status: ItemStatusInCart, TotalPrice: 100},
			{ProductID: 2, Status: ItemStatusCheckedOut, TotalPrice: 200},
			{ProductID: 3, Status: ItemStatusCheckedOut, TotalPrice: 300},
		},
	}

	if got := len(ord.InCartItems()); got != 1 {
		t.Errorf("expected 1 in_cart item, got %d", got)
	}
	if got := len(ord.CheckedOutItems()); got != 2 {
		t.Errorf("expected 2 checked_out items, got %d", got)
	}
	if got := ord.CheckedOutTotal(); got != 500 {
		t.Errorf("expected checked-out total 500, got %d", got)
	}
}
