// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLines(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Size: "M", Quantity: 2},
		{ProductID: 2, Size: "none", Quantity: 0},
		{ProductID: 3, Size: "L", Quantity: -1},
		{ProductID: 4, Size: "S", Quantity: 1},
	}

	kept, dropped := NormalizeLines(lines)

	assert.Len(t, kept, 2)
	assert.Len(t, dropped, 2)
	assert.Equal(t, uint(1), kept[0].ProductID)
	assert.Equal(t, uint(4), kept[1].ProductID)
	assert.Equal(t, uint(2), dropped[0].ProductID)
	assert.Equal(t, uint(3), dropped[1].ProductID)
}

func TestNormalizeLinesEmpty(t *testing.T) {
	kept, dropped := NormalizeLines(nil)

	assert.Empty(t, kept)
	assert.Empty(t, dropped)
}

func TestCalculateTotals(t *testing.T) {
	items := []LineResponse{
		{ProductID: 1, Quantity: 2, Price: 2499},
		{ProductID: 2, Quantity: 1, Price: 5999},
	}

	totals := CalculateTotals(items)

	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, int64(2*2499+5999), totals.SubTotal)
}

func TestCalculateTotalsEmptyCart(t *testing.T) {
	totals := CalculateTotals(nil)

	assert.Equal(t, 0, totals.ItemCount)
	assert.Equal(t, 0, totals.TotalQuantity)
	assert.Equal(t, int64(0), totals.SubTotal)
}
