// internal/domain/cart/service_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampTarget(t *testing.T) {
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
		wantErr bool
	}{
		{"add to empty line", 0, 3, 3, false},
		{"add to existing line", 2, 5, 7, false},
		{"remove existing line", 4, -4, 0, false},
		{"remove more than present clamps to zero", 2, -5, 0, false},
		{"remove from absent line is a no-op", 0, -3, 0, false},
		{"zero delta on absent line", 0, 0, 0, false},
		{"exactly at max", 8, 2, 10, false},
		{"above max rejected", 8, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clampTarget(tt.current, tt.delta, 10)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrQuantityRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
