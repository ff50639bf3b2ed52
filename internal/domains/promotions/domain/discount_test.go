package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func percentPromo(value int64) *Promotion {
	return &Promotion{Name: "p", Type: DiscountPercent, Value: value}
}

func fixedPromo(value int64) *Promotion {
	return &Promotion{Name: "p", Type: DiscountFixed, Value: value}
}

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		name      string
		promotion *Promotion
		subtotal  int64
		discount  int64
		final     int64
	}{
		{"no promotion", nil, 100_000, 0, 100_000},
		{"percent", percentPromo(10), 200_000, 20_000, 180_000},
		{"percent floors", percentPromo(10), 15, 1, 14},
		{"percent full", percentPromo(100), 50_000, 50_000, 0},
		{"fixed", fixedPromo(30_000), 100_000, 30_000, 70_000},
		{"fixed clamps to subtotal", fixedPromo(150_000), 100_000, 100_000, 0},
		{"zero subtotal", percentPromo(10), 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			discount, final := ApplyDiscount(tc.promotion, tc.subtotal)
			require.Equal(t, tc.discount, discount)
			require.Equal(t, tc.final, final)
			require.GreaterOrEqual(t, final, int64(0))
			require.LessOrEqual(t, discount, max(tc.subtotal, 0))
		})
	}
}
