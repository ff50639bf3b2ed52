package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPromotion_Validation(t *testing.T) {
	period := mustRange(t, "2025-01-01", "2025-01-31")

	cases := []struct {
		name    string
		build   func() (*Promotion, error)
		wantErr error
	}{
		{"empty name", func() (*Promotion, error) {
			return NewPromotion(0, "  ", DiscountPercent, 10, period, []int64{1})
		}, ErrEmptyName},
		{"unknown type", func() (*Promotion, error) {
			return NewPromotion(0, "Tết", "loyalty", 10, period, []int64{1})
		}, ErrInvalidDiscountType},
		{"percent above 100", func() (*Promotion, error) {
			return NewPromotion(0, "Tết", DiscountPercent, 101, period, []int64{1})
		}, ErrInvalidDiscountValue},
		{"negative fixed", func() (*Promotion, error) {
			return NewPromotion(0, "Tết", DiscountFixed, -1, period, []int64{1})
		}, ErrInvalidDiscountValue},
		{"no books", func() (*Promotion, error) {
			return NewPromotion(0, "Tết", DiscountPercent, 10, period, nil)
		}, ErrNoBooks},
		{"duplicate books", func() (*Promotion, error) {
			return NewPromotion(0, "Tết", DiscountPercent, 10, period, []int64{1, 2, 1})
		}, ErrDuplicateBook},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	promotion, err := NewPromotion(0, "Tết", DiscountPercent, 10, period, []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, promotion.BookIDs)
}

func TestBookConflictError_NamesBooks(t *testing.T) {
	err := &BookConflictError{BookIDs: []int64{3, 7}}
	require.Contains(t, err.Error(), "3, 7")
}
