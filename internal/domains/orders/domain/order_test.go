package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_FullTable(t *testing.T) {
	statuses := []Status{StatusPending, StatusConfirmed, StatusDelivering, StatusDelivered, StatusCancelled}
	events := []Event{EventConfirm, EventAssignShipper, EventUnassignShipper, EventComplete, EventCancel}

	allowed := map[Status]map[Event]Status{
		StatusPending:   {EventConfirm: StatusConfirmed, EventCancel: StatusCancelled},
		StatusConfirmed: {EventAssignShipper: StatusDelivering, EventCancel: StatusCancelled},
		StatusDelivering: {
			EventComplete:        StatusDelivered,
			EventUnassignShipper: StatusConfirmed,
		},
	}

	for _, from := range statuses {
		for _, event := range events {
			next, err := NextStatus(from, event)
			want, ok := allowed[from][event]
			if ok {
				require.NoError(t, err, "%s + %s", from, event)
				assert.Equal(t, want, next)
				continue
			}
			var invalid *InvalidTransitionError
			require.ErrorAs(t, err, &invalid, "%s + %s must be rejected", from, event)
			assert.Equal(t, from, invalid.From)
			assert.Equal(t, event, invalid.Event)
		}
	}
}

func TestNextStatus_UnknownStatus(t *testing.T) {
	_, err := NextStatus(Status("shipped"), EventConfirm)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusDelivering.Terminal())
	assert.False(t, Status("shipped").Terminal())
}

func TestNewOrder_ComputesAmounts(t *testing.T) {
	lines := []LineItem{
		{BookID: 1, Quantity: 2, UnitPrice: 50_000},
		{BookID: 2, Quantity: 1, UnitPrice: 120_000},
	}

	order, err := NewOrder(lines, "Lan", "0901234567", "12 Nguyen Trai", "cod", nil, 20_000)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, int64(220_000), order.TotalAmount)
	assert.Equal(t, int64(20_000), order.DiscountAmount)
	assert.Equal(t, int64(200_000), order.FinalAmount)
}

func TestNewOrder_ClampsDiscountToTotal(t *testing.T) {
	lines := []LineItem{{BookID: 1, Quantity: 1, UnitPrice: 30_000}}

	order, err := NewOrder(lines, "Lan", "", "", "cod", nil, 100_000)
	require.NoError(t, err)

	assert.Equal(t, int64(30_000), order.DiscountAmount)
	assert.Equal(t, int64(0), order.FinalAmount)
}

func TestNewOrder_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		lines    []LineItem
		discount int64
		want     error
	}{
		{name: "no lines", lines: nil, want: ErrNoLines},
		{name: "zero quantity", lines: []LineItem{{BookID: 1, Quantity: 0, UnitPrice: 10}}, want: ErrInvalidQuantity},
		{name: "negative price", lines: []LineItem{{BookID: 1, Quantity: 1, UnitPrice: -1}}, want: ErrInvalidUnitPrice},
		{name: "negative discount", lines: []LineItem{{BookID: 1, Quantity: 1, UnitPrice: 10}}, discount: -1, want: ErrNegativeDiscount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.lines, "", "", "", "", nil, tt.discount)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApply_MutatesOnlyOnLegalEvent(t *testing.T) {
	order := &Order{Status: StatusPending, Lines: []LineItem{{BookID: 1, Quantity: 1, UnitPrice: 10}}}

	require.NoError(t, order.Apply(EventConfirm))
	assert.Equal(t, StatusConfirmed, order.Status)

	err := order.Apply(EventComplete)
	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StatusConfirmed, order.Status)
}
