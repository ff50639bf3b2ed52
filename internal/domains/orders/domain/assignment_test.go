package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipperAssignment_CompleteOnce(t *testing.T) {
	assignment := &ShipperAssignment{ID: 1, OrderID: 7, ShipperID: 3, AssignedAt: time.Now()}
	require.True(t, assignment.Active())

	first := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.True(t, assignment.Complete(first))
	assert.False(t, assignment.Active())
	require.NotNil(t, assignment.CompletedAt)
	assert.Equal(t, first, *assignment.CompletedAt)

	assert.False(t, assignment.Complete(first.Add(time.Hour)))
	assert.Equal(t, first, *assignment.CompletedAt)
}

func TestShipperAssignment_NilIsNotActive(t *testing.T) {
	var assignment *ShipperAssignment
	assert.False(t, assignment.Active())
}
