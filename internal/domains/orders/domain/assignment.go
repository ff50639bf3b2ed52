package domain

import (
	"fmt"
	"time"
)

// ShipperAssignment binds one shipper to an order awaiting delivery. At most
// one uncompleted assignment may exist per order, and a shipper carries at
// most one uncompleted assignment at a time.
type ShipperAssignment struct {
	ID          int64
	OrderID     int64
	ShipperID   int64
	AssignedAt  time.Time
	CompletedAt *time.Time
}

// Active reports whether the delivery has not been confirmed yet.
func (a *ShipperAssignment) Active() bool {
	return a != nil && a.CompletedAt == nil
}

// Complete stamps the delivery confirmation time. It reports false when the
// assignment was already completed.
func (a *ShipperAssignment) Complete(at time.Time) bool {
	if a.CompletedAt != nil {
		return false
	}
	a.CompletedAt = &at
	return true
}

// ShipperUnavailableError signals the shipper already carries an active
// delivery for another order.
type ShipperUnavailableError struct {
	ShipperID int64
	// BusyWithOrderID is the order currently holding the shipper.
	BusyWithOrderID int64
}

func (e *ShipperUnavailableError) Error() string {
	return fmt.Sprintf("shipper %d already has an active delivery for order %d", e.ShipperID, e.BusyWithOrderID)
}

// OrderAlreadyAssignedError signals the order already holds an active assignment.
type OrderAlreadyAssignedError struct {
	OrderID   int64
	ShipperID int64
}

func (e *OrderAlreadyAssignedError) Error() string {
	return fmt.Sprintf("order %d is already assigned to shipper %d", e.OrderID, e.ShipperID)
}
