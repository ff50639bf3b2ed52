package ports

import (
	"context"
	"errors"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

var (
	ErrNotFound           = errors.New("order not found")
	ErrAssignmentNotFound = errors.New("shipper assignment not found")
)

// Repository persists orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns orders, optionally filtered by status ("" means all).
	List(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	// Transition writes `to` only when the order is currently in `from`; the
	// guard and the write are one atomic operation. It reports false when the
	// order exists but is not in `from`.
	Transition(ctx context.Context, id int64, from, to domain.Status) (bool, error)
}

// AssignmentRepository persists shipper assignments. Assign's uniqueness
// guards (one active assignment per order, one per shipper) are evaluated
// atomically with the insert.
type AssignmentRepository interface {
	// Assign creates an active assignment. It fails with
	// *domain.ShipperUnavailableError when the shipper holds an uncompleted
	// assignment for a different order, and *domain.OrderAlreadyAssignedError
	// when the order already has an active assignment.
	Assign(ctx context.Context, orderID, shipperID int64) (*domain.ShipperAssignment, error)
	ActiveByOrder(ctx context.Context, orderID int64) (*domain.ShipperAssignment, error)
	// Complete stamps completed_at on the order's active assignment.
	Complete(ctx context.Context, orderID int64, at time.Time) (*domain.ShipperAssignment, error)
	// Remove deletes the order's active assignment.
	Remove(ctx context.Context, orderID int64) error
}
