package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

var (
	_ ports.Repository           = (*Repository)(nil)
	_ ports.AssignmentRepository = (*Repository)(nil)
)

// Repository is an in-memory order persistence adapter. Orders and
// assignments share one mutex so transition guards and assignment uniqueness
// are checked and applied atomically, matching the postgres adapter.
type Repository struct {
	mu               sync.RWMutex
	orders           map[int64]*domain.Order
	assignments      map[int64]*domain.ShipperAssignment
	nextID           int64
	nextAssignmentID int64
	now              func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		orders:      map[int64]*domain.Order{},
		assignments: map[int64]*domain.ShipperAssignment{},
		now:         time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	if existing, ok := r.orders[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) List(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status != "" && order.Status != status {
			continue
		}
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// Transition applies the status write only when the current status matches.
func (r *Repository) Transition(_ context.Context, id int64, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return false, ports.ErrNotFound
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = r.now()
	return true, nil
}

func (r *Repository) Assign(_ context.Context, orderID, shipperID int64) (*domain.ShipperAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, assignment := range r.assignments {
		if !assignment.Active() {
			continue
		}
		if assignment.OrderID == orderID {
			return nil, &domain.OrderAlreadyAssignedError{OrderID: orderID, ShipperID: assignment.ShipperID}
		}
		if assignment.ShipperID == shipperID {
			return nil, &domain.ShipperUnavailableError{ShipperID: shipperID, BusyWithOrderID: assignment.OrderID}
		}
	}
	r.nextAssignmentID++
	assignment := &domain.ShipperAssignment{
		ID:         r.nextAssignmentID,
		OrderID:    orderID,
		ShipperID:  shipperID,
		AssignedAt: r.now(),
	}
	r.assignments[assignment.ID] = assignment
	clone := *assignment
	return &clone, nil
}

func (r *Repository) ActiveByOrder(_ context.Context, orderID int64) (*domain.ShipperAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	assignment := r.activeByOrderLocked(orderID)
	if assignment == nil {
		return nil, ports.ErrAssignmentNotFound
	}
	clone := *assignment
	return &clone, nil
}

func (r *Repository) Complete(_ context.Context, orderID int64, at time.Time) (*domain.ShipperAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment := r.activeByOrderLocked(orderID)
	if assignment == nil {
		return nil, ports.ErrAssignmentNotFound
	}
	assignment.Complete(at)
	clone := *assignment
	return &clone, nil
}

func (r *Repository) Remove(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment := r.activeByOrderLocked(orderID)
	if assignment == nil {
		return ports.ErrAssignmentNotFound
	}
	delete(r.assignments, assignment.ID)
	return nil
}

func (r *Repository) activeByOrderLocked(orderID int64) *domain.ShipperAssignment {
	for _, assignment := range r.assignments {
		if assignment.OrderID == orderID && assignment.Active() {
			return assignment
		}
	}
	return nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Lines = append([]domain.LineItem(nil), o.Lines...)
	if o.PromotionID != nil {
		id := *o.PromotionID
		clone.PromotionID = &id
	}
	return &clone
}
