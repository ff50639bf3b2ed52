package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	promodomain "github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
)

// Service orchestrates order fulfillment: invoice creation, the status state
// machine, shipper assignment, and cancellation.
type Service struct {
	orders      ports.Repository
	assignments ports.AssignmentRepository
	catalog     ports.BookCatalog
	ledger      ports.StockLedger
	promotions  ports.PromotionResolver
	now         func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(orders ports.Repository, assignments ports.AssignmentRepository, catalog ports.BookCatalog, ledger ports.StockLedger, promotions ports.PromotionResolver, opts ...Option) *Service {
	s := &Service{
		orders:      orders,
		assignments: assignments,
		catalog:     catalog,
		ledger:      ledger,
		promotions:  promotions,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateInvoice builds the order from current book prices, applies the
// selected promotion's discount, and reserves stock. The order only survives
// when the reservation commits; a failed reservation leaves nothing behind.
func (s *Service) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, mapError(domain.ErrNoLines)
	}
	lines := make([]domain.LineItem, 0, len(input.Lines))
	reservation := make([]catalogdomain.ReservationLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
		book, err := s.catalog.GetByID(ctx, line.BookID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.LineItem{
			BookID:    book.ID,
			Quantity:  line.Quantity,
			UnitPrice: book.Price,
		})
		reservation = append(reservation, catalogdomain.ReservationLine{
			BookID:   book.ID,
			Quantity: line.Quantity,
		})
	}

	var promotion *promodomain.Promotion
	if input.PromotionID != nil {
		var err error
		promotion, err = s.promotions.GetByID(ctx, *input.PromotionID)
		if err != nil {
			return nil, err
		}
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.Subtotal()
	}
	discount, _ := promodomain.ApplyDiscount(promotion, subtotal)

	order, err := domain.NewOrder(lines, input.CustomerName, input.CustomerPhone, input.ShippingAddress, input.PaymentMethod, input.PromotionID, discount)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Reserve(ctx, saved.ID, reservation); err != nil {
		// Compensate the write so a rejected invoice leaves no order behind.
		if delErr := s.orders.Delete(ctx, saved.ID); delErr != nil {
			slog.WarnContext(ctx, "failed to delete order after rejected reservation",
				slog.Int64("orderId", saved.ID), slog.String("error", delErr.Error()))
		}
		return nil, err
	}
	return saved, nil
}

// ConfirmOrders transitions every currently-pending id to confirmed and
// reports how many actually moved. Non-pending and unknown ids are skipped:
// confirmation is idempotent per id and partial success is expected.
func (s *Service) ConfirmOrders(ctx context.Context, ids []int64) (int, error) {
	confirmed := 0
	for _, id := range ids {
		ok, err := s.orders.Transition(ctx, id, domain.StatusPending, domain.StatusConfirmed)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return confirmed, err
		}
		if ok {
			confirmed++
		}
	}
	return confirmed, nil
}

// AssignShipper binds a free shipper to a confirmed order and moves it to
// delivering. The assignment insert carries the one-active-delivery guards;
// the status write carries the confirmed guard. A failed status write rolls
// the assignment back.
func (s *Service) AssignShipper(ctx context.Context, orderID, shipperID int64) (*domain.ShipperAssignment, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	assignment, err := s.assignments.Assign(ctx, orderID, shipperID)
	if err != nil {
		return nil, err
	}
	ok, err := s.orders.Transition(ctx, orderID, domain.StatusConfirmed, domain.StatusDelivering)
	if err == nil && !ok {
		err = s.invalidTransition(ctx, orderID, domain.EventAssignShipper)
	}
	if err != nil {
		_ = s.assignments.Remove(ctx, orderID)
		return nil, err
	}
	return assignment, nil
}

// UnassignShipper releases the active assignment and returns the order to
// confirmed.
func (s *Service) UnassignShipper(ctx context.Context, orderID int64) error {
	if _, err := s.assignments.ActiveByOrder(ctx, orderID); err != nil {
		return err
	}
	ok, err := s.orders.Transition(ctx, orderID, domain.StatusDelivering, domain.StatusConfirmed)
	if err != nil {
		return err
	}
	if !ok {
		return s.invalidTransition(ctx, orderID, domain.EventUnassignShipper)
	}
	return s.assignments.Remove(ctx, orderID)
}

// CompleteDelivery confirms delivery and stamps the assignment's completion
// time, which is the authoritative delivered timestamp for reporting.
func (s *Service) CompleteDelivery(ctx context.Context, orderID, shipperID int64) (*domain.Order, error) {
	assignment, err := s.assignments.ActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if shipperID != 0 && assignment.ShipperID != shipperID {
		return nil, ErrShipperMismatch
	}
	ok, err := s.orders.Transition(ctx, orderID, domain.StatusDelivering, domain.StatusDelivered)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.invalidTransition(ctx, orderID, domain.EventComplete)
	}
	if _, err := s.assignments.Complete(ctx, orderID, s.now()); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// CancelOrder cancels a pending or confirmed order and re-credits its stock.
// The reversal is idempotent, and a second cancel fails at the status guard
// before it could reach the ledger. An order that never got a reservation,
// as when invoice compensation could not delete it, still cancels cleanly.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	ok, err := s.orders.Transition(ctx, orderID, domain.StatusPending, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		ok, err = s.orders.Transition(ctx, orderID, domain.StatusConfirmed, domain.StatusCancelled)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, s.invalidTransition(ctx, orderID, domain.EventCancel)
	}
	if err := s.ledger.Reverse(ctx, orderID); err != nil && !errors.Is(err, catalogports.ErrReservationNotFound) {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return s.orders.List(ctx, status)
}

func (s *Service) invalidTransition(ctx context.Context, orderID int64, event domain.Event) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	return &domain.InvalidTransitionError{From: order.Status, Event: event}
}

var _ ports.Service = (*Service)(nil)
