package ports

import (
	"context"
	"errors"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound            = errors.New("book not found")
	ErrReservationExists   = errors.New("stock reservation already exists for order")
	ErrReservationNotFound = errors.New("stock reservation not found")
)

// Repository persists books.
type Repository interface {
	Save(ctx context.Context, book *domain.Book) (*domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Delete(ctx context.Context, id int64) error
	// AdjustStock applies delta to a book's stock as one atomic operation.
	// The resulting stock must stay non-negative or the adjustment is rejected.
	AdjustStock(ctx context.Context, id int64, delta int32) error
}

// StockLedger validates and commits per-line stock decrements for an order.
// Both operations are all-or-nothing: either every line is applied as a single
// atomic unit or no stock is mutated.
type StockLedger interface {
	// Reserve decrements each line's book stock. It fails with
	// *domain.InsufficientStockError when any line exceeds available stock,
	// in which case nothing is decremented.
	Reserve(ctx context.Context, orderID int64, lines []domain.ReservationLine) error
	// Reverse re-credits the quantities reserved for orderID. Reversing an
	// already-reversed reservation is a no-op.
	Reverse(ctx context.Context, orderID int64) error
}
