package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository  = (*Repository)(nil)
	_ ports.StockLedger = (*Repository)(nil)
)

// Repository is an in-memory catalog adapter. Books and reservations share one
// mutex so the ledger's check-then-decrement is atomic, matching the guarantee
// the postgres adapter gets from its transaction.
type Repository struct {
	mu           sync.RWMutex
	books        map[int64]*domain.Book
	reservations map[int64]*domain.Reservation
	nextID       int64
	now          func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		books:        map[int64]*domain.Book{},
		reservations: map[int64]*domain.Reservation{},
		now:          time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Repository) Save(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	clone := *book
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
	if existing, ok := r.books[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
		// Stock only moves through Reserve, Reverse, and AdjustStock.
		clone.Stock = existing.Stock
	} else {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.books[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *book
	return &clone, nil
}

func (r *Repository) ListByIDs(_ context.Context, ids []int64) ([]*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	books := make([]*domain.Book, 0, len(ids))
	for _, id := range ids {
		book, ok := r.books[id]
		if !ok {
			return nil, ports.ErrNotFound
		}
		clone := *book
		books = append(books, &clone)
	}
	return books, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	books := make([]*domain.Book, 0, len(r.books))
	for _, book := range r.books {
		clone := *book
		books = append(books, &clone)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *Repository) AdjustStock(_ context.Context, id int64, delta int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return ports.ErrNotFound
	}
	if book.Stock+delta < 0 {
		return &domain.InsufficientStockError{BookIDs: []int64{id}}
	}
	book.Stock += delta
	book.UpdatedAt = r.now()
	return nil
}

// Reserve decrements stock for every line or none at all.
func (r *Repository) Reserve(_ context.Context, orderID int64, lines []domain.ReservationLine) error {
	if len(lines) == 0 {
		return errors.New("no reservation lines")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[orderID]; ok {
		return ports.ErrReservationExists
	}
	var insufficient []int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return domain.ErrInvalidLineQuantity
		}
		book, ok := r.books[line.BookID]
		if !ok {
			return ports.ErrNotFound
		}
		if book.Stock < line.Quantity {
			insufficient = append(insufficient, line.BookID)
		}
	}
	if len(insufficient) > 0 {
		return &domain.InsufficientStockError{BookIDs: insufficient}
	}
	now := r.now()
	for _, line := range lines {
		book := r.books[line.BookID]
		book.Stock -= line.Quantity
		book.UpdatedAt = now
	}
	r.reservations[orderID] = &domain.Reservation{
		OrderID:   orderID,
		Lines:     append([]domain.ReservationLine(nil), lines...),
		CreatedAt: now,
	}
	return nil
}

// Reverse re-credits the reserved quantities. Second and later calls are no-ops.
func (r *Repository) Reverse(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[orderID]
	if !ok {
		return ports.ErrReservationNotFound
	}
	now := r.now()
	if !reservation.MarkReversed(now) {
		return nil
	}
	for _, line := range reservation.Lines {
		if book, ok := r.books[line.BookID]; ok {
			book.Stock += line.Quantity
			book.UpdatedAt = now
		}
	}
	return nil
}
