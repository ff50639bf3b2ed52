package ports

import (
	"context"
	"errors"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
)

var ErrNotFound = errors.New("promotion not found")

// Repository persists promotions.
//
// Save must re-check the book/date conflict invariant inside the same unit of
// work that performs the write and fail with *domain.BookConflictError when
// another committed promotion overlaps the period and shares a book. Service
// level validation alone cannot close the race between two concurrent creates.
type Repository interface {
	Save(ctx context.Context, promotion *domain.Promotion) (*domain.Promotion, error)
	GetByID(ctx context.Context, id int64) (*domain.Promotion, error)
	List(ctx context.Context) ([]*domain.Promotion, error)
	Delete(ctx context.Context, id int64) error
	// FindOverlapping returns promotions whose period overlaps the given range,
	// excluding the promotion identified by excludeID (0 excludes nothing).
	FindOverlapping(ctx context.Context, period domain.Range, excludeID int64) ([]*domain.Promotion, error)
}

// BookCatalog is the slice of the catalog the eligibility resolver needs.
type BookCatalog interface {
	List(ctx context.Context) ([]*catalogdomain.Book, error)
}
