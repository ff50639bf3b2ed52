package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	AddBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	UpdateBook(ctx context.Context, id int64, book *domain.Book) (*domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Delete(ctx context.Context, id int64) error
	Restock(ctx context.Context, id int64, quantity int32) (*domain.Book, error)
}
