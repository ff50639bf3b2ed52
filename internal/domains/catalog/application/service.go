package application

import (
	"context"
	"errors"

	"github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	if err := book.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book.ID = existing.ID
	// Stock is owned by the reservation ledger; catalog edits never touch it.
	book.Stock = existing.Stock
	if err := book.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, book)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Restock credits quantity units of stock to a book.
func (s *Service) Restock(ctx context.Context, id int64, quantity int32) (*domain.Book, error) {
	if quantity <= 0 {
		return nil, mapError(domain.ErrInvalidLineQuantity)
	}
	if err := s.repo.AdjustStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
