package application

import (
	"context"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"
)

// Service orchestrates the promotions bounded context: eligibility resolution
// plus campaign create/update validation.
type Service struct {
	repo    ports.Repository
	catalog ports.BookCatalog
}

func NewService(repo ports.Repository, catalog ports.BookCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// ListAvailableBooks computes the catalog minus the union of books held by any
// promotion whose period overlaps the candidate range.
func (s *Service) ListAvailableBooks(ctx context.Context, period domain.Range, excludeID int64) ([]*catalogdomain.Book, error) {
	if err := period.Validate(); err != nil {
		return nil, mapError(err)
	}
	taken, err := s.committedBooks(ctx, period, excludeID)
	if err != nil {
		return nil, err
	}
	books, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*catalogdomain.Book, 0, len(books))
	for _, book := range books {
		if _, held := taken[book.ID]; !held {
			available = append(available, book)
		}
	}
	return available, nil
}

// Create validates a new campaign against the conflict invariant and persists it.
// The repository re-checks the invariant inside its own unit of work; this
// pre-check exists to produce the conflict detail before any write is attempted.
func (s *Service) Create(ctx context.Context, input ports.PromotionInput) (*domain.Promotion, error) {
	promotion, err := domain.NewPromotion(0, input.Name, input.Type, input.Value, input.Period, input.BookIDs)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.checkConflicts(ctx, promotion, 0); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, promotion)
}

// Update revalidates an existing campaign, excluding it from its own conflict check.
func (s *Service) Update(ctx context.Context, id int64, input ports.PromotionInput) (*domain.Promotion, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	promotion, err := domain.NewPromotion(existing.ID, input.Name, input.Type, input.Value, input.Period, input.BookIDs)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.checkConflicts(ctx, promotion, existing.ID); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, promotion)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Promotion, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkConflicts(ctx context.Context, promotion *domain.Promotion, excludeID int64) error {
	taken, err := s.committedBooks(ctx, promotion.Period, excludeID)
	if err != nil {
		return err
	}
	var conflicting []int64
	for _, bookID := range promotion.BookIDs {
		if _, held := taken[bookID]; held {
			conflicting = append(conflicting, bookID)
		}
	}
	if len(conflicting) > 0 {
		return &domain.BookConflictError{BookIDs: conflicting}
	}
	return nil
}

func (s *Service) committedBooks(ctx context.Context, period domain.Range, excludeID int64) (map[int64]struct{}, error) {
	overlapping, err := s.repo.FindOverlapping(ctx, period, excludeID)
	if err != nil {
		return nil, err
	}
	tagged := make([]domain.TaggedRange, 0, len(overlapping))
	for _, promotion := range overlapping {
		tagged = append(tagged, promotion.Tagged())
	}
	taken := map[int64]struct{}{}
	for _, conflict := range domain.ExcludeConflicting(period, tagged, excludeID) {
		for _, bookID := range conflict.BookIDs {
			taken[bookID] = struct{}{}
		}
	}
	return taken, nil
}

var _ ports.Service = (*Service)(nil)
