package ports

import (
	"context"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
)

// PromotionInput carries the fields a staff create/update request supplies.
type PromotionInput struct {
	Name    string
	Type    domain.DiscountType
	Value   int64
	Period  domain.Range
	BookIDs []int64
}

// Service exposes promotion use cases to adapters.
type Service interface {
	// ListAvailableBooks returns the catalog minus every book already committed
	// to a promotion overlapping period. excludeID skips the promotion being
	// edited so its own books stay available to it.
	ListAvailableBooks(ctx context.Context, period domain.Range, excludeID int64) ([]*catalogdomain.Book, error)
	Create(ctx context.Context, input PromotionInput) (*domain.Promotion, error)
	Update(ctx context.Context, id int64, input PromotionInput) (*domain.Promotion, error)
	GetByID(ctx context.Context, id int64) (*domain.Promotion, error)
	List(ctx context.Context) ([]*domain.Promotion, error)
	Delete(ctx context.Context, id int64) error
}
