package ports

import (
	"context"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	promodomain "github.com/bookhaven/bookstore-api/internal/domains/promotions/domain"
)

// BookCatalog is the slice of the catalog invoice creation needs.
type BookCatalog interface {
	GetByID(ctx context.Context, id int64) (*catalogdomain.Book, error)
}

// StockLedger mirrors the catalog ledger contract consumed by fulfillment.
type StockLedger interface {
	Reserve(ctx context.Context, orderID int64, lines []catalogdomain.ReservationLine) error
	Reverse(ctx context.Context, orderID int64) error
}

// PromotionResolver loads the promotion an invoice references.
type PromotionResolver interface {
	GetByID(ctx context.Context, id int64) (*promodomain.Promotion, error)
}
