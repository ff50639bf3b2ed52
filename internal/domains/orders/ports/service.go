package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
)

// InvoiceLine is one requested book position on an invoice.
type InvoiceLine struct {
	BookID   int64
	Quantity int32
}

// CreateInvoiceInput carries a sales invoice submission.
type CreateInvoiceInput struct {
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
	PromotionID     *int64
	Lines           []InvoiceLine
}

// Service exposes order fulfillment use cases to adapters.
type Service interface {
	// CreateInvoice snapshots book prices, applies the selected promotion,
	// reserves stock, and persists the order in pending.
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Order, error)
	// ConfirmOrders bulk-confirms pending orders; ids not currently pending
	// are skipped, and the count of actual transitions is returned.
	ConfirmOrders(ctx context.Context, ids []int64) (int, error)
	AssignShipper(ctx context.Context, orderID, shipperID int64) (*domain.ShipperAssignment, error)
	UnassignShipper(ctx context.Context, orderID int64) error
	// CompleteDelivery confirms delivery. A non-zero shipperID must match the
	// assigned shipper; zero means an authorized staff override.
	CompleteDelivery(ctx context.Context, orderID, shipperID int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, status domain.Status) ([]*domain.Order, error)
}

// WorkflowOrchestrator runs invoice creation either inline or on a
// durable-workflow backend.
type WorkflowOrchestrator interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Order, error)
}
