package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

// CreateInvoiceActivityName persists an invoice and reserves its stock.
const CreateInvoiceActivityName = "orders.activities.CreateInvoice"

// Application error types the activity classifies failures into. Callers on
// the other side of the Temporal server translate them back to the service's
// typed errors.
const (
	ErrTypeInvalidInput      = "InvalidInput"
	ErrTypeNotFound          = "NotFound"
	ErrTypeInsufficientStock = "InsufficientStock"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// CreateInvoice runs the invoice use case. Validation and stock failures are
// marked non-retryable so the workflow surfaces them instead of retrying a
// request that can never succeed.
func (a *Activities) CreateInvoice(ctx context.Context, input ordersports.CreateInvoiceInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("invoice activity not initialized")
		return nil, errors.New("invoice activity not initialized")
	}
	logger.Info("CreateInvoice activity started", "lines", len(input.Lines))
	order, err := a.service.CreateInvoice(ctx, input)
	if err != nil {
		logger.Error("CreateInvoice activity failed", "error", err)
		return nil, classifyError(err)
	}
	logger.Info("CreateInvoice activity completed", "orderId", order.ID)
	return order, nil
}

func classifyError(err error) error {
	var insufficient *catalogdomain.InsufficientStockError
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, ordersports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.As(err, &insufficient):
		// The book ids travel as details; the cause does not survive the wire.
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, err, insufficient.BookIDs)
	default:
		return err
	}
}
