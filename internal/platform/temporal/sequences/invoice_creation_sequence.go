package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	orderactivities "github.com/bookhaven/bookstore-api/internal/platform/temporal/activities/orders"
)

// RunInvoiceCreationSequence executes the ordered set of activities needed to
// record a sales invoice.
func RunInvoiceCreationSequence(ctx workflow.Context, input ordersports.CreateInvoiceInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("invoice creation sequence started", "lines", len(input.Lines))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.CreateInvoiceActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("invoice creation sequence failed", "error", err)
		return nil, err
	}
	logger.Info("invoice creation sequence completed", "orderId", order.ID)
	return &order, nil
}
