package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	"github.com/bookhaven/bookstore-api/internal/platform/temporal/sequences"
)

const (
	// InvoiceCreationWorkflowName is the public identifier for registering the workflow.
	InvoiceCreationWorkflowName = "orders.workflows.InvoiceCreation"
	// InvoiceCreationTaskQueue is the queue consumed by the worker processing invoice workflows.
	InvoiceCreationTaskQueue = "INVOICE_CREATION"
)

// InvoiceCreationWorkflowInput captures the payload required to record an invoice.
type InvoiceCreationWorkflowInput struct {
	Command ordersports.CreateInvoiceInput
	TraceID string
}

// InvoiceCreationWorkflow orchestrates the activities needed to persist an
// invoice and its stock reservation.
func InvoiceCreationWorkflow(ctx workflow.Context, input InvoiceCreationWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("InvoiceCreationWorkflow started", withTraceID(input.TraceID, "lines", len(input.Command.Lines))...)
	order, err := sequences.RunInvoiceCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("InvoiceCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("InvoiceCreationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
