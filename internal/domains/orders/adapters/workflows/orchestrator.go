package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	orderactivities "github.com/bookhaven/bookstore-api/internal/platform/temporal/activities/orders"
	invoiceworkflows "github.com/bookhaven/bookstore-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalInvoiceWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineInvoiceWorkflows)(nil)
)

// TemporalInvoiceWorkflows starts invoice workflows on a Temporal cluster.
type TemporalInvoiceWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalInvoiceWorkflows wires a Temporal client into the orchestrator.
func NewTemporalInvoiceWorkflows(c client.Client) *TemporalInvoiceWorkflows {
	return &TemporalInvoiceWorkflows{client: c, taskQueue: invoiceworkflows.InvoiceCreationTaskQueue}
}

// CreateInvoice starts the Temporal workflow that records a sales invoice.
func (o *TemporalInvoiceWorkflows) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal invoice workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildInvoiceWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		invoiceworkflows.InvoiceCreationWorkflow,
		invoiceworkflows.InvoiceCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		// A duplicate submission of the same invoice within one trace attaches
		// to the run already in flight instead of double-charging.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &order, nil
}

// translateWorkflowError restores the typed errors the activity classified
// into ApplicationErrors, so the transport maps invoice failures to the same
// statuses whether the invoice ran inline or on a Temporal cluster.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case orderactivities.ErrTypeNotFound:
		return fmt.Errorf("%w: %s", ports.ErrNotFound, appErr.Message())
	case orderactivities.ErrTypeInsufficientStock:
		var bookIDs []int64
		if appErr.HasDetails() {
			_ = appErr.Details(&bookIDs)
		}
		return &catalogdomain.InsufficientStockError{BookIDs: bookIDs}
	default:
		return err
	}
}

// InlineInvoiceWorkflows executes the service directly without Temporal,
// useful for tests or dev fallbacks.
type InlineInvoiceWorkflows struct {
	service ports.Service
}

// NewInlineInvoiceWorkflows wraps the orders service for synchronous execution.
func NewInlineInvoiceWorkflows(service ports.Service) *InlineInvoiceWorkflows {
	return &InlineInvoiceWorkflows{service: service}
}

// CreateInvoice delegates to the application service without durable orchestration.
func (o *InlineInvoiceWorkflows) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline invoice workflows not configured")
	}
	return o.service.CreateInvoice(ctx, input)
}

func buildInvoiceWorkflowID(input ports.CreateInvoiceInput, traceComponent string) string {
	sum := sha256.New()
	fmt.Fprintf(sum, "%s|%s|%s", input.CustomerPhone, input.PaymentMethod, traceComponent)
	for _, line := range input.Lines {
		fmt.Fprintf(sum, "|%d:%d", line.BookID, line.Quantity)
	}
	return fmt.Sprintf("invoice-creation-%s", hex.EncodeToString(sum.Sum(nil)[:8]))
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
