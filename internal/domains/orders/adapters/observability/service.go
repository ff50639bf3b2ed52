package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

const tracerName = "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateInvoice records a new sales invoice with instrumentation.
func (s *Service) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateInvoice", attribute.Int("order.lines", len(input.Lines)))
	defer span.End()

	s.logInfo(ctx, "creating invoice", slog.Int("lines", len(input.Lines)))
	order, err := s.inner.CreateInvoice(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create invoice")
	}
	if order != nil {
		s.metrics.recordInvoiceCreated(ctx)
		span.SetAttributes(attribute.Int64("order.id", order.ID))
		s.logInfo(ctx, "invoice created",
			slog.Int64("order.id", order.ID),
			slog.Int64("order.final_amount", order.FinalAmount),
		)
	}
	return order, nil
}

// ConfirmOrders bulk-confirms pending orders.
func (s *Service) ConfirmOrders(ctx context.Context, ids []int64) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.ConfirmOrders", attribute.Int("order.ids.requested", len(ids)))
	defer span.End()

	s.logInfo(ctx, "confirming orders", slog.Int("requested", len(ids)))
	confirmed, err := s.inner.ConfirmOrders(ctx, ids)
	if err != nil {
		return confirmed, s.handleError(ctx, span, err, "failed to confirm orders")
	}
	s.metrics.recordConfirmed(ctx, int64(confirmed))
	span.SetAttributes(attribute.Int("order.confirmed", confirmed))
	s.logInfo(ctx, "orders confirmed", slog.Int("confirmed", confirmed), slog.Int("requested", len(ids)))
	return confirmed, nil
}

// AssignShipper hands a confirmed order to a shipper.
func (s *Service) AssignShipper(ctx context.Context, orderID, shipperID int64) (*domain.ShipperAssignment, error) {
	ctx, span := s.startSpan(ctx, "Service.AssignShipper",
		attribute.Int64("order.id", orderID),
		attribute.Int64("shipper.id", shipperID),
	)
	defer span.End()

	s.logInfo(ctx, "assigning shipper", slog.Int64("order.id", orderID), slog.Int64("shipper.id", shipperID))
	assignment, err := s.inner.AssignShipper(ctx, orderID, shipperID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign shipper", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "shipper assigned", slog.Int64("order.id", orderID), slog.Int64("shipper.id", shipperID))
	return assignment, nil
}

// UnassignShipper returns a delivering order to confirmed.
func (s *Service) UnassignShipper(ctx context.Context, orderID int64) error {
	ctx, span := s.startSpan(ctx, "Service.UnassignShipper", attribute.Int64("order.id", orderID))
	defer span.End()

	s.logInfo(ctx, "unassigning shipper", slog.Int64("order.id", orderID))
	if err := s.inner.UnassignShipper(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to unassign shipper", slog.Int64("order.id", orderID))
	}
	s.logInfo(ctx, "shipper unassigned", slog.Int64("order.id", orderID))
	return nil
}

// CompleteDelivery marks a delivering order delivered.
func (s *Service) CompleteDelivery(ctx context.Context, orderID, shipperID int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CompleteDelivery",
		attribute.Int64("order.id", orderID),
		attribute.Int64("shipper.id", shipperID),
	)
	defer span.End()

	s.logInfo(ctx, "completing delivery", slog.Int64("order.id", orderID))
	order, err := s.inner.CompleteDelivery(ctx, orderID, shipperID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete delivery", slog.Int64("order.id", orderID))
	}
	s.metrics.recordDelivered(ctx)
	s.logInfo(ctx, "delivery completed", slog.Int64("order.id", orderID))
	return order, nil
}

// CancelOrder cancels an order and restores its reserved stock.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CancelOrder", attribute.Int64("order.id", orderID))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", orderID))
	order, err := s.inner.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", orderID))
	return order, nil
}

// GetByID loads a single order.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByID", attribute.Int64("order.id", id))
	defer span.End()

	order, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

// List returns orders, optionally filtered by status.
func (s *Service) List(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.List", attribute.String("order.status.filter", string(status)))
	defer span.End()

	orders, err := s.inner.List(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(orders)))
	return orders, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	invoicesCreated metric.Int64Counter
	ordersConfirmed metric.Int64Counter
	deliveriesDone  metric.Int64Counter
	ordersCancelled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	invoicesCreated, _ := m.Int64Counter("orders.service.invoices_created", metric.WithDescription("Number of invoices created"))
	ordersConfirmed, _ := m.Int64Counter("orders.service.confirmed", metric.WithDescription("Number of orders confirmed"))
	deliveriesDone, _ := m.Int64Counter("orders.service.delivered", metric.WithDescription("Number of deliveries completed"))
	ordersCancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	return serviceMetrics{
		invoicesCreated: invoicesCreated,
		ordersConfirmed: ordersConfirmed,
		deliveriesDone:  deliveriesDone,
		ordersCancelled: ordersCancelled,
	}
}

func (m serviceMetrics) recordInvoiceCreated(ctx context.Context) {
	addCounter(ctx, m.invoicesCreated, 1)
}

func (m serviceMetrics) recordConfirmed(ctx context.Context, count int64) {
	addCounter(ctx, m.ordersConfirmed, count)
}

func (m serviceMetrics) recordDelivered(ctx context.Context) {
	addCounter(ctx, m.deliveriesDone, 1)
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	addCounter(ctx, m.ordersCancelled, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
