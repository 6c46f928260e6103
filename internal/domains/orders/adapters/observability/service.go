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

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

const tracerName = "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order workflow engine with tracing, logging, and metrics.
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

// CreateOrder runs the placement workflow with instrumentation.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderWithItems, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder",
		attribute.String("order.customer_id", input.CustomerID),
		attribute.Int("order.line_count", len(input.Lines)),
	)
	defer span.End()

	s.logInfo(ctx, "creating order",
		slog.String("customer_id", input.CustomerID), slog.Int("lines", len(input.Lines)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order",
			slog.String("customer_id", input.CustomerID))
	}
	if result != nil && result.Order != nil {
		span.SetAttributes(attribute.String("order.code", result.Order.Code))
		s.metrics.recordCreated(ctx, result.Order.Status)
		s.logInfo(ctx, "order created",
			slog.String("order", result.Order.Code),
			slog.Float64("total_price", result.Order.TotalPrice))
	}
	return result, nil
}

// GetAllOrders lists every order with items.
func (s *Service) GetAllOrders(ctx context.Context) ([]*ports.OrderWithItems, error) {
	ctx, span := s.startSpan(ctx, "Service.GetAllOrders")
	defer span.End()

	result, err := s.inner.GetAllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// GetOrderByCode loads one order.
func (s *Service) GetOrderByCode(ctx context.Context, code string) (*ports.OrderWithItems, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrderByCode", attribute.String("order.code", code))
	defer span.End()

	result, err := s.inner.GetOrderByCode(ctx, code)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order", code))
	}
	return result, nil
}

// GetOrdersByCustomer lists a customer's orders.
func (s *Service) GetOrdersByCustomer(ctx context.Context, customerID string) ([]*ports.OrderWithItems, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrdersByCustomer", attribute.String("order.customer_id", customerID))
	defer span.End()

	result, err := s.inner.GetOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load customer orders",
			slog.String("customer_id", customerID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// GetOrdersByRole returns the role-scoped order view.
func (s *Service) GetOrdersByRole(ctx context.Context, actor ports.Actor) ([]*ports.OrderWithItems, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrdersByRole",
		attribute.String("order.actor_id", actor.UserID),
		attribute.String("order.actor_role", string(actor.Role)),
	)
	defer span.End()

	result, err := s.inner.GetOrdersByRole(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load role-scoped orders",
			slog.String("user_id", actor.UserID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// UpdateOrder reconciles line quantities against stock.
func (s *Service) UpdateOrder(ctx context.Context, input ports.UpdateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrder",
		attribute.String("order.code", input.OrderCode),
		attribute.Int("order.line_count", len(input.Lines)),
	)
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order", input.OrderCode))
	result, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order", input.OrderCode))
	}
	if result != nil {
		s.metrics.recordUpdated(ctx, result.Status)
		s.logInfo(ctx, "order updated",
			slog.String("order", result.Code), slog.Float64("total_price", result.TotalPrice))
	}
	return result, nil
}

// UpdateOrderStatus moves an order through its lifecycle.
func (s *Service) UpdateOrderStatus(ctx context.Context, input ports.UpdateOrderStatusInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrderStatus",
		attribute.String("order.code", input.OrderCode),
		attribute.String("order.new_status", input.NewStatus),
	)
	defer span.End()

	s.logInfo(ctx, "updating order status",
		slog.String("order", input.OrderCode), slog.String("status", input.NewStatus))
	result, err := s.inner.UpdateOrderStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status",
			slog.String("order", input.OrderCode))
	}
	if result != nil {
		s.metrics.recordStatusChanged(ctx, result.Status)
	}
	return result, nil
}

// UpdateOrderItemStatus moves one item and may cascade order delivery.
func (s *Service) UpdateOrderItemStatus(ctx context.Context, itemID, newStatus string) (*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrderItemStatus",
		attribute.String("order.item_id", itemID),
		attribute.String("order.item_new_status", newStatus),
	)
	defer span.End()

	s.logInfo(ctx, "updating order item status",
		slog.String("item", itemID), slog.String("status", newStatus))
	result, err := s.inner.UpdateOrderItemStatus(ctx, itemID, newStatus)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order item status",
			slog.String("item", itemID))
	}
	return result, nil
}

// GetOrderItem loads one item.
func (s *Service) GetOrderItem(ctx context.Context, itemID string) (*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrderItem", attribute.String("order.item_id", itemID))
	defer span.End()

	result, err := s.inner.GetOrderItem(ctx, itemID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order item", slog.String("item", itemID))
	}
	return result, nil
}

// ListOrderItems lists all items.
func (s *Service) ListOrderItems(ctx context.Context) ([]*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrderItems")
	defer span.End()

	result, err := s.inner.ListOrderItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list order items")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// GetOrderItemByOrderAndProduct resolves the item for an (order, product) pair.
func (s *Service) GetOrderItemByOrderAndProduct(ctx context.Context, orderCode, productCode string) (*domain.OrderItem, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrderItemByOrderAndProduct",
		attribute.String("order.code", orderCode),
		attribute.String("order.product_code", productCode),
	)
	defer span.End()

	result, err := s.inner.GetOrderItemByOrderAndProduct(ctx, orderCode, productCode)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order item",
			slog.String("order", orderCode), slog.String("product", productCode))
	}
	return result, nil
}

// DeleteOrderItem removes one item.
func (s *Service) DeleteOrderItem(ctx context.Context, itemID string) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrderItem", attribute.String("order.item_id", itemID))
	defer span.End()

	s.logInfo(ctx, "deleting order item", slog.String("item", itemID))
	if err := s.inner.DeleteOrderItem(ctx, itemID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order item", slog.String("item", itemID))
	}
	return nil
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
	ordersCreated metric.Int64Counter
	ordersUpdated metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersUpdated, _ := m.Int64Counter("orders.service.updated", metric.WithDescription("Number of orders updated"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{
		ordersCreated: ordersCreated,
		ordersUpdated: ordersUpdated,
		statusChanges: statusChanges,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.ordersCreated, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.ordersUpdated, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.statusChanges, 1, attribute.String("order.status", string(status)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
