package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	catalogports "github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

// DefaultLowStockThreshold triggers the vendor "Stock Alert" notification.
const DefaultLowStockThreshold = 10

// Service is the order workflow engine. It orchestrates order creation
// (stock reservation, item persistence, low-stock fan-out), reconciling
// updates, and the order/item status machine.
//
// Failure policy: a mid-loop failure aborts the request, and reservations
// already applied for earlier lines stay applied. There is no compensating
// transaction; tests assert this behavior rather than assume rollback.
type Service struct {
	orders      ports.OrderRepository
	items       ports.OrderItemRepository
	catalog     catalogports.Repository
	notifier    ports.Notifier
	tokens      ports.TokenDirectory
	idempotency ports.IdempotencyStore
	codes       *CodeGenerator
	logger      *slog.Logger
	lowStock    int
}

type Option func(*Service)

// WithNotifier injects the push-notification dispatcher.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithTokenDirectory injects the device-token resolver.
func WithTokenDirectory(d ports.TokenDirectory) Option {
	return func(s *Service) { s.tokens = d }
}

// WithIdempotencyStore enables Idempotency-Key replay on order creation.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithCodeGenerator overrides the order-code generator.
func WithCodeGenerator(g *CodeGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.codes = g
		}
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLowStockThreshold overrides the notification threshold.
func WithLowStockThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.lowStock = threshold
		}
	}
}

// NewService wires the workflow engine with its stores and collaborators.
func NewService(orders ports.OrderRepository, items ports.OrderItemRepository, catalog catalogports.Repository, opts ...Option) *Service {
	s := &Service{
		orders:   orders,
		items:    items,
		catalog:  catalog,
		codes:    NewCodeGenerator(),
		logger:   slog.Default(),
		lowStock: DefaultLowStockThreshold,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder converts a cart into a persisted order. Each line is processed
// in request order: resolve the product, reserve stock atomically, accumulate
// the total, and snapshot the line. Low-stock notifications fire per
// qualifying line and never fail the order.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderWithItems, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer id must not be empty", ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: product list must not be empty", ErrInvalidInput)
	}

	var requestHash string
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" && s.idempotency != nil {
		hash, err := FingerprintCreateOrder(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		record, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if record.RequestHash != requestHash {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.GetOrderByCode(ctx, record.OrderCode)
		}
	}

	code, err := s.codes.Generate(ctx, s.orders.ExistsByCode)
	if err != nil {
		return nil, err
	}

	var totalPrice float64
	pending := make([]*domain.OrderItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be greater than zero", ErrInvalidInput, line.ProductCode)
		}
		product, err := s.catalog.FindByCode(ctx, line.ProductCode)
		if err != nil {
			return nil, err
		}
		if product.Deleted {
			return nil, fmt.Errorf("%w: product %s", catalogports.ErrNotFound, line.ProductCode)
		}
		newQuantity, err := s.catalog.ReserveStock(ctx, line.ProductCode, line.Quantity, 0)
		if err != nil {
			return nil, err
		}
		totalPrice += product.Price * float64(line.Quantity)
		if newQuantity < s.lowStock {
			s.notifyLowStock(ctx, product.VendorID, product.Name, newQuantity)
		}
		item, err := domain.NewOrderItem(code, product.Code, product.Name, product.VendorID, line.Quantity, product.Price)
		if err != nil {
			return nil, mapError(err)
		}
		pending = append(pending, item)
	}

	order, err := domain.NewOrder(code, input.CustomerID)
	if err != nil {
		return nil, mapError(err)
	}
	order.TotalPrice = totalPrice
	saved, err := s.orders.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.OrderItem, 0, len(pending))
	for _, item := range pending {
		item.OrderCode = saved.Code
		savedItem, err := s.items.Insert(ctx, item)
		if err != nil {
			return nil, err
		}
		items = append(items, savedItem)
	}

	if requestHash != "" {
		record := ports.IdempotencyRecord{
			Key:         strings.TrimSpace(input.IdempotencyKey),
			RequestHash: requestHash,
			OrderCode:   saved.Code,
		}
		if _, err := s.idempotency.Save(ctx, record); err != nil {
			s.logger.Warn("failed to persist idempotency record",
				slog.String("order", saved.Code), slog.String("error", err.Error()))
		}
	}

	return &ports.OrderWithItems{Order: saved, Items: items}, nil
}

// GetAllOrders returns every order with its full item list.
func (s *Service) GetAllOrders(ctx context.Context) ([]*ports.OrderWithItems, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// GetOrderByCode loads one order and its items.
func (s *Service) GetOrderByCode(ctx context.Context, code string) (*ports.OrderWithItems, error) {
	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	items, err := s.items.FindAllByOrder(ctx, order.Code)
	if err != nil {
		return nil, err
	}
	return &ports.OrderWithItems{Order: order, Items: items}, nil
}

// GetOrdersByCustomer lists a customer's orders with items.
func (s *Service) GetOrdersByCustomer(ctx context.Context, customerID string) ([]*ports.OrderWithItems, error) {
	orders, err := s.orders.FindAllByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no orders for customer %s", ports.ErrOrderNotFound, customerID)
	}
	return s.attachItems(ctx, orders)
}

// GetOrdersByRole returns the role-scoped order view. Admins see every order
// with every item. Vendors see only orders containing at least one of their
// items, and only their items within those orders.
func (s *Service) GetOrdersByRole(ctx context.Context, actor ports.Actor) ([]*ports.OrderWithItems, error) {
	role := actor.Role
	if role == "" {
		role = RoleFromUserID(actor.UserID)
	}
	switch role {
	case ports.RoleAdmin:
		result, err := s.GetAllOrders(ctx)
		if err != nil {
			return nil, err
		}
		if len(result) == 0 {
			return nil, fmt.Errorf("%w: no orders for user %s", ports.ErrOrderNotFound, actor.UserID)
		}
		return result, nil
	case ports.RoleVendor:
		return s.vendorOrders(ctx, actor.UserID)
	default:
		return nil, ErrInvalidRole
	}
}

func (s *Service) vendorOrders(ctx context.Context, vendorID string) ([]*ports.OrderWithItems, error) {
	vendorItems, err := s.items.FindAllByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	codes := make([]string, 0, len(vendorItems))
	for _, item := range vendorItems {
		if !seen[item.OrderCode] {
			seen[item.OrderCode] = true
			codes = append(codes, item.OrderCode)
		}
	}
	orders, err := s.orders.FindAllByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	result := make([]*ports.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := s.items.FindAllByOrder(ctx, order.Code)
		if err != nil {
			return nil, err
		}
		relevant := make([]*domain.OrderItem, 0, len(items))
		for _, item := range items {
			if item.VendorID == vendorID {
				relevant = append(relevant, item)
			}
		}
		if len(relevant) == 0 {
			continue
		}
		result = append(result, &ports.OrderWithItems{Order: order, Items: relevant})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no orders for vendor %s", ports.ErrOrderNotFound, vendorID)
	}
	return result, nil
}

// UpdateOrder reconciles the listed lines against their order items. Every
// line fully replaces that item's quantity; availability is checked against
// the headroom of stock plus the old reservation.
func (s *Service) UpdateOrder(ctx context.Context, input ports.UpdateOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: product list must not be empty", ErrInvalidInput)
	}
	order, err := s.orders.FindByCode(ctx, input.OrderCode)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, fmt.Errorf("%w: cannot update order %s", ErrInvalidState, order.Code)
	}

	var totalPrice float64
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %s must be greater than zero", ErrInvalidInput, line.ProductCode)
		}
		product, err := s.catalog.FindByCode(ctx, line.ProductCode)
		if err != nil {
			return nil, err
		}
		item, err := s.items.FindByOrderAndProduct(ctx, order.Code, line.ProductCode)
		if err != nil {
			return nil, err
		}
		if _, err := s.catalog.ReserveStock(ctx, line.ProductCode, line.Quantity, item.Quantity); err != nil {
			return nil, err
		}
		totalPrice += product.Price * float64(line.Quantity)
		item.Quantity = line.Quantity
		item.Price = product.Price
		if err := s.items.Update(ctx, item); err != nil {
			return nil, err
		}
	}

	if err := s.orders.UpdateTotalPrice(ctx, order.Code, totalPrice); err != nil {
		return nil, err
	}
	return s.orders.FindByCode(ctx, order.Code)
}

// UpdateOrderStatus sets status and/or note on a non-terminal order.
func (s *Service) UpdateOrderStatus(ctx context.Context, input ports.UpdateOrderStatusInput) (*domain.Order, error) {
	order, err := s.orders.FindByCode(ctx, input.OrderCode)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, fmt.Errorf("%w: cannot update status of order %s", ErrInvalidState, order.Code)
	}
	if err := order.Transition(domain.Status(input.NewStatus)); err != nil {
		return nil, mapError(err)
	}
	if input.Note != "" {
		order.Note = input.Note
	}
	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}
	return s.orders.FindByCode(ctx, order.Code)
}

// UpdateOrderItemStatus moves one item through its lifecycle. When the last
// item of an order reaches Delivered, the parent order is marked Delivered as
// a derived side effect.
func (s *Service) UpdateOrderItemStatus(ctx context.Context, itemID, newStatus string) (*domain.OrderItem, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByCode(ctx, item.OrderCode)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, fmt.Errorf("%w: cannot update item of order %s", ErrInvalidState, order.Code)
	}
	if err := item.TransitionItem(domain.ItemStatus(newStatus)); err != nil {
		return nil, mapError(err)
	}
	if err := s.items.UpdateStatus(ctx, item.ID, item.Status); err != nil {
		return nil, err
	}
	if item.Status == domain.ItemStatusDelivered {
		siblings, err := s.items.FindAllByOrder(ctx, order.Code)
		if err != nil {
			return nil, err
		}
		if domain.AllDelivered(siblings) {
			order.MarkDelivered()
			if err := s.orders.UpdateStatus(ctx, order); err != nil {
				return nil, err
			}
		}
	}
	return s.items.FindByID(ctx, item.ID)
}

// GetOrderItem loads one item by its system key.
func (s *Service) GetOrderItem(ctx context.Context, itemID string) (*domain.OrderItem, error) {
	return s.items.FindByID(ctx, itemID)
}

// ListOrderItems returns every persisted order item.
func (s *Service) ListOrderItems(ctx context.Context) ([]*domain.OrderItem, error) {
	return s.items.FindAll(ctx)
}

// GetOrderItemByOrderAndProduct resolves the item for an (order, product) pair.
func (s *Service) GetOrderItemByOrderAndProduct(ctx context.Context, orderCode, productCode string) (*domain.OrderItem, error) {
	return s.items.FindByOrderAndProduct(ctx, orderCode, productCode)
}

// DeleteOrderItem removes one item.
func (s *Service) DeleteOrderItem(ctx context.Context, itemID string) error {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return err
	}
	return s.items.Delete(ctx, itemID)
}

// ExistsByProduct lets the catalog use the item store as its delete guard.
func (s *Service) ExistsByProduct(ctx context.Context, productCode string) (bool, error) {
	return s.items.ExistsByProduct(ctx, productCode)
}

func (s *Service) attachItems(ctx context.Context, orders []*domain.Order) ([]*ports.OrderWithItems, error) {
	result := make([]*ports.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := s.items.FindAllByOrder(ctx, order.Code)
		if err != nil {
			return nil, err
		}
		result = append(result, &ports.OrderWithItems{Order: order, Items: items})
	}
	return result, nil
}

func (s *Service) notifyLowStock(ctx context.Context, vendorID, productName string, quantity int) {
	if s.notifier == nil || s.tokens == nil {
		return
	}
	tokens, err := s.tokens.VendorTokens(ctx, vendorID)
	if err != nil {
		s.logger.Warn("failed to resolve vendor tokens for stock alert",
			slog.String("vendor", vendorID), slog.String("error", err.Error()))
		return
	}
	if len(tokens) == 0 {
		return
	}
	body := fmt.Sprintf("Stock for product %s has dropped below %d. Current stock: %d",
		productName, s.lowStock, quantity)
	if err := s.notifier.Notify(ctx, tokens, "Stock Alert", body); err != nil {
		s.logger.Warn("stock alert notification failed",
			slog.String("vendor", vendorID), slog.String("product", productName),
			slog.String("error", err.Error()))
	}
}

// RoleFromUserID derives the caller role from the 3-letter id prefix
// convention. Claims-based roles take precedence when available; this is the
// compatibility fallback for unauthenticated callers.
func RoleFromUserID(userID string) ports.Role {
	switch {
	case strings.HasPrefix(userID, "ADM"):
		return ports.RoleAdmin
	case strings.HasPrefix(userID, "VEN"):
		return ports.RoleVendor
	case strings.HasPrefix(userID, "CSR"):
		return ports.RoleCSR
	case strings.HasPrefix(userID, "CUS"):
		return ports.RoleCustomer
	default:
		return ""
	}
}

var _ ports.Service = (*Service)(nil)
