package ports

import (
	"context"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
)

// Role identifies the caller category for order visibility.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
	RoleCSR      Role = "csr"
)

// Actor is the authenticated (or id-derived) caller of a role-scoped query.
type Actor struct {
	UserID string
	Role   Role
}

// OrderLine is one requested product/quantity pair.
type OrderLine struct {
	ProductCode string
	Quantity    int
}

// CreateOrderInput carries a cart into the workflow. IdempotencyKey is
// optional; when present, retries with the same key replay the stored result.
type CreateOrderInput struct {
	CustomerID     string
	Lines          []OrderLine
	IdempotencyKey string
}

// UpdateOrderInput is a full reconciliation of the listed lines, not a delta.
type UpdateOrderInput struct {
	OrderCode string
	Lines     []OrderLine
}

// UpdateOrderStatusInput updates status and/or note; empty fields are left
// unchanged.
type UpdateOrderStatusInput struct {
	OrderCode string
	NewStatus string
	Note      string
}

// OrderWithItems is the read projection joining an order and its lines.
type OrderWithItems struct {
	Order *domain.Order
	Items []*domain.OrderItem
}

// Service exposes the order workflow use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderWithItems, error)
	GetAllOrders(ctx context.Context) ([]*OrderWithItems, error)
	GetOrderByCode(ctx context.Context, code string) (*OrderWithItems, error)
	GetOrdersByCustomer(ctx context.Context, customerID string) ([]*OrderWithItems, error)
	GetOrdersByRole(ctx context.Context, actor Actor) ([]*OrderWithItems, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, input UpdateOrderStatusInput) (*domain.Order, error)
	UpdateOrderItemStatus(ctx context.Context, itemID, newStatus string) (*domain.OrderItem, error)
	GetOrderItem(ctx context.Context, itemID string) (*domain.OrderItem, error)
	ListOrderItems(ctx context.Context) ([]*domain.OrderItem, error)
	GetOrderItemByOrderAndProduct(ctx context.Context, orderCode, productCode string) (*domain.OrderItem, error)
	DeleteOrderItem(ctx context.Context, itemID string) error
}
