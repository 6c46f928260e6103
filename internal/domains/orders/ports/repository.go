package ports

import (
	"context"
	"errors"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("order item not found")
)

// OrderRepository persists order headers. Items live in their own store,
// linked by the order code; referential integrity is the workflow's job.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindAllByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	FindAllByCodes(ctx context.Context, codes []string) ([]*domain.Order, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// UpdateStatus persists status, note, and the updated timestamp.
	UpdateStatus(ctx context.Context, order *domain.Order) error
	UpdateTotalPrice(ctx context.Context, code string, total float64) error
}

// OrderItemRepository persists individual order lines.
type OrderItemRepository interface {
	Insert(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error)
	FindByID(ctx context.Context, id string) (*domain.OrderItem, error)
	FindAll(ctx context.Context) ([]*domain.OrderItem, error)
	FindAllByOrder(ctx context.Context, orderCode string) ([]*domain.OrderItem, error)
	FindAllByVendor(ctx context.Context, vendorID string) ([]*domain.OrderItem, error)
	FindByOrderAndProduct(ctx context.Context, orderCode, productCode string) (*domain.OrderItem, error)
	Update(ctx context.Context, item *domain.OrderItem) error
	UpdateStatus(ctx context.Context, id string, status domain.ItemStatus) error
	Delete(ctx context.Context, id string) error
	ExistsByProduct(ctx context.Context, productCode string) (bool, error)
}
