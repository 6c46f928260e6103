package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// InsufficientStockError reports a refused stock reservation with the figures
// the caller needs to surface (available vs requested).
type InsufficientStockError struct {
	ProductCode string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductCode, e.Available, e.Requested)
}

// Repository persists products and owns every stock mutation. ReserveStock is
// the only way quantity decreases, so the check-then-deduct race stays closed
// at the storage layer.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindByVendor(ctx context.Context, vendorID string) ([]*domain.Product, error)
	// SetQuantity overwrites the stock level (restock/admin path).
	SetQuantity(ctx context.Context, code string, quantity int) error
	// ReserveStock atomically applies quantity = quantity + released - requested,
	// refusing with *InsufficientStockError when quantity + released < requested.
	// released is the quantity logically returned first (0 on order creation,
	// the old item quantity on order update). It returns the new stock level.
	ReserveStock(ctx context.Context, code string, requested, released int) (int, error)
	// LowStock lists non-deleted products at or below the threshold.
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	// SetDeleted flips the soft-delete flag.
	SetDeleted(ctx context.Context, code string, deleted bool) error
}

// OrderItemChecker answers whether any order item references a product. The
// orders store implements it; the catalog uses it as a delete guard.
type OrderItemChecker interface {
	ExistsByProduct(ctx context.Context, productCode string) (bool, error)
}
