package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
	"github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product store for development and tests.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	clone.ImageURLs = append([]string(nil), product.ImageURLs...)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	now := time.Now()
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.products[clone.Code] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) FindByCode(_ context.Context, code string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[code]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	clone.ImageURLs = append([]string(nil), product.ImageURLs...)
	return &clone, nil
}

func (r *Repository) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[code]
	return ok, nil
}

func (r *Repository) FindByVendor(_ context.Context, vendorID string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Product
	for _, product := range r.products {
		if product.VendorID != vendorID {
			continue
		}
		clone := *product
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) SetQuantity(_ context.Context, code string, quantity int) error {
	if quantity < 0 {
		return domain.ErrNegativeQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[code]
	if !ok {
		return ports.ErrNotFound
	}
	product.Quantity = quantity
	product.UpdatedAt = time.Now()
	return nil
}

func (r *Repository) ReserveStock(_ context.Context, code string, requested, released int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[code]
	if !ok {
		return 0, ports.ErrNotFound
	}
	headroom := product.Quantity + released
	if headroom < requested {
		return 0, &ports.InsufficientStockError{
			ProductCode: code,
			Available:   headroom,
			Requested:   requested,
		}
	}
	product.Quantity = headroom - requested
	product.UpdatedAt = time.Now()
	return product.Quantity, nil
}

func (r *Repository) LowStock(_ context.Context, threshold int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Product
	for _, product := range r.products {
		if product.Deleted || product.Quantity > threshold {
			continue
		}
		clone := *product
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) SetDeleted(_ context.Context, code string, deleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[code]
	if !ok {
		return ports.ErrNotFound
	}
	product.Deleted = deleted
	product.UpdatedAt = time.Now()
	return nil
}
