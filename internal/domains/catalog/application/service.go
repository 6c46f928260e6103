package application

import (
	"context"

	"github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
	"github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
)

// Service exposes the catalog operations the order workflow and vendor
// tooling depend on. Catalog browsing/CRUD beyond these lives elsewhere.
type Service struct {
	repo   ports.Repository
	orders ports.OrderItemChecker
}

func NewService(repo ports.Repository, orders ports.OrderItemChecker) *Service {
	return &Service{repo: repo, orders: orders}
}

// GetByCode loads a product by its custom identifier.
func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return s.repo.FindByCode(ctx, code)
}

// GetByVendor lists a vendor's products.
func (s *Service) GetByVendor(ctx context.Context, vendorID string) ([]*domain.Product, error) {
	return s.repo.FindByVendor(ctx, vendorID)
}

// LowStock lists products at or below the given threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return s.repo.LowStock(ctx, threshold)
}

// Restock overwrites a product's stock level.
func (s *Service) Restock(ctx context.Context, code string, quantity int) error {
	if quantity < 0 {
		return mapError(domain.ErrNegativeQuantity)
	}
	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		return err
	}
	return s.repo.SetQuantity(ctx, code, quantity)
}

// Deactivate soft-deletes a product unless an order item still references it.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		return err
	}
	if s.orders != nil {
		referenced, err := s.orders.ExistsByProduct(ctx, code)
		if err != nil {
			return err
		}
		if referenced {
			return ErrProductInUse
		}
	}
	return s.repo.SetDeleted(ctx, code, true)
}
