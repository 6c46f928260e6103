package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

// OrderRepository is the in-memory order store used when Postgres is not
// configured. Safe for concurrent use.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	nextID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: map[string]*domain.Order{}}
}

func (r *OrderRepository) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy := *order
	r.nextID++
	copy.ID = r.nextID
	now := time.Now().UTC()
	copy.CreatedAt, copy.UpdatedAt = now, now
	r.orders[copy.Code] = &copy
	out := copy
	return &out, nil
}

func (r *OrderRepository) FindByCode(_ context.Context, code string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[code]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	copy := *order
	return &copy, nil
}

func (r *OrderRepository) FindAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		copy := *order
		list = append(list, &copy)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *OrderRepository) FindAllByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			copy := *order
			list = append(list, &copy)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *OrderRepository) FindAllByCodes(_ context.Context, codes []string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*domain.Order
	for _, code := range codes {
		if order, ok := r.orders[code]; ok {
			copy := *order
			list = append(list, &copy)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *OrderRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.orders[code]
	return ok, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.Code]
	if !ok {
		return ports.ErrOrderNotFound
	}
	stored.Status = order.Status
	stored.Note = order.Note
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *OrderRepository) UpdateTotalPrice(_ context.Context, code string, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[code]
	if !ok {
		return ports.ErrOrderNotFound
	}
	stored.TotalPrice = total
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

// OrderItemRepository is the in-memory order item store. Insertion order is
// preserved so listings are stable.
type OrderItemRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.OrderItem
	order []string
}

func NewOrderItemRepository() *OrderItemRepository {
	return &OrderItemRepository{items: map[string]*domain.OrderItem{}}
}

func (r *OrderItemRepository) Insert(_ context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy := *item
	if copy.ID == "" {
		copy.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	copy.CreatedAt, copy.UpdatedAt = now, now
	r.items[copy.ID] = &copy
	r.order = append(r.order, copy.ID)
	out := copy
	return &out, nil
}

func (r *OrderItemRepository) FindByID(_ context.Context, id string) (*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrItemNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *OrderItemRepository) FindAll(_ context.Context) ([]*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.OrderItem) bool { return true }), nil
}

func (r *OrderItemRepository) FindAllByOrder(_ context.Context, orderCode string) ([]*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(item *domain.OrderItem) bool { return item.OrderCode == orderCode }), nil
}

func (r *OrderItemRepository) FindAllByVendor(_ context.Context, vendorID string) ([]*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(item *domain.OrderItem) bool { return item.VendorID == vendorID }), nil
}

func (r *OrderItemRepository) FindByOrderAndProduct(_ context.Context, orderCode, productCode string) (*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.OrderCode == orderCode && item.ProductCode == productCode {
			copy := *item
			return &copy, nil
		}
	}
	return nil, ports.ErrItemNotFound
}

func (r *OrderItemRepository) Update(_ context.Context, item *domain.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return ports.ErrItemNotFound
	}
	stored.Quantity = item.Quantity
	stored.Price = item.Price
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *OrderItemRepository) UpdateStatus(_ context.Context, id string, status domain.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok {
		return ports.ErrItemNotFound
	}
	stored.Status = status
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *OrderItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ports.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *OrderItemRepository) ExistsByProduct(_ context.Context, productCode string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ProductCode == productCode {
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderItemRepository) collect(match func(*domain.OrderItem) bool) []*domain.OrderItem {
	var list []*domain.OrderItem
	for _, id := range r.order {
		item, ok := r.items[id]
		if !ok || !match(item) {
			continue
		}
		copy := *item
		list = append(list, &copy)
	}
	return list
}
