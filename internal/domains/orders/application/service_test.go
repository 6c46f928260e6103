package application

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memorycatalog "github.com/shopsphere/commerce-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
	catalogports "github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func (f *fakeOrderRepo) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	copy := *order
	copy.ID = int64(len(f.orders) + 1)
	now := time.Now().UTC()
	copy.CreatedAt, copy.UpdatedAt = now, now
	f.orders[copy.Code] = &copy
	out := copy
	return &out, nil
}

func (f *fakeOrderRepo) FindByCode(_ context.Context, code string) (*domain.Order, error) {
	if o, ok := f.orders[code]; ok {
		copy := *o
		return &copy, nil
	}
	return nil, ports.ErrOrderNotFound
}

func (f *fakeOrderRepo) FindAll(_ context.Context) ([]*domain.Order, error) {
	codes := make([]string, 0, len(f.orders))
	for code := range f.orders {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	list := make([]*domain.Order, 0, len(codes))
	for _, code := range codes {
		copy := *f.orders[code]
		list = append(list, &copy)
	}
	return list, nil
}

func (f *fakeOrderRepo) FindAllByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			copy := *o
			list = append(list, &copy)
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) FindAllByCodes(_ context.Context, codes []string) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, code := range codes {
		if o, ok := f.orders[code]; ok {
			copy := *o
			list = append(list, &copy)
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := f.orders[code]
	return ok, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, order *domain.Order) error {
	stored, ok := f.orders[order.Code]
	if !ok {
		return ports.ErrOrderNotFound
	}
	stored.Status = order.Status
	stored.Note = order.Note
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeOrderRepo) UpdateTotalPrice(_ context.Context, code string, total float64) error {
	stored, ok := f.orders[code]
	if !ok {
		return ports.ErrOrderNotFound
	}
	stored.TotalPrice = total
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeItemRepo struct {
	items map[string]*domain.OrderItem
	seq   int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*domain.OrderItem{}}
}

func (f *fakeItemRepo) Insert(_ context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	copy := *item
	if copy.ID == "" {
		f.seq++
		copy.ID = fmt.Sprintf("item-%d", f.seq)
	}
	now := time.Now().UTC()
	copy.CreatedAt, copy.UpdatedAt = now, now
	f.items[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (f *fakeItemRepo) FindByID(_ context.Context, id string) (*domain.OrderItem, error) {
	if item, ok := f.items[id]; ok {
		copy := *item
		return &copy, nil
	}
	return nil, ports.ErrItemNotFound
}

func (f *fakeItemRepo) FindAll(_ context.Context) ([]*domain.OrderItem, error) {
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	list := make([]*domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		copy := *f.items[id]
		list = append(list, &copy)
	}
	return list, nil
}

func (f *fakeItemRepo) FindAllByOrder(_ context.Context, orderCode string) ([]*domain.OrderItem, error) {
	all, _ := f.FindAll(context.Background())
	var list []*domain.OrderItem
	for _, item := range all {
		if item.OrderCode == orderCode {
			list = append(list, item)
		}
	}
	return list, nil
}

func (f *fakeItemRepo) FindAllByVendor(_ context.Context, vendorID string) ([]*domain.OrderItem, error) {
	all, _ := f.FindAll(context.Background())
	var list []*domain.OrderItem
	for _, item := range all {
		if item.VendorID == vendorID {
			list = append(list, item)
		}
	}
	return list, nil
}

func (f *fakeItemRepo) FindByOrderAndProduct(_ context.Context, orderCode, productCode string) (*domain.OrderItem, error) {
	for _, item := range f.items {
		if item.OrderCode == orderCode && item.ProductCode == productCode {
			copy := *item
			return &copy, nil
		}
	}
	return nil, ports.ErrItemNotFound
}

func (f *fakeItemRepo) Update(_ context.Context, item *domain.OrderItem) error {
	stored, ok := f.items[item.ID]
	if !ok {
		return ports.ErrItemNotFound
	}
	stored.Quantity = item.Quantity
	stored.Price = item.Price
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeItemRepo) UpdateStatus(_ context.Context, id string, status domain.ItemStatus) error {
	stored, ok := f.items[id]
	if !ok {
		return ports.ErrItemNotFound
	}
	stored.Status = status
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ports.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) ExistsByProduct(_ context.Context, productCode string) (bool, error) {
	for _, item := range f.items {
		if item.ProductCode == productCode {
			return true, nil
		}
	}
	return false, nil
}

type recordedNotification struct {
	tokens []string
	title  string
	body   string
}

type fakeNotifier struct {
	sent []recordedNotification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, tokens []string, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedNotification{tokens: tokens, title: title, body: body})
	return nil
}

type fakeTokenDirectory struct {
	byVendor map[string][]string
}

func (f *fakeTokenDirectory) VendorTokens(_ context.Context, vendorID string) ([]string, error) {
	return f.byVendor[vendorID], nil
}

type fakeIdempotencyStore struct {
	records map[string]*ports.IdempotencyRecord
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]*ports.IdempotencyRecord{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	if r, ok := f.records[key]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeIdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if stored, ok := f.records[record.Key]; ok {
		if stored.RequestHash != record.RequestHash || stored.OrderCode != record.OrderCode {
			copy := *stored
			return &copy, ports.ErrIdempotencyConflict
		}
		copy := *stored
		return &copy, nil
	}
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	f.records[record.Key] = &record
	copy := record
	return &copy, nil
}

func seedProduct(t *testing.T, catalog *memorycatalog.Repository, code, vendorID string, price float64, quantity int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(code, "Product "+code, price, quantity, "CAT001", vendorID)
	require.NoError(t, err)
	_, err = catalog.Save(context.Background(), product)
	require.NoError(t, err)
}

func newTestService(t *testing.T) (*Service, *fakeOrderRepo, *fakeItemRepo, *memorycatalog.Repository) {
	t.Helper()
	orders := newFakeOrderRepo()
	items := newFakeItemRepo()
	catalog := memorycatalog.NewRepository()
	svc := NewService(orders, items, catalog)
	return svc, orders, items, catalog
}

func TestCreateOrder_DeductsStockAndComputesTotal(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 25.50, 40)
	seedProduct(t, catalog, "P200", "VEN002", 10.00, 15)

	result, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines: []ports.OrderLine{
			{ProductCode: "P100", Quantity: 2},
			{ProductCode: "P200", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Order.Code, 6)
	require.Equal(t, "O", result.Order.Code[:1])
	require.Equal(t, domain.StatusPurchased, result.Order.Status)
	require.InDelta(t, 2*25.50+3*10.00, result.Order.TotalPrice, 1e-9)
	require.Len(t, result.Items, 2)
	require.Equal(t, domain.ItemStatusPurchased, result.Items[0].Status)
	require.Equal(t, result.Order.Code, result.Items[0].OrderCode)

	p100, err := catalog.FindByCode(context.Background(), "P100")
	require.NoError(t, err)
	require.Equal(t, 38, p100.Quantity)
	p200, err := catalog.FindByCode(context.Background(), "P200")
	require.NoError(t, err)
	require.Equal(t, 12, p200.Quantity)
}

func TestCreateOrder_InsufficientStockKeepsEarlierDeductions(t *testing.T) {
	svc, orders, items, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 10)
	seedProduct(t, catalog, "P200", "VEN001", 5.00, 2)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines: []ports.OrderLine{
			{ProductCode: "P100", Quantity: 4},
			{ProductCode: "P200", Quantity: 5},
		},
	})
	var stockErr *catalogports.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "P200", stockErr.ProductCode)
	require.Equal(t, 2, stockErr.Available)
	require.Equal(t, 5, stockErr.Requested)

	// The failing line leaves its product untouched; the earlier line's
	// deduction stays applied and no order is persisted.
	p100, err := catalog.FindByCode(context.Background(), "P100")
	require.NoError(t, err)
	require.Equal(t, 6, p100.Quantity)
	p200, err := catalog.FindByCode(context.Background(), "P200")
	require.NoError(t, err)
	require.Equal(t, 2, p200.Quantity)

	all, err := orders.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
	stored, err := items.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestCreateOrder_RejectsInvalidInput(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 10)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{CustomerID: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "MISSING", Quantity: 1}},
	})
	require.ErrorIs(t, err, catalogports.ErrNotFound)
}

func TestCreateOrder_LowStockTriggersVendorAlert(t *testing.T) {
	orders := newFakeOrderRepo()
	items := newFakeItemRepo()
	catalog := memorycatalog.NewRepository()
	notifier := &fakeNotifier{}
	tokens := &fakeTokenDirectory{byVendor: map[string][]string{"VEN001": {"token-a", "token-b"}}}
	svc := NewService(orders, items, catalog,
		WithNotifier(notifier), WithTokenDirectory(tokens))
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 12)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 4}},
	})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	require.Equal(t, "Stock Alert", notifier.sent[0].title)
	require.Equal(t, []string{"token-a", "token-b"}, notifier.sent[0].tokens)
	require.Contains(t, notifier.sent[0].body, "Current stock: 8")
}

func TestCreateOrder_NotificationFailureDoesNotFailOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	items := newFakeItemRepo()
	catalog := memorycatalog.NewRepository()
	notifier := &fakeNotifier{err: fmt.Errorf("push gateway unavailable")}
	tokens := &fakeTokenDirectory{byVendor: map[string][]string{"VEN001": {"token-a"}}}
	svc := NewService(orders, items, catalog,
		WithNotifier(notifier), WithTokenDirectory(tokens))
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 6)

	result, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestCreateOrder_IdempotencyReplayAndConflict(t *testing.T) {
	orders := newFakeOrderRepo()
	items := newFakeItemRepo()
	catalog := memorycatalog.NewRepository()
	store := newFakeIdempotencyStore()
	svc := NewService(orders, items, catalog, WithIdempotencyStore(store))
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 20)

	input := ports.CreateOrderInput{
		CustomerID:     "CUS001",
		Lines:          []ports.OrderLine{{ProductCode: "P100", Quantity: 2}},
		IdempotencyKey: "key-1",
	}
	first, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)

	// Same key, same payload: the stored order is replayed without a second
	// stock deduction.
	second, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.Order.Code, second.Order.Code)
	product, err := catalog.FindByCode(context.Background(), "P100")
	require.NoError(t, err)
	require.Equal(t, 18, product.Quantity)

	// Same key, different payload: conflict.
	input.Lines[0].Quantity = 3
	_, err = svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestGetOrdersByRole_AdminSeesAll(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 50)
	seedProduct(t, catalog, "P200", "VEN002", 7.00, 50)

	for _, customer := range []string{"CUS001", "CUS002"} {
		_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
			CustomerID: customer,
			Lines: []ports.OrderLine{
				{ProductCode: "P100", Quantity: 1},
				{ProductCode: "P200", Quantity: 1},
			},
		})
		require.NoError(t, err)
	}

	result, err := svc.GetOrdersByRole(context.Background(), ports.Actor{UserID: "ADM001"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	for _, entry := range result {
		require.Len(t, entry.Items, 2)
	}
}

func TestGetOrdersByRole_VendorSeesOnlyOwnItems(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 5.00, 50)
	seedProduct(t, catalog, "P200", "VEN002", 7.00, 50)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines: []ports.OrderLine{
			{ProductCode: "P100", Quantity: 1},
			{ProductCode: "P200", Quantity: 2},
		},
	})
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS002",
		Lines:      []ports.OrderLine{{ProductCode: "P200", Quantity: 1}},
	})
	require.NoError(t, err)

	result, err := svc.GetOrdersByRole(context.Background(), ports.Actor{UserID: "VEN001"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Items, 1)
	require.Equal(t, "P100", result[0].Items[0].ProductCode)

	// Explicit claims-based role wins over the id prefix.
	result, err = svc.GetOrdersByRole(context.Background(), ports.Actor{UserID: "whatever", Role: ports.RoleVendor})
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
	require.Nil(t, result)

	_, err = svc.GetOrdersByRole(context.Background(), ports.Actor{UserID: "CUS001"})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestGetOrdersByCustomer_EmptyIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.GetOrdersByCustomer(context.Background(), "CUS404")
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestUpdateOrder_HeadroomIncludesExistingReservation(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 5)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 3}},
	})
	require.NoError(t, err)

	// 2 left in stock plus the 3 reserved by this order: 5 is reachable,
	// 8 is not.
	_, err = svc.UpdateOrder(context.Background(), ports.UpdateOrderInput{
		OrderCode: created.Order.Code,
		Lines:     []ports.OrderLine{{ProductCode: "P100", Quantity: 8}},
	})
	var stockErr *catalogports.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, 5, stockErr.Available)

	updated, err := svc.UpdateOrder(context.Background(), ports.UpdateOrderInput{
		OrderCode: created.Order.Code,
		Lines:     []ports.OrderLine{{ProductCode: "P100", Quantity: 5}},
	})
	require.NoError(t, err)
	require.InDelta(t, 50.00, updated.TotalPrice, 1e-9)

	product, err := catalog.FindByCode(context.Background(), "P100")
	require.NoError(t, err)
	require.Equal(t, 0, product.Quantity)
}

func TestUpdateOrder_ReleasesStockWhenQuantityShrinks(t *testing.T) {
	svc, _, items, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 6}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(context.Background(), ports.UpdateOrderInput{
		OrderCode: created.Order.Code,
		Lines:     []ports.OrderLine{{ProductCode: "P100", Quantity: 2}},
	})
	require.NoError(t, err)
	require.InDelta(t, 20.00, updated.TotalPrice, 1e-9)

	product, err := catalog.FindByCode(context.Background(), "P100")
	require.NoError(t, err)
	require.Equal(t, 8, product.Quantity)

	item, err := items.FindByOrderAndProduct(context.Background(), created.Order.Code, "P100")
	require.NoError(t, err)
	require.Equal(t, 2, item.Quantity)
}

func TestUpdateOrder_TerminalOrderRejected(t *testing.T) {
	svc, orders, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 1}},
	})
	require.NoError(t, err)
	created.Order.Status = domain.StatusDispatched
	require.NoError(t, orders.UpdateStatus(context.Background(), created.Order))

	_, err = svc.UpdateOrder(context.Background(), ports.UpdateOrderInput{
		OrderCode: created.Order.Code,
		Lines:     []ports.OrderLine{{ProductCode: "P100", Quantity: 2}},
	})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateOrderStatus_ValidatesAndPersists(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderCode: created.Order.Code,
		NewStatus: "Teleported",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.UpdateOrderStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderCode: created.Order.Code,
		NewStatus: string(domain.StatusCancelled),
		Note:      "customer request",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Status)
	require.Equal(t, "customer request", updated.Note)

	// Note-only update leaves the status untouched.
	noted, err := svc.UpdateOrderStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderCode: created.Order.Code,
		Note:      "second note",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, noted.Status)
	require.Equal(t, "second note", noted.Note)
}

func TestUpdateOrderStatus_TerminalIsImmutable(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderCode: created.Order.Code,
		NewStatus: string(domain.StatusDispatched),
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), ports.UpdateOrderStatusInput{
		OrderCode: created.Order.Code,
		NewStatus: string(domain.StatusCancelled),
	})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateOrderItemStatus_LastDeliveryMarksOrderDelivered(t *testing.T) {
	svc, orders, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)
	seedProduct(t, catalog, "P200", "VEN002", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines: []ports.OrderLine{
			{ProductCode: "P100", Quantity: 1},
			{ProductCode: "P200", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	first, err := svc.UpdateOrderItemStatus(context.Background(), created.Items[0].ID, string(domain.ItemStatusDelivered))
	require.NoError(t, err)
	require.Equal(t, domain.ItemStatusDelivered, first.Status)

	// One undelivered sibling remains, so the order stays Purchased.
	order, err := orders.FindByCode(context.Background(), created.Order.Code)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPurchased, order.Status)

	_, err = svc.UpdateOrderItemStatus(context.Background(), created.Items[1].ID, string(domain.ItemStatusDelivered))
	require.NoError(t, err)

	order, err = orders.FindByCode(context.Background(), created.Order.Code)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, order.Status)

	// The order is terminal now; further item updates are rejected.
	_, err = svc.UpdateOrderItemStatus(context.Background(), created.Items[0].ID, string(domain.ItemStatusShipped))
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateOrderItemStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrderItemStatus(context.Background(), created.Items[0].ID, "Lost")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteOrderItem(t *testing.T) {
	svc, _, items, catalog := newTestService(t)
	seedProduct(t, catalog, "P100", "VEN001", 10.00, 10)

	created, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: "CUS001",
		Lines:      []ports.OrderLine{{ProductCode: "P100", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrderItem(context.Background(), created.Items[0].ID))
	_, err = items.FindByID(context.Background(), created.Items[0].ID)
	require.ErrorIs(t, err, ports.ErrItemNotFound)

	err = svc.DeleteOrderItem(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrItemNotFound)
}

func TestRoleFromUserID(t *testing.T) {
	require.Equal(t, ports.RoleAdmin, RoleFromUserID("ADM123"))
	require.Equal(t, ports.RoleVendor, RoleFromUserID("VEN001"))
	require.Equal(t, ports.RoleCustomer, RoleFromUserID("CUS777"))
	require.Equal(t, ports.RoleCSR, RoleFromUserID("CSR002"))
	require.Equal(t, ports.Role(""), RoleFromUserID("user-1"))
}
