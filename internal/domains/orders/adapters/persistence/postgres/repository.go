package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsphere/commerce-api/internal/domains/orders/domain"
	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

var (
	_ ports.OrderRepository     = (*OrderRepository)(nil)
	_ ports.OrderItemRepository = (*OrderItemRepository)(nil)
)

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Code       string    `gorm:"column:code;uniqueIndex"`
	CustomerID string    `gorm:"column:customer_id;index"`
	TotalPrice float64   `gorm:"column:total_price"`
	Status     string    `gorm:"column:status;index"`
	Note       string    `gorm:"column:note"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord stores one product line with its price and name snapshot.
type orderItemRecord struct {
	ID          string    `gorm:"primaryKey;column:id"`
	OrderCode   string    `gorm:"column:order_code;index"`
	ProductCode string    `gorm:"column:product_code;index"`
	ProductName string    `gorm:"column:product_name"`
	VendorID    string    `gorm:"column:vendor_id;index"`
	Quantity    int       `gorm:"column:quantity"`
	Price       float64   `gorm:"column:price"`
	Status      string    `gorm:"column:status;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// OrderRepository persists orders in PostgreSQL using GORM.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository wires a PostgreSQL-backed order store. Caller manages
// DB lifecycle.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	repo := &OrderRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toOrderRecord(order)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindByCode(ctx, record.Code)
}

func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return toOrders(records), nil
}

func (r *OrderRepository) FindAllByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").
		Find(&records, "customer_id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return toOrders(records), nil
}

func (r *OrderRepository) FindAllByCodes(ctx context.Context, codes []string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").
		Find(&records, "code IN ?", codes).Error; err != nil {
		return nil, err
	}
	return toOrders(records), nil
}

func (r *OrderRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("code = ?", order.Code).
		Updates(map[string]any{
			"status":     string(order.Status),
			"note":       order.Note,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) UpdateTotalPrice(ctx context.Context, code string, total float64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("code = ?", code).
		Updates(map[string]any{"total_price": total, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// OrderItemRepository persists order items in PostgreSQL using GORM.
type OrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) *OrderItemRepository {
	repo := &OrderItemRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderItemRecord{})
	}
	return repo
}

func (r *OrderItemRepository) Insert(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("order item is nil")
	}
	record := toItemRecord(item)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, record.ID)
}

func (r *OrderItemRepository) FindByID(ctx context.Context, id string) (*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderItemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrItemNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *OrderItemRepository) FindAll(ctx context.Context) ([]*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return toItems(records), nil
}

func (r *OrderItemRepository) FindAllByOrder(ctx context.Context, orderCode string) ([]*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Order("created_at").
		Find(&records, "order_code = ?", orderCode).Error; err != nil {
		return nil, err
	}
	return toItems(records), nil
}

func (r *OrderItemRepository) FindAllByVendor(ctx context.Context, vendorID string) ([]*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderItemRecord
	if err := r.db.WithContext(ctx).Order("created_at").
		Find(&records, "vendor_id = ?", vendorID).Error; err != nil {
		return nil, err
	}
	return toItems(records), nil
}

func (r *OrderItemRepository) FindByOrderAndProduct(ctx context.Context, orderCode, productCode string) (*domain.OrderItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderItemRecord
	if err := r.db.WithContext(ctx).
		First(&record, "order_code = ? AND product_code = ?", orderCode, productCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrItemNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *OrderItemRepository) Update(ctx context.Context, item *domain.OrderItem) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderItemRecord{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":   item.Quantity,
			"price":      item.Price,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrItemNotFound
	}
	return nil
}

func (r *OrderItemRepository) UpdateStatus(ctx context.Context, id string, status domain.ItemStatus) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderItemRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrItemNotFound
	}
	return nil
}

func (r *OrderItemRepository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderItemRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrItemNotFound
	}
	return nil
}

func (r *OrderItemRepository) ExistsByProduct(ctx context.Context, productCode string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderItemRecord{}).
		Where("product_code = ?", productCode).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderItemRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order item repository not configured")
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:         order.ID,
		Code:       order.Code,
		CustomerID: order.CustomerID,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		Note:       order.Note,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:         r.ID,
		Code:       r.Code,
		CustomerID: r.CustomerID,
		TotalPrice: r.TotalPrice,
		Status:     domain.Status(r.Status),
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toOrders(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}

func toItemRecord(item *domain.OrderItem) orderItemRecord {
	return orderItemRecord{
		ID:          item.ID,
		OrderCode:   item.OrderCode,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		VendorID:    item.VendorID,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (r orderItemRecord) toDomain() *domain.OrderItem {
	return &domain.OrderItem{
		ID:          r.ID,
		OrderCode:   r.OrderCode,
		ProductCode: r.ProductCode,
		ProductName: r.ProductName,
		VendorID:    r.VendorID,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Status:      domain.ItemStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toItems(records []orderItemRecord) []*domain.OrderItem {
	items := make([]*domain.OrderItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items
}
