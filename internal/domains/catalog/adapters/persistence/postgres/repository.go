package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
	"github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID          int64          `gorm:"primaryKey;column:id"`
	Code        string         `gorm:"column:code;uniqueIndex"`
	Name        string         `gorm:"column:name"`
	Description string         `gorm:"column:description"`
	Price       float64        `gorm:"column:price"`
	Quantity    int            `gorm:"column:quantity"`
	CategoryID  string         `gorm:"column:category_id;index"`
	VendorID    string         `gorm:"column:vendor_id;index"`
	ImageURLs   pq.StringArray `gorm:"column:image_urls;type:text[]"`
	Deleted     bool           `gorm:"column:deleted;index"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"price":       record.Price,
				"quantity":    record.Quantity,
				"category_id": record.CategoryID,
				"vendor_id":   record.VendorID,
				"image_urls":  record.ImageURLs,
				"deleted":     record.Deleted,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.FindByCode(ctx, record.Code)
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) FindByVendor(ctx context.Context, vendorID string) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Find(&records, "vendor_id = ?", vendorID).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) SetQuantity(ctx context.Context, code string, quantity int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if quantity < 0 {
		return domain.ErrNegativeQuantity
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("code = ?", code).
		Updates(map[string]any{"quantity": quantity, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ReserveStock performs the conditional decrement in a single UPDATE so two
// concurrent orders can never both claim the last unit.
func (r *Repository) ReserveStock(ctx context.Context, code string, requested, released int) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("code = ? AND quantity + ? >= ?", code, released, requested).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ? - ?", released, requested),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		product, err := r.FindByCode(ctx, code)
		if err != nil {
			return 0, err
		}
		return 0, &ports.InsufficientStockError{
			ProductCode: code,
			Available:   product.Quantity + released,
			Requested:   requested,
		}
	}
	product, err := r.FindByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	return product.Quantity, nil
}

func (r *Repository) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).
		Find(&records, "quantity <= ? AND deleted = ?", threshold, false).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) SetDeleted(ctx context.Context, code string, deleted bool) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("code = ?", code).
		Updates(map[string]any{"deleted": deleted, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		CategoryID:  product.CategoryID,
		VendorID:    product.VendorID,
		ImageURLs:   pq.StringArray(product.ImageURLs),
		Deleted:     product.Deleted,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		CategoryID:  r.CategoryID,
		VendorID:    r.VendorID,
		ImageURLs:   []string(r.ImageURLs),
		Deleted:     r.Deleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
