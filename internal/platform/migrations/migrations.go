package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
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

// Order item schema mirrors the orders Postgres adapter.
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

// Idempotency schema mirrors the orders Postgres idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key"`
	RequestHash string    `gorm:"column:request_hash"`
	OrderCode   string    `gorm:"column:order_code"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
