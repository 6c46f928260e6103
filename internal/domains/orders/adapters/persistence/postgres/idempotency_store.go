package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key"`
	RequestHash string    `gorm:"column:request_hash"`
	OrderCode   string    `gorm:"column:order_code"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// IdempotencyStore persists idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	store := &IdempotencyStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&idempotencyRecord{})
	}
	return store
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toPort(), nil
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	row := idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderCode:   record.OrderCode,
	}
	// DoNothing keeps the first writer's record on a concurrent duplicate;
	// the re-read below decides whether it matches or conflicts.
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
		return nil, err
	}
	stored, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("idempotency record vanished after save")
	}
	if stored.RequestHash != record.RequestHash || stored.OrderCode != record.OrderCode {
		return stored, ports.ErrIdempotencyConflict
	}
	return stored, nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func (r idempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderCode:   r.OrderCode,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
