package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopsphere/commerce-api/internal/domains/orders/ports"
)

// IdempotencyStore keeps idempotency records in process memory.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]*ports.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]*ports.IdempotencyRecord{}}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	copy := *record
	return &copy, nil
}

func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.records[record.Key]; ok {
		copy := *stored
		if stored.RequestHash != record.RequestHash || stored.OrderCode != record.OrderCode {
			return &copy, ports.ErrIdempotencyConflict
		}
		return &copy, nil
	}
	now := time.Now().UTC()
	record.CreatedAt, record.UpdatedAt = now, now
	s.records[record.Key] = &record
	copy := record
	return &copy, nil
}
