package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore provides an in-memory implementation for development and tests.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
	now     func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		records: map[string]ports.IdempotencyRecord{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, hash string) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		rec := existing
		return &rec, false, nil
	}
	now := s.now()
	record := ports.IdempotencyRecord{Key: key, RequestHash: hash, CreatedAt: now, UpdatedAt: now}
	s.records[key] = record
	rec := record
	return &rec, true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key, invoiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return ports.ErrIdempotencyKeyNotReserved
	}
	record.InvoiceID = invoiceID
	record.UpdatedAt = s.now()
	s.records[key] = record
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
