package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different payload.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyInProgress indicates the first request with this key has not finished.
	ErrIdempotencyInProgress = errors.New("request with this idempotency key is still in progress")
	// ErrIdempotencyKeyNotReserved is returned by Complete for an unknown key.
	ErrIdempotencyKeyNotReserved = errors.New("idempotency key not reserved")
)

// IdempotencyRecord ties a client key to a request fingerprint and, once
// posted, the resulting invoice.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	InvoiceID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retries can be replayed safely.
type IdempotencyStore interface {
	// Reserve claims key for hash. If the key is already known the stored
	// record is returned with reserved set to false.
	Reserve(ctx context.Context, key, hash string) (record *IdempotencyRecord, reserved bool, err error)
	// Complete attaches the posted invoice to a reserved key.
	Complete(ctx context.Context, key, invoiceID string) error
	// Release forgets a reservation whose posting failed.
	Release(ctx context.Context, key string) error
}
