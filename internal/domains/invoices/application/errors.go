package application

import (
	"errors"
	"fmt"

	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid invoice input")
	// ErrPersistence marks an unreachable store or a store call that timed out.
	ErrPersistence = errors.New("invoice store unavailable")
	// ErrCompensationFailed means a failed posting could not restore every
	// applied line; stock needs manual reconciliation.
	ErrCompensationFailed = errors.New("stock compensation failed")
)

// LineError reports which invoice line stopped the posting. Index is zero-based.
type LineError struct {
	Index     int
	ProductID string
	Size      string
	Color     string
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (product %s, size %s, color %s): %v", e.Index, e.ProductID, e.Size, e.Color, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// PostingError carries the state a failed posting ended in.
type PostingError struct {
	State domain.PostingState
	Err   error
}

func (e *PostingError) Error() string { return e.Err.Error() }

func (e *PostingError) Unwrap() error { return e.Err }

// FailedState returns the terminal state recorded on err, or StateFailed.
func FailedState(err error) domain.PostingState {
	var posting *PostingError
	if errors.As(err, &posting) {
		return posting.State
	}
	return domain.StateFailed
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCustomerName) ||
		errors.Is(err, domain.ErrNoLines) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrEmptySize) ||
		errors.Is(err, domain.ErrEmptyColor) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrTotalMismatch) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// ledgerError keeps stock outcomes intact and tags everything else,
// including deadline expiry, as a persistence failure.
func ledgerError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, catalogports.ErrProductNotFound) ||
		errors.Is(err, catalogdomain.ErrStockEntryNotFound) ||
		errors.Is(err, catalogdomain.ErrInsufficientStock) ||
		errors.Is(err, catalogdomain.ErrInvalidMovement) ||
		errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// repoError does the same for the invoice store.
func repoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
