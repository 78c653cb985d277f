package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySize              = errors.New("stock size is required")
	ErrEmptyColor             = errors.New("stock color is required")
	ErrNegativeStock          = errors.New("stock quantity must not be negative")
	ErrDuplicateStockEntry    = errors.New("stock entry for this size and color already exists")
	ErrInvalidMovement        = errors.New("stock movement quantity must be greater than zero")
	ErrStockEntryNotFound     = errors.New("size and color combination does not exist for this product")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrStockMovementProductID = errors.New("stock movement requires a product id")
)

// StockEntry is the on-hand quantity of one size/color variant.
type StockEntry struct {
	Size     string
	Color    string
	Quantity int
}

// Matches compares the variant key exactly, the way lookups do.
func (e StockEntry) Matches(size, color string) bool {
	return e.Size == size && e.Color == color
}

func (e StockEntry) validate() error {
	if strings.TrimSpace(e.Size) == "" {
		return ErrEmptySize
	}
	if strings.TrimSpace(e.Color) == "" {
		return ErrEmptyColor
	}
	if e.Quantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// StockMovement asks the ledger to move Quantity units of one variant.
type StockMovement struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// Validate checks the movement shape before any store is touched.
func (m StockMovement) Validate() error {
	if strings.TrimSpace(m.ProductID) == "" {
		return ErrStockMovementProductID
	}
	if m.Quantity <= 0 {
		return ErrInvalidMovement
	}
	return nil
}

// StockReceipt reports an applied movement. Remaining is the entry quantity
// right after the movement.
type StockReceipt struct {
	ProductID string
	Title     string
	Size      string
	Color     string
	Quantity  int
	Remaining int
}

// InsufficientStockError carries enough context to render a useful message.
type InsufficientStockError struct {
	ProductID string
	Title     string
	Size      string
	Color     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (size %s, color %s): requested %d, available %d",
		e.Title, e.Size, e.Color, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// FirstMatch returns the index of the first entry for size/color, or -1.
// Duplicate variants resolve to the earliest position.
func FirstMatch(entries []StockEntry, size, color string) int {
	for i, entry := range entries {
		if entry.Matches(size, color) {
			return i
		}
	}
	return -1
}
