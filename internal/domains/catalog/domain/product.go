package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle      = errors.New("product title is required")
	ErrNegativePrice   = errors.New("product price must not be negative")
	ErrEmptyCategoryID = errors.New("product category is required")
	ErrEmptyImage      = errors.New("product image is required")
)

// Product is the catalog aggregate; Stock keeps insertion order.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	Image       string
	Stock       []StockEntry
}

// NewProduct validates and constructs a product.
func NewProduct(id, title, description string, price decimal.Decimal, categoryID, image string, stock []StockEntry) (*Product, error) {
	product := &Product{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Price:       price,
		CategoryID:  strings.TrimSpace(categoryID),
		Image:       strings.TrimSpace(image),
		Stock:       cloneStock(stock),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces the aggregate invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if strings.TrimSpace(p.CategoryID) == "" {
		return ErrEmptyCategoryID
	}
	if strings.TrimSpace(p.Image) == "" {
		return ErrEmptyImage
	}
	return ValidateStock(p.Stock)
}

// ReplaceStock swaps the whole stock list after validation.
func (p *Product) ReplaceStock(stock []StockEntry) error {
	if err := ValidateStock(stock); err != nil {
		return err
	}
	p.Stock = cloneStock(stock)
	return nil
}

// Deduct applies a movement to the first matching entry in place.
func (p *Product) Deduct(size, color string, quantity int) (StockReceipt, error) {
	if quantity <= 0 {
		return StockReceipt{}, ErrInvalidMovement
	}
	idx := FirstMatch(p.Stock, size, color)
	if idx < 0 {
		return StockReceipt{}, ErrStockEntryNotFound
	}
	entry := &p.Stock[idx]
	if entry.Quantity < quantity {
		return StockReceipt{}, &InsufficientStockError{
			ProductID: p.ID,
			Title:     p.Title,
			Size:      size,
			Color:     color,
			Requested: quantity,
			Available: entry.Quantity,
		}
	}
	entry.Quantity -= quantity
	return StockReceipt{ProductID: p.ID, Title: p.Title, Size: size, Color: color, Quantity: quantity, Remaining: entry.Quantity}, nil
}

// Restore gives back quantity units to the first matching entry.
func (p *Product) Restore(size, color string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidMovement
	}
	idx := FirstMatch(p.Stock, size, color)
	if idx < 0 {
		return ErrStockEntryNotFound
	}
	p.Stock[idx].Quantity += quantity
	return nil
}

// TotalUnits sums quantities across variants.
func (p *Product) TotalUnits() int {
	total := 0
	for _, entry := range p.Stock {
		total += entry.Quantity
	}
	return total
}

// Clone returns a deep copy safe to hand across goroutines.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Stock = cloneStock(p.Stock)
	return &clone
}

// ValidateStock rejects malformed entries and duplicate size/color pairs.
func ValidateStock(stock []StockEntry) error {
	seen := make(map[[2]string]struct{}, len(stock))
	for _, entry := range stock {
		if err := entry.validate(); err != nil {
			return err
		}
		key := [2]string{entry.Size, entry.Color}
		if _, ok := seen[key]; ok {
			return ErrDuplicateStockEntry
		}
		seen[key] = struct{}{}
	}
	return nil
}

func cloneStock(stock []StockEntry) []StockEntry {
	if stock == nil {
		return nil
	}
	return append([]StockEntry(nil), stock...)
}
