package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrCategoryInUse blocks deleting a category that still has products.
	ErrCategoryInUse = errors.New("category still has products")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCategoryName) ||
		errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrEmptyCategoryID) ||
		errors.Is(err, domain.ErrEmptyImage) ||
		errors.Is(err, domain.ErrEmptySize) ||
		errors.Is(err, domain.ErrEmptyColor) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrDuplicateStockEntry) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
