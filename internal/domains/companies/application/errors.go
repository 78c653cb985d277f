package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid company input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCompanyName) ||
		errors.Is(err, domain.ErrEmptyPhoneNumber) ||
		errors.Is(err, domain.ErrEmptyAddress) ||
		errors.Is(err, domain.ErrEmptyImage) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
