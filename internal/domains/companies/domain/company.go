package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCompanyName = errors.New("company name is required")
	ErrEmptyPhoneNumber = errors.New("phone number is required")
	ErrEmptyAddress     = errors.New("address is required")
	ErrEmptyImage       = errors.New("company image is required")
)

// Company is a supplier the shop buys stock from.
type Company struct {
	ID          string
	CompanyName string
	PhoneNumber string
	Address     string
	Image       string
}

// NewCompany trims every field and rejects blanks.
func NewCompany(id, companyName, phoneNumber, address, image string) (*Company, error) {
	company := &Company{
		ID:          id,
		CompanyName: strings.TrimSpace(companyName),
		PhoneNumber: strings.TrimSpace(phoneNumber),
		Address:     strings.TrimSpace(address),
		Image:       strings.TrimSpace(image),
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}
	return company, nil
}

func (c *Company) Validate() error {
	switch {
	case c.CompanyName == "":
		return ErrEmptyCompanyName
	case c.PhoneNumber == "":
		return ErrEmptyPhoneNumber
	case c.Address == "":
		return ErrEmptyAddress
	case c.Image == "":
		return ErrEmptyImage
	}
	return nil
}
