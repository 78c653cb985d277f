package domain

import (
	"errors"
	"strings"
)

var ErrEmptyCategoryName = errors.New("category name is required")

// Category groups products in the catalog.
type Category struct {
	ID   string
	Name string
}

// NewCategory builds a category with a trimmed, non-empty name.
func NewCategory(id, name string) (*Category, error) {
	category := &Category{ID: id}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	return category, nil
}

func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	c.Name = name
	return nil
}
