package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

// Category is the HTTP representation of a catalog category.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryPayload is the create/rename body.
type CategoryPayload struct {
	Name string `json:"name"`
}

// StockEntry is one size/color row on the wire.
type StockEntry struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// CategoryRef is the category embedded in product responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is the HTTP representation returned to clients.
type Product struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price"`
	CategoryID  string       `json:"categoryId"`
	Category    *CategoryRef `json:"category,omitempty"`
	Image       string       `json:"image"`
	Stock       []StockEntry `json:"stock"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ProductPatch captures update payloads while preserving field presence.
type ProductPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Price       *float64      `json:"price,omitempty"`
	CategoryID  *string       `json:"categoryId,omitempty"`
	Image       *string       `json:"image,omitempty"`
	Stock       *[]StockEntry `json:"stock,omitempty"`
}

// ProductForm is the multipart form used when creating a product. Stock
// arrives as a JSON encoded array.
type ProductForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Price       string `form:"price"`
	CategoryID  string `form:"categoryId"`
	Stock       string `form:"stock"`
}

func FromCategory(p *ports.CategoryProjection) Category {
	if p == nil {
		return Category{}
	}
	return Category{ID: p.Entity.ID, Name: p.Entity.Name, CreatedAt: p.Metadata.CreatedAt, UpdatedAt: p.Metadata.UpdatedAt}
}

func FromCategoryList(list []*ports.CategoryProjection) []Category {
	out := make([]Category, 0, len(list))
	for _, p := range list {
		out = append(out, FromCategory(p))
	}
	return out
}

func FromProduct(p *ports.ProductProjection) Product {
	if p == nil {
		return Product{}
	}
	stock := make([]StockEntry, 0, len(p.Entity.Stock))
	for _, s := range p.Entity.Stock {
		stock = append(stock, StockEntry{Size: s.Size, Color: s.Color, Quantity: s.Quantity})
	}
	return Product{
		ID:          p.Entity.ID,
		Title:       p.Entity.Title,
		Description: p.Entity.Description,
		Price:       p.Entity.Price.InexactFloat64(),
		CategoryID:  p.Entity.CategoryID,
		Image:       p.Entity.Image,
		Stock:       stock,
		CreatedAt:   p.Metadata.CreatedAt,
		UpdatedAt:   p.Metadata.UpdatedAt,
	}
}

func FromProductList(list []*ports.ProductProjection) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}

// CategoryNames indexes category names by ID.
func CategoryNames(list []*ports.CategoryProjection) map[string]string {
	names := make(map[string]string, len(list))
	for _, c := range list {
		if c != nil {
			names[c.Entity.ID] = c.Entity.Name
		}
	}
	return names
}

// WithCategory embeds the product's category when names knows its ID.
func (p Product) WithCategory(names map[string]string) Product {
	if name, ok := names[p.CategoryID]; ok {
		p.Category = &CategoryRef{ID: p.CategoryID, Name: name}
	}
	return p
}

// WithCategories embeds categories into every product of a list.
func WithCategories(products []Product, names map[string]string) []Product {
	for i := range products {
		products[i] = products[i].WithCategory(names)
	}
	return products
}

func ToStock(entries []StockEntry) []domain.StockEntry {
	if entries == nil {
		return nil
	}
	out := make([]domain.StockEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.StockEntry{Size: strings.TrimSpace(e.Size), Color: strings.TrimSpace(e.Color), Quantity: e.Quantity})
	}
	return out
}

// ToProductInput converts the multipart form plus a stored image path.
func ToProductInput(form ProductForm, image string) (ports.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		return ports.ProductInput{}, fmt.Errorf("price: %w", err)
	}
	stock, err := ParseStock(form.Stock)
	if err != nil {
		return ports.ProductInput{}, err
	}
	return ports.ProductInput{
		Title:       form.Title,
		Description: form.Description,
		Price:       price,
		CategoryID:  form.CategoryID,
		Image:       image,
		Stock:       ToStock(stock),
	}, nil
}

// ParseStock decodes the JSON stock field of a multipart form. Blank means no entries.
func ParseStock(raw string) ([]StockEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []StockEntry{}, nil
	}
	var stock []StockEntry
	if err := json.Unmarshal([]byte(raw), &stock); err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	return stock, nil
}

func ToProductPatch(patch ProductPatch) ports.ProductPatch {
	out := ports.ProductPatch{
		Title:       patch.Title,
		Description: patch.Description,
		CategoryID:  patch.CategoryID,
		Image:       patch.Image,
	}
	if patch.Price != nil {
		price := decimal.NewFromFloat(*patch.Price)
		out.Price = &price
	}
	if patch.Stock != nil {
		stock := ToStock(*patch.Stock)
		if stock == nil {
			stock = []domain.StockEntry{}
		}
		out.Stock = &stock
	}
	return out
}
