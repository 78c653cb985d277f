package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

type categoryRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:36"`
	Title       string          `gorm:"column:title"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	CategoryID  string          `gorm:"column:category_id;size:36;index"`
	Image       string          `gorm:"column:image"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// stockRecord is one variant row. Position keeps the product's stock order,
// which decides the first match when legacy duplicates exist.
type stockRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID string `gorm:"column:product_id;size:36;index:idx_product_stock_lookup,priority:1"`
	Position  int    `gorm:"column:position"`
	Size      string `gorm:"column:size;index:idx_product_stock_lookup,priority:2"`
	Color     string `gorm:"column:color;index:idx_product_stock_lookup,priority:3"`
	Quantity  int    `gorm:"column:quantity"`
}

func (stockRecord) TableName() string { return "product_stock" }

func (r categoryRecord) toProjection() *ports.CategoryProjection {
	return projection.New(domain.Category{ID: r.ID, Name: r.Name}, r.CreatedAt, r.UpdatedAt)
}

func (r productRecord) toProjection(stock []stockRecord) *ports.ProductProjection {
	product := domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Image:       r.Image,
	}
	if len(stock) > 0 {
		product.Stock = make([]domain.StockEntry, 0, len(stock))
		for _, s := range stock {
			product.Stock = append(product.Stock, domain.StockEntry{Size: s.Size, Color: s.Color, Quantity: s.Quantity})
		}
	}
	return projection.New(product, r.CreatedAt, r.UpdatedAt)
}

func toStockRecords(product *domain.Product) []stockRecord {
	records := make([]stockRecord, 0, len(product.Stock))
	for i, entry := range product.Stock {
		records = append(records, stockRecord{
			ProductID: product.ID,
			Position:  i,
			Size:      entry.Size,
			Color:     entry.Color,
			Quantity:  entry.Quantity,
		})
	}
	return records
}

// storeError tags driver and timeout failures as ErrPersistence so callers can
// tell them apart from business outcomes.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrPersistence, err)
}
