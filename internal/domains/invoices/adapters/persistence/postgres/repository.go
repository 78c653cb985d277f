package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists invoices in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&invoiceRecord{}, &invoiceLineRecord{})
	}
	return repo
}

type invoiceRecord struct {
	ID           string          `gorm:"primaryKey;column:id;size:36"`
	CustomerName string          `gorm:"column:customer_name"`
	TotalAmount  decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2)"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
}

func (invoiceRecord) TableName() string { return "invoices" }

type invoiceLineRecord struct {
	ID        int64           `gorm:"primaryKey;autoIncrement;column:id"`
	InvoiceID string          `gorm:"column:invoice_id;size:36;index"`
	Position  int             `gorm:"column:position"`
	ProductID string          `gorm:"column:product_id;size:36;index"`
	Title     string          `gorm:"column:title"`
	Size      string          `gorm:"column:size"`
	Color     string          `gorm:"column:color"`
	Quantity  int             `gorm:"column:quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(14,2)"`
}

func (invoiceLineRecord) TableName() string { return "invoice_lines" }

// Save inserts the invoice and its lines. Invoices are never updated.
func (r *Repository) Save(ctx context.Context, invoice *domain.Invoice) (*ports.InvoiceProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	record, lines := toRecords(invoice)
	err := platformpostgres.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return toProjection(record, lines), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*ports.InvoiceProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpostgres.Conn(ctx, r.db)
	var record invoiceRecord
	if err := conn.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var lines []invoiceLineRecord
	if err := conn.Where("invoice_id = ?", id).Order("position").Find(&lines).Error; err != nil {
		return nil, err
	}
	return toProjection(record, lines), nil
}

// List returns invoices newest first.
func (r *Repository) List(ctx context.Context) ([]*ports.InvoiceProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpostgres.Conn(ctx, r.db)
	var records []invoiceRecord
	if err := conn.Order("created_at DESC, id").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*ports.InvoiceProjection{}, nil
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var lines []invoiceLineRecord
	if err := conn.Where("invoice_id IN ?", ids).Order("invoice_id, position").Find(&lines).Error; err != nil {
		return nil, err
	}
	byInvoice := make(map[string][]invoiceLineRecord, len(records))
	for _, l := range lines {
		byInvoice[l.InvoiceID] = append(byInvoice[l.InvoiceID], l)
	}
	list := make([]*ports.InvoiceProjection, 0, len(records))
	for _, rec := range records {
		list = append(list, toProjection(rec, byInvoice[rec.ID]))
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres invoice repository not configured")
	}
	return nil
}

func toRecords(invoice *domain.Invoice) (invoiceRecord, []invoiceLineRecord) {
	record := invoiceRecord{
		ID:           invoice.ID,
		CustomerName: invoice.CustomerName,
		TotalAmount:  invoice.TotalAmount,
		CreatedAt:    invoice.CreatedAt,
	}
	lines := make([]invoiceLineRecord, 0, len(invoice.Lines))
	for i, line := range invoice.Lines {
		lines = append(lines, invoiceLineRecord{
			InvoiceID: invoice.ID,
			Position:  i,
			ProductID: line.ProductID,
			Title:     line.Title,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Total:     line.Total,
		})
	}
	return record, lines
}

func toProjection(record invoiceRecord, lines []invoiceLineRecord) *ports.InvoiceProjection {
	invoice := domain.Invoice{
		ID:           record.ID,
		CustomerName: record.CustomerName,
		TotalAmount:  record.TotalAmount,
		CreatedAt:    record.CreatedAt,
		Lines:        make([]domain.Line, 0, len(lines)),
	}
	for _, l := range lines {
		invoice.Lines = append(invoice.Lines, domain.Line{
			ProductID: l.ProductID,
			Title:     l.Title,
			Size:      l.Size,
			Color:     l.Color,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Total:     l.Total,
		})
	}
	return projection.New(invoice, record.CreatedAt, record.CreatedAt)
}
