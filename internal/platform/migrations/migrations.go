package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Records here mirror the
// Postgres adapters; keep them in sync when a column changes.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&stockRecord{},
		&companyRecord{},
		&invoiceRecord{},
		&invoiceLineRecord{},
		&idempotencyRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

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

type stockRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID string `gorm:"column:product_id;size:36;index:idx_product_stock_lookup,priority:1"`
	Position  int    `gorm:"column:position"`
	Size      string `gorm:"column:size;index:idx_product_stock_lookup,priority:2"`
	Color     string `gorm:"column:color;index:idx_product_stock_lookup,priority:3"`
	Quantity  int    `gorm:"column:quantity"`
}

func (stockRecord) TableName() string { return "product_stock" }

type companyRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:36"`
	CompanyName string    `gorm:"column:company_name"`
	PhoneNumber string    `gorm:"column:phone_number"`
	Address     string    `gorm:"column:address"`
	Image       string    `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (companyRecord) TableName() string { return "companies" }

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

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	InvoiceID   string    `gorm:"column:invoice_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "invoice_idempotency_keys" }

type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:36"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsAdmin      bool      `gorm:"column:is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
