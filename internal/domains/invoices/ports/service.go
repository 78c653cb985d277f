package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
)

// LineInput is one requested invoice line. Title may be empty and is then
// taken from the catalog. Nil totals are computed.
type LineInput struct {
	ProductID string           `json:"productId"`
	Title     string           `json:"title,omitempty"`
	Size      string           `json:"size"`
	Color     string           `json:"color"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Total     *decimal.Decimal `json:"total,omitempty"`
}

// CreateInvoiceInput is the posting command.
type CreateInvoiceInput struct {
	IdempotencyKey string           `json:"idempotencyKey,omitempty"`
	CustomerName   string           `json:"customerName"`
	Lines          []LineInput      `json:"lines"`
	TotalAmount    *decimal.Decimal `json:"totalAmount,omitempty"`
}

// PostingResult reports a successful posting. Replayed is set when an
// idempotency key matched an earlier posting.
type PostingResult struct {
	Invoice  *InvoiceProjection  `json:"invoice"`
	State    domain.PostingState `json:"state"`
	Replayed bool                `json:"replayed"`
}

// Service exposes invoice use cases to adapters.
type Service interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*PostingResult, error)
	GetInvoice(ctx context.Context, id string) (*InvoiceProjection, error)
	ListInvoices(ctx context.Context) ([]*InvoiceProjection, error)
}
