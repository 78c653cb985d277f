package mapper

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

var errMissingPrice = errors.New("price is required")

// InvoiceLinePayload is the wire shape of one requested line. Amounts are
// decoded as decimals so 19.9 stays exactly 19.9.
type InvoiceLinePayload struct {
	ProductID string           `json:"productId"`
	Title     string           `json:"title"`
	Size      string           `json:"size"`
	Color     string           `json:"color"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
	Total     *decimal.Decimal `json:"total,omitempty"`
}

// CreateInvoice is the POST /invoices body.
type CreateInvoice struct {
	CustomerName string               `json:"customerName"`
	Products     []InvoiceLinePayload `json:"products"`
	TotalAmount  *decimal.Decimal     `json:"totalAmount,omitempty"`
}

type InvoiceLine struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

type Invoice struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customerName"`
	Products     []InvoiceLine `json:"products"`
	TotalAmount  float64       `json:"totalAmount"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// ToCreateInput converts the request body; key is the Idempotency-Key header.
func ToCreateInput(body CreateInvoice, key string) (ports.CreateInvoiceInput, error) {
	input := ports.CreateInvoiceInput{
		IdempotencyKey: key,
		CustomerName:   body.CustomerName,
		Lines:          make([]ports.LineInput, 0, len(body.Products)),
		TotalAmount:    body.TotalAmount,
	}
	for _, line := range body.Products {
		if line.Price == nil {
			return ports.CreateInvoiceInput{}, errMissingPrice
		}
		input.Lines = append(input.Lines, ports.LineInput{
			ProductID: line.ProductID,
			Title:     line.Title,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     *line.Price,
			Total:     line.Total,
		})
	}
	return input, nil
}

func FromProjection(p *ports.InvoiceProjection) Invoice {
	if p == nil {
		return Invoice{}
	}
	inv := p.Entity
	lines := make([]InvoiceLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, InvoiceLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			Size:      l.Size,
			Color:     l.Color,
			Quantity:  l.Quantity,
			Price:     l.Price.InexactFloat64(),
			Total:     l.Total.InexactFloat64(),
		})
	}
	return Invoice{
		ID:           inv.ID,
		CustomerName: inv.CustomerName,
		Products:     lines,
		TotalAmount:  inv.TotalAmount.InexactFloat64(),
		CreatedAt:    inv.CreatedAt,
	}
}

func FromProjectionList(list []*ports.InvoiceProjection) []Invoice {
	out := make([]Invoice, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p))
	}
	return out
}
