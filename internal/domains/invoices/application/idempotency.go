package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

type normalizedInvoiceInput struct {
	CustomerName string           `json:"customerName"`
	Lines        []normalizedLine `json:"lines"`
	TotalAmount  *string          `json:"totalAmount"`
}

type normalizedLine struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     string  `json:"price"`
	Total     *string `json:"total"`
}

// FingerprintCreateInvoice builds a deterministic hash of the posting payload
// (excluding the idempotency key). Equal amounts hash equally regardless of
// trailing zeros.
func FingerprintCreateInvoice(input ports.CreateInvoiceInput) (string, error) {
	normalized := normalizedInvoiceInput{
		CustomerName: strings.TrimSpace(input.CustomerName),
		Lines:        make([]normalizedLine, 0, len(input.Lines)),
		TotalAmount:  normalizeAmount(input.TotalAmount),
	}
	for _, line := range input.Lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{
			ProductID: strings.TrimSpace(line.ProductID),
			Title:     strings.TrimSpace(line.Title),
			Size:      strings.TrimSpace(line.Size),
			Color:     strings.TrimSpace(line.Color),
			Quantity:  line.Quantity,
			Price:     line.Price.String(),
			Total:     normalizeAmount(line.Total),
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeAmount(amount *decimal.Decimal) *string {
	if amount == nil {
		return nil
	}
	s := amount.String()
	return &s
}
