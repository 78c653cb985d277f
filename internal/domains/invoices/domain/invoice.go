package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrNoLines           = errors.New("invoice needs at least one product line")
	ErrEmptyProductID    = errors.New("line product id is required")
	ErrEmptySize         = errors.New("line size is required")
	ErrEmptyColor        = errors.New("line color is required")
	ErrInvalidQuantity   = errors.New("line quantity must be greater than zero")
	ErrNegativePrice     = errors.New("line price must not be negative")
	ErrTotalMismatch     = errors.New("supplied total does not match price x quantity")
)

// moneyPlaces is the precision totals are compared at.
const moneyPlaces = 2

// Line is one product sold on an invoice.
type Line struct {
	ProductID string
	Title     string
	Size      string
	Color     string
	Quantity  int
	Price     decimal.Decimal
	Total     decimal.Decimal
}

// Invoice is an append-only sales record.
type Invoice struct {
	ID           string
	CustomerName string
	Lines        []Line
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
}

// LineDraft is a caller-proposed line. A nil Total is computed.
type LineDraft struct {
	ProductID string
	Title     string
	Size      string
	Color     string
	Quantity  int
	Price     decimal.Decimal
	Total     *decimal.Decimal
}

// Draft is a caller-proposed invoice. A nil TotalAmount is computed.
type Draft struct {
	CustomerName string
	Lines        []LineDraft
	TotalAmount  *decimal.Decimal
}

// LineValidationError points at the offending line. Index is zero-based.
type LineValidationError struct {
	Index int
	Err   error
}

func (e *LineValidationError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineValidationError) Unwrap() error { return e.Err }

// NewInvoice validates the draft and recomputes every total server side.
// Caller totals that disagree at cent precision are rejected.
func NewInvoice(id string, draft Draft, createdAt time.Time) (*Invoice, error) {
	customer := strings.TrimSpace(draft.CustomerName)
	if customer == "" {
		return nil, ErrEmptyCustomerName
	}
	if len(draft.Lines) == 0 {
		return nil, ErrNoLines
	}
	invoice := &Invoice{
		ID:           id,
		CustomerName: customer,
		Lines:        make([]Line, 0, len(draft.Lines)),
		CreatedAt:    createdAt,
	}
	total := decimal.Zero
	for i, d := range draft.Lines {
		line, err := newLine(d)
		if err != nil {
			return nil, &LineValidationError{Index: i, Err: err}
		}
		invoice.Lines = append(invoice.Lines, line)
		total = total.Add(line.Total)
	}
	if draft.TotalAmount != nil && !sameAmount(*draft.TotalAmount, total) {
		return nil, fmt.Errorf("%w: totalAmount %s, computed %s", ErrTotalMismatch, draft.TotalAmount.String(), total.StringFixed(moneyPlaces))
	}
	invoice.TotalAmount = total
	return invoice, nil
}

func newLine(d LineDraft) (Line, error) {
	line := Line{
		ProductID: strings.TrimSpace(d.ProductID),
		Title:     strings.TrimSpace(d.Title),
		Size:      strings.TrimSpace(d.Size),
		Color:     strings.TrimSpace(d.Color),
		Quantity:  d.Quantity,
		Price:     d.Price,
	}
	switch {
	case line.ProductID == "":
		return Line{}, ErrEmptyProductID
	case line.Size == "":
		return Line{}, ErrEmptySize
	case line.Color == "":
		return Line{}, ErrEmptyColor
	case line.Quantity <= 0:
		return Line{}, ErrInvalidQuantity
	case line.Price.IsNegative():
		return Line{}, ErrNegativePrice
	}
	line.Total = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
	if d.Total != nil && !sameAmount(*d.Total, line.Total) {
		return Line{}, fmt.Errorf("%w: total %s, computed %s", ErrTotalMismatch, d.Total.String(), line.Total.StringFixed(moneyPlaces))
	}
	return line, nil
}

func sameAmount(a, b decimal.Decimal) bool {
	return a.Round(moneyPlaces).Equal(b.Round(moneyPlaces))
}

// Units sums quantities over all lines.
func (i *Invoice) Units() int {
	units := 0
	for _, line := range i.Lines {
		units += line.Quantity
	}
	return units
}

// Clone returns a deep copy.
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Lines = append([]Line(nil), i.Lines...)
	return &clone
}
