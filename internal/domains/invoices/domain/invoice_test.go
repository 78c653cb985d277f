package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func validLine() LineDraft {
	return LineDraft{ProductID: "p-1", Title: "Shirt", Size: "M", Color: "red", Quantity: 3, Price: dec("19.90")}
}

func TestNewInvoice_RecomputesTotals(t *testing.T) {
	second := validLine()
	second.Quantity = 1
	second.Price = dec("5")

	invoice, err := NewInvoice("inv-1", Draft{CustomerName: " Ana ", Lines: []LineDraft{validLine(), second}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Ana", invoice.CustomerName)
	assert.True(t, dec("59.70").Equal(invoice.Lines[0].Total))
	assert.True(t, dec("64.70").Equal(invoice.TotalAmount))
	assert.Equal(t, 4, invoice.Units())
}

func TestNewInvoice_AcceptsMatchingCallerTotals(t *testing.T) {
	line := validLine()
	line.Total = decPtr("59.7")
	_, err := NewInvoice("inv-1", Draft{CustomerName: "Ana", Lines: []LineDraft{line}, TotalAmount: decPtr("59.70")}, time.Now())
	require.NoError(t, err)
}

func TestNewInvoice_RejectsMismatchedTotals(t *testing.T) {
	line := validLine()
	line.Total = decPtr("10")
	_, err := NewInvoice("inv-1", Draft{CustomerName: "Ana", Lines: []LineDraft{line}}, time.Now())
	require.ErrorIs(t, err, ErrTotalMismatch)
	var lineErr *LineValidationError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 0, lineErr.Index)

	_, err = NewInvoice("inv-1", Draft{CustomerName: "Ana", Lines: []LineDraft{validLine()}, TotalAmount: decPtr("1")}, time.Now())
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestNewInvoice_ShapeValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"no customer", func(d *Draft) { d.CustomerName = "  " }, ErrEmptyCustomerName},
		{"no lines", func(d *Draft) { d.Lines = nil }, ErrNoLines},
		{"no product", func(d *Draft) { d.Lines[0].ProductID = "" }, ErrEmptyProductID},
		{"no size", func(d *Draft) { d.Lines[0].Size = "" }, ErrEmptySize},
		{"no color", func(d *Draft) { d.Lines[0].Color = "" }, ErrEmptyColor},
		{"zero quantity", func(d *Draft) { d.Lines[0].Quantity = 0 }, ErrInvalidQuantity},
		{"negative price", func(d *Draft) { d.Lines[0].Price = dec("-1") }, ErrNegativePrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := Draft{CustomerName: "Ana", Lines: []LineDraft{validLine()}}
			tc.mutate(&draft)
			_, err := NewInvoice("inv-1", draft, time.Now())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPostingState_Terminal(t *testing.T) {
	assert.True(t, StateApplied.Terminal())
	assert.True(t, StateRolledBack.Terminal())
	assert.False(t, StateApplyingStock.Terminal())
}
