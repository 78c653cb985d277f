package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConcurrentInvoices_AtMostOneWinsContendedStock(t *testing.T) {
	for run := 0; run < 20; run++ {
		f := newFixture(t)
		f.seed(t, "p", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.CreateInvoice(context.Background(), order(line("p", "M", "red", 3)))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
		}
		require.Equal(t, 1, succeeded)
		require.Equal(t, 2, f.quantity(t, "p", 0))
		require.Equal(t, 1, f.invoiceCount(t))
	}
}

func TestConcurrentInvoices_StockIsConserved(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 40})
	f.seed(t, "b", "Jeans", catalogdomain.StockEntry{Size: "L", Color: "blue", Quantity: 25})

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = f.svc.CreateInvoice(context.Background(), order(
				line("a", "M", "red", 1+i%3),
				line("b", "L", "blue", 1+i%2),
			))
		}(i)
	}
	wg.Wait()

	list, err := f.invoices.List(context.Background())
	require.NoError(t, err)
	soldA, soldB := 0, 0
	for _, inv := range list {
		soldA += inv.Entity.Lines[0].Quantity
		soldB += inv.Entity.Lines[1].Quantity
	}
	assert.Equal(t, 40-soldA, f.quantity(t, "a", 0))
	assert.Equal(t, 25-soldB, f.quantity(t, "b", 0))
	assert.GreaterOrEqual(t, f.quantity(t, "a", 0), 0)
	assert.GreaterOrEqual(t, f.quantity(t, "b", 0), 0)
}

func TestConcurrentReplays_PostOnce(t *testing.T) {
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 10})

	input := order(line("a", "M", "red", 2))
	input.IdempotencyKey = "retry-storm"

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.CreateInvoice(context.Background(), input)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, f.quantity(t, "a", 0))
	assert.Equal(t, 1, f.invoiceCount(t))
}
