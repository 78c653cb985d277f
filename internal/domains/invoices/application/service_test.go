package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/memory"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

type fixture struct {
	catalog  *catalogmemory.Store
	invoices *memory.Repository
	svc      *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	catalog := catalogmemory.NewStore()
	invoices := memory.NewRepository()
	seq := 0
	var mu sync.Mutex
	base := []Option{WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("inv-%d", seq)
	})}
	return &fixture{
		catalog:  catalog,
		invoices: invoices,
		svc:      NewService(invoices, catalog, append(base, opts...)...),
	}
}

func (f *fixture) seed(t *testing.T, id, title string, stock ...catalogdomain.StockEntry) {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, title, "", decimal.NewFromInt(10), "c-1", "uploads/"+id+".png", stock)
	require.NoError(t, err)
	_, err = f.catalog.SaveProduct(context.Background(), product)
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, productID string, idx int) int {
	t.Helper()
	product, err := f.catalog.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return product.Entity.Stock[idx].Quantity
}

func (f *fixture) invoiceCount(t *testing.T) int {
	t.Helper()
	list, err := f.invoices.List(context.Background())
	require.NoError(t, err)
	return len(list)
}

func line(productID, size, color string, qty int) ports.LineInput {
	return ports.LineInput{ProductID: productID, Size: size, Color: color, Quantity: qty, Price: decimal.RequireFromString("10")}
}

func order(lines ...ports.LineInput) ports.CreateInvoiceInput {
	return ports.CreateInvoiceInput{CustomerName: "Ana", Lines: lines}
}

func TestCreateInvoice_DeductsStockAndPersists(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p", "Linen shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	result, err := f.svc.CreateInvoice(context.Background(), order(line("p", "M", "red", 3)))
	require.NoError(t, err)
	assert.Equal(t, domain.StateApplied, result.State)
	assert.False(t, result.Replayed)
	assert.Equal(t, "Linen shirt", result.Invoice.Entity.Lines[0].Title)
	assert.True(t, decimal.NewFromInt(30).Equal(result.Invoice.Entity.TotalAmount))
	assert.Equal(t, 2, f.quantity(t, "p", 0))

	_, err = f.svc.CreateInvoice(context.Background(), order(line("p", "M", "red", 3)))
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 0, lineErr.Index)
	assert.Equal(t, 2, f.quantity(t, "p", 0))
	assert.Equal(t, 1, f.invoiceCount(t))
}

func TestCreateInvoice_SequentialNeverOversells(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 10})

	accepted := 0
	for _, qty := range []int{4, 3, 5, 2, 1, 1} {
		before := f.quantity(t, "p", 0)
		_, err := f.svc.CreateInvoice(context.Background(), order(line("p", "M", "red", qty)))
		if err != nil {
			require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
			assert.Equal(t, before, f.quantity(t, "p", 0))
			continue
		}
		accepted += qty
	}
	assert.LessOrEqual(t, accepted, 10)
	assert.Equal(t, 10-accepted, f.quantity(t, "p", 0))
}

func TestCreateInvoice_CompensatesEarlierLines(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})
	f.seed(t, "b", "Jeans", catalogdomain.StockEntry{Size: "L", Color: "blue", Quantity: 1})

	_, err := f.svc.CreateInvoice(context.Background(), order(
		line("a", "M", "red", 2),
		line("a", "M", "red", 1),
		line("b", "L", "blue", 3),
	))
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Index)
	assert.Equal(t, "b", lineErr.ProductID)
	assert.Equal(t, domain.StateRolledBack, FailedState(err))

	assert.Equal(t, 5, f.quantity(t, "a", 0))
	assert.Equal(t, 1, f.quantity(t, "b", 0))
	assert.Zero(t, f.invoiceCount(t))
}

func TestCreateInvoice_UnknownProductMutatesNothing(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	_, err := f.svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 1), line("ghost", "M", "red", 1)))
	require.ErrorIs(t, err, catalogports.ErrProductNotFound)
	assert.Equal(t, 5, f.quantity(t, "a", 0))
	assert.Zero(t, f.invoiceCount(t))
}

func TestCreateInvoice_UnknownVariant(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	_, err := f.svc.CreateInvoice(context.Background(), order(line("a", "XL", "red", 1)))
	require.ErrorIs(t, err, catalogdomain.ErrStockEntryNotFound)
	assert.Equal(t, domain.StateFailed, FailedState(err))
	assert.Equal(t, 5, f.quantity(t, "a", 0))
}

func TestCreateInvoice_RejectsMismatchedTotalsBeforeTouchingStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	wrong := decimal.NewFromInt(999)
	input := order(line("a", "M", "red", 2))
	input.TotalAmount = &wrong
	_, err := f.svc.CreateInvoice(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrTotalMismatch)
	assert.Equal(t, 5, f.quantity(t, "a", 0))

	_, err = f.svc.CreateInvoice(context.Background(), ports.CreateInvoiceInput{CustomerName: "Ana"})
	require.ErrorIs(t, err, domain.ErrNoLines)
}

func TestCreateInvoice_PersistenceFailureRestoresStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})
	f.invoices.FailNextSave(errors.New("connection reset"))

	_, err := f.svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 2), line("a", "M", "red", 2)))
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, domain.StateRolledBack, FailedState(err))
	assert.Equal(t, 5, f.quantity(t, "a", 0))
}

type blockingLedger struct {
	catalogports.StockLedger
}

func (blockingLedger) Deduct(ctx context.Context, _ catalogdomain.StockMovement) (*catalogdomain.StockReceipt, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCreateInvoice_StoreTimeoutIsPersistenceFailure(t *testing.T) {
	svc := NewService(memory.NewRepository(), blockingLedger{}, WithStoreTimeout(20*time.Millisecond))

	_, err := svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 1)))
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type brokenRestoreLedger struct {
	*catalogmemory.Store
}

func (brokenRestoreLedger) Restore(context.Context, catalogdomain.StockMovement) error {
	return errors.New("store offline")
}

func TestCreateInvoice_ReportsFailedCompensation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})
	svc := NewService(f.invoices, brokenRestoreLedger{f.catalog})

	_, err := svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 2), line("a", "M", "red", 9)))
	require.ErrorIs(t, err, ErrCompensationFailed)
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	assert.Equal(t, domain.StateFailed, FailedState(err))
}

type recordingLedger struct {
	catalogports.StockLedger
	mu       sync.Mutex
	restores int
}

func (l *recordingLedger) Restore(ctx context.Context, m catalogdomain.StockMovement) error {
	l.mu.Lock()
	l.restores++
	l.mu.Unlock()
	return l.StockLedger.Restore(ctx, m)
}

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func TestCreateInvoice_TransactorReplacesCompensation(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})
	ledger := &recordingLedger{StockLedger: f.catalog}
	tx := &fakeTransactor{}
	svc := NewService(f.invoices, ledger, WithTransactor(tx))

	_, err := svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 2), line("a", "M", "red", 9)))
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	assert.Equal(t, domain.StateRolledBack, FailedState(err))
	assert.Equal(t, 1, tx.calls)
	assert.Zero(t, ledger.restores)
}

func TestCreateInvoice_TransactorFirstLineFailureReportsFailed(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})
	tx := &fakeTransactor{}
	svc := NewService(f.invoices, f.catalog, WithTransactor(tx))

	_, err := svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 9), line("a", "M", "red", 1)))
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	assert.Equal(t, domain.StateFailed, FailedState(err))
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, 5, f.quantity(t, "a", 0))

	plain, err := f.svc.CreateInvoice(context.Background(), order(line("a", "M", "red", 9)))
	require.Nil(t, plain)
	assert.Equal(t, domain.StateFailed, FailedState(err))
}

func TestCreateInvoice_IdempotentReplay(t *testing.T) {
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 5})
	ctx := context.Background()

	input := order(line("a", "M", "red", 2))
	input.IdempotencyKey = "key-1"
	first, err := f.svc.CreateInvoice(ctx, input)
	require.NoError(t, err)

	second, err := f.svc.CreateInvoice(ctx, input)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Invoice.Entity.ID, second.Invoice.Entity.ID)
	assert.Equal(t, 3, f.quantity(t, "a", 0))
	assert.Equal(t, 1, f.invoiceCount(t))

	changed := order(line("a", "M", "red", 1))
	changed.IdempotencyKey = "key-1"
	_, err = f.svc.CreateInvoice(ctx, changed)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, 3, f.quantity(t, "a", 0))
}

func TestCreateInvoice_FailedPostingReleasesKey(t *testing.T) {
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	f.seed(t, "a", "Shirt", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 1})
	ctx := context.Background()

	input := order(line("a", "M", "red", 2))
	input.IdempotencyKey = "key-2"
	_, err := f.svc.CreateInvoice(ctx, input)
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	_, err = f.catalog.SaveProduct(ctx, mustProduct(t, "a", catalogdomain.StockEntry{Size: "M", Color: "red", Quantity: 2}))
	require.NoError(t, err)

	result, err := f.svc.CreateInvoice(ctx, input)
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Zero(t, f.quantity(t, "a", 0))
}

func TestGetInvoice_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetInvoice(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestFingerprintIgnoresTrailingZeros(t *testing.T) {
	a := order(line("a", "M", "red", 2))
	b := order(line("a", " M ", "red", 2))
	b.Lines[0].Price = decimal.RequireFromString("10.00")

	ha, err := FingerprintCreateInvoice(a)
	require.NoError(t, err)
	hb, err := FingerprintCreateInvoice(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	c := order(line("a", "M", "red", 3))
	hc, err := FingerprintCreateInvoice(c)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

func mustProduct(t *testing.T, id string, stock ...catalogdomain.StockEntry) *catalogdomain.Product {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, "Shirt", "", decimal.NewFromInt(10), "c-1", "img", stock)
	require.NoError(t, err)
	return product
}
