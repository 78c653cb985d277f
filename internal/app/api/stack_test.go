package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	invoiceworkflows "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/workflows"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	userports "github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
	platformobservability "github.com/Apurer/clothes-shop-api/internal/platform/observability"
)

func testInstruments() *platformobservability.Instruments {
	return &platformobservability.Instruments{Logger: platformobservability.NewLogger(io.Discard, "error")}
}

func memoryConfig() Config {
	cfg := defaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.StoreTimeout = time.Second
	return cfg
}

func TestBuildStack_InMemoryPostsInvoices(t *testing.T) {
	ctx := context.Background()
	stack, err := BuildStack(ctx, memoryConfig(), testInstruments())
	require.NoError(t, err)
	defer stack.Close()
	assert.Nil(t, stack.DB)

	category, err := stack.Catalog.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)
	product, err := stack.Catalog.CreateProduct(ctx, catalogports.ProductInput{
		Title:      "Linen shirt",
		Price:      decimal.NewFromInt(20),
		CategoryID: category.Entity.ID,
		Image:      "uploads/linen.png",
		Stock:      []catalogdomain.StockEntry{{Size: "M", Color: "red", Quantity: 3}},
	})
	require.NoError(t, err)

	result, err := stack.Invoices.CreateInvoice(ctx, invoiceports.CreateInvoiceInput{
		CustomerName: "Ana",
		Lines: []invoiceports.LineInput{{
			ProductID: product.Entity.ID, Size: "M", Color: "red", Quantity: 2, Price: decimal.NewFromInt(20),
		}},
	})
	require.NoError(t, err)
	assert.True(t, result.Invoice.Entity.TotalAmount.Equal(decimal.NewFromInt(40)))

	after, err := stack.Catalog.GetProduct(ctx, product.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Entity.Stock[0].Quantity)
}

func TestBuildStack_RedisSessions(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisURL = "redis://" + mr.Addr()

	stack, err := BuildStack(ctx, cfg, testInstruments())
	require.NoError(t, err)
	defer stack.Close()

	_, err = stack.Users.Register(ctx, userports.RegisterInput{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	login, err := stack.Users.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	user, err := stack.Users.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Entity.Username)
}

func TestBuildStack_RejectsBadRedisURL(t *testing.T) {
	cfg := memoryConfig()
	cfg.RedisURL = "not-a-url://"

	_, err := BuildStack(context.Background(), cfg, testInstruments())
	require.Error(t, err)
}

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, p.err
}

func TestPurgeSessions_OnceReturnsError(t *testing.T) {
	purger := &countingPurger{err: errors.New("db down")}

	err := PurgeSessions(context.Background(), purger, 0, testInstruments().Logger)
	require.Error(t, err)
	assert.EqualValues(t, 1, purger.calls.Load())
}

func TestPurgeSessions_TicksUntilCancelled(t *testing.T) {
	purger := &countingPurger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- PurgeSessions(ctx, purger, 10*time.Millisecond, testInstruments().Logger) }()

	require.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("purger did not stop")
	}
}

type closingTemporalClient struct {
	client.Client
	closed bool
}

func (c *closingTemporalClient) Close() { c.closed = true }

func TestInvoiceWorkflowsFor_InMemoryStackStaysInline(t *testing.T) {
	stack, err := BuildStack(context.Background(), memoryConfig(), testInstruments())
	require.NoError(t, err)
	defer stack.Close()

	var logs bytes.Buffer
	dialed := false
	workflows, closeWorkflows := invoiceWorkflowsFor(stack, func() (client.Client, error) {
		dialed = true
		return &closingTemporalClient{}, nil
	}, platformobservability.NewLogger(&logs, "info"))
	defer closeWorkflows()

	assert.IsType(t, &invoiceworkflows.InlineInvoiceWorkflows{}, workflows)
	assert.False(t, dialed)
	assert.Contains(t, logs.String(), "PostgreSQL")
}

func TestInvoiceWorkflowsFor_PostgresStackUsesTemporal(t *testing.T) {
	stack := &Stack{DB: &gorm.DB{}}
	temporalClient := &closingTemporalClient{}
	workflows, closeWorkflows := invoiceWorkflowsFor(stack, func() (client.Client, error) {
		return temporalClient, nil
	}, testInstruments().Logger)

	assert.IsType(t, &invoiceworkflows.TemporalInvoiceWorkflows{}, workflows)
	closeWorkflows()
	assert.True(t, temporalClient.closed)

	workflows, closeWorkflows = invoiceWorkflowsFor(stack, func() (client.Client, error) {
		return nil, errors.New("dial tcp: connection refused")
	}, testInstruments().Logger)
	defer closeWorkflows()
	assert.IsType(t, &invoiceworkflows.InlineInvoiceWorkflows{}, workflows)
}
