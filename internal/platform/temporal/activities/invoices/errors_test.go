package invoices

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/application"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

func TestEncodeDecode_InsufficientStockKeepsContext(t *testing.T) {
	original := &application.PostingError{
		State: domain.StateRolledBack,
		Err: &application.LineError{Index: 2, ProductID: "p-1", Size: "M", Color: "red",
			Err: &catalogdomain.InsufficientStockError{ProductID: "p-1", Title: "Shirt", Size: "M", Color: "red", Requested: 3, Available: 2}},
	}

	encoded := EncodeError(original)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(encoded, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, ErrTypeInsufficientStock, appErr.Type())

	decoded := DecodeError(encoded)
	require.ErrorIs(t, decoded, catalogdomain.ErrInsufficientStock)
	assert.Equal(t, domain.StateRolledBack, application.FailedState(decoded))
	var lineErr *application.LineError
	require.ErrorAs(t, decoded, &lineErr)
	assert.Equal(t, 2, lineErr.Index)
	var insufficient *catalogdomain.InsufficientStockError
	require.ErrorAs(t, decoded, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, "Shirt", insufficient.Title)
}

func TestEncodeDecode_Sentinels(t *testing.T) {
	cases := []error{
		application.ErrInvalidInput,
		catalogports.ErrProductNotFound,
		catalogdomain.ErrStockEntryNotFound,
		invoiceports.ErrIdempotencyConflict,
		invoiceports.ErrIdempotencyInProgress,
		application.ErrPersistence,
		application.ErrCompensationFailed,
	}
	for _, sentinel := range cases {
		decoded := DecodeError(EncodeError(&application.PostingError{State: domain.StateFailed, Err: sentinel}))
		assert.ErrorIs(t, decoded, sentinel, sentinel.Error())
	}
}

func TestEncodeError_PassesUnknownErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, EncodeError(boom))
	assert.Same(t, boom, DecodeError(boom))
}
