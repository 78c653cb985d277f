package invoices

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/application"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

// Application error types carried across the Temporal boundary.
const (
	ErrTypeInvalidInput          = "InvalidInput"
	ErrTypeProductNotFound       = "ProductNotFound"
	ErrTypeStockEntryNotFound    = "StockEntryNotFound"
	ErrTypeInsufficientStock     = "InsufficientStock"
	ErrTypeIdempotencyConflict   = "IdempotencyConflict"
	ErrTypeIdempotencyInProgress = "IdempotencyInProgress"
	ErrTypeCompensationFailed    = "CompensationFailed"
	ErrTypePersistence           = "Persistence"
)

// FailureDetail is the payload attached to a posting failure.
type FailureDetail struct {
	State     domain.PostingState `json:"state"`
	Message   string              `json:"message"`
	LineIndex *int                `json:"lineIndex,omitempty"`
	ProductID string              `json:"productId,omitempty"`
	Title     string              `json:"title,omitempty"`
	Size      string              `json:"size,omitempty"`
	Color     string              `json:"color,omitempty"`
	Requested int                 `json:"requested,omitempty"`
	Available int                 `json:"available,omitempty"`
}

// EncodeError converts a posting failure into a non-retryable application
// error. Unclassified errors pass through unchanged.
func EncodeError(err error) error {
	errType := classify(err)
	if errType == "" {
		return err
	}
	detail := FailureDetail{State: application.FailedState(err), Message: err.Error()}
	var lineErr *application.LineError
	if errors.As(err, &lineErr) {
		index := lineErr.Index
		detail.LineIndex = &index
		detail.ProductID = lineErr.ProductID
		detail.Size = lineErr.Size
		detail.Color = lineErr.Color
	}
	var insufficient *catalogdomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		detail.Title = insufficient.Title
		detail.Requested = insufficient.Requested
		detail.Available = insufficient.Available
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err, detail)
}

// DecodeError rebuilds the service error from a workflow failure so callers
// see the same sentinels whether or not the posting ran durably.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	var detail FailureDetail
	if appErr.HasDetails() {
		_ = appErr.Details(&detail)
	}
	if detail.Message == "" {
		detail.Message = appErr.Message()
	}
	if detail.State == "" {
		detail.State = domain.StateFailed
	}

	var cause error
	switch appErr.Type() {
	case ErrTypeInvalidInput:
		cause = fmt.Errorf("%w: %s", application.ErrInvalidInput, detail.Message)
	case ErrTypeProductNotFound:
		cause = catalogports.ErrProductNotFound
	case ErrTypeStockEntryNotFound:
		cause = catalogdomain.ErrStockEntryNotFound
	case ErrTypeInsufficientStock:
		cause = &catalogdomain.InsufficientStockError{
			ProductID: detail.ProductID,
			Title:     detail.Title,
			Size:      detail.Size,
			Color:     detail.Color,
			Requested: detail.Requested,
			Available: detail.Available,
		}
	case ErrTypeIdempotencyConflict:
		cause = invoiceports.ErrIdempotencyConflict
	case ErrTypeIdempotencyInProgress:
		cause = invoiceports.ErrIdempotencyInProgress
	case ErrTypeCompensationFailed:
		cause = fmt.Errorf("%w: %s", application.ErrCompensationFailed, detail.Message)
	case ErrTypePersistence:
		cause = fmt.Errorf("%w: %s", application.ErrPersistence, detail.Message)
	default:
		return err
	}
	if detail.LineIndex != nil && appErr.Type() != ErrTypeCompensationFailed {
		cause = &application.LineError{
			Index:     *detail.LineIndex,
			ProductID: detail.ProductID,
			Size:      detail.Size,
			Color:     detail.Color,
			Err:       cause,
		}
	}
	return &application.PostingError{State: detail.State, Err: cause}
}

func classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, application.ErrCompensationFailed):
		return ErrTypeCompensationFailed
	case errors.Is(err, application.ErrInvalidInput):
		return ErrTypeInvalidInput
	case errors.Is(err, catalogports.ErrProductNotFound):
		return ErrTypeProductNotFound
	case errors.Is(err, catalogdomain.ErrStockEntryNotFound):
		return ErrTypeStockEntryNotFound
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return ErrTypeInsufficientStock
	case errors.Is(err, invoiceports.ErrIdempotencyConflict):
		return ErrTypeIdempotencyConflict
	case errors.Is(err, invoiceports.ErrIdempotencyInProgress):
		return ErrTypeIdempotencyInProgress
	case errors.Is(err, application.ErrPersistence):
		return ErrTypePersistence
	default:
		return ""
	}
}
