package shopserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/clothes-shop-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	companyapp "github.com/Apurer/clothes-shop-api/internal/domains/companies/application"
	companyports "github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
	invoiceapp "github.com/Apurer/clothes-shop-api/internal/domains/invoices/application"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	userapp "github.com/Apurer/clothes-shop-api/internal/domains/users/application"
	userports "github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
	"github.com/Apurer/clothes-shop-api/internal/platform/uploads"
	apierrors "github.com/Apurer/clothes-shop-api/internal/shared/errors"
)

// responder maps bounded-context errors to problem documents. Invoice errors
// go first because a failed line wraps catalog sentinels.
var responder = apierrors.NewChainedResponder("",
	invoiceErrors,
	catalogErrors,
	companyErrors,
	userErrors,
	uploadErrors,
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// invoiceErrors maps posting failures. Insufficient stock answers 409 rather
// than 500 since the request was valid and the catalog could not satisfy it;
// the body carries requested, available, lineIndex and state.
func invoiceErrors(err error) (apierrors.ProblemDetail, bool) {
	var lineErr *invoiceapp.LineError
	hasLine := errors.As(err, &lineErr)
	withLine := func(p apierrors.ProblemDetail) apierrors.ProblemDetail {
		p = p.WithExtension("state", string(invoiceapp.FailedState(err)))
		if !hasLine {
			return p
		}
		return p.WithExtension("lineIndex", lineErr.Index).
			WithExtension("productId", lineErr.ProductID).
			WithExtension("size", lineErr.Size).
			WithExtension("color", lineErr.Color)
	}

	var insufficient *catalogdomain.InsufficientStockError
	switch {
	case errors.Is(err, invoiceapp.ErrCompensationFailed):
		return withLine(apierrors.ErrInternal.WithDetail("Invoice failed and stock could not be fully restored")), true
	case errors.As(err, &insufficient):
		detail := fmt.Sprintf("Insufficient stock for %s (size %s, color %s)", productLabel(insufficient), insufficient.Size, insufficient.Color)
		return withLine(apierrors.ErrInsufficientStock.WithDetail(detail)).
			WithExtension("requested", insufficient.Requested).
			WithExtension("available", insufficient.Available), true
	case hasLine && errors.Is(err, catalogports.ErrProductNotFound):
		return withLine(apierrors.ErrNotFound.WithDetail("Product not found")), true
	case hasLine && errors.Is(err, catalogdomain.ErrStockEntryNotFound):
		return withLine(apierrors.ErrNotFound.WithDetail("Size or color not available for this product")), true
	case errors.Is(err, invoiceapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, invoiceports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different request"), true
	case errors.Is(err, invoiceports.ErrIdempotencyInProgress):
		return apierrors.ErrConflict.WithDetail("A request with this Idempotency-Key is still being processed"), true
	case errors.Is(err, invoiceports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Invoice not found"), true
	case errors.Is(err, invoiceapp.ErrPersistence):
		return withLine(apierrors.ErrInternal.WithDetail("Internal server error")), true
	}
	return apierrors.ProblemDetail{}, false
}

func productLabel(e *catalogdomain.InsufficientStockError) string {
	if e.Title != "" {
		return e.Title
	}
	return e.ProductID
}

func catalogErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail("Product not found"), true
	case errors.Is(err, catalogports.ErrCategoryNotFound):
		return apierrors.ErrNotFound.WithDetail("Category not found"), true
	case errors.Is(err, catalogapp.ErrCategoryInUse):
		return apierrors.ErrConflict.WithDetail("Category still has products"), true
	case errors.Is(err, catalogports.ErrPersistence):
		return apierrors.ErrInternal.WithDetail("Internal server error"), true
	}
	return apierrors.ProblemDetail{}, false
}

func companyErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, companyapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, companyports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Company not found"), true
	}
	return apierrors.ProblemDetail{}, false
}

func userErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, userports.ErrUserExists):
		return apierrors.ErrBadRequest.WithDetail("User already exists"), true
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("User not found"), true
	case errors.Is(err, userapp.ErrInvalidPassword):
		return apierrors.ErrUnauthorized.WithDetail("Invalid password"), true
	case errors.Is(err, userapp.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail("Authentication required"), true
	}
	return apierrors.ProblemDetail{}, false
}

func uploadErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, uploads.ErrMissingImage):
		return apierrors.ErrValidation.WithDetail("Image is required"), true
	case errors.Is(err, uploads.ErrUnsupportedImage):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, uploads.ErrImageTooLarge):
		return apierrors.ErrPayloadTooLarge.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
