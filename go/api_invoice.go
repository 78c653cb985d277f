package shopserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicemapper "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/http/mapper"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

// IdempotencyKeyHeader lets clients retry POST /invoices safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// InvoiceAPI wires HTTP transport with the invoices service and posting workflows.
type InvoiceAPI struct {
	service   invoiceports.Service
	workflows invoiceports.WorkflowOrchestrator
}

func NewInvoiceAPI(service invoiceports.Service, workflows invoiceports.WorkflowOrchestrator) InvoiceAPI {
	return InvoiceAPI{service: service, workflows: workflows}
}

// Get /invoices
func (api *InvoiceAPI) ListInvoices(c *gin.Context) {
	list, err := api.service.ListInvoices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoicemapper.FromProjectionList(list)})
}

// Get /invoices/:id
func (api *InvoiceAPI) GetInvoice(c *gin.Context) {
	invoice, err := api.service.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoicemapper.FromProjection(invoice)})
}

// Post /invoices
// Deducts stock for every line and records the invoice. A replayed
// Idempotency-Key returns the stored invoice with 200.
func (api *InvoiceAPI) CreateInvoice(c *gin.Context) {
	var body invoicemapper.CreateInvoice
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := invoicemapper.ToCreateInput(body, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.postInvoice(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	message := "Invoice saved successfully"
	if result.Replayed {
		status = http.StatusOK
		message = "Invoice already saved"
	}
	c.JSON(status, gin.H{"message": message, "invoice": invoicemapper.FromProjection(result.Invoice)})
}

func (api *InvoiceAPI) postInvoice(ctx context.Context, input invoiceports.CreateInvoiceInput) (*invoiceports.PostingResult, error) {
	if api.workflows != nil {
		return api.workflows.PostInvoice(ctx, input)
	}
	return api.service.CreateInvoice(ctx, input)
}
