package handler

import (
	"github.com/gin-gonic/gin"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/dto"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/middleware"
)

// LedgerHandler writes document entry pairs to the ledger
type LedgerHandler struct {
	BaseHandler
	ledger *appfinance.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *appfinance.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.POST("/invoices/:id/post", h.PostInvoice)
		ledger.POST("/bills/:id/post", h.PostBill)
		ledger.POST("/required-accounts", h.EnsureRequiredAccounts)
	}
}

// PostInvoice writes the receivable pair for an issued invoice.
// Posting the same invoice twice is a no-op.
func (h *LedgerHandler) PostInvoice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	result, err := h.ledger.PostInvoiceIssued(c.Request.Context(), id, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewPostingPairResponse(result))
}

// PostBill writes the payable pair for a received bill
func (h *LedgerHandler) PostBill(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid bill id")
		return
	}

	result, err := h.ledger.PostBillReceived(c.Request.Context(), id, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewPostingPairResponse(result))
}

// EnsureRequiredAccounts seeds the fixed accounts settlement posting
// depends on. Safe to call repeatedly.
func (h *LedgerHandler) EnsureRequiredAccounts(c *gin.Context) {
	result, err := h.ledger.EnsureRequiredAccounts(c.Request.Context(), middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"created":  dto.NewAccountResponses(result.Created),
		"existing": dto.NewAccountResponses(result.Existing),
	})
}
