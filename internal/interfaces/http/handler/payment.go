package handler

import (
	"github.com/gin-gonic/gin"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/dto"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/middleware"
)

// PaymentHandler brokers gateway orders and settles verified callbacks
type PaymentHandler struct {
	BaseHandler
	broker   *appfinance.OrderBrokerService
	callback *appfinance.CallbackService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(broker *appfinance.OrderBrokerService, callback *appfinance.CallbackService) *PaymentHandler {
	return &PaymentHandler{broker: broker, callback: callback}
}

// RegisterRoutes registers payment routes. The verify endpoint is
// called by the gateway redirect and carries no actor header.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/orders", h.CreateOrder)
		payments.POST("/verify", h.VerifyPayment)
		payments.DELETE("/orders/abandoned", h.CleanupAbandoned)
		payments.GET("/outstanding/invoices", h.OutstandingInvoices)
		payments.GET("/outstanding/bills", h.OutstandingBills)
	}
}

// CreateOrder returns a live gateway order for the requested
// documents, reusing an existing order where one is still open.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoiceIDs, err := parseUUIDs(req.InvoiceIDs)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}
	billIDs, err := parseUUIDs(req.BillIDs)
	if err != nil {
		h.BadRequest(c, "invalid bill id")
		return
	}

	orderReq := appfinance.OrderRequest{
		InvoiceIDs: invoiceIDs,
		BillIDs:    billIDs,
		ActorID:    middleware.GetActorID(c),
	}
	if req.Amount != nil {
		amount, err := valueobject.NewMoneyINRFromString(*req.Amount)
		if err != nil {
			h.BadRequest(c, "invalid amount")
			return
		}
		orderReq.Amount = &amount
	}

	result, err := h.broker.GetOrCreateOrder(c.Request.Context(), orderReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.IsExisting {
		h.Success(c, dto.NewOrderResponse(result))
		return
	}
	h.Created(c, dto.NewOrderResponse(result))
}

// VerifyPayment checks the callback signature and settles the payment
// against the documents the order was raised for.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.callback.VerifyAndSettle(c.Request.Context(), appfinance.CallbackInput{
		ExternalOrderID:   req.OrderID,
		ExternalPaymentID: req.PaymentID,
		Signature:         req.Signature,
		ActorID:           middleware.GetActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewCallbackResponse(outcome))
}

// CleanupAbandoned removes local order mirrors the payer never
// attempted.
func (h *PaymentHandler) CleanupAbandoned(c *gin.Context) {
	removed, err := h.broker.CleanupAbandonedOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"removed": removed})
}

// OutstandingInvoices lists invoices still awaiting payment, soonest
// due first.
func (h *PaymentHandler) OutstandingInvoices(c *gin.Context) {
	invoices, err := h.broker.OutstandingInvoices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewInvoiceResponses(invoices))
}

// OutstandingBills lists bills still awaiting payment
func (h *PaymentHandler) OutstandingBills(c *gin.Context) {
	bills, err := h.broker.OutstandingBills(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewBillResponses(bills))
}
