package dto

import (
	"time"

	"github.com/google/uuid"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
)

// CreateOrderRequest asks for a gateway order covering one or more
// documents. Exactly one of invoice_ids and bill_ids must be set.
type CreateOrderRequest struct {
	InvoiceIDs []string `json:"invoice_ids" binding:"omitempty,dive,uuid"`
	BillIDs    []string `json:"bill_ids" binding:"omitempty,dive,uuid"`
	Amount     *string  `json:"amount"`
}

// VerifyPaymentRequest carries the gateway's payment callback payload
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// GatewayOrderResponse is the local mirror of a gateway order
type GatewayOrderResponse struct {
	ID          uuid.UUID  `json:"id"`
	ExternalID  string     `json:"external_id"`
	AmountPaise int64      `json:"amount_paise"`
	Currency    string     `json:"currency"`
	Receipt     string     `json:"receipt"`
	Status      string     `json:"status"`
	Kind        string     `json:"kind"`
	InvoiceID   *uuid.UUID `json:"invoice_id,omitempty"`
	BillID      *uuid.UUID `json:"bill_id,omitempty"`
	CustomerRef string     `json:"customer_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OrderResponse wraps the order and the documents it covers
type OrderResponse struct {
	Order      GatewayOrderResponse `json:"order"`
	IsExisting bool                 `json:"is_existing"`
	Invoices   []InvoiceResponse    `json:"invoices,omitempty"`
	Bills      []BillResponse       `json:"bills,omitempty"`
}

// NewOrderResponse maps a broker result
func NewOrderResponse(r *appfinance.OrderResult) OrderResponse {
	return OrderResponse{
		Order:      newGatewayOrderResponse(r.Order),
		IsExisting: r.IsExisting,
		Invoices:   NewInvoiceResponses(r.Invoices),
		Bills:      NewBillResponses(r.Bills),
	}
}

func newGatewayOrderResponse(o *domain.GatewayOrder) GatewayOrderResponse {
	return GatewayOrderResponse{
		ID:          o.ID,
		ExternalID:  o.ExternalID,
		AmountPaise: o.AmountPaise,
		Currency:    o.Currency,
		Receipt:     o.Receipt,
		Status:      o.Status,
		Kind:        string(o.Kind),
		InvoiceID:   o.InvoiceID,
		BillID:      o.BillID,
		CustomerRef: o.CustomerRef,
		CreatedAt:   o.CreatedAt,
	}
}

// InvoiceResponse is a customer invoice as returned to API clients
type InvoiceResponse struct {
	ID             uuid.UUID `json:"id"`
	InvoiceNumber  string    `json:"invoice_number"`
	CustomerID     uuid.UUID `json:"customer_id"`
	InvoiceDate    time.Time `json:"invoice_date"`
	DueDate        time.Time `json:"due_date"`
	TotalAmount    string    `json:"total_amount"`
	TaxAmount      string    `json:"tax_amount"`
	ReceivedAmount string    `json:"received_amount"`
	PendingAmount  string    `json:"pending_amount"`
	Status         string    `json:"status"`
	Version        int       `json:"version"`
}

// NewInvoiceResponse maps an invoice aggregate
func NewInvoiceResponse(inv *domain.CustomerInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		TotalAmount:    inv.TotalAmount.StringFixed(2),
		TaxAmount:      inv.TaxAmount.StringFixed(2),
		ReceivedAmount: inv.ReceivedAmount.StringFixed(2),
		PendingAmount:  inv.PendingAmount().StringFixed(2),
		Status:         string(inv.Status),
		Version:        inv.Version,
	}
}

// NewInvoiceResponses maps a list of invoices
func NewInvoiceResponses(invoices []*domain.CustomerInvoice) []InvoiceResponse {
	if len(invoices) == 0 {
		return nil
	}
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, NewInvoiceResponse(inv))
	}
	return out
}

// BillResponse is a vendor bill as returned to API clients
type BillResponse struct {
	ID            uuid.UUID `json:"id"`
	BillNumber    string    `json:"bill_number"`
	VendorID      uuid.UUID `json:"vendor_id"`
	BillDate      time.Time `json:"bill_date"`
	DueDate       time.Time `json:"due_date"`
	TotalAmount   string    `json:"total_amount"`
	TaxAmount     string    `json:"tax_amount"`
	PaidAmount    string    `json:"paid_amount"`
	PendingAmount string    `json:"pending_amount"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
}

// NewBillResponse maps a bill aggregate
func NewBillResponse(bill *domain.VendorBill) BillResponse {
	return BillResponse{
		ID:            bill.ID,
		BillNumber:    bill.BillNumber,
		VendorID:      bill.VendorID,
		BillDate:      bill.BillDate,
		DueDate:       bill.DueDate,
		TotalAmount:   bill.TotalAmount.StringFixed(2),
		TaxAmount:     bill.TaxAmount.StringFixed(2),
		PaidAmount:    bill.PaidAmount.StringFixed(2),
		PendingAmount: bill.PendingAmount().StringFixed(2),
		Status:        string(bill.Status),
		Version:       bill.Version,
	}
}

// NewBillResponses maps a list of bills
func NewBillResponses(bills []*domain.VendorBill) []BillResponse {
	if len(bills) == 0 {
		return nil
	}
	out := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		out = append(out, NewBillResponse(bill))
	}
	return out
}

// SettlementResponse reports a settled payment
type SettlementResponse struct {
	ID                uuid.UUID   `json:"id"`
	PaymentNumber     string      `json:"payment_number"`
	ExternalOrderID   string      `json:"external_order_id"`
	ExternalPaymentID string      `json:"external_payment_id"`
	Amount            string      `json:"amount"`
	DocumentType      string      `json:"document_type"`
	DocumentIDs       []uuid.UUID `json:"document_ids"`
	PostingID         *uuid.UUID  `json:"posting_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// CallbackResponse is the outcome of a verified payment callback
type CallbackResponse struct {
	Settlement       SettlementResponse `json:"settlement"`
	AlreadyProcessed bool               `json:"already_processed"`
	Invoices         []InvoiceResponse  `json:"invoices,omitempty"`
	Bills            []BillResponse     `json:"bills,omitempty"`
}

// NewCallbackResponse maps a callback outcome
func NewCallbackResponse(o *appfinance.CallbackOutcome) CallbackResponse {
	s := o.Settlement
	return CallbackResponse{
		Settlement: SettlementResponse{
			ID:                s.ID,
			PaymentNumber:     s.PaymentNumber,
			ExternalOrderID:   s.ExternalOrderID,
			ExternalPaymentID: s.ExternalPaymentID,
			Amount:            s.Amount.StringFixed(2),
			DocumentType:      string(s.DocumentType),
			DocumentIDs:       s.DocumentIDs,
			PostingID:         s.PostingID,
			CreatedAt:         s.CreatedAt,
		},
		AlreadyProcessed: o.AlreadyProcessed,
		Invoices:         NewInvoiceResponses(o.Invoices),
		Bills:            NewBillResponses(o.Bills),
	}
}

// PostingResponse is one ledger entry
type PostingResponse struct {
	ID             uuid.UUID  `json:"id"`
	SequenceNumber string     `json:"sequence_number"`
	Kind           string     `json:"kind"`
	Amount         string     `json:"amount"`
	AccountID      uuid.UUID  `json:"account_id"`
	InvoiceID      *uuid.UUID `json:"invoice_id,omitempty"`
	BillID         *uuid.UUID `json:"bill_id,omitempty"`
	Status         string     `json:"status"`
	Method         string     `json:"method"`
	Reference      string     `json:"reference,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewPostingResponse maps a posting
func NewPostingResponse(p *domain.Posting) PostingResponse {
	return PostingResponse{
		ID:             p.ID,
		SequenceNumber: p.SequenceNumber,
		Kind:           string(p.Kind),
		Amount:         p.Amount.StringFixed(2),
		AccountID:      p.AccountID,
		InvoiceID:      p.InvoiceID,
		BillID:         p.BillID,
		Status:         string(p.Status),
		Method:         string(p.Method),
		Reference:      p.Reference,
		CreatedAt:      p.CreatedAt,
	}
}

// PostingPairResponse reports the entry pair a document posting created
type PostingPairResponse struct {
	Postings      []PostingResponse `json:"postings"`
	AlreadyPosted bool              `json:"already_posted"`
}

// NewPostingPairResponse maps a ledger posting result
func NewPostingPairResponse(r *appfinance.PostingResult) PostingPairResponse {
	postings := make([]PostingResponse, 0, len(r.Postings))
	for _, p := range r.Postings {
		postings = append(postings, NewPostingResponse(p))
	}
	return PostingPairResponse{
		Postings:      postings,
		AlreadyPosted: r.AlreadyPosted,
	}
}
