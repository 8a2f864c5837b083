package finance

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// OrderKind records what a gateway order was raised against
type OrderKind string

const (
	OrderSingleInvoice OrderKind = "SINGLE_INVOICE"
	OrderMultiInvoice  OrderKind = "MULTI_INVOICE"
	OrderMultiBill     OrderKind = "MULTI_BILL"
)

// IsValid checks if the order kind is known
func (k OrderKind) IsValid() bool {
	switch k {
	case OrderSingleInvoice, OrderMultiInvoice, OrderMultiBill:
		return true
	}
	return false
}

// Gateway order lifecycle states, mirroring the gateway's own values
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

// Keys for the notes map attached to gateway orders. The notes travel
// to the gateway and come back on fetch, so the callback path can
// recover the full document list without a local join table.
const (
	NoteOrderKind  = "order_kind"
	NoteInvoiceIDs = "invoice_ids"
	NoteBillIDs    = "bill_ids"
	NoteContactID  = "contact_id"
	NoteCreatedBy  = "created_by"
)

// JoinIDs serializes document IDs for a notes value
func JoinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// SplitIDs parses a notes value back into document IDs
func SplitIDs(s string) ([]uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid document id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GatewayOrder is the local mirror of an order created at the payment
// gateway. It links the gateway's identifier space to our documents;
// the primary document link carries the first document, the complete
// list lives in the order notes at the gateway.
type GatewayOrder struct {
	shared.BaseEntity
	ExternalID  string
	AmountPaise int64
	Currency    string
	Receipt     string
	Status      string
	Kind        OrderKind
	InvoiceID   *uuid.UUID
	BillID      *uuid.UUID
	CustomerRef string
	CreatedBy   uuid.UUID
}

// NewGatewayOrder creates a local mirror for a freshly created order
func NewGatewayOrder(externalID string, amountPaise int64, currency, receipt, status string, kind OrderKind, createdBy uuid.UUID) (*GatewayOrder, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "gateway order id is required")
	}
	if amountPaise <= 0 {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "order amount must be positive")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid order kind: %s", kind)
	}
	if status == "" {
		status = OrderStatusCreated
	}
	return &GatewayOrder{
		BaseEntity:  shared.NewBaseEntity(),
		ExternalID:  externalID,
		AmountPaise: amountPaise,
		Currency:    currency,
		Receipt:     receipt,
		Status:      status,
		Kind:        kind,
		CreatedBy:   createdBy,
	}, nil
}

// LinkPrimaryInvoice records the first invoice the order pays
func (o *GatewayOrder) LinkPrimaryInvoice(invoiceID uuid.UUID) {
	o.InvoiceID = &invoiceID
}

// LinkPrimaryBill records the first bill the order pays
func (o *GatewayOrder) LinkPrimaryBill(billID uuid.UUID) {
	o.BillID = &billID
}

// MarkPaid transitions the mirror to paid
func (o *GatewayOrder) MarkPaid() {
	o.Status = OrderStatusPaid
	o.Touch()
}

// IsLive reports whether the order can still be presented for payment
func (o *GatewayOrder) IsLive() bool {
	return o.Status == OrderStatusCreated || o.Status == OrderStatusAttempted
}
