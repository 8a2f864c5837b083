package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
)

// CustomerInvoice is an accounts-receivable document. ReceivedAmount
// is a monotone accumulator: settlements only ever add to it.
type CustomerInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string
	CustomerID     uuid.UUID
	InvoiceDate    time.Time
	DueDate        time.Time
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	ReceivedAmount decimal.Decimal
	Status         DocumentStatus
	Notes          string
	CreatedBy      uuid.UUID
}

// NewCustomerInvoice creates a new unpaid invoice
func NewCustomerInvoice(number string, customerID uuid.UUID, invoiceDate, dueDate time.Time, total, tax decimal.Decimal, createdBy uuid.UUID) (*CustomerInvoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "invoice number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "customer is required")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "invoice total must be positive")
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "tax amount cannot be negative")
	}
	if dueDate.Before(invoiceDate) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "due date cannot precede invoice date")
	}
	inv := &CustomerInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     number,
		CustomerID:        customerID,
		InvoiceDate:       invoiceDate,
		DueDate:           dueDate,
		TotalAmount:       total,
		TaxAmount:         tax,
		ReceivedAmount:    decimal.Zero,
		CreatedBy:         createdBy,
	}
	inv.Status = DeriveDocumentStatus(inv.ReceivedAmount, inv.TotalAmount, inv.DueDate, time.Now())
	return inv, nil
}

// ApplySettlement adds a received amount to the accumulator and
// re-derives the status.
func (i *CustomerInvoice) ApplySettlement(amount valueobject.Money, now time.Time) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "settlement amount must be positive")
	}
	i.ReceivedAmount = i.ReceivedAmount.Add(amount.Amount())
	i.Status = DeriveDocumentStatus(i.ReceivedAmount, i.TotalAmount, i.DueDate, now)
	i.IncrementVersion()
	return nil
}

// RefreshStatus re-derives the status against the clock, flipping
// unpaid documents to OVERDUE once the due date passes.
func (i *CustomerInvoice) RefreshStatus(now time.Time) {
	next := DeriveDocumentStatus(i.ReceivedAmount, i.TotalAmount, i.DueDate, now)
	if next != i.Status {
		i.Status = next
		i.IncrementVersion()
	}
}

// IsPayable reports whether the invoice can still accept payment
func (i *CustomerInvoice) IsPayable() bool {
	return i.Status != StatusPaid
}

// PendingAmount returns the unpaid remainder, never negative
func (i *CustomerInvoice) PendingAmount() decimal.Decimal {
	pending := i.TotalAmount.Sub(i.ReceivedAmount)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}
