package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
)

// VendorBill is an accounts-payable document, the mirror of
// CustomerInvoice on the purchasing side.
type VendorBill struct {
	shared.BaseAggregateRoot
	BillNumber string
	VendorID   uuid.UUID
	BillDate   time.Time
	DueDate    time.Time
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal
	PaidAmount  decimal.Decimal
	Status      DocumentStatus
	Notes       string
	CreatedBy   uuid.UUID
}

// NewVendorBill creates a new unpaid bill
func NewVendorBill(number string, vendorID uuid.UUID, billDate, dueDate time.Time, total, tax decimal.Decimal, createdBy uuid.UUID) (*VendorBill, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "bill number is required")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "vendor is required")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "bill total must be positive")
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "tax amount cannot be negative")
	}
	if dueDate.Before(billDate) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "due date cannot precede bill date")
	}
	b := &VendorBill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        number,
		VendorID:          vendorID,
		BillDate:          billDate,
		DueDate:           dueDate,
		TotalAmount:       total,
		TaxAmount:         tax,
		PaidAmount:        decimal.Zero,
		CreatedBy:         createdBy,
	}
	b.Status = DeriveDocumentStatus(b.PaidAmount, b.TotalAmount, b.DueDate, time.Now())
	return b, nil
}

// ApplySettlement adds a paid amount to the accumulator and re-derives
// the status.
func (b *VendorBill) ApplySettlement(amount valueobject.Money, now time.Time) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "settlement amount must be positive")
	}
	b.PaidAmount = b.PaidAmount.Add(amount.Amount())
	b.Status = DeriveDocumentStatus(b.PaidAmount, b.TotalAmount, b.DueDate, now)
	b.IncrementVersion()
	return nil
}

// RefreshStatus re-derives the status against the clock
func (b *VendorBill) RefreshStatus(now time.Time) {
	next := DeriveDocumentStatus(b.PaidAmount, b.TotalAmount, b.DueDate, now)
	if next != b.Status {
		b.Status = next
		b.IncrementVersion()
	}
}

// IsPayable reports whether the bill can still accept payment
func (b *VendorBill) IsPayable() bool {
	return b.Status != StatusPaid
}

// PendingAmount returns the unpaid remainder, never negative
func (b *VendorBill) PendingAmount() decimal.Decimal {
	pending := b.TotalAmount.Sub(b.PaidAmount)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}
