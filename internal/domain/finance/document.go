package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType discriminates payable document aggregates
type DocumentType string

const (
	DocumentInvoice DocumentType = "INVOICE"
	DocumentBill    DocumentType = "BILL"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	return t == DocumentInvoice || t == DocumentBill
}

// DocumentStatus is the payment status of an invoice or bill
type DocumentStatus string

const (
	StatusUnpaid        DocumentStatus = "UNPAID"
	StatusPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	StatusPaid          DocumentStatus = "PAID"
	StatusOverdue       DocumentStatus = "OVERDUE"
)

// Document-specific error codes
const (
	ErrCodeNoPayableDocuments = "NO_PAYABLE_DOCUMENTS"
	ErrCodeInvoiceAlreadyPaid = "INVOICE_ALREADY_PAID"
	ErrCodeBillAlreadyPaid    = "BILL_ALREADY_PAID"
)

// DeriveDocumentStatus computes a document's status from its paid
// accumulator and due date. Status is always derived, never set
// directly: PAID once the accumulator covers the total, otherwise
// OVERDUE past the due date, otherwise PARTIALLY_PAID or UNPAID.
func DeriveDocumentStatus(accumulated, total decimal.Decimal, dueDate, now time.Time) DocumentStatus {
	if accumulated.GreaterThanOrEqual(total) && total.IsPositive() {
		return StatusPaid
	}
	if now.After(dueDate) {
		return StatusOverdue
	}
	if accumulated.IsPositive() {
		return StatusPartiallyPaid
	}
	return StatusUnpaid
}
