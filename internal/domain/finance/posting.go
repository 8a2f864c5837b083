package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// PostingKind distinguishes money coming in from money going out
type PostingKind string

const (
	PostingReceived PostingKind = "RECEIVED"
	PostingPaid     PostingKind = "PAID"
)

// IsValid checks if the posting kind is known
func (k PostingKind) IsValid() bool {
	return k == PostingReceived || k == PostingPaid
}

// PostingStatus marks whether a posting is awaiting settlement
type PostingStatus string

const (
	PostingPending   PostingStatus = "pending"
	PostingCompleted PostingStatus = "completed"
)

// PaymentMethod records how a settlement was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodUPI          PaymentMethod = "UPI"
	MethodCard         PaymentMethod = "CARD"
	MethodCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodUPI, MethodCard, MethodCheque:
		return true
	}
	return false
}

// Posting is a single signed ledger entry. Positive amounts are
// debits, negative amounts are credits. Postings are append-only:
// corrections are made with reversing entries, never edits.
type Posting struct {
	shared.BaseEntity
	SequenceNumber string
	Kind           PostingKind
	Amount         decimal.Decimal
	AccountID      uuid.UUID
	ContactID      *uuid.UUID
	InvoiceID      *uuid.UUID
	BillID         *uuid.UUID
	Status         PostingStatus
	Method         PaymentMethod
	Reference      string
	Notes          string
	CreatedBy      uuid.UUID
}

// NewPosting creates a single ledger entry
func NewPosting(sequenceNumber string, kind PostingKind, amount decimal.Decimal, accountID uuid.UUID, status PostingStatus, method PaymentMethod, createdBy uuid.UUID) (*Posting, error) {
	sequenceNumber = strings.TrimSpace(sequenceNumber)
	if sequenceNumber == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "sequence number is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid posting kind: %s", kind)
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "posting amount must be non-zero")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "account is required")
	}
	if status != PostingPending && status != PostingCompleted {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid posting status: %s", status)
	}
	if !method.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid payment method: %s", method)
	}
	return &Posting{
		BaseEntity:     shared.NewBaseEntity(),
		SequenceNumber: sequenceNumber,
		Kind:           kind,
		Amount:         amount,
		AccountID:      accountID,
		Status:         status,
		Method:         method,
		CreatedBy:      createdBy,
	}, nil
}

// LinkInvoice ties the posting to a customer invoice
func (p *Posting) LinkInvoice(invoiceID uuid.UUID) error {
	if p.BillID != nil {
		return shared.NewDomainError(shared.ErrCodeInvariantViolation, "posting already linked to a bill")
	}
	p.InvoiceID = &invoiceID
	return nil
}

// LinkBill ties the posting to a vendor bill
func (p *Posting) LinkBill(billID uuid.UUID) error {
	if p.InvoiceID != nil {
		return shared.NewDomainError(shared.ErrCodeInvariantViolation, "posting already linked to an invoice")
	}
	p.BillID = &billID
	return nil
}

// IsDebit reports whether the entry increases the account's debit side
func (p *Posting) IsDebit() bool {
	return p.Amount.IsPositive()
}

// IsCredit reports whether the entry is a credit
func (p *Posting) IsCredit() bool {
	return p.Amount.IsNegative()
}

// EntryPair is a balanced double-entry pair. The pair is the atomic
// unit of posting: both legs persist in one transaction or neither does.
type EntryPair struct {
	Debit  *Posting
	Credit *Posting
}

// NewEntryPair validates and builds a balanced pair
func NewEntryPair(debit, credit *Posting) (EntryPair, error) {
	if debit == nil || credit == nil {
		return EntryPair{}, shared.NewDomainError(shared.ErrCodeInvalidInput, "both entries are required")
	}
	if !debit.IsDebit() {
		return EntryPair{}, shared.NewDomainError(shared.ErrCodeInvariantViolation, "debit entry must have a positive amount")
	}
	if !credit.IsCredit() {
		return EntryPair{}, shared.NewDomainError(shared.ErrCodeInvariantViolation, "credit entry must have a negative amount")
	}
	if !debit.Amount.Add(credit.Amount).IsZero() {
		return EntryPair{}, shared.NewDomainErrorf(shared.ErrCodeInvariantViolation,
			"entry pair does not balance: %s + %s", debit.Amount, credit.Amount)
	}
	if debit.AccountID == credit.AccountID {
		return EntryPair{}, shared.NewDomainError(shared.ErrCodeInvariantViolation, "entry pair must span two accounts")
	}
	return EntryPair{Debit: debit, Credit: credit}, nil
}

// Postings returns both legs in debit-first order
func (ep EntryPair) Postings() []*Posting {
	return []*Posting{ep.Debit, ep.Credit}
}
