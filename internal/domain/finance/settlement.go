package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// Settlement is the idempotency record of a processed gateway payment.
// The (ExternalOrderID, ExternalPaymentID) pair is unique: a retried
// callback finds the existing row and does nothing.
type Settlement struct {
	shared.BaseEntity
	PaymentNumber     string
	ExternalOrderID   string
	ExternalPaymentID string
	Amount            decimal.Decimal
	DocumentType      DocumentType
	DocumentIDs       []uuid.UUID
	PostingID         *uuid.UUID
	CreatedBy         uuid.UUID
}

// NewSettlement records a settled gateway payment
func NewSettlement(paymentNumber, externalOrderID, externalPaymentID string, amount decimal.Decimal, docType DocumentType, documentIDs []uuid.UUID, createdBy uuid.UUID) (*Settlement, error) {
	if strings.TrimSpace(paymentNumber) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "payment number is required")
	}
	if strings.TrimSpace(externalOrderID) == "" || strings.TrimSpace(externalPaymentID) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "gateway order and payment ids are required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "settlement amount must be positive")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid document type: %s", docType)
	}
	if len(documentIDs) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "at least one document is required")
	}
	return &Settlement{
		BaseEntity:        shared.NewBaseEntity(),
		PaymentNumber:     paymentNumber,
		ExternalOrderID:   externalOrderID,
		ExternalPaymentID: externalPaymentID,
		Amount:            amount,
		DocumentType:      docType,
		DocumentIDs:       documentIDs,
		CreatedBy:         createdBy,
	}, nil
}

// AttachPosting links the bank posting written for this settlement
func (s *Settlement) AttachPosting(postingID uuid.UUID) {
	s.PostingID = &postingID
}
