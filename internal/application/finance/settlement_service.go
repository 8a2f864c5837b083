package finance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
)

// SettlementSettings tunes how settlements distribute across documents
type SettlementSettings struct {
	// ProRataAllocation splits the settled amount across documents in
	// proportion to their totals. When false the full settled amount is
	// applied to every document in the batch, which matches the
	// historical clearing behavior this system replaced.
	ProRataAllocation bool
}

// SettlementService applies verified gateway payments to documents and
// records the settlement for idempotency.
type SettlementService struct {
	uow      domain.UnitOfWork
	settings SettlementSettings
	logger   *zap.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uow domain.UnitOfWork, settings SettlementSettings, logger *zap.Logger) *SettlementService {
	return &SettlementService{uow: uow, settings: settings, logger: logger}
}

// SettlementInput describes one verified gateway payment
type SettlementInput struct {
	DocumentType      domain.DocumentType
	DocumentIDs       []uuid.UUID
	Amount            valueobject.Money
	Method            domain.PaymentMethod
	ExternalOrderID   string
	ExternalPaymentID string
	ActorID           uuid.UUID
}

// SettlementResult reports what a settlement changed
type SettlementResult struct {
	Settlement *domain.Settlement
	Posting    *domain.Posting
	Invoices   []*domain.CustomerInvoice
	Bills      []*domain.VendorBill
	// AlreadyProcessed is true when the payment had been settled before
	// and no state changed.
	AlreadyProcessed bool
}

// Apply settles a payment against the named documents atomically:
// document accumulators, the bank posting, and the settlement record
// commit together or not at all.
func (s *SettlementService) Apply(ctx context.Context, input SettlementInput) (*SettlementResult, error) {
	if len(input.DocumentIDs) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "at least one document is required")
	}
	if !input.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "settlement amount must be positive")
	}

	var result *SettlementResult
	err := s.uow.Execute(ctx, func(repos domain.Repositories) error {
		existing, err := repos.Settlements().FindByExternalPayment(ctx, input.ExternalOrderID, input.ExternalPaymentID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = &SettlementResult{Settlement: existing, AlreadyProcessed: true}
			return nil
		}

		now := time.Now()
		shares, err := s.allocate(ctx, repos, input)
		if err != nil {
			return err
		}

		res := &SettlementResult{}
		var primaryInvoice, primaryBill *uuid.UUID
		var contactID *uuid.UUID

		switch input.DocumentType {
		case domain.DocumentInvoice:
			for _, docID := range input.DocumentIDs {
				invoice, err := repos.Invoices().FindByID(ctx, docID)
				if err != nil {
					return err
				}
				if invoice == nil {
					return shared.NewNotFoundError("invoice", docID)
				}
				if err := invoice.ApplySettlement(shares[docID], now); err != nil {
					return err
				}
				if err := repos.Invoices().SaveWithLock(ctx, invoice); err != nil {
					return err
				}
				res.Invoices = append(res.Invoices, invoice)
			}
			primaryInvoice = &res.Invoices[0].ID
			contactID = &res.Invoices[0].CustomerID
		case domain.DocumentBill:
			for _, docID := range input.DocumentIDs {
				bill, err := repos.Bills().FindByID(ctx, docID)
				if err != nil {
					return err
				}
				if bill == nil {
					return shared.NewNotFoundError("bill", docID)
				}
				if err := bill.ApplySettlement(shares[docID], now); err != nil {
					return err
				}
				if err := repos.Bills().SaveWithLock(ctx, bill); err != nil {
					return err
				}
				res.Bills = append(res.Bills, bill)
			}
			primaryBill = &res.Bills[0].ID
			contactID = &res.Bills[0].VendorID
		default:
			return shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid document type: %s", input.DocumentType)
		}

		bank, err := repos.Accounts().FindByCode(ctx, domain.CodeBank)
		if err != nil {
			return err
		}
		if bank == nil || !bank.CanAcceptPosting() {
			return shared.NewDomainErrorf(domain.ErrCodeMissingRequiredAccount,
				"required account %s is missing or archived", domain.CodeBank)
		}

		paymentNumber, err := repos.Postings().NextPaymentNumber(ctx, now)
		if err != nil {
			return err
		}

		kind := domain.PostingReceived
		amount := input.Amount.Amount()
		if input.DocumentType == domain.DocumentBill {
			kind = domain.PostingPaid
			amount = amount.Neg()
		}
		posting, err := domain.NewPosting(paymentNumber, kind, amount, bank.ID,
			domain.PostingCompleted, input.Method, input.ActorID)
		if err != nil {
			return err
		}
		posting.ContactID = contactID
		posting.Reference = input.ExternalPaymentID
		if primaryInvoice != nil {
			if err := posting.LinkInvoice(*primaryInvoice); err != nil {
				return err
			}
		}
		if primaryBill != nil {
			if err := posting.LinkBill(*primaryBill); err != nil {
				return err
			}
		}
		if err := repos.Postings().Save(ctx, posting); err != nil {
			return err
		}

		settlement, err := domain.NewSettlement(paymentNumber, input.ExternalOrderID, input.ExternalPaymentID,
			input.Amount.Amount(), input.DocumentType, input.DocumentIDs, input.ActorID)
		if err != nil {
			return err
		}
		settlement.AttachPosting(posting.ID)
		if err := repos.Settlements().Save(ctx, settlement); err != nil {
			return err
		}

		res.Settlement = settlement
		res.Posting = posting
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyProcessed {
		s.logger.Info("settlement already processed",
			zap.String("external_payment_id", input.ExternalPaymentID))
	} else {
		s.logger.Info("settlement applied",
			zap.String("payment_number", result.Settlement.PaymentNumber),
			zap.String("external_payment_id", input.ExternalPaymentID),
			zap.String("amount", input.Amount.StringFixed()),
			zap.Int("documents", len(input.DocumentIDs)))
	}
	return result, nil
}

// allocate decides each document's share of the settled amount
func (s *SettlementService) allocate(ctx context.Context, repos domain.Repositories, input SettlementInput) (map[uuid.UUID]valueobject.Money, error) {
	shares := make(map[uuid.UUID]valueobject.Money, len(input.DocumentIDs))
	if !s.settings.ProRataAllocation || len(input.DocumentIDs) == 1 {
		for _, id := range input.DocumentIDs {
			shares[id] = input.Amount
		}
		return shares, nil
	}

	totals := make(map[uuid.UUID]decimal.Decimal, len(input.DocumentIDs))
	grand := decimal.Zero
	for _, id := range input.DocumentIDs {
		total := decimal.Zero
		switch input.DocumentType {
		case domain.DocumentInvoice:
			inv, err := repos.Invoices().FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if inv != nil {
				total = inv.TotalAmount
			}
		case domain.DocumentBill:
			bill, err := repos.Bills().FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if bill != nil {
				total = bill.TotalAmount
			}
		}
		totals[id] = total
		grand = grand.Add(total)
	}
	if grand.IsZero() {
		for _, id := range input.DocumentIDs {
			shares[id] = input.Amount
		}
		return shares, nil
	}

	// largest-remainder split in paise so the shares sum exactly to
	// the settled amount
	amountPaise := decimal.NewFromInt(input.Amount.Paise())
	type portion struct {
		id        uuid.UUID
		paise     decimal.Decimal
		remainder decimal.Decimal
	}
	portions := make([]portion, 0, len(input.DocumentIDs))
	floored := decimal.Zero
	for _, id := range input.DocumentIDs {
		exact := amountPaise.Mul(totals[id]).Div(grand)
		base := exact.Floor()
		portions = append(portions, portion{id: id, paise: base, remainder: exact.Sub(base)})
		floored = floored.Add(base)
	}
	leftover := amountPaise.Sub(floored).IntPart()
	sort.SliceStable(portions, func(i, j int) bool {
		return portions[i].remainder.GreaterThan(portions[j].remainder)
	})
	hundred := decimal.NewFromInt(100)
	for i := range portions {
		if int64(i) < leftover {
			portions[i].paise = portions[i].paise.Add(decimal.NewFromInt(1))
		}
		shares[portions[i].id] = valueobject.NewMoneyINR(portions[i].paise.Div(hundred))
	}
	return shares, nil
}
