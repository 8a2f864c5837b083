package finance

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// LedgerService writes double-entry postings for business documents
type LedgerService struct {
	uow    domain.UnitOfWork
	logger *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uow domain.UnitOfWork, logger *zap.Logger) *LedgerService {
	return &LedgerService{uow: uow, logger: logger}
}

var postingClock atomic.Int64

// postingStamp returns the current millisecond, bumped past the last
// issued stamp so two documents posted in the same millisecond cannot
// collide on the posting number unique index.
func postingStamp() int64 {
	for {
		last := postingClock.Load()
		now := time.Now().UnixMilli()
		if now <= last {
			now = last + 1
		}
		if postingClock.CompareAndSwap(last, now) {
			return now
		}
	}
}

// PostingResult reports the entry pair written for a document
type PostingResult struct {
	Postings []*domain.Posting
	// AlreadyPosted is true when the document had existing entries and
	// nothing new was written.
	AlreadyPosted bool
}

// PostInvoiceIssued writes the receivable pair for an invoice: a
// pending debit on Debtors and a completed credit on Sales Income.
// Posting twice for the same invoice is a no-op.
func (s *LedgerService) PostInvoiceIssued(ctx context.Context, invoiceID uuid.UUID, actorID uuid.UUID) (*PostingResult, error) {
	var result *PostingResult
	err := s.uow.Execute(ctx, func(repos domain.Repositories) error {
		invoice, err := repos.Invoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return shared.NewNotFoundError("invoice", invoiceID)
		}

		existing, err := repos.Postings().FindByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			result = &PostingResult{Postings: existing, AlreadyPosted: true}
			return nil
		}

		debtors, err := s.requireAccount(ctx, repos, domain.CodeDebtors)
		if err != nil {
			return err
		}
		sales, err := s.requireAccount(ctx, repos, domain.CodeSales)
		if err != nil {
			return err
		}

		ts := postingStamp()
		debit, err := domain.NewPosting(fmt.Sprintf("INV-DEBT-%d", ts), domain.PostingReceived,
			invoice.TotalAmount, debtors.ID, domain.PostingPending, domain.MethodBankTransfer, actorID)
		if err != nil {
			return err
		}
		credit, err := domain.NewPosting(fmt.Sprintf("INV-SALES-%d", ts), domain.PostingReceived,
			invoice.TotalAmount.Neg(), sales.ID, domain.PostingCompleted, domain.MethodBankTransfer, actorID)
		if err != nil {
			return err
		}
		for _, p := range []*domain.Posting{debit, credit} {
			if err := p.LinkInvoice(invoiceID); err != nil {
				return err
			}
			p.ContactID = &invoice.CustomerID
			p.Reference = invoice.InvoiceNumber
		}

		pair, err := domain.NewEntryPair(debit, credit)
		if err != nil {
			return err
		}
		for _, p := range pair.Postings() {
			if err := repos.Postings().Save(ctx, p); err != nil {
				return err
			}
		}

		result = &PostingResult{Postings: pair.Postings()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyPosted {
		s.logger.Info("invoice posted to ledger",
			zap.String("invoice_id", invoiceID.String()),
			zap.Int("entries", len(result.Postings)))
	}
	return result, nil
}

// PostBillReceived writes the payable pair for a bill: a completed
// credit on Bank and a completed debit on Creditors.
func (s *LedgerService) PostBillReceived(ctx context.Context, billID uuid.UUID, actorID uuid.UUID) (*PostingResult, error) {
	var result *PostingResult
	err := s.uow.Execute(ctx, func(repos domain.Repositories) error {
		bill, err := repos.Bills().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return shared.NewNotFoundError("bill", billID)
		}

		existing, err := repos.Postings().FindByBill(ctx, billID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			result = &PostingResult{Postings: existing, AlreadyPosted: true}
			return nil
		}

		bank, err := s.requireAccount(ctx, repos, domain.CodeBank)
		if err != nil {
			return err
		}
		creditors, err := s.requireAccount(ctx, repos, domain.CodeCreditors)
		if err != nil {
			return err
		}

		ts := postingStamp()
		debit, err := domain.NewPosting(fmt.Sprintf("BILL-CRED-%d", ts), domain.PostingPaid,
			bill.TotalAmount, creditors.ID, domain.PostingCompleted, domain.MethodBankTransfer, actorID)
		if err != nil {
			return err
		}
		credit, err := domain.NewPosting(fmt.Sprintf("BILL-BANK-%d", ts), domain.PostingPaid,
			bill.TotalAmount.Neg(), bank.ID, domain.PostingCompleted, domain.MethodBankTransfer, actorID)
		if err != nil {
			return err
		}
		for _, p := range []*domain.Posting{debit, credit} {
			if err := p.LinkBill(billID); err != nil {
				return err
			}
			p.ContactID = &bill.VendorID
			p.Reference = bill.BillNumber
		}

		pair, err := domain.NewEntryPair(debit, credit)
		if err != nil {
			return err
		}
		for _, p := range pair.Postings() {
			if err := repos.Postings().Save(ctx, p); err != nil {
				return err
			}
		}

		result = &PostingResult{Postings: pair.Postings()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyPosted {
		s.logger.Info("bill posted to ledger",
			zap.String("bill_id", billID.String()),
			zap.Int("entries", len(result.Postings)))
	}
	return result, nil
}

// EnsureAccountsResult reports which required accounts were created
type EnsureAccountsResult struct {
	Created  []*domain.ChartAccount
	Existing []*domain.ChartAccount
}

// EnsureRequiredAccounts creates any missing fixed accounts the
// posting engine depends on. Safe to run repeatedly.
func (s *LedgerService) EnsureRequiredAccounts(ctx context.Context, actorID uuid.UUID) (*EnsureAccountsResult, error) {
	result := &EnsureAccountsResult{}
	err := s.uow.Execute(ctx, func(repos domain.Repositories) error {
		for _, req := range domain.RequiredAccounts() {
			existing, err := repos.Accounts().FindByCode(ctx, req.Code)
			if err != nil {
				return err
			}
			if existing != nil && existing.Active {
				result.Existing = append(result.Existing, existing)
				continue
			}

			account, err := domain.NewChartAccount(req.Code, req.Name, req.Kind, nil, decimal.Zero, actorID)
			if err != nil {
				return err
			}
			if err := repos.Accounts().Save(ctx, account); err != nil {
				return err
			}
			result.Created = append(result.Created, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Created) > 0 {
		codes := make([]string, len(result.Created))
		for i, a := range result.Created {
			codes[i] = a.Code
		}
		s.logger.Info("required accounts created", zap.Strings("codes", codes))
	}
	return result, nil
}

func (s *LedgerService) requireAccount(ctx context.Context, repos domain.Repositories, code string) (*domain.ChartAccount, error) {
	account, err := repos.Accounts().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.CanAcceptPosting() {
		return nil, shared.NewDomainErrorf(domain.ErrCodeMissingRequiredAccount,
			"required account %s is missing or archived", code)
	}
	return account, nil
}
