package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// RegistryService manages the chart of accounts
type RegistryService struct {
	repos  domain.Repositories
	logger *zap.Logger
}

// NewRegistryService creates a new registry service
func NewRegistryService(repos domain.Repositories, logger *zap.Logger) *RegistryService {
	return &RegistryService{repos: repos, logger: logger}
}

// CreateAccountInput carries the fields for a new account
type CreateAccountInput struct {
	Code           string
	Name           string
	Kind           domain.AccountKind
	ParentID       *uuid.UUID
	OpeningBalance decimal.Decimal
}

// CreateAccount adds a new account to the chart
func (s *RegistryService) CreateAccount(ctx context.Context, input CreateAccountInput, actorID uuid.UUID) (*domain.ChartAccount, error) {
	exists, err := s.repos.Accounts().ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf(domain.ErrCodeDuplicateCode, "account code %s already exists", input.Code)
	}

	if input.ParentID != nil {
		if err := s.requireActiveParent(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	account, err := domain.NewChartAccount(input.Code, input.Name, input.Kind, input.ParentID, input.OpeningBalance, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Accounts().Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("code", account.Code),
		zap.String("kind", string(account.Kind)))

	return account, nil
}

// UpdateAccountInput carries optional account changes. Nil fields are
// left untouched; code and kind are immutable.
type UpdateAccountInput struct {
	Name     *string
	ParentID *uuid.UUID
	// ClearParent detaches the account from its parent
	ClearParent bool
}

// UpdateAccount renames or re-parents an account
func (s *RegistryService) UpdateAccount(ctx context.Context, id uuid.UUID, input UpdateAccountInput) (*domain.ChartAccount, error) {
	account, err := s.repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewNotFoundError("account", id)
	}

	if input.Name != nil {
		if err := account.Rename(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.ClearParent {
		if err := account.SetParent(nil); err != nil {
			return nil, err
		}
	} else if input.ParentID != nil {
		if err := s.requireActiveParent(ctx, *input.ParentID); err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, id, *input.ParentID); err != nil {
			return nil, err
		}
		if err := account.SetParent(input.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Accounts().SaveWithLock(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ArchiveAccount soft-deletes an account. Accounts with active
// children cannot be archived; historical postings are no obstacle.
func (s *RegistryService) ArchiveAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewNotFoundError("account", id)
	}

	children, err := s.repos.Accounts().FindActiveChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainErrorf(domain.ErrCodeHasActiveChildren,
			"account %s has %d active sub-accounts", account.Code, len(children))
	}

	if err := account.Archive(); err != nil {
		return err
	}
	if err := s.repos.Accounts().SaveWithLock(ctx, account); err != nil {
		return err
	}

	s.logger.Info("account archived", zap.String("account_id", id.String()), zap.String("code", account.Code))
	return nil
}

// GetAccount loads a single account
func (s *RegistryService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.ChartAccount, error) {
	account, err := s.repos.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewNotFoundError("account", id)
	}
	return account, nil
}

// ListAccounts returns accounts matching the filter
func (s *RegistryService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.ChartAccount, error) {
	return s.repos.Accounts().FindAll(ctx, filter)
}

// AccountBalance is an account's current balance with its natural side
type AccountBalance struct {
	Account     *domain.ChartAccount
	Balance     decimal.Decimal
	BalanceSide domain.BalanceSide
}

// GetAccountBalance computes opening balance plus all postings
func (s *RegistryService) GetAccountBalance(ctx context.Context, id uuid.UUID) (*AccountBalance, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	sum, err := s.repos.Postings().SumByAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AccountBalance{
		Account:     account,
		Balance:     account.OpeningBalance.Add(sum),
		BalanceSide: account.BalanceSide(),
	}, nil
}

// LedgerEntry is one row of an account ledger with a running balance
type LedgerEntry struct {
	PostingID      uuid.UUID
	SequenceNumber string
	Date           time.Time
	Debit          *decimal.Decimal
	Credit         *decimal.Decimal
	Balance        decimal.Decimal
	Reference      string
}

// AccountLedger is the chronological statement of an account
type AccountLedger struct {
	Account      *domain.ChartAccount
	Entries      []LedgerEntry
	FinalBalance decimal.Decimal
	TotalEntries int
}

// GetAccountLedger returns the account's postings in chronological
// order with a running balance that starts at zero.
func (s *RegistryService) GetAccountLedger(ctx context.Context, id uuid.UUID, from, to *time.Time) (*AccountLedger, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	postings, err := s.repos.Postings().FindByAccount(ctx, id, from, to)
	if err != nil {
		return nil, err
	}

	running := decimal.Zero
	entries := make([]LedgerEntry, 0, len(postings))
	for _, p := range postings {
		running = running.Add(p.Amount)
		entry := LedgerEntry{
			PostingID:      p.ID,
			SequenceNumber: p.SequenceNumber,
			Date:           p.CreatedAt,
			Balance:        running,
			Reference:      p.Reference,
		}
		if p.IsDebit() {
			amt := p.Amount
			entry.Debit = &amt
		} else {
			amt := p.Amount.Abs()
			entry.Credit = &amt
		}
		entries = append(entries, entry)
	}

	return &AccountLedger{
		Account:      account,
		Entries:      entries,
		FinalBalance: running,
		TotalEntries: len(entries),
	}, nil
}

// TrialBalanceReport summarizes opening balances by natural side
type TrialBalanceReport struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	Balanced    bool
}

// trialBalanceEpsilon tolerates rounding drift in opening balances
var trialBalanceEpsilon = decimal.NewFromFloat(0.01)

// ValidateTrialBalance checks that active balance-sheet accounts'
// opening balances net out. Only ASSET counts toward the debit total
// and only LIABILITY and EQUITY toward the credit total; income and
// expense accounts carry period activity, not opening positions.
func (s *RegistryService) ValidateTrialBalance(ctx context.Context) (*TrialBalanceReport, error) {
	accounts, err := s.repos.Accounts().FindAll(ctx, domain.AccountFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, a := range accounts {
		switch a.Kind {
		case domain.KindAsset:
			totalDebit = totalDebit.Add(a.OpeningBalance)
		case domain.KindLiability, domain.KindEquity:
			totalCredit = totalCredit.Add(a.OpeningBalance)
		}
	}

	diff := totalDebit.Sub(totalCredit)
	return &TrialBalanceReport{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  diff,
		Balanced:    diff.Abs().LessThanOrEqual(trialBalanceEpsilon),
	}, nil
}

// requireActiveParent validates a parent reference
func (s *RegistryService) requireActiveParent(ctx context.Context, parentID uuid.UUID) error {
	parent, err := s.repos.Accounts().FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil || !parent.Active {
		return shared.NewDomainErrorf(domain.ErrCodeInvalidParent, "parent account %s not found or archived", parentID)
	}
	return nil
}

// checkNoCycle walks up from the candidate parent and rejects the
// re-parenting if the account appears among its own ancestors.
func (s *RegistryService) checkNoCycle(ctx context.Context, accountID, parentID uuid.UUID) error {
	current := &parentID
	for depth := 0; current != nil && depth < 64; depth++ {
		if *current == accountID {
			return shared.NewDomainError(domain.ErrCodeSelfParent, "account cannot be its own ancestor")
		}
		node, err := s.repos.Accounts().FindByID(ctx, *current)
		if err != nil {
			return err
		}
		if node == nil {
			return nil
		}
		current = node.ParentID
	}
	return nil
}
