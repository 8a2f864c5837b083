package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// AccountKind classifies an account in the chart of accounts
type AccountKind string

const (
	KindAsset     AccountKind = "ASSET"
	KindLiability AccountKind = "LIABILITY"
	KindIncome    AccountKind = "INCOME"
	KindExpense   AccountKind = "EXPENSE"
	KindEquity    AccountKind = "EQUITY"
)

// IsValid checks if the account kind is known
func (k AccountKind) IsValid() bool {
	switch k {
	case KindAsset, KindLiability, KindIncome, KindExpense, KindEquity:
		return true
	}
	return false
}

// BalanceSide indicates which side of the ledger an account grows on
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// BalanceSide returns the natural balance side for the kind.
// Assets and expenses carry debit balances, everything else credit.
func (k AccountKind) BalanceSide() BalanceSide {
	if k == KindAsset || k == KindExpense {
		return SideDebit
	}
	return SideCredit
}

// Reserved codes for the accounts every ledger operation relies on
const (
	CodeBank      = "BANK-001"
	CodeDebtors   = "DEBT-001"
	CodeCreditors = "CRED-001"
	CodeSales     = "SALES-001"
)

// RequiredAccount describes one of the fixed accounts the posting
// engine expects to exist.
type RequiredAccount struct {
	Name string
	Code string
	Kind AccountKind
}

// RequiredAccounts lists the fixed accounts in creation order
func RequiredAccounts() []RequiredAccount {
	return []RequiredAccount{
		{Name: "Bank A/c", Code: CodeBank, Kind: KindAsset},
		{Name: "Debtors A/c", Code: CodeDebtors, Kind: KindAsset},
		{Name: "Creditors A/c", Code: CodeCreditors, Kind: KindLiability},
		{Name: "Sales Income A/c", Code: CodeSales, Kind: KindIncome},
	}
}

// Account-specific error codes
const (
	ErrCodeDuplicateCode          = "DUPLICATE_CODE"
	ErrCodeInvalidParent          = "INVALID_PARENT"
	ErrCodeSelfParent             = "SELF_PARENT"
	ErrCodeHasActiveChildren      = "HAS_ACTIVE_CHILDREN"
	ErrCodeMissingRequiredAccount = "MISSING_REQUIRED_ACCOUNT"
)

// ChartAccount is a node in the chart of accounts. Code is unique
// across the chart and immutable once created.
type ChartAccount struct {
	shared.BaseAggregateRoot
	Code           string
	Name           string
	Kind           AccountKind
	ParentID       *uuid.UUID
	OpeningBalance decimal.Decimal
	Active         bool
	CreatedBy      uuid.UUID
}

// NewChartAccount creates a new active account
func NewChartAccount(code, name string, kind AccountKind, parentID *uuid.UUID, openingBalance decimal.Decimal, createdBy uuid.UUID) (*ChartAccount, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "account code is required")
	}
	if len(code) > 32 {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "account code must not exceed 32 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidInput, "account name is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInvalidInput, "invalid account kind: %s", kind)
	}
	return &ChartAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Kind:              kind,
		ParentID:          parentID,
		OpeningBalance:    openingBalance,
		Active:            true,
		CreatedBy:         createdBy,
	}, nil
}

// Rename changes the account name
func (a *ChartAccount) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "account name is required")
	}
	a.Name = name
	a.IncrementVersion()
	return nil
}

// SetParent reassigns the account under a new parent. Cycle detection
// against deeper ancestors happens in the service, which can load the
// chain.
func (a *ChartAccount) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == a.ID {
		return shared.NewDomainError(ErrCodeSelfParent, "account cannot be its own parent")
	}
	a.ParentID = parentID
	a.IncrementVersion()
	return nil
}

// Archive soft-deletes the account. Archived accounts keep their
// postings but reject new ones and disappear from active listings.
func (a *ChartAccount) Archive() error {
	if !a.Active {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidState, "account %s is already archived", a.Code)
	}
	a.Active = false
	a.IncrementVersion()
	return nil
}

// CanAcceptPosting reports whether new ledger entries may target this account
func (a *ChartAccount) CanAcceptPosting() bool {
	return a.Active
}

// BalanceSide returns the account's natural balance side
func (a *ChartAccount) BalanceSide() BalanceSide {
	return a.Kind.BalanceSide()
}
