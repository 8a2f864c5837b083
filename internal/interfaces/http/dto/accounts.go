package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
)

// CreateAccountRequest creates a new chart of accounts entry
type CreateAccountRequest struct {
	Code           string  `json:"code" binding:"required,max=32"`
	Name           string  `json:"name" binding:"required"`
	Kind           string  `json:"kind" binding:"required,oneof=ASSET LIABILITY INCOME EXPENSE EQUITY"`
	ParentID       *string `json:"parent_id" binding:"omitempty,uuid"`
	OpeningBalance string  `json:"opening_balance"`
}

// UpdateAccountRequest renames or re-parents an account
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	ParentID    *string `json:"parent_id" binding:"omitempty,uuid"`
	ClearParent bool    `json:"clear_parent"`
}

// AccountResponse is an account as returned to API clients
type AccountResponse struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Kind           string     `json:"kind"`
	ParentID       *uuid.UUID `json:"parent_id,omitempty"`
	OpeningBalance string     `json:"opening_balance"`
	Active         bool       `json:"active"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewAccountResponse maps an account aggregate to its API shape
func NewAccountResponse(a *domain.ChartAccount) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Kind:           string(a.Kind),
		ParentID:       a.ParentID,
		OpeningBalance: a.OpeningBalance.StringFixed(2),
		Active:         a.Active,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// NewAccountResponses maps a list of accounts
func NewAccountResponses(accounts []*domain.ChartAccount) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewAccountResponse(a))
	}
	return out
}

// AccountBalanceResponse reports an account's current balance
type AccountBalanceResponse struct {
	Account     AccountResponse `json:"account"`
	Balance     string          `json:"balance"`
	BalanceSide string          `json:"balance_side"`
}

// NewAccountBalanceResponse maps a balance result
func NewAccountBalanceResponse(b *appfinance.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		Account:     NewAccountResponse(b.Account),
		Balance:     b.Balance.StringFixed(2),
		BalanceSide: string(b.BalanceSide),
	}
}

// LedgerEntryResponse is one ledger row with its running balance
type LedgerEntryResponse struct {
	PostingID      uuid.UUID `json:"posting_id"`
	SequenceNumber string    `json:"sequence_number"`
	Date           time.Time `json:"date"`
	Debit          *string   `json:"debit,omitempty"`
	Credit         *string   `json:"credit,omitempty"`
	Balance        string    `json:"balance"`
	Reference      string    `json:"reference,omitempty"`
}

// AccountLedgerResponse is the chronological statement of an account
type AccountLedgerResponse struct {
	Account      AccountResponse       `json:"account"`
	Entries      []LedgerEntryResponse `json:"entries"`
	FinalBalance string                `json:"final_balance"`
	TotalEntries int                   `json:"total_entries"`
}

// NewAccountLedgerResponse maps a ledger result
func NewAccountLedgerResponse(l *appfinance.AccountLedger) AccountLedgerResponse {
	entries := make([]LedgerEntryResponse, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, LedgerEntryResponse{
			PostingID:      e.PostingID,
			SequenceNumber: e.SequenceNumber,
			Date:           e.Date,
			Debit:          formatAmount(e.Debit),
			Credit:         formatAmount(e.Credit),
			Balance:        e.Balance.StringFixed(2),
			Reference:      e.Reference,
		})
	}
	return AccountLedgerResponse{
		Account:      NewAccountResponse(l.Account),
		Entries:      entries,
		FinalBalance: l.FinalBalance.StringFixed(2),
		TotalEntries: l.TotalEntries,
	}
}

// TrialBalanceResponse reports whether opening balances net out
type TrialBalanceResponse struct {
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Difference  string `json:"difference"`
	Balanced    bool   `json:"balanced"`
}

// NewTrialBalanceResponse maps a trial balance report
func NewTrialBalanceResponse(r *appfinance.TrialBalanceReport) TrialBalanceResponse {
	return TrialBalanceResponse{
		TotalDebit:  r.TotalDebit.StringFixed(2),
		TotalCredit: r.TotalCredit.StringFixed(2),
		Difference:  r.Difference.StringFixed(2),
		Balanced:    r.Balanced,
	}
}

func formatAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
