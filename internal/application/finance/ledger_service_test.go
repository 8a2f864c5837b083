package finance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

func TestPostInvoiceIssued(t *testing.T) {
	f := newFixture(t)
	accounts := f.seedRequiredAccounts(t)
	contact := f.seedContact(t)
	invoice := f.seedInvoice(t, "INV-2025-001", contact.ID, 1180.00, 30*24*time.Hour)

	svc := NewLedgerService(f.uow, f.logger)
	ctx := context.Background()

	result, err := svc.PostInvoiceIssued(ctx, invoice.ID, f.actor)
	require.NoError(t, err)
	require.Len(t, result.Postings, 2)
	assert.False(t, result.AlreadyPosted)

	debit, credit := result.Postings[0], result.Postings[1]
	assert.True(t, strings.HasPrefix(debit.SequenceNumber, "INV-DEBT-"))
	assert.True(t, strings.HasPrefix(credit.SequenceNumber, "INV-SALES-"))
	assert.Equal(t, accounts[domain.CodeDebtors].ID, debit.AccountID)
	assert.Equal(t, accounts[domain.CodeSales].ID, credit.AccountID)
	assert.Equal(t, domain.PostingPending, debit.Status)
	assert.Equal(t, domain.PostingCompleted, credit.Status)
	assert.Equal(t, domain.PostingReceived, debit.Kind)
	assert.True(t, debit.Amount.Add(credit.Amount).IsZero())

	// second posting is a no-op
	again, err := svc.PostInvoiceIssued(ctx, invoice.ID, f.actor)
	require.NoError(t, err)
	assert.True(t, again.AlreadyPosted)

	all, err := f.repos.Postings().FindByInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostBillReceived(t *testing.T) {
	f := newFixture(t)
	accounts := f.seedRequiredAccounts(t)
	contact := f.seedContact(t)
	bill := f.seedBill(t, "BILL-2025-007", contact.ID, 2500.00, 15*24*time.Hour)

	svc := NewLedgerService(f.uow, f.logger)
	ctx := context.Background()

	result, err := svc.PostBillReceived(ctx, bill.ID, f.actor)
	require.NoError(t, err)
	require.Len(t, result.Postings, 2)

	debit, credit := result.Postings[0], result.Postings[1]
	assert.True(t, strings.HasPrefix(debit.SequenceNumber, "BILL-CRED-"))
	assert.True(t, strings.HasPrefix(credit.SequenceNumber, "BILL-BANK-"))
	assert.Equal(t, accounts[domain.CodeCreditors].ID, debit.AccountID)
	assert.Equal(t, accounts[domain.CodeBank].ID, credit.AccountID)
	assert.Equal(t, domain.PostingPaid, debit.Kind)
	assert.Equal(t, domain.PostingCompleted, debit.Status)
	assert.Equal(t, domain.PostingCompleted, credit.Status)
	assert.True(t, debit.Amount.Add(credit.Amount).IsZero())
}

func TestPostInvoiceMissingRequiredAccount(t *testing.T) {
	f := newFixture(t)
	contact := f.seedContact(t)
	invoice := f.seedInvoice(t, "INV-2025-001", contact.ID, 100, 24*time.Hour)

	svc := NewLedgerService(f.uow, f.logger)

	_, err := svc.PostInvoiceIssued(context.Background(), invoice.ID, f.actor)
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, domain.ErrCodeMissingRequiredAccount))
}

func TestEnsureRequiredAccounts(t *testing.T) {
	f := newFixture(t)
	svc := NewLedgerService(f.uow, f.logger)
	ctx := context.Background()

	result, err := svc.EnsureRequiredAccounts(ctx, f.actor)
	require.NoError(t, err)
	assert.Len(t, result.Created, 4)
	assert.Empty(t, result.Existing)

	// idempotent on rerun
	result, err = svc.EnsureRequiredAccounts(ctx, f.actor)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Len(t, result.Existing, 4)

	bank, err := f.repos.Accounts().FindByCode(ctx, domain.CodeBank)
	require.NoError(t, err)
	require.NotNil(t, bank)
	assert.Equal(t, domain.KindAsset, bank.Kind)
}

func TestPostingStampNeverRepeats(t *testing.T) {
	seen := make(map[int64]struct{}, 1000)
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		ts := postingStamp()
		assert.Greater(t, ts, prev)
		if _, dup := seen[ts]; dup {
			t.Fatalf("stamp %d issued twice", ts)
		}
		seen[ts] = struct{}{}
		prev = ts
	}
}

func TestPostInvoicesBackToBackGetDistinctNumbers(t *testing.T) {
	f := newFixture(t)
	f.seedRequiredAccounts(t)
	contact := f.seedContact(t)
	first := f.seedInvoice(t, "INV-2025-010", contact.ID, 500.00, 30*24*time.Hour)
	second := f.seedInvoice(t, "INV-2025-011", contact.ID, 750.00, 30*24*time.Hour)

	svc := NewLedgerService(f.uow, f.logger)
	ctx := context.Background()

	resultA, err := svc.PostInvoiceIssued(ctx, first.ID, f.actor)
	require.NoError(t, err)
	resultB, err := svc.PostInvoiceIssued(ctx, second.ID, f.actor)
	require.NoError(t, err)

	numbers := make(map[string]struct{})
	for _, p := range append(resultA.Postings, resultB.Postings...) {
		numbers[p.SequenceNumber] = struct{}{}
	}
	assert.Len(t, numbers, 4)
}
