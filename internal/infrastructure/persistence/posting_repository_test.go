package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
)

func savePosting(t *testing.T, repo *PostingRepository, seq string, accountID uuid.UUID, amount float64) *domain.Posting {
	t.Helper()
	kind := domain.PostingReceived
	if amount < 0 {
		kind = domain.PostingPaid
	}
	p, err := domain.NewPosting(seq, kind, decimal.NewFromFloat(amount), accountID,
		domain.PostingCompleted, domain.MethodBankTransfer, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestPostingRepositorySumByAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostingRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	savePosting(t, repo, "INV-DEBT-1001", accountID, 100)
	savePosting(t, repo, "PAY-20250830-001", accountID, -40)
	savePosting(t, repo, "INV-DEBT-1002", accountID, 10)
	savePosting(t, repo, "INV-DEBT-1003", uuid.New(), 999)

	sum, err := repo.SumByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "70", sum.String())

	empty, err := repo.SumByAccount(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestPostingRepositoryFindByAccountWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostingRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	savePosting(t, repo, "INV-DEBT-2001", accountID, 100)
	savePosting(t, repo, "INV-DEBT-2002", accountID, 200)

	all, err := repo.FindByAccount(ctx, accountID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "INV-DEBT-2001", all[0].SequenceNumber)

	future := time.Now().Add(time.Hour)
	none, err := repo.FindByAccount(ctx, accountID, &future, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	past := time.Now().Add(-time.Hour)
	windowed, err := repo.FindByAccount(ctx, accountID, &past, &future)
	require.NoError(t, err)
	assert.Len(t, windowed, 2)
}

func TestPostingRepositoryFindByLinkedDocument(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostingRepository(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	p := savePosting(t, repo, "INV-DEBT-3001", uuid.New(), 500)
	require.NoError(t, p.LinkInvoice(invoiceID))
	require.NoError(t, repo.Save(ctx, p))

	linked, err := repo.FindByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "INV-DEBT-3001", linked[0].SequenceNumber)

	other, err := repo.FindByInvoice(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPostingRepositoryNextPaymentNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostingRepository(db)
	ctx := context.Background()

	today := time.Now()
	prefix := fmt.Sprintf("PAY-%s", today.Format("20060102"))

	first, err := repo.NextPaymentNumber(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, prefix+"-001", first)

	savePosting(t, repo, first, uuid.New(), 100)

	second, err := repo.NextPaymentNumber(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, prefix+"-002", second)

	// a different day starts its own sequence
	tomorrow := today.AddDate(0, 0, 1)
	next, err := repo.NextPaymentNumber(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PAY-%s-001", tomorrow.Format("20060102")), next)
}
