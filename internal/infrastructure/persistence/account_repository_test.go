package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

func seedAccount(t *testing.T, repo *AccountRepository, code string, kind domain.AccountKind) *domain.ChartAccount {
	t.Helper()
	acct, err := domain.NewChartAccount(code, code+" account", kind, nil, decimal.Zero, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), acct))
	return acct
}

func TestAccountRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	acct, err := domain.NewChartAccount("BANK-001", "Bank A/c", domain.KindAsset, nil,
		decimal.NewFromFloat(1500.25), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, acct))

	loaded, err := repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "BANK-001", loaded.Code)
	assert.Equal(t, domain.KindAsset, loaded.Kind)
	assert.True(t, loaded.OpeningBalance.Equal(decimal.NewFromFloat(1500.25)))
	assert.Equal(t, 1, loaded.Version)

	byCode, err := repo.FindByCode(ctx, "BANK-001")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, acct.ID, byCode.ID)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := repo.ExistsByCode(ctx, "BANK-001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountRepositoryFindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	seedAccount(t, repo, "BANK-001", domain.KindAsset)
	seedAccount(t, repo, "SALES-001", domain.KindIncome)
	archived := seedAccount(t, repo, "OLD-001", domain.KindExpense)
	require.NoError(t, archived.Archive())
	require.NoError(t, repo.SaveWithLock(ctx, archived))

	all, err := repo.FindAll(ctx, domain.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.FindAll(ctx, domain.AccountFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	kind := domain.KindIncome
	income, err := repo.FindAll(ctx, domain.AccountFilter{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "SALES-001", income[0].Code)
}

func TestAccountRepositoryActiveChildren(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	parent := seedAccount(t, repo, "EXP-000", domain.KindExpense)

	child, err := domain.NewChartAccount("EXP-100", "Rent", domain.KindExpense, &parent.ID, decimal.Zero, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, child))

	children, err := repo.FindActiveChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "EXP-100", children[0].Code)

	require.NoError(t, child.Archive())
	require.NoError(t, repo.SaveWithLock(ctx, child))

	children, err = repo.FindActiveChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestAccountRepositorySaveWithLockConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	acct := seedAccount(t, repo, "BANK-001", domain.KindAsset)

	// two copies of the same version
	first, err := repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)

	require.NoError(t, first.Rename("Primary Bank"))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.Rename("Stale Rename"))
	err = repo.SaveWithLock(ctx, second)
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, shared.ErrCodeConcurrencyConflict))

	// the first write won
	current, err := repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Primary Bank", current.Name)
	assert.Equal(t, 2, current.Version)
}
