package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
)

type fixture struct {
	repos  *memRepos
	uow    *memUoW
	logger *zap.Logger
	actor  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := newMemRepos()
	return &fixture{
		repos:  repos,
		uow:    &memUoW{repos: repos},
		logger: zap.NewNop(),
		actor:  uuid.New(),
	}
}

func (f *fixture) seedRequiredAccounts(t *testing.T) map[string]*domain.ChartAccount {
	t.Helper()
	ctx := context.Background()
	out := make(map[string]*domain.ChartAccount)
	for _, req := range domain.RequiredAccounts() {
		acct, err := domain.NewChartAccount(req.Code, req.Name, req.Kind, nil, decimal.Zero, f.actor)
		require.NoError(t, err)
		require.NoError(t, f.repos.Accounts().Save(ctx, acct))
		out[req.Code] = acct
	}
	return out
}

func (f *fixture) seedContact(t *testing.T) *domain.Contact {
	t.Helper()
	contact, err := domain.NewContact("Acme Traders", "accounts@acme.test", "+919800000001", domain.ContactBoth)
	require.NoError(t, err)
	require.NoError(t, f.repos.Contacts().Save(context.Background(), contact))
	return contact
}

func (f *fixture) seedSystemUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser(identity.SystemUserEmail, "System", identity.RoleSystem)
	require.NoError(t, err)
	require.NoError(t, f.repos.Users().Save(context.Background(), user))
	return user
}

func (f *fixture) seedInvoice(t *testing.T, number string, contactID uuid.UUID, total float64, dueIn time.Duration) *domain.CustomerInvoice {
	t.Helper()
	due := time.Now().Add(dueIn)
	inv, err := domain.NewCustomerInvoice(number, contactID, due.AddDate(0, 0, -30), due,
		decimal.NewFromFloat(total), decimal.Zero, f.actor)
	require.NoError(t, err)
	require.NoError(t, f.repos.Invoices().Save(context.Background(), inv))
	return inv
}

func (f *fixture) seedBill(t *testing.T, number string, contactID uuid.UUID, total float64, dueIn time.Duration) *domain.VendorBill {
	t.Helper()
	due := time.Now().Add(dueIn)
	bill, err := domain.NewVendorBill(number, contactID, due.AddDate(0, 0, -30), due,
		decimal.NewFromFloat(total), decimal.Zero, f.actor)
	require.NoError(t, err)
	require.NoError(t, f.repos.Bills().Save(context.Background(), bill))
	return bill
}
