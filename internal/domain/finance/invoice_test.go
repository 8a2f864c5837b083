package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared/valueobject"
)

func newTestInvoice(t *testing.T, total float64, dueDate time.Time) *CustomerInvoice {
	t.Helper()
	inv, err := NewCustomerInvoice("INV-2025-001", uuid.New(), dueDate.AddDate(0, 0, -30), dueDate,
		decimal.NewFromFloat(total), decimal.Zero, uuid.New())
	require.NoError(t, err)
	return inv
}

func TestNewCustomerInvoice(t *testing.T) {
	now := time.Now()

	_, err := NewCustomerInvoice("", uuid.New(), now, now, decimal.NewFromInt(100), decimal.Zero, uuid.New())
	assert.Error(t, err)

	_, err = NewCustomerInvoice("INV-1", uuid.Nil, now, now, decimal.NewFromInt(100), decimal.Zero, uuid.New())
	assert.Error(t, err)

	_, err = NewCustomerInvoice("INV-1", uuid.New(), now, now, decimal.Zero, decimal.Zero, uuid.New())
	assert.Error(t, err)

	_, err = NewCustomerInvoice("INV-1", uuid.New(), now, now.AddDate(0, 0, -1), decimal.NewFromInt(100), decimal.Zero, uuid.New())
	assert.Error(t, err)

	inv, err := NewCustomerInvoice("INV-1", uuid.New(), now, now.AddDate(0, 0, 30), decimal.NewFromInt(100), decimal.NewFromInt(18), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusUnpaid, inv.Status)
	assert.True(t, inv.IsPayable())
}

func TestInvoicePartialThenFullSettlement(t *testing.T) {
	due := time.Now().AddDate(0, 0, 30)
	inv := newTestInvoice(t, 1180.00, due)
	now := time.Now()

	require.NoError(t, inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(500.00), now))
	assert.Equal(t, StatusPartiallyPaid, inv.Status)
	assert.Equal(t, "680", inv.PendingAmount().String())

	require.NoError(t, inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(680.00), now))
	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, inv.PendingAmount().IsZero())
	assert.False(t, inv.IsPayable())
}

func TestInvoiceOverpaymentStaysPaid(t *testing.T) {
	inv := newTestInvoice(t, 100, time.Now().AddDate(0, 0, 10))
	now := time.Now()

	require.NoError(t, inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(150), now))
	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, inv.PendingAmount().IsZero())
}

func TestInvoiceOverdueOverride(t *testing.T) {
	due := time.Now().AddDate(0, 0, -1)
	inv := newTestInvoice(t, 1000, due)
	now := time.Now()

	inv.RefreshStatus(now)
	assert.Equal(t, StatusOverdue, inv.Status)

	// partial payment past the due date stays overdue
	require.NoError(t, inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(400), now))
	assert.Equal(t, StatusOverdue, inv.Status)

	// full payment wins over the due date
	require.NoError(t, inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(600), now))
	assert.Equal(t, StatusPaid, inv.Status)
}

func TestInvoiceApplySettlementRejectsNonPositive(t *testing.T) {
	inv := newTestInvoice(t, 100, time.Now().AddDate(0, 0, 10))
	err := inv.ApplySettlement(valueobject.ZeroINR(), time.Now())
	assert.Error(t, err)

	err = inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(-5), time.Now())
	assert.Error(t, err)
}

func TestInvoiceVersionTracksChanges(t *testing.T) {
	inv := newTestInvoice(t, 100, time.Now().AddDate(0, 0, 10))
	assert.Equal(t, 1, inv.Version)

	require.NoError(t, inv.ApplySettlement(valueobject.NewMoneyINRFromFloat(10), time.Now()))
	assert.Equal(t, 2, inv.Version)

	// no-op refresh does not bump the version
	inv.RefreshStatus(time.Now())
	assert.Equal(t, 2, inv.Version)
}
