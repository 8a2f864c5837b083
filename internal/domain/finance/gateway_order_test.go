package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGatewayOrder(t *testing.T) {
	order, err := NewGatewayOrder("order_R5Xabc", 118000, "INR", "rcpt_INV-2025-001", "", OrderSingleInvoice, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCreated, order.Status)
	assert.True(t, order.IsLive())

	order.MarkPaid()
	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.False(t, order.IsLive())

	_, err = NewGatewayOrder("", 118000, "INR", "r", "", OrderSingleInvoice, uuid.New())
	assert.Error(t, err)

	_, err = NewGatewayOrder("order_x", 0, "INR", "r", "", OrderSingleInvoice, uuid.New())
	assert.Error(t, err)

	_, err = NewGatewayOrder("order_x", 100, "INR", "r", "", OrderKind("BULK"), uuid.New())
	assert.Error(t, err)
}

func TestJoinSplitIDs(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	joined := JoinIDs(ids)
	parsed, err := SplitIDs(joined)
	require.NoError(t, err)
	assert.Equal(t, ids, parsed)

	empty, err := SplitIDs("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = SplitIDs("not-a-uuid")
	assert.Error(t, err)
}
