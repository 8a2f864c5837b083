package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(100.50), INR)
	require.NoError(t, err)
	assert.Equal(t, "100.50", m.StringFixed())
	assert.Equal(t, INR, m.Currency())

	_, err = NewMoney(decimal.NewFromInt(1), Currency("XYZ"))
	assert.Error(t, err)
}

func TestMoneyPaise(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		paise  int64
	}{
		{"whole rupees", 100, 10000},
		{"with paise", 1180.00, 118000},
		{"rounds half up", 10.005, 1001},
		{"sub paise truncated by rounding", 0.004, 0},
		{"negative", -40.50, -4050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneyINRFromFloat(tt.amount)
			assert.Equal(t, tt.paise, m.Paise())
		})
	}
}

func TestNewMoneyFromPaise(t *testing.T) {
	m := NewMoneyFromPaise(118000, INR)
	assert.True(t, m.Equals(NewMoneyINRFromFloat(1180.00)))

	m = NewMoneyFromPaise(50, "")
	assert.Equal(t, INR, m.Currency())
	assert.Equal(t, "0.50", m.StringFixed())
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyINRFromFloat(100)
	b := NewMoneyINRFromFloat(40)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "140.00", sum.StringFixed())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "60.00", diff.StringFixed())

	usd, _ := NewMoney(decimal.NewFromInt(1), USD)
	_, err = a.Add(usd)
	assert.Error(t, err)

	assert.True(t, a.GreaterThanOrEqual(b))
	assert.True(t, b.LessThan(a))
	assert.True(t, a.Negate().IsNegative())
	assert.True(t, a.Negate().Abs().Equals(a))
}

func TestMoneyDecimalPrecision(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3
	a, err := NewMoneyINRFromString("0.1")
	require.NoError(t, err)
	b, err := NewMoneyINRFromString("0.2")
	require.NoError(t, err)

	sum := a.MustAdd(b)
	expected, _ := NewMoneyINRFromString("0.3")
	assert.True(t, sum.Equals(expected))
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyINRFromFloat(1180)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1180.00","currency":"INR"}`, string(data))

	var out Money
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Equals(m))

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc","currency":"INR"}`), &out))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1","currency":"XYZ"}`), &out))
}
