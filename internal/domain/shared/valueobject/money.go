package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// DefaultCurrency is used when nothing else is specified
const DefaultCurrency = INR

// IsValid checks if the currency is supported
func (c Currency) IsValid() bool {
	switch c {
	case INR, USD, EUR:
		return true
	}
	return false
}

// Money represents a monetary amount in a specific currency.
// Amounts are stored as arbitrary-precision decimals; conversion to
// the gateway's minor unit happens only at the integration boundary.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new money value
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("invalid currency: %s", currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyINR creates an INR money value
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: INR}
}

// NewMoneyINRFromFloat creates an INR money value from a float
func NewMoneyINRFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: INR}
}

// NewMoneyINRFromString parses a decimal string into an INR money value
func NewMoneyINRFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{amount: d, currency: INR}, nil
}

// NewMoneyFromPaise converts a minor-unit amount (paise) back to money
func NewMoneyFromPaise(paise int64, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)), currency: currency}
}

// ZeroINR returns a zero INR money value
func ZeroINR() Money {
	return Money{amount: decimal.Zero, currency: INR}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency
func (m Money) Currency() Currency {
	return m.currency
}

// Paise converts the amount to the currency's minor unit, rounded
// half away from zero to the nearest integer.
func (m Money) Paise() int64 {
	return m.amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive checks if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative checks if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add adds two money values of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s != %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract subtracts a money value of the same currency
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s != %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MustAdd adds two money values, panicking on currency mismatch.
// Use only where both operands are known to share a currency.
func (m Money) MustAdd(other Money) Money {
	r, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return r
}

// Negate returns the money with the opposite sign
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns the absolute value
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Equals checks value equality
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// GreaterThanOrEqual compares two money values of the same currency
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.currency == other.currency && m.amount.GreaterThanOrEqual(other.amount)
}

// LessThan compares two money values of the same currency
func (m Money) LessThan(other Money) bool {
	return m.currency == other.currency && m.amount.LessThan(other.amount)
}

// String formats the money value for display
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed returns the amount with two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(2), Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw.Amount, err)
	}
	if !raw.Currency.IsValid() {
		return fmt.Errorf("invalid currency: %s", raw.Currency)
	}
	m.amount = amount
	m.currency = raw.Currency
	return nil
}

// Value implements driver.Valuer, storing only the amount
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner, assuming the default currency
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}
