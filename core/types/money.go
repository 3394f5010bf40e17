// Package types - Money and exact decimal helpers
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// MinorUnits returns the number of decimal digits carried by final amounts
// in this currency
func (c Currency) MinorUnits() int32 {
	switch c {
	case CurrencyJPY:
		return 0
	default:
		return 2
	}
}

// Money is an exact decimal amount tagged with a currency. Intermediate
// values may carry more precision than the currency's minor unit; rounding
// happens once, at a well-defined point, via Ceil.
type Money struct {
	// Amount is the exact decimal amount
	Amount decimal.Decimal `json:"amount"`

	// Currency is the amount's currency
	Currency Currency `json:"currency"`
}

// Zero returns a zero amount in the given currency
func Zero(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// NewMoney creates a Money value
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// Mul returns m scaled by factor, without rounding
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// Ceil rounds the amount up to the currency's minor-unit precision. Item and
// charge prices never round down: ties and fractions go toward larger
// merchant revenue, and the final remainder computed by subtraction from an
// exact total absorbs the accumulated rounding.
func (m Money) Ceil() Money {
	return Money{Amount: m.Amount.RoundCeil(m.Currency.MinorUnits()), Currency: m.Currency}
}

// ClampZero raises negative amounts to zero
func (m Money) ClampZero() Money {
	if m.Amount.IsNegative() {
		return Zero(m.Currency)
	}
	return m
}

// IsZero reports whether the amount is exactly zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal reports whether two amounts are numerically equal
func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount)
}

// String renders the amount at minor-unit precision
func (m Money) String() string {
	return m.Amount.StringFixed(m.Currency.MinorUnits()) + " " + string(m.Currency)
}

// SafeRatio returns num/den, defaulting to 1 when den is exactly zero. A zero
// original total means the discount factor has no effect, never a division
// panic.
func SafeRatio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.NewFromInt(1)
	}
	return num.Div(den)
}

// PaidFraction returns (total-outstanding)/total, or 0 when total is zero.
// An order with a zero total has nothing paid against it.
func PaidFraction(total, outstanding decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return total.Sub(outstanding).Div(total)
}
