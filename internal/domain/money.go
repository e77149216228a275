package domain

import "github.com/shopspring/decimal"

// Money is an exact decimal amount. The zero value is zero money.
// All operations return new values; nothing mutates in place and
// nothing truncates precision.
type Money struct {
	amount decimal.Decimal
}

// Zero returns zero money.
func Zero() Money {
	return Money{}
}

// NewMoney wraps a decimal amount.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromString parses a decimal string such as "120.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// MoneyFromInt builds money from a whole number of currency units.
func MoneyFromInt(n int64) Money {
	return Money{amount: decimal.NewFromInt(n)}
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// MulInt multiplies the amount by an integer count.
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool {
	return m.amount.GreaterThan(o.amount)
}

// Equal reports numeric equality regardless of exponent.
func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// Max returns the larger of m and o.
func (m Money) Max(o Money) Money {
	if o.GreaterThan(m) {
		return o
	}
	return m
}

// Decimal exposes the underlying decimal for persistence.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// String renders the exact amount.
func (m Money) String() string { return m.amount.String() }

// StringFixed renders the amount with two decimal places for exports.
func (m Money) StringFixed() string { return m.amount.StringFixed(2) }

// MarshalJSON renders the amount as a JSON string to avoid float rounding.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.amount.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare number.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.amount = d
	return nil
}

// ConsignmentCount is a non-negative number of billable deliveries.
type ConsignmentCount int

// NewConsignmentCount rejects negative counts.
func NewConsignmentCount(n int) (ConsignmentCount, error) {
	if n < 0 {
		return 0, ErrNegativeCount
	}
	return ConsignmentCount(n), nil
}

func (c ConsignmentCount) Add(n ConsignmentCount) ConsignmentCount {
	return c + n
}

func (c ConsignmentCount) Int() int { return int(c) }
