// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromInt creates a Money value from a whole amount.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MaxZero clamps negative amounts to zero.
func MaxZero(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

// Quantity is a whole number of bottles.
// Signed so that deltas and transient negative counters can be expressed.
type Quantity int64

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

// Money converts the count to a Money multiplier.
func (q Quantity) Money() Money {
	return decimal.NewFromInt(int64(q))
}

// Times returns q × unit price.
func (q Quantity) Times(price Money) Money {
	return price.Mul(q.Money())
}

// MaxZeroQuantity clamps negative counts to zero.
func MaxZeroQuantity(q Quantity) Quantity {
	if q < 0 {
		return 0
	}
	return q
}
