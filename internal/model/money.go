package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the closed set of currencies a showtime can be priced in.
type Currency string

const (
	PLN Currency = "PLN"
	EUR Currency = "EUR"
)

var (
	// ErrUnknownCurrency is returned for codes outside the supported set.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrNegativeAmount is returned when a price amount is below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case PLN, EUR:
		return true
	}
	return false
}

// ParseCurrency accepts a currency code in any letter case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// Money is a non-negative amount in one of the supported currencies.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney validates the amount and currency.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if !currency.Valid() {
		return Money{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(currency))
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Equal compares amount numerically, so 20 and 20.00 are equal.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

// String renders the amount with two decimals followed by the code, e.g. "20.00 PLN".
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + string(m.Currency)
}
