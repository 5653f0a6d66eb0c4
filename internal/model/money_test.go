package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyString(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(20), PLN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.String(); got != "20.00 PLN" {
		t.Fatalf("expected %q, got %q", "20.00 PLN", got)
	}

	m, _ = NewMoney(decimal.RequireFromString("12.5"), EUR)
	if got := m.String(); got != "12.50 EUR" {
		t.Fatalf("expected %q, got %q", "12.50 EUR", got)
	}
}

func TestNewMoneyRejectsNegativeAmount(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("-0.01"), PLN)
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestNewMoneyRejectsUnknownCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(1), Currency("USD"))
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestMoneyEqualIgnoresScale(t *testing.T) {
	a := Money{Amount: decimal.RequireFromString("20"), Currency: PLN}
	b := Money{Amount: decimal.RequireFromString("20.00"), Currency: PLN}
	if !a.Equal(b) {
		t.Fatal("expected 20 PLN to equal 20.00 PLN")
	}
	if a.Equal(Money{Amount: a.Amount, Currency: EUR}) {
		t.Fatal("expected different currencies to differ")
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" eur ")
	if err != nil || c != EUR {
		t.Fatalf("expected EUR, got %q (%v)", c, err)
	}
	if _, err := ParseCurrency("GBP"); err == nil {
		t.Fatal("expected an error for GBP")
	}
}
