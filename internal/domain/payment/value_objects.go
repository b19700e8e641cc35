package payment

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

const DefaultCurrency = "usd"

var currencyRegex = regexp.MustCompile(`^[a-z]{3}$`)

// Amount is in the currency's minor unit.
type Amount struct {
	cents int64
}

func NewAmount(cents int64) (Amount, error) {
	if cents <= 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{cents: cents}, nil
}

func (a Amount) Cents() int64 {
	return a.cents
}

type Currency struct {
	code string
}

// NewCurrency lower-cases s. An empty code falls back to DefaultCurrency.
func NewCurrency(s string) (Currency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultCurrency
	}
	if !currencyRegex.MatchString(s) {
		return Currency{}, ErrInvalidCurrency
	}
	return Currency{code: s}, nil
}

func (c Currency) Code() string {
	return c.code
}
