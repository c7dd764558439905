// Package core holds the domain model of the finance tracker: accounts,
// categories, transactions, recurring obligations, budgets, plus the money
// and calendar primitives the consistency kernel is built on.
package core

import (
	"encoding/json"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents. Signed arithmetic happens on Cents;
// floats never enter balance computations.
type Money struct {
	Cents int64
}

// Validate rejects non-positive amounts. Stored transaction and budget
// amounts are always positive; sign is carried by the transaction kind.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return Validationf("amount must be positive, got %d cents", m.Cents)
	}
	return nil
}

// ParseAmount converts a decimal string to Money. Both dot and comma decimal
// separators are accepted; anything past two fractional digits is rounded
// half up. The result must be positive.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, Validationf("amount cannot be empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, Validationf("invalid amount %q", s)
	}
	cents := d.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return Money{}, Validationf("amount %q must be positive", s)
	}
	return Money{Cents: cents}, nil
}

// Decimal returns the amount as an exact decimal value in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Display formats the amount for human-facing output, e.g. "R$1.234,56".
func (m Money) Display() string {
	return gomoney.New(m.Cents, gomoney.BRL).Display()
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as its integer cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Cents)
}

// UnmarshalJSON accepts integer cents.
func (m *Money) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &m.Cents)
}
