package valueobjects

import (
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/shopspring/decimal"
)

// maxAmount is the largest value a NUMERIC(12,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

// Money is a strictly positive amount with at most two decimal places.
// Trips have no currency; every amount on a trip is in the same unit.
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates amount.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, errors.ValidationFailed("invalid amount", "amount must be greater than zero")
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return Money{}, errors.ValidationFailed("invalid amount", "amount cannot have more than 2 decimal places")
	}
	if amount.GreaterThan(maxAmount) {
		return Money{}, errors.ValidationFailed("invalid amount", fmt.Sprintf("amount cannot exceed %s", maxAmount))
	}
	return Money{amount: amount.Round(2)}, nil
}

// NewMoneyFromString parses and validates a decimal string.
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errors.ValidationFailed("invalid amount format", err.Error())
	}
	return NewMoney(d)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// EqualShare is the amount each of n participants owes: the quotient rounded
// to two places, half away from zero. The shares may not sum back to the
// total; the difference is not redistributed.
func (m Money) EqualShare(n int) (decimal.Decimal, error) {
	if n <= 0 {
		return decimal.Zero, errors.ValidationFailed("invalid split", "number of parts must be positive")
	}
	return m.amount.Div(decimal.NewFromInt(int64(n))).Round(2), nil
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}
